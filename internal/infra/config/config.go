package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	StorageMemory = "memory"
	StorageMongo  = "mongo"
)

// Config is the full process configuration, read once at startup from the
// environment.
type Config struct {
	Env      string
	HTTPAddr string

	Storage  string
	MongoURI string
	MongoDB  string

	KafkaBrokers   []string
	KafkaTopicBase string
	KafkaGroupID   string

	OutboxPollInterval time.Duration
	OutboxBatchSize    int
	OutboxMaxAttempts  int

	PaymentAPIURL        string
	PaymentSecretKey     string
	PaymentWebhookSecret string
	CheckoutSuccessURL   string
	CheckoutCancelURL    string

	SendGridAPIKey string
	EmailFrom      string
	EmailFromName  string

	S3Endpoint  string
	S3AccessKey string
	S3SecretKey string
	S3Bucket    string
	S3UseSSL    bool
	S3PublicURL string

	SessionTTL    time.Duration
	AdminEmail    string
	AdminPassword string

	CORSOrigins []string
}

// Load reads the environment and validates the combinations that cannot
// work at runtime.
func Load() (Config, error) {
	cfg := Config{
		Env:      getEnv("APP_ENV", "dev"),
		HTTPAddr: getEnv("HTTP_ADDR", ":8080"),

		Storage:  strings.ToLower(getEnv("STORAGE", StorageMemory)),
		MongoURI: os.Getenv("MONGO_URI"),
		MongoDB:  getEnv("MONGO_DB", "staykit"),

		KafkaBrokers:   splitEnv("KAFKA_BROKERS"),
		KafkaTopicBase: getEnv("KAFKA_TOPIC_BASE", "staykit"),
		KafkaGroupID:   getEnv("KAFKA_GROUP_ID", "staykit-notify"),

		OutboxPollInterval: parseDurationEnv("OUTBOX_POLL_INTERVAL", 2*time.Second),
		OutboxBatchSize:    parseIntEnv("OUTBOX_BATCH_SIZE", 50),
		OutboxMaxAttempts:  parseIntEnv("OUTBOX_MAX_ATTEMPTS", 8),

		PaymentAPIURL:        getEnv("PAYMENT_API_URL", "https://api.stripe.com"),
		PaymentSecretKey:     os.Getenv("PAYMENT_SECRET_KEY"),
		PaymentWebhookSecret: os.Getenv("PAYMENT_WEBHOOK_SECRET"),
		CheckoutSuccessURL:   getEnv("CHECKOUT_SUCCESS_URL", "http://localhost:3000/booking/success"),
		CheckoutCancelURL:    getEnv("CHECKOUT_CANCEL_URL", "http://localhost:3000/booking/cancelled"),

		SendGridAPIKey: os.Getenv("SENDGRID_API_KEY"),
		EmailFrom:      getEnv("EMAIL_FROM", "bookings@staykit.local"),
		EmailFromName:  getEnv("EMAIL_FROM_NAME", "StayKit Bookings"),

		S3Endpoint:  os.Getenv("S3_ENDPOINT"),
		S3AccessKey: os.Getenv("S3_ACCESS_KEY"),
		S3SecretKey: os.Getenv("S3_SECRET_KEY"),
		S3Bucket:    getEnv("S3_BUCKET", "staykit-photos"),
		S3UseSSL:    parseBoolEnv("S3_USE_SSL", false),
		S3PublicURL: os.Getenv("S3_PUBLIC_URL"),

		SessionTTL:    parseDurationEnv("SESSION_TTL", 24*time.Hour),
		AdminEmail:    getEnv("ADMIN_EMAIL", "admin@staykit.local"),
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),

		CORSOrigins: splitEnv("CORS_ORIGINS"),
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch c.Storage {
	case StorageMemory:
	case StorageMongo:
		if c.MongoURI == "" {
			return errors.New("config: MONGO_URI is required when STORAGE=mongo")
		}
	default:
		return fmt.Errorf("config: unknown STORAGE %q", c.Storage)
	}
	if c.PaymentSecretKey != "" && c.PaymentWebhookSecret == "" {
		return errors.New("config: PAYMENT_WEBHOOK_SECRET is required when payments are enabled")
	}
	return nil
}

// PaymentsEnabled reports whether a real payment provider is configured;
// without one, checkout runs in a local fake mode for development.
func (c Config) PaymentsEnabled() bool {
	return c.PaymentSecretKey != ""
}

func (c Config) KafkaEnabled() bool {
	return len(c.KafkaBrokers) > 0
}

func (c Config) EmailEnabled() bool {
	return c.SendGridAPIKey != ""
}

func (c Config) S3Enabled() bool {
	return c.S3Endpoint != ""
}

func (c Config) IsDev() bool {
	return c.Env == "dev" || c.Env == "development" || c.Env == "local"
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func splitEnv(key string) []string {
	raw := os.Getenv(key)
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func parseDurationEnv(key string, fallback time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}
	return d
}

func parseIntEnv(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}

func parseBoolEnv(key string, fallback bool) bool {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return fallback
	}
	return b
}
