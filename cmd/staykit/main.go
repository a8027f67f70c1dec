package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"staykit/internal/app/commands"
	"staykit/internal/app/handlers/admin"
	"staykit/internal/app/handlers/bookings"
	"staykit/internal/app/handlers/calendars"
	"staykit/internal/app/handlers/notify"
	"staykit/internal/app/handlers/properties"
	"staykit/internal/app/middleware"
	appoutbox "staykit/internal/app/outbox"
	"staykit/internal/app/policies"
	"staykit/internal/app/queries"
	authsvc "staykit/internal/app/services/auth"
	"staykit/internal/app/uow"
	"staykit/internal/domain/auth"
	"staykit/internal/domain/booking"
	"staykit/internal/domain/calendar"
	"staykit/internal/domain/property"
	"staykit/internal/domain/user"
	"staykit/internal/infra/broker/kafka"
	"staykit/internal/infra/config"
	"staykit/internal/infra/db/mongo"
	"staykit/internal/infra/email"
	ginhttp "staykit/internal/infra/http/gin"
	"staykit/internal/infra/obs"
	"staykit/internal/infra/outbox"
	"staykit/internal/infra/payments"
	"staykit/internal/infra/security"
	"staykit/internal/infra/storage/memory"
	"staykit/internal/infra/storage/s3"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("configuration invalid", "err", err)
		os.Exit(1)
	}
	log := obs.NewLogger(cfg.Env)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("fatal", "err", err)
		os.Exit(1)
	}
}

type storageSet struct {
	factory     uow.Factory
	properties  property.Repository
	calendars   calendar.Repository
	bookings    booking.Repository
	users       user.Repository
	sessions    auth.SessionStore
	idempotency middleware.IdempotencyStore
	outboxStore outbox.Store
	ready       []obs.ReadinessCheck
}

func run(ctx context.Context, cfg config.Config, log *slog.Logger) error {
	storage, err := openStorage(ctx, cfg, log)
	if err != nil {
		return err
	}

	accounts := authsvc.NewService(authsvc.Config{
		Users:      storage.users,
		Sessions:   storage.sessions,
		Hasher:     security.NewBcryptHasher(0),
		Tokens:     security.NewRandomTokenGenerator(32),
		SessionTTL: cfg.SessionTTL,
	})
	if err := seedAdmin(ctx, cfg, accounts, storage.users, log); err != nil {
		return err
	}

	notifier := buildNotifier(cfg, log)
	paymentClient := buildPayments(cfg, log)
	media := buildMedia(ctx, cfg, log)

	encoder := appoutbox.JSONEventEncoder{}
	stayData := policies.RepoStayData{Properties: storage.properties, Calendars: storage.calendars}

	var wg sync.WaitGroup
	var worker *outbox.Worker
	if cfg.KafkaEnabled() {
		producer, err := kafka.NewProducer(cfg.KafkaBrokers)
		if err != nil {
			return err
		}
		defer producer.Close()

		worker = outbox.NewWorker(outbox.WorkerConfig{
			Store:       storage.outboxStore,
			Publisher:   producer,
			Log:         log,
			TopicBase:   cfg.KafkaTopicBase,
			Interval:    cfg.OutboxPollInterval,
			BatchSize:   cfg.OutboxBatchSize,
			MaxAttempts: cfg.OutboxMaxAttempts,
		})
		wg.Add(1)
		go func() {
			defer wg.Done()
			worker.Run(ctx)
		}()

		consumer, err := kafka.NewConsumer(cfg.KafkaBrokers, cfg.KafkaGroupID,
			[]string{cfg.KafkaTopicBase + ".booking.events.v1"}, log)
		if err != nil {
			return err
		}
		confirmedHandler := notify.NewBookingConfirmed(
			storage.bookings, storage.properties, storage.users, notifier, log)
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := consumer.Run(ctx, confirmedHandler); err != nil {
				log.Error("notification consumer stopped", "err", err)
			}
		}()
	} else {
		log.Warn("kafka disabled, booking events stay in the outbox")
	}

	commandBus := buildCommandBus(cfg, storage, accounts, paymentClient, media, encoder, worker)
	queryBus := buildQueryBus(storage, stayData)

	server := ginhttp.NewServer(ginhttp.ServerConfig{
		Addr:          cfg.HTTPAddr,
		Dev:           cfg.IsDev(),
		CommandBus:    commandBus,
		QueryBus:      queryBus,
		Accounts:      accounts,
		WebhookSecret: cfg.PaymentWebhookSecret,
		CORSOrigins:   cfg.CORSOrigins,
		Log:           log,
		Ready:         storage.ready,
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info("http server listening", "addr", cfg.HTTPAddr, "storage", cfg.Storage)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("http shutdown failed", "err", err)
	}
	wg.Wait()
	return nil
}

func openStorage(ctx context.Context, cfg config.Config, log *slog.Logger) (storageSet, error) {
	if cfg.Storage == config.StorageMongo {
		client, err := mongo.Connect(ctx, cfg.MongoURI)
		if err != nil {
			return storageSet{}, err
		}
		db := mongo.NewDatabase(client, cfg.MongoDB)
		return storageSet{
			factory:     mongo.NewFactory(db),
			properties:  db.Properties(),
			calendars:   db.Calendars(),
			bookings:    db.Bookings(),
			users:       db.Users(),
			sessions:    db.Sessions(),
			idempotency: db.Idempotency(),
			outboxStore: db.Outbox(),
			ready:       []obs.ReadinessCheck{{Name: "mongo", Check: db.Ping}},
		}, nil
	}

	log.Info("using in-memory storage, data is lost on restart")
	store := memory.NewStore()
	return storageSet{
		factory:     memory.NewFactory(store),
		properties:  memory.NewPropertyRepository(store),
		calendars:   memory.NewCalendarRepository(store),
		bookings:    memory.NewBookingRepository(store),
		users:       memory.NewUserRepository(store),
		sessions:    memory.NewSessionStore(store),
		idempotency: memory.NewIdempotencyStore(store),
		outboxStore: memory.NewOutboxStore(store),
	}, nil
}

func buildCommandBus(
	cfg config.Config,
	storage storageSet,
	accounts *authsvc.Service,
	paymentClient policies.Payments,
	media policies.MediaStore,
	encoder appoutbox.Encoder,
	worker *outbox.Worker,
) commands.Bus {
	inner := commands.NewInMemoryBus()
	commands.Register(inner, bookings.NewRequestStayHandler(paymentClient, encoder, nil))
	commands.Register(inner, bookings.NewConfirmPaymentHandler(encoder, nil))
	commands.Register(inner, bookings.NewExpireCheckoutHandler(encoder, nil))
	commands.Register(inner, calendars.NewSetDateHandler(encoder, nil))
	commands.Register(inner, properties.NewCreatePropertyHandler(encoder, nil))
	commands.Register(inner, properties.NewUpdateRatesHandler(encoder, nil))
	commands.Register(inner, properties.NewActivatePropertyHandler(encoder, nil))
	commands.Register(inner, properties.NewAddPhotoHandler(media, nil))
	commands.Register(inner, admin.NewCreateHostHandler(accounts))

	chain := []middleware.CommandMiddleware{
		middleware.Validation(),
		middleware.Idempotency(storage.idempotency),
	}
	if worker != nil {
		chain = append(chain, middleware.OutboxFlush(worker))
	}
	chain = append(chain, middleware.Transaction(storage.factory))
	return middleware.ChainCommands(inner, chain...)
}

func buildQueryBus(storage storageSet, stayData policies.StayData) queries.Bus {
	inner := queries.NewInMemoryBus()
	queries.Register(inner, bookings.NewQuoteStayHandler(stayData, storage.properties))
	queries.Register(inner, bookings.NewGetBookingHandler(storage.bookings))
	queries.Register(inner, bookings.NewListPropertyBookingsHandler(storage.bookings, storage.properties))
	queries.Register(inner, calendars.NewGetMonthHandler(stayData, storage.properties))
	queries.Register(inner, properties.NewGetPropertyHandler(storage.properties))
	queries.Register(inner, properties.NewListHostPropertiesHandler(storage.properties))
	queries.Register(inner, admin.NewStatsHandler(storage.users, storage.properties, storage.bookings))
	return inner
}

func buildNotifier(cfg config.Config, log *slog.Logger) policies.Notifier {
	if cfg.EmailEnabled() {
		return email.NewSender(cfg.SendGridAPIKey, cfg.EmailFrom, cfg.EmailFromName, log)
	}
	return email.LogNotifier{Log: log}
}

func buildPayments(cfg config.Config, log *slog.Logger) policies.Payments {
	if cfg.PaymentsEnabled() {
		return payments.NewClient(payments.ClientConfig{
			BaseURL:    cfg.PaymentAPIURL,
			SecretKey:  cfg.PaymentSecretKey,
			SuccessURL: cfg.CheckoutSuccessURL,
			CancelURL:  cfg.CheckoutCancelURL,
		})
	}
	log.Warn("payment provider disabled, issuing fake checkout sessions")
	return payments.Fake{SuccessURL: cfg.CheckoutSuccessURL}
}

func buildMedia(ctx context.Context, cfg config.Config, log *slog.Logger) policies.MediaStore {
	if !cfg.S3Enabled() {
		log.Warn("object storage disabled, photo uploads will fail")
		return unavailableMedia{}
	}
	uploader, err := s3.NewUploader(s3.UploaderConfig{
		Endpoint:  cfg.S3Endpoint,
		AccessKey: cfg.S3AccessKey,
		SecretKey: cfg.S3SecretKey,
		Bucket:    cfg.S3Bucket,
		UseSSL:    cfg.S3UseSSL,
		PublicURL: cfg.S3PublicURL,
	})
	if err != nil {
		log.Error("object storage unavailable", "err", err)
		return unavailableMedia{}
	}
	if err := uploader.EnsureBucket(ctx); err != nil {
		log.Error("bucket setup failed", "err", err)
	}
	return uploader
}

func seedAdmin(ctx context.Context, cfg config.Config, accounts *authsvc.Service, users user.Repository, log *slog.Logger) error {
	if cfg.AdminPassword == "" {
		log.Warn("ADMIN_PASSWORD not set, skipping admin account seed")
		return nil
	}
	if _, err := users.ByEmail(ctx, cfg.AdminEmail); err == nil {
		return nil
	} else if !errors.Is(err, user.ErrNotFound) {
		return err
	}
	_, err := accounts.CreateAccount(ctx, authsvc.CreateAccountParams{
		Email:     cfg.AdminEmail,
		Password:  cfg.AdminPassword,
		FirstName: "Platform",
		LastName:  "Admin",
		Roles:     []user.Role{user.RoleAdmin},
	})
	if err != nil {
		return err
	}
	log.Info("seeded admin account", "email", cfg.AdminEmail)
	return nil
}

// unavailableMedia rejects uploads when no object store is configured.
type unavailableMedia struct{}

func (unavailableMedia) Upload(ctx context.Context, name, contentType string, data io.Reader, size int64) (string, error) {
	return "", errors.New("media storage is not configured")
}
