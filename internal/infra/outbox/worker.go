// Package outbox drains staged event records to the broker.
package outbox

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	appoutbox "staykit/internal/app/outbox"
)

// Store is the claim side of the outbox: the worker claims due records,
// publishes them, and marks the outcome.
type Store interface {
	Claim(ctx context.Context, now time.Time, limit int) ([]appoutbox.EventRecord, error)
	MarkSent(ctx context.Context, id string) error
	MarkFailed(ctx context.Context, id string, cause string, nextAttempt time.Time, maxAttempts int) error
}

// Publisher is the broker side; implementations key by aggregate id.
type Publisher interface {
	Publish(topic string, key, value []byte) error
}

// Worker polls the outbox and publishes claimed records as event envelopes.
// A nudge channel lets the command pipeline wake it right after a commit.
type Worker struct {
	store       Store
	publisher   Publisher
	log         *slog.Logger
	topicBase   string
	interval    time.Duration
	batchSize   int
	maxAttempts int
	nudge       chan struct{}
}

type WorkerConfig struct {
	Store       Store
	Publisher   Publisher
	Log         *slog.Logger
	TopicBase   string
	Interval    time.Duration
	BatchSize   int
	MaxAttempts int
}

func NewWorker(cfg WorkerConfig) *Worker {
	interval := cfg.Interval
	if interval <= 0 {
		interval = 2 * time.Second
	}
	batch := cfg.BatchSize
	if batch <= 0 {
		batch = 50
	}
	attempts := cfg.MaxAttempts
	if attempts <= 0 {
		attempts = 8
	}
	return &Worker{
		store:       cfg.Store,
		publisher:   cfg.Publisher,
		log:         cfg.Log,
		topicBase:   cfg.TopicBase,
		interval:    interval,
		batchSize:   batch,
		maxAttempts: attempts,
		nudge:       make(chan struct{}, 1),
	}
}

// Nudge wakes the worker without waiting for the next tick.
func (w *Worker) Nudge() {
	select {
	case w.nudge <- struct{}{}:
	default:
	}
}

func (w *Worker) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		case <-w.nudge:
		}
		w.drain(ctx)
	}
}

func (w *Worker) drain(ctx context.Context) {
	for {
		now := time.Now().UTC()
		records, err := w.store.Claim(ctx, now, w.batchSize)
		if err != nil {
			w.log.Error("outbox claim failed", "err", err)
			return
		}
		if len(records) == 0 {
			return
		}
		for _, record := range records {
			w.publish(ctx, record)
		}
	}
}

func (w *Worker) publish(ctx context.Context, record appoutbox.EventRecord) {
	value, err := json.Marshal(envelope{
		SpecVersion: "1.0",
		ID:          record.ID,
		Source:      "staykit",
		Type:        record.EventName,
		Subject:     record.AggregateID,
		Time:        record.OccurredAt.UTC().Format(time.RFC3339Nano),
		Data:        record.Payload,
	})
	if err != nil {
		w.fail(ctx, record, err)
		return
	}
	if err := w.publisher.Publish(w.topicFor(record.EventName), []byte(record.AggregateID), value); err != nil {
		w.fail(ctx, record, err)
		return
	}
	if err := w.store.MarkSent(ctx, record.ID); err != nil {
		w.log.Error("outbox mark sent failed", "record_id", record.ID, "err", err)
	}
}

func (w *Worker) fail(ctx context.Context, record appoutbox.EventRecord, cause error) {
	next := time.Now().UTC().Add(nextRetry(record.Attempts))
	if err := w.store.MarkFailed(ctx, record.ID, cause.Error(), next, w.maxAttempts); err != nil {
		w.log.Error("outbox mark failed failed", "record_id", record.ID, "err", err)
	}
	w.log.Warn("outbox publish failed",
		"record_id", record.ID, "event", record.EventName, "attempts", record.Attempts, "err", cause)
}

// topicFor routes events by aggregate family: "booking.confirmed" goes to
// "<base>.booking.events.v1".
func (w *Worker) topicFor(eventName string) string {
	family, _, found := strings.Cut(eventName, ".")
	if !found {
		family = eventName
	}
	return w.topicBase + "." + family + ".events.v1"
}

// Exponential backoff capped at two minutes.
func nextRetry(attempts int) time.Duration {
	backoff := time.Second
	for i := 1; i < attempts && backoff < 2*time.Minute; i++ {
		backoff *= 2
	}
	if backoff > 2*time.Minute {
		backoff = 2 * time.Minute
	}
	return backoff
}

type envelope struct {
	SpecVersion string          `json:"specversion"`
	ID          string          `json:"id"`
	Source      string          `json:"source"`
	Type        string          `json:"type"`
	Subject     string          `json:"subject"`
	Time        string          `json:"time"`
	Data        json.RawMessage `json:"data"`
}
