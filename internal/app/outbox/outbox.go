package outbox

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"

	"staykit/internal/domain/shared/events"
)

// Record state machine: NEW -> CLAIMED -> SENT, with FAILED on
// exhausted retries.
const (
	StateNew     = "NEW"
	StateClaimed = "CLAIMED"
	StateSent    = "SENT"
	StateFailed  = "FAILED"
)

var ErrEncoderRequired = errors.New("outbox: encoder required")

// EventRecord is a domain event staged for asynchronous publication.
type EventRecord struct {
	ID          string
	EventName   string
	AggregateID string
	Payload     []byte
	OccurredAt  time.Time
	State       string
	Attempts    int
	NextAttempt time.Time
	LastError   string
}

// Outbox stages event records inside the caller's unit of work.
type Outbox interface {
	Append(ctx context.Context, records ...EventRecord) error
}

// Encoder serializes domain events into record payloads.
type Encoder interface {
	Encode(event events.DomainEvent) ([]byte, error)
}

// JSONEventEncoder marshals the event struct as-is.
type JSONEventEncoder struct{}

func (JSONEventEncoder) Encode(event events.DomainEvent) ([]byte, error) {
	return json.Marshal(event)
}

// RecordDomainEvents drains a recorder into the outbox and clears it.
func RecordDomainEvents(ctx context.Context, out Outbox, enc Encoder, recorder *events.EventRecorder) error {
	if out == nil {
		return nil
	}
	if enc == nil {
		return ErrEncoderRequired
	}
	pending := recorder.PendingEvents()
	if len(pending) == 0 {
		return nil
	}
	records := make([]EventRecord, 0, len(pending))
	for _, event := range pending {
		payload, err := enc.Encode(event)
		if err != nil {
			return err
		}
		records = append(records, EventRecord{
			ID:          uuid.NewString(),
			EventName:   event.EventName(),
			AggregateID: event.AggregateID(),
			Payload:     payload,
			OccurredAt:  event.OccurredAt(),
			State:       StateNew,
			NextAttempt: event.OccurredAt(),
		})
	}
	if err := out.Append(ctx, records...); err != nil {
		return err
	}
	recorder.ClearEvents()
	return nil
}
