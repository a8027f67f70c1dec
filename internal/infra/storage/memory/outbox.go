package memory

import (
	"context"
	"time"

	"staykit/internal/app/outbox"
)

// OutboxStore reads match the worker's claim protocol; appends run inside
// units of work.
type OutboxStore struct {
	store *Store
}

func NewOutboxStore(store *Store) *OutboxStore {
	return &OutboxStore{store: store}
}

func (o *OutboxStore) Append(ctx context.Context, records ...outbox.EventRecord) error {
	o.store.mu.Lock()
	defer o.store.mu.Unlock()
	o.store.outbox = append(o.store.outbox, records...)
	return nil
}

// Claim marks up to limit due NEW records as CLAIMED and returns them.
func (o *OutboxStore) Claim(ctx context.Context, now time.Time, limit int) ([]outbox.EventRecord, error) {
	o.store.mu.Lock()
	defer o.store.mu.Unlock()
	var claimed []outbox.EventRecord
	for i := range o.store.outbox {
		if len(claimed) >= limit {
			break
		}
		record := &o.store.outbox[i]
		if record.State != outbox.StateNew || record.NextAttempt.After(now) {
			continue
		}
		record.State = outbox.StateClaimed
		record.Attempts++
		claimed = append(claimed, *record)
	}
	return claimed, nil
}

func (o *OutboxStore) MarkSent(ctx context.Context, id string) error {
	return o.transition(id, func(record *outbox.EventRecord) {
		record.State = outbox.StateSent
		record.LastError = ""
	})
}

// MarkFailed requeues the record for retry at nextAttempt, or parks it as
// FAILED once attempts are exhausted.
func (o *OutboxStore) MarkFailed(ctx context.Context, id string, cause string, nextAttempt time.Time, maxAttempts int) error {
	return o.transition(id, func(record *outbox.EventRecord) {
		record.LastError = cause
		if record.Attempts >= maxAttempts {
			record.State = outbox.StateFailed
			return
		}
		record.State = outbox.StateNew
		record.NextAttempt = nextAttempt
	})
}

func (o *OutboxStore) transition(id string, mutate func(*outbox.EventRecord)) error {
	o.store.mu.Lock()
	defer o.store.mu.Unlock()
	for i := range o.store.outbox {
		if o.store.outbox[i].ID == id {
			mutate(&o.store.outbox[i])
			return nil
		}
	}
	return nil
}

// stagedOutbox buffers appends inside a unit of work.
type stagedOutbox struct {
	unit *Unit
}

func (s stagedOutbox) Append(ctx context.Context, records ...outbox.EventRecord) error {
	staged := make([]outbox.EventRecord, len(records))
	copy(staged, records)
	s.unit.stage(func(store *Store) error {
		store.outbox = append(store.outbox, staged...)
		return nil
	})
	return nil
}

// IdempotencyStore keeps replay results keyed by idempotency key.
type IdempotencyStore struct {
	store *Store
}

func NewIdempotencyStore(store *Store) *IdempotencyStore {
	return &IdempotencyStore{store: store}
}

func (s *IdempotencyStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	s.store.mu.RLock()
	defer s.store.mu.RUnlock()
	value, ok := s.store.idempotency[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), value...), true, nil
}

func (s *IdempotencyStore) Put(ctx context.Context, key string, result []byte) error {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	s.store.idempotency[key] = append([]byte(nil), result...)
	return nil
}
