package memory

import (
	"context"
	"sort"

	"staykit/internal/domain/booking"
	"staykit/internal/domain/property"
	"staykit/internal/domain/quote"
	"staykit/internal/domain/shared/events"
)

type BookingRepository struct {
	store *Store
	unit  *Unit
}

func NewBookingRepository(store *Store) *BookingRepository {
	return &BookingRepository{store: store}
}

func (r *BookingRepository) ByID(ctx context.Context, id booking.BookingID) (*booking.Booking, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	stored, ok := r.store.bookings[id]
	if !ok {
		return nil, booking.ErrNotFound
	}
	return clonedBooking(stored), nil
}

func (r *BookingRepository) ByPaymentSession(ctx context.Context, sessionID string) (*booking.Booking, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	id, ok := r.store.bySession[sessionID]
	if !ok {
		return nil, booking.ErrNotFound
	}
	stored, ok := r.store.bookings[id]
	if !ok {
		return nil, booking.ErrNotFound
	}
	return clonedBooking(stored), nil
}

func (r *BookingRepository) Save(ctx context.Context, b *booking.Booking) error {
	if r.unit == nil {
		r.store.mu.Lock()
		defer r.store.mu.Unlock()
		return applyBooking(r.store, b)
	}
	r.unit.stage(func(s *Store) error { return applyBooking(s, b) })
	return nil
}

func (r *BookingRepository) ListByProperty(ctx context.Context, id property.PropertyID) ([]*booking.Booking, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	var out []*booking.Booking
	for _, stored := range r.store.bookings {
		if stored.PropertyID == id {
			out = append(out, clonedBooking(stored))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Range.CheckIn.Before(out[j].Range.CheckIn) })
	return out, nil
}

func (r *BookingRepository) Count(ctx context.Context) (int64, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	return int64(len(r.store.bookings)), nil
}

func applyBooking(s *Store, b *booking.Booking) error {
	stored, exists := s.bookings[b.ID]
	if exists && stored.Version != b.Version {
		return ErrConcurrentUpdate
	}
	b.Version++
	snapshot := *b
	snapshot.Quote = clonedQuote(b.Quote)
	snapshot.EventRecorder = events.EventRecorder{}
	s.bookings[b.ID] = snapshot
	if b.PaymentSession != "" {
		s.bySession[b.PaymentSession] = b.ID
	}
	return nil
}

func clonedBooking(stored booking.Booking) *booking.Booking {
	clone := stored
	clone.Quote = clonedQuote(stored.Quote)
	return &clone
}

func clonedQuote(q quote.PriceQuote) quote.PriceQuote {
	clone := q
	clone.Nights = append([]quote.NightPrice(nil), q.Nights...)
	return clone
}
