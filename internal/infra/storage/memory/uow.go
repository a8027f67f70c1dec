package memory

import (
	"context"

	appoutbox "staykit/internal/app/outbox"
	"staykit/internal/app/uow"
	"staykit/internal/domain/booking"
	"staykit/internal/domain/calendar"
	"staykit/internal/domain/property"
	"staykit/internal/domain/user"
)

// Factory opens in-memory units of work over one shared store.
type Factory struct {
	store *Store
}

func NewFactory(store *Store) *Factory {
	return &Factory{store: store}
}

func (f *Factory) Begin(ctx context.Context) (uow.UnitOfWork, error) {
	return &Unit{store: f.store}, nil
}

// Unit stages writes and applies them under one lock on Commit, so either
// every Save of a command lands or none does.
type Unit struct {
	store  *Store
	staged []func(*Store) error
	closed bool
}

func (u *Unit) stage(apply func(*Store) error) {
	u.staged = append(u.staged, apply)
}

func (u *Unit) Properties() property.Repository {
	return &PropertyRepository{store: u.store, unit: u}
}

func (u *Unit) Calendars() calendar.Repository {
	return &CalendarRepository{store: u.store, unit: u}
}

func (u *Unit) Bookings() booking.Repository {
	return &BookingRepository{store: u.store, unit: u}
}

func (u *Unit) Users() user.Repository {
	return &UserRepository{store: u.store, unit: u}
}

func (u *Unit) Outbox() appoutbox.Outbox {
	return stagedOutbox{unit: u}
}

func (u *Unit) Commit(ctx context.Context) error {
	if u.closed {
		return uow.ErrClosed
	}
	u.closed = true
	u.store.mu.Lock()
	defer u.store.mu.Unlock()
	for _, apply := range u.staged {
		if err := apply(u.store); err != nil {
			return err
		}
	}
	u.staged = nil
	return nil
}

func (u *Unit) Rollback(ctx context.Context) error {
	if u.closed {
		return uow.ErrClosed
	}
	u.closed = true
	u.staged = nil
	return nil
}
