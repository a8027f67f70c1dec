package mongo

import (
	"context"

	appoutbox "staykit/internal/app/outbox"
	"staykit/internal/app/uow"
	"staykit/internal/domain/booking"
	"staykit/internal/domain/calendar"
	"staykit/internal/domain/property"
	"staykit/internal/domain/user"
)

// Factory opens units of work over the database. Writes apply immediately
// with version guards; the optimistic version check on every replace is
// what keeps concurrent commands from clobbering each other.
type Factory struct {
	db *Database
}

func NewFactory(db *Database) *Factory {
	return &Factory{db: db}
}

func (f *Factory) Begin(ctx context.Context) (uow.UnitOfWork, error) {
	return &Unit{db: f.db}, nil
}

type Unit struct {
	db     *Database
	closed bool
}

func (u *Unit) Properties() property.Repository { return u.db.Properties() }
func (u *Unit) Calendars() calendar.Repository  { return u.db.Calendars() }
func (u *Unit) Bookings() booking.Repository    { return u.db.Bookings() }
func (u *Unit) Users() user.Repository          { return u.db.Users() }
func (u *Unit) Outbox() appoutbox.Outbox        { return u.db.Outbox() }

func (u *Unit) Commit(ctx context.Context) error {
	if u.closed {
		return uow.ErrClosed
	}
	u.closed = true
	return nil
}

func (u *Unit) Rollback(ctx context.Context) error {
	if u.closed {
		return uow.ErrClosed
	}
	u.closed = true
	return nil
}
