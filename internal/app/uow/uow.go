package uow

import (
	"context"
	"errors"

	"staykit/internal/app/outbox"
	"staykit/internal/domain/booking"
	"staykit/internal/domain/calendar"
	"staykit/internal/domain/property"
	"staykit/internal/domain/user"
)

var ErrClosed = errors.New("uow: unit of work already closed")

// UnitOfWork scopes repository access to a single atomic write.
// Commit persists every change made through the unit; Rollback discards
// them. Both are terminal.
type UnitOfWork interface {
	Properties() property.Repository
	Calendars() calendar.Repository
	Bookings() booking.Repository
	Users() user.Repository
	Outbox() outbox.Outbox

	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// Factory opens fresh units of work.
type Factory interface {
	Begin(ctx context.Context) (UnitOfWork, error)
}
