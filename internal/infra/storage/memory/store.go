// Package memory is the storage backend for development and tests: every
// repository, the session store, the idempotency store and the outbox live
// in one mutex-guarded Store, and units of work stage their writes until
// Commit so a failed command leaves nothing behind.
package memory

import (
	"errors"
	"sync"

	appoutbox "staykit/internal/app/outbox"
	"staykit/internal/domain/auth"
	"staykit/internal/domain/booking"
	"staykit/internal/domain/calendar"
	"staykit/internal/domain/property"
	"staykit/internal/domain/user"
)

var ErrConcurrentUpdate = errors.New("memory: concurrent update")

type calendarState struct {
	version int64
	entries []calendar.DayEntry
}

// Store is the shared in-memory dataset.
type Store struct {
	mu sync.RWMutex

	properties map[property.PropertyID]property.Property
	calendars  map[property.PropertyID]calendarState
	bookings   map[booking.BookingID]booking.Booking
	bySession  map[string]booking.BookingID
	users      map[user.ID]user.User
	byEmail    map[string]user.ID
	sessions   map[auth.Token]auth.Session

	outbox      []appoutbox.EventRecord
	idempotency map[string][]byte
}

func NewStore() *Store {
	return &Store{
		properties:  make(map[property.PropertyID]property.Property),
		calendars:   make(map[property.PropertyID]calendarState),
		bookings:    make(map[booking.BookingID]booking.Booking),
		bySession:   make(map[string]booking.BookingID),
		users:       make(map[user.ID]user.User),
		byEmail:     make(map[string]user.ID),
		sessions:    make(map[auth.Token]auth.Session),
		idempotency: make(map[string][]byte),
	}
}

func copyStrings(in []string) []string {
	if in == nil {
		return nil
	}
	return append([]string(nil), in...)
}
