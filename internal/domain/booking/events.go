package booking

import (
	"time"

	"staykit/internal/domain/property"
	"staykit/internal/domain/shared/daterange"
	"staykit/internal/domain/shared/money"
)

type Requested struct {
	BookingID  BookingID
	PropertyID property.PropertyID
	GuestEmail string
	Range      daterange.DateRange
	Total      money.Money
	At         time.Time
}

func (e Requested) EventName() string     { return "booking.requested" }
func (e Requested) AggregateID() string   { return string(e.BookingID) }
func (e Requested) OccurredAt() time.Time { return e.At }

type Confirmed struct {
	BookingID  BookingID
	PropertyID property.PropertyID
	GuestEmail string
	Range      daterange.DateRange
	Total      money.Money
	At         time.Time
}

func (e Confirmed) EventName() string     { return "booking.confirmed" }
func (e Confirmed) AggregateID() string   { return string(e.BookingID) }
func (e Confirmed) OccurredAt() time.Time { return e.At }

type Cancelled struct {
	BookingID  BookingID
	PropertyID property.PropertyID
	Range      daterange.DateRange
	Reason     string
	At         time.Time
}

func (e Cancelled) EventName() string     { return "booking.cancelled" }
func (e Cancelled) AggregateID() string   { return string(e.BookingID) }
func (e Cancelled) OccurredAt() time.Time { return e.At }
