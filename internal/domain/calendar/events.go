package calendar

import (
	"time"

	"staykit/internal/domain/property"
)

type DateBlocked struct {
	PropertyID property.PropertyID
	Date       time.Time
	Reason     string
	At         time.Time
}

func (e DateBlocked) EventName() string     { return "calendar.date_blocked" }
func (e DateBlocked) AggregateID() string   { return string(e.PropertyID) }
func (e DateBlocked) OccurredAt() time.Time { return e.At }

type DateOpened struct {
	PropertyID property.PropertyID
	Date       time.Time
	At         time.Time
}

func (e DateOpened) EventName() string     { return "calendar.date_opened" }
func (e DateOpened) AggregateID() string   { return string(e.PropertyID) }
func (e DateOpened) OccurredAt() time.Time { return e.At }

type PriceOverridden struct {
	PropertyID property.PropertyID
	Date       time.Time
	PriceCents int64
	At         time.Time
}

func (e PriceOverridden) EventName() string     { return "calendar.price_overridden" }
func (e PriceOverridden) AggregateID() string   { return string(e.PropertyID) }
func (e PriceOverridden) OccurredAt() time.Time { return e.At }

type OverrideCleared struct {
	PropertyID property.PropertyID
	Date       time.Time
	At         time.Time
}

func (e OverrideCleared) EventName() string     { return "calendar.override_cleared" }
func (e OverrideCleared) AggregateID() string   { return string(e.PropertyID) }
func (e OverrideCleared) OccurredAt() time.Time { return e.At }
