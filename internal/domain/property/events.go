package property

import "time"

type Created struct {
	PropertyID PropertyID
	HostID     HostID
	Name       string
	At         time.Time
}

func (e Created) EventName() string     { return "property.created" }
func (e Created) AggregateID() string   { return string(e.PropertyID) }
func (e Created) OccurredAt() time.Time { return e.At }

type Activated struct {
	PropertyID PropertyID
	At         time.Time
}

func (e Activated) EventName() string     { return "property.activated" }
func (e Activated) AggregateID() string   { return string(e.PropertyID) }
func (e Activated) OccurredAt() time.Time { return e.At }

type Suspended struct {
	PropertyID PropertyID
	Reason     string
	At         time.Time
}

func (e Suspended) EventName() string     { return "property.suspended" }
func (e Suspended) AggregateID() string   { return string(e.PropertyID) }
func (e Suspended) OccurredAt() time.Time { return e.At }

type RatesUpdated struct {
	PropertyID     PropertyID
	BasePriceCents int64
	At             time.Time
}

func (e RatesUpdated) EventName() string     { return "property.rates_updated" }
func (e RatesUpdated) AggregateID() string   { return string(e.PropertyID) }
func (e RatesUpdated) OccurredAt() time.Time { return e.At }
