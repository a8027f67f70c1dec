package calendar

import (
	"context"
	"errors"
	"sort"
	"time"

	"staykit/internal/domain/property"
	"staykit/internal/domain/quote"
	"staykit/internal/domain/shared/daterange"
	"staykit/internal/domain/shared/events"
	"staykit/internal/domain/shared/money"
)

var (
	ErrNotFound      = errors.New("calendar: not found")
	ErrNoOverride    = errors.New("calendar: no override for that date")
	ErrNegativePrice = errors.New("calendar: override price cannot be negative")
)

// DayEntry is the host-managed state of one calendar date: whether it is open
// for booking and an optional price override. Dates with no entry are open at
// the standing rate.
type DayEntry struct {
	Date      time.Time
	Available bool
	Reason    string
	Override  *money.Money
	UpdatedAt time.Time
}

// Calendar is a property's per-date availability and override ledger.
type Calendar struct {
	PropertyID property.PropertyID
	Version    int64
	days       map[time.Time]DayEntry
	events.EventRecorder
}

type Repository interface {
	Calendar(ctx context.Context, id property.PropertyID) (*Calendar, error)
	Save(ctx context.Context, cal *Calendar) error
}

func New(id property.PropertyID) *Calendar {
	return &Calendar{PropertyID: id, days: make(map[time.Time]DayEntry)}
}

// Restore rebuilds a calendar from persisted day entries.
func Restore(id property.PropertyID, version int64, entries []DayEntry) *Calendar {
	cal := New(id)
	cal.Version = version
	for _, e := range entries {
		e.Date = daterange.Day(e.Date)
		cal.days[e.Date] = e
	}
	return cal
}

// BlockDate closes one calendar date to bookings. Any override on the date is
// kept; it applies again once the date reopens.
func (c *Calendar) BlockDate(date time.Time, reason string, now time.Time) {
	day := daterange.Day(date)
	entry := c.days[day]
	entry.Date = day
	entry.Available = false
	entry.Reason = reason
	entry.UpdatedAt = now.UTC()
	c.days[day] = entry
	c.Record(DateBlocked{PropertyID: c.PropertyID, Date: day, Reason: reason, At: entry.UpdatedAt})
}

// OpenDate reopens a date. Reopening a date that was never blocked is a no-op.
func (c *Calendar) OpenDate(date time.Time, now time.Time) {
	day := daterange.Day(date)
	entry, ok := c.days[day]
	if ok && entry.Available {
		return
	}
	entry.Date = day
	entry.Available = true
	entry.Reason = ""
	entry.UpdatedAt = now.UTC()
	c.days[day] = entry
	if ok {
		c.Record(DateOpened{PropertyID: c.PropertyID, Date: day, At: entry.UpdatedAt})
	}
}

func (c *Calendar) SetOverride(date time.Time, price money.Money, now time.Time) error {
	if price.Amount < 0 {
		return ErrNegativePrice
	}
	day := daterange.Day(date)
	entry, ok := c.days[day]
	if !ok {
		entry = DayEntry{Date: day, Available: true}
	}
	entry.Override = &price
	entry.UpdatedAt = now.UTC()
	c.days[day] = entry
	c.Record(PriceOverridden{PropertyID: c.PropertyID, Date: day, PriceCents: price.Amount, At: entry.UpdatedAt})
	return nil
}

func (c *Calendar) ClearOverride(date time.Time, now time.Time) error {
	day := daterange.Day(date)
	entry, ok := c.days[day]
	if !ok || entry.Override == nil {
		return ErrNoOverride
	}
	entry.Override = nil
	entry.UpdatedAt = now.UTC()
	if entry.Available && entry.Reason == "" {
		delete(c.days, day)
	} else {
		c.days[day] = entry
	}
	c.Record(OverrideCleared{PropertyID: c.PropertyID, Date: day, At: now.UTC()})
	return nil
}

// BlockedInRange shapes the calendar's closed dates into calculator input for
// the given stay.
func (c *Calendar) BlockedInRange(dr daterange.DateRange) []quote.BlockedDate {
	var out []quote.BlockedDate
	for _, entry := range c.entriesSorted() {
		if !dr.ContainsDate(entry.Date) {
			continue
		}
		out = append(out, quote.BlockedDate{Date: entry.Date, Available: entry.Available, Reason: entry.Reason})
	}
	return out
}

// OverridesInRange shapes the calendar's per-date prices into calculator input.
func (c *Calendar) OverridesInRange(dr daterange.DateRange) []quote.DateOverride {
	var out []quote.DateOverride
	for _, entry := range c.entriesSorted() {
		if entry.Override == nil || !dr.ContainsDate(entry.Date) {
			continue
		}
		out = append(out, quote.DateOverride{Date: entry.Date, Price: *entry.Override})
	}
	return out
}

// Entries returns every managed day entry in ascending date order.
func (c *Calendar) Entries() []DayEntry {
	return c.entriesSorted()
}

func (c *Calendar) entriesSorted() []DayEntry {
	out := make([]DayEntry, 0, len(c.days))
	for _, entry := range c.days {
		out = append(out, entry)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}
