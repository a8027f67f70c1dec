// Package quote holds the availability and pricing calculator for a stay.
//
// Everything here is a pure function of its inputs: the callers load blocked
// dates, overrides and the rate card up front and pass them in, so the
// calculator has no storage dependency and no failure mode related to I/O.
// Invoking any operation twice with identical inputs yields identical output.
package quote

import (
	"errors"
	"time"

	"staykit/internal/domain/shared/daterange"
	"staykit/internal/domain/shared/money"
)

var (
	// ErrMissingBaseRate means the property has no base nightly price
	// configured. A configuration error, never a transient one.
	ErrMissingBaseRate = errors.New("quote: base nightly price is required")
)

// RateCard is a property's standing pricing rule. BasePrice is charged for
// every night unless a weekend price or a per-date override applies.
type RateCard struct {
	BasePrice    money.Money
	WeekendPrice *money.Money
	CleaningFee  *money.Money
}

func (r RateCard) Validate() error {
	if r.BasePrice.Currency == "" {
		return ErrMissingBaseRate
	}
	if r.BasePrice.Amount < 0 {
		return money.ErrNegativeAmount
	}
	if r.WeekendPrice != nil && r.WeekendPrice.Amount < 0 {
		return money.ErrNegativeAmount
	}
	if r.CleaningFee != nil && r.CleaningFee.Amount < 0 {
		return money.ErrNegativeAmount
	}
	return nil
}

// DateOverride pins the nightly price for one exact calendar date. It beats
// both the weekend price and the base price.
type DateOverride struct {
	Date  time.Time
	Price money.Money
}

// BlockedDate marks one calendar date as closed to bookings. A date with no
// entry is available (open-world default); a date is unavailable if and only
// if an entry exists with Available=false.
type BlockedDate struct {
	Date      time.Time
	Available bool
	Reason    string
}

// NightPrice is one resolved night of a stay.
type NightPrice struct {
	Date  time.Time
	Price money.Money
}

// PriceQuote is the priced stay: the ordered nightly breakdown, the flat
// per-stay cleaning fee, and the total in minor currency units.
type PriceQuote struct {
	Nights      []NightPrice
	NightsCount int
	CleaningFee money.Money
	Total       money.Money
}

// AvailabilityResult reports whether every night of the range is open.
// FirstBlocked is the earliest closed date in the stay, never a later one.
type AvailabilityResult struct {
	Available    bool
	FirstBlocked *time.Time
	Reason       string
}

// CheckAvailability walks the stay's nights in ascending order and
// short-circuits on the first blocked one. There is no partial result: either
// the whole range is available or it is not.
func CheckAvailability(dr daterange.DateRange, blocked []BlockedDate) (AvailabilityResult, error) {
	if err := dr.Validate(); err != nil {
		return AvailabilityResult{}, err
	}
	index := indexBlocked(blocked)
	for _, date := range dr.Dates() {
		entry, ok := index[date]
		if ok && !entry.Available {
			first := date
			return AvailabilityResult{Available: false, FirstBlocked: &first, Reason: entry.Reason}, nil
		}
	}
	return AvailabilityResult{Available: true}, nil
}

// Price resolves every night of the stay by precedence (override, then
// weekend price when configured, then base price), sums them in integer minor
// units, and adds the cleaning fee exactly once regardless of stay length.
func Price(dr daterange.DateRange, rates RateCard, overrides []DateOverride) (PriceQuote, error) {
	if err := dr.Validate(); err != nil {
		return PriceQuote{}, err
	}
	if err := rates.Validate(); err != nil {
		return PriceQuote{}, err
	}

	index := indexOverrides(overrides)
	dates := dr.Dates()
	nights := make([]NightPrice, 0, len(dates))
	total := money.Money{Amount: 0, Currency: rates.BasePrice.Currency}
	for _, date := range dates {
		price := nightlyPrice(date, rates, index)
		sum, err := total.Add(price)
		if err != nil {
			return PriceQuote{}, err
		}
		total = sum
		nights = append(nights, NightPrice{Date: date, Price: price})
	}

	cleaning := money.Money{Amount: 0, Currency: rates.BasePrice.Currency}
	if rates.CleaningFee != nil {
		cleaning = *rates.CleaningFee
		sum, err := total.Add(cleaning)
		if err != nil {
			return PriceQuote{}, err
		}
		total = sum
	}

	return PriceQuote{
		Nights:      nights,
		NightsCount: len(nights),
		CleaningFee: cleaning,
		Total:       total,
	}, nil
}

// MeetsMinimumStay is the third, independent booking gate: a stay can be
// available and priced yet still too short.
func MeetsMinimumStay(nightsCount, minimumNights int) bool {
	return nightsCount >= minimumNights
}

// Day is a single calendar date as shown on the calendar management screen:
// the one-night special case of availability and pricing.
type Day struct {
	Date       time.Time
	Available  bool
	Reason     string
	Price      money.Money
	Overridden bool
}

// DayQuote resolves one calendar date against the same rules a full stay uses.
func DayQuote(date time.Time, rates RateCard, overrides []DateOverride, blocked []BlockedDate) (Day, error) {
	if err := rates.Validate(); err != nil {
		return Day{}, err
	}
	day := daterange.Day(date)
	result := Day{Date: day, Available: true}
	if entry, ok := indexBlocked(blocked)[day]; ok && !entry.Available {
		result.Available = false
		result.Reason = entry.Reason
	}
	index := indexOverrides(overrides)
	result.Price = nightlyPrice(day, rates, index)
	_, result.Overridden = index[day]
	return result, nil
}

// IsWeekend reports whether the date falls on Saturday or Sunday in the stay's
// canonical calendar. Fixed rule, not configurable per property.
func IsWeekend(t time.Time) bool {
	switch daterange.Day(t).Weekday() {
	case time.Saturday, time.Sunday:
		return true
	}
	return false
}

func nightlyPrice(date time.Time, rates RateCard, overrides map[time.Time]money.Money) money.Money {
	if price, ok := overrides[date]; ok {
		return price
	}
	if rates.WeekendPrice != nil && IsWeekend(date) {
		return *rates.WeekendPrice
	}
	return rates.BasePrice
}

func indexOverrides(overrides []DateOverride) map[time.Time]money.Money {
	if len(overrides) == 0 {
		return nil
	}
	index := make(map[time.Time]money.Money, len(overrides))
	for _, o := range overrides {
		index[daterange.Day(o.Date)] = o.Price
	}
	return index
}

func indexBlocked(blocked []BlockedDate) map[time.Time]BlockedDate {
	if len(blocked) == 0 {
		return nil
	}
	index := make(map[time.Time]BlockedDate, len(blocked))
	for _, b := range blocked {
		index[daterange.Day(b.Date)] = b
	}
	return index
}
