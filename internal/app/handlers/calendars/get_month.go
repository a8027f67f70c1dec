package calendars

import (
	"context"
	"errors"
	"time"

	"staykit/internal/app/policies"
	"staykit/internal/domain/property"
	"staykit/internal/domain/quote"
	"staykit/internal/domain/shared/daterange"
)

var ErrInvalidMonth = errors.New("calendars: month must be between 1 and 12")

// GetMonthQuery backs the host calendar screen: one resolved row per day of
// the month, each carrying availability and the price a one-night stay on
// that date would cost.
type GetMonthQuery struct {
	PropertyID string
	HostID     string
	Year       int
	Month      time.Month
}

func (GetMonthQuery) Key() string { return "calendars.get_month" }

type DayView struct {
	Date       string `json:"date"`
	Available  bool   `json:"available"`
	Reason     string `json:"reason,omitempty"`
	PriceCents int64  `json:"price_cents"`
	Currency   string `json:"currency"`
	Overridden bool   `json:"overridden"`
	Weekend    bool   `json:"weekend"`
}

type MonthView struct {
	PropertyID string    `json:"property_id"`
	Year       int       `json:"year"`
	Month      int       `json:"month"`
	Days       []DayView `json:"days"`
}

type GetMonthHandler struct {
	data       policies.StayData
	properties property.Repository
}

func NewGetMonthHandler(data policies.StayData, properties property.Repository) *GetMonthHandler {
	return &GetMonthHandler{data: data, properties: properties}
}

func (h *GetMonthHandler) Handle(ctx context.Context, q GetMonthQuery) (MonthView, error) {
	if q.Month < time.January || q.Month > time.December {
		return MonthView{}, ErrInvalidMonth
	}
	prop, err := h.properties.ByID(ctx, property.PropertyID(q.PropertyID))
	if err != nil {
		return MonthView{}, err
	}
	if !prop.OwnedBy(property.HostID(q.HostID)) {
		return MonthView{}, property.ErrNotOwnedByHost
	}

	first := time.Date(q.Year, q.Month, 1, 0, 0, 0, 0, time.UTC)
	next := first.AddDate(0, 1, 0)
	dr := daterange.DateRange{CheckIn: first, CheckOut: next}

	blocked, err := h.data.BlockedDates(ctx, q.PropertyID, dr)
	if err != nil {
		return MonthView{}, err
	}
	overrides, err := h.data.Overrides(ctx, q.PropertyID, dr)
	if err != nil {
		return MonthView{}, err
	}

	view := MonthView{
		PropertyID: q.PropertyID,
		Year:       q.Year,
		Month:      int(q.Month),
		Days:       make([]DayView, 0, 31),
	}
	for date := first; date.Before(next); date = date.AddDate(0, 0, 1) {
		day, err := quote.DayQuote(date, prop.Rates, overrides, blocked)
		if err != nil {
			return MonthView{}, err
		}
		view.Days = append(view.Days, DayView{
			Date:       day.Date.Format("2006-01-02"),
			Available:  day.Available,
			Reason:     day.Reason,
			PriceCents: day.Price.Amount,
			Currency:   day.Price.Currency,
			Overridden: day.Overridden,
			Weekend:    quote.IsWeekend(day.Date),
		})
	}
	return view, nil
}
