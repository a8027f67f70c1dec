package bookings

import (
	"context"
	"time"

	"staykit/internal/app/policies"
	"staykit/internal/domain/booking"
	"staykit/internal/domain/property"
	"staykit/internal/domain/quote"
	"staykit/internal/domain/shared/daterange"
)

// QuoteStayQuery prices a prospective stay for the public booking form
// without creating anything. The same calculator the intake gate uses
// produces the preview, so the two can never disagree.
type QuoteStayQuery struct {
	PropertyID string
	CheckIn    time.Time
	CheckOut   time.Time
}

func (QuoteStayQuery) Key() string { return "bookings.quote_stay" }

type NightView struct {
	Date       string `json:"date"`
	PriceCents int64  `json:"price_cents"`
}

type QuoteStayView struct {
	Available        bool        `json:"available"`
	FirstBlocked     string      `json:"first_blocked,omitempty"`
	Reason           string      `json:"reason,omitempty"`
	Nights           []NightView `json:"nights,omitempty"`
	NightsCount      int         `json:"nights_count"`
	CleaningFeeCents int64       `json:"cleaning_fee_cents"`
	TotalCents       int64       `json:"total_cents"`
	Currency         string      `json:"currency"`
	MeetsMinimum     bool        `json:"meets_minimum_stay"`
	MinimumNights    int         `json:"minimum_nights"`
}

type QuoteStayHandler struct {
	data       policies.StayData
	properties property.Repository
}

func NewQuoteStayHandler(data policies.StayData, properties property.Repository) *QuoteStayHandler {
	return &QuoteStayHandler{data: data, properties: properties}
}

func (h *QuoteStayHandler) Handle(ctx context.Context, q QuoteStayQuery) (QuoteStayView, error) {
	dr, err := daterange.New(q.CheckIn, q.CheckOut)
	if err != nil {
		return QuoteStayView{}, err
	}
	prop, err := h.properties.ByID(ctx, property.PropertyID(q.PropertyID))
	if err != nil {
		return QuoteStayView{}, err
	}

	blocked, err := h.data.BlockedDates(ctx, q.PropertyID, dr)
	if err != nil {
		return QuoteStayView{}, err
	}
	availability, err := quote.CheckAvailability(dr, blocked)
	if err != nil {
		return QuoteStayView{}, err
	}
	view := QuoteStayView{
		Available:     availability.Available,
		Reason:        availability.Reason,
		MinimumNights: prop.MinimumNights,
	}
	if availability.FirstBlocked != nil {
		view.FirstBlocked = availability.FirstBlocked.Format("2006-01-02")
	}
	if !availability.Available {
		return view, nil
	}

	rates, err := h.data.RateCard(ctx, q.PropertyID)
	if err != nil {
		return QuoteStayView{}, err
	}
	overrides, err := h.data.Overrides(ctx, q.PropertyID, dr)
	if err != nil {
		return QuoteStayView{}, err
	}
	priced, err := quote.Price(dr, rates, overrides)
	if err != nil {
		return QuoteStayView{}, err
	}

	view.Nights = make([]NightView, 0, len(priced.Nights))
	for _, night := range priced.Nights {
		view.Nights = append(view.Nights, NightView{
			Date:       night.Date.Format("2006-01-02"),
			PriceCents: night.Price.Amount,
		})
	}
	view.NightsCount = priced.NightsCount
	view.CleaningFeeCents = priced.CleaningFee.Amount
	view.TotalCents = priced.Total.Amount
	view.Currency = priced.Total.Currency
	view.MeetsMinimum = quote.MeetsMinimumStay(priced.NightsCount, prop.MinimumNights)
	return view, nil
}

// GetBookingQuery backs the public confirmation page.
type GetBookingQuery struct {
	BookingID string
}

func (GetBookingQuery) Key() string { return "bookings.get" }

type BookingView struct {
	ID              string `json:"id"`
	PropertyID      string `json:"property_id"`
	GuestName       string `json:"guest_name"`
	GuestEmail      string `json:"guest_email"`
	Guests          int    `json:"guests"`
	CheckIn         string `json:"check_in"`
	CheckOut        string `json:"check_out"`
	Nights          int    `json:"nights"`
	TotalCents      int64  `json:"total_cents"`
	Currency        string `json:"currency"`
	Status          string `json:"status"`
	SpecialRequests string `json:"special_requests,omitempty"`
	CreatedAt       string `json:"created_at"`
}

type GetBookingHandler struct {
	bookings booking.Repository
}

func NewGetBookingHandler(bookings booking.Repository) *GetBookingHandler {
	return &GetBookingHandler{bookings: bookings}
}

func (h *GetBookingHandler) Handle(ctx context.Context, q GetBookingQuery) (BookingView, error) {
	stay, err := h.bookings.ByID(ctx, booking.BookingID(q.BookingID))
	if err != nil {
		return BookingView{}, err
	}
	return toBookingView(stay), nil
}

// ListPropertyBookingsQuery is the host dashboard view of one property's
// bookings. Ownership is checked against the requesting host.
type ListPropertyBookingsQuery struct {
	PropertyID string
	HostID     string
}

func (ListPropertyBookingsQuery) Key() string { return "bookings.list_by_property" }

type ListPropertyBookingsHandler struct {
	bookings   booking.Repository
	properties property.Repository
}

func NewListPropertyBookingsHandler(bookings booking.Repository, properties property.Repository) *ListPropertyBookingsHandler {
	return &ListPropertyBookingsHandler{bookings: bookings, properties: properties}
}

func (h *ListPropertyBookingsHandler) Handle(ctx context.Context, q ListPropertyBookingsQuery) ([]BookingView, error) {
	prop, err := h.properties.ByID(ctx, property.PropertyID(q.PropertyID))
	if err != nil {
		return nil, err
	}
	if !prop.OwnedBy(property.HostID(q.HostID)) {
		return nil, property.ErrNotOwnedByHost
	}
	stays, err := h.bookings.ListByProperty(ctx, prop.ID)
	if err != nil {
		return nil, err
	}
	views := make([]BookingView, 0, len(stays))
	for _, stay := range stays {
		views = append(views, toBookingView(stay))
	}
	return views, nil
}

func toBookingView(stay *booking.Booking) BookingView {
	return BookingView{
		ID:              string(stay.ID),
		PropertyID:      string(stay.PropertyID),
		GuestName:       stay.Guest.FullName(),
		GuestEmail:      stay.Guest.Email,
		Guests:          stay.Guests,
		CheckIn:         stay.Range.CheckIn.Format("2006-01-02"),
		CheckOut:        stay.Range.CheckOut.Format("2006-01-02"),
		Nights:          stay.Range.Nights(),
		TotalCents:      stay.Quote.Total.Amount,
		Currency:        stay.Quote.Total.Currency,
		Status:          string(stay.Status),
		SpecialRequests: stay.SpecialRequests,
		CreatedAt:       stay.CreatedAt.Format(time.RFC3339),
	}
}
