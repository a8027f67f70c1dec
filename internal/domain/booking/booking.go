package booking

import (
	"context"
	"errors"
	"strings"
	"time"

	"staykit/internal/domain/property"
	"staykit/internal/domain/quote"
	"staykit/internal/domain/shared/daterange"
	"staykit/internal/domain/shared/events"
	"staykit/internal/domain/shared/money"
)

var (
	ErrNotFound        = errors.New("booking: not found")
	ErrInvalidGuests   = errors.New("booking: guests count must be positive")
	ErrGuestEmail      = errors.New("booking: guest email is required")
	ErrGuestName       = errors.New("booking: guest name is required")
	ErrInvalidState    = errors.New("booking: invalid state transition")
	ErrCheckInInPast   = errors.New("booking: check-in date is in the past")
	ErrSessionRequired = errors.New("booking: payment session required before confirmation")
)

type BookingID string

type Status string

const (
	StatusPending   Status = "PENDING"
	StatusConfirmed Status = "CONFIRMED"
	StatusCancelled Status = "CANCELLED"
)

// Guest is the contact identity captured by the booking form.
type Guest struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string
}

func (g Guest) FullName() string {
	return strings.TrimSpace(g.FirstName + " " + g.LastName)
}

// Booking is one guest stay at a property. The quoted price is computed once
// at intake; the payment webhook trusts it and never re-prices.
type Booking struct {
	ID              BookingID
	PropertyID      property.PropertyID
	Guest           Guest
	Guests          int
	Range           daterange.DateRange
	Quote           quote.PriceQuote
	SpecialRequests string
	Status          Status
	PaymentSession  string
	CreatedAt       time.Time
	UpdatedAt       time.Time
	Version         int64
	events.EventRecorder
}

type Repository interface {
	ByID(ctx context.Context, id BookingID) (*Booking, error)
	ByPaymentSession(ctx context.Context, sessionID string) (*Booking, error)
	Save(ctx context.Context, b *Booking) error
	ListByProperty(ctx context.Context, id property.PropertyID) ([]*Booking, error)
	Count(ctx context.Context) (int64, error)
}

type CreateParams struct {
	ID              BookingID
	PropertyID      property.PropertyID
	Guest           Guest
	Guests          int
	Range           daterange.DateRange
	Quote           quote.PriceQuote
	SpecialRequests string
	CreatedAt       time.Time
}

func New(params CreateParams) (*Booking, error) {
	if params.Guests <= 0 {
		return nil, ErrInvalidGuests
	}
	if strings.TrimSpace(params.Guest.Email) == "" {
		return nil, ErrGuestEmail
	}
	if params.Guest.FullName() == "" {
		return nil, ErrGuestName
	}
	if err := params.Range.Validate(); err != nil {
		return nil, err
	}
	now := params.CreatedAt.UTC()
	b := &Booking{
		ID:              params.ID,
		PropertyID:      params.PropertyID,
		Guest:           params.Guest,
		Guests:          params.Guests,
		Range:           params.Range,
		Quote:           params.Quote,
		SpecialRequests: params.SpecialRequests,
		Status:          StatusPending,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	b.Record(Requested{
		BookingID:  b.ID,
		PropertyID: b.PropertyID,
		GuestEmail: b.Guest.Email,
		Range:      b.Range,
		Total:      b.Quote.Total,
		At:         now,
	})
	return b, nil
}

// ValidateCheckIn rejects stays starting before today. Today itself is fine.
func ValidateCheckIn(dr daterange.DateRange, now time.Time) error {
	if dr.CheckIn.Before(daterange.Day(now)) {
		return ErrCheckInInPast
	}
	return nil
}

// AttachPaymentSession links the hosted-checkout session created for this
// booking's total.
func (b *Booking) AttachPaymentSession(sessionID string, now time.Time) error {
	if b.Status != StatusPending {
		return ErrInvalidState
	}
	b.PaymentSession = sessionID
	b.UpdatedAt = now.UTC()
	return nil
}

// Confirm transitions pending to confirmed once the payment provider reports
// the session completed.
func (b *Booking) Confirm(now time.Time) error {
	if b.Status != StatusPending {
		return ErrInvalidState
	}
	if b.Quote.Total.Amount > 0 && b.PaymentSession == "" {
		return ErrSessionRequired
	}
	b.Status = StatusConfirmed
	b.UpdatedAt = now.UTC()
	b.Record(Confirmed{
		BookingID:  b.ID,
		PropertyID: b.PropertyID,
		GuestEmail: b.Guest.Email,
		Range:      b.Range,
		Total:      b.Quote.Total,
		At:         b.UpdatedAt,
	})
	return nil
}

// Cancel is valid from pending (expired or abandoned checkout) and from
// confirmed (guest or host cancellation).
func (b *Booking) Cancel(reason string, now time.Time) error {
	switch b.Status {
	case StatusPending, StatusConfirmed:
	default:
		return ErrInvalidState
	}
	b.Status = StatusCancelled
	b.UpdatedAt = now.UTC()
	b.Record(Cancelled{BookingID: b.ID, PropertyID: b.PropertyID, Range: b.Range, Reason: reason, At: b.UpdatedAt})
	return nil
}

// Total is the amount forwarded to the payment session.
func (b *Booking) Total() money.Money {
	return b.Quote.Total
}
