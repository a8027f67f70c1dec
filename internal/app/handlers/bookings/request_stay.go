package bookings

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"staykit/internal/app/outbox"
	"staykit/internal/app/policies"
	"staykit/internal/app/uow"
	"staykit/internal/domain/booking"
	"staykit/internal/domain/calendar"
	"staykit/internal/domain/property"
	"staykit/internal/domain/quote"
	"staykit/internal/domain/shared/daterange"
)

var (
	ErrPropertyNotBookable = errors.New("bookings: property is not accepting bookings")
	ErrTooManyGuests       = errors.New("bookings: party exceeds the property's guest limit")
)

// UnavailableError rejects a stay whose range touches a blocked date. It
// names the earliest such date so the guest can adjust.
type UnavailableError struct {
	FirstBlocked time.Time
	Reason       string
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("bookings: %s is not available", e.FirstBlocked.Format("2006-01-02"))
}

// MinimumStayError rejects an available stay that is still too short.
type MinimumStayError struct {
	Nights        int
	MinimumNights int
}

func (e *MinimumStayError) Error() string {
	return fmt.Sprintf("bookings: stay of %d night(s) is below the %d-night minimum", e.Nights, e.MinimumNights)
}

// RequestStayCommand is the public booking form submission. Guests have no
// account; the contact fields identify them.
type RequestStayCommand struct {
	PropertyID      string
	FirstName       string
	LastName        string
	Email           string
	Phone           string
	Guests          int
	CheckIn         time.Time
	CheckOut        time.Time
	SpecialRequests string
	IdemKey         string
}

func (RequestStayCommand) Key() string { return "bookings.request_stay" }

func (c RequestStayCommand) IdempotencyKey() string { return c.IdemKey }

func (c RequestStayCommand) ResultPrototype() any { return &RequestStayResult{} }

func (c RequestStayCommand) Validate() error {
	if strings.TrimSpace(c.PropertyID) == "" {
		return errors.New("bookings: property id is required")
	}
	if strings.TrimSpace(c.Email) == "" {
		return booking.ErrGuestEmail
	}
	if strings.TrimSpace(c.FirstName+c.LastName) == "" {
		return booking.ErrGuestName
	}
	if c.Guests <= 0 {
		return booking.ErrInvalidGuests
	}
	return nil
}

type RequestStayResult struct {
	BookingID   string `json:"booking_id"`
	Status      string `json:"status"`
	CheckoutURL string `json:"checkout_url"`
	Nights      int    `json:"nights"`
	TotalCents  int64  `json:"total_cents"`
	Currency    string `json:"currency"`
}

// RequestStayHandler runs the three booking gates in fixed order
// (availability, minimum stay, price), then opens a checkout session and
// stores the booking as pending.
type RequestStayHandler struct {
	payments policies.Payments
	encoder  outbox.Encoder
	now      func() time.Time
}

func NewRequestStayHandler(payments policies.Payments, encoder outbox.Encoder, now func() time.Time) *RequestStayHandler {
	if now == nil {
		now = time.Now
	}
	return &RequestStayHandler{payments: payments, encoder: encoder, now: now}
}

func (h *RequestStayHandler) Handle(ctx context.Context, cmd RequestStayCommand) (RequestStayResult, error) {
	unit, err := uow.FromContext(ctx)
	if err != nil {
		return RequestStayResult{}, err
	}

	dr, err := daterange.New(cmd.CheckIn, cmd.CheckOut)
	if err != nil {
		return RequestStayResult{}, err
	}
	now := h.now()
	if err := booking.ValidateCheckIn(dr, now); err != nil {
		return RequestStayResult{}, err
	}

	prop, err := unit.Properties().ByID(ctx, property.PropertyID(cmd.PropertyID))
	if err != nil {
		return RequestStayResult{}, err
	}
	if prop.State != property.StateActive {
		return RequestStayResult{}, ErrPropertyNotBookable
	}
	if cmd.Guests > prop.MaxGuests {
		return RequestStayResult{}, ErrTooManyGuests
	}

	cal, err := unit.Calendars().Calendar(ctx, prop.ID)
	if errors.Is(err, calendar.ErrNotFound) {
		cal = calendar.New(prop.ID)
	} else if err != nil {
		return RequestStayResult{}, err
	}

	availability, err := quote.CheckAvailability(dr, cal.BlockedInRange(dr))
	if err != nil {
		return RequestStayResult{}, err
	}
	if !availability.Available {
		return RequestStayResult{}, &UnavailableError{FirstBlocked: *availability.FirstBlocked, Reason: availability.Reason}
	}

	if !quote.MeetsMinimumStay(dr.Nights(), prop.MinimumNights) {
		return RequestStayResult{}, &MinimumStayError{Nights: dr.Nights(), MinimumNights: prop.MinimumNights}
	}

	priced, err := quote.Price(dr, prop.Rates, cal.OverridesInRange(dr))
	if err != nil {
		return RequestStayResult{}, err
	}

	stay, err := booking.New(booking.CreateParams{
		ID:         booking.BookingID(uuid.NewString()),
		PropertyID: prop.ID,
		Guest: booking.Guest{
			FirstName: strings.TrimSpace(cmd.FirstName),
			LastName:  strings.TrimSpace(cmd.LastName),
			Email:     strings.TrimSpace(cmd.Email),
			Phone:     strings.TrimSpace(cmd.Phone),
		},
		Guests:          cmd.Guests,
		Range:           dr,
		Quote:           priced,
		SpecialRequests: cmd.SpecialRequests,
		CreatedAt:       now,
	})
	if err != nil {
		return RequestStayResult{}, err
	}

	session, err := h.payments.CreateCheckoutSession(ctx, policies.CheckoutParams{
		BookingID:     string(stay.ID),
		PropertyName:  prop.Name,
		Description:   checkoutDescription(prop.Name, dr),
		Amount:        priced.Total,
		CustomerEmail: stay.Guest.Email,
	})
	if err != nil {
		return RequestStayResult{}, err
	}
	if err := stay.AttachPaymentSession(session.ID, now); err != nil {
		return RequestStayResult{}, err
	}

	if err := unit.Bookings().Save(ctx, stay); err != nil {
		return RequestStayResult{}, err
	}
	if err := outbox.RecordDomainEvents(ctx, unit.Outbox(), h.encoder, &stay.EventRecorder); err != nil {
		return RequestStayResult{}, err
	}

	return RequestStayResult{
		BookingID:   string(stay.ID),
		Status:      string(stay.Status),
		CheckoutURL: session.URL,
		Nights:      priced.NightsCount,
		TotalCents:  priced.Total.Amount,
		Currency:    priced.Total.Currency,
	}, nil
}

func checkoutDescription(propertyName string, dr daterange.DateRange) string {
	return fmt.Sprintf("%s, %s to %s", propertyName,
		dr.CheckIn.Format("Jan 2, 2006"), dr.CheckOut.Format("Jan 2, 2006"))
}
