package booking_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"staykit/internal/domain/booking"
	"staykit/internal/domain/quote"
	"staykit/internal/domain/shared/daterange"
	"staykit/internal/domain/shared/money"
)

func stayRange(t *testing.T) daterange.DateRange {
	t.Helper()
	dr, err := daterange.New(
		time.Date(2024, time.June, 10, 0, 0, 0, 0, time.UTC),
		time.Date(2024, time.June, 13, 0, 0, 0, 0, time.UTC),
	)
	require.NoError(t, err)
	return dr
}

func validParams(t *testing.T) booking.CreateParams {
	return booking.CreateParams{
		ID:         "bkg-1",
		PropertyID: "prop-1",
		Guest: booking.Guest{
			FirstName: "Jane",
			LastName:  "Smith",
			Email:     "jane@example.com",
			Phone:     "555-123-4567",
		},
		Guests:    2,
		Range:     stayRange(t),
		Quote:     quote.PriceQuote{NightsCount: 3, Total: money.Must(45000, "USD")},
		CreatedAt: time.Date(2024, time.May, 1, 9, 0, 0, 0, time.UTC),
	}
}

func TestNew(t *testing.T) {
	b, err := booking.New(validParams(t))
	require.NoError(t, err)

	assert.Equal(t, booking.StatusPending, b.Status)
	assert.Equal(t, "Jane Smith", b.Guest.FullName())
	events := b.PendingEvents()
	require.Len(t, events, 1)
	assert.Equal(t, "booking.requested", events[0].EventName())
}

func TestNew_Validation(t *testing.T) {
	params := validParams(t)
	params.Guests = 0
	_, err := booking.New(params)
	assert.ErrorIs(t, err, booking.ErrInvalidGuests)

	params = validParams(t)
	params.Guest.Email = ""
	_, err = booking.New(params)
	assert.ErrorIs(t, err, booking.ErrGuestEmail)

	params = validParams(t)
	params.Guest.FirstName = ""
	params.Guest.LastName = " "
	_, err = booking.New(params)
	assert.ErrorIs(t, err, booking.ErrGuestName)
}

func TestValidateCheckIn(t *testing.T) {
	dr := stayRange(t)

	err := booking.ValidateCheckIn(dr, time.Date(2024, time.June, 11, 8, 0, 0, 0, time.UTC))
	assert.ErrorIs(t, err, booking.ErrCheckInInPast)

	// Same-day check-in is allowed regardless of wall-clock time.
	assert.NoError(t, booking.ValidateCheckIn(dr, time.Date(2024, time.June, 10, 23, 0, 0, 0, time.UTC)))
	assert.NoError(t, booking.ValidateCheckIn(dr, time.Date(2024, time.May, 1, 0, 0, 0, 0, time.UTC)))
}

func TestConfirm(t *testing.T) {
	b, err := booking.New(validParams(t))
	require.NoError(t, err)
	now := time.Now()

	// No payment session attached yet.
	assert.ErrorIs(t, b.Confirm(now), booking.ErrSessionRequired)

	require.NoError(t, b.AttachPaymentSession("cs_test_123", now))
	require.NoError(t, b.Confirm(now))
	assert.Equal(t, booking.StatusConfirmed, b.Status)

	// Confirming twice is a state error.
	assert.ErrorIs(t, b.Confirm(now), booking.ErrInvalidState)
}

func TestConfirm_ZeroTotalNeedsNoSession(t *testing.T) {
	params := validParams(t)
	params.Quote.Total = money.Must(0, "USD")
	b, err := booking.New(params)
	require.NoError(t, err)

	assert.NoError(t, b.Confirm(time.Now()))
}

func TestCancel(t *testing.T) {
	now := time.Now()

	b, err := booking.New(validParams(t))
	require.NoError(t, err)
	require.NoError(t, b.Cancel("checkout expired", now))
	assert.Equal(t, booking.StatusCancelled, b.Status)
	assert.ErrorIs(t, b.Cancel("again", now), booking.ErrInvalidState)

	b, err = booking.New(validParams(t))
	require.NoError(t, err)
	require.NoError(t, b.AttachPaymentSession("cs_1", now))
	require.NoError(t, b.Confirm(now))
	require.NoError(t, b.Cancel("guest request", now))
	assert.Equal(t, booking.StatusCancelled, b.Status)
}

func TestAttachPaymentSession_OnlyWhilePending(t *testing.T) {
	b, err := booking.New(validParams(t))
	require.NoError(t, err)
	now := time.Now()
	require.NoError(t, b.AttachPaymentSession("cs_1", now))
	require.NoError(t, b.Confirm(now))

	assert.ErrorIs(t, b.AttachPaymentSession("cs_2", now), booking.ErrInvalidState)
}
