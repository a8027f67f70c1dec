package bookings

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appoutbox "staykit/internal/app/outbox"
	"staykit/internal/app/policies"
	"staykit/internal/app/uow"
	"staykit/internal/domain/booking"
	"staykit/internal/domain/calendar"
	"staykit/internal/domain/property"
	"staykit/internal/domain/quote"
	"staykit/internal/domain/shared/daterange"
	"staykit/internal/domain/shared/money"
	"staykit/internal/infra/storage/memory"
)

var fixedNow = time.Date(2024, 2, 1, 12, 0, 0, 0, time.UTC)

func nowFunc() time.Time { return fixedNow }

type fakePayments struct {
	lastParams policies.CheckoutParams
	failWith   error
}

func (f *fakePayments) CreateCheckoutSession(ctx context.Context, params policies.CheckoutParams) (policies.CheckoutSession, error) {
	f.lastParams = params
	if f.failWith != nil {
		return policies.CheckoutSession{}, f.failWith
	}
	return policies.CheckoutSession{ID: "cs_test_123", URL: "https://pay.example/cs_test_123"}, nil
}

func seedProperty(t *testing.T, store *memory.Store) *property.Property {
	t.Helper()
	weekend := money.Must(15000, "USD")
	cleaning := money.Must(5000, "USD")
	prop, err := property.New(property.CreateParams{
		ID:            "prop-1",
		Host:          "host-1",
		Name:          "Seaside Cottage",
		Address:       "1 Shore Rd",
		MaxGuests:     4,
		MinimumNights: 2,
		Rates: quote.RateCard{
			BasePrice:    money.Must(10000, "USD"),
			WeekendPrice: &weekend,
			CleaningFee:  &cleaning,
		},
		Now: fixedNow,
	})
	require.NoError(t, err)
	require.NoError(t, prop.Activate(fixedNow))
	require.NoError(t, memory.NewPropertyRepository(store).Save(context.Background(), prop))
	return prop
}

func dispatch(t *testing.T, store *memory.Store, payments policies.Payments, cmd RequestStayCommand) (RequestStayResult, error) {
	t.Helper()
	handler := NewRequestStayHandler(payments, appoutbox.JSONEventEncoder{}, nowFunc)
	unit, err := memory.NewFactory(store).Begin(context.Background())
	require.NoError(t, err)
	ctx := uow.WithUnit(context.Background(), unit)
	result, err := handler.Handle(ctx, cmd)
	if err != nil {
		require.NoError(t, unit.Rollback(context.Background()))
		return result, err
	}
	require.NoError(t, unit.Commit(context.Background()))
	return result, nil
}

func validCommand() RequestStayCommand {
	return RequestStayCommand{
		PropertyID: "prop-1",
		FirstName:  "Ada",
		LastName:   "Lovelace",
		Email:      "ada@example.com",
		Guests:     2,
		CheckIn:    time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		CheckOut:   time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC),
	}
}

func TestRequestStay_PricesAndStoresPendingBooking(t *testing.T) {
	store := memory.NewStore()
	seedProperty(t, store)
	pay := &fakePayments{}

	result, err := dispatch(t, store, pay, validCommand())
	require.NoError(t, err)

	// Fri base + Sat and Sun weekend + cleaning fee once.
	assert.Equal(t, int64(45000), result.TotalCents)
	assert.Equal(t, "USD", result.Currency)
	assert.Equal(t, 3, result.Nights)
	assert.Equal(t, string(booking.StatusPending), result.Status)
	assert.Equal(t, "https://pay.example/cs_test_123", result.CheckoutURL)
	assert.Equal(t, int64(45000), pay.lastParams.Amount.Amount)

	stored, err := memory.NewBookingRepository(store).ByPaymentSession(context.Background(), "cs_test_123")
	require.NoError(t, err)
	assert.Equal(t, booking.StatusPending, stored.Status)
	assert.Equal(t, result.BookingID, string(stored.ID))
}

func TestRequestStay_BlockedDateRejectsWithEarliest(t *testing.T) {
	store := memory.NewStore()
	prop := seedProperty(t, store)
	cal := calendar.New(prop.ID)
	cal.BlockDate(time.Date(2024, 3, 3, 0, 0, 0, 0, time.UTC), "maintenance", fixedNow)
	cal.BlockDate(time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC), "maintenance", fixedNow)
	require.NoError(t, memory.NewCalendarRepository(store).Save(context.Background(), cal))

	_, err := dispatch(t, store, &fakePayments{}, validCommand())

	var unavailable *UnavailableError
	require.ErrorAs(t, err, &unavailable)
	assert.Equal(t, time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC), unavailable.FirstBlocked)
	assert.Equal(t, "maintenance", unavailable.Reason)
}

func TestRequestStay_MinimumStayGateRunsAfterAvailability(t *testing.T) {
	store := memory.NewStore()
	seedProperty(t, store)

	cmd := validCommand()
	cmd.CheckOut = cmd.CheckIn.AddDate(0, 0, 1)
	_, err := dispatch(t, store, &fakePayments{}, cmd)

	var tooShort *MinimumStayError
	require.ErrorAs(t, err, &tooShort)
	assert.Equal(t, 1, tooShort.Nights)
	assert.Equal(t, 2, tooShort.MinimumNights)
}

func TestRequestStay_OverrideBeatsWeekendPrice(t *testing.T) {
	store := memory.NewStore()
	prop := seedProperty(t, store)
	cal := calendar.New(prop.ID)
	require.NoError(t, cal.SetOverride(time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC), money.Must(50000, "USD"), fixedNow))
	require.NoError(t, memory.NewCalendarRepository(store).Save(context.Background(), cal))

	result, err := dispatch(t, store, &fakePayments{}, validCommand())
	require.NoError(t, err)

	// Fri base + Sat override + Sun weekend + cleaning fee.
	assert.Equal(t, int64(10000+50000+15000+5000), result.TotalCents)
}

func TestRequestStay_ZeroNightRangeRejected(t *testing.T) {
	store := memory.NewStore()
	seedProperty(t, store)

	cmd := validCommand()
	cmd.CheckOut = cmd.CheckIn
	_, err := dispatch(t, store, &fakePayments{}, cmd)
	assert.ErrorIs(t, err, daterange.ErrInvalidRange)
}

func TestRequestStay_PastCheckInRejected(t *testing.T) {
	store := memory.NewStore()
	seedProperty(t, store)

	cmd := validCommand()
	cmd.CheckIn = time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	cmd.CheckOut = time.Date(2024, 1, 12, 0, 0, 0, 0, time.UTC)
	_, err := dispatch(t, store, &fakePayments{}, cmd)
	assert.ErrorIs(t, err, booking.ErrCheckInInPast)
}

func TestRequestStay_DraftPropertyNotBookable(t *testing.T) {
	store := memory.NewStore()
	weekend := money.Must(15000, "USD")
	prop, err := property.New(property.CreateParams{
		ID:            "prop-1",
		Host:          "host-1",
		Name:          "Unlisted Loft",
		MaxGuests:     4,
		MinimumNights: 1,
		Rates:         quote.RateCard{BasePrice: money.Must(10000, "USD"), WeekendPrice: &weekend},
		Now:           fixedNow,
	})
	require.NoError(t, err)
	require.NoError(t, memory.NewPropertyRepository(store).Save(context.Background(), prop))

	_, err = dispatch(t, store, &fakePayments{}, validCommand())
	assert.ErrorIs(t, err, ErrPropertyNotBookable)
}

func TestRequestStay_GuestLimitEnforced(t *testing.T) {
	store := memory.NewStore()
	seedProperty(t, store)

	cmd := validCommand()
	cmd.Guests = 5
	_, err := dispatch(t, store, &fakePayments{}, cmd)
	assert.ErrorIs(t, err, ErrTooManyGuests)
}

func TestRequestStay_PaymentFailureLeavesNothingBehind(t *testing.T) {
	store := memory.NewStore()
	seedProperty(t, store)
	pay := &fakePayments{failWith: errors.New("provider down")}

	_, err := dispatch(t, store, pay, validCommand())
	require.Error(t, err)

	count, err := memory.NewBookingRepository(store).Count(context.Background())
	require.NoError(t, err)
	assert.Zero(t, count)
}
