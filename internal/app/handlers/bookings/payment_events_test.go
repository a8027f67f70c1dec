package bookings

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appoutbox "staykit/internal/app/outbox"
	"staykit/internal/app/uow"
	"staykit/internal/domain/booking"
	"staykit/internal/infra/storage/memory"
)

func seedPendingBooking(t *testing.T, store *memory.Store) *booking.Booking {
	t.Helper()
	seedProperty(t, store)
	_, err := dispatch(t, store, &fakePayments{}, validCommand())
	require.NoError(t, err)
	stay, err := memory.NewBookingRepository(store).ByPaymentSession(context.Background(), "cs_test_123")
	require.NoError(t, err)
	return stay
}

func runConfirm(t *testing.T, store *memory.Store, sessionID string) (ConfirmPaymentResult, error) {
	t.Helper()
	handler := NewConfirmPaymentHandler(appoutbox.JSONEventEncoder{}, nowFunc)
	unit, err := memory.NewFactory(store).Begin(context.Background())
	require.NoError(t, err)
	result, err := handler.Handle(uow.WithUnit(context.Background(), unit), ConfirmPaymentCommand{SessionID: sessionID})
	if err != nil {
		require.NoError(t, unit.Rollback(context.Background()))
		return result, err
	}
	require.NoError(t, unit.Commit(context.Background()))
	return result, nil
}

func TestConfirmPayment_TransitionsPendingToConfirmed(t *testing.T) {
	store := memory.NewStore()
	stay := seedPendingBooking(t, store)

	result, err := runConfirm(t, store, "cs_test_123")
	require.NoError(t, err)
	assert.Equal(t, string(stay.ID), result.BookingID)
	assert.Equal(t, string(booking.StatusConfirmed), result.Status)

	// The stored total is trusted as-is; confirmation never re-prices.
	confirmed, err := memory.NewBookingRepository(store).ByID(context.Background(), stay.ID)
	require.NoError(t, err)
	assert.Equal(t, stay.Quote.Total, confirmed.Quote.Total)
}

func TestConfirmPayment_SecondDeliveryFails(t *testing.T) {
	store := memory.NewStore()
	seedPendingBooking(t, store)

	_, err := runConfirm(t, store, "cs_test_123")
	require.NoError(t, err)

	_, err = runConfirm(t, store, "cs_test_123")
	assert.ErrorIs(t, err, booking.ErrInvalidState)
}

func TestConfirmPayment_UnknownSession(t *testing.T) {
	store := memory.NewStore()
	_, err := runConfirm(t, store, "cs_missing")
	assert.ErrorIs(t, err, booking.ErrNotFound)
}

func TestExpireCheckout_CancelsPendingBooking(t *testing.T) {
	store := memory.NewStore()
	stay := seedPendingBooking(t, store)

	handler := NewExpireCheckoutHandler(appoutbox.JSONEventEncoder{}, nowFunc)
	unit, err := memory.NewFactory(store).Begin(context.Background())
	require.NoError(t, err)
	result, err := handler.Handle(uow.WithUnit(context.Background(), unit), ExpireCheckoutCommand{SessionID: "cs_test_123"})
	require.NoError(t, err)
	require.NoError(t, unit.Commit(context.Background()))

	assert.Equal(t, string(booking.StatusCancelled), result.Status)
	cancelled, err := memory.NewBookingRepository(store).ByID(context.Background(), stay.ID)
	require.NoError(t, err)
	assert.Equal(t, booking.StatusCancelled, cancelled.Status)
}
