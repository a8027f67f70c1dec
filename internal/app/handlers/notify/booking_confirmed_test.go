package notify

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"staykit/internal/app/policies"
	"staykit/internal/domain/booking"
	"staykit/internal/domain/property"
	"staykit/internal/domain/quote"
	"staykit/internal/domain/shared/daterange"
	"staykit/internal/domain/shared/money"
	"staykit/internal/domain/user"
	"staykit/internal/infra/storage/memory"
)

type fakeNotifier struct {
	guest    []policies.BookingNotice
	host     []policies.BookingNotice
	guestErr error
}

func (f *fakeNotifier) SendGuestConfirmation(ctx context.Context, n policies.BookingNotice) error {
	if f.guestErr != nil {
		return f.guestErr
	}
	f.guest = append(f.guest, n)
	return nil
}

func (f *fakeNotifier) SendHostNotification(ctx context.Context, n policies.BookingNotice) error {
	f.host = append(f.host, n)
	return nil
}

type consumerFixture struct {
	handler  *BookingConfirmed
	notifier *fakeNotifier
}

func newConsumerFixture(t *testing.T) consumerFixture {
	t.Helper()
	store := memory.NewStore()
	bookings := memory.NewBookingRepository(store)
	properties := memory.NewPropertyRepository(store)
	users := memory.NewUserRepository(store)

	host, err := user.New(user.CreateParams{
		ID:           "host-1",
		Email:        "marta@example.com",
		FirstName:    "Marta",
		LastName:     "Veldkamp",
		PasswordHash: "hash",
		Roles:        []user.Role{user.RoleHost},
	})
	require.NoError(t, err)
	require.NoError(t, users.Save(context.Background(), host))

	prop, err := property.New(property.CreateParams{
		ID:            "prop-1",
		Host:          "host-1",
		Name:          "Canal House",
		MaxGuests:     4,
		MinimumNights: 1,
		Rates:         quote.RateCard{BasePrice: money.Must(15000, "USD")},
	})
	require.NoError(t, err)
	require.NoError(t, properties.Save(context.Background(), prop))

	stay, err := daterange.New(
		time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC),
	)
	require.NoError(t, err)
	bk, err := booking.New(booking.CreateParams{
		ID:         "bk-1",
		PropertyID: "prop-1",
		Guest:      booking.Guest{FirstName: "Ada", LastName: "Guest", Email: "ada@example.com", Phone: "+31 6 1234"},
		Guests:     2,
		Range:      stay,
		Quote: quote.PriceQuote{
			NightsCount: 3,
			Total:       money.Must(45000, "USD"),
		},
	})
	require.NoError(t, err)
	require.NoError(t, bookings.Save(context.Background(), bk))

	notifier := &fakeNotifier{}
	log := slog.New(slog.DiscardHandler)
	return consumerFixture{
		handler:  NewBookingConfirmed(bookings, properties, users, notifier, log),
		notifier: notifier,
	}
}

func TestBookingConfirmed_SendsGuestAndHostEmails(t *testing.T) {
	fx := newConsumerFixture(t)

	event := []byte(`{"type":"booking.confirmed","data":{"BookingID":"bk-1"}}`)
	require.NoError(t, fx.handler.Handle(context.Background(), "staykit.booking.events.v1", []byte("bk-1"), event))

	require.Len(t, fx.notifier.guest, 1)
	require.Len(t, fx.notifier.host, 1)

	notice := fx.notifier.guest[0]
	assert.Equal(t, "bk-1", notice.BookingID)
	assert.Equal(t, "Canal House", notice.PropertyName)
	assert.Equal(t, "Ada Guest", notice.GuestName)
	assert.Equal(t, "Marta Veldkamp", notice.HostName)
	assert.Equal(t, "marta@example.com", notice.HostEmail)
	assert.Equal(t, 3, notice.Nights)
	assert.Equal(t, int64(45000), notice.TotalCents)
	assert.Equal(t, "USD", notice.Currency)
}

func TestBookingConfirmed_SkipsOtherEventTypes(t *testing.T) {
	fx := newConsumerFixture(t)

	event := []byte(`{"type":"booking.requested","data":{"BookingID":"bk-1"}}`)
	require.NoError(t, fx.handler.Handle(context.Background(), "staykit.booking.events.v1", []byte("bk-1"), event))
	assert.Empty(t, fx.notifier.guest)
	assert.Empty(t, fx.notifier.host)
}

func TestBookingConfirmed_AcksUndecodableEvents(t *testing.T) {
	fx := newConsumerFixture(t)

	require.NoError(t, fx.handler.Handle(context.Background(), "staykit.booking.events.v1", nil, []byte("not json")))
	assert.Empty(t, fx.notifier.guest)
}

func TestBookingConfirmed_UnknownBookingFailsForRedelivery(t *testing.T) {
	fx := newConsumerFixture(t)

	event := []byte(`{"type":"booking.confirmed","data":{"BookingID":"missing"}}`)
	err := fx.handler.Handle(context.Background(), "staykit.booking.events.v1", nil, event)
	assert.ErrorIs(t, err, booking.ErrNotFound)
}

func TestBookingConfirmed_GuestSendFailureSkipsHostEmail(t *testing.T) {
	fx := newConsumerFixture(t)
	fx.notifier.guestErr = errors.New("smtp down")

	event := []byte(`{"type":"booking.confirmed","data":{"BookingID":"bk-1"}}`)
	err := fx.handler.Handle(context.Background(), "staykit.booking.events.v1", nil, event)
	require.Error(t, err)
	assert.Empty(t, fx.notifier.host)
}
