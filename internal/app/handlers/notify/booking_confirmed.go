package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"staykit/internal/app/policies"
	"staykit/internal/domain/booking"
	"staykit/internal/domain/property"
	"staykit/internal/domain/user"
)

// envelope is the published event wrapper; only the type and the embedded
// booking id matter here.
type envelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

type confirmedPayload struct {
	BookingID string `json:"BookingID"`
}

// BookingConfirmed consumes booking events off the broker and sends the
// guest confirmation and host notification emails. Unknown event types are
// skipped, not failed, so redeliveries stay cheap.
type BookingConfirmed struct {
	bookings   booking.Repository
	properties property.Repository
	users      user.Repository
	notifier   policies.Notifier
	log        *slog.Logger
}

func NewBookingConfirmed(
	bookings booking.Repository,
	properties property.Repository,
	users user.Repository,
	notifier policies.Notifier,
	log *slog.Logger,
) *BookingConfirmed {
	return &BookingConfirmed{
		bookings:   bookings,
		properties: properties,
		users:      users,
		notifier:   notifier,
		log:        log,
	}
}

func (h *BookingConfirmed) Handle(ctx context.Context, topic string, key, value []byte) error {
	var env envelope
	if err := json.Unmarshal(value, &env); err != nil {
		h.log.Warn("skipping undecodable event", "topic", topic, "err", err)
		return nil
	}
	if env.Type != "booking.confirmed" {
		return nil
	}
	var payload confirmedPayload
	if err := json.Unmarshal(env.Data, &payload); err != nil {
		h.log.Warn("skipping malformed booking.confirmed payload", "err", err)
		return nil
	}

	notice, err := h.buildNotice(ctx, payload.BookingID)
	if err != nil {
		return err
	}
	if err := h.notifier.SendGuestConfirmation(ctx, notice); err != nil {
		return fmt.Errorf("notify: guest confirmation: %w", err)
	}
	if err := h.notifier.SendHostNotification(ctx, notice); err != nil {
		return fmt.Errorf("notify: host notification: %w", err)
	}
	h.log.Info("booking emails sent", "booking_id", payload.BookingID)
	return nil
}

func (h *BookingConfirmed) buildNotice(ctx context.Context, bookingID string) (policies.BookingNotice, error) {
	stay, err := h.bookings.ByID(ctx, booking.BookingID(bookingID))
	if err != nil {
		return policies.BookingNotice{}, err
	}
	prop, err := h.properties.ByID(ctx, stay.PropertyID)
	if err != nil {
		return policies.BookingNotice{}, err
	}
	host, err := h.users.ByID(ctx, user.ID(prop.Host))
	if err != nil {
		return policies.BookingNotice{}, err
	}
	return policies.BookingNotice{
		BookingID:    string(stay.ID),
		PropertyName: prop.Name,
		GuestName:    stay.Guest.FullName(),
		GuestEmail:   stay.Guest.Email,
		GuestPhone:   stay.Guest.Phone,
		HostName:     host.FullName(),
		HostEmail:    host.Email,
		CheckIn:      stay.Range.CheckIn,
		CheckOut:     stay.Range.CheckOut,
		Nights:       stay.Range.Nights(),
		Guests:       stay.Guests,
		CheckInTime:  prop.CheckInTime,
		CheckOutTime: prop.CheckOutTime,
		TotalCents:   stay.Quote.Total.Amount,
		Currency:     stay.Quote.Total.Currency,
	}, nil
}
