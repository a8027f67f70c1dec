package bookings

import (
	"context"
	"errors"
	"strings"
	"time"

	"staykit/internal/app/outbox"
	"staykit/internal/app/uow"
)

var ErrSessionIDRequired = errors.New("bookings: payment session id is required")

// ConfirmPaymentCommand reacts to the provider reporting a checkout session
// as completed. The booking keeps the total quoted at intake; nothing is
// re-priced here.
type ConfirmPaymentCommand struct {
	SessionID string
}

func (ConfirmPaymentCommand) Key() string { return "bookings.confirm_payment" }

func (c ConfirmPaymentCommand) Validate() error {
	if strings.TrimSpace(c.SessionID) == "" {
		return ErrSessionIDRequired
	}
	return nil
}

type ConfirmPaymentResult struct {
	BookingID string `json:"booking_id"`
	Status    string `json:"status"`
}

type ConfirmPaymentHandler struct {
	encoder outbox.Encoder
	now     func() time.Time
}

func NewConfirmPaymentHandler(encoder outbox.Encoder, now func() time.Time) *ConfirmPaymentHandler {
	if now == nil {
		now = time.Now
	}
	return &ConfirmPaymentHandler{encoder: encoder, now: now}
}

func (h *ConfirmPaymentHandler) Handle(ctx context.Context, cmd ConfirmPaymentCommand) (ConfirmPaymentResult, error) {
	unit, err := uow.FromContext(ctx)
	if err != nil {
		return ConfirmPaymentResult{}, err
	}
	stay, err := unit.Bookings().ByPaymentSession(ctx, cmd.SessionID)
	if err != nil {
		return ConfirmPaymentResult{}, err
	}
	if err := stay.Confirm(h.now()); err != nil {
		return ConfirmPaymentResult{}, err
	}
	if err := unit.Bookings().Save(ctx, stay); err != nil {
		return ConfirmPaymentResult{}, err
	}
	if err := outbox.RecordDomainEvents(ctx, unit.Outbox(), h.encoder, &stay.EventRecorder); err != nil {
		return ConfirmPaymentResult{}, err
	}
	return ConfirmPaymentResult{BookingID: string(stay.ID), Status: string(stay.Status)}, nil
}

// ExpireCheckoutCommand cancels a pending booking whose checkout session
// lapsed without payment, releasing the dates.
type ExpireCheckoutCommand struct {
	SessionID string
}

func (ExpireCheckoutCommand) Key() string { return "bookings.expire_checkout" }

func (c ExpireCheckoutCommand) Validate() error {
	if strings.TrimSpace(c.SessionID) == "" {
		return ErrSessionIDRequired
	}
	return nil
}

type ExpireCheckoutHandler struct {
	encoder outbox.Encoder
	now     func() time.Time
}

func NewExpireCheckoutHandler(encoder outbox.Encoder, now func() time.Time) *ExpireCheckoutHandler {
	if now == nil {
		now = time.Now
	}
	return &ExpireCheckoutHandler{encoder: encoder, now: now}
}

func (h *ExpireCheckoutHandler) Handle(ctx context.Context, cmd ExpireCheckoutCommand) (ConfirmPaymentResult, error) {
	unit, err := uow.FromContext(ctx)
	if err != nil {
		return ConfirmPaymentResult{}, err
	}
	stay, err := unit.Bookings().ByPaymentSession(ctx, cmd.SessionID)
	if err != nil {
		return ConfirmPaymentResult{}, err
	}
	if err := stay.Cancel("checkout session expired", h.now()); err != nil {
		return ConfirmPaymentResult{}, err
	}
	if err := unit.Bookings().Save(ctx, stay); err != nil {
		return ConfirmPaymentResult{}, err
	}
	if err := outbox.RecordDomainEvents(ctx, unit.Outbox(), h.encoder, &stay.EventRecorder); err != nil {
		return ConfirmPaymentResult{}, err
	}
	return ConfirmPaymentResult{BookingID: string(stay.ID), Status: string(stay.Status)}, nil
}
