package policies

import (
	"context"
	"time"
)

// BookingNotice carries everything the mail templates need, so the
// notifier never reaches back into the domain.
type BookingNotice struct {
	BookingID    string
	PropertyName string
	GuestName    string
	GuestEmail   string
	GuestPhone   string
	HostName     string
	HostEmail    string
	CheckIn      time.Time
	CheckOut     time.Time
	Nights       int
	Guests       int
	CheckInTime  string
	CheckOutTime string
	TotalCents   int64
	Currency     string
}

// Notifier delivers booking emails to guests and hosts.
type Notifier interface {
	SendGuestConfirmation(ctx context.Context, notice BookingNotice) error
	SendHostNotification(ctx context.Context, notice BookingNotice) error
}
