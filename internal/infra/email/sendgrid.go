// Package email delivers booking notifications through SendGrid.
package email

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"staykit/internal/app/policies"
)

// Sender implements the notifier port on top of the SendGrid v3 API.
type Sender struct {
	client *sendgrid.Client
	from   *mail.Email
	log    *slog.Logger
}

func NewSender(apiKey, fromAddress, fromName string, log *slog.Logger) *Sender {
	return &Sender{
		client: sendgrid.NewSendClient(apiKey),
		from:   mail.NewEmail(fromName, fromAddress),
		log:    log,
	}
}

func (s *Sender) SendGuestConfirmation(ctx context.Context, notice policies.BookingNotice) error {
	html, err := GuestConfirmationHTML(notice)
	if err != nil {
		return err
	}
	subject := fmt.Sprintf("Booking confirmed: %s", notice.PropertyName)
	return s.send(ctx, notice.GuestName, notice.GuestEmail, subject, html)
}

func (s *Sender) SendHostNotification(ctx context.Context, notice policies.BookingNotice) error {
	html, err := HostNotificationHTML(notice)
	if err != nil {
		return err
	}
	subject := fmt.Sprintf("New booking at %s", notice.PropertyName)
	return s.send(ctx, notice.HostName, notice.HostEmail, subject, html)
}

func (s *Sender) send(ctx context.Context, toName, toAddress, subject, html string) error {
	message := mail.NewSingleEmail(s.from, subject, mail.NewEmail(toName, toAddress), "", html)
	resp, err := s.client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("email: send %q: %w", subject, err)
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("email: sendgrid returned status %d", resp.StatusCode)
	}
	s.log.Debug("email sent", "to", toAddress, "subject", subject)
	return nil
}

// LogNotifier replaces SendGrid in local development: it just logs what
// would have been sent.
type LogNotifier struct {
	Log *slog.Logger
}

func (n LogNotifier) SendGuestConfirmation(ctx context.Context, notice policies.BookingNotice) error {
	n.Log.Info("guest confirmation email (not sent, email disabled)",
		"to", notice.GuestEmail, "booking_id", notice.BookingID)
	return nil
}

func (n LogNotifier) SendHostNotification(ctx context.Context, notice policies.BookingNotice) error {
	n.Log.Info("host notification email (not sent, email disabled)",
		"to", notice.HostEmail, "booking_id", notice.BookingID)
	return nil
}
