package email

import (
	"bytes"
	"fmt"
	"html/template"

	"staykit/internal/app/policies"
)

var guestTemplate = template.Must(template.New("guest").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #333; max-width: 600px; margin: 0 auto;">
  <h2 style="color: #2c3e50;">Your booking is confirmed!</h2>
  <p>Hi {{.GuestName}},</p>
  <p>Great news! Your stay at <strong>{{.PropertyName}}</strong> is confirmed.</p>
  <table style="width: 100%; border-collapse: collapse;">
    <tr><td style="padding: 6px 0;"><strong>Check-in</strong></td><td>{{.CheckIn}} from {{.CheckInTime}}</td></tr>
    <tr><td style="padding: 6px 0;"><strong>Check-out</strong></td><td>{{.CheckOut}} by {{.CheckOutTime}}</td></tr>
    <tr><td style="padding: 6px 0;"><strong>Nights</strong></td><td>{{.Nights}}</td></tr>
    <tr><td style="padding: 6px 0;"><strong>Guests</strong></td><td>{{.Guests}}</td></tr>
    <tr><td style="padding: 6px 0;"><strong>Total paid</strong></td><td>{{.Total}}</td></tr>
  </table>
  <p>Booking reference: <code>{{.BookingID}}</code></p>
  <p>Your host {{.HostName}} is looking forward to welcoming you. Questions about
  the stay go to <a href="mailto:{{.HostEmail}}">{{.HostEmail}}</a>.</p>
  <p>Safe travels!</p>
</body>
</html>`))

var hostTemplate = template.Must(template.New("host").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #333; max-width: 600px; margin: 0 auto;">
  <h2 style="color: #2c3e50;">New confirmed booking</h2>
  <p>Hi {{.HostName}},</p>
  <p><strong>{{.PropertyName}}</strong> has a new paid booking.</p>
  <table style="width: 100%; border-collapse: collapse;">
    <tr><td style="padding: 6px 0;"><strong>Guest</strong></td><td>{{.GuestName}}</td></tr>
    <tr><td style="padding: 6px 0;"><strong>Email</strong></td><td>{{.GuestEmail}}</td></tr>
    {{if .GuestPhone}}<tr><td style="padding: 6px 0;"><strong>Phone</strong></td><td>{{.GuestPhone}}</td></tr>{{end}}
    <tr><td style="padding: 6px 0;"><strong>Check-in</strong></td><td>{{.CheckIn}}</td></tr>
    <tr><td style="padding: 6px 0;"><strong>Check-out</strong></td><td>{{.CheckOut}}</td></tr>
    <tr><td style="padding: 6px 0;"><strong>Guests</strong></td><td>{{.Guests}}</td></tr>
    <tr><td style="padding: 6px 0;"><strong>Payout total</strong></td><td>{{.Total}}</td></tr>
  </table>
  <p>Booking reference: <code>{{.BookingID}}</code></p>
</body>
</html>`))

type templateData struct {
	BookingID    string
	PropertyName string
	GuestName    string
	GuestEmail   string
	GuestPhone   string
	HostName     string
	HostEmail    string
	CheckIn      string
	CheckOut     string
	CheckInTime  string
	CheckOutTime string
	Nights       int
	Guests       int
	Total        string
}

func newTemplateData(notice policies.BookingNotice) templateData {
	return templateData{
		BookingID:    notice.BookingID,
		PropertyName: notice.PropertyName,
		GuestName:    notice.GuestName,
		GuestEmail:   notice.GuestEmail,
		GuestPhone:   notice.GuestPhone,
		HostName:     notice.HostName,
		HostEmail:    notice.HostEmail,
		CheckIn:      notice.CheckIn.Format("Monday, Jan 2, 2006"),
		CheckOut:     notice.CheckOut.Format("Monday, Jan 2, 2006"),
		CheckInTime:  notice.CheckInTime,
		CheckOutTime: notice.CheckOutTime,
		Nights:       notice.Nights,
		Guests:       notice.Guests,
		Total:        formatTotal(notice.TotalCents, notice.Currency),
	}
}

// GuestConfirmationHTML renders the email sent to the guest.
func GuestConfirmationHTML(notice policies.BookingNotice) (string, error) {
	return render(guestTemplate, notice)
}

// HostNotificationHTML renders the email sent to the property's host.
func HostNotificationHTML(notice policies.BookingNotice) (string, error) {
	return render(hostTemplate, notice)
}

func render(tmpl *template.Template, notice policies.BookingNotice) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, newTemplateData(notice)); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func formatTotal(cents int64, currency string) string {
	return fmt.Sprintf("%d.%02d %s", cents/100, cents%100, currency)
}
