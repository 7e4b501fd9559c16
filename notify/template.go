package notify

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/jrsteele09/villa-booking/bookings"
)

var confirmationTemplate = template.Must(template.New("confirmation").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #333;">
  <h2>Your stay is confirmed</h2>
  <p>Dear {{.GuestName}},</p>
  <p>Thank you for booking with us. Here are your reservation details:</p>
  <table cellpadding="6">
    <tr><td>Reference</td><td><strong>{{.Reference}}</strong></td></tr>
    {{if .RoomName}}<tr><td>Room</td><td>{{.RoomName}}</td></tr>{{end}}
    <tr><td>Check in</td><td>{{.CheckIn}}</td></tr>
    <tr><td>Check out</td><td>{{.CheckOut}}</td></tr>
    <tr><td>Nights</td><td>{{.Nights}}</td></tr>
    <tr><td>Guests</td><td>{{.Guests}}</td></tr>
    <tr><td>Total</td><td>{{.Total}}</td></tr>
    <tr><td>Payment</td><td>{{.Payment}}</td></tr>
  </table>
  <p>We look forward to welcoming you.</p>
</body>
</html>`))

type confirmationView struct {
	Reference string
	GuestName string
	RoomName  string
	CheckIn   string
	CheckOut  string
	Nights    int
	Guests    int
	Total     string
	Payment   string
}

// ConfirmationSubject is the subject line for booking confirmations.
func ConfirmationSubject(b *bookings.Booking) string {
	return fmt.Sprintf("Booking confirmed - %s", b.Reference)
}

// RenderConfirmation renders the confirmation email body. Guest supplied
// fields are HTML escaped.
func RenderConfirmation(b *bookings.Booking) (string, error) {
	payment := "Awaiting payment"
	if b.PaymentStatus == bookings.PaymentPaid {
		payment = "Paid"
	}

	var buf bytes.Buffer
	err := confirmationTemplate.Execute(&buf, confirmationView{
		Reference: b.Reference,
		GuestName: b.GuestName,
		RoomName:  b.RoomName,
		CheckIn:   b.CheckIn.Format("Mon, 02 Jan 2006"),
		CheckOut:  b.CheckOut.Format("Mon, 02 Jan 2006"),
		Nights:    b.Nights(),
		Guests:    b.Guests,
		Total:     formatIDR(b.TotalAmount),
		Payment:   payment,
	})
	if err != nil {
		return "", fmt.Errorf("RenderConfirmation: %w", err)
	}
	return buf.String(), nil
}

// formatIDR renders 2500000 as "IDR 2.500.000".
func formatIDR(amount int64) string {
	sign := ""
	if amount < 0 {
		sign, amount = "-", -amount
	}
	digits := fmt.Sprintf("%d", amount)
	var out []byte
	for i := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			out = append(out, '.')
		}
		out = append(out, digits[i])
	}
	return "IDR " + sign + string(out)
}
