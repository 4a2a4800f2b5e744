package notify

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/mailersend/mailersend-go"

	"github.com/lorensation/SW1-specialty-coffee-shop-sub000/internal/model"
)

// EmailKind selects which reservation email to send.
type EmailKind string

const (
	// EmailReservationReceived is sent after a reservation request is stored.
	EmailReservationReceived EmailKind = "reservation_received"
	// EmailReservationConfirmed is sent when staff confirms a reservation.
	EmailReservationConfirmed EmailKind = "reservation_confirmed"
)

// Mailer dispatches reservation emails. Delivery is best effort: the
// reservation flows log failures and never propagate them.
type Mailer interface {
	SendReservationEmail(ctx context.Context, kind EmailKind, reservation *model.Reservation) error
}

const sendTimeout = 5 * time.Second

// MailerSendMailer sends email through the MailerSend API.
type MailerSendMailer struct {
	client   *mailersend.Mailersend
	from     string
	fromName string
}

// NewMailerSendMailer creates a MailerSend-backed mailer.
func NewMailerSendMailer(apiKey, from, fromName string) *MailerSendMailer {
	return &MailerSendMailer{
		client:   mailersend.NewMailersend(apiKey),
		from:     from,
		fromName: fromName,
	}
}

// SendReservationEmail sends the reservation email for kind to the
// reservation's contact address.
func (m *MailerSendMailer) SendReservationEmail(ctx context.Context, kind EmailKind, reservation *model.Reservation) error {
	ctx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()

	subject, body := reservationEmailContent(kind, reservation)

	message := m.client.Email.NewMessage()
	message.SetFrom(mailersend.From{Name: m.fromName, Email: m.from})
	message.SetRecipients([]mailersend.Recipient{{Name: reservation.Name, Email: reservation.Email}})
	message.SetSubject(subject)
	message.SetText(body)

	if _, err := m.client.Email.Send(ctx, message); err != nil {
		return fmt.Errorf("send %s email: %w", kind, err)
	}
	return nil
}

func reservationEmailContent(kind EmailKind, r *model.Reservation) (subject, body string) {
	switch kind {
	case EmailReservationConfirmed:
		subject = "Your reservation is confirmed"
		body = fmt.Sprintf("Hi %s,\n\nYour table for %d on %s at %s is confirmed. See you soon!",
			r.Name, r.PartySize, r.Date, r.Time)
	default:
		subject = "We received your reservation request"
		body = fmt.Sprintf("Hi %s,\n\nWe received your reservation request for %d on %s at %s. We will confirm it shortly.",
			r.Name, r.PartySize, r.Date, r.Time)
	}
	return subject, body
}

// LogMailer logs instead of sending. Used when no MailerSend API key is
// configured, e.g. in development.
type LogMailer struct{}

// SendReservationEmail logs the would-be email.
func (LogMailer) SendReservationEmail(_ context.Context, kind EmailKind, reservation *model.Reservation) error {
	log.Printf("mailer: %s to %s (reservation %s)", kind, reservation.Email, reservation.ID)
	return nil
}
