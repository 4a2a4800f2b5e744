package notify

import (
	"context"
	"fmt"

	"github.com/nats-io/nats.go"
)

// NATS subjects used by the service.
const (
	SubjectReservationCreated   = "reservations.created"
	SubjectReservationConfirmed = "reservations.confirmed"
	SubjectChatStaff            = "chat.staff"
)

// SubjectChatUser returns the delivery subject for one customer's chat.
func SubjectChatUser(userID string) string {
	return "chat.user." + userID
}

// EventPublisher publishes fire-and-forget events. A nil publisher is a
// no-op so the service runs without a broker configured.
type EventPublisher struct {
	conn *nats.Conn
}

// NewEventPublisher connects to NATS at url.
func NewEventPublisher(url string) (*EventPublisher, error) {
	conn, err := nats.Connect(url)
	if err != nil {
		return nil, fmt.Errorf("connect nats: %w", err)
	}
	return &EventPublisher{conn: conn}, nil
}

// Publish sends payload on subject.
func (p *EventPublisher) Publish(_ context.Context, subject string, payload []byte) error {
	if p == nil || p.conn == nil {
		return nil
	}
	return p.conn.Publish(subject, payload)
}

// Subscribe registers handler for subject. Chat consumers (e.g. an SSE
// bridge) use this for live delivery.
func (p *EventPublisher) Subscribe(subject string, handler func(payload []byte)) (*nats.Subscription, error) {
	if p == nil || p.conn == nil {
		return nil, fmt.Errorf("nats not configured")
	}
	return p.conn.Subscribe(subject, func(msg *nats.Msg) {
		handler(msg.Data)
	})
}

// Close drains the connection.
func (p *EventPublisher) Close() error {
	if p == nil || p.conn == nil {
		return nil
	}
	p.conn.Close()
	return nil
}
