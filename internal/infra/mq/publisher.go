package mq

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/BruksfildServices01/bay-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/bay-scheduler/internal/domain/booking"
)

// Routing keys on the bookings topic exchange.
const (
	KeyBookingCreated       = "booking.created"
	KeyBookingCancelled     = "booking.cancelled"
	KeyBookingStatusChanged = "booking.status_changed"
	KeyBookingBayAssigned   = "booking.bay_assigned"
)

type Publisher struct {
	conn     *amqp.Connection
	ch       *amqp.Channel
	exchange string
}

func NewPublisher(url, exchange string) (*Publisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}
	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("declare exchange: %w", err)
	}
	return &Publisher{conn: conn, ch: ch, exchange: exchange}, nil
}

func (p *Publisher) PublishJSON(ctx context.Context, key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return p.ch.PublishWithContext(ctx, p.exchange, key, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now(),
		Body:         b,
	})
}

func (p *Publisher) Close() error {
	if p.ch != nil {
		_ = p.ch.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}

// BookingMessage is the body of every booking.* message.
type BookingMessage struct {
	BookingID       uint   `json:"booking_id"`
	ReferenceNumber string `json:"reference_number"`
	UserID          uint   `json:"user_id"`
	ServiceBayID    uint   `json:"service_bay_id"`
	Date            string `json:"booking_date"`
	StartTime       string `json:"start_time"`
	EndTime         string `json:"end_time"`
	Status          string `json:"status"`
	TotalPrice      string `json:"total_price"`
}

// RoutingKey maps an audit action to its routing key. ok is false for
// actions that are not published.
func RoutingKey(action string) (key string, ok bool) {
	switch action {
	case audit.ActionBookingCreated:
		return KeyBookingCreated, true
	case audit.ActionBookingCancelled:
		return KeyBookingCancelled, true
	case audit.ActionBookingStatusChanged:
		return KeyBookingStatusChanged, true
	case audit.ActionBookingBayAssigned:
		return KeyBookingBayAssigned, true
	}
	return "", false
}

// NewBookingMessage flattens the event's booking. ok is false when the event
// carries no booking.
func NewBookingMessage(ev audit.Event) (BookingMessage, bool) {
	b := ev.Booking
	if b == nil {
		return BookingMessage{}, false
	}

	msg := BookingMessage{
		BookingID:       b.ID,
		ReferenceNumber: b.ReferenceNumber,
		UserID:          b.UserID,
		ServiceBayID:    b.ServiceBayID,
		Date:            b.BookingDate.Format(domain.DateLayout),
		StartTime:       b.StartTime,
		EndTime:         b.EndTime,
		Status:          b.Status,
		TotalPrice:      b.TotalPrice.StringFixed(2),
	}
	if t, err := domain.ParseTimeOfDay(b.StartTime); err == nil {
		msg.StartTime = t.String()
	}
	if t, err := domain.ParseTimeOfDay(b.EndTime); err == nil {
		msg.EndTime = t.String()
	}
	return msg, true
}

// Handle publishes booking events; it plugs into the audit dispatcher.
func (p *Publisher) Handle(ctx context.Context, ev audit.Event) error {
	key, ok := RoutingKey(ev.Action)
	if !ok {
		return nil
	}
	msg, ok := NewBookingMessage(ev)
	if !ok {
		return nil
	}
	return p.PublishJSON(ctx, key, msg)
}

var _ audit.Sink = (*Publisher)(nil)
