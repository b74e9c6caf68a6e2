package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"dentalave/pkg/config"
	"dentalave/pkg/logger"
)

const (
	TypeBookingCreated  = "booking.created"
	TypeBookingNotified = "booking.notified"

	HeaderEventID   = "event-id"
	HeaderEventType = "event-type"
	HeaderSource    = "source"
	HeaderTimestamp = "timestamp"

	publishTimeout = 5 * time.Second
)

// BookingEvent is the audit record emitted for each booking milestone. It
// exists so operators can reconstruct which bookings never got their
// confirmation email; nothing in the request path depends on it.
type BookingEvent struct {
	EventID      string    `json:"event_id"`
	Type         string    `json:"type"`
	BookingID    string    `json:"booking_id"`
	Email        string    `json:"email,omitempty"`
	OccurredAt   time.Time `json:"occurred_at"`
	Skipped      bool      `json:"skipped,omitempty"`
	CustomerSent bool      `json:"customer_sent,omitempty"`
	AdminSent    bool      `json:"admin_sent,omitempty"`
}

// Publisher writes booking audit events to Kafka, best-effort. With no
// brokers configured it is a logged no-op, mirroring the mail relay.
type Publisher struct {
	writer *kafka.Writer
	source string
	log    *logger.Logger
}

func NewPublisher(cfg *config.Config, source string) *Publisher {
	p := &Publisher{
		source: source,
		log:    cfg.Log,
	}

	if len(cfg.KafkaBrokers) == 0 {
		cfg.Log.Info("Kafka brokers not configured, booking audit events disabled")
		return p
	}

	p.writer = &kafka.Writer{
		Addr:         kafka.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.BookingEventsTopic,
		Balancer:     &kafka.Hash{}, // key by booking id for per-booking ordering
		RequiredAcks: kafka.RequireOne,
		MaxAttempts:  3,
		BatchTimeout: 10 * time.Millisecond,
		Logger:       kafka.LoggerFunc(func(msg string, args ...any) {}),
		ErrorLogger: kafka.LoggerFunc(func(msg string, args ...any) {
			cfg.Log.Error("kafka: "+msg, "args", args)
		}),
	}

	return p
}

func (p *Publisher) Enabled() bool {
	return p.writer != nil
}

// Publish fills in the event id and timestamp and writes the event. Any
// failure is logged and swallowed; audit gaps must never fail a booking.
func (p *Publisher) Publish(ctx context.Context, event BookingEvent) {
	if p.writer == nil {
		return
	}

	if event.EventID == "" {
		event.EventID = uuid.New().String()
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}

	value, err := json.Marshal(event)
	if err != nil {
		p.log.Error("Failed to encode booking event", "type", event.Type, "booking_id", event.BookingID, "error", err)
		return
	}

	msg := kafka.Message{
		Key:   []byte(event.BookingID),
		Value: value,
		Time:  event.OccurredAt,
		Headers: []kafka.Header{
			{Key: HeaderEventID, Value: []byte(event.EventID)},
			{Key: HeaderEventType, Value: []byte(event.Type)},
			{Key: HeaderSource, Value: []byte(p.source)},
			{Key: HeaderTimestamp, Value: []byte(event.OccurredAt.Format(time.RFC3339))},
		},
	}

	writeCtx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	if err := p.writer.WriteMessages(writeCtx, msg); err != nil {
		p.log.Error("Failed to publish booking event", "type", event.Type, "booking_id", event.BookingID, "error", err)
		return
	}

	p.log.Debug("Published booking event", "type", event.Type, "booking_id", event.BookingID, "event_id", event.EventID)
}

func (p *Publisher) Close() error {
	if p.writer == nil {
		return nil
	}
	return p.writer.Close()
}
