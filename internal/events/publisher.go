// Package events publishes booking lifecycle events for downstream
// consumers (dashboards, analytics). Publishing is best-effort: a broker
// outage never fails a booking.
package events

import (
	"context"
	"encoding/json"
	"time"

	"barberbook/pkg/logger"
	"barberbook/pkg/model"

	"github.com/segmentio/kafka-go"
	"github.com/segmentio/kafka-go/compress"
)

const (
	TypeBookingCreated       = "booking.created"
	TypeBookingStatusChanged = "booking.status_changed"
)

type BookingEvent struct {
	Type       string        `json:"type"`
	Booking    model.Booking `json:"booking"`
	OccurredAt time.Time     `json:"occurredAt"`
}

type Publisher interface {
	BookingCreated(ctx context.Context, booking model.Booking)
	BookingStatusChanged(ctx context.Context, booking model.Booking)
	Close() error
}

// NopPublisher is used when no brokers are configured.
type NopPublisher struct{}

func (NopPublisher) BookingCreated(context.Context, model.Booking)       {}
func (NopPublisher) BookingStatusChanged(context.Context, model.Booking) {}
func (NopPublisher) Close() error                                        { return nil }

type kafkaPublisher struct {
	writer *kafka.Writer
	log    *logger.Logger
}

func NewKafkaPublisher(brokers []string, topic string, log *logger.Logger) Publisher {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{}, // key by user id, so one user's events stay ordered
		RequiredAcks: kafka.RequireOne,
		Compression:  compress.Snappy,
		MaxAttempts:  3,
		BatchTimeout: 10 * time.Millisecond,
		Logger:       kafka.LoggerFunc(func(msg string, args ...any) {}),
		ErrorLogger: kafka.LoggerFunc(func(msg string, args ...any) {
			log.Error("kafka writer error", "message", msg)
		}),
	}

	log.Info("Booking event publisher enabled", "topic", topic, "brokers", len(brokers))
	return &kafkaPublisher{
		writer: writer,
		log:    log,
	}
}

func (p *kafkaPublisher) BookingCreated(ctx context.Context, booking model.Booking) {
	p.publish(ctx, BookingEvent{
		Type:       TypeBookingCreated,
		Booking:    booking,
		OccurredAt: time.Now().UTC(),
	})
}

func (p *kafkaPublisher) BookingStatusChanged(ctx context.Context, booking model.Booking) {
	p.publish(ctx, BookingEvent{
		Type:       TypeBookingStatusChanged,
		Booking:    booking,
		OccurredAt: time.Now().UTC(),
	})
}

func (p *kafkaPublisher) publish(ctx context.Context, event BookingEvent) {
	value, err := json.Marshal(event)
	if err != nil {
		p.log.Error("Failed to marshal booking event", "type", event.Type, "error", err)
		return
	}

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.Booking.UserID),
		Value: value,
		Time:  event.OccurredAt,
	})
	if err != nil {
		p.log.Error("Failed to publish booking event",
			"type", event.Type,
			"booking_id", event.Booking.ID,
			"error", err,
		)
		return
	}

	p.log.Debug("Booking event published",
		"type", event.Type,
		"booking_id", event.Booking.ID,
	)
}

func (p *kafkaPublisher) Close() error {
	return p.writer.Close()
}
