// Package events publishes domain events to Kafka so downstream consumers
// (channel managers, accounting) learn about new bookings without polling
// the database.
package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"

	"github.com/tbourn/go-booking-backend/internal/domain"
)

// TypeBookingCreated is the event type of a newly stored booking.
const TypeBookingCreated = "booking.created"

// Header keys set on every message.
const (
	HeaderEventType = "event-type"
	HeaderEventID   = "event-id"
)

var (
	// ErrPublisherClosed is returned by BookingCreated after Close.
	ErrPublisherClosed = errors.New("event publisher closed")
	// ErrNoBrokers is returned by NewKafka without brokers.
	ErrNoBrokers = errors.New("at least one broker is required")
)

// BookingCreated is the payload of a booking.created event.
type BookingCreated struct {
	EventID    string    `json:"event_id"`
	Type       string    `json:"type"`
	OccurredAt time.Time `json:"occurred_at"`
	BookingID  uint64    `json:"booking_id"`
	HouseID    *int64    `json:"id_casa,omitempty"`
	Source     string    `json:"origine"`
	CheckIn    string    `json:"checkin"`
	CheckOut   string    `json:"checkout"`
}

// messageWriter is the part of *kafka.Writer the publisher uses.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaConfig configures the producer.
type KafkaConfig struct {
	Brokers      []string
	Topic        string
	BatchTimeout time.Duration
	WriteTimeout time.Duration
}

// Kafka publishes events to one topic, keyed by booking id so all events of
// a booking land on the same partition.
type Kafka struct {
	w   messageWriter
	now func() time.Time

	mu     sync.RWMutex
	closed bool
}

// NewKafka builds a synchronous producer for cfg.Topic.
func NewKafka(cfg KafkaConfig, lg zerolog.Logger) (*Kafka, error) {
	if len(cfg.Brokers) == 0 {
		return nil, ErrNoBrokers
	}
	if cfg.Topic == "" {
		return nil, errors.New("topic cannot be empty")
	}
	return newKafka(newWriter(cfg, lg)), nil
}

// newWriter configures a single-attempt, leader-ack writer. Publishing runs
// inside booking requests, so a slow broker fails fast instead of retrying.
func newWriter(cfg KafkaConfig, lg zerolog.Logger) *kafka.Writer {
	if cfg.BatchTimeout <= 0 {
		cfg.BatchTimeout = 10 * time.Millisecond
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = 2 * time.Second
	}
	el := lg.With().Str("component", "kafka").Logger()
	return &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		MaxAttempts:  1,
		BatchTimeout: cfg.BatchTimeout,
		WriteTimeout: cfg.WriteTimeout,
		Logger:       kafka.LoggerFunc(func(string, ...any) {}),
		ErrorLogger: kafka.LoggerFunc(func(msg string, args ...any) {
			el.Error().Msgf(msg, args...)
		}),
	}
}

func newKafka(w messageWriter) *Kafka {
	return &Kafka{w: w, now: time.Now}
}

// BookingCreated publishes a booking.created event for b.
func (k *Kafka) BookingCreated(ctx context.Context, b *domain.Booking) error {
	k.mu.RLock()
	defer k.mu.RUnlock()
	if k.closed {
		return ErrPublisherClosed
	}

	ev := BookingCreated{
		EventID:    uuid.NewString(),
		Type:       TypeBookingCreated,
		OccurredAt: k.now().UTC(),
		BookingID:  b.ID,
		HouseID:    b.HouseID,
		Source:     b.Source,
		CheckIn:    b.CheckIn.String(),
		CheckOut:   b.CheckOut.String(),
	}
	val, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("encode %s: %w", ev.Type, err)
	}

	msg := kafka.Message{
		Key:   []byte(strconv.FormatUint(b.ID, 10)),
		Value: val,
		Time:  ev.OccurredAt,
		Headers: []kafka.Header{
			{Key: HeaderEventType, Value: []byte(ev.Type)},
			{Key: HeaderEventID, Value: []byte(ev.EventID)},
		},
	}
	if err := k.w.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish %s: %w", ev.Type, err)
	}
	return nil
}

// Close flushes pending writes and releases the connection. It is safe to
// call more than once.
func (k *Kafka) Close() error {
	k.mu.Lock()
	defer k.mu.Unlock()
	if k.closed {
		return nil
	}
	k.closed = true
	return k.w.Close()
}

// Noop drops every event. It is used when no brokers are configured.
type Noop struct{}

// BookingCreated does nothing.
func (Noop) BookingCreated(context.Context, *domain.Booking) error { return nil }

// Close does nothing.
func (Noop) Close() error { return nil }
