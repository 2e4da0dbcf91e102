package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	bookingDomain "github.com/happyhotel/service-booking/internal/domain/booking"
	"github.com/nats-io/nats.go"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

func newConfirmationEvent(source, bookingID string, req bookingDomain.BookingRequest) (CloudEvent, error) {
	return NewCloudEvent(source, TypeBookingConfirmed, BookingConfirmedEvent{
		BookingID:  bookingID,
		RoomID:     req.RoomID,
		CheckIn:    req.CheckIn.Format(DateLayout),
		CheckOut:   req.CheckOut.Format(DateLayout),
		Occupants:  req.Occupants,
		Prepaid:    req.Prepay,
		OccurredAt: time.Now().UTC(),
	})
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// KafkaNotificationSender publishes booking confirmations to a Kafka topic.
type KafkaNotificationSender struct {
	writer messageWriter
	source string
	logger *zap.Logger
}

// NewKafkaNotificationSender creates a sender writing to topic on the given brokers.
func NewKafkaNotificationSender(brokers []string, topic, source string, logger *zap.Logger) *KafkaNotificationSender {
	writer := &kafkago.Writer{
		Addr:         kafkago.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireOne,
		BatchTimeout: 10 * time.Millisecond,
	}
	return &KafkaNotificationSender{writer: writer, source: source, logger: logger}
}

// SendBookingConfirmation publishes a confirmation keyed by booking id.
func (s *KafkaNotificationSender) SendBookingConfirmation(ctx context.Context, bookingID string, req bookingDomain.BookingRequest) error {
	evt, err := newConfirmationEvent(s.source, bookingID, req)
	if err != nil {
		return err
	}
	payload, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("failed to marshal cloud event: %w", err)
	}

	if err := s.writer.WriteMessages(ctx, kafkago.Message{
		Key:   []byte(bookingID),
		Value: payload,
	}); err != nil {
		return fmt.Errorf("failed to publish booking confirmation: %w", err)
	}

	s.logger.Debug("booking confirmation published",
		zap.String("booking_id", bookingID),
		zap.String("event_id", evt.ID),
	)
	return nil
}

// Close flushes and closes the underlying writer.
func (s *KafkaNotificationSender) Close() error {
	return s.writer.Close()
}

type natsPublisher interface {
	Publish(subject string, data []byte) error
}

// NatsNotificationSender publishes booking confirmations to a NATS subject.
type NatsNotificationSender struct {
	conn    natsPublisher
	subject string
	source  string
	logger  *zap.Logger
}

// ConnectNats opens a named connection to the NATS server at url.
func ConnectNats(url, name string) (*nats.Conn, error) {
	conn, err := nats.Connect(url, nats.Name(name))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to nats: %w", err)
	}
	return conn, nil
}

// NewNatsNotificationSender creates a sender publishing on subject.
func NewNatsNotificationSender(conn *nats.Conn, subject, source string, logger *zap.Logger) *NatsNotificationSender {
	return &NatsNotificationSender{conn: conn, subject: subject, source: source, logger: logger}
}

// SendBookingConfirmation publishes a confirmation on the configured subject.
func (s *NatsNotificationSender) SendBookingConfirmation(ctx context.Context, bookingID string, req bookingDomain.BookingRequest) error {
	evt, err := newConfirmationEvent(s.source, bookingID, req)
	if err != nil {
		return err
	}
	payload, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("failed to marshal cloud event: %w", err)
	}
	if err := s.conn.Publish(s.subject, payload); err != nil {
		return fmt.Errorf("failed to publish booking confirmation: %w", err)
	}

	s.logger.Debug("booking confirmation published",
		zap.String("booking_id", bookingID),
		zap.String("subject", s.subject),
	)
	return nil
}

// LogNotificationSender writes confirmations to the log. Used when no broker is configured.
type LogNotificationSender struct {
	logger *zap.Logger
}

func NewLogNotificationSender(logger *zap.Logger) *LogNotificationSender {
	return &LogNotificationSender{logger: logger}
}

func (s *LogNotificationSender) SendBookingConfirmation(ctx context.Context, bookingID string, req bookingDomain.BookingRequest) error {
	s.logger.Info("booking confirmation",
		zap.String("booking_id", bookingID),
		zap.String("room_id", req.RoomID),
		zap.String("check_in", req.CheckIn.Format(DateLayout)),
		zap.String("check_out", req.CheckOut.Format(DateLayout)),
		zap.Int("occupants", req.Occupants),
	)
	return nil
}

var (
	_ bookingDomain.NotificationSender = (*KafkaNotificationSender)(nil)
	_ bookingDomain.NotificationSender = (*NatsNotificationSender)(nil)
	_ bookingDomain.NotificationSender = (*LogNotificationSender)(nil)
)
