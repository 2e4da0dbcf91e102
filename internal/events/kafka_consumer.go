package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	bookingDomain "github.com/happyhotel/service-booking/internal/domain/booking"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// BookingCommands is the part of the booking service driven by commands.
type BookingCommands interface {
	MakeBooking(ctx context.Context, req *bookingDomain.BookingRequest) (string, error)
	CancelBooking(ctx context.Context, bookingID string) error
}

type messageReader interface {
	FetchMessage(ctx context.Context) (kafkago.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

const (
	retryInitialInterval = 500 * time.Millisecond
	retryMaxInterval     = 30 * time.Second
)

// BookingCommandConsumer listens to booking commands and drives the booking service.
type BookingCommandConsumer struct {
	reader     messageReader
	service    BookingCommands
	logger     *zap.Logger
	newBackOff func() backoff.BackOff
}

// NewBookingCommandConsumer creates a new BookingCommandConsumer.
func NewBookingCommandConsumer(
	brokers []string,
	groupID string,
	topic string,
	service BookingCommands,
	logger *zap.Logger,
) *BookingCommandConsumer {
	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:  brokers,
		GroupID:  groupID,
		Topic:    topic,
		MinBytes: 1,
		MaxBytes: 10e6,
		MaxWait:  500 * time.Millisecond,
	})
	return &BookingCommandConsumer{
		reader:     reader,
		service:    service,
		logger:     logger,
		newBackOff: defaultBackOff,
	}
}

func defaultBackOff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = retryInitialInterval
	b.MaxInterval = retryMaxInterval
	b.MaxElapsedTime = 0
	return b
}

// Start begins consuming booking commands. This blocks until the context is cancelled.
// Messages are handled in partition order. A message that fails with a non-business
// error is retried with exponential backoff and nothing after it is fetched or
// committed until it succeeds.
func (c *BookingCommandConsumer) Start(ctx context.Context) error {
	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("failed to fetch booking command: %w", err)
		}

		if err := c.handleWithRetry(ctx, msg); err != nil {
			return err
		}

		if err := c.reader.CommitMessages(ctx, msg); err != nil {
			c.logger.Error("failed to commit booking command",
				zap.Int64("offset", msg.Offset),
				zap.Error(err),
			)
		}
	}
}

func (c *BookingCommandConsumer) handleWithRetry(ctx context.Context, msg kafkago.Message) error {
	newBackOff := c.newBackOff
	if newBackOff == nil {
		newBackOff = defaultBackOff
	}

	return backoff.RetryNotify(
		func() error { return c.handleMessage(ctx, msg) },
		backoff.WithContext(newBackOff(), ctx),
		func(err error, wait time.Duration) {
			c.logger.Error("failed to handle booking command, retrying",
				zap.Int64("offset", msg.Offset),
				zap.Int("partition", msg.Partition),
				zap.Duration("retry_in", wait),
				zap.Error(err),
			)
		},
	)
}

// Close closes the underlying Kafka reader.
func (c *BookingCommandConsumer) Close() error {
	return c.reader.Close()
}

func (c *BookingCommandConsumer) handleMessage(ctx context.Context, msg kafkago.Message) error {
	var cloudEvent CloudEvent
	if err := json.Unmarshal(msg.Value, &cloudEvent); err != nil {
		c.logger.Error("failed to parse cloud event from command topic",
			zap.Error(err),
			zap.String("raw", string(msg.Value)),
		)
		return nil // Don't retry malformed messages
	}

	switch cloudEvent.Type {
	case TypeMakeBooking:
		return c.handleMakeBooking(ctx, cloudEvent)
	case TypeCancelBooking:
		return c.handleCancelBooking(ctx, cloudEvent)
	default:
		c.logger.Debug("ignoring unhandled booking command type",
			zap.String("type", cloudEvent.Type),
		)
		return nil
	}
}

func (c *BookingCommandConsumer) handleMakeBooking(ctx context.Context, cloudEvent CloudEvent) error {
	var cmd MakeBookingCommand
	if err := cloudEvent.ParseData(&cmd); err != nil {
		c.logger.Error("failed to parse MakeBookingCommand data", zap.Error(err))
		return nil
	}

	req, err := toBookingRequest(cmd)
	if err != nil {
		c.logger.Warn("rejected invalid booking command",
			zap.String("event_id", cloudEvent.ID),
			zap.Error(err),
		)
		return nil
	}

	bookingID, err := c.service.MakeBooking(ctx, req)
	if err != nil {
		if bookingDomain.IsBusinessError(err) {
			c.logger.Warn("booking refused",
				zap.String("event_id", cloudEvent.ID),
				zap.Error(err),
			)
			return nil
		}
		return err
	}

	c.logger.Info("booking made from command",
		zap.String("event_id", cloudEvent.ID),
		zap.String("booking_id", bookingID),
	)
	return nil
}

func (c *BookingCommandConsumer) handleCancelBooking(ctx context.Context, cloudEvent CloudEvent) error {
	var cmd CancelBookingCommand
	if err := cloudEvent.ParseData(&cmd); err != nil {
		c.logger.Error("failed to parse CancelBookingCommand data", zap.Error(err))
		return nil
	}

	if err := c.service.CancelBooking(ctx, cmd.BookingID); err != nil {
		if errors.Is(err, bookingDomain.ErrBookingNotFound) {
			c.logger.Warn("cancel requested for unknown booking",
				zap.String("booking_id", cmd.BookingID),
			)
			return nil
		}
		return err
	}

	c.logger.Info("booking cancelled from command",
		zap.String("booking_id", cmd.BookingID),
	)
	return nil
}

func toBookingRequest(cmd MakeBookingCommand) (*bookingDomain.BookingRequest, error) {
	checkIn, err := time.Parse(DateLayout, cmd.CheckIn)
	if err != nil {
		return nil, bookingDomain.NewValidationError("check_in", err.Error())
	}
	checkOut, err := time.Parse(DateLayout, cmd.CheckOut)
	if err != nil {
		return nil, bookingDomain.NewValidationError("check_out", err.Error())
	}
	return bookingDomain.NewBookingRequest(checkIn, checkOut, cmd.Occupants, cmd.Prepay)
}
