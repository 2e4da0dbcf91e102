package payment

import (
	"context"

	"github.com/google/uuid"
	bookingDomain "github.com/happyhotel/service-booking/internal/domain/booking"
	"go.uber.org/zap"
)

const (
	// DefaultLimit is the largest price accepted from a small party.
	DefaultLimit = 200.0

	// DefaultGroupSize is the party size from which the limit no longer applies.
	DefaultGroupSize = 3
)

// LimitProcessor is the default PaymentService. It declines charges above a
// limit for parties smaller than the group size.
type LimitProcessor struct {
	limit     float64
	groupSize int
	logger    *zap.Logger
}

// NewLimitProcessor creates a new LimitProcessor.
func NewLimitProcessor(limit float64, groupSize int, logger *zap.Logger) *LimitProcessor {
	return &LimitProcessor{
		limit:     limit,
		groupSize: groupSize,
		logger:    logger,
	}
}

// Pay charges price for req and returns the payment identifier.
func (p *LimitProcessor) Pay(ctx context.Context, req bookingDomain.BookingRequest, price float64) (string, error) {
	if price < 0 {
		return "", bookingDomain.NewValidationError("price", "price cannot be negative")
	}
	if price > p.limit && req.Occupants < p.groupSize {
		p.logger.Info("payment declined",
			zap.String("room_id", req.RoomID),
			zap.Float64("price", price),
			zap.Float64("limit", p.limit),
			zap.Int("occupants", req.Occupants),
		)
		return "", bookingDomain.ErrPaymentRejected
	}

	paymentID := uuid.New().String()
	p.logger.Debug("payment captured",
		zap.String("payment_id", paymentID),
		zap.String("room_id", req.RoomID),
		zap.Float64("price", price),
	)
	return paymentID, nil
}

var _ bookingDomain.PaymentService = (*LimitProcessor)(nil)
