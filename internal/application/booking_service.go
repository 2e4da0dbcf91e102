package application

import (
	"context"
	"fmt"

	bookingDomain "github.com/happyhotel/service-booking/internal/domain/booking"
	"go.uber.org/zap"
)

// BookingService is the application service orchestrating booking use cases.
// It holds no mutable state of its own.
type BookingService struct {
	rooms    bookingDomain.RoomService
	payments bookingDomain.PaymentService
	store    bookingDomain.BookingStore
	notifier bookingDomain.NotificationSender
	pricing  bookingDomain.PricingStrategy
	toEuro   bookingDomain.CurrencyConverter
	logger   *zap.Logger
}

// NewBookingService creates a new BookingService.
func NewBookingService(
	rooms bookingDomain.RoomService,
	payments bookingDomain.PaymentService,
	store bookingDomain.BookingStore,
	notifier bookingDomain.NotificationSender,
	pricing bookingDomain.PricingStrategy,
	toEuro bookingDomain.CurrencyConverter,
	logger *zap.Logger,
) *BookingService {
	return &BookingService{
		rooms:    rooms,
		payments: payments,
		store:    store,
		notifier: notifier,
		pricing:  pricing,
		toEuro:   toEuro,
		logger:   logger,
	}
}

// GetAvailablePlaceCount returns the total capacity of all currently available rooms.
func (s *BookingService) GetAvailablePlaceCount(ctx context.Context) (int, error) {
	rooms, err := s.rooms.GetAvailableRooms(ctx)
	if err != nil {
		return 0, err
	}
	return bookingDomain.TotalCapacity(rooms), nil
}

// CalculatePrice returns the price of the stay in house currency.
func (s *BookingService) CalculatePrice(req bookingDomain.BookingRequest) (float64, error) {
	return s.pricing.Calculate(req)
}

// CalculatePriceEuro returns the price of the stay converted to euro.
func (s *BookingService) CalculatePriceEuro(req bookingDomain.BookingRequest) (float64, error) {
	price, err := s.CalculatePrice(req)
	if err != nil {
		return 0, err
	}
	return s.toEuro(price), nil
}

// MakeBooking assigns a room, collects payment when prepaid, persists the booking
// and sends a confirmation. A collaborator error aborts the remaining steps and
// is returned to the caller, so errors.Is still matches it.
func (s *BookingService) MakeBooking(ctx context.Context, req *bookingDomain.BookingRequest) (string, error) {
	roomID, err := s.rooms.FindAvailableRoomID(ctx, *req)
	if err != nil {
		return "", err
	}

	// The price does not depend on the room, so a rejected stay leaves req untouched.
	price, err := s.CalculatePrice(*req)
	if err != nil {
		return "", err
	}
	req.AssignRoom(roomID)

	var paymentID string
	if req.Prepay {
		paymentID, err = s.payments.Pay(ctx, *req, price)
		if err != nil {
			return "", err
		}
		s.logger.Info("booking prepaid",
			zap.String("room_id", roomID),
			zap.String("payment_id", paymentID),
			zap.Float64("price", price),
		)
	}

	bookingID, err := s.store.Save(ctx, *req)
	if err != nil {
		s.logUnsettledPayment(paymentID, roomID, price, err)
		return "", err
	}

	if err := s.rooms.BookRoom(ctx, roomID); err != nil {
		if delErr := s.store.Delete(ctx, bookingID); delErr != nil {
			s.logger.Error("failed to roll back booking after room reservation failure",
				zap.String("booking_id", bookingID),
				zap.Error(delErr),
			)
		}
		s.logUnsettledPayment(paymentID, roomID, price, err)
		return "", fmt.Errorf("failed to reserve room %s: %w", roomID, err)
	}

	s.sendConfirmation(ctx, bookingID, *req)

	s.logger.Info("booking created",
		zap.String("booking_id", bookingID),
		zap.String("room_id", roomID),
		zap.Int("nights", req.Nights()),
		zap.Int("occupants", req.Occupants),
	)
	return bookingID, nil
}

// CancelBooking releases the booked room and invalidates the stored booking.
// An unknown id yields ErrBookingNotFound.
func (s *BookingService) CancelBooking(ctx context.Context, bookingID string) error {
	req, err := s.store.Get(ctx, bookingID)
	if err != nil {
		return err
	}

	if req.HasRoom() {
		if err := s.rooms.UnbookRoom(ctx, req.RoomID); err != nil {
			return err
		}
	}

	if err := s.store.Delete(ctx, bookingID); err != nil {
		return err
	}

	s.logger.Info("booking cancelled",
		zap.String("booking_id", bookingID),
		zap.String("room_id", req.RoomID),
	)
	return nil
}

// logUnsettledPayment records a prepayment that was taken for a booking that
// was not completed. Refunds are not automated; the log entry is what finance
// reconciles against.
func (s *BookingService) logUnsettledPayment(paymentID, roomID string, price float64, cause error) {
	if paymentID == "" {
		return
	}
	s.logger.Error("prepayment taken for failed booking needs a refund",
		zap.String("payment_id", paymentID),
		zap.String("room_id", roomID),
		zap.Float64("price", price),
		zap.Error(cause),
	)
}

// sendConfirmation is best effort: a failed notification never undoes a booking.
func (s *BookingService) sendConfirmation(ctx context.Context, bookingID string, req bookingDomain.BookingRequest) {
	if err := s.notifier.SendBookingConfirmation(ctx, bookingID, req); err != nil {
		s.logger.Warn("failed to send booking confirmation",
			zap.String("booking_id", bookingID),
			zap.Error(err),
		)
	}
}
