package booking

import (
	"time"

	"github.com/google/uuid"
)

// Booking is a persisted booking request keyed by a generated identifier.
type Booking struct {
	id          string
	request     BookingRequest
	status      BookingStatus
	createdAt   time.Time
	cancelledAt *time.Time
}

// NewBooking creates a confirmed Booking with a fresh identifier.
func NewBooking(req BookingRequest) (*Booking, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if !req.HasRoom() {
		return nil, NewValidationError("room_id", "a room must be assigned before saving")
	}
	return &Booking{
		id:        uuid.New().String(),
		request:   req,
		status:    StatusConfirmed,
		createdAt: time.Now().UTC(),
	}, nil
}

// ReconstructBooking rebuilds a Booking from persistence data (no validation).
func ReconstructBooking(
	id string,
	req BookingRequest,
	status BookingStatus,
	createdAt time.Time,
	cancelledAt *time.Time,
) *Booking {
	return &Booking{
		id:          id,
		request:     req,
		status:      status,
		createdAt:   createdAt,
		cancelledAt: cancelledAt,
	}
}

// ID returns the booking's unique identifier.
func (b *Booking) ID() string { return b.id }

// Request returns a copy of the booked request.
func (b *Booking) Request() BookingRequest { return b.request }

// Status returns the current booking status.
func (b *Booking) Status() BookingStatus { return b.status }

// CreatedAt returns the creation timestamp.
func (b *Booking) CreatedAt() time.Time { return b.createdAt }

// CancelledAt returns the cancellation time, or nil while the booking is active.
func (b *Booking) CancelledAt() *time.Time { return b.cancelledAt }

// IsActive returns true until the booking is cancelled.
func (b *Booking) IsActive() bool { return b.status == StatusConfirmed }

// Cancel invalidates the booking.
func (b *Booking) Cancel() error {
	if !b.status.CanTransitionTo(StatusCancelled) {
		return NewInvalidStateError(b.status, StatusCancelled)
	}
	now := time.Now().UTC()
	b.status = StatusCancelled
	b.cancelledAt = &now
	return nil
}
