package booking

import "context"

// RoomService exposes room inventory.
type RoomService interface {
	// GetAvailableRooms lists rooms that can currently be booked.
	GetAvailableRooms(ctx context.Context) ([]Room, error)

	// FindAvailableRoomID selects a room for req or returns ErrNoRoomAvailable.
	FindAvailableRoomID(ctx context.Context, req BookingRequest) (string, error)

	// BookRoom marks a room as taken.
	BookRoom(ctx context.Context, roomID string) error

	// UnbookRoom returns a room to the available pool.
	UnbookRoom(ctx context.Context, roomID string) error
}

// PaymentService charges a booking.
type PaymentService interface {
	// Pay charges price for req and returns the payment identifier.
	Pay(ctx context.Context, req BookingRequest, price float64) (string, error)
}

// BookingStore defines the persistence contract for bookings.
type BookingStore interface {
	// Save persists req and returns the generated booking identifier.
	Save(ctx context.Context, req BookingRequest) (string, error)

	// Get retrieves the request of an active booking, or ErrBookingNotFound.
	Get(ctx context.Context, id string) (*BookingRequest, error)

	// Delete invalidates an active booking, or returns ErrBookingNotFound.
	Delete(ctx context.Context, id string) error
}

// NotificationSender delivers booking confirmations to guests.
type NotificationSender interface {
	SendBookingConfirmation(ctx context.Context, bookingID string, req BookingRequest) error
}
