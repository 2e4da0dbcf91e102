package repository

import (
	"context"
	"sync"

	bookingDomain "github.com/happyhotel/service-booking/internal/domain/booking"
)

// MemoryBookingStore is an in-process BookingStore. Cancelled bookings are kept
// but no longer returned.
type MemoryBookingStore struct {
	mu    sync.RWMutex
	items map[string]*bookingDomain.Booking
}

// NewMemoryBookingStore builds an empty store.
func NewMemoryBookingStore() *MemoryBookingStore {
	return &MemoryBookingStore{
		items: make(map[string]*bookingDomain.Booking),
	}
}

// Save stores a new booking and returns its identifier.
func (s *MemoryBookingStore) Save(ctx context.Context, req bookingDomain.BookingRequest) (string, error) {
	bk, err := bookingDomain.NewBooking(req)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[bk.ID()] = bk
	return bk.ID(), nil
}

// Get returns a copy of the request of an active booking.
func (s *MemoryBookingStore) Get(ctx context.Context, id string) (*bookingDomain.BookingRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	bk, ok := s.items[id]
	if !ok || !bk.IsActive() {
		return nil, bookingDomain.ErrBookingNotFound
	}
	req := bk.Request()
	return &req, nil
}

// Delete cancels an active booking.
func (s *MemoryBookingStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	bk, ok := s.items[id]
	if !ok || !bk.IsActive() {
		return bookingDomain.ErrBookingNotFound
	}
	return bk.Cancel()
}

// Len returns the number of active bookings.
func (s *MemoryBookingStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, bk := range s.items {
		if bk.IsActive() {
			n++
		}
	}
	return n
}

var _ bookingDomain.BookingStore = (*MemoryBookingStore)(nil)
