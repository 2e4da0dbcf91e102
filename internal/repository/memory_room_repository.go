package repository

import (
	"context"
	"sort"
	"sync"

	bookingDomain "github.com/happyhotel/service-booking/internal/domain/booking"
)

type memoryRoom struct {
	room      bookingDomain.Room
	available bool
}

// MemoryRoomRepository is an in-process RoomService.
type MemoryRoomRepository struct {
	mu    sync.RWMutex
	rooms map[string]*memoryRoom
}

// NewMemoryRoomRepository builds an inventory where every given room is available.
func NewMemoryRoomRepository(rooms ...bookingDomain.Room) *MemoryRoomRepository {
	r := &MemoryRoomRepository{rooms: make(map[string]*memoryRoom, len(rooms))}
	for _, room := range rooms {
		r.rooms[room.ID] = &memoryRoom{room: room, available: true}
	}
	return r
}

// GetAvailableRooms lists available rooms ordered by id.
func (r *MemoryRoomRepository) GetAvailableRooms(ctx context.Context) ([]bookingDomain.Room, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rooms := make([]bookingDomain.Room, 0, len(r.rooms))
	for _, mr := range r.rooms {
		if mr.available {
			rooms = append(rooms, mr.room)
		}
	}
	sort.Slice(rooms, func(i, j int) bool { return rooms[i].ID < rooms[j].ID })
	return rooms, nil
}

// FindAvailableRoomID returns the smallest available room that fits the occupants.
func (r *MemoryRoomRepository) FindAvailableRoomID(ctx context.Context, req bookingDomain.BookingRequest) (string, error) {
	rooms, err := r.GetAvailableRooms(ctx)
	if err != nil {
		return "", err
	}
	var best *bookingDomain.Room
	for i := range rooms {
		if !rooms[i].Fits(req.Occupants) {
			continue
		}
		if best == nil || rooms[i].Capacity < best.Capacity {
			best = &rooms[i]
		}
	}
	if best == nil {
		return "", bookingDomain.ErrNoRoomAvailable
	}
	return best.ID, nil
}

// BookRoom marks an available room as taken.
func (r *MemoryRoomRepository) BookRoom(ctx context.Context, roomID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	mr, ok := r.rooms[roomID]
	if !ok {
		return bookingDomain.ErrRoomNotFound
	}
	if !mr.available {
		return bookingDomain.ErrNoRoomAvailable
	}
	mr.available = false
	return nil
}

// UnbookRoom returns a room to the available pool.
func (r *MemoryRoomRepository) UnbookRoom(ctx context.Context, roomID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	mr, ok := r.rooms[roomID]
	if !ok {
		return bookingDomain.ErrRoomNotFound
	}
	mr.available = true
	return nil
}

var _ bookingDomain.RoomService = (*MemoryRoomRepository)(nil)
