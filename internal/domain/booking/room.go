package booking

// Room is an immutable inventory unit with an occupant capacity.
type Room struct {
	ID       string `json:"id"`
	Capacity int    `json:"capacity"`
}

// NewRoom creates a Room, rejecting an empty id or a capacity below one.
func NewRoom(id string, capacity int) (Room, error) {
	if id == "" {
		return Room{}, NewValidationError("room_id", "room ID is required")
	}
	if capacity < 1 {
		return Room{}, NewValidationError("capacity", "room capacity must be at least 1")
	}
	return Room{ID: id, Capacity: capacity}, nil
}

// Fits returns true if the room can hold the given number of occupants.
func (r Room) Fits(occupants int) bool {
	return r.Capacity >= occupants
}

// TotalCapacity sums the capacity of all rooms.
func TotalCapacity(rooms []Room) int {
	total := 0
	for _, r := range rooms {
		total += r.Capacity
	}
	return total
}
