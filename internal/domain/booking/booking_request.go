package booking

import "time"

const hoursPerDay = 24

// BookingRequest is a caller's intent to book a room for a date range.
// RoomID stays empty until a room has been assigned.
type BookingRequest struct {
	RoomID    string    `json:"room_id,omitempty"`
	CheckIn   time.Time `json:"check_in"`
	CheckOut  time.Time `json:"check_out"`
	Occupants int       `json:"occupants"`
	Prepay    bool      `json:"prepay"`
}

// NewBookingRequest creates a validated BookingRequest without a room.
func NewBookingRequest(checkIn, checkOut time.Time, occupants int, prepay bool) (*BookingRequest, error) {
	req := &BookingRequest{
		CheckIn:   checkIn,
		CheckOut:  checkOut,
		Occupants: occupants,
		Prepay:    prepay,
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return req, nil
}

// Validate checks the date range and occupant count.
func (r *BookingRequest) Validate() error {
	if r.Occupants < 1 {
		return NewValidationError("occupants", "at least one occupant is required")
	}
	if r.Nights() < 1 {
		return NewValidationError("check_out", "check-out must be at least one day after check-in")
	}
	return nil
}

// Nights returns the number of whole days between check-in and check-out.
func (r *BookingRequest) Nights() int {
	in := truncateToDay(r.CheckIn)
	out := truncateToDay(r.CheckOut)
	return int(out.Sub(in).Hours() / hoursPerDay)
}

// AssignRoom sets the room selected for this request.
func (r *BookingRequest) AssignRoom(roomID string) {
	r.RoomID = roomID
}

// HasRoom returns true once a room has been assigned.
func (r *BookingRequest) HasRoom() bool {
	return r.RoomID != ""
}

// truncateToDay normalizes t to midnight UTC of its calendar date.
func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
