package events

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const cloudEventsSpecVersion = "1.0"

// Event types carried on the booking topics.
const (
	TypeBookingConfirmed = "hotel.booking.confirmed"
	TypeMakeBooking      = "hotel.booking.make"
	TypeCancelBooking    = "hotel.booking.cancel"
)

// CloudEvent is the JSON envelope used for every message this service reads or writes.
type CloudEvent struct {
	SpecVersion     string          `json:"specversion"`
	ID              string          `json:"id"`
	Source          string          `json:"source"`
	Type            string          `json:"type"`
	Time            time.Time       `json:"time"`
	DataContentType string          `json:"datacontenttype"`
	Data            json.RawMessage `json:"data"`
}

// NewCloudEvent wraps data in a new envelope.
func NewCloudEvent(source, eventType string, data interface{}) (CloudEvent, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return CloudEvent{}, fmt.Errorf("failed to marshal %s data: %w", eventType, err)
	}
	return CloudEvent{
		SpecVersion:     cloudEventsSpecVersion,
		ID:              uuid.New().String(),
		Source:          source,
		Type:            eventType,
		Time:            time.Now().UTC(),
		DataContentType: "application/json",
		Data:            raw,
	}, nil
}

// ParseData decodes the event payload into v.
func (e CloudEvent) ParseData(v interface{}) error {
	if len(e.Data) == 0 {
		return fmt.Errorf("event %s has no data", e.ID)
	}
	return json.Unmarshal(e.Data, v)
}

// BookingConfirmedEvent is published once a booking has been stored.
type BookingConfirmedEvent struct {
	BookingID  string    `json:"booking_id"`
	RoomID     string    `json:"room_id"`
	CheckIn    string    `json:"check_in"`
	CheckOut   string    `json:"check_out"`
	Occupants  int       `json:"occupants"`
	Prepaid    bool      `json:"prepaid"`
	OccurredAt time.Time `json:"occurred_at"`
}

// MakeBookingCommand asks the service to book a room. Dates use DateLayout.
type MakeBookingCommand struct {
	CheckIn   string `json:"check_in"`
	CheckOut  string `json:"check_out"`
	Occupants int    `json:"occupants"`
	Prepay    bool   `json:"prepay"`
}

// CancelBookingCommand asks the service to cancel a booking.
type CancelBookingCommand struct {
	BookingID string `json:"booking_id"`
}

// DateLayout is the calendar date format used in event payloads.
const DateLayout = "2006-01-02"
