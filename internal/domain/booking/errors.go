package booking

import (
	"errors"
	"fmt"
)

// ErrBusiness is the sentinel shared by every domain-rule violation.
var ErrBusiness = errors.New("business rule violated")

var (
	// ErrBookingNotFound is returned by stores when a booking id is unknown.
	ErrBookingNotFound = errors.New("booking not found")

	// ErrRoomNotFound is returned by room inventories for unknown room ids.
	ErrRoomNotFound = errors.New("room not found")
)

var (
	// ErrNoRoomAvailable is returned when no room can take the request.
	ErrNoRoomAvailable = NewBusinessError("no room available")

	// ErrPaymentRejected is returned when the payment processor declines a charge.
	ErrPaymentRejected = NewBusinessError("payment rejected")
)

// BusinessError describes a domain-rule violation.
type BusinessError struct {
	Reason string
}

// NewBusinessError creates a BusinessError with the given reason.
func NewBusinessError(reason string) *BusinessError {
	return &BusinessError{Reason: reason}
}

func (e *BusinessError) Error() string {
	return fmt.Sprintf("%s: %s", ErrBusiness.Error(), e.Reason)
}

// Unwrap lets errors.Is match ErrBusiness.
func (e *BusinessError) Unwrap() error {
	return ErrBusiness
}

// ValidationError reports a malformed booking request.
type ValidationError struct {
	Field   string
	Message string
}

// NewValidationError creates a ValidationError for the given field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// IsBusinessError reports whether err is, or wraps, a domain-rule violation.
func IsBusinessError(err error) bool {
	return errors.Is(err, ErrBusiness)
}
