package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	bookingDomain "github.com/happyhotel/service-booking/internal/domain/booking"
	"gorm.io/gorm"
)

// BookingModel is the GORM model for the bookings table.
type BookingModel struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey"`
	RoomID      string         `gorm:"not null;size:50;index"`
	CheckIn     time.Time      `gorm:"type:date;not null"`
	CheckOut    time.Time      `gorm:"type:date;not null"`
	Occupants   int            `gorm:"not null"`
	Prepay      bool           `gorm:"not null;default:false"`
	Status      string         `gorm:"not null;size:20;index"`
	CancelledAt *time.Time     `gorm:""`
	CreatedAt   time.Time      `gorm:"not null"`
	DeletedAt   gorm.DeletedAt `gorm:"index"`
}

// TableName returns the table name for the GORM model.
func (BookingModel) TableName() string {
	return "bookings"
}

// GormBookingStore is the GORM-based implementation of BookingStore.
// Delete is a soft delete: the row stays for audit but is no longer returned.
type GormBookingStore struct {
	db *gorm.DB
}

// NewGormBookingStore creates a new GormBookingStore.
func NewGormBookingStore(db *gorm.DB) *GormBookingStore {
	return &GormBookingStore{db: db}
}

// Save persists a new booking and returns its identifier.
func (r *GormBookingStore) Save(ctx context.Context, req bookingDomain.BookingRequest) (string, error) {
	bk, err := bookingDomain.NewBooking(req)
	if err != nil {
		return "", err
	}

	model, err := toBookingModel(bk)
	if err != nil {
		return "", fmt.Errorf("failed to convert booking to model: %w", err)
	}

	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return "", fmt.Errorf("failed to save booking: %w", err)
	}
	return bk.ID(), nil
}

// Get retrieves the request of an active booking.
func (r *GormBookingStore) Get(ctx context.Context, id string) (*bookingDomain.BookingRequest, error) {
	bk, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	req := bk.Request()
	return &req, nil
}

// FindByID retrieves an active booking aggregate by its identifier.
func (r *GormBookingStore) FindByID(ctx context.Context, id string) (*bookingDomain.Booking, error) {
	bookingID, err := uuid.Parse(id)
	if err != nil {
		return nil, bookingDomain.ErrBookingNotFound
	}

	var model BookingModel
	if err := r.db.WithContext(ctx).Where("id = ?", bookingID).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, bookingDomain.ErrBookingNotFound
		}
		return nil, fmt.Errorf("failed to find booking by ID: %w", err)
	}
	return toDomainBooking(&model)
}

// Delete marks the booking cancelled and soft-deletes it.
func (r *GormBookingStore) Delete(ctx context.Context, id string) error {
	bookingID, err := uuid.Parse(id)
	if err != nil {
		return bookingDomain.ErrBookingNotFound
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now().UTC()
		result := tx.Model(&BookingModel{}).
			Where("id = ?", bookingID).
			Updates(map[string]interface{}{
				"status":       string(bookingDomain.StatusCancelled),
				"cancelled_at": now,
			})
		if result.Error != nil {
			return fmt.Errorf("failed to cancel booking: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return bookingDomain.ErrBookingNotFound
		}

		if err := tx.Where("id = ?", bookingID).Delete(&BookingModel{}).Error; err != nil {
			return fmt.Errorf("failed to delete booking: %w", err)
		}
		return nil
	})
}

// CountActive returns the number of bookings that have not been cancelled.
func (r *GormBookingStore) CountActive(ctx context.Context) (int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&BookingModel{}).Count(&total).Error; err != nil {
		return 0, fmt.Errorf("failed to count bookings: %w", err)
	}
	return total, nil
}

// --- Conversion Helpers ---

func toBookingModel(bk *bookingDomain.Booking) (*BookingModel, error) {
	id, err := uuid.Parse(bk.ID())
	if err != nil {
		return nil, fmt.Errorf("invalid booking id %q: %w", bk.ID(), err)
	}
	req := bk.Request()
	return &BookingModel{
		ID:          id,
		RoomID:      req.RoomID,
		CheckIn:     req.CheckIn,
		CheckOut:    req.CheckOut,
		Occupants:   req.Occupants,
		Prepay:      req.Prepay,
		Status:      string(bk.Status()),
		CancelledAt: bk.CancelledAt(),
		CreatedAt:   bk.CreatedAt(),
	}, nil
}

func toDomainBooking(m *BookingModel) (*bookingDomain.Booking, error) {
	status, err := bookingDomain.ParseBookingStatus(m.Status)
	if err != nil {
		return nil, err
	}

	req := bookingDomain.BookingRequest{
		RoomID:    m.RoomID,
		CheckIn:   m.CheckIn.UTC(),
		CheckOut:  m.CheckOut.UTC(),
		Occupants: m.Occupants,
		Prepay:    m.Prepay,
	}
	return bookingDomain.ReconstructBooking(m.ID.String(), req, status, m.CreatedAt, m.CancelledAt), nil
}

var _ bookingDomain.BookingStore = (*GormBookingStore)(nil)
