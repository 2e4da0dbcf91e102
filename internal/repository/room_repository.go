package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	bookingDomain "github.com/happyhotel/service-booking/internal/domain/booking"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RoomModel is the GORM model for the rooms table.
type RoomModel struct {
	ID        string    `gorm:"type:varchar(50);primaryKey"`
	Capacity  int       `gorm:"not null"`
	Available bool      `gorm:"not null;default:true;index"`
	CreatedAt time.Time `gorm:"type:timestamptz;not null;default:now()"`
	UpdatedAt time.Time `gorm:"type:timestamptz;not null;default:now()"`
}

func (RoomModel) TableName() string { return "rooms" }

// GormRoomRepository implements RoomService using GORM.
type GormRoomRepository struct {
	db *gorm.DB
}

func NewGormRoomRepository(db *gorm.DB) *GormRoomRepository {
	return &GormRoomRepository{db: db}
}

// GetAvailableRooms lists available rooms ordered by id.
func (r *GormRoomRepository) GetAvailableRooms(ctx context.Context) ([]bookingDomain.Room, error) {
	var models []RoomModel
	if err := r.db.WithContext(ctx).
		Where("available = ?", true).
		Order("id ASC").
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to list available rooms: %w", err)
	}
	rooms := make([]bookingDomain.Room, len(models))
	for i, m := range models {
		rooms[i] = toRoomDomain(&m)
	}
	return rooms, nil
}

// FindAvailableRoomID returns the smallest available room that fits the occupants.
func (r *GormRoomRepository) FindAvailableRoomID(ctx context.Context, req bookingDomain.BookingRequest) (string, error) {
	var model RoomModel
	err := r.db.WithContext(ctx).
		Where("available = ? AND capacity >= ?", true, req.Occupants).
		Order("capacity ASC, id ASC").
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", bookingDomain.ErrNoRoomAvailable
		}
		return "", fmt.Errorf("failed to find available room: %w", err)
	}
	return model.ID, nil
}

// BookRoom marks an available room as taken.
func (r *GormRoomRepository) BookRoom(ctx context.Context, roomID string) error {
	result := r.db.WithContext(ctx).
		Model(&RoomModel{}).
		Where("id = ? AND available = ?", roomID, true).
		Updates(map[string]interface{}{
			"available":  false,
			"updated_at": time.Now().UTC(),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to book room: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		if err := r.ensureExists(ctx, roomID); err != nil {
			return err
		}
		return bookingDomain.ErrNoRoomAvailable
	}
	return nil
}

// UnbookRoom returns a room to the available pool.
func (r *GormRoomRepository) UnbookRoom(ctx context.Context, roomID string) error {
	result := r.db.WithContext(ctx).
		Model(&RoomModel{}).
		Where("id = ?", roomID).
		Updates(map[string]interface{}{
			"available":  true,
			"updated_at": time.Now().UTC(),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to unbook room: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return bookingDomain.ErrRoomNotFound
	}
	return nil
}

// Seed inserts rooms that do not exist yet; existing rows are left untouched.
func (r *GormRoomRepository) Seed(ctx context.Context, rooms []bookingDomain.Room) error {
	if len(rooms) == 0 {
		return nil
	}
	models := make([]RoomModel, len(rooms))
	for i, room := range rooms {
		models[i] = RoomModel{ID: room.ID, Capacity: room.Capacity, Available: true}
	}
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models).Error; err != nil {
		return fmt.Errorf("failed to seed rooms: %w", err)
	}
	return nil
}

func (r *GormRoomRepository) ensureExists(ctx context.Context, roomID string) error {
	var count int64
	if err := r.db.WithContext(ctx).Model(&RoomModel{}).Where("id = ?", roomID).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to look up room: %w", err)
	}
	if count == 0 {
		return bookingDomain.ErrRoomNotFound
	}
	return nil
}

func toRoomDomain(m *RoomModel) bookingDomain.Room {
	return bookingDomain.Room{ID: m.ID, Capacity: m.Capacity}
}

var _ bookingDomain.RoomService = (*GormRoomRepository)(nil)
