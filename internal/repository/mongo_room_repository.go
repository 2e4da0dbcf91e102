package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	bookingDomain "github.com/happyhotel/service-booking/internal/domain/booking"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const roomsCollection = "rooms"

// MongoRoomRepository implements RoomService on a rooms collection, so room
// availability survives restarts alongside MongoBookingStore.
type MongoRoomRepository struct {
	col *mongo.Collection
}

// NewMongoRoomRepository creates a MongoRoomRepository on the given database.
func NewMongoRoomRepository(db *mongo.Database) *MongoRoomRepository {
	return &MongoRoomRepository{col: db.Collection(roomsCollection)}
}

type roomDocument struct {
	ID        string `bson:"_id"`
	Capacity  int    `bson:"capacity"`
	Available bool   `bson:"available"`
	UpdatedAt int64  `bson:"updated_at"`
}

// GetAvailableRooms lists available rooms ordered by id.
func (r *MongoRoomRepository) GetAvailableRooms(ctx context.Context) ([]bookingDomain.Room, error) {
	cur, err := r.col.Find(ctx, bson.M{"available": true}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to list available rooms: %w", err)
	}
	var docs []roomDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode rooms: %w", err)
	}
	rooms := make([]bookingDomain.Room, len(docs))
	for i, d := range docs {
		rooms[i] = bookingDomain.Room{ID: d.ID, Capacity: d.Capacity}
	}
	return rooms, nil
}

// FindAvailableRoomID returns the smallest available room that fits the occupants.
func (r *MongoRoomRepository) FindAvailableRoomID(ctx context.Context, req bookingDomain.BookingRequest) (string, error) {
	filter := bson.M{"available": true, "capacity": bson.M{"$gte": req.Occupants}}
	opts := options.FindOne().SetSort(bson.D{{Key: "capacity", Value: 1}, {Key: "_id", Value: 1}})

	var doc roomDocument
	if err := r.col.FindOne(ctx, filter, opts).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return "", bookingDomain.ErrNoRoomAvailable
		}
		return "", fmt.Errorf("failed to find available room: %w", err)
	}
	return doc.ID, nil
}

// BookRoom marks an available room as taken. The available filter makes the
// update a compare-and-set, so two bookings cannot take the same room.
func (r *MongoRoomRepository) BookRoom(ctx context.Context, roomID string) error {
	res, err := r.col.UpdateOne(ctx,
		bson.M{"_id": roomID, "available": true},
		bson.M{"$set": bson.M{"available": false, "updated_at": time.Now().UTC().UnixMilli()}},
	)
	if err != nil {
		return fmt.Errorf("failed to book room: %w", err)
	}
	if res.MatchedCount == 0 {
		if err := r.ensureExists(ctx, roomID); err != nil {
			return err
		}
		return bookingDomain.ErrNoRoomAvailable
	}
	return nil
}

// UnbookRoom returns a room to the available pool.
func (r *MongoRoomRepository) UnbookRoom(ctx context.Context, roomID string) error {
	res, err := r.col.UpdateOne(ctx,
		bson.M{"_id": roomID},
		bson.M{"$set": bson.M{"available": true, "updated_at": time.Now().UTC().UnixMilli()}},
	)
	if err != nil {
		return fmt.Errorf("failed to unbook room: %w", err)
	}
	if res.MatchedCount == 0 {
		return bookingDomain.ErrRoomNotFound
	}
	return nil
}

// Seed inserts rooms that do not exist yet; existing documents keep their availability.
func (r *MongoRoomRepository) Seed(ctx context.Context, rooms []bookingDomain.Room) error {
	for _, room := range rooms {
		_, err := r.col.UpdateOne(ctx,
			bson.M{"_id": room.ID},
			bson.M{"$setOnInsert": bson.M{
				"capacity":   room.Capacity,
				"available":  true,
				"updated_at": time.Now().UTC().UnixMilli(),
			}},
			options.Update().SetUpsert(true),
		)
		if err != nil {
			return fmt.Errorf("failed to seed room %s: %w", room.ID, err)
		}
	}
	return nil
}

func (r *MongoRoomRepository) ensureExists(ctx context.Context, roomID string) error {
	count, err := r.col.CountDocuments(ctx, bson.M{"_id": roomID})
	if err != nil {
		return fmt.Errorf("failed to look up room: %w", err)
	}
	if count == 0 {
		return bookingDomain.ErrRoomNotFound
	}
	return nil
}

var _ bookingDomain.RoomService = (*MongoRoomRepository)(nil)
