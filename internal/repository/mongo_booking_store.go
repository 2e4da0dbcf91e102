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

const bookingsCollection = "bookings"

// MongoBookingStore keeps bookings as documents. Delete stamps cancelled_at.
type MongoBookingStore struct {
	col *mongo.Collection
}

// NewMongoBookingStore creates a MongoBookingStore on the given database.
func NewMongoBookingStore(db *mongo.Database) *MongoBookingStore {
	return &MongoBookingStore{col: db.Collection(bookingsCollection)}
}

// ConnectMongo opens a client and returns the named database.
func ConnectMongo(ctx context.Context, uri, database string) (*mongo.Database, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri).SetRetryWrites(true))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}
	return client.Database(database), nil
}

// Save inserts a new booking document and returns its identifier.
func (s *MongoBookingStore) Save(ctx context.Context, req bookingDomain.BookingRequest) (string, error) {
	bk, err := bookingDomain.NewBooking(req)
	if err != nil {
		return "", err
	}
	if _, err := s.col.InsertOne(ctx, newBookingDocument(bk)); err != nil {
		return "", fmt.Errorf("failed to save booking: %w", err)
	}
	return bk.ID(), nil
}

// Get retrieves the request of an active booking.
func (s *MongoBookingStore) Get(ctx context.Context, id string) (*bookingDomain.BookingRequest, error) {
	var doc bookingDocument
	err := s.col.FindOne(ctx, activeFilter(id)).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, bookingDomain.ErrBookingNotFound
		}
		return nil, fmt.Errorf("failed to find booking: %w", err)
	}
	req := doc.toAggregate().Request()
	return &req, nil
}

// Delete cancels an active booking.
func (s *MongoBookingStore) Delete(ctx context.Context, id string) error {
	update := bson.M{"$set": bson.M{
		"status":       string(bookingDomain.StatusCancelled),
		"cancelled_at": time.Now().UTC().UnixMilli(),
	}}
	res, err := s.col.UpdateOne(ctx, activeFilter(id), update)
	if err != nil {
		return fmt.Errorf("failed to cancel booking: %w", err)
	}
	if res.MatchedCount == 0 {
		return bookingDomain.ErrBookingNotFound
	}
	return nil
}

func activeFilter(id string) bson.M {
	return bson.M{"_id": id, "status": string(bookingDomain.StatusConfirmed)}
}

type bookingDocument struct {
	ID          string `bson:"_id"`
	RoomID      string `bson:"room_id"`
	CheckIn     int64  `bson:"check_in"`
	CheckOut    int64  `bson:"check_out"`
	Occupants   int    `bson:"occupants"`
	Prepay      bool   `bson:"prepay"`
	Status      string `bson:"status"`
	CreatedAt   int64  `bson:"created_at"`
	CancelledAt *int64 `bson:"cancelled_at,omitempty"`
}

func newBookingDocument(bk *bookingDomain.Booking) bookingDocument {
	req := bk.Request()
	doc := bookingDocument{
		ID:        bk.ID(),
		RoomID:    req.RoomID,
		CheckIn:   req.CheckIn.UnixMilli(),
		CheckOut:  req.CheckOut.UnixMilli(),
		Occupants: req.Occupants,
		Prepay:    req.Prepay,
		Status:    string(bk.Status()),
		CreatedAt: bk.CreatedAt().UnixMilli(),
	}
	if at := bk.CancelledAt(); at != nil {
		ms := at.UnixMilli()
		doc.CancelledAt = &ms
	}
	return doc
}

func (d bookingDocument) toAggregate() *bookingDomain.Booking {
	req := bookingDomain.BookingRequest{
		RoomID:    d.RoomID,
		CheckIn:   timestampToTime(d.CheckIn),
		CheckOut:  timestampToTime(d.CheckOut),
		Occupants: d.Occupants,
		Prepay:    d.Prepay,
	}
	var cancelledAt *time.Time
	if d.CancelledAt != nil {
		t := timestampToTime(*d.CancelledAt)
		cancelledAt = &t
	}
	return bookingDomain.ReconstructBooking(
		d.ID,
		req,
		bookingDomain.BookingStatus(d.Status),
		timestampToTime(d.CreatedAt),
		cancelledAt,
	)
}

func timestampToTime(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}

var _ bookingDomain.BookingStore = (*MongoBookingStore)(nil)
