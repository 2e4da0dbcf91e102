package application

import (
	"context"

	bookingDomain "github.com/happyhotel/service-booking/internal/domain/booking"
	"github.com/stretchr/testify/mock"
)

type mockRoomService struct {
	mock.Mock
}

func (m *mockRoomService) GetAvailableRooms(ctx context.Context) ([]bookingDomain.Room, error) {
	args := m.Called(ctx)
	rooms, _ := args.Get(0).([]bookingDomain.Room)
	return rooms, args.Error(1)
}

func (m *mockRoomService) FindAvailableRoomID(ctx context.Context, req bookingDomain.BookingRequest) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

func (m *mockRoomService) BookRoom(ctx context.Context, roomID string) error {
	return m.Called(ctx, roomID).Error(0)
}

func (m *mockRoomService) UnbookRoom(ctx context.Context, roomID string) error {
	return m.Called(ctx, roomID).Error(0)
}

type mockPaymentService struct {
	mock.Mock
}

func (m *mockPaymentService) Pay(ctx context.Context, req bookingDomain.BookingRequest, price float64) (string, error) {
	args := m.Called(ctx, req, price)
	return args.String(0), args.Error(1)
}

type mockBookingStore struct {
	mock.Mock
}

func (m *mockBookingStore) Save(ctx context.Context, req bookingDomain.BookingRequest) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

func (m *mockBookingStore) Get(ctx context.Context, id string) (*bookingDomain.BookingRequest, error) {
	args := m.Called(ctx, id)
	req, _ := args.Get(0).(*bookingDomain.BookingRequest)
	return req, args.Error(1)
}

func (m *mockBookingStore) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type mockNotificationSender struct {
	mock.Mock
}

func (m *mockNotificationSender) SendBookingConfirmation(ctx context.Context, bookingID string, req bookingDomain.BookingRequest) error {
	return m.Called(ctx, bookingID, req).Error(0)
}

var (
	_ bookingDomain.RoomService        = (*mockRoomService)(nil)
	_ bookingDomain.PaymentService     = (*mockPaymentService)(nil)
	_ bookingDomain.BookingStore       = (*mockBookingStore)(nil)
	_ bookingDomain.NotificationSender = (*mockNotificationSender)(nil)
)
