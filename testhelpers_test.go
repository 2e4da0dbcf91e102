//go:build integration

package main_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"strconv"
	"testing"
	"time"

	"github.com/happyhotel/service-booking/internal/application"
	bookingDomain "github.com/happyhotel/service-booking/internal/domain/booking"
	bookingEvents "github.com/happyhotel/service-booking/internal/events"
	"github.com/happyhotel/service-booking/internal/payment"
	"github.com/happyhotel/service-booking/internal/repository"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	kafkamodule "github.com/testcontainers/testcontainers-go/modules/kafka"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

const (
	commandTopic = "hotel.booking.commands"
	eventTopic   = "hotel.booking.events"
)

// setupPostgres starts a PostgreSQL container and returns a migrated GORM DB.
func setupPostgres(t *testing.T) *gorm.DB {
	t.Helper()
	ctx := context.Background()

	pgReq := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "test",
			"POSTGRES_PASSWORD": "test",
			"POSTGRES_DB":       "test_booking",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}
	pgContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: pgReq,
		Started:          true,
	})
	require.NoError(t, err, "failed to start PostgreSQL container")
	t.Cleanup(func() {
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate PostgreSQL container: %v", err)
		}
	})

	pgHost, err := pgContainer.Host(ctx)
	require.NoError(t, err)
	pgPort, err := pgContainer.MappedPort(ctx, "5432")
	require.NoError(t, err)

	dsn := fmt.Sprintf("host=%s port=%s user=test password=test dbname=test_booking sslmode=disable", pgHost, pgPort.Port())

	// Poll until GORM can actually connect and ping.
	var db *gorm.DB
	require.Eventually(t, func() bool {
		var err error
		db, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
		if err != nil {
			return false
		}
		sqlDB, err := db.DB()
		if err != nil {
			return false
		}
		return sqlDB.Ping() == nil
	}, 30*time.Second, 1*time.Second, "PostgreSQL not ready for connections")

	require.NoError(t, db.AutoMigrate(&repository.BookingModel{}, &repository.RoomModel{}))
	return db
}

// setupMongo starts a MongoDB container and returns a database handle.
func setupMongo(t *testing.T) *mongo.Database {
	t.Helper()
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "mongo:7",
			ExposedPorts: []string{"27017/tcp"},
			WaitingFor:   wait.ForLog("Waiting for connections").WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err, "failed to start MongoDB container")
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate MongoDB container: %v", err)
		}
	})

	endpoint, err := container.PortEndpoint(ctx, "27017/tcp", "mongodb")
	require.NoError(t, err)

	db, err := repository.ConnectMongo(ctx, endpoint, "test_booking")
	require.NoError(t, err)
	return db
}

// setupKafka starts a Kafka container, pre-creates the booking topics and returns the brokers.
func setupKafka(t *testing.T) []string {
	t.Helper()
	ctx := context.Background()

	kafkaContainer, err := kafkamodule.Run(ctx, "confluentinc/confluent-local:7.5.0")
	require.NoError(t, err, "failed to start Kafka container")
	t.Cleanup(func() {
		if err := kafkaContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate Kafka container: %v", err)
		}
	})

	brokers, err := kafkaContainer.Brokers(ctx)
	require.NoError(t, err, "failed to get Kafka brokers")

	createTopics(t, brokers, commandTopic, eventTopic)
	return brokers
}

// newBookingService wires a BookingService over the given adapters.
func newBookingService(
	rooms bookingDomain.RoomService,
	store bookingDomain.BookingStore,
	notifier bookingDomain.NotificationSender,
	logger *zap.Logger,
) *application.BookingService {
	return application.NewBookingService(
		rooms,
		payment.NewLimitProcessor(payment.DefaultLimit, payment.DefaultGroupSize, logger),
		store,
		notifier,
		bookingDomain.NewNightlyPricingStrategy(),
		bookingDomain.ToEuro,
		logger,
	)
}

func createTopics(t *testing.T, brokers []string, topics ...string) {
	t.Helper()
	conn, err := kafkago.Dial("tcp", brokers[0])
	require.NoError(t, err)
	defer func() { _ = conn.Close() }()

	controller, err := conn.Controller()
	require.NoError(t, err)
	ctrlConn, err := kafkago.Dial("tcp", net.JoinHostPort(controller.Host, strconv.Itoa(controller.Port)))
	require.NoError(t, err)
	defer func() { _ = ctrlConn.Close() }()

	configs := make([]kafkago.TopicConfig, len(topics))
	for i, topic := range topics {
		configs[i] = kafkago.TopicConfig{Topic: topic, NumPartitions: 1, ReplicationFactor: 1}
	}
	require.NoError(t, ctrlConn.CreateTopics(configs...))
}

// publishCommand publishes a CloudEvent command to the command topic.
func publishCommand(t *testing.T, brokers []string, eventType string, data interface{}) {
	t.Helper()
	ce, err := bookingEvents.NewCloudEvent("integration-test", eventType, data)
	require.NoError(t, err)
	payload, err := json.Marshal(ce)
	require.NoError(t, err)

	writer := &kafkago.Writer{Addr: kafkago.TCP(brokers...), Topic: commandTopic}
	defer func() { _ = writer.Close() }()
	require.NoError(t, writer.WriteMessages(context.Background(), kafkago.Message{Value: payload}))
}

// consumeOneEvent reads the event topic until an event of eventType arrives.
func consumeOneEvent(t *testing.T, brokers []string, eventType string, timeout time.Duration) bookingEvents.CloudEvent {
	t.Helper()
	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:   brokers,
		Topic:     eventTopic,
		Partition: 0,
		MinBytes:  1,
		MaxBytes:  10e6,
	})
	defer func() { _ = reader.Close() }()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	for {
		msg, err := reader.ReadMessage(ctx)
		require.NoError(t, err, "no %s event received", eventType)

		var ce bookingEvents.CloudEvent
		if err := json.Unmarshal(msg.Value, &ce); err != nil {
			continue
		}
		if ce.Type == eventType {
			return ce
		}
	}
}
