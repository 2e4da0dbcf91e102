package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/happyhotel/service-booking/internal/application"
	"github.com/happyhotel/service-booking/internal/config"
	bookingDomain "github.com/happyhotel/service-booking/internal/domain/booking"
	bookingEvents "github.com/happyhotel/service-booking/internal/events"
	"github.com/happyhotel/service-booking/internal/logger"
	"github.com/happyhotel/service-booking/internal/payment"
	"github.com/happyhotel/service-booking/internal/repository"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log, err := logger.NewNamed(cfg.AppEnv, cfg.ServiceName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	log.Info("starting service-booking",
		zap.String("store", cfg.StoreDriver),
		zap.String("notify", cfg.NotifyTransport),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rooms, store, err := buildStorage(ctx, cfg, log)
	if err != nil {
		log.Fatal("failed to initialize storage", zap.Error(err))
	}

	notifier, closeNotifier, err := buildNotifier(cfg, log)
	if err != nil {
		log.Fatal("failed to initialize notifier", zap.Error(err))
	}
	defer closeNotifier()

	bookingService := application.NewBookingService(
		rooms,
		payment.NewLimitProcessor(cfg.PaymentConfig.Limit, cfg.PaymentConfig.GroupSize, log),
		store,
		notifier,
		bookingDomain.NewNightlyPricingStrategy(),
		bookingDomain.NewEuroConverter(cfg.EuroRate),
		log,
	)

	if places, err := bookingService.GetAvailablePlaceCount(ctx); err == nil {
		log.Info("room inventory loaded", zap.Int("available_places", places))
	}

	groupID := cfg.KafkaConfig.GroupPrefix + "booking-service"
	commandConsumer := bookingEvents.NewBookingCommandConsumer(
		cfg.KafkaConfig.Brokers,
		groupID,
		cfg.KafkaConfig.CommandTopic,
		bookingService,
		log,
	)
	defer func() { _ = commandConsumer.Close() }()

	done := make(chan struct{})
	go func() {
		defer close(done)
		log.Info("starting booking command consumer", zap.String("topic", cfg.KafkaConfig.CommandTopic))
		if err := commandConsumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error("booking command consumer error", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case <-done:
	}

	log.Info("shutting down service-booking...")
	cancel()
	<-done
	log.Info("service-booking stopped")
}

func buildStorage(ctx context.Context, cfg *config.ServiceConfig, log *zap.Logger) (bookingDomain.RoomService, bookingDomain.BookingStore, error) {
	switch cfg.StoreDriver {
	case config.StorePostgres:
		db, err := gorm.Open(postgres.Open(cfg.DBConfig.DSN()), &gorm.Config{
			Logger: gormlogger.Default.LogMode(gormlogger.Warn),
		})
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		if err := db.AutoMigrate(&repository.BookingModel{}, &repository.RoomModel{}); err != nil {
			return nil, nil, fmt.Errorf("failed to run auto-migration: %w", err)
		}
		log.Info("database migration completed")

		roomRepo := repository.NewGormRoomRepository(db)
		if err := roomRepo.Seed(ctx, cfg.Rooms); err != nil {
			return nil, nil, err
		}
		return roomRepo, repository.NewGormBookingStore(db), nil

	case config.StoreMongo:
		mdb, err := repository.ConnectMongo(ctx, cfg.MongoConfig.URI, cfg.MongoConfig.Database)
		if err != nil {
			return nil, nil, err
		}

		roomRepo := repository.NewMongoRoomRepository(mdb)
		if err := roomRepo.Seed(ctx, cfg.Rooms); err != nil {
			return nil, nil, err
		}
		return roomRepo, repository.NewMongoBookingStore(mdb), nil

	default:
		return repository.NewMemoryRoomRepository(cfg.Rooms...), repository.NewMemoryBookingStore(), nil
	}
}

func buildNotifier(cfg *config.ServiceConfig, log *zap.Logger) (bookingDomain.NotificationSender, func(), error) {
	switch cfg.NotifyTransport {
	case config.NotifyKafka:
		sender := bookingEvents.NewKafkaNotificationSender(
			cfg.KafkaConfig.Brokers,
			cfg.KafkaConfig.EventTopic,
			cfg.ServiceName,
			log,
		)
		return sender, func() { _ = sender.Close() }, nil

	case config.NotifyNats:
		conn, err := bookingEvents.ConnectNats(cfg.NatsConfig.URL, cfg.ServiceName)
		if err != nil {
			return nil, nil, err
		}
		sender := bookingEvents.NewNatsNotificationSender(conn, cfg.NatsConfig.Subject, cfg.ServiceName, log)
		return sender, func() { _ = conn.Drain() }, nil

	default:
		return bookingEvents.NewLogNotificationSender(log), func() {}, nil
	}
}
