package config

import (
	"fmt"
	"strconv"
	"strings"

	bookingDomain "github.com/happyhotel/service-booking/internal/domain/booking"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const envPrefix = "HOTEL"

// Store drivers.
const (
	StorePostgres = "postgres"
	StoreMongo    = "mongo"
	StoreMemory   = "memory"
)

// Notification transports.
const (
	NotifyKafka = "kafka"
	NotifyNats  = "nats"
	NotifyLog   = "log"
)

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// DSN returns the connection string for the postgres driver.
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// MongoConfig holds MongoDB connection settings.
type MongoConfig struct {
	URI      string
	Database string
}

// KafkaConfig holds broker addresses and topic names.
type KafkaConfig struct {
	Brokers      []string
	GroupPrefix  string
	CommandTopic string
	EventTopic   string
}

// NatsConfig holds the NATS server and confirmation subject.
type NatsConfig struct {
	URL     string
	Subject string
}

// PaymentConfig holds the prepayment limit rule.
type PaymentConfig struct {
	Limit     float64
	GroupSize int
}

// ServiceConfig holds all configuration for the booking service.
type ServiceConfig struct {
	ServiceName     string
	AppEnv          string
	StoreDriver     string
	NotifyTransport string
	DBConfig        DatabaseConfig
	MongoConfig     MongoConfig
	KafkaConfig     KafkaConfig
	NatsConfig      NatsConfig
	PaymentConfig   PaymentConfig
	EuroRate        float64
	Rooms           []bookingDomain.Room
}

// Load reads configuration from HOTEL_* environment variables, after loading
// a local .env file when one exists.
func Load() (*ServiceConfig, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	setDefaults(v)

	cfg := &ServiceConfig{
		ServiceName:     v.GetString("SERVICE_NAME"),
		AppEnv:          v.GetString("APP_ENV"),
		StoreDriver:     strings.ToLower(v.GetString("STORE_DRIVER")),
		NotifyTransport: strings.ToLower(v.GetString("NOTIFY_TRANSPORT")),
		DBConfig: DatabaseConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			DBName:   v.GetString("DB_NAME"),
			SSLMode:  v.GetString("DB_SSLMODE"),
		},
		MongoConfig: MongoConfig{
			URI:      v.GetString("MONGO_URI"),
			Database: v.GetString("MONGO_DATABASE"),
		},
		KafkaConfig: KafkaConfig{
			Brokers:      splitList(v.GetString("KAFKA_BROKERS")),
			GroupPrefix:  v.GetString("KAFKA_GROUP_PREFIX"),
			CommandTopic: v.GetString("KAFKA_COMMAND_TOPIC"),
			EventTopic:   v.GetString("KAFKA_EVENT_TOPIC"),
		},
		NatsConfig: NatsConfig{
			URL:     v.GetString("NATS_URL"),
			Subject: v.GetString("NATS_SUBJECT"),
		},
		PaymentConfig: PaymentConfig{
			Limit:     v.GetFloat64("PAYMENT_LIMIT"),
			GroupSize: v.GetInt("PAYMENT_GROUP_SIZE"),
		},
		EuroRate: v.GetFloat64("EURO_RATE"),
	}

	rooms, err := ParseRooms(v.GetString("ROOMS"))
	if err != nil {
		return nil, err
	}
	cfg.Rooms = rooms

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("SERVICE_NAME", "service-booking")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("STORE_DRIVER", StoreMemory)
	v.SetDefault("NOTIFY_TRANSPORT", NotifyLog)
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "hotel_booking")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("MONGO_URI", "mongodb://localhost:27017")
	v.SetDefault("MONGO_DATABASE", "hotel_booking")
	v.SetDefault("KAFKA_BROKERS", "localhost:9092")
	v.SetDefault("KAFKA_GROUP_PREFIX", "hotel-")
	v.SetDefault("KAFKA_COMMAND_TOPIC", "hotel.booking.commands")
	v.SetDefault("KAFKA_EVENT_TOPIC", "hotel.booking.events")
	v.SetDefault("NATS_URL", "nats://localhost:4222")
	v.SetDefault("NATS_SUBJECT", "hotel.booking.confirmed")
	v.SetDefault("PAYMENT_LIMIT", 200.0)
	v.SetDefault("PAYMENT_GROUP_SIZE", 3)
	v.SetDefault("EURO_RATE", bookingDomain.DefaultEuroRate)
	v.SetDefault("ROOMS", "")
}

func (c *ServiceConfig) validate() error {
	switch c.StoreDriver {
	case StorePostgres, StoreMongo, StoreMemory:
	default:
		return fmt.Errorf("unknown store driver %q", c.StoreDriver)
	}
	switch c.NotifyTransport {
	case NotifyKafka, NotifyNats, NotifyLog:
	default:
		return fmt.Errorf("unknown notify transport %q", c.NotifyTransport)
	}
	if c.EuroRate <= 0 {
		return fmt.Errorf("euro rate must be positive, got %v", c.EuroRate)
	}
	if len(c.KafkaConfig.Brokers) == 0 {
		return fmt.Errorf("at least one kafka broker is required")
	}
	return nil
}

// ParseRooms parses an inventory seed of the form "id:capacity,id:capacity".
func ParseRooms(s string) ([]bookingDomain.Room, error) {
	var rooms []bookingDomain.Room
	for _, entry := range splitList(s) {
		id, capStr, ok := strings.Cut(entry, ":")
		if !ok {
			return nil, fmt.Errorf("invalid room entry %q: want id:capacity", entry)
		}
		capacity, err := strconv.Atoi(strings.TrimSpace(capStr))
		if err != nil {
			return nil, fmt.Errorf("invalid capacity in room entry %q: %w", entry, err)
		}
		room, err := bookingDomain.NewRoom(strings.TrimSpace(id), capacity)
		if err != nil {
			return nil, fmt.Errorf("invalid room entry %q: %w", entry, err)
		}
		rooms = append(rooms, room)
	}
	return rooms, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
