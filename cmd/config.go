package cmd

import (
	"fmt"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/services"

	"github.com/caarlos0/env/v11"
)

// Config is read from the environment, after an optional .env file has been
// loaded into it.
type Config struct {
	HTTPPort string `env:"HTTP_PORT" envDefault:"8080"`

	DBHost     string `env:"DB_HOST" envDefault:"localhost"`
	DBPort     string `env:"DB_PORT" envDefault:"5432"`
	DBUser     string `env:"DB_USER"`
	DBPassword string `env:"DB_PASSWORD"`
	DBName     string `env:"DB_NAME"`
	DBSslMode  string `env:"DB_SSLMODE" envDefault:"disable"`

	RoleDirectory string `env:"ROLE_DIRECTORY"`
	FallbackRole  string `env:"FALLBACK_ROLE" envDefault:"sales"`
	Mailboxes     string `env:"NOTIFY_MAILBOXES"`
	TrackURL      string `env:"TRACK_URL"`
	PixelBaseURL  string `env:"PIXEL_BASE_URL"`

	RedisAddr      string        `env:"REDIS_ADDR"`
	RedisPassword  string        `env:"REDIS_PASSWORD"`
	RedisDB        int           `env:"REDIS_DB" envDefault:"0"`
	IdempotencyTTL time.Duration `env:"IDEMPOTENCY_TTL" envDefault:"24h"`

	KafkaBrokers            []string `env:"KAFKA_BROKERS" envSeparator:"," envDefault:"localhost:9092"`
	NotificationTopic       string   `env:"NOTIFICATION_TOPIC" envDefault:"fulfillment.notifications"`
	NotificationOpenedTopic string   `env:"NOTIFICATION_OPENED_TOPIC" envDefault:"fulfillment.notifications.opened"`
	KafkaConsumerGroup      string   `env:"KAFKA_CONSUMER_GROUP" envDefault:"fulfillment"`
	KafkaConsumerWorkers    int      `env:"KAFKA_CONSUMER_WORKERS" envDefault:"4"`

	RedeliveryCron        string `env:"REDELIVERY_CRON" envDefault:"0 * * * * *"`
	RedeliveryMaxAttempts int    `env:"REDELIVERY_MAX_ATTEMPTS" envDefault:"5"`
	RedeliveryBatch       int    `env:"REDELIVERY_BATCH" envDefault:"50"`
}

// LoadConfig parses the process environment.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// DSN is the gorm postgres connection string.
func (c Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSslMode)
}

// AccessConfig parses the role directory.
func (c Config) AccessConfig() (services.AccessConfig, error) {
	dir, err := services.ParseDirectory(c.RoleDirectory)
	if err != nil {
		return services.AccessConfig{}, err
	}
	role, err := kernel.ParseRole(c.FallbackRole)
	if err != nil {
		return services.AccessConfig{}, fmt.Errorf("FALLBACK_ROLE: %w", err)
	}
	return services.AccessConfig{Directory: dir, FallbackRole: role}, nil
}

// NotificationConfig parses the team mailboxes.
func (c Config) NotificationConfig() (services.NotificationConfig, error) {
	mailboxes, err := services.ParseMailboxes(c.Mailboxes)
	if err != nil {
		return services.NotificationConfig{}, err
	}
	return services.NotificationConfig{Mailboxes: mailboxes, TrackURL: c.TrackURL}, nil
}
