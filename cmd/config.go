package cmd

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	HTTPPort   string `env:"HTTP_PORT" envDefault:"8080"`
	DBHost     string `env:"DB_HOST" envDefault:"localhost"`
	DBPort     string `env:"DB_PORT" envDefault:"5432"`
	DBUser     string `env:"DB_USER" envDefault:"postgres"`
	DBPassword string `env:"DB_PASSWORD"`
	DBName     string `env:"DB_NAME" envDefault:"fulfillment"`
	DBSslMode  string `env:"DB_SSLMODE" envDefault:"disable"`

	OMSBaseURL string        `env:"OMS_BASE_URL,required"`
	OMSToken   string        `env:"OMS_TOKEN"`
	OMSTimeout time.Duration `env:"OMS_TIMEOUT" envDefault:"30s"`

	ServiceabilityURL     string        `env:"SERVICEABILITY_URL,required"`
	ServiceabilityToken   string        `env:"SERVICEABILITY_TOKEN"`
	ServiceabilityTimeout time.Duration `env:"SERVICEABILITY_TIMEOUT" envDefault:"10s"`

	// Without brokers alerts are only logged.
	KafkaBrokers      []string      `env:"KAFKA_BROKERS" envSeparator:","`
	KafkaAlertTopic   string        `env:"KAFKA_ALERT_TOPIC" envDefault:"fulfillment.alerts"`
	KafkaWriteTimeout time.Duration `env:"KAFKA_WRITE_TIMEOUT" envDefault:"5s"`
	AlertTimeout      time.Duration `env:"ALERT_TIMEOUT" envDefault:"10s"`

	// Empty keeps the journal in memory.
	JournalPath string        `env:"JOURNAL_PATH" envDefault:"data/journal"`
	JournalTTL  time.Duration `env:"JOURNAL_TTL" envDefault:"168h"`

	SweepCron          string        `env:"SWEEP_CRON" envDefault:"0 0 * * * *"`
	ClaimTTL           time.Duration `env:"CLAIM_TTL" envDefault:"24h"`
	RecoveryCron       string        `env:"SAGA_RECOVERY_CRON" envDefault:"0 */10 * * * *"`
	RecoveryGrace      time.Duration `env:"SAGA_RECOVERY_GRACE" envDefault:"15m"`
	SagaMaxAttempts    int           `env:"SAGA_MAX_ATTEMPTS" envDefault:"5"`
	SagaInitialBackoff time.Duration `env:"SAGA_INITIAL_BACKOFF" envDefault:"1s"`
	SagaMaxBackoff     time.Duration `env:"SAGA_MAX_BACKOFF" envDefault:"10s"`
	BulkBatchSize      int           `env:"BULK_BATCH_SIZE" envDefault:"5"`

	SeedPath     string `env:"SEED_PATH"`
	OTLPEndpoint string `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	LogLevel     string `env:"LOG_LEVEL" envDefault:"info"`
}

// LoadConfig reads .env when present, then the process environment.
func LoadConfig() (Config, error) {
	_ = godotenv.Load(".env")

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if cfg.BulkBatchSize < 1 {
		return Config{}, fmt.Errorf("BULK_BATCH_SIZE must be positive, got %d", cfg.BulkBatchSize)
	}
	if cfg.SagaMaxAttempts < 1 {
		return Config{}, fmt.Errorf("SAGA_MAX_ATTEMPTS must be positive, got %d", cfg.SagaMaxAttempts)
	}
	return cfg, nil
}

// DSN is the postgres connection string.
func (c Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSslMode)
}
