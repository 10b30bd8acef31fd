package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
)

type (
	APP struct {
		Name string
		Host string
		Port string
		Env  string
	}
	DB struct {
		User     string
		Password string
		Name     string
		Host     string
		Port     string
		SSLMode  string
	}
	Storage struct {
		// Driver is "s3" (AWS S3, Cloudflare R2) or "minio".
		Driver          string
		Endpoint        string
		Region          string
		AccessKeyID     string
		SecretAccessKey string
		Bucket          string
		PublicURL       string
		UseSSL          bool
	}
	Export struct {
		BatchSize int
	}
	MQ struct {
		User         string
		Password     string
		Vhost        string
		Host         string
		AmqpPort     string
		Exchange     string
		ExchangeType string
		QueueName    string
	}

	Config struct {
		App     APP
		DB      DB
		Storage Storage
		Export  Export
		MQ      MQ
	}
)

const (
	StorageDriverS3    = "s3"
	StorageDriverMinio = "minio"

	defaultExportBatchSize = 500
)

func getEnv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	v, err := strconv.Atoi(getEnv(key, ""))
	if err != nil {
		return def
	}
	return v
}

func Load() Config {
	app := APP{
		Name: getEnv("SERVICE_NAME", "uploadserver"),
		Host: getEnv("SERVICE_HOST", "0.0.0.0"),
		Port: getEnv("SERVICE_PORT", "3333"),
		Env:  getEnv("SERVICE_ENV", ""),
	}
	db := DB{
		User:     getEnv("POSTGRES_USER", ""),
		Password: getEnv("POSTGRES_PASSWORD", ""),
		Name:     getEnv("POSTGRES_DB", ""),
		Host:     getEnv("POSTGRES_HOST", ""),
		Port:     getEnv("POSTGRES_PORT", "5432"),
		SSLMode:  getEnv("POSTGRES_SSL_MODE", "disable"),
	}
	storage := Storage{
		Driver:          getEnv("STORAGE_DRIVER", StorageDriverS3),
		Endpoint:        getEnv("STORAGE_ENDPOINT", ""),
		Region:          getEnv("STORAGE_REGION", "auto"),
		AccessKeyID:     getEnv("STORAGE_ACCESS_KEY_ID", ""),
		SecretAccessKey: getEnv("STORAGE_SECRET_ACCESS_KEY", ""),
		Bucket:          getEnv("STORAGE_BUCKET", ""),
		PublicURL:       getEnv("STORAGE_PUBLIC_URL", ""),
		UseSSL:          getEnv("STORAGE_USE_SSL", "true") == "true",
	}
	export := Export{
		BatchSize: getEnvInt("EXPORT_BATCH_SIZE", defaultExportBatchSize),
	}
	mq := MQ{
		User:         getEnv("RABBITMQ_USER", ""),
		Password:     getEnv("RABBITMQ_PASSWORD", ""),
		Vhost:        getEnv("RABBITMQ_VHOST", ""),
		Host:         getEnv("RABBITMQ_HOST", ""),
		AmqpPort:     getEnv("RABBITMQ_AMQP_PORT", "5672"),
		Exchange:     getEnv("RABBITMQ_EXCHANGE", "uploads"),
		ExchangeType: getEnv("RABBITMQ_EXCHANGE_TYPE", "topic"),
		QueueName:    getEnv("RABBITMQ_QUEUE_NAME", "uploads.events"),
	}

	return Config{
		App:     app,
		DB:      db,
		Storage: storage,
		Export:  export,
		MQ:      mq,
	}
}

func (c Config) DBDSN() (string, error) {
	if c.DB.User == "" || c.DB.Name == "" || c.DB.Host == "" || c.DB.Port == "" {
		return "", fmt.Errorf("incomplete DB config")
	}
	return fmt.Sprintf(
		"postgres://%s@%s:%s/%s?sslmode=%s",
		url.UserPassword(c.DB.User, c.DB.Password).String(),
		c.DB.Host,
		c.DB.Port,
		c.DB.Name,
		c.DB.SSLMode,
	), nil
}

// MigrateDSN is the DSN in the form golang-migrate's pgx/v5 driver expects.
func (c Config) MigrateDSN() (string, error) {
	dsn, err := c.DBDSN()
	if err != nil {
		return "", err
	}
	return "pgx5" + dsn[len("postgres"):], nil
}

func (c Config) AMQPDSN() (string, error) {
	if c.MQ.User == "" || c.MQ.Host == "" || c.MQ.AmqpPort == "" {
		return "", fmt.Errorf("invalid MQ config: user, host and amqp port are required")
	}

	return fmt.Sprintf(
		"%s://%s@%s:%s/%s",
		"amqp",
		url.UserPassword(c.MQ.User, c.MQ.Password).String(),
		c.MQ.Host,
		c.MQ.AmqpPort,
		url.PathEscape(c.MQ.Vhost),
	), nil
}

// EventsEnabled reports whether a broker is configured. Events are optional.
func (c Config) EventsEnabled() bool { return c.MQ.Host != "" }

// ValidateExport rejects a batch size the export cursor cannot fetch with.
func (c Config) ValidateExport() error {
	if c.Export.BatchSize < 1 {
		return fmt.Errorf("invalid export config: EXPORT_BATCH_SIZE must be greater than 0, got %d", c.Export.BatchSize)
	}
	return nil
}

func (c Config) ValidateStorage() error {
	switch c.Storage.Driver {
	case StorageDriverS3, StorageDriverMinio:
	default:
		return fmt.Errorf("unknown storage driver %q", c.Storage.Driver)
	}
	if c.Storage.Bucket == "" || c.Storage.PublicURL == "" {
		return fmt.Errorf("incomplete storage config: bucket and public url are required")
	}
	if _, err := url.Parse(c.Storage.PublicURL); err != nil {
		return fmt.Errorf("invalid storage public url: %w", err)
	}
	if c.Storage.Driver == StorageDriverMinio && c.Storage.Endpoint == "" {
		return fmt.Errorf("incomplete storage config: minio endpoint is required")
	}
	return nil
}
