package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds all configuration for the teller service.
type Config struct {
	// gRPC server port
	GRPCPort int
	// HTTP health port
	HTTPPort int
	// Database configuration
	Database DatabaseConfig
	// Central-store sync configuration
	Remote RemoteConfig
	// Kafka configuration
	Kafka KafkaConfig
	// JWT secret for teller tokens
	JWTSecret string
	// Daily late-fee (mora) rate as a fraction, e.g. "0.001"
	DailyMoraRate string
	// Directory where PDF receipts are spooled for the print daemon
	ReceiptDir string
	// Service name for logging
	ServiceName string
}

// DatabaseConfig holds PostgreSQL connection settings for the local
// branch-office store.
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
}

// DSN returns the PostgreSQL data source name.
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.Database, c.SSLMode,
	)
}

// RemoteConfig holds settings for the cooperative's central API.
type RemoteConfig struct {
	BaseURL        string
	APIKey         string
	TimeoutSeconds int
	// SyncIntervalSeconds drives the background sync ticker; 0 disables it.
	SyncIntervalSeconds int
}

// KafkaConfig holds Kafka connection settings.
type KafkaConfig struct {
	Brokers []string
}

// Load reads configuration from environment variables with defaults.
func Load() Config {
	return Config{
		GRPCPort:      getEnvInt("GRPC_PORT", 8091),
		HTTPPort:      getEnvInt("HTTP_PORT", 9091),
		ServiceName:   getEnv("SERVICE_NAME", "tellerd"),
		JWTSecret:     getEnv("JWT_SECRET", ""),
		DailyMoraRate: getEnv("DAILY_MORA_RATE", "0.001"),
		ReceiptDir:    getEnv("RECEIPT_DIR", "./receipts"),
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "teller"),
			Password: getEnv("DB_PASSWORD", ""),
			Database: getEnv("DB_NAME", "teller_local"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Remote: RemoteConfig{
			BaseURL:             getEnv("CENTRAL_API_URL", "http://localhost:8080"),
			APIKey:              getEnv("CENTRAL_API_KEY", ""),
			TimeoutSeconds:      getEnvInt("CENTRAL_API_TIMEOUT_SECONDS", 5),
			SyncIntervalSeconds: getEnvInt("SYNC_INTERVAL_SECONDS", 300),
		},
		Kafka: KafkaConfig{
			Brokers: []string{getEnv("KAFKA_BROKERS", "localhost:9092")},
		},
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}
