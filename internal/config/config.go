package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all runtime configuration loaded from environment variables.
type Config struct {
	AppPort string
	AppEnv  string

	AWSRegion      string
	AWSEndpointURL string // empty in prod, set to LocalStack URL in dev
	AWSAccessKeyID string
	AWSSecretKey   string
	DynamoTables   DynamoTables

	JWTPublicKeyPath string

	// SSE delivery tuning.
	ConnectionLifetime time.Duration // hard per-connection timeout, not idle-based
	HeartbeatInterval  time.Duration
	EventBufferSize    int // per-connection; a full buffer counts as a broken channel
	EventBusBufferSize int

	// Optional SNS topic notified when a receiver has no live connections.
	SNSRegion   string
	SNSTopicARN string

	AllowedOrigins []string // CORS allowed origins
}

// DynamoTables holds the DynamoDB table name for each entity.
type DynamoTables struct {
	Notifications string
	Follows       string
	Subscriptions string
	Playlists     string
}

// Load reads all configuration from environment variables.
func Load() *Config {
	return &Config{
		AppPort: getEnv("APP_PORT", "3000"),
		AppEnv:  getEnv("APP_ENV", "development"),

		AWSRegion:      getEnv("AWS_REGION", "us-east-1"),
		AWSEndpointURL: getEnv("AWS_ENDPOINT_URL", ""),
		AWSAccessKeyID: getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretKey:   getEnv("AWS_SECRET_ACCESS_KEY", ""),
		DynamoTables: DynamoTables{
			Notifications: getEnv("DYNAMO_TABLE_NOTIFICATIONS", "notifications"),
			Follows:       getEnv("DYNAMO_TABLE_FOLLOWS", "follows"),
			Subscriptions: getEnv("DYNAMO_TABLE_SUBSCRIPTIONS", "subscriptions"),
			Playlists:     getEnv("DYNAMO_TABLE_PLAYLISTS", "playlists"),
		},

		JWTPublicKeyPath: getEnv("JWT_PUBLIC_KEY_PATH", "./public_key.pem"),

		ConnectionLifetime: getEnvDuration("SSE_CONNECTION_LIFETIME", 10*time.Minute),
		HeartbeatInterval:  getEnvDuration("SSE_HEARTBEAT_INTERVAL", 45*time.Second),
		EventBufferSize:    getEnvInt("SSE_EVENT_BUFFER_SIZE", 32),
		EventBusBufferSize: getEnvInt("EVENT_BUS_BUFFER_SIZE", 256),

		SNSRegion:   getEnv("SNS_REGION", "us-east-1"),
		SNSTopicARN: getEnv("SNS_TOPIC_ARN", ""),

		AllowedOrigins: strings.Split(getEnv("ALLOWED_ORIGINS", "*"), ","),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
