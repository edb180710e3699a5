package environments

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	Redis      RedisConfig
	Provider   ProviderConfig
	Dispatch   DispatchConfig
	Reconciler ReconcilerConfig
	Auth       AuthConfig
}

type ServerConfig struct {
	Port string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// ProviderConfig carries the SMS provider credentials. All values are opaque
// strings passed through to the provider payload. A missing Endpoint is not a
// startup failure; the client short-circuits every send instead.
type ProviderConfig struct {
	Endpoint  string
	APIKey    string
	SenderID  string
	ClientID  string
	AccessKey string
	Timeout   time.Duration
}

type DispatchConfig struct {
	Workers          int
	QueueSize        int
	CountryPrefix    string
	MaxContentLength int
}

// ReconcilerConfig controls the optional loop that re-enqueues queued records
// orphaned by a process restart. Disabled unless started explicitly.
type ReconcilerConfig struct {
	Interval   time.Duration
	StaleAfter time.Duration
	BatchSize  int
}

type AuthConfig struct {
	MessagesAPIKey   string
	ReconcilerAPIKey string
}

func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port: GetEnv("SERVER_PORT", "8080"),
		},
		Database: DatabaseConfig{
			Host:     GetEnv("DB_HOST", "localhost"),
			Port:     GetEnv("DB_PORT", "3306"),
			User:     GetEnv("DB_USER", "sms"),
			Password: GetEnv("DB_PASSWORD", "sms123"),
			DBName:   GetEnv("DB_NAME", "sms_dispatch"),
		},
		Redis: RedisConfig{
			Host:     GetEnv("REDIS_HOST", "localhost"),
			Port:     GetEnv("REDIS_PORT", "6379"),
			Password: GetEnv("REDIS_PASSWORD", ""),
			DB:       GetEnvAsInt("REDIS_DB", 0),
		},
		Provider: ProviderConfig{
			Endpoint:  GetEnv("SMS_API_ENDPOINT", ""),
			APIKey:    GetEnv("SMS_API_KEY", ""),
			SenderID:  GetEnv("SMS_SENDER_ID", ""),
			ClientID:  GetEnv("SMS_CLIENT_ID", ""),
			AccessKey: GetEnv("SMS_ACCESS_KEY", ""),
			Timeout:   time.Duration(GetEnvAsInt("SMS_TIMEOUT_SECONDS", 30)) * time.Second,
		},
		Dispatch: DispatchConfig{
			Workers:          GetEnvAsInt("DISPATCH_WORKERS", 8),
			QueueSize:        GetEnvAsInt("DISPATCH_QUEUE_SIZE", 1024),
			CountryPrefix:    GetEnv("PHONE_COUNTRY_PREFIX", "254"),
			MaxContentLength: GetEnvAsInt("MESSAGE_MAX_CONTENT_LENGTH", 1000),
		},
		Reconciler: ReconcilerConfig{
			Interval:   GetEnvAsDuration("RECONCILER_INTERVAL", 10*time.Minute),
			StaleAfter: GetEnvAsDuration("RECONCILER_STALE_AFTER", 30*time.Minute),
			BatchSize:  GetEnvAsInt("RECONCILER_BATCH_SIZE", 100),
		},
		Auth: AuthConfig{
			MessagesAPIKey:   GetEnv("MESSAGES_API_KEY", ""),
			ReconcilerAPIKey: GetEnv("RECONCILER_API_KEY", ""),
		},
	}
}

func GetEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func GetEnvAsInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func GetEnvAsBool(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func GetEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
