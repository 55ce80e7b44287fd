package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Analysis AnalysisConfig
	Session  SessionConfig
	History  HistoryConfig
	Admin    AdminConfig
	Infra    InfraConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	ViewLogFilePath    string
	CorsAllowedOrigins string
}

type AnalysisConfig struct {
	BaseURL  string
	WsURL    string
	AdminKey string
	Timeout  time.Duration
}

type SessionConfig struct {
	PollIdleThreshold    time.Duration
	PollInterval         time.Duration
	PollMaxDuration      time.Duration
	ReconnectBaseDelay   time.Duration
	MaxReconnectAttempts int
	DeskIdleTimeout      time.Duration
	DeskEventsTopic      string
}

type HistoryConfig struct {
	Backend string // "memory", "redis" or "postgres"
}

type AdminConfig struct {
	Username     string
	PasswordHash string
	JwtSecret    string
	TokenTTL     time.Duration
	CacheTTL     time.Duration
}

type InfraConfig struct {
	DatabaseURL string
	RedisURL    string
	NatsURL     string
	OtelEnabled bool
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			ViewLogFilePath:    getEnv("VIEW_LOG_FILE_PATH", "logs/desk_view.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
		},
		Analysis: AnalysisConfig{
			BaseURL:  getEnv("ANALYSIS_BASE_URL", "http://localhost:8000/api/v1"),
			WsURL:    getEnv("ANALYSIS_WS_URL", "ws://localhost:8000/api/v1/ws"),
			AdminKey: getEnv("ANALYSIS_ADMIN_KEY", ""),
			Timeout:  getEnvAsDuration("ANALYSIS_TIMEOUT", 90*time.Second),
		},
		Session: SessionConfig{
			PollIdleThreshold:    getEnvAsDuration("POLL_IDLE_THRESHOLD", 0),
			PollInterval:         getEnvAsDuration("POLL_INTERVAL", 0),
			PollMaxDuration:      getEnvAsDuration("POLL_MAX_DURATION", 0),
			ReconnectBaseDelay:   getEnvAsDuration("PUSH_RECONNECT_BASE_DELAY", 0),
			MaxReconnectAttempts: getEnvAsInt("PUSH_MAX_RECONNECT_ATTEMPTS", 0),
			DeskIdleTimeout:      getEnvAsDuration("DESK_IDLE_TIMEOUT", 2*time.Hour),
			DeskEventsTopic:      getEnv("DESK_EVENTS_TOPIC", "desk.events"),
		},
		History: HistoryConfig{
			Backend: getEnv("HISTORY_BACKEND", "memory"),
		},
		Admin: AdminConfig{
			Username:     getEnv("ADMIN_USERNAME", "admin"),
			PasswordHash: getEnv("ADMIN_PASSWORD_HASH", ""),
			JwtSecret:    getEnv("JWT_SECRET", ""),
			TokenTTL:     getEnvAsDuration("ADMIN_TOKEN_TTL", 12*time.Hour),
			CacheTTL:     getEnvAsDuration("ADMIN_CACHE_TTL", 30*time.Second),
		},
		Infra: InfraConfig{
			DatabaseURL: getEnv("DB_CONNECTION_STRING", ""),
			RedisURL:    getEnv("REDIS_URL", ""),
			NatsURL:     getEnv("NATS_URL", ""),
			OtelEnabled: getEnvAsBool("OTEL_ENABLED", false),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

// getEnvAsDuration accepts Go durations ("90s", "2h"). Zero leaves the component default.
func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if value, err := time.ParseDuration(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseBool(strValue); err == nil {
		return value
	}
	return fallback
}
