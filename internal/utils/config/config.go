package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/stockpulse/stockinfo-backend/internal/types/environments"
)

type AppConfig struct {
	Environment environments.Environment
	ApiServer   ApiServerConfig
	Postgres    DBConnection
	Redis       RedisConfig
	Provider    ProviderConfig
	Breaker     BreakerConfig
}

type ApiServerConfig struct {
	Addr           string
	AllowedOrigins string
	JWTSecret      string
}

type DBConnection struct {
	Host string
	Port string
	User string
	Name string
	Pass string

	SSLMode string
}

type RedisConfig struct {
	Addr string
	Pass string
	DB   int
}

// ProviderConfig selects the active market-data backend. Source is read once
// at startup; switching providers requires a restart since provider objects
// may hold connections.
type ProviderConfig struct {
	Source            string // "hqfeed" or "mock"
	HQFeedBaseURL     string
	HQFeedRatePerSec  int
	HQFeedTimeoutSecs int
}

type BreakerConfig struct {
	FailureThreshold int
	SuccessThreshold int
	OpenTimeout      time.Duration
}

func New() *AppConfig {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "development"
	}

	// this will not override env variables if they already exist
	godotenv.Load(".env." + env)

	return &AppConfig{
		Environment: environments.Environment(env),
		ApiServer: ApiServerConfig{
			Addr:           envVarOrDefault("API_SERVER_ADDR", ":8080"),
			AllowedOrigins: os.Getenv("ALLOWED_ORIGINS"),
			JWTSecret:      os.Getenv("JWT_SECRET"),
		},
		Postgres: DBConnection{
			Host:    os.Getenv("DB_HOST"),
			Port:    os.Getenv("DB_PORT"),
			User:    os.Getenv("DB_USER"),
			Name:    os.Getenv("DB_NAME"),
			Pass:    os.Getenv("DB_PASS"),
			SSLMode: os.Getenv("DB_SSL_MODE"),
		},
		Redis: RedisConfig{
			Addr: envVarOrDefault("REDIS_ADDR", "localhost:6379"),
			Pass: os.Getenv("REDIS_PASS"),
			DB:   envVarAtoi("REDIS_DB", 0),
		},
		Provider: ProviderConfig{
			Source:            envVarOrDefault("DATA_PROVIDER", "hqfeed"),
			HQFeedBaseURL:     os.Getenv("HQFEED_API_URL"),
			HQFeedRatePerSec:  envVarAtoi("HQFEED_RATE_PER_SEC", 10),
			HQFeedTimeoutSecs: envVarAtoi("HQFEED_TIMEOUT_SECS", 10),
		},
		Breaker: BreakerConfig{
			FailureThreshold: envVarAtoi("BREAKER_FAILURE_THRESHOLD", 5),
			SuccessThreshold: envVarAtoi("BREAKER_SUCCESS_THRESHOLD", 2),
			OpenTimeout:      time.Duration(envVarAtoi("BREAKER_OPEN_TIMEOUT_SECS", 30)) * time.Second,
		},
	}
}

func envVarOrDefault(envName, fallback string) string {
	value := os.Getenv(envName)
	if value == "" {
		return fallback
	}
	return value
}

func envVarAtoi(envName string, fallback int) int {
	valueStr := os.Getenv(envName)
	if valueStr == "" {
		return fallback
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return fallback
	}

	return value
}
