package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Env struct {
	AppPort      string
	DBHost       string
	DBUser       string
	DBPassword   string
	DBName       string
	DBPort       string
	RedisAddr    string
	RedisPass    string
	RedisDB      int
	ChallengeTTL time.Duration
	SessionTTL   time.Duration
}

// LoadEnv reads configuration from the environment, loading a .env file
// first when one is present.
func LoadEnv() (*Env, error) {
	// A missing .env is fine; the environment may be set externally.
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, err
	}

	challengeTTL, err := time.ParseDuration(getEnv("CHALLENGE_TTL", "5m"))
	if err != nil {
		return nil, err
	}

	sessionTTL, err := time.ParseDuration(getEnv("SESSION_TTL", "24h"))
	if err != nil {
		return nil, err
	}

	return &Env{
		AppPort:      getEnv("APP_PORT", "8081"),
		DBHost:       getEnv("DB_HOST", "localhost"),
		DBUser:       getEnv("DB_USER", "postgres"),
		DBPassword:   getEnv("DB_PASSWORD", ""),
		DBName:       getEnv("DB_NAME", "authapi"),
		DBPort:       getEnv("DB_PORT", "5432"),
		RedisAddr:    getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPass:    getEnv("REDIS_PASSWORD", ""),
		RedisDB:      redisDB,
		ChallengeTTL: challengeTTL,
		SessionTTL:   sessionTTL,
	}, nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}
