package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds application level configuration loaded from environment variables.
type Config struct {
	ServerPort      string
	MySQLDSN        string
	RedisAddr       string
	RedisDB         int
	RedisPass       string
	NATSURL         string
	JWTSecret       string
	CapacityPerSlot int
	MailerAPIKey    string
	MailerFrom      string
	MailerFromName  string
	SwaggerHost     string
}

// Load builds Config from environment with sensible defaults.
// A .env file in the working directory is read first when present.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		ServerPort:      getEnv("SERVER_PORT", "8080"),
		MySQLDSN:        getEnv("MYSQL_DSN", "user:password@tcp(localhost:3306)/cafe?charset=utf8mb4&parseTime=True&loc=Local"),
		RedisAddr:       getEnv("REDIS_ADDR", "localhost:6379"),
		RedisDB:         getEnvInt("REDIS_DB", 0),
		RedisPass:       os.Getenv("REDIS_PASSWORD"),
		NATSURL:         os.Getenv("NATS_URL"),
		JWTSecret:       getEnv("JWT_SECRET", "change-me"),
		CapacityPerSlot: getEnvInt("CAPACITY_PER_SLOT", 50),
		MailerAPIKey:    os.Getenv("MAILERSEND_API_KEY"),
		MailerFrom:      getEnv("MAILER_FROM", "reservations@cafe.local"),
		MailerFromName:  getEnv("MAILER_FROM_NAME", "Specialty Coffee Shop"),
		SwaggerHost:     os.Getenv("SWAGGER_HOST"),
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return def
}
