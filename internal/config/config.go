package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	Port          string
	Env           string
	LogLevel      string
	MongoURI      string
	MongoDatabase string
	JWTSecret     string
	// BaseURL is the public origin embedded in password-reset links.
	BaseURL        string
	GoogleClientID string
	SMTPConfig     SMTPConfig
	RedisConfig    RedisConfig
}

type SMTPConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
}

type RedisConfig struct {
	// URL is empty when redis is not configured; caching is skipped then.
	URL string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found or error loading .env:", err)
	}

	cfg := &Config{
		Port:           getEnv("PORT", "8080"),
		Env:            getEnv("APP_ENV", "development"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		MongoURI:       getEnv("MONGO_URI", ""),
		MongoDatabase:  getEnv("MONGO_DATABASE", "employee-manager"),
		JWTSecret:      getEnv("JWT_TOKEN", ""),
		BaseURL:        getEnv("BASE_URL", "http://localhost:8080"),
		GoogleClientID: getEnv("GOOGLE_CLIENT_ID", ""),
		SMTPConfig: SMTPConfig{
			Host:     getEnv("SMTP_HOST", "smtp.gmail.com"),
			Port:     getEnv("SMTP_PORT", "587"),
			Username: getEnv("SMTP_USERNAME", ""),
			Password: getEnv("SMTP_PASSWORD", ""),
			From:     getEnv("SMTP_FROM", "noreply@example.com"),
		},
		RedisConfig: RedisConfig{
			URL: getEnv("REDIS_URL", ""),
		},
	}

	if cfg.JWTSecret == "" {
		log.Fatal("JWT_TOKEN is required but not set")
	}
	if cfg.MongoURI == "" {
		log.Fatal("MONGO_URI is required but not set")
	}
	if cfg.RedisConfig.URL == "" {
		log.Println("WARNING: REDIS_URL not set. Employee caching is disabled.")
	}

	return cfg
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
