package config

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPAddr            string
	PostgresDSN         string
	RedisAddr           string
	KafkaBrokers        []string
	JWTSecret           string
	StripeSecretKey     string
	StripeWebhookSecret string
	StripeSuccessURL    string
	StripeCancelURL     string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		slog.Warn("failed to load .env file, using default values", "error", err)
	}

	cfg := &Config{
		HTTPAddr:            os.Getenv("HTTP_ADDR"),
		PostgresDSN:         os.Getenv("POSTGRES_DSN"),
		RedisAddr:           os.Getenv("REDIS_ADDR"),
		KafkaBrokers:        []string{os.Getenv("KAFKA_BROKER")},
		JWTSecret:           os.Getenv("JWT_SECRET"),
		StripeSecretKey:     os.Getenv("STRIPE_SECRET_KEY"),
		StripeWebhookSecret: os.Getenv("STRIPE_WEBHOOK_SECRET"),
		StripeSuccessURL:    os.Getenv("STRIPE_SUCCESS_URL"),
		StripeCancelURL:     os.Getenv("STRIPE_CANCEL_URL"),
	}

	if cfg.HTTPAddr == "" {
		cfg.HTTPAddr = ":8080"
	}
	if cfg.PostgresDSN == "" {
		cfg.PostgresDSN = "host=localhost user=postgres password=postgres dbname=vinyl sslmode=disable"
	}
	if cfg.RedisAddr == "" {
		cfg.RedisAddr = "localhost:6379"
	}
	if len(cfg.KafkaBrokers) == 1 && cfg.KafkaBrokers[0] == "" {
		cfg.KafkaBrokers = []string{"localhost:9092"}
	}
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = "supersecret"
	}
	if cfg.StripeSuccessURL == "" {
		cfg.StripeSuccessURL = "http://localhost:8080/purchase/success"
	}
	if cfg.StripeCancelURL == "" {
		cfg.StripeCancelURL = "http://localhost:8080/purchase/cancel"
	}

	slog.Info("config loaded",
		"http_addr", cfg.HTTPAddr,
		"postgres_dsn", cfg.PostgresDSN,
		"redis_addr", cfg.RedisAddr,
		"kafka_brokers", cfg.KafkaBrokers)
	return cfg
}
