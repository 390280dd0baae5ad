package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

type Config struct {
	Env  string `validate:"required,oneof=development stage production"`
	Http Http

	Cors CORS `validate:"required"`

	Postgres Postgres `validate:"required"`

	Kafka Kafka `validate:"required"`

	Auth    Auth    `validate:"required"`
	Payment Payment `validate:"required"`
	Menu    Menu    `validate:"required"`
	Order   Order   `validate:"required"`
}

type Http struct {
	Host string `validate:"required,hostname|ip"`
	Port string `validate:"required,gt=0,lte=65535"`
}

type CORS struct {
	AllowedOrigins []string `validate:"required,min=1,dive,url"`
}

type Postgres struct {
	Host     string `validate:"required,hostname|ip"`
	Port     int    `validate:"required,gt=0,lte=65535"`
	DBName   string `validate:"required"`
	User     string `validate:"required"`
	Password string `validate:"required"`

	SSLMode string `validate:"required,oneof=disable require verify-ca verify-full"`

	MaxOpenConns    int           `validate:"gte=1"`
	MaxIdleConns    int           `validate:"gte=0"`
	ConnMaxLifetime time.Duration `validate:"gte=0"`
}

type Kafka struct {
	Brokers      []string      `validate:"required,min=1,dive,hostname_port"`
	Topic        string        `validate:"required"`
	BatchTimeout time.Duration `validate:"gte=0"`
}

type Auth struct {
	Secret   string        `validate:"required"`
	TokenTTL time.Duration `validate:"gt=0"`
}

type Payment struct {
	BaseURL   string `validate:"required,url"`
	KeyID     string `validate:"required"`
	KeySecret string `validate:"required"`
	Currency  string `validate:"required,len=3"`
}

type Menu struct {
	BaseURL       string        `validate:"required,url"`
	CacheTTL      time.Duration `validate:"gt=0"`
	CacheCapacity int           `validate:"gte=1"`
}

type Order struct {
	TaxRate       float64 `validate:"gte=0,lt=1"`
	TokenAttempts int     `validate:"gte=1"`
	// CancelWindow bounds self-service cancellation after creation; zero
	// means the window never closes.
	CancelWindow time.Duration `validate:"gte=0"`
}

func New() Config {
	return Config{
		Env: env("ENV", "development"),

		Http: Http{
			Host: env("HOST", "localhost"),
			Port: env("PORT", "8080"),
		},

		Cors: CORS{
			AllowedOrigins: strings.Split(env("ALLOWED_CORS_ORIGINS", "http://localhost:3000"), ","),
		},

		Postgres: Postgres{
			Port:     envInt("POSTGRES_PORT", 5432),
			Host:     env("POSTGRES_HOST", "localhost"),
			DBName:   env("POSTGRES_DB", "canteen"),
			User:     env("POSTGRES_USER", ""),
			Password: env("POSTGRES_PASSWORD", ""),

			SSLMode: env("POSTGRES_SSL_MODE", "disable"),

			MaxOpenConns:    envInt("POSTGRES_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    envInt("POSTGRES_MAX_IDLE_CONNS", 25),
			ConnMaxLifetime: envDuration("POSTGRES_CONN_MAX_LIFETIME", 5*time.Minute),
		},

		Kafka: Kafka{
			Brokers:      strings.Split(env("KAFKA_BROKERS", "localhost:9092"), ","),
			Topic:        env("KAFKA_TOPIC", "order-events"),
			BatchTimeout: envDuration("KAFKA_BATCH_TIMEOUT", 10*time.Millisecond),
		},

		Auth: Auth{
			Secret:   env("AUTH_SECRET", ""),
			TokenTTL: envDuration("AUTH_TOKEN_TTL", 24*time.Hour),
		},

		Payment: Payment{
			BaseURL:   env("PAYMENT_BASE_URL", "https://api.razorpay.com/v1"),
			KeyID:     env("PAYMENT_KEY_ID", ""),
			KeySecret: env("PAYMENT_KEY_SECRET", ""),
			Currency:  env("PAYMENT_CURRENCY", "INR"),
		},

		Menu: Menu{
			BaseURL:       env("MENU_BASE_URL", "http://localhost:5001"),
			CacheTTL:      envDuration("MENU_CACHE_TTL", time.Minute),
			CacheCapacity: envInt("MENU_CACHE_CAPACITY", 256),
		},

		Order: Order{
			TaxRate:       envFloat("ORDER_TAX_RATE", 0.05),
			TokenAttempts: envInt("ORDER_TOKEN_ATTEMPTS", 5),
			CancelWindow:  envDuration("ORDER_CANCEL_WINDOW", 5*time.Minute),
		},
	}
}

func (c Config) Validate() error {
	validate := validator.New()
	return validate.Struct(c)
}

func env(key string, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	if len(fallback) == 0 {
		return ""
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		i, err := strconv.Atoi(value)
		if err == nil {
			return i
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if value, ok := os.LookupEnv(key); ok {
		f, err := strconv.ParseFloat(value, 64)
		if err == nil {
			return f
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok {
		d, err := time.ParseDuration(value)
		if err == nil {
			return d
		}
	}
	return fallback
}
