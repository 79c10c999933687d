// Package config provides application configuration decoded from environment
// variables with go-envconfig, then normalized and validated. It centralizes
// server timeouts, logging, database, rate limiting, provider credentials
// (payments, email, chat completion), event streaming and observability.
package config

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// CSV is a comma-separated list. Blank items are dropped and the rest trimmed.
type CSV []string

// EnvDecode implements envconfig.Decoder.
func (c *CSV) EnvDecode(val string) error {
	*c = splitCSV(val)
	return nil
}

// CORSConfig defines Cross-Origin Resource Sharing settings.
type CORSConfig struct {
	AllowedOrigins CSV `env:"CORS_ALLOWED_ORIGINS"`
}

// SecurityConfig defines security-related settings such as HSTS.
type SecurityConfig struct {
	EnableHSTS bool          `env:"ENABLE_HSTS,default=false"`
	HSTSMaxAge time.Duration `env:"HSTS_MAX_AGE,default=4320h"`
}

// DBConfig selects the SQL backend.
type DBConfig struct {
	Driver string `env:"DRIVER,default=sqlite"`       // sqlite|mysql|postgres
	DSN    string `env:"DSN,default=data/booking.db"` // file path for sqlite
}

// PaymentsConfig holds the card payment provider settings.
type PaymentsConfig struct {
	StripeSecretKey string `env:"STRIPE_SECRET_KEY"`
	Currency        string `env:"PAYMENT_CURRENCY,default=eur"`
}

// MailConfig holds the transactional email provider settings.
type MailConfig struct {
	APIKey               string `env:"SENDINBLUE_API_KEY"`
	SenderEmail          string `env:"SENDER_EMAIL,default=noreply@casapinot.it"`
	SenderName           string `env:"SENDER_NAME,default=Casa Pinòt"`
	ContactInbox         string `env:"CONTACT_INBOX"`
	ContactSender        string `env:"CONTACT_SENDER"`
	BookingTemplateID    int64  `env:"TEMPLATE_BOOKING_ID,default=2"`
	PaymentTemplateID    int64  `env:"TEMPLATE_PAYMENT_ID,default=3"`
	NewsletterTemplateID int64  `env:"TEMPLATE_NEWSLETTER_ID,default=8"`
}

// ChatConfig holds the completion provider settings.
type ChatConfig struct {
	APIKey    string `env:"OPENAI_API_KEY"`
	BaseURL   string `env:"OPENAI_BASE_URL"`
	Model     string `env:"OPENAI_MODEL,default=gpt-3.5-turbo-instruct"`
	MaxTokens int    `env:"CHAT_MAX_TOKENS,default=150"`
}

// KafkaConfig holds the booking event stream settings. No brokers means
// events are not published.
type KafkaConfig struct {
	Brokers CSV    `env:"KAFKA_BROKERS"`
	Topic   string `env:"KAFKA_TOPIC,default=bookings"`
}

// OTELConfig defines OpenTelemetry observability settings.
type OTELConfig struct {
	Enabled     bool    `env:"ENABLED,default=false"`                         // OTEL_ENABLED
	Endpoint    string  `env:"EXPORTER_OTLP_ENDPOINT,default=localhost:4317"` // OTEL_EXPORTER_OTLP_ENDPOINT
	Insecure    bool    `env:"EXPORTER_OTLP_INSECURE,default=true"`           // true if no TLS
	ServiceName string  `env:"SERVICE_NAME,default=go-booking-backend"`       // OTEL_SERVICE_NAME
	SampleRatio float64 `env:"TRACES_SAMPLER_ARG,default=1.0"`                // in [0..1]
}

// Config holds all configuration values for the application.
type Config struct {
	// Server
	Port              string        `env:"PORT,default=8080"`
	ReadTimeout       time.Duration `env:"READ_TIMEOUT,default=15s"`
	ReadHeaderTimeout time.Duration `env:"READ_HEADER_TIMEOUT,default=10s"`
	WriteTimeout      time.Duration `env:"WRITE_TIMEOUT,default=30s"`
	IdleTimeout       time.Duration `env:"IDLE_TIMEOUT,default=60s"`
	MaxHeaderBytes    int           `env:"MAX_HEADER_BYTES,default=1048576"`
	GinMode           string        `env:"GIN_MODE,default=release"` // debug|release|test
	EnableH2C         bool          `env:"ENABLE_H2C,default=false"`

	// Logging / Docs
	LogLevel       string `env:"LOG_LEVEL,default=info"` // debug|info|warn|error|fatal|panic
	LogPretty      bool   `env:"LOG_PRETTY,default=false"`
	SwaggerEnabled bool   `env:"SWAGGER_ENABLED,default=false"`

	DB DBConfig `env:",prefix=DB_"`

	// Rate limiting: RateRPS/RateBurst apply per client IP across the site,
	// ChatRate* per client IP and route on endpoints that call paid providers.
	RateRPS       float64 `env:"RATE_RPS,default=5"`      // tokens per second (>= 0)
	RateBurst     int     `env:"RATE_BURST,default=10"`   // bucket size (>= 1)
	ChatRateRPS   float64 `env:"CHAT_RATE_RPS,default=0.5"`
	ChatRateBurst int     `env:"CHAT_RATE_BURST,default=3"`

	// Web protection
	CORS     CORSConfig
	Security SecurityConfig

	// Providers
	Payments PaymentsConfig
	Mail     MailConfig
	Chat     ChatConfig
	Kafka    KafkaConfig

	// Observability
	OTEL OTELConfig `env:",prefix=OTEL_"`
}

// MustLoad loads the configuration and panics if validation fails.
func MustLoad() Config {
	cfg, err := Load(context.Background())
	if err != nil {
		panic(err)
	}
	return cfg
}

// Load reads configuration from the process environment.
func Load(ctx context.Context) (Config, error) {
	return LoadFrom(ctx, envconfig.OsLookuper())
}

// LoadFrom decodes configuration from l, applies defaults, normalizes
// values, and validates the result.
func LoadFrom(ctx context.Context, l envconfig.Lookuper) (Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return cfg, fmt.Errorf("config: %w", err)
	}

	// --- normalization ---
	cfg.LogLevel = strings.ToLower(strings.TrimSpace(cfg.LogLevel))
	if cfg.LogLevel == "warning" {
		cfg.LogLevel = "warn"
	}
	cfg.GinMode = strings.ToLower(strings.TrimSpace(cfg.GinMode))
	switch cfg.GinMode {
	case "debug", "release", "test":
	default:
		cfg.GinMode = "release"
	}
	cfg.DB.Driver = strings.ToLower(strings.TrimSpace(cfg.DB.Driver))
	cfg.Payments.Currency = strings.ToLower(strings.TrimSpace(cfg.Payments.Currency))
	if cfg.Mail.ContactSender == "" {
		cfg.Mail.ContactSender = cfg.Mail.SenderEmail
	}
	if cfg.Mail.ContactInbox == "" {
		cfg.Mail.ContactInbox = cfg.Mail.SenderEmail
	}

	// --- validation ---
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error", "fatal", "panic":
	default:
		return cfg, errors.New("LOG_LEVEL must be one of: debug, info, warn, error, fatal, panic")
	}
	if strings.TrimSpace(cfg.Port) == "" {
		return cfg, errors.New("PORT must not be empty")
	}
	if cfg.ReadTimeout <= 0 || cfg.ReadHeaderTimeout <= 0 || cfg.WriteTimeout <= 0 || cfg.IdleTimeout <= 0 {
		return cfg, errors.New("timeouts must be positive durations")
	}
	if cfg.MaxHeaderBytes <= 0 {
		return cfg, errors.New("MAX_HEADER_BYTES must be > 0")
	}
	switch cfg.DB.Driver {
	case "sqlite", "mysql", "postgres":
	default:
		return cfg, errors.New("DB_DRIVER must be one of: sqlite, mysql, postgres")
	}
	if strings.TrimSpace(cfg.DB.DSN) == "" {
		return cfg, errors.New("DB_DSN must not be empty")
	}
	if cfg.RateRPS < 0 || cfg.ChatRateRPS < 0 {
		return cfg, errors.New("RATE_RPS and CHAT_RATE_RPS must be >= 0")
	}
	if cfg.RateBurst < 1 || cfg.ChatRateBurst < 1 {
		return cfg, errors.New("RATE_BURST and CHAT_RATE_BURST must be >= 1")
	}
	if cfg.Security.HSTSMaxAge < 0 {
		return cfg, errors.New("HSTS_MAX_AGE must be >= 0")
	}
	if len(cfg.Payments.Currency) != 3 {
		return cfg, errors.New("PAYMENT_CURRENCY must be a 3-letter ISO code")
	}
	if cfg.Chat.MaxTokens < 1 {
		return cfg, errors.New("CHAT_MAX_TOKENS must be >= 1")
	}
	if len(cfg.Kafka.Brokers) > 0 && strings.TrimSpace(cfg.Kafka.Topic) == "" {
		return cfg, errors.New("KAFKA_TOPIC must not be empty when KAFKA_BROKERS is set")
	}
	if cfg.OTEL.SampleRatio < 0 || cfg.OTEL.SampleRatio > 1 {
		return cfg, errors.New("OTEL_TRACES_SAMPLER_ARG must be in [0,1]")
	}

	return cfg, nil
}

func splitCSV(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		t := strings.TrimSpace(p)
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}
