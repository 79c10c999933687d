// Command server runs the booking backend HTTP API.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/tbourn/go-booking-backend/internal/completion"
	"github.com/tbourn/go-booking-backend/internal/config"
	"github.com/tbourn/go-booking-backend/internal/events"
	httpapi "github.com/tbourn/go-booking-backend/internal/http"
	"github.com/tbourn/go-booking-backend/internal/http/handlers"
	"github.com/tbourn/go-booking-backend/internal/mailer"
	"github.com/tbourn/go-booking-backend/internal/observability"
	"github.com/tbourn/go-booking-backend/internal/payments"
	"github.com/tbourn/go-booking-backend/internal/repo"
	"github.com/tbourn/go-booking-backend/internal/services"
	"github.com/tbourn/go-booking-backend/internal/sysutil"
	"github.com/tbourn/go-booking-backend/internal/validation"
)

const shutdownTimeout = 30 * time.Second

// publisher is the event sink plus its lifecycle.
type publisher interface {
	services.EventPublisher
	Close() error
}

func main() {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}

	version := sysutil.Version(os.Getenv("APP_VERSION"))
	sysutil.SetLogLevel(cfg.LogLevel)
	log.Logger = sysutil.NewLogger(os.Stdout, cfg.LogPretty, cfg.OTEL.ServiceName, version)
	zerolog.DefaultContextLogger = &log.Logger

	shutdownOTel, err := observability.Setup(ctx, cfg.OTEL, version)
	if err != nil {
		log.Fatal().Err(err).Msg("otel setup")
	}

	db, err := repo.Open(cfg.DB.Driver, cfg.DB.DSN)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.DB.Driver).Msg("open database")
	}
	if err := repo.AutoMigrate(db); err != nil {
		log.Fatal().Err(err).Msg("migrate")
	}

	if cfg.Payments.StripeSecretKey == "" {
		log.Warn().Msg("STRIPE_SECRET_KEY not set; payment endpoints will fail")
	}
	if cfg.Mail.APIKey == "" {
		log.Warn().Msg("SENDINBLUE_API_KEY not set; emails will not be sent")
	}
	if cfg.Chat.APIKey == "" {
		log.Warn().Msg("OPENAI_API_KEY not set; chat will fail")
	}

	gateway := payments.NewStripe(cfg.Payments.StripeSecretKey, payments.Options{})
	notifier := mailer.New(mailer.Config{
		APIKey:               cfg.Mail.APIKey,
		SenderEmail:          cfg.Mail.SenderEmail,
		SenderName:           cfg.Mail.SenderName,
		ContactInbox:         cfg.Mail.ContactInbox,
		ContactSender:        cfg.Mail.ContactSender,
		BookingTemplateID:    cfg.Mail.BookingTemplateID,
		PaymentTemplateID:    cfg.Mail.PaymentTemplateID,
		NewsletterTemplateID: cfg.Mail.NewsletterTemplateID,
	})
	completer := completion.New(cfg.Chat.APIKey, completion.Options{
		BaseURL: cfg.Chat.BaseURL,
		Model:   cfg.Chat.Model,
	})

	var pub publisher = events.Noop{}
	if len(cfg.Kafka.Brokers) > 0 {
		k, err := events.NewKafka(events.KafkaConfig{
			Brokers: cfg.Kafka.Brokers,
			Topic:   cfg.Kafka.Topic,
		}, log.Logger)
		if err != nil {
			log.Fatal().Err(err).Msg("kafka producer")
		}
		pub = k
	}

	v := validation.New()
	bookings := services.NewBookingService(db, notifier, pub, v)
	h := handlers.New(handlers.Services{
		Bookings:   bookings,
		Payments:   services.NewPaymentService(gateway, bookings, notifier, cfg.Payments.Currency),
		Discounts:  services.NewDiscountService(db, v),
		Newsletter: services.NewNewsletterService(db, notifier, v),
		Chat:       services.NewChatService(db, completer, cfg.Chat.MaxTokens),
		Contact:    services.NewContactService(notifier, v),
	})

	gin.SetMode(cfg.GinMode)
	r := gin.New()
	httpapi.RegisterRoutes(r, httpapi.Deps{Handlers: h, DB: db}, cfg)

	var handler http.Handler = r
	if cfg.EnableH2C {
		handler = h2c.NewHandler(r, &http2.Server{})
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		MaxHeaderBytes:    cfg.MaxHeaderBytes,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Str("db", cfg.DB.Driver).Bool("h2c", cfg.EnableH2C).Msg("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("listen")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}
	if err := pub.Close(); err != nil {
		log.Error().Err(err).Msg("close event publisher")
	}
	if err := shutdownOTel(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("otel shutdown")
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	log.Info().Msg("server exited")
}
