// Package httpapi wires the HTTP transport (Gin) to the booking handlers,
// middleware and operational endpoints. It centralizes cross-cutting
// concerns such as tracing, correlation IDs, logging/redaction, panic
// recovery, metrics, compression, CORS, security headers and rate limiting.
//
// Public routes keep the paths the site front end already calls: bookings
// under /prenotazioni, card payments under /pagamenti, discount codes under
// /sconto, plus /chat and /contact.
package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"gorm.io/gorm"

	_ "github.com/tbourn/go-booking-backend/docs"
	"github.com/tbourn/go-booking-backend/internal/config"
	"github.com/tbourn/go-booking-backend/internal/http/handlers"
	"github.com/tbourn/go-booking-backend/internal/http/middleware"
)

// Deps are the collaborators RegisterRoutes mounts. DB is only used by the
// readiness probe and may be nil.
type Deps struct {
	Handlers *handlers.Handlers
	DB       *gorm.DB
}

// RegisterRoutes attaches all middleware and HTTP endpoints to the given Gin
// engine.
//
// Middleware order matters:
//  1. OpenTelemetry: trace everything
//  2. RequestID: generate/propagate correlation id
//  3. RedactingLogger: structured logs with PII scrubbing
//  4. Recovery: capture panics after logger
//  5. Body size limiter
//  6. Metrics
//  7. Rate limiter (per IP; probes exempt)
//  8. CORS, security headers and gzip
//
// /chat and /contact additionally pass a stricter per-route limiter since
// every accepted request reaches a paid provider.
func RegisterRoutes(r *gin.Engine, deps Deps, cfg config.Config) {
	r.HandleMethodNotAllowed = true

	// 1) Trace all HTTP requests
	r.Use(otelgin.Middleware(cfg.OTEL.ServiceName))

	// 2) Correlate requests and logs
	r.Use(middleware.RequestID())

	// 3) Structured logging with redaction
	r.Use(middleware.RedactingLogger(middleware.RedactOptions{
		MaskHeaders: []string{"X-API-Key", "Stripe-Signature"},
	}))

	// 4) Panic recovery to JSON 500 (with request id)
	r.Use(middleware.Recovery())

	// 5) Global body size limit (1 MiB)
	r.Use(limitBody(1 << 20))

	// 6) Prometheus metrics and /metrics endpoint
	r.Use(middleware.Metrics())
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// 7) Token-bucket rate limiter per IP
	global := middleware.NewRateLimiter("global", cfg.RateRPS, cfg.RateBurst, middleware.KeyByIP()).
		Exempt("/health", "/health/db", "/metrics")
	r.Use(global.Handler())
	strict := middleware.NewRateLimiter("strict", cfg.ChatRateRPS, cfg.ChatRateBurst, middleware.KeyByRouteAndIP())

	// 8) CORS posture (allow all if none configured)
	allowMethods := []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	allowHeaders := []string{"Origin", "Content-Type", "Accept", "Authorization"}
	exposeHeaders := []string{"X-Request-ID", "Content-Length", "ETag"}
	if len(cfg.CORS.AllowedOrigins) == 0 {
		// Set ACAO even without an Origin header so plain probes see it too.
		r.Use(func(c *gin.Context) {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
			c.Next()
		})
		r.Use(cors.New(cors.Config{
			AllowAllOrigins:  true,
			AllowMethods:     allowMethods,
			AllowHeaders:     allowHeaders,
			ExposeHeaders:    exposeHeaders,
			AllowCredentials: false, // must remain false with AllowAllOrigins
			MaxAge:           12 * time.Hour,
		}))
	} else {
		origins := []string(cfg.CORS.AllowedOrigins)
		allowed := make(map[string]struct{}, len(origins))
		for _, o := range origins {
			allowed[o] = struct{}{}
		}
		r.Use(func(c *gin.Context) {
			if origin := c.GetHeader("Origin"); origin != "" {
				if _, ok := allowed[origin]; ok {
					h := c.Writer.Header()
					h.Set("Access-Control-Allow-Origin", origin)
					h.Add("Vary", "Origin")
				}
			}
			c.Next()
		})
		r.Use(cors.New(cors.Config{
			AllowOrigins:     origins,
			AllowMethods:     allowMethods,
			AllowHeaders:     allowHeaders,
			ExposeHeaders:    exposeHeaders,
			AllowCredentials: false,
			MaxAge:           12 * time.Hour,
		}))
	}

	// Security headers (HSTS only when enabled and request is HTTPS)
	r.Use(middleware.SecurityHeaders(middleware.SecurityOptions{
		EnableHSTS:   cfg.Security.EnableHSTS,
		HSTSMaxAge:   cfg.Security.HSTSMaxAge,
		NoStore:      false,
		EnablePolicy: true,
	}))

	r.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/metrics", "/swagger"})))

	// Fallbacks
	r.NoRoute(func(c *gin.Context) {
		handlers.Fail(c, http.StatusNotFound, handlers.ErrCodeNotFound, "risorsa non trovata")
	})
	r.NoMethod(func(c *gin.Context) {
		handlers.Fail(c, http.StatusMethodNotAllowed, handlers.ErrCodeMethodNotAllowed, "metodo non consentito")
	})

	// Liveness/readiness
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	r.GET("/health/db", dbHealth(deps.DB))

	if cfg.SwaggerEnabled {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	h := deps.Handlers
	r.GET("/", h.Root)

	r.POST("/auth/prenotazione", h.CreateDirectBooking)

	bookings := r.Group("/prenotazioni")
	{
		bookings.GET("/get-occupied-dates", h.OccupiedDates)
		bookings.GET("/get-occupied-dates/localized", h.OccupiedDatesLocalized)
		bookings.POST("/create-payment-intent", h.CreatePaymentIntent)
		bookings.POST("/confirm-booking", h.ConfirmBooking)
		bookings.GET("/get-bookings", h.ListBookings)
		bookings.GET("/:id", h.GetBooking)
		bookings.POST("/newsletter/subscribe", h.Subscribe)
	}

	pay := r.Group("/pagamenti")
	{
		pay.POST("/create-payment-intent", h.CreateCheckoutIntent)
		pay.POST("/confirm-payment", h.ConfirmPayment)
	}

	discounts := r.Group("/sconto")
	{
		discounts.POST("/crea", h.CreateDiscount)
		discounts.GET("", h.ListDiscounts)
		discounts.GET("/:codice", h.GetDiscount)
		discounts.PUT("/:codice", h.UpdateDiscount)
		discounts.DELETE("/:codice", h.DeleteDiscount)
	}

	r.POST("/chat", strict.Handler(), h.Chat)
	r.GET("/chat/history", h.ChatHistory)
	r.POST("/contact", strict.Handler(), h.Contact)
}

// dbHealth reports whether the database answers a ping. A nil db is
// reported as not configured rather than failing.
func dbHealth(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if db == nil {
			c.JSON(http.StatusOK, gin.H{"status": "ok", "db": "not configured"})
			return
		}
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(c.Request.Context())
		}
		if err != nil {
			middleware.LoggerFrom(c).Error().Err(err).Msg("db ping failed")
			handlers.Fail(c, http.StatusServiceUnavailable, handlers.ErrCodeUnavailable, "database non raggiungibile")
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok", "db": db.Dialector.Name()})
	}
}

// limitBody returns a Gin middleware that caps the request body size for all
// endpoints to maxBytes using http.MaxBytesReader. Requests exceeding the cap
// will cause downstream body reads to error.
func limitBody(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}
