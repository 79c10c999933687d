package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	sqlite "github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tbourn/go-booking-backend/internal/calendar"
	"github.com/tbourn/go-booking-backend/internal/domain"
	"github.com/tbourn/go-booking-backend/internal/payments"
	"github.com/tbourn/go-booking-backend/internal/services"
	"github.com/tbourn/go-booking-backend/internal/validation"
)

// ---------- test DB ----------

func newHandlerDB(t *testing.T) *gorm.DB {
	t.Helper()

	// Unique DSN per call to avoid cross-test contamination
	dsn := fmt.Sprintf("file:handlers_%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&domain.Booking{}, &domain.DiscountCode{}, &domain.NewsletterSubscriber{}, &domain.ChatMessage{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// ---------- provider fakes ----------

type fakeNotifier struct {
	mu    sync.Mutex
	kinds []string
	errBy map[string]error
}

func (f *fakeNotifier) record(kind string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.kinds = append(f.kinds, kind)
	return f.errBy[kind]
}

func (f *fakeNotifier) SendBookingConfirmation(_ context.Context, _, _ string, _, _ calendar.Date) error {
	return f.record("booking")
}

func (f *fakeNotifier) SendPaymentConfirmation(_ context.Context, _, _ string, _, _ calendar.Date) error {
	return f.record("payment")
}

func (f *fakeNotifier) SendNewsletterWelcome(_ context.Context, _ string) error {
	return f.record("newsletter")
}

func (f *fakeNotifier) SendContact(_ context.Context, _, _, _, _ string) error {
	return f.record("contact")
}

type fakeGateway struct {
	intents   map[string]payments.Intent
	createErr error
}

func (f *fakeGateway) CreateIntent(_ context.Context, p payments.IntentParams) (payments.Intent, error) {
	if f.createErr != nil {
		return payments.Intent{}, f.createErr
	}
	return payments.Intent{ID: "pi_new", ClientSecret: "pi_new_secret", Amount: p.Amount, Currency: p.Currency}, nil
}

func (f *fakeGateway) RetrieveIntent(_ context.Context, id string) (payments.Intent, error) {
	in, ok := f.intents[id]
	if !ok {
		return payments.Intent{}, fmt.Errorf("no such intent %q", id)
	}
	return in, nil
}

type fakeCompleter struct {
	reply string
	err   error
}

func (f *fakeCompleter) Complete(_ context.Context, _ string, _ int) (string, error) {
	return f.reply, f.err
}

type fakeEvents struct{}

func (fakeEvents) BookingCreated(context.Context, *domain.Booking) error { return nil }

// ---------- router under test ----------

type testEnv struct {
	db       *gorm.DB
	notifier *fakeNotifier
	gateway  *fakeGateway
	chat     *fakeCompleter
	bookings *services.BookingService
	router   *gin.Engine
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	env := &testEnv{
		db:       newHandlerDB(t),
		notifier: &fakeNotifier{},
		gateway:  &fakeGateway{intents: map[string]payments.Intent{}},
		chat:     &fakeCompleter{reply: "Certo!"},
	}
	v := validation.New()
	env.bookings = services.NewBookingService(env.db, env.notifier, fakeEvents{}, v)

	h := New(Services{
		Bookings:   env.bookings,
		Payments:   services.NewPaymentService(env.gateway, env.bookings, env.notifier, "eur"),
		Discounts:  services.NewDiscountService(env.db, v),
		Newsletter: services.NewNewsletterService(env.db, env.notifier, v),
		Chat:       services.NewChatService(env.db, env.chat, 0),
		Contact:    services.NewContactService(env.notifier, v),
	})

	r := gin.New()
	r.Use(func(c *gin.Context) { c.Header("X-Request-ID", "rid-test"); c.Next() })
	r.GET("/", h.Root)
	r.POST("/auth/prenotazione", h.CreateDirectBooking)
	p := r.Group("/prenotazioni")
	p.GET("/get-occupied-dates", h.OccupiedDates)
	p.GET("/get-occupied-dates/localized", h.OccupiedDatesLocalized)
	p.POST("/create-payment-intent", h.CreatePaymentIntent)
	p.POST("/confirm-booking", h.ConfirmBooking)
	p.GET("/get-bookings", h.ListBookings)
	p.GET("/:id", h.GetBooking)
	p.POST("/newsletter/subscribe", h.Subscribe)
	pg := r.Group("/pagamenti")
	pg.POST("/create-payment-intent", h.CreateCheckoutIntent)
	pg.POST("/confirm-payment", h.ConfirmPayment)
	s := r.Group("/sconto")
	s.POST("/crea", h.CreateDiscount)
	s.GET("", h.ListDiscounts)
	s.GET("/:codice", h.GetDiscount)
	s.PUT("/:codice", h.UpdateDiscount)
	s.DELETE("/:codice", h.DeleteDiscount)
	r.POST("/chat", h.Chat)
	r.GET("/chat/history", h.ChatHistory)
	r.POST("/contact", h.Contact)
	env.router = r
	return env
}

func (e *testEnv) do(method, path string, body any, hdr ...string) *httptest.ResponseRecorder {
	var rdr *bytes.Reader
	switch b := body.(type) {
	case nil:
		rdr = bytes.NewReader(nil)
	case string:
		rdr = bytes.NewReader([]byte(b))
	default:
		raw, _ := json.Marshal(b)
		rdr = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, rdr)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(hdr); i += 2 {
		req.Header.Set(hdr[i], hdr[i+1])
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *testEnv) count(t *testing.T, model any) int64 {
	t.Helper()
	var n int64
	if err := e.db.Model(model).Count(&n).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	return n
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(w.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
	return v
}

func expectStatus(t *testing.T, w *httptest.ResponseRecorder, want int) {
	t.Helper()
	if w.Code != want {
		t.Fatalf("status=%d want %d body=%s", w.Code, want, w.Body.String())
	}
}
