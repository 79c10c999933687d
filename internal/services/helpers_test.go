package services

import (
	"context"
	"fmt"
	"sync"
	"testing"

	sqlite "github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tbourn/go-booking-backend/internal/calendar"
	"github.com/tbourn/go-booking-backend/internal/domain"
	"github.com/tbourn/go-booking-backend/internal/payments"
	"github.com/tbourn/go-booking-backend/internal/validation"
)

// ---------- test helpers ----------

func newSvcDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:svc_%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(
		&domain.Booking{},
		&domain.DiscountCode{},
		&domain.NewsletterSubscriber{},
		&domain.ChatMessage{},
	); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

func countRows(t *testing.T, db *gorm.DB, model any) int64 {
	t.Helper()
	var n int64
	if err := db.Model(model).Count(&n).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	return n
}

func ptr[T any](v T) *T { return &v }

// ---------- fakes ----------

type sentMail struct {
	Kind     string
	To       string
	Name     string
	CheckIn  calendar.Date
	CheckOut calendar.Date
}

type fakeNotifier struct {
	mu    sync.Mutex
	sent  []sentMail
	errBy map[string]error
}

func (f *fakeNotifier) record(kind, to, name string, in, out calendar.Date) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, sentMail{Kind: kind, To: to, Name: name, CheckIn: in, CheckOut: out})
	return f.errBy[kind]
}

func (f *fakeNotifier) SendBookingConfirmation(_ context.Context, to, name string, in, out calendar.Date) error {
	return f.record("booking", to, name, in, out)
}

func (f *fakeNotifier) SendPaymentConfirmation(_ context.Context, to, name string, in, out calendar.Date) error {
	return f.record("payment", to, name, in, out)
}

func (f *fakeNotifier) SendNewsletterWelcome(_ context.Context, to string) error {
	return f.record("newsletter", to, "", calendar.Date{}, calendar.Date{})
}

func (f *fakeNotifier) SendContact(_ context.Context, name, email, _, _ string) error {
	return f.record("contact", email, name, calendar.Date{}, calendar.Date{})
}

func (f *fakeNotifier) kinds() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.sent))
	for i, m := range f.sent {
		out[i] = m.Kind
	}
	return out
}

type fakeGateway struct {
	created   []payments.IntentParams
	createErr error

	intents     map[string]payments.Intent
	retrieveErr error
	retrieved   []string
}

func (g *fakeGateway) CreateIntent(_ context.Context, p payments.IntentParams) (payments.Intent, error) {
	g.created = append(g.created, p)
	if g.createErr != nil {
		return payments.Intent{}, g.createErr
	}
	return payments.Intent{ID: "pi_new", ClientSecret: "pi_new_secret", Status: "requires_payment_method",
		Amount: p.Amount, Currency: p.Currency}, nil
}

func (g *fakeGateway) RetrieveIntent(_ context.Context, id string) (payments.Intent, error) {
	g.retrieved = append(g.retrieved, id)
	if g.retrieveErr != nil {
		return payments.Intent{}, g.retrieveErr
	}
	in, ok := g.intents[id]
	if !ok {
		return payments.Intent{}, fmt.Errorf("no such payment_intent: %s", id)
	}
	return in, nil
}

type fakeCompleter struct {
	reply   string
	err     error
	prompts []string
	budget  int
}

func (c *fakeCompleter) Complete(_ context.Context, prompt string, maxTokens int) (string, error) {
	c.prompts = append(c.prompts, prompt)
	c.budget = maxTokens
	return c.reply, c.err
}

type fakeEvents struct {
	ids []uint64
	err error
}

func (e *fakeEvents) BookingCreated(_ context.Context, b *domain.Booking) error {
	e.ids = append(e.ids, b.ID)
	return e.err
}

// stalledEvents blocks until the publish context ends, like an unreachable broker.
type stalledEvents struct {
	hadDeadline bool
}

func (e *stalledEvents) BookingCreated(ctx context.Context, _ *domain.Booking) error {
	_, e.hadDeadline = ctx.Deadline()
	<-ctx.Done()
	return ctx.Err()
}

func newBookingSvc(t *testing.T) (*BookingService, *fakeNotifier, *fakeEvents) {
	t.Helper()
	n := &fakeNotifier{}
	ev := &fakeEvents{}
	return NewBookingService(newSvcDB(t), n, ev, validation.New()), n, ev
}
