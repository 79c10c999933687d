package repo

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite" // pure-Go SQLite (no CGO)
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tbourn/go-booking-backend/internal/calendar"
	"github.com/tbourn/go-booking-backend/internal/domain"
)

func newTestDB(t *testing.T, migrate ...any) *gorm.DB {
	t.Helper()
	// Unique DB per test to avoid schema leaking across tests.
	dsn := fmt.Sprintf("file:repo_%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if len(migrate) > 0 {
		if err := db.AutoMigrate(migrate...); err != nil {
			t.Fatalf("automigrate: %v", err)
		}
	}
	return db
}

func seedBooking(t *testing.T, db *gorm.DB, in, out string, created time.Time) *domain.Booking {
	t.Helper()
	pid := "pi_" + in
	b := &domain.Booking{
		Nome:          "Anna",
		Cognome:       "Bianchi",
		Email:         "anna@example.com",
		CheckIn:       calendar.MustParse(in),
		CheckOut:      calendar.MustParse(out),
		Adults:        2,
		TotalPrice:    decimal.NewNullDecimal(decimal.RequireFromString("99.90")),
		PaymentID:     &pid,
		PaymentStatus: "succeeded",
		CreatedAt:     created,
	}
	if err := CreateBooking(context.Background(), db, b); err != nil {
		t.Fatalf("CreateBooking: %v", err)
	}
	return b
}

// ---------- bookings ----------

func TestCreateBooking_Error_NoTable(t *testing.T) {
	db := newTestDB(t /* no migrations */)
	b := &domain.Booking{Nome: "x", Email: "x@example.com", CheckIn: calendar.MustParse("2025-01-01"), CheckOut: calendar.MustParse("2025-01-02")}
	if err := CreateBooking(context.Background(), db, b); err == nil {
		t.Fatalf("expected error creating without table")
	}
}

func TestCreateAndGetBooking(t *testing.T) {
	db := newTestDB(t, &domain.Booking{})
	b := seedBooking(t, db, "2025-07-01", "2025-07-04", time.Time{})
	if b.ID == 0 || b.CreatedAt.IsZero() {
		t.Fatalf("expected id and created_at to be set: %+v", b)
	}

	got, err := GetBooking(context.Background(), db, b.ID)
	if err != nil {
		t.Fatalf("GetBooking: %v", err)
	}
	if got.PaymentID == nil || *got.PaymentID != "pi_2025-07-01" || got.PaymentStatus != "succeeded" {
		t.Fatalf("full row should include payment fields: %+v", got)
	}

	if _, err := GetBooking(context.Background(), db, b.ID+100); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListBookingSummaries_OrderedCurated(t *testing.T) {
	db := newTestDB(t, &domain.Booking{})
	seedBooking(t, db, "2025-08-10", "2025-08-12", time.Time{})
	seedBooking(t, db, "2025-07-01", "2025-07-04", time.Time{})

	out, err := ListBookingSummaries(context.Background(), db)
	if err != nil {
		t.Fatalf("ListBookingSummaries: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(out))
	}
	if out[0].CheckIn.String() != "2025-07-01" || out[1].CheckIn.String() != "2025-08-10" {
		t.Fatalf("unexpected order: %s, %s", out[0].CheckIn, out[1].CheckIn)
	}
	if out[0].Nome != "Anna" || out[0].Adults != 2 || !out[0].TotalPrice.Valid {
		t.Fatalf("curated fields not populated: %+v", out[0])
	}
}

func TestListBookingSummaries_EmptyIsNotNil(t *testing.T) {
	db := newTestDB(t, &domain.Booking{})
	out, err := ListBookingSummaries(context.Background(), db)
	if err != nil {
		t.Fatalf("ListBookingSummaries: %v", err)
	}
	if out == nil || len(out) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", out)
	}
}

func TestListStays(t *testing.T) {
	db := newTestDB(t, &domain.Booking{})
	seedBooking(t, db, "2025-07-01", "2025-07-04", time.Time{})

	stays, err := ListStays(context.Background(), db)
	if err != nil {
		t.Fatalf("ListStays: %v", err)
	}
	if len(stays) != 1 || stays[0].CheckIn.String() != "2025-07-01" || stays[0].CheckOut.String() != "2025-07-04" {
		t.Fatalf("unexpected stays: %+v", stays)
	}
}

func TestBookingsStats(t *testing.T) {
	db := newTestDB(t, &domain.Booking{})
	ctx := context.Background()

	count, maxAt, err := BookingsStats(ctx, db)
	if err != nil || count != 0 || maxAt != nil {
		t.Fatalf("expected (0, nil, nil), got (%d, %v, %v)", count, maxAt, err)
	}

	t1 := time.Date(2025, 1, 2, 15, 0, 0, 0, time.UTC)
	t2 := time.Date(2025, 3, 4, 10, 30, 0, 0, time.UTC)
	seedBooking(t, db, "2025-07-01", "2025-07-04", t2)
	seedBooking(t, db, "2025-08-01", "2025-08-04", t1)

	count, maxAt, err = BookingsStats(ctx, db)
	if err != nil {
		t.Fatalf("BookingsStats: %v", err)
	}
	if count != 2 || maxAt == nil || !maxAt.Equal(t2) {
		t.Fatalf("expected (2, %v), got (%d, %v)", t2, count, maxAt)
	}
}

func TestBookingsStats_Error_NoTable(t *testing.T) {
	db := newTestDB(t)
	if _, _, err := BookingsStats(context.Background(), db); err == nil {
		t.Fatalf("expected error due to missing table")
	}
}

// ---------- discounts ----------

func newDiscount(code, pct, exp string) *domain.DiscountCode {
	return &domain.DiscountCode{
		Code:       code,
		Percentage: decimal.RequireFromString(pct),
		ExpiresOn:  calendar.MustParse(exp),
	}
}

func TestDiscountCRUD(t *testing.T) {
	db := newTestDB(t, &domain.DiscountCode{})
	ctx := context.Background()

	if err := CreateDiscount(ctx, db, newDiscount("ESTATE25", "25", "2025-09-30")); err != nil {
		t.Fatalf("CreateDiscount: %v", err)
	}
	if err := CreateDiscount(ctx, db, newDiscount("ESTATE25", "10", "2025-09-30")); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
	if err := CreateDiscount(ctx, db, newDiscount("AUTUNNO", "15.5", "2025-11-30")); err != nil {
		t.Fatalf("CreateDiscount 2: %v", err)
	}

	all, err := ListDiscounts(ctx, db)
	if err != nil || len(all) != 2 || all[0].Code != "AUTUNNO" {
		t.Fatalf("ListDiscounts: err=%v all=%+v", err, all)
	}

	got, err := GetDiscount(ctx, db, "ESTATE25")
	if err != nil || !got.Percentage.Equal(decimal.NewFromInt(25)) || got.ExpiresOn.String() != "2025-09-30" {
		t.Fatalf("GetDiscount: err=%v got=%+v", err, got)
	}

	if err := UpdateDiscount(ctx, db, "ESTATE25", decimal.NewFromInt(30), calendar.MustParse("2025-10-15")); err != nil {
		t.Fatalf("UpdateDiscount: %v", err)
	}
	got, _ = GetDiscount(ctx, db, "ESTATE25")
	if !got.Percentage.Equal(decimal.NewFromInt(30)) || got.ExpiresOn.String() != "2025-10-15" {
		t.Fatalf("update not applied: %+v", got)
	}

	// Same values again must not look like "not found".
	if err := UpdateDiscount(ctx, db, "ESTATE25", decimal.NewFromInt(30), calendar.MustParse("2025-10-15")); err != nil {
		t.Fatalf("idempotent UpdateDiscount: %v", err)
	}

	if err := DeleteDiscount(ctx, db, "ESTATE25"); err != nil {
		t.Fatalf("DeleteDiscount: %v", err)
	}
	if _, err := GetDiscount(ctx, db, "ESTATE25"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestDiscount_MissingCodeIsNotFound(t *testing.T) {
	db := newTestDB(t, &domain.DiscountCode{})
	ctx := context.Background()

	if err := UpdateDiscount(ctx, db, "NOPE", decimal.NewFromInt(5), calendar.MustParse("2025-01-01")); !errors.Is(err, ErrNotFound) {
		t.Fatalf("UpdateDiscount: expected ErrNotFound, got %v", err)
	}
	if err := DeleteDiscount(ctx, db, "NOPE"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("DeleteDiscount: expected ErrNotFound, got %v", err)
	}
	var n int64
	db.Model(&domain.DiscountCode{}).Count(&n)
	if n != 0 {
		t.Fatalf("no rows should have been created, got %d", n)
	}
}

// ---------- newsletter ----------

func TestCreateSubscriber_UniqueCaseInsensitive(t *testing.T) {
	db := newTestDB(t, &domain.NewsletterSubscriber{})
	ctx := context.Background()

	s, err := CreateSubscriber(ctx, db, "  Mario@Example.com ")
	if err != nil {
		t.Fatalf("CreateSubscriber: %v", err)
	}
	if s.Email != "mario@example.com" || s.ID == 0 {
		t.Fatalf("unexpected subscriber: %+v", s)
	}
	if _, err := CreateSubscriber(ctx, db, "mario@example.com"); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
	n, err := CountSubscribers(ctx, db)
	if err != nil || n != 1 {
		t.Fatalf("CountSubscribers: n=%d err=%v", n, err)
	}
}

// ---------- chat ----------

func TestChatMessages_CreateListDelete(t *testing.T) {
	db := newTestDB(t, &domain.ChatMessage{})
	ctx := context.Background()

	u, err := CreateChatMessage(ctx, db, "u1", domain.SenderUser, "ciao")
	if err != nil {
		t.Fatalf("CreateChatMessage user: %v", err)
	}
	if _, err := CreateChatMessage(ctx, db, "u1", domain.SenderBot, "salve"); err != nil {
		t.Fatalf("CreateChatMessage bot: %v", err)
	}
	if _, err := CreateChatMessage(ctx, db, "u2", domain.SenderUser, "other"); err != nil {
		t.Fatalf("CreateChatMessage other: %v", err)
	}

	msgs, err := ListChatMessages(ctx, db, "u1", 0)
	if err != nil || len(msgs) != 2 {
		t.Fatalf("ListChatMessages: err=%v len=%d", err, len(msgs))
	}
	if msgs[0].Sender != domain.SenderUser || msgs[1].Sender != domain.SenderBot {
		t.Fatalf("unexpected order: %+v", msgs)
	}

	if err := DeleteChatMessage(ctx, db, u.ID); err != nil {
		t.Fatalf("DeleteChatMessage: %v", err)
	}
	msgs, _ = ListChatMessages(ctx, db, "u1", 10)
	if len(msgs) != 1 || msgs[0].Sender != domain.SenderBot {
		t.Fatalf("expected only bot row left, got %+v", msgs)
	}
}

func TestListChatMessages_LimitKeepsNewest(t *testing.T) {
	db := newTestDB(t, &domain.ChatMessage{})
	ctx := context.Background()

	base := time.Date(2025, 7, 1, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		m := domain.ChatMessage{
			ID:        uuid.NewString(),
			UserID:    "u1",
			Message:   fmt.Sprintf("turno %d", i),
			Sender:    domain.SenderUser,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		if err := db.Create(&m).Error; err != nil {
			t.Fatalf("seed %d: %v", i, err)
		}
	}

	msgs, err := ListChatMessages(ctx, db, "u1", 2)
	if err != nil {
		t.Fatalf("ListChatMessages: %v", err)
	}
	if len(msgs) != 2 || msgs[0].Message != "turno 3" || msgs[1].Message != "turno 4" {
		t.Fatalf("want the two newest turns oldest first, got %+v", msgs)
	}

	all, _ := ListChatMessages(ctx, db, "u1", 0)
	if len(all) != 5 || all[0].Message != "turno 0" || all[4].Message != "turno 4" {
		t.Fatalf("unexpected full history: %+v", all)
	}
}

func TestCreateChatMessage_RejectsUnknownSender(t *testing.T) {
	db := newTestDB(t, &domain.ChatMessage{})
	if _, err := CreateChatMessage(context.Background(), db, "u1", "assistant", "x"); err == nil {
		t.Fatalf("expected CHECK constraint error")
	}
}

func TestIsDuplicate(t *testing.T) {
	cases := map[error]bool{
		nil:                               false,
		gorm.ErrDuplicatedKey:             true,
		errors.New("UNIQUE constraint failed: x.email"): true,
		errors.New("Error 1062: Duplicate entry 'a' for key 'email'"): true,
		errors.New("ERROR: duplicate key value violates unique constraint"): true,
		errors.New("connection refused"): false,
	}
	for err, want := range cases {
		if got := isDuplicate(err); got != want {
			t.Fatalf("isDuplicate(%v) = %v; want %v", err, got, want)
		}
	}
}
