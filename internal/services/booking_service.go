// Package services – BookingService
//
// This file implements BookingService, which owns the two ways a guest books
// the house without going through the payment confirmation flow: the direct
// request form (POST /auth/prenotazione) and the checkout summary
// (POST /prenotazioni/confirm-booking). Both validate, insert one row and
// attempt exactly one confirmation email. The outcome is reported as a
// BookingResult so a failed email after commit stays a success.
//
// It also serves the read side: single lookup, the curated listing and the
// occupied-date set used by the availability calendar.
//
// Observability: all public methods are OpenTelemetry-instrumented.
package services

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/tbourn/go-booking-backend/internal/calendar"
	"github.com/tbourn/go-booking-backend/internal/domain"
	"github.com/tbourn/go-booking-backend/internal/metrics"
	"github.com/tbourn/go-booking-backend/internal/repo"
	"github.com/tbourn/go-booking-backend/internal/validation"
)

// DirectBookingInput is the body of POST /auth/prenotazione.
type DirectBookingInput struct {
	HouseID  *int64 `json:"id_casa"      validate:"required,gt=0"`
	Name     string `json:"nome_utente"  validate:"required,max=255"`
	Email    string `json:"email_utente" validate:"required,email,max=255"`
	CheckIn  string `json:"data_inizio"  validate:"required"`
	CheckOut string `json:"data_fine"    validate:"required"`
}

// PaidBookingInput is the body of POST /prenotazioni/confirm-booking.
// TotalPrice accepts a JSON number or a numeric string.
type PaidBookingInput struct {
	CheckIn    string          `json:"checkIn"    validate:"required"`
	CheckOut   string          `json:"checkOut"   validate:"required"`
	Adults     *int            `json:"adults"     validate:"required,gte=1"`
	Children   *int            `json:"children"   validate:"required,gte=0"`
	Days       *int            `json:"days"       validate:"required,gte=1"`
	TotalPrice json.RawMessage `json:"totalPrice" swaggertype:"number"`

	Nome    string `json:"nome"    validate:"required,max=255"`
	Cognome string `json:"cognome" validate:"required,max=255"`
	Email   string `json:"email"   validate:"required,email,max=255"`

	Telefono  string `json:"telefono"  validate:"max=32"`
	Indirizzo string `json:"indirizzo" validate:"max=255"`
	Citta     string `json:"citta"     validate:"max=128"`
	Provincia string `json:"provincia" validate:"max=64"`
	Cap       string `json:"cap"       validate:"max=16"`

	HouseID       *int64 `json:"id_casa"         validate:"omitempty,gt=0"`
	PaymentID     string `json:"payment_id"      validate:"max=255"`
	PaymentStatus string `json:"stato_pagamento" validate:"max=32"`
}

// BookingService creates and reads bookings.
type BookingService struct {
	DB       *gorm.DB
	Notifier Notifier
	Events   EventPublisher
	Validate *validation.Validator
}

// NewBookingService wires a BookingService. events may be nil.
func NewBookingService(db *gorm.DB, n Notifier, events EventPublisher, v *validation.Validator) *BookingService {
	if v == nil {
		v = validation.New()
	}
	return &BookingService{DB: db, Notifier: n, Events: events, Validate: v}
}

// CreateDirect validates in, stores the booking and attempts one
// confirmation email.
func (s *BookingService) CreateDirect(ctx context.Context, in DirectBookingInput) BookingResult {
	ctx, span := otel.Tracer("services/BookingService").Start(ctx, "CreateDirect",
		trace.WithAttributes(attribute.String("booking.source", domain.SourceDirect)),
	)
	defer span.End()

	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	if err := s.Validate.Struct(in); err != nil {
		return rejected(err)
	}
	stay, err := parseStay("data_inizio", in.CheckIn, "data_fine", in.CheckOut)
	if err != nil {
		return rejected(err)
	}

	b := &domain.Booking{
		HouseID:  in.HouseID,
		Source:   domain.SourceDirect,
		Nome:     in.Name,
		Email:    in.Email,
		CheckIn:  stay.CheckIn,
		CheckOut: stay.CheckOut,
		Days:     calendar.Nights(stay.CheckIn, stay.CheckOut),
	}
	if err := s.insert(ctx, b); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "insert booking")
		return serverError(err)
	}
	span.SetAttributes(attribute.Int64("booking.id", int64(b.ID)))

	return created(b, s.notifyBooking(ctx, b))
}

// Confirm validates the checkout summary, stores the booking and attempts
// one confirmation email. No duplicate-submission check is made: two
// identical requests store two rows.
func (s *BookingService) Confirm(ctx context.Context, in PaidBookingInput) BookingResult {
	ctx, span := otel.Tracer("services/BookingService").Start(ctx, "Confirm",
		trace.WithAttributes(attribute.String("booking.source", domain.SourceBooking)),
	)
	defer span.End()

	trimAll(&in.Nome, &in.Cognome, &in.Email, &in.Telefono, &in.Indirizzo,
		&in.Citta, &in.Provincia, &in.Cap, &in.PaymentID, &in.PaymentStatus)

	err := s.Validate.Struct(in)
	if isBlankJSON(in.TotalPrice) {
		err = withField(err, "totalPrice", "is required")
	}
	if err != nil {
		return rejected(err)
	}
	price, err := parsePrice(in.TotalPrice)
	if err != nil {
		return rejected(err)
	}
	stay, err := parseStay("checkIn", in.CheckIn, "checkOut", in.CheckOut)
	if err != nil {
		return rejected(err)
	}

	b := &domain.Booking{
		HouseID:       in.HouseID,
		Source:        domain.SourceBooking,
		Nome:          in.Nome,
		Cognome:       in.Cognome,
		Email:         in.Email,
		CheckIn:       stay.CheckIn,
		CheckOut:      stay.CheckOut,
		Adults:        *in.Adults,
		Children:      *in.Children,
		Days:          *in.Days,
		TotalPrice:    decimal.NewNullDecimal(price),
		Telefono:      validation.NormalizePhone(in.Telefono),
		Indirizzo:     in.Indirizzo,
		Citta:         in.Citta,
		Provincia:     in.Provincia,
		Cap:           in.Cap,
		PaymentStatus: in.PaymentStatus,
	}
	if in.PaymentID != "" {
		b.PaymentID = &in.PaymentID
	}
	if err := s.insert(ctx, b); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "insert booking")
		return serverError(err)
	}
	span.SetAttributes(attribute.Int64("booking.id", int64(b.ID)))

	return created(b, s.notifyBooking(ctx, b))
}

// Get returns the full booking row or ErrBookingNotFound.
func (s *BookingService) Get(ctx context.Context, id uint64) (*domain.Booking, error) {
	ctx, span := otel.Tracer("services/BookingService").Start(ctx, "Get",
		trace.WithAttributes(attribute.Int64("booking.id", int64(id))),
	)
	defer span.End()

	b, err := repo.GetBooking(ctx, s.DB, id)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrBookingNotFound
	}
	return b, err
}

// List returns the guest-facing projection of every booking.
func (s *BookingService) List(ctx context.Context) ([]domain.BookingSummary, error) {
	ctx, span := otel.Tracer("services/BookingService").Start(ctx, "List")
	defer span.End()

	return repo.ListBookingSummaries(ctx, s.DB)
}

// OccupiedDates returns every night covered by some booking, ascending and
// without duplicates. Check-out days are free.
func (s *BookingService) OccupiedDates(ctx context.Context) ([]calendar.Date, error) {
	ctx, span := otel.Tracer("services/BookingService").Start(ctx, "OccupiedDates")
	defer span.End()

	stays, err := repo.ListStays(ctx, s.DB)
	if err != nil {
		return nil, err
	}
	out := calendar.Occupied(stays)
	span.SetAttributes(attribute.Int("dates.count", len(out)))
	return out, nil
}

// eventPublishTimeout bounds how long a booking request waits on the broker.
const eventPublishTimeout = 2 * time.Second

// insert stores b, counts it and announces it. A publish failure is logged
// and does not undo the insert.
func (s *BookingService) insert(ctx context.Context, b *domain.Booking) error {
	if err := repo.CreateBooking(ctx, s.DB, b); err != nil {
		return err
	}
	metrics.RecordBookingCreated(b.Source)
	if s.Events != nil {
		// The row is committed, so a client disconnect must not abort the publish.
		pctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), eventPublishTimeout)
		err := s.Events.BookingCreated(pctx, b)
		cancel()
		if err != nil {
			zerolog.Ctx(ctx).Warn().Err(err).Uint64("booking_id", b.ID).Msg("booking event not published")
		}
	}
	return nil
}

func (s *BookingService) notifyBooking(ctx context.Context, b *domain.Booking) error {
	err := s.Notifier.SendBookingConfirmation(ctx, b.Email, b.Nome, b.CheckIn, b.CheckOut)
	if err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Uint64("booking_id", b.ID).Msg("booking confirmation email failed")
	}
	return err
}

// parseStay parses both dates and requires in < out.
func parseStay(inField, inRaw, outField, outRaw string) (calendar.Range, error) {
	var errs validation.Errors
	in, err := calendar.Parse(inRaw)
	if err != nil {
		errs = append(errs, validation.FieldError{Field: inField, Message: dateMessage})
	}
	out, err := calendar.Parse(outRaw)
	if err != nil {
		errs = append(errs, validation.FieldError{Field: outField, Message: dateMessage})
	}
	if len(errs) > 0 {
		return calendar.Range{}, errs
	}
	if !in.Before(out) {
		return calendar.Range{}, ErrInvalidDateRange
	}
	return calendar.Range{CheckIn: in, CheckOut: out}, nil
}

const dateMessage = "must be a date (YYYY-MM-DD or DD/MM/YYYY)"

// Client decimals are checked against these bounds before any arithmetic:
// rescaling a value such as 1e999999999 would not finish.
const (
	minDecimalExp      = -8
	maxDecimalExp      = 8
	maxCoefficientBits = 64
)

// maxPrice is the largest amount a decimal(10,2) column holds.
var maxPrice = decimal.New(9999999999, -2)

// boundedDecimal reports whether d has a small exponent and coefficient.
// It only reads fields of d, so it is cheap for any input.
func boundedDecimal(d decimal.Decimal) bool {
	exp := d.Exponent()
	return exp >= minDecimalExp && exp <= maxDecimalExp && d.Coefficient().BitLen() <= maxCoefficientBits
}

// parsePrice reads a JSON number or numeric string into a non-negative
// amount with two decimals.
func parsePrice(raw json.RawMessage) (decimal.Decimal, error) {
	text := strings.TrimSpace(string(raw))
	if strings.HasPrefix(text, `"`) {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return decimal.Decimal{}, ErrInvalidPrice
		}
		text = strings.TrimSpace(s)
	}
	d, err := decimal.NewFromString(text)
	if err != nil || !boundedDecimal(d) || d.IsNegative() || d.GreaterThan(maxPrice) {
		return decimal.Decimal{}, ErrInvalidPrice
	}
	return d.Round(2), nil
}

// isBlankJSON reports whether a raw field was absent, null or "".
func isBlankJSON(raw json.RawMessage) bool {
	switch strings.TrimSpace(string(raw)) {
	case "", "null", `""`:
		return true
	}
	return false
}

// withField appends a field error to err, which is nil or validation.Errors.
// Any other error is returned unchanged.
func withField(err error, field, msg string) error {
	if err == nil {
		return validation.Field(field, msg)
	}
	var ve validation.Errors
	if errors.As(err, &ve) {
		return append(ve, validation.FieldError{Field: field, Message: msg})
	}
	return err
}

func trimAll(fields ...*string) {
	for _, f := range fields {
		*f = strings.TrimSpace(*f)
	}
}
