// Package services – PaymentService
//
// PaymentService brokers the card checkout: it opens payment intents for the
// frontend and, once the frontend reports a finished payment, re-reads the
// intent from the provider and stores the booking only on "succeeded".
//
// The amount of a new intent is taken from the caller as-is. It is not
// recomputed from the stay, so a tampered client can underpay.
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/tbourn/go-booking-backend/internal/calendar"
	"github.com/tbourn/go-booking-backend/internal/domain"
	"github.com/tbourn/go-booking-backend/internal/metrics"
	"github.com/tbourn/go-booking-backend/internal/payments"
	"github.com/tbourn/go-booking-backend/internal/validation"
)

// maxMetadataValue is the provider's limit on a metadata value.
const maxMetadataValue = 500

// IntentInput is the body of POST /prenotazioni/create-payment-intent.
// Amount is in minor units (cents).
type IntentInput struct {
	Amount         *int64          `json:"amount"         validate:"required,gt=0"`
	Currency       string          `json:"currency"       validate:"omitempty,len=3,alpha"`
	Email          string          `json:"email_utente"   validate:"omitempty,email"`
	BookingDetails json.RawMessage `json:"bookingDetails" swaggertype:"object"`
}

// CheckoutIntentInput is the body of POST /pagamenti/create-payment-intent,
// where currency, email and booking details are mandatory.
type CheckoutIntentInput struct {
	Amount         *int64          `json:"amount"         validate:"required,gt=0"`
	Currency       string          `json:"currency"       validate:"required,len=3,alpha"`
	Email          string          `json:"email_utente"   validate:"required,email"`
	BookingDetails json.RawMessage `json:"bookingDetails" swaggertype:"object"`
}

// PaymentConfirmation is the body of POST /pagamenti/confirm-payment.
type PaymentConfirmation struct {
	PaymentIntentID string `json:"paymentIntentId" validate:"required,max=255"`
	HouseID         *int64 `json:"id_casa"         validate:"required,gt=0"`
	Name            string `json:"nome_utente"     validate:"required,max=255"`
	Email           string `json:"email_utente"    validate:"required,email,max=255"`
	CheckIn         string `json:"data_inizio"     validate:"required"`
	CheckOut        string `json:"data_fine"       validate:"required"`
}

// PaymentService opens and confirms payments.
type PaymentService struct {
	Gateway  PaymentGateway
	Bookings *BookingService
	Notifier Notifier
	Validate *validation.Validator

	// Currency is used when the request names none.
	Currency string
}

// NewPaymentService wires a PaymentService. The booking service supplies
// the store and the event publisher.
func NewPaymentService(gw PaymentGateway, bookings *BookingService, n Notifier, currency string) *PaymentService {
	if currency == "" {
		currency = "eur"
	}
	return &PaymentService{
		Gateway:  gw,
		Bookings: bookings,
		Notifier: n,
		Validate: bookings.Validate,
		Currency: strings.ToLower(currency),
	}
}

// CreateIntent opens a payment intent and returns it; the handler passes
// the client secret through untouched.
func (s *PaymentService) CreateIntent(ctx context.Context, in IntentInput) (payments.Intent, error) {
	ctx, span := otel.Tracer("services/PaymentService").Start(ctx, "CreateIntent")
	defer span.End()

	in.Email = strings.TrimSpace(in.Email)
	in.Currency = strings.TrimSpace(in.Currency)
	if err := s.Validate.Struct(in); err != nil {
		return payments.Intent{}, err
	}

	cur := strings.ToLower(in.Currency)
	if cur == "" {
		cur = s.Currency
	}
	span.SetAttributes(
		attribute.Int64("payment.amount", *in.Amount),
		attribute.String("payment.currency", cur),
	)

	meta := map[string]string{}
	if in.Email != "" {
		meta["email_utente"] = in.Email
	}
	if !isBlankJSON(in.BookingDetails) {
		meta["bookingDetails"] = clip(compactJSON(in.BookingDetails), maxMetadataValue)
	}

	intent, err := s.Gateway.CreateIntent(ctx, payments.IntentParams{
		Amount:   *in.Amount,
		Currency: cur,
		Email:    in.Email,
		Metadata: meta,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "create intent")
		return payments.Intent{}, err
	}
	span.SetAttributes(attribute.String("payment.intent_id", intent.ID))
	return intent, nil
}

// CreateCheckoutIntent checks the stricter checkout body and opens the
// intent like CreateIntent.
func (s *PaymentService) CreateCheckoutIntent(ctx context.Context, in CheckoutIntentInput) (payments.Intent, error) {
	in.Email = strings.TrimSpace(in.Email)
	in.Currency = strings.TrimSpace(in.Currency)
	err := s.Validate.Struct(in)
	if isBlankJSON(in.BookingDetails) {
		err = withField(err, "bookingDetails", "is required")
	}
	if err != nil {
		return payments.Intent{}, err
	}
	return s.CreateIntent(ctx, IntentInput(in))
}

// ConfirmPayment re-reads the intent and stores the booking only when the
// provider reports "succeeded". After the insert it attempts the payment
// email and then the booking email; both are tried whatever the first one
// returned.
func (s *PaymentService) ConfirmPayment(ctx context.Context, in PaymentConfirmation) BookingResult {
	ctx, span := otel.Tracer("services/PaymentService").Start(ctx, "ConfirmPayment",
		trace.WithAttributes(attribute.String("payment.intent_id", in.PaymentIntentID)),
	)
	defer span.End()

	trimAll(&in.PaymentIntentID, &in.Name, &in.Email)
	if err := s.Validate.Struct(in); err != nil {
		return rejected(err)
	}
	stay, err := parseStay("data_inizio", in.CheckIn, "data_fine", in.CheckOut)
	if err != nil {
		return rejected(err)
	}

	intent, err := s.Gateway.RetrieveIntent(ctx, in.PaymentIntentID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "retrieve intent")
		return serverError(fmt.Errorf("retrieve payment intent: %w", err))
	}
	metrics.RecordPaymentConfirmation(intent.Status)
	span.SetAttributes(attribute.String("payment.status", intent.Status))
	if !intent.Succeeded() {
		return rejected(fmt.Errorf("%w: status %q", ErrPaymentNotSucceeded, intent.Status))
	}

	id := intent.ID
	b := &domain.Booking{
		HouseID:       in.HouseID,
		Source:        domain.SourcePayment,
		Nome:          in.Name,
		Email:         in.Email,
		CheckIn:       stay.CheckIn,
		CheckOut:      stay.CheckOut,
		Days:          calendar.Nights(stay.CheckIn, stay.CheckOut),
		PaymentID:     &id,
		PaymentStatus: intent.Status,
	}
	if intent.Amount > 0 {
		// Amounts are minor units of a two-decimal currency.
		b.TotalPrice = decimal.NewNullDecimal(decimal.New(intent.Amount, -2))
	}
	if err := s.Bookings.insert(ctx, b); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "insert booking")
		return serverError(err)
	}
	span.SetAttributes(attribute.Int64("booking.id", int64(b.ID)))

	lg := zerolog.Ctx(ctx)
	payErr := s.Notifier.SendPaymentConfirmation(ctx, b.Email, b.Nome, b.CheckIn, b.CheckOut)
	if payErr != nil {
		lg.Warn().Err(payErr).Uint64("booking_id", b.ID).Msg("payment confirmation email failed")
	}
	bookErr := s.Notifier.SendBookingConfirmation(ctx, b.Email, b.Nome, b.CheckIn, b.CheckOut)
	if bookErr != nil {
		lg.Warn().Err(bookErr).Uint64("booking_id", b.ID).Msg("booking confirmation email failed")
	}
	return created(b, errors.Join(payErr, bookErr))
}

func compactJSON(raw json.RawMessage) string {
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return string(raw)
	}
	return buf.String()
}

func clip(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
