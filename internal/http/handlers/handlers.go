// Package handlers wires the booking site's HTTP endpoints to the service layer.
//
// Handlers are transport-thin: they bind JSON, call a service, and translate
// the result (or error) into a response. Each endpoint family lives in its
// own file:
//   - booking_handler.go   /auth/prenotazione, /prenotazioni/*
//   - payment_handler.go   /prenotazioni/create-payment-intent, /pagamenti/*
//   - discount_handler.go  /sconto/*
//   - site_handler.go      /, /contact, /chat, newsletter
package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-booking-backend/internal/calendar"
	"github.com/tbourn/go-booking-backend/internal/domain"
	"github.com/tbourn/go-booking-backend/internal/http/middleware"
	"github.com/tbourn/go-booking-backend/internal/payments"
	"github.com/tbourn/go-booking-backend/internal/services"
	"github.com/tbourn/go-booking-backend/internal/validation"
)

//
// Service contracts (context-aware)
//

// BookingService stores and reads bookings.
type BookingService interface {
	CreateDirect(ctx context.Context, in services.DirectBookingInput) services.BookingResult
	Confirm(ctx context.Context, in services.PaidBookingInput) services.BookingResult
	Get(ctx context.Context, id uint64) (*domain.Booking, error)
	List(ctx context.Context) ([]domain.BookingSummary, error)
	OccupiedDates(ctx context.Context) ([]calendar.Date, error)
}

// PaymentService opens payment intents and turns confirmed payments into bookings.
type PaymentService interface {
	CreateIntent(ctx context.Context, in services.IntentInput) (payments.Intent, error)
	CreateCheckoutIntent(ctx context.Context, in services.CheckoutIntentInput) (payments.Intent, error)
	ConfirmPayment(ctx context.Context, in services.PaymentConfirmation) services.BookingResult
}

// DiscountService manages discount codes.
type DiscountService interface {
	Create(ctx context.Context, in services.DiscountInput) (*services.DiscountView, error)
	List(ctx context.Context) ([]services.DiscountView, error)
	Get(ctx context.Context, code string) (*services.DiscountView, error)
	Update(ctx context.Context, code string, in services.DiscountUpdate) error
	Delete(ctx context.Context, code string) error
}

// NewsletterService records newsletter sign-ups.
type NewsletterService interface {
	Subscribe(ctx context.Context, email string) (sub *domain.NewsletterSubscriber, notifyErr, err error)
}

// ChatService relays guest questions to the completion provider.
type ChatService interface {
	Relay(ctx context.Context, in services.ChatInput) (string, error)
	History(ctx context.Context, userID string, limit int) ([]domain.ChatMessage, error)
}

// ContactService forwards contact-form messages.
type ContactService interface {
	Send(ctx context.Context, in services.ContactInput) error
}

//
// Handler wiring
//

// Services bundles the dependencies of Handlers.
type Services struct {
	Bookings   BookingService
	Payments   PaymentService
	Discounts  DiscountService
	Newsletter NewsletterService
	Chat       ChatService
	Contact    ContactService
}

// Handlers groups every HTTP endpoint of the site.
type Handlers struct {
	bookingSvc    BookingService
	paymentSvc    PaymentService
	discountSvc   DiscountService
	newsletterSvc NewsletterService
	chatSvc       ChatService
	contactSvc    ContactService
}

// New constructs Handlers bound to the given services.
func New(s Services) *Handlers {
	return &Handlers{
		bookingSvc:    s.Bookings,
		paymentSvc:    s.Payments,
		discountSvc:   s.Discounts,
		newsletterSvc: s.Newsletter,
		chatSvc:       s.Chat,
		contactSvc:    s.Contact,
	}
}

//
// Helpers
//

// bindJSON decodes the body into dst and aborts with 400 on malformed JSON.
func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "corpo JSON non valido")
		return false
	}
	return true
}

// failFor maps a service error onto the error taxonomy: client input 400,
// missing record 404, duplicate 409, anything else a logged 500 with code.
func failFor(c *gin.Context, err error, code, msg string) {
	var ve validation.Errors
	switch {
	case errors.As(err, &ve):
		failFields(c, "tutti i campi obbligatori devono essere validi", ve)
	case errors.Is(err, services.ErrInvalidDateRange):
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "la data di fine deve essere successiva alla data di inizio")
	case errors.Is(err, services.ErrInvalidPrice):
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "il valore di totalPrice deve essere numerico")
	case errors.Is(err, services.ErrInvalidMessage):
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "messaggio non valido")
	case errors.Is(err, services.ErrPaymentNotSucceeded):
		fail(c, http.StatusBadRequest, ErrCodePaymentNotSucceeded, "il pagamento non è stato completato con successo")
	case errors.Is(err, services.ErrBookingNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, "prenotazione non trovata")
	case errors.Is(err, services.ErrDiscountNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, "codice sconto non trovato")
	case errors.Is(err, services.ErrDiscountExists):
		fail(c, http.StatusConflict, ErrCodeConflict, "codice sconto già esistente")
	case errors.Is(err, services.ErrAlreadySubscribed):
		fail(c, http.StatusConflict, ErrCodeConflict, "email già iscritta alla newsletter")
	default:
		serverFail(c, err, code, msg)
	}
}

// respondBooking writes the response for a booking-producing operation.
// A stored booking whose email failed is still a success, with a caveat.
func respondBooking(c *gin.Context, res services.BookingResult, status int, msg string) {
	switch res.Outcome {
	case services.Created:
		sent := true
		ok(c, status, MessageResponse{Message: msg, ID: &res.Booking.ID, NotificationSent: &sent})
	case services.CreatedNotifyFailed:
		middleware.LoggerFrom(c).Warn().Err(res.Err).Uint64("booking_id", res.Booking.ID).Msg("booking stored, confirmation email failed")
		sent := false
		ok(c, status, MessageResponse{
			Message:          msg + " Si è verificato un errore durante l'invio dell'email di conferma.",
			ID:               &res.Booking.ID,
			NotificationSent: &sent,
		})
	default:
		failFor(c, res.Err, ErrCodeCreateFailed, "errore durante l'inserimento della prenotazione")
	}
}
