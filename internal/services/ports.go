package services

import (
	"context"

	"github.com/tbourn/go-booking-backend/internal/calendar"
	"github.com/tbourn/go-booking-backend/internal/domain"
	"github.com/tbourn/go-booking-backend/internal/payments"
)

// Notifier sends the transactional emails. *mailer.Dispatcher implements it.
type Notifier interface {
	SendBookingConfirmation(ctx context.Context, to, name string, checkIn, checkOut calendar.Date) error
	SendPaymentConfirmation(ctx context.Context, to, name string, checkIn, checkOut calendar.Date) error
	SendNewsletterWelcome(ctx context.Context, to string) error
	SendContact(ctx context.Context, name, email, subject, message string) error
}

// PaymentGateway opens and inspects payment intents. *payments.Stripe
// implements it.
type PaymentGateway interface {
	CreateIntent(ctx context.Context, p payments.IntentParams) (payments.Intent, error)
	RetrieveIntent(ctx context.Context, id string) (payments.Intent, error)
}

// Completer produces the bot reply for a chat message.
// *completion.Client implements it.
type Completer interface {
	Complete(ctx context.Context, prompt string, maxTokens int) (string, error)
}

// EventPublisher announces stored bookings. *events.Kafka and events.Noop
// implement it.
type EventPublisher interface {
	BookingCreated(ctx context.Context, b *domain.Booking) error
}
