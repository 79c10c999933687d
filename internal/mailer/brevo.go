// Package mailer sends the transactional emails of the booking site through
// Brevo (formerly Sendinblue): booking and payment confirmations, the
// newsletter welcome and the contact form relay.
//
// Every send is a single attempt. Errors are returned to the caller, which
// decides whether a failure downgrades the response or fails it.
package mailer

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	brevo "github.com/getbrevo/brevo-go/lib"
	"github.com/rs/zerolog"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/tbourn/go-booking-backend/internal/calendar"
	"github.com/tbourn/go-booking-backend/internal/metrics"
)

// Notification kinds, used as the metrics label.
const (
	KindBooking    = "booking_confirmation"
	KindPayment    = "payment_confirmation"
	KindNewsletter = "newsletter_welcome"
	KindContact    = "contact"
)

// ErrNotConfigured is returned when no API key was provided.
var ErrNotConfigured = errors.New("email provider not configured")

// TransacSender is the part of the Brevo client the dispatcher needs.
// *brevo.TransactionalEmailsApiService satisfies it.
type TransacSender interface {
	SendTransacEmail(ctx context.Context, email brevo.SendSmtpEmail) (brevo.CreateSmtpEmail, *http.Response, error)
}

// Config carries the sender identity and the template ids.
type Config struct {
	APIKey   string
	BasePath string // optional override of the Brevo API URL

	SenderEmail string
	SenderName  string

	ContactInbox  string
	ContactSender string

	BookingTemplateID    int64
	PaymentTemplateID    int64
	NewsletterTemplateID int64

	// NewsletterName fills {{params.nome}} of the welcome template, since
	// sign-up only asks for an email.
	NewsletterName string
}

// Dispatcher sends templated transactional emails.
type Dispatcher struct {
	cfg    Config
	sender TransacSender
}

// New builds a Dispatcher backed by the Brevo API client. With an empty API
// key every send returns ErrNotConfigured.
func New(cfg Config) *Dispatcher {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return NewWithSender(cfg, nil)
	}
	bc := brevo.NewConfiguration()
	bc.AddDefaultHeader("api-key", cfg.APIKey)
	if cfg.BasePath != "" {
		bc.BasePath = strings.TrimRight(cfg.BasePath, "/")
	}
	client := brevo.NewAPIClient(bc)
	return NewWithSender(cfg, client.TransactionalEmailsApi)
}

// NewWithSender builds a Dispatcher on top of any TransacSender.
func NewWithSender(cfg Config, s TransacSender) *Dispatcher {
	if cfg.NewsletterName == "" {
		cfg.NewsletterName = "Utente"
	}
	return &Dispatcher{cfg: cfg, sender: s}
}

// SendBookingConfirmation sends the booking template to the guest.
func (d *Dispatcher) SendBookingConfirmation(ctx context.Context, to, name string, checkIn, checkOut calendar.Date) error {
	return d.send(ctx, KindBooking, brevo.SendSmtpEmail{
		Sender:     d.from(),
		To:         []brevo.SendSmtpEmailTo{{Email: to, Name: d.displayName(name)}},
		TemplateId: d.cfg.BookingTemplateID,
		Params:     stayParams(d.displayName(name), checkIn, checkOut),
	})
}

// SendPaymentConfirmation sends the payment receipt template to the guest.
func (d *Dispatcher) SendPaymentConfirmation(ctx context.Context, to, name string, checkIn, checkOut calendar.Date) error {
	return d.send(ctx, KindPayment, brevo.SendSmtpEmail{
		Sender:     d.from(),
		To:         []brevo.SendSmtpEmailTo{{Email: to, Name: d.displayName(name)}},
		TemplateId: d.cfg.PaymentTemplateID,
		Params:     stayParams(d.displayName(name), checkIn, checkOut),
	})
}

// SendNewsletterWelcome sends the welcome template to a new subscriber.
func (d *Dispatcher) SendNewsletterWelcome(ctx context.Context, to string) error {
	return d.send(ctx, KindNewsletter, brevo.SendSmtpEmail{
		Sender:     d.from(),
		To:         []brevo.SendSmtpEmailTo{{Email: to}},
		TemplateId: d.cfg.NewsletterTemplateID,
		Params:     map[string]interface{}{"nome": d.cfg.NewsletterName},
	})
}

// SendContact relays a contact form message to the house inbox as plain
// text, with Reply-To set to the visitor.
func (d *Dispatcher) SendContact(ctx context.Context, name, email, subject, message string) error {
	sender := d.cfg.ContactSender
	if sender == "" {
		sender = d.cfg.SenderEmail
	}
	return d.send(ctx, KindContact, brevo.SendSmtpEmail{
		Sender:      &brevo.SendSmtpEmailSender{Name: d.cfg.SenderName, Email: sender},
		To:          []brevo.SendSmtpEmailTo{{Email: d.cfg.ContactInbox}},
		ReplyTo:     &brevo.SendSmtpEmailReplyTo{Email: email, Name: name},
		Subject:     subject,
		TextContent: fmt.Sprintf("Nome: %s\nEmail: %s\n\nMessaggio:\n%s", name, email, message),
	})
}

func (d *Dispatcher) send(ctx context.Context, kind string, email brevo.SendSmtpEmail) error {
	lg := zerolog.Ctx(ctx)
	if d.sender == nil {
		metrics.RecordNotification(kind, ErrNotConfigured)
		return ErrNotConfigured
	}

	res, httpRes, err := d.sender.SendTransacEmail(ctx, email)
	if httpRes != nil && httpRes.Body != nil {
		_ = httpRes.Body.Close()
	}
	metrics.RecordNotification(kind, err)
	if err != nil {
		return fmt.Errorf("send %s email: %w", kind, err)
	}
	lg.Debug().Str("kind", kind).Str("message_id", res.MessageId).Msg("email sent")
	return nil
}

func (d *Dispatcher) from() *brevo.SendSmtpEmailSender {
	return &brevo.SendSmtpEmailSender{Name: d.cfg.SenderName, Email: d.cfg.SenderEmail}
}

// displayName title-cases a guest name for the greeting ("mario rossi" ->
// "Mario Rossi"). Casers keep state, so each call gets its own.
func (d *Dispatcher) displayName(name string) string {
	name = strings.Join(strings.Fields(name), " ")
	if name == "" {
		return ""
	}
	return cases.Title(language.Italian).String(name)
}

func stayParams(name string, checkIn, checkOut calendar.Date) map[string]interface{} {
	return map[string]interface{}{
		"nome":       name,
		"dataInizio": checkIn.String(),
		"dataFine":   checkOut.String(),
	}
}
