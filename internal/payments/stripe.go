// Package payments talks to the payment provider (Stripe). It opens payment
// intents for the checkout page and reads back their status when the client
// reports a finished payment. Nothing here decides whether a booking is
// created; the services do.
package payments

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
)

// StatusSucceeded is the only terminal status that confirms a booking.
const StatusSucceeded = string(stripe.PaymentIntentStatusSucceeded)

// ErrNotConfigured is returned when no secret key was provided.
var ErrNotConfigured = errors.New("payment provider not configured")

// IntentParams describes a new payment intent. Amount is in minor units.
type IntentParams struct {
	Amount   int64
	Currency string
	Email    string
	Metadata map[string]string
}

// Intent is the subset of a provider payment intent the service uses.
type Intent struct {
	ID           string
	ClientSecret string
	Status       string
	Amount       int64
	Currency     string
}

// Succeeded reports whether the provider considers the payment complete.
func (i Intent) Succeeded() bool { return i.Status == StatusSucceeded }

// Options tune the Stripe client. The zero value talks to api.stripe.com.
type Options struct {
	// BaseURL overrides the API endpoint (stripe-mock, tests).
	BaseURL string
	// HTTPClient overrides the transport.
	HTTPClient *http.Client
	// MethodTypes lists accepted payment methods; defaults to card.
	MethodTypes []string
}

// Stripe is a payment gateway backed by stripe-go. It holds its own client
// handle; no package-level stripe.Key is set.
type Stripe struct {
	api     *client.API
	methods []string
}

// NewStripe builds a gateway for secretKey. With an empty key every call
// returns ErrNotConfigured.
func NewStripe(secretKey string, opts Options) *Stripe {
	methods := opts.MethodTypes
	if len(methods) == 0 {
		methods = []string{"card"}
	}
	if strings.TrimSpace(secretKey) == "" {
		return &Stripe{methods: methods}
	}

	cfg := &stripe.BackendConfig{
		// No retries: a failed call is reported to the caller as-is.
		MaxNetworkRetries: stripe.Int64(0),
		LeveledLogger:     &stripe.LeveledLogger{Level: stripe.LevelError},
	}
	if opts.HTTPClient != nil {
		cfg.HTTPClient = opts.HTTPClient
	}
	var backends *stripe.Backends
	if opts.BaseURL != "" {
		cfg.URL = stripe.String(strings.TrimRight(opts.BaseURL, "/"))
		b := stripe.GetBackendWithConfig(stripe.APIBackend, cfg)
		backends = &stripe.Backends{API: b, Connect: b, Uploads: b}
	} else {
		backends = &stripe.Backends{
			API:     stripe.GetBackendWithConfig(stripe.APIBackend, cfg),
			Connect: stripe.GetBackendWithConfig(stripe.ConnectBackend, cfg),
			Uploads: stripe.GetBackendWithConfig(stripe.UploadsBackend, cfg),
		}
	}

	api := &client.API{}
	api.Init(secretKey, backends)
	return &Stripe{api: api, methods: methods}
}

// CreateIntent opens a payment intent and returns it with its client secret.
func (s *Stripe) CreateIntent(ctx context.Context, p IntentParams) (Intent, error) {
	if s.api == nil {
		return Intent{}, ErrNotConfigured
	}
	params := &stripe.PaymentIntentParams{
		Amount:             stripe.Int64(p.Amount),
		Currency:           stripe.String(strings.ToLower(p.Currency)),
		PaymentMethodTypes: stripe.StringSlice(s.methods),
	}
	params.Context = ctx
	if p.Email != "" {
		params.ReceiptEmail = stripe.String(p.Email)
	}
	for k, v := range p.Metadata {
		params.AddMetadata(k, v)
	}

	pi, err := s.api.PaymentIntents.New(params)
	if err != nil {
		return Intent{}, err
	}
	return toIntent(pi), nil
}

// RetrieveIntent reads the current state of intent id.
func (s *Stripe) RetrieveIntent(ctx context.Context, id string) (Intent, error) {
	if s.api == nil {
		return Intent{}, ErrNotConfigured
	}
	params := &stripe.PaymentIntentParams{}
	params.Context = ctx
	pi, err := s.api.PaymentIntents.Get(id, params)
	if err != nil {
		return Intent{}, err
	}
	return toIntent(pi), nil
}

func toIntent(pi *stripe.PaymentIntent) Intent {
	return Intent{
		ID:           pi.ID,
		ClientSecret: pi.ClientSecret,
		Status:       string(pi.Status),
		Amount:       pi.Amount,
		Currency:     string(pi.Currency),
	}
}
