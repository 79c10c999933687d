package services

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"gorm.io/gorm"

	"github.com/tbourn/go-booking-backend/internal/domain"
	"github.com/tbourn/go-booking-backend/internal/metrics"
	"github.com/tbourn/go-booking-backend/internal/repo"
	"github.com/tbourn/go-booking-backend/internal/validation"
)

// NewsletterService handles newsletter sign-ups. Emails are unique,
// compared case-insensitively.
type NewsletterService struct {
	DB       *gorm.DB
	Notifier Notifier
	Validate *validation.Validator
}

// NewNewsletterService wires a NewsletterService.
func NewNewsletterService(db *gorm.DB, n Notifier, v *validation.Validator) *NewsletterService {
	if v == nil {
		v = validation.New()
	}
	return &NewsletterService{DB: db, Notifier: n, Validate: v}
}

// Subscribe stores email and attempts the welcome email. The returned
// notifyErr is non-nil when the subscriber was stored but the email failed;
// err is set when nothing was stored.
func (s *NewsletterService) Subscribe(ctx context.Context, email string) (sub *domain.NewsletterSubscriber, notifyErr, err error) {
	ctx, span := otel.Tracer("services/NewsletterService").Start(ctx, "Subscribe")
	defer span.End()

	email = strings.TrimSpace(email)
	if err := s.Validate.Var("email", email, "required,email,max=255"); err != nil {
		return nil, nil, err
	}

	sub, err = repo.CreateSubscriber(ctx, s.DB, email)
	if errors.Is(err, repo.ErrDuplicate) {
		return nil, nil, ErrAlreadySubscribed
	}
	if err != nil {
		return nil, nil, err
	}
	if n, err := repo.CountSubscribers(ctx, s.DB); err == nil {
		metrics.NewsletterSubscribers.Set(float64(n))
	}

	if notifyErr = s.Notifier.SendNewsletterWelcome(ctx, sub.Email); notifyErr != nil {
		zerolog.Ctx(ctx).Warn().Err(notifyErr).Uint64("subscriber_id", sub.ID).Msg("newsletter welcome email failed")
	}
	return sub, notifyErr, nil
}
