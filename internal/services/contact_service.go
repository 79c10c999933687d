package services

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"

	"github.com/tbourn/go-booking-backend/internal/validation"
)

// ContactInput is the body of POST /contact.
type ContactInput struct {
	Name    string `json:"name"    validate:"required,max=255"`
	Email   string `json:"email"   validate:"required,email,max=255"`
	Subject string `json:"subject" validate:"required,max=255"`
	Message string `json:"message" validate:"required,max=5000"`
}

// ContactService relays the contact form to the house inbox. Nothing is
// stored, so a failed email fails the request.
type ContactService struct {
	Notifier Notifier
	Validate *validation.Validator
}

// NewContactService wires a ContactService.
func NewContactService(n Notifier, v *validation.Validator) *ContactService {
	if v == nil {
		v = validation.New()
	}
	return &ContactService{Notifier: n, Validate: v}
}

// Send validates in and emails it.
func (s *ContactService) Send(ctx context.Context, in ContactInput) error {
	ctx, span := otel.Tracer("services/ContactService").Start(ctx, "Send")
	defer span.End()

	trimAll(&in.Name, &in.Email, &in.Subject, &in.Message)
	if err := s.Validate.Struct(in); err != nil {
		return err
	}
	if err := s.Notifier.SendContact(ctx, in.Name, in.Email, in.Subject, in.Message); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "send contact email")
		return err
	}
	return nil
}
