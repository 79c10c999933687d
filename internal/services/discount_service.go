// Package services – DiscountService
//
// DiscountService is the CRUD surface over discount codes, keyed by the code
// string. Expiry is not enforced here; reads carry a computed "scaduto" flag
// so the caller can decide.
package services

import (
	"context"
	"errors"
	"strings"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/tbourn/go-booking-backend/internal/calendar"
	"github.com/tbourn/go-booking-backend/internal/domain"
	"github.com/tbourn/go-booking-backend/internal/repo"
	"github.com/tbourn/go-booking-backend/internal/validation"
)

var (
	minPercentage = decimal.Zero
	maxPercentage = decimal.NewFromInt(100)
)

// DiscountInput is the body of POST /sconto/crea. Percentage accepts a JSON
// number or a numeric string.
type DiscountInput struct {
	Code       string           `json:"codice"            validate:"required,max=64"`
	Percentage *decimal.Decimal `json:"scontoPercentuale" validate:"required" swaggertype:"number"`
	ExpiresOn  string           `json:"dataScadenza"      validate:"required"`
}

// DiscountUpdate is the body of PUT /sconto/{codice}. The code itself is
// immutable.
type DiscountUpdate struct {
	Percentage *decimal.Decimal `json:"scontoPercentuale" validate:"required" swaggertype:"number"`
	ExpiresOn  string           `json:"dataScadenza"      validate:"required"`
}

// DiscountView is a stored code plus its expiry state on the current day.
type DiscountView struct {
	domain.DiscountCode
	Expired bool `json:"scaduto"`
}

// DiscountService manages discount codes.
type DiscountService struct {
	DB       *gorm.DB
	Validate *validation.Validator

	// Today returns the current calendar day; defaults to calendar.Today.
	Today func() calendar.Date
}

// NewDiscountService wires a DiscountService.
func NewDiscountService(db *gorm.DB, v *validation.Validator) *DiscountService {
	if v == nil {
		v = validation.New()
	}
	return &DiscountService{DB: db, Validate: v, Today: calendar.Today}
}

// Create stores a new code. It returns ErrDiscountExists for a taken code.
func (s *DiscountService) Create(ctx context.Context, in DiscountInput) (*DiscountView, error) {
	ctx, span := otel.Tracer("services/DiscountService").Start(ctx, "Create",
		trace.WithAttributes(attribute.String("discount.code", in.Code)),
	)
	defer span.End()

	in.Code = strings.TrimSpace(in.Code)
	if err := s.Validate.Struct(in); err != nil {
		return nil, err
	}
	pct, expires, err := checkDiscount(*in.Percentage, in.ExpiresOn)
	if err != nil {
		return nil, err
	}

	d := &domain.DiscountCode{Code: in.Code, Percentage: pct, ExpiresOn: expires}
	if err := repo.CreateDiscount(ctx, s.DB, d); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, ErrDiscountExists
		}
		return nil, err
	}
	return s.view(*d), nil
}

// List returns every code ordered by code.
func (s *DiscountService) List(ctx context.Context) ([]DiscountView, error) {
	ctx, span := otel.Tracer("services/DiscountService").Start(ctx, "List")
	defer span.End()

	rows, err := repo.ListDiscounts(ctx, s.DB)
	if err != nil {
		return nil, err
	}
	out := make([]DiscountView, len(rows))
	for i, d := range rows {
		out[i] = *s.view(d)
	}
	return out, nil
}

// Get returns one code or ErrDiscountNotFound.
func (s *DiscountService) Get(ctx context.Context, code string) (*DiscountView, error) {
	ctx, span := otel.Tracer("services/DiscountService").Start(ctx, "Get",
		trace.WithAttributes(attribute.String("discount.code", code)),
	)
	defer span.End()

	d, err := repo.GetDiscount(ctx, s.DB, code)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrDiscountNotFound
	}
	if err != nil {
		return nil, err
	}
	return s.view(*d), nil
}

// Update changes percentage and expiry of code. It returns
// ErrDiscountNotFound and changes nothing when the code does not exist.
func (s *DiscountService) Update(ctx context.Context, code string, in DiscountUpdate) error {
	ctx, span := otel.Tracer("services/DiscountService").Start(ctx, "Update",
		trace.WithAttributes(attribute.String("discount.code", code)),
	)
	defer span.End()

	if err := s.Validate.Struct(in); err != nil {
		return err
	}
	pct, expires, err := checkDiscount(*in.Percentage, in.ExpiresOn)
	if err != nil {
		return err
	}
	err = repo.UpdateDiscount(ctx, s.DB, code, pct, expires)
	if errors.Is(err, repo.ErrNotFound) {
		return ErrDiscountNotFound
	}
	return err
}

// Delete removes code or returns ErrDiscountNotFound.
func (s *DiscountService) Delete(ctx context.Context, code string) error {
	ctx, span := otel.Tracer("services/DiscountService").Start(ctx, "Delete",
		trace.WithAttributes(attribute.String("discount.code", code)),
	)
	defer span.End()

	err := repo.DeleteDiscount(ctx, s.DB, code)
	if errors.Is(err, repo.ErrNotFound) {
		return ErrDiscountNotFound
	}
	return err
}

func (s *DiscountService) view(d domain.DiscountCode) *DiscountView {
	today := calendar.Today
	if s.Today != nil {
		today = s.Today
	}
	return &DiscountView{DiscountCode: d, Expired: d.Expired(today())}
}

// checkDiscount requires a percentage in (0, 100] and a parseable expiry.
func checkDiscount(pct decimal.Decimal, expiresOn string) (decimal.Decimal, calendar.Date, error) {
	var errs validation.Errors
	if !boundedDecimal(pct) || !pct.GreaterThan(minPercentage) || pct.GreaterThan(maxPercentage) {
		errs = append(errs, validation.FieldError{Field: "scontoPercentuale", Message: "must be greater than 0 and at most 100"})
	}
	expires, err := calendar.Parse(expiresOn)
	if err != nil {
		errs = append(errs, validation.FieldError{Field: "dataScadenza", Message: dateMessage})
	}
	if len(errs) > 0 {
		return decimal.Decimal{}, calendar.Date{}, errs
	}
	return pct.Round(2), expires, nil
}
