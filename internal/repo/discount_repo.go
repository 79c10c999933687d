// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for discount codes,
// which are keyed by the code string itself.
package repo

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/tbourn/go-booking-backend/internal/calendar"
	"github.com/tbourn/go-booking-backend/internal/domain"
)

// CreateDiscount inserts d. It returns ErrDuplicate when the code exists.
func CreateDiscount(ctx context.Context, db *gorm.DB, d *domain.DiscountCode) error {
	now := time.Now().UTC()
	d.CreatedAt, d.UpdatedAt = now, now
	if err := db.WithContext(ctx).Create(d).Error; err != nil {
		if isDuplicate(err) {
			return ErrDuplicate
		}
		return err
	}
	return nil
}

// ListDiscounts returns every code ordered by code.
func ListDiscounts(ctx context.Context, db *gorm.DB) ([]domain.DiscountCode, error) {
	out := []domain.DiscountCode{}
	err := db.WithContext(ctx).Order("codice ASC").Find(&out).Error
	return out, err
}

// GetDiscount fetches a code or returns ErrNotFound.
func GetDiscount(ctx context.Context, db *gorm.DB, code string) (*domain.DiscountCode, error) {
	var d domain.DiscountCode
	if err := db.WithContext(ctx).Where("codice = ?", code).First(&d).Error; err != nil {
		return nil, err
	}
	return &d, nil
}

// UpdateDiscount sets percentage and expiry for code. It returns ErrNotFound
// when the code does not exist.
//
// MySQL reports zero affected rows when the new values equal the old ones, so
// a zero count is confirmed with a lookup before it becomes ErrNotFound.
func UpdateDiscount(ctx context.Context, db *gorm.DB, code string, pct decimal.Decimal, expires calendar.Date) error {
	res := db.WithContext(ctx).
		Model(&domain.DiscountCode{}).
		Where("codice = ?", code).
		Updates(map[string]any{
			"sconto_percentuale": pct,
			"data_scadenza":      expires,
			"updated_at":         time.Now().UTC(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		return nil
	}
	var n int64
	if err := db.WithContext(ctx).Model(&domain.DiscountCode{}).Where("codice = ?", code).Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeleteDiscount removes code. It returns ErrNotFound when nothing was deleted.
func DeleteDiscount(ctx context.Context, db *gorm.DB, code string) error {
	res := db.WithContext(ctx).Where("codice = ?", code).Delete(&domain.DiscountCode{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
