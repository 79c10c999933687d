// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for newsletter
// subscribers.
package repo

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/go-booking-backend/internal/domain"
)

// CreateSubscriber stores email (lower-cased) and returns ErrDuplicate when
// it is already subscribed.
func CreateSubscriber(ctx context.Context, db *gorm.DB, email string) (*domain.NewsletterSubscriber, error) {
	s := &domain.NewsletterSubscriber{
		Email:     strings.ToLower(strings.TrimSpace(email)),
		CreatedAt: time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(s).Error; err != nil {
		if isDuplicate(err) {
			return nil, ErrDuplicate
		}
		return nil, err
	}
	return s, nil
}

// CountSubscribers returns the number of subscribers.
func CountSubscribers(ctx context.Context, db *gorm.DB) (int64, error) {
	var n int64
	err := db.WithContext(ctx).Model(&domain.NewsletterSubscriber{}).Count(&n).Error
	return n, err
}
