// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for chat turns.
//
// All functions are context-aware and accept a *gorm.DB handle, making them
// safe for use within transactions or connection-scoped operations.
package repo

import (
	"context"
	"slices"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tbourn/go-booking-backend/internal/domain"
)

// CreateChatMessage inserts one side of a chat turn with a UUID primary key
// and a UTC timestamp.
func CreateChatMessage(ctx context.Context, db *gorm.DB, userID, sender, text string) (*domain.ChatMessage, error) {
	m := &domain.ChatMessage{
		ID:        uuid.NewString(),
		UserID:    userID,
		Message:   text,
		Sender:    sender,
		CreatedAt: time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(m).Error; err != nil {
		return nil, err
	}
	return m, nil
}

// DeleteChatMessage removes a message by id. Missing rows are not an error.
func DeleteChatMessage(ctx context.Context, db *gorm.DB, id string) error {
	return db.WithContext(ctx).Where("id = ?", id).Delete(&domain.ChatMessage{}).Error
}

// ListChatMessages returns the newest limit messages of a user, oldest
// first. A limit <= 0 returns everything.
func ListChatMessages(ctx context.Context, db *gorm.DB, userID string, limit int) ([]domain.ChatMessage, error) {
	out := []domain.ChatMessage{}
	q := db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at DESC, id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&out).Error; err != nil {
		return out, err
	}
	slices.Reverse(out)
	return out, nil
}
