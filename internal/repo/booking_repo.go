// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Booking
// model.
//
// Functions:
//
//   - CreateBooking(ctx, db, b) -> error
//     Inserts a booking and fills in the generated ID.
//
//   - GetBooking(ctx, db, id) -> *domain.Booking, error
//     Full row by id, or ErrNotFound.
//
//   - ListBookingSummaries(ctx, db) -> []domain.BookingSummary, error
//     Curated guest-facing columns for every booking, ordered by check-in.
//
//   - ListStays(ctx, db) -> []calendar.Range, error
//     Only the check-in/check-out pairs, for availability.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/go-booking-backend/internal/calendar"
	"github.com/tbourn/go-booking-backend/internal/domain"
)

// CreateBooking inserts b. CreatedAt defaults to now (UTC) when unset.
func CreateBooking(ctx context.Context, db *gorm.DB, b *domain.Booking) error {
	if b.CreatedAt.IsZero() {
		b.CreatedAt = time.Now().UTC()
	}
	return db.WithContext(ctx).Create(b).Error
}

// GetBooking fetches a booking by id. If the record does not exist, it
// returns ErrNotFound. On other DB errors, the raw error is returned.
func GetBooking(ctx context.Context, db *gorm.DB, id uint64) (*domain.Booking, error) {
	var b domain.Booking
	if err := db.WithContext(ctx).Where("id = ?", id).First(&b).Error; err != nil {
		return nil, err
	}
	return &b, nil
}

// ListBookingSummaries returns the listing projection for all bookings,
// ordered by check-in then id. It returns an empty slice when there are none.
func ListBookingSummaries(ctx context.Context, db *gorm.DB) ([]domain.BookingSummary, error) {
	out := []domain.BookingSummary{}
	err := db.WithContext(ctx).
		Model(&domain.Booking{}).
		Select("id, checkin, checkout, numero_adulti, numero_bambini, costo_soggiorno, " +
			"nome, cognome, email, telefono, indirizzo, citta, provincia, cap").
		Order("checkin ASC, id ASC").
		Scan(&out).Error
	return out, err
}

// ListStays returns the stay range of every booking.
func ListStays(ctx context.Context, db *gorm.DB) ([]calendar.Range, error) {
	var rows []struct {
		CheckIn  calendar.Date `gorm:"column:checkin"`
		CheckOut calendar.Date `gorm:"column:checkout"`
	}
	if err := db.WithContext(ctx).
		Model(&domain.Booking{}).
		Select("checkin, checkout").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]calendar.Range, len(rows))
	for i, r := range rows {
		out[i] = calendar.Range{CheckIn: r.CheckIn, CheckOut: r.CheckOut}
	}
	return out, nil
}
