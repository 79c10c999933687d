// Package domain defines the persistence models for bookings, discount codes,
// newsletter subscribers and chat messages. These types are mapped with GORM
// and form the core data layer of the booking backend.
package domain

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/tbourn/go-booking-backend/internal/calendar"
)

// Booking sources. They tell which flow inserted the row.
const (
	SourceDirect  = "direct"  // POST /auth/prenotazione
	SourceBooking = "booking" // POST /prenotazioni/confirm-booking
	SourcePayment = "payment" // POST /pagamenti/confirm-payment
)

// Booking is a reservation of the house for the half-open stay
// [CheckIn, CheckOut). Every creation path writes to this one table; the
// payment fields stay empty for bookings that did not go through the
// payment provider. Rows are never updated in place.
//
// Fields:
//   - ID: auto-increment primary key returned to the client.
//   - HouseID: optional reference to the rented house (id_casa).
//   - Nome / Cognome / Email: guest identity.
//   - CheckIn / CheckOut: calendar dates; CheckIn < CheckOut is enforced by a
//     CHECK constraint as well as by the services.
//   - Adults / Children / Days / TotalPrice: stay details (paid flow only).
//   - Telefono .. Cap: guest contact address.
//   - PaymentID / PaymentStatus: payment sub-record.
type Booking struct {
	ID      uint64 `json:"id"              gorm:"primaryKey;autoIncrement"`
	HouseID *int64 `json:"id_casa"         gorm:"column:id_casa;index"`
	Source  string `json:"origine"         gorm:"column:origine;type:varchar(16);not null;default:'direct'"`

	Nome    string `json:"nome"    gorm:"column:nome;type:varchar(255);not null"`
	Cognome string `json:"cognome" gorm:"column:cognome;type:varchar(255)"`
	Email   string `json:"email"   gorm:"column:email;type:varchar(255);not null;index"`

	CheckIn  calendar.Date `json:"checkin"  gorm:"column:checkin;not null;index:idx_booking_stay,priority:1"`
	CheckOut calendar.Date `json:"checkout" gorm:"column:checkout;not null;index:idx_booking_stay,priority:2;check:checkout > checkin"`

	Adults     int                 `json:"numero_adulti"   gorm:"column:numero_adulti;not null;default:0"`
	Children   int                 `json:"numero_bambini"  gorm:"column:numero_bambini;not null;default:0"`
	Days       int                 `json:"totale_giorni"   gorm:"column:totale_giorni;not null;default:0"`
	TotalPrice decimal.NullDecimal `json:"costo_soggiorno" gorm:"column:costo_soggiorno;type:decimal(10,2)"`

	Telefono  string `json:"telefono"  gorm:"column:telefono;type:varchar(32)"`
	Indirizzo string `json:"indirizzo" gorm:"column:indirizzo;type:varchar(255)"`
	Citta     string `json:"citta"     gorm:"column:citta;type:varchar(128)"`
	Provincia string `json:"provincia" gorm:"column:provincia;type:varchar(64)"`
	Cap       string `json:"cap"       gorm:"column:cap;type:varchar(16)"`

	PaymentID     *string `json:"payment_id"      gorm:"column:payment_id;type:varchar(255);index"`
	PaymentStatus string  `json:"stato_pagamento" gorm:"column:stato_pagamento;type:varchar(32)"`

	CreatedAt time.Time `json:"created_at"`
}

// TableName returns the database table name for Booking.
func (Booking) TableName() string { return "clienti_prenotazioni" }

// Stay returns the booking's date range.
func (b Booking) Stay() calendar.Range {
	return calendar.Range{CheckIn: b.CheckIn, CheckOut: b.CheckOut}
}

// BookingSummary is the guest-facing projection served by the listing
// endpoint. Payment fields are left out on purpose; the single-booking
// lookup returns the full row.
type BookingSummary struct {
	ID         uint64              `json:"id"`
	CheckIn    calendar.Date       `json:"checkin"         gorm:"column:checkin"`
	CheckOut   calendar.Date       `json:"checkout"        gorm:"column:checkout"`
	Adults     int                 `json:"numero_adulti"   gorm:"column:numero_adulti"`
	Children   int                 `json:"numero_bambini"  gorm:"column:numero_bambini"`
	TotalPrice decimal.NullDecimal `json:"costo_soggiorno" gorm:"column:costo_soggiorno"`
	Nome       string              `json:"nome"            gorm:"column:nome"`
	Cognome    string              `json:"cognome"         gorm:"column:cognome"`
	Email      string              `json:"email"           gorm:"column:email"`
	Telefono   string              `json:"telefono"        gorm:"column:telefono"`
	Indirizzo  string              `json:"indirizzo"       gorm:"column:indirizzo"`
	Citta      string              `json:"citta"           gorm:"column:citta"`
	Provincia  string              `json:"provincia"       gorm:"column:provincia"`
	Cap        string              `json:"cap"             gorm:"column:cap"`
}

// DiscountCode is a promotional code keyed by its own string. The expiry is
// informational: nothing rejects an expired code at read time.
type DiscountCode struct {
	Code       string          `json:"codice"             gorm:"column:codice;primaryKey;type:varchar(64)"`
	Percentage decimal.Decimal `json:"sconto_percentuale" gorm:"column:sconto_percentuale;type:decimal(5,2);not null"`
	ExpiresOn  calendar.Date   `json:"data_scadenza"      gorm:"column:data_scadenza;not null"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// TableName returns the database table name for DiscountCode.
func (DiscountCode) TableName() string { return "codici_sconto" }

// Expired reports whether the code is past its expiry on day today. A code
// is still valid on its expiry date.
func (d DiscountCode) Expired(today calendar.Date) bool {
	return !d.ExpiresOn.IsZero() && d.ExpiresOn.Before(today)
}

// NewsletterSubscriber is a newsletter sign-up. Email is unique.
type NewsletterSubscriber struct {
	ID        uint64    `json:"id"         gorm:"primaryKey;autoIncrement"`
	Email     string    `json:"email"      gorm:"type:varchar(255);not null;uniqueIndex:ux_newsletter_email"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName returns the database table name for NewsletterSubscriber.
func (NewsletterSubscriber) TableName() string { return "newsletter_subscribers" }

// Chat senders.
const (
	SenderUser = "user"
	SenderBot  = "bot"
)

// ChatMessage is one side of a chat turn. Each turn writes a "user" row and
// then a "bot" row for the same UserID; insertion order is the conversation
// order.
type ChatMessage struct {
	ID        string    `json:"id"         gorm:"type:char(36);primaryKey"`
	UserID    string    `json:"user_id"    gorm:"type:varchar(64);not null;index:idx_chat_user,priority:1"`
	Message   string    `json:"message"    gorm:"type:text;not null"`
	Sender    string    `json:"sender"     gorm:"type:varchar(8);not null;check:sender IN ('user','bot')"`
	CreatedAt time.Time `json:"created_at" gorm:"index:idx_chat_user,priority:2"`
}

// TableName returns the database table name for ChatMessage.
func (ChatMessage) TableName() string { return "chat" }
