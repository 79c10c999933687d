// Package services defines the business logic for bookings, payments,
// discount codes, the newsletter, the contact form and the chat relay.
// This file centralizes common service-level error values so that they can be
// consistently returned by service methods and checked by callers.
//
// Invalid input is reported as validation.Errors, listing every rejected
// field. Translation into user-facing messages or HTTP status codes is
// performed at the handler layer.
package services

import "errors"

// Booking-related errors.
var (
	// ErrBookingNotFound indicates that no booking has the requested id.
	ErrBookingNotFound = errors.New("booking not found")

	// ErrInvalidDateRange is returned when check-out is not after check-in.
	ErrInvalidDateRange = errors.New("check-out must be after check-in")

	// ErrInvalidPrice is returned when totalPrice is not a non-negative number
	// that fits the price column.
	ErrInvalidPrice = errors.New("totalPrice must be numeric")
)

// Payment-related errors.
var (
	// ErrPaymentNotSucceeded is returned when the provider reports any status
	// other than "succeeded" for the intent being confirmed.
	ErrPaymentNotSucceeded = errors.New("payment not completed")
)

// Discount-related errors.
var (
	// ErrDiscountNotFound indicates that the discount code does not exist.
	ErrDiscountNotFound = errors.New("discount code not found")

	// ErrDiscountExists is returned when creating a code that already exists.
	ErrDiscountExists = errors.New("discount code already exists")
)

// Newsletter errors.
var (
	// ErrAlreadySubscribed is returned when the email is already on the list.
	ErrAlreadySubscribed = errors.New("email already subscribed")
)

// Chat errors.
var (
	// ErrInvalidMessage is returned when the chat message is missing or blank.
	ErrInvalidMessage = errors.New("invalid message")
)
