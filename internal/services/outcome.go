package services

import "github.com/tbourn/go-booking-backend/internal/domain"

// Outcome is the result of a flow that persists a booking and then notifies
// the guest. Once the row is committed the flow cannot report failure, so a
// failed notification is a distinct success.
type Outcome int

const (
	// Created means the booking was stored and every notification was sent.
	Created Outcome = iota + 1
	// CreatedNotifyFailed means the booking was stored but at least one
	// notification failed.
	CreatedNotifyFailed
	// Rejected means the input was refused and nothing was stored.
	Rejected
	// ServerError means a store or provider failure stopped the flow before
	// anything was stored.
	ServerError
)

func (o Outcome) String() string {
	switch o {
	case Created:
		return "created"
	case CreatedNotifyFailed:
		return "created_notify_failed"
	case Rejected:
		return "rejected"
	case ServerError:
		return "server_error"
	default:
		return "unknown"
	}
}

// Stored reports whether a booking row exists for this outcome.
func (o Outcome) Stored() bool { return o == Created || o == CreatedNotifyFailed }

// BookingResult pairs an Outcome with the stored booking and the error that
// shaped it. Err is the rejection reason for Rejected, the failure for
// ServerError and the notification error for CreatedNotifyFailed.
type BookingResult struct {
	Outcome Outcome
	Booking *domain.Booking
	Err     error
}

func rejected(err error) BookingResult    { return BookingResult{Outcome: Rejected, Err: err} }
func serverError(err error) BookingResult { return BookingResult{Outcome: ServerError, Err: err} }

func created(b *domain.Booking, notifyErr error) BookingResult {
	if notifyErr != nil {
		return BookingResult{Outcome: CreatedNotifyFailed, Booking: b, Err: notifyErr}
	}
	return BookingResult{Outcome: Created, Booking: b}
}
