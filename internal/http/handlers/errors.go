package handlers

// Values of ErrorResponse.Code. Generic codes mirror the HTTP status; the
// domain codes tell clients which step failed when the status alone cannot.
const (
	ErrCodeBadRequest  = "bad_request"
	ErrCodeNotFound    = "not_found"
	ErrCodeConflict    = "conflict"
	ErrCodeRateLimited = "too_many_requests"
	ErrCodeInternal    = "internal_error"
	ErrCodeUnavailable = "service_unavailable"

	// Domain-specific:
	ErrCodeCreateFailed        = "create_failed"
	ErrCodeListFailed          = "list_failed"
	ErrCodeUpdateFailed        = "update_failed"
	ErrCodeDeleteFailed        = "delete_failed"
	ErrCodePaymentFailed       = "payment_failed"
	ErrCodePaymentNotSucceeded = "payment_not_succeeded"
	ErrCodeEmailFailed         = "email_failed"
	ErrCodeChatFailed          = "chat_failed"
	ErrCodeMethodNotAllowed    = "method_not_allowed"
)
