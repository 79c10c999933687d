package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-booking-backend/internal/http/middleware"
	"github.com/tbourn/go-booking-backend/internal/validation"
)

// ErrorResponse is the body of every non-2xx response. Message is Italian
// and safe to show to guests; Code is the stable value clients branch on.
type ErrorResponse struct {
	RequestID string                  `json:"request_id,omitempty" example:"123e4567-e89b-12d3-a456-426614174000"`
	Code      string                  `json:"code" example:"not_found"`
	Message   string                  `json:"message" example:"prenotazione non trovata"`
	Fields    []validation.FieldError `json:"fields,omitempty"`
}

// MessageResponse is the success body of write endpoints.
//
// NotificationSent is present when the operation also sends an email; false
// means the record was stored but the email attempt failed.
type MessageResponse struct {
	Message          string  `json:"message" example:"Prenotazione creata con successo!"`
	ID               *uint64 `json:"id,omitempty" example:"42"`
	NotificationSent *bool   `json:"notification_sent,omitempty" example:"true"`
}

func abort(c *gin.Context, status int, body ErrorResponse) {
	body.RequestID = middleware.RequestIDFrom(c)
	c.AbortWithStatusJSON(status, body)
}

// fail aborts with the error envelope. 5xx responses are also logged on the
// request logger.
func fail(c *gin.Context, status int, code, msg string) {
	if status >= http.StatusInternalServerError {
		middleware.LoggerFrom(c).Error().Int("status", status).Str("code", code).Msg(msg)
	}
	abort(c, status, ErrorResponse{Code: code, Message: msg})
}

// Fail lets the router answer with the same envelope (404, 405, probes).
func Fail(c *gin.Context, status int, code, msg string) { fail(c, status, code, msg) }

// failFields aborts with 400 listing the rejected fields.
func failFields(c *gin.Context, msg string, fields validation.Errors) {
	abort(c, http.StatusBadRequest, ErrorResponse{Code: ErrCodeBadRequest, Message: msg, Fields: fields})
}

// serverFail logs err and answers 500 with a generic message; err never
// reaches the client.
func serverFail(c *gin.Context, err error, code, msg string) {
	middleware.LoggerFrom(c).Error().Err(err).Str("code", code).Msg(msg)
	abort(c, http.StatusInternalServerError, ErrorResponse{Code: code, Message: msg})
}

func ok(c *gin.Context, status int, body any) {
	c.JSON(status, body)
}
