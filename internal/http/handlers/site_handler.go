// Site HTTP handlers: liveness text, newsletter sign-up, contact form and
// the chat assistant.
package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-booking-backend/internal/domain"
	"github.com/tbourn/go-booking-backend/internal/services"
	"github.com/tbourn/go-booking-backend/internal/utils"
)

const (
	defaultHistoryLimit = 50
	maxHistoryLimit     = 200
)

// SubscribeRequest is the body of POST /prenotazioni/newsletter/subscribe.
type SubscribeRequest struct {
	Email string `json:"email" example:"ospite@example.com"`
}

// SubscribeResponse acknowledges a newsletter sign-up.
type SubscribeResponse struct {
	Message          string `json:"message" example:"Iscrizione alla newsletter avvenuta con successo!"`
	Email            string `json:"email" example:"ospite@example.com"`
	NotificationSent bool   `json:"notification_sent" example:"true"`
}

// ChatResponse carries the assistant's reply.
type ChatResponse struct {
	Message string `json:"message" example:"Il check-in è dalle 15:00."`
}

// ChatHistoryResponse lists the stored turns of one user.
type ChatHistoryResponse struct {
	UserID   string               `json:"user_id" example:"guest-42"`
	Messages []domain.ChatMessage `json:"messages"`
}

// Root godoc
// @ID          root
// @Summary     Liveness text
// @Tags        Site
// @Produce     plain
// @Success     200  {string}  string  "Server attivo e funzionante!"
// @Router      / [get]
func (h *Handlers) Root(c *gin.Context) {
	c.String(http.StatusOK, "Server attivo e funzionante!")
}

// Subscribe godoc
// @ID          subscribeNewsletter
// @Summary     Subscribe to the newsletter
// @Description Stores the address and sends a welcome email. A failed email still returns 201.
// @Tags        Site
// @Accept      json
// @Produce     json
// @Param       body  body      handlers.SubscribeRequest  true  "Subscriber"
// @Success     201   {object}  handlers.SubscribeResponse
// @Failure     400   {object}  handlers.ErrorResponse  "Missing or malformed email"
// @Failure     409   {object}  handlers.ErrorResponse  "Already subscribed"
// @Failure     500   {object}  handlers.ErrorResponse  "Internal error"
// @Router      /prenotazioni/newsletter/subscribe [post]
func (h *Handlers) Subscribe(c *gin.Context) {
	var req SubscribeRequest
	if !bindJSON(c, &req) {
		return
	}
	sub, notifyErr, err := h.newsletterSvc.Subscribe(c.Request.Context(), req.Email)
	if err != nil {
		failFor(c, err, ErrCodeCreateFailed, "errore durante l'iscrizione alla newsletter")
		return
	}
	msg := "Iscrizione alla newsletter avvenuta con successo!"
	if notifyErr != nil {
		msg += " Non è stato possibile inviare l'email di benvenuto."
	}
	ok(c, http.StatusCreated, SubscribeResponse{Message: msg, Email: sub.Email, NotificationSent: notifyErr == nil})
}

// Contact godoc
// @ID          contact
// @Summary     Send a contact-form message
// @Description Forwards the message by email to the site inbox, with Reply-To set to the sender.
// @Tags        Site
// @Accept      json
// @Produce     json
// @Param       body  body      services.ContactInput  true  "Contact form"
// @Success     200   {object}  handlers.MessageResponse
// @Failure     400   {object}  handlers.ErrorResponse  "Missing field"
// @Failure     500   {object}  handlers.ErrorResponse  "Email provider error"
// @Router      /contact [post]
func (h *Handlers) Contact(c *gin.Context) {
	var in services.ContactInput
	if !bindJSON(c, &in) {
		return
	}
	if err := h.contactSvc.Send(c.Request.Context(), in); err != nil {
		failFor(c, err, ErrCodeEmailFailed, "errore durante l'invio dell'email")
		return
	}
	ok(c, http.StatusOK, MessageResponse{Message: "Email inviata con successo!"})
}

// Chat godoc
// @ID          chat
// @Summary     Ask the assistant
// @Description Stores the question, asks the completion provider and stores the reply.
// @Description When the provider fails, nothing of the turn is kept.
// @Tags        Chat
// @Accept      json
// @Produce     json
// @Param       body  body      services.ChatInput  true  "Question"
// @Success     200   {object}  handlers.ChatResponse
// @Failure     400   {object}  handlers.ErrorResponse  "Empty or non-string message"
// @Failure     500   {object}  handlers.ErrorResponse  "Completion or database error"
// @Router      /chat [post]
func (h *Handlers) Chat(c *gin.Context) {
	var in services.ChatInput
	if !bindJSON(c, &in) {
		return
	}
	reply, err := h.chatSvc.Relay(c.Request.Context(), in)
	if err != nil {
		failFor(c, err, ErrCodeChatFailed, "errore del server nel chatbot")
		return
	}
	ok(c, http.StatusOK, ChatResponse{Message: reply})
}

// ChatHistory godoc
// @ID          chatHistory
// @Summary     Chat history
// @Description Stored turns of one user, oldest first.
// @Tags        Chat
// @Produce     json
// @Param       user_id  query     string  true   "User ID"  example(guest-42)
// @Param       limit    query     int     false  "Max messages"  minimum(1) maximum(200) default(50)
// @Success     200      {object}  handlers.ChatHistoryResponse
// @Failure     400      {object}  handlers.ErrorResponse  "Missing user_id"
// @Failure     500      {object}  handlers.ErrorResponse  "Internal error"
// @Router      /chat/history [get]
func (h *Handlers) ChatHistory(c *gin.Context) {
	userID := strings.TrimSpace(c.Query("user_id"))
	if userID == "" {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "user_id obbligatorio")
		return
	}
	limit := utils.LimitParam(c.Query("limit"), defaultHistoryLimit, maxHistoryLimit)

	msgs, err := h.chatSvc.History(c.Request.Context(), userID, limit)
	if err != nil {
		failFor(c, err, ErrCodeListFailed, "errore durante il recupero della cronologia")
		return
	}
	if msgs == nil {
		msgs = []domain.ChatMessage{}
	}
	ok(c, http.StatusOK, ChatHistoryResponse{UserID: userID, Messages: msgs})
}
