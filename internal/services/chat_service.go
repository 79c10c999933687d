// Package services – ChatService
//
// ChatService relays a visitor's chat message to the completion provider.
// A turn stores the user row, asks for a reply with a fixed token budget,
// stores the bot row and returns the reply text.
//
// A turn is all or nothing: if the completion call or the bot insert fails,
// the user row is deleted again, so the history never holds a question
// without its answer.
package services

import (
	"context"
	"encoding/json"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/tbourn/go-booking-backend/internal/domain"
	"github.com/tbourn/go-booking-backend/internal/repo"
)

const (
	defaultChatMaxTokens = 150
	defaultChatMaxRunes  = 2000
	anonymousChatUser    = "anonymous"
	maxChatUserIDRunes   = 64
)

// ChatInput is the body of POST /chat. Message must be a JSON string.
type ChatInput struct {
	UserID  string          `json:"user_id"`
	Message json.RawMessage `json:"message" swaggertype:"string"`
}

// ChatService persists chat turns around a Completer.
type ChatService struct {
	DB        *gorm.DB
	Completer Completer

	// MaxTokens is the completion budget per reply.
	MaxTokens int
	// MaxMessageRunes caps the visitor's message; 0 disables the cap.
	MaxMessageRunes int
}

// NewChatService constructs a ChatService with the default budget.
func NewChatService(db *gorm.DB, c Completer, maxTokens int) *ChatService {
	if maxTokens <= 0 {
		maxTokens = defaultChatMaxTokens
	}
	return &ChatService{
		DB:              db,
		Completer:       c,
		MaxTokens:       maxTokens,
		MaxMessageRunes: defaultChatMaxRunes,
	}
}

// Relay runs one chat turn and returns the bot reply. It returns
// ErrInvalidMessage, storing nothing, when the message is missing, not a
// string, blank or too long.
func (s *ChatService) Relay(ctx context.Context, in ChatInput) (string, error) {
	userID := strings.TrimSpace(in.UserID)
	if userID == "" {
		userID = anonymousChatUser
	}
	if utf8.RuneCountInString(userID) > maxChatUserIDRunes {
		userID = string([]rune(userID)[:maxChatUserIDRunes])
	}

	ctx, span := otel.Tracer("services/ChatService").Start(ctx, "Relay",
		trace.WithAttributes(attribute.String("user.id", userID)),
	)
	defer span.End()

	msg, ok := chatText(in.Message)
	if !ok || (s.MaxMessageRunes > 0 && utf8.RuneCountInString(msg) > s.MaxMessageRunes) {
		return "", ErrInvalidMessage
	}

	userRow, err := repo.CreateChatMessage(ctx, s.DB, userID, domain.SenderUser, msg)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "insert user message")
		return "", err
	}

	reply, err := s.Completer.Complete(ctx, msg, s.MaxTokens)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "completion")
		s.rollback(ctx, userRow.ID)
		return "", err
	}

	if _, err := repo.CreateChatMessage(ctx, s.DB, userID, domain.SenderBot, reply); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "insert bot message")
		s.rollback(ctx, userRow.ID)
		return "", err
	}
	return reply, nil
}

// History returns the stored turns of userID in conversation order.
func (s *ChatService) History(ctx context.Context, userID string, limit int) ([]domain.ChatMessage, error) {
	ctx, span := otel.Tracer("services/ChatService").Start(ctx, "History",
		trace.WithAttributes(attribute.String("user.id", userID), attribute.Int("limit", limit)),
	)
	defer span.End()

	return repo.ListChatMessages(ctx, s.DB, userID, limit)
}

// rollback deletes the user half of a failed turn. It runs even when the
// request context is already canceled.
func (s *ChatService) rollback(ctx context.Context, id string) {
	if err := repo.DeleteChatMessage(context.WithoutCancel(ctx), s.DB, id); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Str("message_id", id).Msg("chat rollback failed")
	}
}

// chatText decodes a JSON string and trims it. Any other JSON type, or a
// blank string, is rejected.
func chatText(raw json.RawMessage) (string, bool) {
	if len(raw) == 0 {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	s = strings.TrimSpace(s)
	return s, s != ""
}
