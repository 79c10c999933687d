package services

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/tbourn/go-booking-backend/internal/domain"
)

func newChatSvc(t *testing.T, c *fakeCompleter) *ChatService {
	t.Helper()
	return NewChatService(newSvcDB(t), c, 0)
}

func chatMsg(s string) json.RawMessage {
	b, _ := json.Marshal(s)
	return b
}

func TestRelay_StoresBothRowsInOrder(t *testing.T) {
	c := &fakeCompleter{reply: "Il check-in è dalle 15:00."}
	s := newChatSvc(t, c)

	reply, err := s.Relay(context.Background(), ChatInput{UserID: "u1", Message: chatMsg("  A che ora è il check-in? ")})
	if err != nil {
		t.Fatalf("relay: %v", err)
	}
	if reply != c.reply {
		t.Fatalf("reply=%q", reply)
	}
	if c.budget != defaultChatMaxTokens || c.prompts[0] != "A che ora è il check-in?" {
		t.Fatalf("completer got budget=%d prompt=%q", c.budget, c.prompts[0])
	}

	hist, err := s.History(context.Background(), "u1", 0)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(hist) != 2 || hist[0].Sender != domain.SenderUser || hist[1].Sender != domain.SenderBot {
		t.Fatalf("history=%+v", hist)
	}
}

func TestRelay_InvalidMessagePersistsNothing(t *testing.T) {
	for _, raw := range []string{``, `null`, `""`, `"   "`, `42`, `{"text":"hi"}`, `["hi"]`} {
		c := &fakeCompleter{reply: "x"}
		s := newChatSvc(t, c)

		_, err := s.Relay(context.Background(), ChatInput{UserID: "u1", Message: json.RawMessage(raw)})
		if !errors.Is(err, ErrInvalidMessage) {
			t.Fatalf("%q: expected ErrInvalidMessage, got %v", raw, err)
		}
		if n := countRows(t, s.DB, &domain.ChatMessage{}); n != 0 {
			t.Fatalf("%q: rows=%d", raw, n)
		}
		if len(c.prompts) != 0 {
			t.Fatalf("%q: completer must not be called", raw)
		}
	}
}

func TestRelay_TooLong(t *testing.T) {
	s := newChatSvc(t, &fakeCompleter{reply: "x"})
	s.MaxMessageRunes = 5
	if _, err := s.Relay(context.Background(), ChatInput{Message: chatMsg("abcdef")}); !errors.Is(err, ErrInvalidMessage) {
		t.Fatalf("expected ErrInvalidMessage, got %v", err)
	}
}

func TestRelay_CompletionFailureRollsBack(t *testing.T) {
	boom := errors.New("rate limited")
	s := newChatSvc(t, &fakeCompleter{err: boom})

	_, err := s.Relay(context.Background(), ChatInput{UserID: "u1", Message: chatMsg("ciao")})
	if !errors.Is(err, boom) {
		t.Fatalf("expected completion error, got %v", err)
	}
	if n := countRows(t, s.DB, &domain.ChatMessage{}); n != 0 {
		t.Fatalf("rows=%d want 0", n)
	}
}

func TestRelay_UserInsertFailureSkipsCompletion(t *testing.T) {
	c := &fakeCompleter{reply: "x"}
	s := newChatSvc(t, c)
	if err := s.DB.Migrator().DropTable(&domain.ChatMessage{}); err != nil {
		t.Fatalf("drop: %v", err)
	}

	if _, err := s.Relay(context.Background(), ChatInput{UserID: "u1", Message: chatMsg("ciao")}); err == nil {
		t.Fatalf("expected insert error")
	}
	if len(c.prompts) != 0 {
		t.Fatalf("completer must not be called")
	}
}

func TestRelay_AnonymousAndClippedUser(t *testing.T) {
	s := newChatSvc(t, &fakeCompleter{reply: "ok"})
	if _, err := s.Relay(context.Background(), ChatInput{Message: chatMsg("hi")}); err != nil {
		t.Fatalf("relay: %v", err)
	}
	long := strings.Repeat("u", 100)
	if _, err := s.Relay(context.Background(), ChatInput{UserID: long, Message: chatMsg("hi")}); err != nil {
		t.Fatalf("relay: %v", err)
	}

	anon, _ := s.History(context.Background(), anonymousChatUser, 0)
	clipped, _ := s.History(context.Background(), long[:maxChatUserIDRunes], 0)
	if len(anon) != 2 || len(clipped) != 2 {
		t.Fatalf("anon=%d clipped=%d", len(anon), len(clipped))
	}
}
