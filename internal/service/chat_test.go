package service

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/edumorph/edumorph/internal/config"
	"github.com/edumorph/edumorph/internal/domain"
	"github.com/edumorph/edumorph/internal/repository"
	"github.com/google/uuid"
)

func TestChatService_UnavailableModelStillStoresExchange(t *testing.T) {
	db := testDB(t)
	chats := repository.NewChatRepository(db)
	svc := NewChatService(nil, chats, &config.ChatConfig{}, testLogger())
	ctx := context.Background()

	exchange, err := svc.Respond(ctx, "student-1", "What is gravity?", "", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if exchange.AIResponse != chatUnavailableReply {
		t.Errorf("expected unavailable reply, got %q", exchange.AIResponse)
	}
	if exchange.Context != "general" {
		t.Errorf("expected context to default to general, got %q", exchange.Context)
	}

	history, err := svc.History(ctx, "student-1", 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(history) != 1 {
		t.Fatalf("expected the exchange to be persisted, got %d records", len(history))
	}
	if history[0].UserMessage != "What is gravity?" {
		t.Errorf("unexpected stored message %q", history[0].UserMessage)
	}
}

func TestChatService_Validation(t *testing.T) {
	db := testDB(t)
	svc := NewChatService(nil, repository.NewChatRepository(db), &config.ChatConfig{}, testLogger())
	ctx := context.Background()

	tests := []struct {
		name    string
		userID  string
		message string
	}{
		{name: "empty message", userID: "u1", message: ""},
		{name: "whitespace message", userID: "u1", message: "   "},
		{name: "missing user", userID: "", message: "hello"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Respond(ctx, tt.userID, tt.message, "", "")

			var validationErr *domain.ValidationError
			if !errors.As(err, &validationErr) {
				t.Errorf("expected validation error, got %v", err)
			}
		})
	}
}

func TestChatService_ModelReply(t *testing.T) {
	db := testDB(t)
	llm := newTestLLM(t, completionWith("Gravity pulls objects toward each other."))
	svc := NewChatService(llm, repository.NewChatRepository(db), &config.ChatConfig{}, testLogger())

	exchange, err := svc.Respond(context.Background(), "student-1", "What is gravity?", "science", "teens")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if exchange.AIResponse != "Gravity pulls objects toward each other." {
		t.Errorf("unexpected reply %q", exchange.AIResponse)
	}
	if exchange.Context != "science" {
		t.Errorf("unexpected context %q", exchange.Context)
	}
}

func TestChatService_ModelErrorBecomesReplyText(t *testing.T) {
	db := testDB(t)
	llm := newTestLLM(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "overloaded", http.StatusServiceUnavailable)
	})
	svc := NewChatService(llm, repository.NewChatRepository(db), &config.ChatConfig{}, testLogger())
	ctx := context.Background()

	exchange, err := svc.Respond(ctx, "student-1", "What is gravity?", "", "")
	if err != nil {
		t.Fatalf("model failure should not fail the exchange, got %v", err)
	}

	if !strings.HasPrefix(exchange.AIResponse, "Error getting AI response:") {
		t.Errorf("expected error text reply, got %q", exchange.AIResponse)
	}

	history, err := svc.History(ctx, "student-1", 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(history) != 1 {
		t.Errorf("failed exchanges must still be persisted, got %d records", len(history))
	}
}

func TestChatService_HistoryNewestFirstAndCapped(t *testing.T) {
	db := testDB(t)
	chats := repository.NewChatRepository(db)
	svc := NewChatService(nil, chats, &config.ChatConfig{HistoryLimit: 10}, testLogger())
	ctx := context.Background()

	base := time.Now().Add(-3 * time.Hour)
	for i, msg := range []string{"first", "second", "third"} {
		err := chats.Create(ctx, &domain.ChatMessage{
			ID:          uuid.New().String(),
			UserID:      "student-1",
			UserMessage: msg,
			AIResponse:  "reply",
			Context:     "general",
			CreatedAt:   base.Add(time.Duration(i) * time.Hour),
		})
		if err != nil {
			t.Fatalf("failed to seed exchange: %v", err)
		}
	}

	history, err := svc.History(ctx, "student-1", 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(history) != 2 {
		t.Fatalf("expected limit to apply, got %d records", len(history))
	}
	if history[0].UserMessage != "third" || history[1].UserMessage != "second" {
		t.Errorf("expected newest first, got %q then %q", history[0].UserMessage, history[1].UserMessage)
	}
}

func TestChatService_HistoryRequiresUser(t *testing.T) {
	db := testDB(t)
	svc := NewChatService(nil, repository.NewChatRepository(db), &config.ChatConfig{}, testLogger())

	_, err := svc.History(context.Background(), "", 10)

	var validationErr *domain.ValidationError
	if !errors.As(err, &validationErr) {
		t.Errorf("expected validation error, got %v", err)
	}
}
