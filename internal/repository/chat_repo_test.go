package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/edumorph/edumorph/internal/domain"
)

func TestChatListRecentByUser(t *testing.T) {
	repo := NewChatRepository(newTestDB(t))
	ctx := context.Background()

	base := time.Now().Add(-time.Hour)
	for i := 1; i <= 3; i++ {
		err := repo.Create(ctx, &domain.ChatMessage{
			ID:          fmt.Sprintf("msg-%d", i),
			UserID:      "student-1",
			UserMessage: fmt.Sprintf("question %d", i),
			AIResponse:  "answer",
			CreatedAt:   base.Add(time.Duration(i) * time.Minute),
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	err := repo.Create(ctx, &domain.ChatMessage{
		ID: "msg-other", UserID: "student-2", UserMessage: "hello", CreatedAt: base,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	messages, err := repo.ListRecentByUser(ctx, "student-1", 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(messages))
	}
	if messages[0].UserMessage != "question 3" || messages[1].UserMessage != "question 2" {
		t.Errorf("expected newest exchanges first, got %+v", messages)
	}

	count, err := repo.Count(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 4 {
		t.Errorf("expected 4 messages total, got %d", count)
	}
}
