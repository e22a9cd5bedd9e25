package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/edumorph/edumorph/internal/config"
	"github.com/edumorph/edumorph/internal/domain"
	"github.com/edumorph/edumorph/internal/logger"
	"github.com/edumorph/edumorph/internal/prompts"
	"github.com/edumorph/edumorph/internal/repository"
	"github.com/google/uuid"
)

// chatUnavailableReply is returned when no model credentials are configured.
const chatUnavailableReply = "AI chat is currently unavailable. Please try again later."

// ChatService answers student questions through the tutor prompt and keeps
// per-user history. Model failures never fail the exchange: the error text
// becomes the stored reply.
type ChatService struct {
	llm          *OpenAIClient
	chats        *repository.ChatRepository
	historyLimit int
	maxTokens    int
	logger       *logger.Logger
}

// NewChatService creates the tutor chat service.
// Parameters:
//   - llm: chat model client; may be disabled.
//   - chats: chat history repository.
//   - cfg: chat configuration (token cap, history limit).
//   - log: logger for chat events.
//
// Returns:
//   - *ChatService: initialized service.
func NewChatService(llm *OpenAIClient, chats *repository.ChatRepository, cfg *config.ChatConfig, log *logger.Logger) *ChatService {
	historyLimit := cfg.HistoryLimit
	if historyLimit <= 0 {
		historyLimit = 50
	}
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 500
	}

	return &ChatService{
		llm:          llm,
		chats:        chats,
		historyLimit: historyLimit,
		maxTokens:    maxTokens,
		logger:       log,
	}
}

// log returns a logger from context if available, otherwise the service's own.
func (s *ChatService) log(ctx context.Context) *logger.Logger {
	if l := logger.FromContext(ctx); l != nil {
		return l
	}
	return s.logger
}

// Respond answers one student message and stores the exchange.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - userID: asking user.
//   - message: student question; must be non-empty.
//   - chatContext: context label, e.g. a subject; empty means "general".
//   - ageGroup: student age group for the tutor prompt; empty means "student".
//
// Returns:
//   - *domain.ChatMessage: the stored exchange including the reply.
//   - error: validation error for bad input, persistence error on save failure.
func (s *ChatService) Respond(ctx context.Context, userID, message, chatContext, ageGroup string) (*domain.ChatMessage, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, domain.NewValidationError("message is required")
	}
	if userID == "" {
		return nil, domain.NewValidationError("user_id is required")
	}
	if chatContext == "" {
		chatContext = "general"
	}
	if ageGroup == "" {
		ageGroup = "student"
	}

	reply := s.reply(ctx, message, chatContext, ageGroup)

	exchange := &domain.ChatMessage{
		ID:          uuid.New().String(),
		UserID:      userID,
		UserMessage: message,
		AIResponse:  reply,
		Context:     chatContext,
		CreatedAt:   time.Now(),
	}
	if err := s.chats.Create(ctx, exchange); err != nil {
		return nil, domain.NewPersistenceError("save chat exchange", err)
	}

	logger.With(logger.Fields{
		"user_id": userID,
		"context": chatContext,
	}).WithSize(len(reply)).Debug(ctx, "Chat exchange stored")

	return exchange, nil
}

// reply produces the tutor answer, turning model failures into reply text.
func (s *ChatService) reply(ctx context.Context, message, chatContext, ageGroup string) string {
	if !s.llm.Enabled() {
		return chatUnavailableReply
	}

	system := fmt.Sprintf(prompts.TutorSystemPrompt, ageGroup, chatContext)
	reply, err := s.llm.Complete(ctx, system, message, s.maxTokens)
	if err != nil {
		s.log(ctx).WithError(err).Warn("Tutor reply failed")
		return fmt.Sprintf("Error getting AI response: %s", err)
	}
	return reply
}

// History retrieves a user's most recent exchanges, newest first.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - userID: owning user.
//   - limit: maximum exchanges to return; capped at the configured limit.
//
// Returns:
//   - []domain.ChatMessage: recent exchanges.
//   - error: validation error for missing user, persistence error on query failure.
func (s *ChatService) History(ctx context.Context, userID string, limit int) ([]domain.ChatMessage, error) {
	if userID == "" {
		return nil, domain.NewValidationError("user_id is required")
	}
	if limit <= 0 || limit > s.historyLimit {
		limit = s.historyLimit
	}

	messages, err := s.chats.ListRecentByUser(ctx, userID, limit)
	if err != nil {
		return nil, domain.NewPersistenceError("list chat history", err)
	}
	return messages, nil
}
