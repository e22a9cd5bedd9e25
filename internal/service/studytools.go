package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/edumorph/edumorph/internal/domain"
	"github.com/edumorph/edumorph/internal/prompts"
)

// studyToolMaxTokens caps completions for flashcard and question requests.
const studyToolMaxTokens = 300

// Bounds on derived artifacts per content item.
const (
	maxFlashcards = 5
	maxQuestions  = 3
)

// FlashcardDraft is one generated term/definition pair before persistence.
type FlashcardDraft struct {
	Term       string `json:"term"`
	Definition string `json:"definition"`
	Context    string `json:"context,omitempty"`
	Example    string `json:"example,omitempty"`
}

// QuestionDraft is one generated quiz question before persistence.
type QuestionDraft struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
	Type     string `json:"type"`
}

// Flashcards builds up to 5 flashcard drafts for the given content.
// The model is asked first when configured; malformed or failed responses
// fall back to deterministic concept cards. Never returns an error.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - text: extracted source text.
//   - concepts: key concepts from the study bundle.
//
// Returns:
//   - []FlashcardDraft: at most 5 drafts; may be empty.
func (g *ContentGenerator) Flashcards(ctx context.Context, text string, concepts []string) []FlashcardDraft {
	if g.llm.Enabled() {
		response, err := g.llm.Complete(ctx, prompts.FlashcardSystemPrompt, studyToolPrompt(text, concepts), studyToolMaxTokens)
		if err == nil {
			if drafts, ok := parseFlashcardJSON(response); ok {
				if len(drafts) > maxFlashcards {
					drafts = drafts[:maxFlashcards]
				}
				return drafts
			}
			g.log(ctx).Warn("Flashcard response was not a JSON array, using basic cards")
		} else {
			g.log(ctx).WithError(err).Warn("Flashcard generation failed, using basic cards")
		}
	}
	return basicFlashcards(concepts)
}

// Questions builds up to 3 question drafts for the given content.
// The model is asked first when configured; malformed or failed responses
// fall back to deterministic concept questions. Never returns an error.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - text: extracted source text.
//   - concepts: key concepts from the study bundle.
//
// Returns:
//   - []QuestionDraft: at most 3 drafts; may be empty.
func (g *ContentGenerator) Questions(ctx context.Context, text string, concepts []string) []QuestionDraft {
	if g.llm.Enabled() {
		response, err := g.llm.Complete(ctx, prompts.QuestionSystemPrompt, studyToolPrompt(text, concepts), studyToolMaxTokens)
		if err == nil {
			if drafts, ok := parseQuestionJSON(response); ok {
				if len(drafts) > maxQuestions {
					drafts = drafts[:maxQuestions]
				}
				return drafts
			}
			g.log(ctx).Warn("Question response was not a JSON array, using basic questions")
		} else {
			g.log(ctx).WithError(err).Warn("Question generation failed, using basic questions")
		}
	}
	return basicQuestions(concepts)
}

// studyToolPrompt renders the shared user prompt for both tools.
func studyToolPrompt(text string, concepts []string) string {
	snippet := text
	if len(snippet) > maxPromptContentChars {
		snippet = snippet[:maxPromptContentChars]
	}
	return fmt.Sprintf(prompts.StudyToolsUserPrompt, snippet, strings.Join(concepts, ", "))
}

// stripJSONFences removes markdown code fences models wrap JSON in.
func stripJSONFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// parseFlashcardJSON decodes a model response into flashcard drafts.
// A bare array is tried first, then the first [...] span in the text.
func parseFlashcardJSON(response string) ([]FlashcardDraft, bool) {
	raw := stripJSONFences(response)

	var drafts []FlashcardDraft
	if err := json.Unmarshal([]byte(raw), &drafts); err == nil {
		return drafts, true
	}

	start := strings.Index(raw, "[")
	end := strings.LastIndex(raw, "]")
	if start >= 0 && end > start {
		if err := json.Unmarshal([]byte(raw[start:end+1]), &drafts); err == nil {
			return drafts, true
		}
	}
	return nil, false
}

// parseQuestionJSON decodes a model response into question drafts.
func parseQuestionJSON(response string) ([]QuestionDraft, bool) {
	raw := stripJSONFences(response)

	var drafts []QuestionDraft
	if err := json.Unmarshal([]byte(raw), &drafts); err == nil {
		return drafts, true
	}

	start := strings.Index(raw, "[")
	end := strings.LastIndex(raw, "]")
	if start >= 0 && end > start {
		if err := json.Unmarshal([]byte(raw[start:end+1]), &drafts); err == nil {
			return drafts, true
		}
	}
	return nil, false
}

// basicFlashcards builds one card per concept, first five concepts only.
func basicFlashcards(concepts []string) []FlashcardDraft {
	if len(concepts) > maxFlashcards {
		concepts = concepts[:maxFlashcards]
	}

	var drafts []FlashcardDraft
	for _, concept := range concepts {
		concept = strings.TrimSpace(concept)
		if concept == "" {
			continue
		}
		drafts = append(drafts, FlashcardDraft{
			Term:       concept,
			Definition: fmt.Sprintf("Definition related to %s from the content.", concept),
		})
	}
	return drafts
}

// basicQuestions builds one question per concept, first three concepts only.
func basicQuestions(concepts []string) []QuestionDraft {
	if len(concepts) > maxQuestions {
		concepts = concepts[:maxQuestions]
	}

	var drafts []QuestionDraft
	for _, concept := range concepts {
		concept = strings.TrimSpace(concept)
		if concept == "" {
			continue
		}
		drafts = append(drafts, QuestionDraft{
			Question: fmt.Sprintf("What is %s?", concept),
			Answer:   fmt.Sprintf("Answer related to %s from the content.", concept),
			Type:     string(domain.QuestionMultipleChoice),
		})
	}
	return drafts
}
