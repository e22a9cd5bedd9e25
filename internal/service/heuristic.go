package service

import (
	"context"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// conceptPunctuation is trimmed from candidate concept words.
const conceptPunctuation = ".,!?;:"

// HeuristicBackend generates study bundles without any external model.
// It sits at the end of the chain: always available, never fails.
type HeuristicBackend struct{}

// NewHeuristicBackend creates the deterministic fallback backend.
// Parameters: none.
// Returns:
//   - *HeuristicBackend: backend instance.
func NewHeuristicBackend() *HeuristicBackend {
	return &HeuristicBackend{}
}

// Name identifies the backend in logs.
func (b *HeuristicBackend) Name() string { return "heuristic" }

// Available always reports true.
func (b *HeuristicBackend) Available() bool { return true }

// GenerateBundle produces a bundle from simple text statistics.
// Parameters:
//   - ctx: unused; present to satisfy the backend interface.
//   - subject: academic subject of the source material.
//   - text: extracted text to summarize.
//
// Returns:
//   - *StudyBundle: deterministic bundle.
//   - error: always nil.
func (b *HeuristicBackend) GenerateBundle(ctx context.Context, subject, text string) (*StudyBundle, error) {
	return heuristicBundle(subject, text), nil
}

// heuristicBundle builds the deterministic study bundle: long capitalized
// words become concepts, the opening sentences become the summary, and the
// notes are rendered from the template.
func heuristicBundle(subject, text string) *StudyBundle {
	keyWords := heuristicKeyConcepts(text)
	summary := heuristicSummary(subject, text)

	capped := keyWords
	if len(capped) > 5 {
		capped = capped[:5]
	}
	notes := renderStudyNotes(subject, summary, capped)

	concepts := capped
	if len(concepts) == 0 {
		concepts = placeholderConcepts(subject)
	}

	return &StudyBundle{
		Summary:     summary,
		KeyConcepts: concepts,
		Notes:       notes,
	}
}

// heuristicKeyConcepts extracts up to 8 candidate concepts: words longer
// than 5 characters after trimming punctuation, that start with an
// uppercase letter.
func heuristicKeyConcepts(text string) []string {
	var words []string
	for _, word := range strings.Fields(text) {
		stripped := strings.Trim(word, conceptPunctuation)
		if len(stripped) <= 5 {
			continue
		}
		r, _ := utf8.DecodeRuneInString(word)
		if !unicode.IsUpper(r) {
			continue
		}
		words = append(words, stripped)
		if len(words) == 8 {
			break
		}
	}
	return words
}

// heuristicSummary joins the first sentences longer than 20 characters,
// looking at the first three only. Falls back to a generic line when the
// text has no usable opening.
func heuristicSummary(subject, text string) string {
	sentences := strings.Split(text, ".")
	if len(sentences) > 3 {
		sentences = sentences[:3]
	}

	var first []string
	for _, s := range sentences {
		s = strings.TrimSpace(s)
		if len(s) > 20 {
			first = append(first, s)
		}
	}

	if len(first) == 0 {
		return fmt.Sprintf("This content covers important %s concepts and provides educational value.", subject)
	}
	return strings.Join(first, ". ")
}

// renderStudyNotes formats the notes section used by the offline backends.
func renderStudyNotes(subject, summary string, concepts []string) string {
	bullets := make([]string, 0, len(concepts))
	for _, c := range concepts {
		bullets = append(bullets, "• "+c)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "📚 %s Study Notes\n\n", titleCaser.String(subject))
	fmt.Fprintf(&b, "📖 Summary:\n%s\n\n", summary)
	b.WriteString("🔑 Key Concepts:\n" + strings.Join(bullets, "\n") + "\n\n")
	fmt.Fprintf(&b, "📝 Important Points:\n"+
		"• This content contains valuable information about %s\n"+
		"• Review the key concepts for better understanding\n"+
		"• Practice with the generated flashcards and questions", subject)
	return b.String()
}

// placeholderConcepts fills the concept list when extraction finds nothing.
func placeholderConcepts(subject string) []string {
	t := titleCaser.String(subject)
	return []string{t + " Concept 1", t + " Concept 2", t + " Concept 3"}
}
