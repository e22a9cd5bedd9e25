package service

import "strings"

// Section labels the model is instructed to emit.
const (
	labelSummary  = "SUMMARY:"
	labelConcepts = "KEY_CONCEPTS:"
	labelNotes    = "NOTES:"
)

// ParseStudyResponse parses the labeled three-section model response into a
// study bundle. The parser is tolerant: an unlabeled response becomes the
// notes wholesale, the summary falls back to a 200-character prefix, and
// missing concepts are replaced with subject placeholders. Only lines after
// a KEY_CONCEPTS: label accumulate into the concept list, one per line,
// until the next label.
// Parameters:
//   - response: raw model output.
//   - subject: academic subject, used for placeholder concepts.
//
// Returns:
//   - *StudyBundle: parsed bundle, never nil. Concepts are capped at 5.
func ParseStudyResponse(response, subject string) *StudyBundle {
	summary := ""
	var concepts []string
	notes := response

	section := ""
	for _, raw := range strings.Split(response, "\n") {
		line := strings.TrimSpace(raw)
		switch {
		case strings.HasPrefix(line, labelSummary):
			section = "summary"
			summary = strings.TrimSpace(strings.ReplaceAll(line, labelSummary, ""))
		case strings.HasPrefix(line, labelConcepts):
			section = "concepts"
			if rest := strings.TrimSpace(strings.ReplaceAll(line, labelConcepts, "")); rest != "" {
				concepts = append(concepts, rest)
			}
		case strings.HasPrefix(line, labelNotes):
			section = "notes"
			notes = strings.TrimSpace(strings.ReplaceAll(line, labelNotes, ""))
		case section == "concepts" && line != "":
			concepts = append(concepts, line)
		}
	}

	if summary == "" {
		if len(response) > 200 {
			summary = response[:200] + "..."
		} else {
			summary = response
		}
	}
	if len(concepts) == 0 {
		concepts = placeholderConcepts(subject)
	}
	if len(concepts) > 5 {
		concepts = concepts[:5]
	}

	return &StudyBundle{
		Summary:     summary,
		KeyConcepts: concepts,
		Notes:       notes,
	}
}
