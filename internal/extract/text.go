package extract

import (
	"errors"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/edumorph/edumorph/internal/domain"
)

// extractTextFile reads a plain-text or markdown file verbatim. The bytes
// must decode as UTF-8; markdown markup is kept as-is.
func extractTextFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", domain.NewExtractionError(path, err)
	}
	if !utf8.Valid(data) {
		return "", domain.NewExtractionError(path, errors.New("file is not valid UTF-8 text"))
	}
	return strings.TrimSpace(string(data)), nil
}
