package extract

import (
	"strings"

	"github.com/edumorph/edumorph/internal/domain"
	"github.com/ledongthuc/pdf"
)

// extractPDF pulls the text layer from each page of a PDF file in page
// order. Pages without a readable text layer are skipped rather than
// failing the whole document.
func extractPDF(path string) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", domain.NewExtractionError(path, err)
	}
	defer f.Close()

	var sb strings.Builder
	total := r.NumPage()
	for i := 1; i <= total; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		sb.WriteString(text)
		sb.WriteString("\n")
	}

	return strings.TrimSpace(sb.String()), nil
}
