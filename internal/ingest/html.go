package ingest

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// textFromDescription reduces an HTML job description to its visible text so
// markup never reaches the matcher. Plain text passes through untouched, and
// a description that fails to parse is used as-is rather than dropped.
func textFromDescription(description string) string {
	if !strings.Contains(description, "<") || !strings.Contains(description, ">") {
		return description
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(description))
	if err != nil {
		return description
	}

	// Script and style bodies are markup payload, not posting text.
	doc.Find("script, style").Remove()

	return doc.Text()
}
