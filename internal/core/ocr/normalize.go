package ocr

import (
	"regexp"
	"strings"
)

var reCRLF = regexp.MustCompile(`\r\n?`)

// cleanText unifies line endings and drops NUL bytes some producers emit.
// Spacing inside lines is kept as-is since supplier patterns depend on it.
func cleanText(s string) string {
	if s == "" {
		return s
	}
	s = reCRLF.ReplaceAllString(s, "\n")
	return strings.ReplaceAll(s, "\x00", "")
}

// joinPages turns pdftotext's form-feed page separators into newlines and
// reports how many pages were seen.
func joinPages(s string) (string, int) {
	s = cleanText(s)
	pages := strings.Count(s, "\f")
	if !strings.HasSuffix(s, "\f") {
		pages++
	}
	s = strings.TrimSuffix(s, "\f")
	return strings.ReplaceAll(s, "\f", "\n"), pages
}
