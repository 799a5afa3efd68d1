package strategy

import (
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/joseph-ayodele/invoice-extractor/internal/money"
)

// dateLayout is the day-first form every strategy emits.
const dateLayout = "02/01/2006"

var reSpaces = regexp.MustCompile(`\s+`)

// firstGroup returns capture group 1 of the first match.
func firstGroup(re *regexp.Regexp, text string) (string, bool) {
	m := re.FindStringSubmatch(text)
	if len(m) < 2 {
		return "", false
	}
	return strings.TrimSpace(m[1]), true
}

// lastGroup returns capture group 1 of the last match.
func lastGroup(re *regexp.Regexp, text string) (string, bool) {
	all := re.FindAllStringSubmatch(text, -1)
	if len(all) == 0 || len(all[len(all)-1]) < 2 {
		return "", false
	}
	return strings.TrimSpace(all[len(all)-1][1]), true
}

// groups returns capture group n of every match.
func groups(re *regexp.Regexp, text string, n int) []string {
	var out []string
	for _, m := range re.FindAllStringSubmatch(text, -1) {
		if len(m) > n {
			out = append(out, m[n])
		}
	}
	return out
}

// reformatDate parses raw with the first layout that fits and renders it
// day-first. Runs of whitespace are collapsed before parsing.
func reformatDate(raw string, layouts ...string) (string, bool) {
	raw = reSpaces.ReplaceAllString(strings.TrimSpace(raw), " ")
	for _, layout := range layouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format(dateLayout), true
		}
	}
	return raw, false
}

// dateOr reformats raw, keeping raw itself when no layout fits.
func dateOr(raw string, layouts ...string) string {
	out, _ := reformatDate(raw, layouts...)
	return out
}

func amount(s string) (decimal.Decimal, bool) {
	return money.Parse(s)
}

// europeanAmount reads amounts that may use a decimal comma:
// "123,45" and "1.234,56" as well as "1,234.56".
func europeanAmount(s string) (decimal.Decimal, bool) {
	s = strings.ReplaceAll(strings.TrimSpace(s), " ", "")
	lastComma := strings.LastIndex(s, ",")
	lastDot := strings.LastIndex(s, ".")
	if lastComma > lastDot {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	}
	return money.Parse(s)
}

// largestAmount is the last-resort pick: the biggest parseable candidate.
func largestAmount(candidates []string) (decimal.Decimal, bool) {
	var ds []decimal.Decimal
	for _, c := range candidates {
		if d, ok := amount(c); ok {
			ds = append(ds, d)
		}
	}
	return money.Max(ds)
}

func sumAmounts(candidates []string) (decimal.Decimal, bool) {
	sum, found := decimal.Zero, false
	for _, c := range candidates {
		if d, ok := amount(c); ok {
			sum = sum.Add(d)
			found = true
		}
	}
	return sum, found
}

// lineAfter returns the first non-blank line following the first line that
// contains marker (case-insensitive).
func lineAfter(text, marker string) (string, bool) {
	lines := strings.Split(text, "\n")
	marker = strings.ToLower(marker)
	for i, line := range lines {
		if !strings.Contains(strings.ToLower(line), marker) {
			continue
		}
		for _, next := range lines[i+1:] {
			if next = strings.TrimSpace(next); next != "" {
				return next, true
			}
		}
		return "", false
	}
	return "", false
}
