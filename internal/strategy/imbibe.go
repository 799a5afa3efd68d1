package strategy

import (
	"regexp"

	"github.com/joseph-ayodele/invoice-extractor/constants"
	"github.com/joseph-ayodele/invoice-extractor/internal/record"
)

var (
	reImbibeDate = regexp.MustCompile(`Date\s*(\d{2}/\d{2}/\d{4})`)
	// tried in order
	reImbibeTotals = []*regexp.Regexp{
		regexp.MustCompile(`(?mi)^TOTAL\s*€?([0-9.,]+)`),
		regexp.MustCompile(`(?i)AMOUNT:\s*€?([0-9.,]+)`),
		regexp.MustCompile(`(?m)^\s*€([0-9.,]+)\s*$`),
	}
)

func extractImbibe(text, filename string) record.Fields {
	f := record.NewFields(filename, "Imbibe")
	f[constants.KeyTaxFree] = true

	if raw, ok := firstGroup(reImbibeDate, text); ok {
		f[constants.KeyInvoiceDate] = raw
	}
	for _, re := range reImbibeTotals {
		raw, ok := firstGroup(re, text)
		if !ok {
			continue
		}
		if total, ok := amount(raw); ok {
			f.SetAmount(constants.KeyVAT0, total)
			break
		}
	}
	return f
}
