package strategy

import (
	"regexp"

	"github.com/joseph-ayodele/invoice-extractor/constants"
	"github.com/joseph-ayodele/invoice-extractor/internal/record"
)

var (
	reOpenAIDate   = regexp.MustCompile(`(?i)Date of issue\s*([A-Za-z]+\s+\d{1,2},\s*\d{4})`)
	reOpenAITotal  = regexp.MustCompile(`Total\s*\$([0-9.,]+)`)
	reOpenAIAmount = regexp.MustCompile(`Amount due\s*\$([0-9.,]+)`)
)

// OpenAI invoices are reverse charged, so the whole amount is 0% rated.
func extractOpenAI(text, filename string) record.Fields {
	f := record.NewFields(filename, "OpenAI")
	f[constants.KeyTaxFree] = true

	if raw, ok := firstGroup(reOpenAIDate, text); ok {
		f[constants.KeyInvoiceDate] = dateOr(raw, "January 2, 2006", "January 2,2006")
	}

	raw, ok := firstGroup(reOpenAITotal, text)
	if !ok {
		raw, ok = firstGroup(reOpenAIAmount, text)
	}
	if ok {
		if total, ok := amount(raw); ok {
			f.SetAmount(constants.KeyVAT0, total)
		}
	}
	return f
}
