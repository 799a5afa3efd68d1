package strategy

import (
	"regexp"

	"github.com/joseph-ayodele/invoice-extractor/constants"
	"github.com/joseph-ayodele/invoice-extractor/internal/record"
)

var (
	reDODate  = regexp.MustCompile(`Date of issue:\s*(\w+\s+\d{1,2},\s*\d{4})`)
	reDOTotal = regexp.MustCompile(`Total due\s*\$([0-9.,]+)`)
)

func extractDigitalOcean(text, filename string) record.Fields {
	f := record.NewFields(filename, "DigitalOcean")
	f[constants.KeyTaxFree] = true

	if raw, ok := firstGroup(reDODate, text); ok {
		f[constants.KeyInvoiceDate] = dateOr(raw, "January 2, 2006", "January 2,2006")
	}
	if raw, ok := firstGroup(reDOTotal, text); ok {
		if total, ok := amount(raw); ok {
			f.SetAmount(constants.KeyVAT0, total)
		}
	}
	return f
}
