package strategy

import (
	"regexp"

	"github.com/joseph-ayodele/invoice-extractor/constants"
	"github.com/joseph-ayodele/invoice-extractor/internal/record"
)

var (
	reLinodeDate  = regexp.MustCompile(`Invoice Date:\s*([0-9]{4}-[0-9]{2}-[0-9]{2})`)
	reLinodeTotal = regexp.MustCompile(`Total\s*\(USD\)\s*\$([0-9.,]+)`)
)

func extractLinode(text, filename string) record.Fields {
	f := record.NewFields(filename, "Linode Akamai")
	f[constants.KeyTaxFree] = true

	if raw, ok := firstGroup(reLinodeDate, text); ok {
		f[constants.KeyInvoiceDate] = dateOr(raw, "2006-01-02")
	}
	if raw, ok := firstGroup(reLinodeTotal, text); ok {
		if total, ok := amount(raw); ok {
			f.SetAmount(constants.KeyVAT0, total)
		}
	}
	return f
}
