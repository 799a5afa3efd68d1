package strategy

import (
	"regexp"
	"strings"

	"github.com/joseph-ayodele/invoice-extractor/constants"
	"github.com/joseph-ayodele/invoice-extractor/internal/record"
)

var (
	reUdeaTotal = regexp.MustCompile(`(?i)Total including vat EUR\s+([\d.,]+)`)
	reUdeaDate  = regexp.MustCompile(`Invoice date\s*:\s*(\d{2}\.\d{2}\.\d{4})`)
)

// Udea invoices are zero rated; the VAT-inclusive total is the 0% base.
func extractUdea(text, filename string) record.Fields {
	f := record.NewFields(filename, "Udea")
	f[constants.KeyTaxFree] = true

	if raw, ok := firstGroup(reUdeaDate, text); ok {
		f[constants.KeyInvoiceDate] = strings.ReplaceAll(raw, ".", "/")
	}
	if raw, ok := firstGroup(reUdeaTotal, text); ok {
		if total, ok := europeanAmount(raw); ok {
			f.SetAmount(constants.KeyVAT0, total)
		}
	}
	return f
}
