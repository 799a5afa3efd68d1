package strategy

import (
	"regexp"

	"github.com/joseph-ayodele/invoice-extractor/constants"
	"github.com/joseph-ayodele/invoice-extractor/internal/record"
)

var (
	reKleeDate    = regexp.MustCompile(`Invoice Date\s+(\d{4}-\d{2}-\d{2})`)
	reKleeSummary = regexp.MustCompile(`(?s)VAT Summary.*?(\d+\.\d{2})\s+23\.00\s+(\d+\.\d{2})`)
	reKleeNett    = regexp.MustCompile(`Nett\s+(\d+\.\d{2})`)
)

// Klee Paper: the Nett line wins over the VAT summary row when both exist.
func extractKleePaper(text, filename string) record.Fields {
	f := record.NewFields(filename, "Klee Paper")

	if raw, ok := firstGroup(reKleeDate, text); ok {
		f[constants.KeyInvoiceDate] = dateOr(raw, "2006-01-02")
	}

	raw, ok := firstGroup(reKleeNett, text)
	if !ok {
		raw, ok = firstGroup(reKleeSummary, text)
	}
	if ok {
		if net, ok := amount(raw); ok {
			f.SetAmount(constants.KeyVAT23, net)
		}
	}
	return f
}
