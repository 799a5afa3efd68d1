package strategy

import (
	"regexp"

	"github.com/joseph-ayodele/invoice-extractor/constants"
	"github.com/joseph-ayodele/invoice-extractor/internal/record"
)

var (
	reGarryhinchDate = regexp.MustCompile(`(?i)\bDate:?\s*(\d{2}/\d{2}/\d{4})`)
	// VAT summary row: 23% followed by the net base
	reGarryhinchNet23 = regexp.MustCompile(`(?i)\b23(?:\.00)?\s*%\s+(?:net\s+)?€?\s*([\d,]+\.\d{2})`)
	reGarryhinchTotal = regexp.MustCompile(`(?i)\bTotal\b[^\n\d€]*€?\s*([\d,]+\.\d{2})`)
	reGarryhinchEuro  = regexp.MustCompile(`€\s*([\d,]+\.\d{2})`)
)

// Garryhinch timber invoices are either standard rated with a 23% summary
// row or carry a single total. The largest euro amount is the last resort.
func extractGarryhinch(text, filename string) record.Fields {
	f := record.NewFields(filename, "Garryhinch Wood Exotics")

	if raw, ok := firstGroup(reGarryhinchDate, text); ok {
		f[constants.KeyInvoiceDate] = raw
	}

	if raw, ok := firstGroup(reGarryhinchNet23, text); ok {
		if net, ok := amount(raw); ok {
			f.SetAmount(constants.KeyVAT23, net)
			return f
		}
	}

	if raw, ok := lastGroup(reGarryhinchTotal, text); ok {
		if total, ok := amount(raw); ok {
			f.SetAmount(constants.KeyVAT0, total)
			return f
		}
	}
	if total, ok := largestAmount(groups(reGarryhinchEuro, text, 1)); ok {
		f.SetAmount(constants.KeyVAT0, total)
	}
	return f
}
