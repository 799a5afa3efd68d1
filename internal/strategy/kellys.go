package strategy

import (
	"regexp"

	"github.com/joseph-ayodele/invoice-extractor/constants"
	"github.com/joseph-ayodele/invoice-extractor/internal/record"
)

var (
	reKellysDate  = regexp.MustCompile(`Invoice Date[:\s]+(\d{2}/\d{2}/\d{4})`)
	reKellysNet23 = regexp.MustCompile(`\b23\.00\s+([0-9]+\.[0-9]{2})`)
)

func extractKellys(text, filename string) record.Fields {
	f := record.NewFields(filename, "Ce&Os Kellys")

	if raw, ok := firstGroup(reKellysDate, text); ok {
		f[constants.KeyInvoiceDate] = raw
	}
	if raw, ok := firstGroup(reKellysNet23, text); ok {
		if net, ok := amount(raw); ok {
			f.SetAmount(constants.KeyVAT23, net)
		}
	}
	return f
}
