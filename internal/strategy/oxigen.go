package strategy

import (
	"regexp"

	"github.com/joseph-ayodele/invoice-extractor/constants"
	"github.com/joseph-ayodele/invoice-extractor/internal/record"
)

var (
	reOxigenDate = regexp.MustCompile(`\bDate\s+(\d{2}/\d{2}/\d{4})`)
	reOxigen135  = regexp.MustCompile(`13\.50%\s+€?([0-9]+\.[0-9]{2})`)
)

func extractOxigen(text, filename string) record.Fields {
	f := record.NewFields(filename, "Oxigen")

	if raw, ok := firstGroup(reOxigenDate, text); ok {
		f[constants.KeyInvoiceDate] = raw
	}
	if raw, ok := firstGroup(reOxigen135, text); ok {
		if net, ok := amount(raw); ok {
			f.SetAmount(constants.KeyVAT135, net)
		}
	}
	return f
}
