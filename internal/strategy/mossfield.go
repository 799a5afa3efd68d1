package strategy

import (
	"regexp"

	"github.com/joseph-ayodele/invoice-extractor/constants"
	"github.com/joseph-ayodele/invoice-extractor/internal/record"
)

var (
	reMossfieldDate   = regexp.MustCompile(`INVOICE DATE[:\s]*([0-9]{2}/[0-9]{2}/[0-9]{4})`)
	reMossfieldAmount = regexp.MustCompile(`\b(?:[0-9]{1,3}(?:,[0-9]{3})*|[0-9]+)\.[0-9]{2}\b`)
)

// Mossfield has no usable total label; the last amount on the page is the
// invoice total.
func extractMossfield(text, filename string) record.Fields {
	f := record.NewFields(filename, "Mossfield")
	f[constants.KeyTaxFree] = true

	if raw, ok := firstGroup(reMossfieldDate, text); ok {
		f[constants.KeyInvoiceDate] = raw
	}
	if all := reMossfieldAmount.FindAllString(text, -1); len(all) > 0 {
		if total, ok := amount(all[len(all)-1]); ok {
			f.SetAmount(constants.KeyVAT0, total)
		}
	}
	return f
}
