package strategy

import (
	"regexp"
	"strings"

	"github.com/joseph-ayodele/invoice-extractor/constants"
	"github.com/joseph-ayodele/invoice-extractor/internal/record"
)

var (
	reOldyardNumber = regexp.MustCompile(`INVOICE\s+NO\.\s*(\d+)`)
	reOldyardDate   = regexp.MustCompile(`(\d{2}-\d{2}-\d{4})`)
	reOldyardTotal  = regexp.MustCompile(`Total\s+€\s*([0-9]+(?:[.,][0-9]{2})?)`)
	reOldyardTrays  = regexp.MustCompile(`Wk of\s+\d{2}/\d{2}\s*-\s*\d+\s*trays?\s*€\s*([0-9]+(?:[.,][0-9]{2})?)`)
)

func extractOldyard(text, filename string) record.Fields {
	f := record.NewFields(filename, "Oldyard Organics")
	f[constants.KeyTaxFree] = true
	f[constants.KeyInvoiceNumber] = constants.NotFound

	if raw, ok := firstGroup(reOldyardNumber, text); ok {
		f[constants.KeyInvoiceNumber] = raw
	}
	if raw, ok := firstGroup(reOldyardDate, text); ok {
		f[constants.KeyInvoiceDate] = strings.ReplaceAll(raw, "-", "/")
	}

	if raw, ok := firstGroup(reOldyardTotal, text); ok {
		if total, ok := europeanAmount(raw); ok {
			f.SetAmount(constants.KeyVAT0, total)
			return f
		}
	}
	var trays []string
	for _, t := range groups(reOldyardTrays, text, 1) {
		trays = append(trays, strings.ReplaceAll(t, ",", "."))
	}
	if sum, ok := sumAmounts(trays); ok {
		f.SetAmount(constants.KeyVAT0, sum)
	}
	return f
}
