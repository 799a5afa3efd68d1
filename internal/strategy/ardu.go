package strategy

import (
	"regexp"

	"github.com/joseph-ayodele/invoice-extractor/constants"
	"github.com/joseph-ayodele/invoice-extractor/internal/record"
)

var (
	// some exports mangle the euro sign into "â‚¬"
	reArduTotal = regexp.MustCompile(`Total:\s*(?:€|â‚¬)?\s*([0-9]+(?:[.,][0-9]{2}))`)
	reArduDate  = regexp.MustCompile(`Invoice Date\s+(\d{2}/\d{2}/\d{2})\b`)
)

func extractArdu(text, filename string) record.Fields {
	f := record.NewFields(filename, "Ardu Bakery")
	f[constants.KeyTaxFree] = true

	if raw, ok := firstGroup(reArduDate, text); ok {
		f[constants.KeyInvoiceDate] = dateOr(raw, "02/01/06")
	}
	if raw, ok := firstGroup(reArduTotal, text); ok {
		if total, ok := europeanAmount(raw); ok {
			f.SetAmount(constants.KeyVAT0, total)
		}
	}
	return f
}
