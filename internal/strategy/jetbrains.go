package strategy

import (
	"regexp"

	"github.com/joseph-ayodele/invoice-extractor/constants"
	"github.com/joseph-ayodele/invoice-extractor/internal/record"
)

var (
	reJetBrainsDate     = regexp.MustCompile(`Issue date:\s*(\d{2}\.\d{2}\.\d{4})`)
	reJetBrainsSubtotal = regexp.MustCompile(`Subtotal:\s*([0-9.,]+)\s*EUR`)
)

func extractJetBrains(text, filename string) record.Fields {
	f := record.NewFields(filename, "JetBrains")

	if raw, ok := firstGroup(reJetBrainsDate, text); ok {
		f[constants.KeyInvoiceDate] = dateOr(raw, "02.01.2006")
	}
	if raw, ok := firstGroup(reJetBrainsSubtotal, text); ok {
		if net, ok := amount(raw); ok {
			f.SetAmount(constants.KeyVAT23, net)
		}
	}
	return f
}
