package strategy

import (
	"regexp"
	"strings"

	"github.com/joseph-ayodele/invoice-extractor/constants"
	"github.com/joseph-ayodele/invoice-extractor/internal/record"
)

var (
	reDynamisNet      = regexp.MustCompile(`NET A PAYER\s*\|?EUR?\s*(-?[0-9\s]+[.,][0-9]+)`)
	reDynamisDate     = regexp.MustCompile(`FACTURE.*?(\d{2}/\d{2}/\d{2,4})`)
	reDynamisDelivery = regexp.MustCompile(`Livraison\s*:\s*(\d{2}/\d{2}/\d{2,4})`)
)

// Dynamis bills in French. An AVOIR is a credit note and its amount is
// always negative.
func extractDynamis(text, filename string) record.Fields {
	upper := strings.ToUpper(text)
	credit := strings.Contains(upper, "AVOIR")

	f := record.NewFields(filename, "Dynamis")
	f[constants.KeyCreditNote] = credit
	f[constants.KeyTaxFree] = strings.Contains(upper, "EXONERATION DE TVA")

	if raw, ok := firstGroup(reDynamisNet, text); ok {
		if net, ok := europeanAmount(strings.Join(strings.Fields(raw), "")); ok {
			if credit && net.IsPositive() {
				net = net.Neg()
			}
			f.SetAmount(constants.KeyVAT0, net)
		}
	}

	raw, ok := firstGroup(reDynamisDate, text)
	if !ok {
		raw, ok = firstGroup(reDynamisDelivery, text)
	}
	if ok {
		f[constants.KeyInvoiceDate] = dateOr(raw, "02/01/06", "02/01/2006")
	}
	return f
}
