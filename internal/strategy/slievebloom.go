package strategy

import (
	"regexp"
	"strings"

	"github.com/joseph-ayodele/invoice-extractor/constants"
	"github.com/joseph-ayodele/invoice-extractor/internal/record"
)

var (
	reSlieveTotal = regexp.MustCompile(`\bTOTAL\s+([0-9]+\.[0-9]{2})`)
	reSlieveDate  = regexp.MustCompile(`\bDATE\s+(\d{2}-\d{2}-\d{4})`)
	// VAT @ 0%  <vat>  <net>
	reSlieveZero = regexp.MustCompile(`VAT @ 0%\s+[0-9]+\.[0-9]{2}\s+([0-9]+\.[0-9]{2})`)
)

func extractSlieveBloom(text, filename string) record.Fields {
	f := record.NewFields(filename, "Slieve Bloom Organics")
	f[constants.KeyTaxFree] = true

	if raw, ok := firstGroup(reSlieveDate, text); ok {
		f[constants.KeyInvoiceDate] = strings.ReplaceAll(raw, "-", "/")
	}
	if raw, ok := firstGroup(reSlieveZero, text); ok {
		if net, ok := amount(raw); ok {
			f.SetAmount(constants.KeyVAT0, net)
		}
	}

	f[constants.KeyTotal] = constants.NotFound
	if raw, ok := firstGroup(reSlieveTotal, text); ok {
		f[constants.KeyTotal] = raw
	}
	return f
}
