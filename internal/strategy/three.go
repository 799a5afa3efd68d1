package strategy

import (
	"regexp"

	"github.com/joseph-ayodele/invoice-extractor/constants"
	"github.com/joseph-ayodele/invoice-extractor/internal/record"
)

var (
	reThreeDate = regexp.MustCompile(`\d{2}\s+\w+\s+\d{2,4}`)
	reThreeVAT  = regexp.MustCompile(`VAT at\s*([0-9]+(?:\.[0-9]+)?)%\s*on\s*€?([0-9.,]+)`)
)

var threeRateKeys = map[string]string{
	"0":    constants.KeyVAT0,
	"9":    constants.KeyVAT9,
	"13.5": constants.KeyVAT135,
	"23":   constants.KeyVAT23,
}

// Three prints the bill date on the line after its label, often next to the
// billing period; the last date on that line is the one we want.
func extractThree(text, filename string) record.Fields {
	f := record.NewFields(filename, "Three")

	if line, ok := lineAfter(text, "bill date"); ok {
		if dates := reThreeDate.FindAllString(line, -1); len(dates) > 0 {
			f[constants.KeyInvoiceDate] = dateOr(dates[len(dates)-1],
				"02 Jan 06", "02 Jan 2006", "02 January 06", "02 January 2006")
		}
	}

	m := reThreeVAT.FindStringSubmatch(text)
	if len(m) == 3 {
		if key, ok := threeRateKeys[m[1]]; ok {
			if net, ok := amount(m[2]); ok {
				f.SetAmount(key, net)
			}
		}
	}
	return f
}
