package strategy

import (
	"regexp"

	"github.com/joseph-ayodele/invoice-extractor/constants"
	"github.com/joseph-ayodele/invoice-extractor/internal/record"
)

var (
	reBreadDate = regexp.MustCompile(`Issue date:\s*(\d{4}-\d{2}-\d{2})`)
	// summary rows only: net, rate, vat, gross
	reBreadSummary = regexp.MustCompile(`(?:^|[^\d])(\d{1,6}[.,]\d{2})\s+(0|9|13\.5|23)\s+(\d{1,6}[.,]\d{2})\s+(\d{1,6}[.,]\d{2})`)
)

var breadRateKeys = map[string]string{
	"0":    constants.KeyVAT0,
	"9":    constants.KeyVAT9,
	"13.5": constants.KeyVAT135,
	"23":   constants.KeyVAT23,
}

func extractBreadelicious(text, filename string) record.Fields {
	f := record.NewFields(filename, "BreaDelicious")

	if raw, ok := firstGroup(reBreadDate, text); ok {
		f[constants.KeyInvoiceDate] = dateOr(raw, "2006-01-02")
	}
	for _, row := range reBreadSummary.FindAllStringSubmatch(text, -1) {
		if net, ok := europeanAmount(row[1]); ok {
			f.SetAmount(breadRateKeys[row[2]], net)
		}
	}
	return f
}
