package strategy

import (
	"regexp"

	"github.com/joseph-ayodele/invoice-extractor/constants"
	"github.com/joseph-ayodele/invoice-extractor/internal/record"
)

var (
	// OCR output puts the rate first on the line.
	reIndependentRateRows = regexp.MustCompile(`(?m)^(0\.00|9\.00|13\.50|23\.00)\s+([0-9.,]+)`)
	// The text layer has a quantity column in front: qty rate net vat.
	reIndependentQtyRows = regexp.MustCompile(`(?m)^\s*\d+\s+(0\.00|9\.00|13\.50|23\.00)\s+([0-9.,]+)\s+[0-9.,]+`)
	reIndependentDate    = regexp.MustCompile(`Invoice Date[:\s]*([0-9]{2}/[0-9]{2}/[0-9]{4})`)
)

var independentRateKeys = map[string]string{
	"0.00":  constants.KeyVAT0,
	"9.00":  constants.KeyVAT9,
	"13.50": constants.KeyVAT135,
	"23.00": constants.KeyVAT23,
}

func extractIndependent(text, filename string) record.Fields {
	f := record.NewFields(filename, "Independent")

	rows := reIndependentRateRows.FindAllStringSubmatch(text, -1)
	if len(rows) == 0 {
		rows = reIndependentQtyRows.FindAllStringSubmatch(text, -1)
	}
	for _, row := range rows {
		if net, ok := amount(row[2]); ok {
			f.SetAmount(independentRateKeys[row[1]], net)
		}
	}

	if raw, ok := firstGroup(reIndependentDate, text); ok {
		f[constants.KeyInvoiceDate] = raw
	}
	return f
}
