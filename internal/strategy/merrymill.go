package strategy

import (
	"regexp"
	"strings"

	"github.com/joseph-ayodele/invoice-extractor/constants"
	"github.com/joseph-ayodele/invoice-extractor/internal/record"
)

var (
	reMerryDateLead = regexp.MustCompile(`^\d{2}/\d{2}/\d{4}`)
	reMerryNet      = regexp.MustCompile(`Net\s+(\d+\.\d+)`)
	reMerryTotal    = regexp.MustCompile(`TOTAL €\s*(\d+\.\d+)`)
)

// Merry Mill is scanned line by line; later lines win.
func extractMerryMill(text, filename string) record.Fields {
	f := record.NewFields(filename, "Merry Mill")

	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if d := reMerryDateLead.FindString(trimmed); d != "" {
			f[constants.KeyInvoiceDate] = d
		}

		if strings.Contains(line, "No VAT") || strings.Contains(line, "VAT Rate") {
			if raw, ok := firstGroup(reMerryNet, line); ok {
				if net, ok := amount(raw); ok {
					f.SetAmount(constants.KeyVAT0, net)
				}
			}
		}

		if strings.Contains(line, "TOTAL €") {
			if raw, ok := firstGroup(reMerryTotal, line); ok {
				f[constants.KeyTotal] = raw
				f[constants.KeyTaxFree] = true
			}
		}
	}
	return f
}
