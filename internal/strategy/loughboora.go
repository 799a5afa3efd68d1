package strategy

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/invoice-extractor/constants"
	"github.com/joseph-ayodele/invoice-extractor/internal/record"
)

var (
	reLoughSubtotal = regexp.MustCompile(`SubTotal\s+([\d.]+)`)
	reLoughTotal    = regexp.MustCompile(`TOTAL\s+([\d.]+)`)
)

// Loughboora returns the spreadsheet strategy. Its input is the tab separated
// dump of the workbook, with date cells still as Excel serial numbers.
func Loughboora() Strategy {
	return textStrategy{supplier: constants.SupplierLoughboora, fn: extractLoughboora}
}

func extractLoughboora(text, filename string) record.Fields {
	f := record.NewFields(filename, "Lough Boora")
	f[constants.KeyTaxFree] = true

	raw, ok := firstGroup(reLoughTotal, text)
	if !ok {
		raw, ok = firstGroup(reLoughSubtotal, text)
	}
	if ok {
		if total, ok := amount(raw); ok {
			f.SetAmount(constants.KeyVAT0, total)
		}
	}

	if d, ok := loughbooraDate(text); ok {
		f[constants.KeyInvoiceDate] = d
	}
	return f
}

// loughbooraDate finds the first cell mentioning "date" whose right-hand
// neighbour is a serial number.
func loughbooraDate(text string) (string, bool) {
	for _, row := range strings.Split(text, "\n") {
		cells := strings.Split(row, "\t")
		for i := 0; i+1 < len(cells); i++ {
			if !strings.Contains(strings.ToLower(cells[i]), "date") {
				continue
			}
			serial, err := strconv.ParseFloat(strings.TrimSpace(cells[i+1]), 64)
			if err != nil {
				continue
			}
			t, err := excelize.ExcelDateToTime(serial, false)
			if err != nil {
				continue
			}
			return t.Format(dateLayout), true
		}
	}
	return "", false
}
