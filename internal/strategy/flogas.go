package strategy

import (
	"regexp"
	"strings"

	"github.com/joseph-ayodele/invoice-extractor/constants"
	"github.com/joseph-ayodele/invoice-extractor/internal/record"
)

var (
	reFlogasDate   = regexp.MustCompile(`(\d{2}/\d{2}/\d{2,4}|\d{4}-\d{2}-\d{2})`)
	reFlogasAmount = regexp.MustCompile(`-?\d[\d,]*\.\d{2}`)
)

const flogasNetBillKey = "Net Bill"

// Flo Gas bills are read line by line. The 9% row carries the net base as
// its second amount. A negative net bill with no VAT row is a refund and goes
// to the 0% bucket as a credit note.
func extractFlogas(text, filename string) record.Fields {
	f := record.NewFields(filename, "Flo Gas")

	var netBill, vat9 string
	for _, line := range strings.Split(text, "\n") {
		if strings.Contains(line, "Date of issue") {
			if raw, ok := firstGroup(reFlogasDate, line); ok {
				f[constants.KeyInvoiceDate] = dateOr(raw, "2006-01-02", "02/01/2006", "02/01/06")
			}
		}
		if strings.Contains(line, "Net Bill for this period") {
			if m := reFlogasAmount.FindString(line); m != "" {
				netBill = m
			}
		}
		if strings.Contains(line, "VAT (R) 9.00%") {
			if vals := reFlogasAmount.FindAllString(line, -1); len(vals) >= 2 {
				vat9 = vals[1]
			}
		}
	}

	if vat9 != "" {
		if net, ok := amount(vat9); ok {
			f.SetAmount(constants.KeyVAT9, net)
		}
	}
	if netBill == "" {
		return f
	}

	bill, ok := amount(netBill)
	if !ok {
		return f
	}
	f.SetAmount(flogasNetBillKey, bill)

	noVAT := vat9 == "" || f.Amount(constants.KeyVAT9).IsZero()
	if bill.IsNegative() {
		f[constants.KeyCreditNote] = true
		if noVAT {
			f.SetAmount(constants.KeyVAT0, bill)
		}
	}
	f[constants.KeyTaxFree] = noVAT
	return f
}
