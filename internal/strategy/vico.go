package strategy

import (
	"regexp"

	"github.com/shopspring/decimal"

	"github.com/joseph-ayodele/invoice-extractor/constants"
	"github.com/joseph-ayodele/invoice-extractor/internal/money"
	"github.com/joseph-ayodele/invoice-extractor/internal/record"
)

var (
	reVicoSubtotal = regexp.MustCompile(`Subtotal\s+([0-9.]+)`)
	reVicoTotal    = regexp.MustCompile(`TOTAL(?:EUR)?\s+([0-9.]+)`)
	// printed tax lines, most specific first
	reVicoTaxLines = []*regexp.Regexp{
		regexp.MustCompile(`TOTAL STANDARD23%\s+([0-9.]+)`),
		regexp.MustCompile(`INCLUDES STANDARD23%\s+([0-9.]+)`),
	}
	reVicoTaxLoose = []*regexp.Regexp{
		regexp.MustCompile(`(?:VAT|STANDARD)\s*23%\s+([0-9.]+)`),
		regexp.MustCompile(`([0-9.]+)\s+(?:VAT|STANDARD)\s*23%`),
	}
)

const vicoVATAmountKey = "VAT_Amount"

var vicoTolerance = decimal.RequireFromString("0.01")

// Vico prints the 23% tax in several layouts. The subtotal is always the
// net base; the tax figure is cross-checked against TOTAL minus subtotal and
// kept as VAT_Amount.
func extractVico(text, filename string) record.Fields {
	f := record.NewFields(filename, "Vico")

	tax := vicoPrintedTax(text)

	sub, subOK := firstGroup(reVicoSubtotal, text)
	tot, totOK := firstGroup(reVicoTotal, text)
	if subOK && totOK {
		subtotal, ok1 := amount(sub)
		total, ok2 := amount(tot)
		if ok1 && ok2 {
			f.SetAmount(constants.KeyVAT23, subtotal.Abs())

			calculated := total.Sub(subtotal)
			switch {
			case tax.IsZero():
				tax = calculated
			case tax.Sub(calculated).Abs().GreaterThan(vicoTolerance) && calculated.Abs().GreaterThan(tax.Abs()):
				tax = calculated
			}
		}
	}
	f[vicoVATAmountKey] = money.Fixed(tax)

	if line, ok := lineAfter(text, "InvoiceDate"); ok {
		if d, ok := reformatDate(line, "2Jan2006"); ok {
			f[constants.KeyInvoiceDate] = d
		}
	}
	return f
}

func vicoPrintedTax(text string) decimal.Decimal {
	for _, re := range reVicoTaxLines {
		if raw, ok := firstGroup(re, text); ok {
			if d, ok := amount(raw); ok && !d.IsZero() {
				return d
			}
		}
	}
	for _, re := range reVicoTaxLoose {
		if raw, ok := lastGroup(re, text); ok {
			if d, ok := amount(raw); ok {
				return d
			}
		}
	}
	return decimal.Zero
}
