package strategy

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/joseph-ayodele/invoice-extractor/constants"
	"github.com/joseph-ayodele/invoice-extractor/internal/money"
	"github.com/joseph-ayodele/invoice-extractor/internal/record"
)

// Extra keys emitted for Amazon. GBP_Total doubles as the foreign total
// override picked up by the normalizer.
const (
	amazonCurrency      = "Currency"
	amazonCurrencyNote  = "Currency Note"
	amazonEURVATFound   = "EUR_VAT_Found"
	amazonEURVATAmount  = "EUR_VAT_Amount"
	amazonEURTotalFound = "EUR_Total_Found"
	amazonGBPTotal      = "GBP_Total"
	amazonGBPVATAmount  = "GBP_VAT_Amount"
	amazonVATRate       = "VAT_Rate"
)

var (
	reAmazonDate   = regexp.MustCompile(`Invoice date.*?(\d{2}\.\d{2}\.\d{4})`)
	reAmazonNumber = regexp.MustCompile(`Invoice #\s*([A-Z0-9\-]+)`)

	// VAT table row: rate, net, vat
	reAmazonGBPTable = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)%\s+£([\d,]+\.?\d*)\s+£([\d,]+\.?\d*)`)
	reAmazonGBPRows  = regexp.MustCompile(`(?m)^\s*(\d+(?:\.\d+)?)%\s+£([\d,]+\.?\d*)\s+£([\d,]+\.?\d*)`)

	reAmazonEURVAT      = regexp.MustCompile(`(?i)(?:Estimated\s+VAT|VAT).*?EUR\s*([\d,]+\.?\d*)`)
	reAmazonEURAfterGBP = regexp.MustCompile(`£([\d,]+\.?\d*)[ \t]*\n\s*€([\d,]+\.?\d*)`)
	reAmazonEuro        = regexp.MustCompile(`€\s*([\d,]+\.?\d*)`)
	reAmazonEURTotal    = regexp.MustCompile(`(?i)(?:Grand\s+Total|Total).*?EUR\s*([\d,]+\.?\d*)`)

	reAmazonGBPTotals = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(?:Total payable|Invoice total|Total)\s+£([\d,]+\.?\d*)`),
		regexp.MustCompile(`(?i)Invoice total\s*\n\s*£([\d,]+\.?\d*)`),
		regexp.MustCompile(`(?i)(?:Total payable|Total)\s*\n\s*£([\d,]+\.?\d*)`),
	}
	reAmazonPound = regexp.MustCompile(`£([\d,]+\.?\d*)`)
)

var (
	amazonRate23     = decimal.RequireFromString("0.23")
	amazonCent       = decimal.RequireFromString("0.01")
	amazonVATMin     = decimal.RequireFromString("0.50")
	amazonVATMax     = decimal.RequireFromString("500")
	amazonEuroVATMin = decimal.RequireFromString("0.10")
	amazonEuroVATMax = decimal.RequireFromString("1000")
	amazonRate10     = decimal.NewFromInt(10)
	amazonRate15     = decimal.NewFromInt(15)
)

// amazonBuckets accumulates the UK rate table mapped onto Irish buckets.
type amazonBuckets struct {
	zero, reduced, standard decimal.Decimal
}

func (b amazonBuckets) sum() decimal.Decimal {
	return b.zero.Add(b.reduced).Add(b.standard)
}

// add maps 0 to 0%, 5 to 9% and 20 to 23%; any other rate goes to the
// nearest of those.
func (b *amazonBuckets) add(rate string, net decimal.Decimal) {
	r, err := decimal.NewFromString(rate)
	if err != nil {
		return
	}
	switch {
	case r.LessThan(amazonRate10) && !r.Equal(decimal.NewFromInt(5)):
		b.zero = b.zero.Add(net)
	case r.LessThan(amazonRate15):
		b.reduced = b.reduced.Add(net)
	default:
		b.standard = b.standard.Add(net)
	}
}

// Amazon EU invoices are priced in GBP but may state the VAT in EUR. A EUR
// VAT figure is preferred: the 23% base is derived from it and any remainder
// of the EUR total goes to 0%. Otherwise the GBP VAT table is used, and as a
// last resort the GBP total (or the largest £ amount) is taken as 0%.
func extractAmazon(text, filename string) record.Fields {
	f := record.NewFields(filename, "Amazon")
	f[constants.KeyInvoiceNumber] = constants.NotFound

	if raw, ok := firstGroup(reAmazonDate, text); ok {
		f[constants.KeyInvoiceDate] = strings.ReplaceAll(raw, ".", "/")
	}
	if raw, ok := firstGroup(reAmazonNumber, text); ok {
		f[constants.KeyInvoiceNumber] = raw
	}
	f[constants.KeyCreditNote] = strings.Contains(text, "Credit Note") || strings.Contains(text, "Refund")

	currency := money.GBP
	vatRate := "23%"
	gbpVAT := decimal.Zero
	if m := reAmazonGBPTable.FindStringSubmatch(text); len(m) == 4 {
		vatRate = m[1] + "%"
		if d, ok := amount(m[3]); ok {
			gbpVAT = d
		}
	}

	eurVAT, hasEURVAT := decimal.Zero, false
	if raw, ok := lastGroup(reAmazonEURVAT, text); ok {
		eurVAT, hasEURVAT = amount(raw)
	} else if m := reAmazonEURAfterGBP.FindStringSubmatch(text); len(m) == 3 {
		gbp, ok1 := amount(m[1])
		eur, ok2 := amount(m[2])
		if ok1 && ok2 && !gbp.LessThan(amazonVATMin) && !gbp.GreaterThan(amazonVATMax) {
			gbpVAT, eurVAT, hasEURVAT = gbp, eur, true
		}
	} else {
		euros := groups(reAmazonEuro, text, 1)
		for i := len(euros) - 1; i >= 0; i-- {
			d, ok := amount(euros[i])
			if ok && !d.LessThan(amazonEuroVATMin) && !d.GreaterThan(amazonEuroVATMax) {
				eurVAT, hasEURVAT = d, true
				break
			}
		}
	}
	if hasEURVAT {
		currency = money.EUR
	}

	eurTotal := decimal.Zero
	if raw, ok := lastGroup(reAmazonEURTotal, text); ok {
		if d, ok := amount(raw); ok {
			eurTotal = d
			currency = money.EUR
		}
	}

	var (
		buckets  amazonBuckets
		gbpTotal *decimal.Decimal
	)
	if hasEURVAT && eurVAT.IsPositive() {
		gbpTotal = findAmazonGBPTotal(text, false)
		buckets.standard = eurVAT.Div(amazonRate23)
		if eurTotal.IsPositive() {
			remainder := eurTotal.Sub(buckets.standard.Add(eurVAT))
			if remainder.Abs().GreaterThan(amazonCent) {
				buckets.zero = remainder
			}
		}
	} else if !hasEURVAT {
		gbpTotal = findAmazonGBPTotal(text, false)
		for _, row := range reAmazonGBPRows.FindAllStringSubmatch(text, -1) {
			if net, ok := amount(row[2]); ok {
				buckets.add(row[1], net)
			}
		}
	}

	if buckets.sum().IsZero() {
		if total := findAmazonGBPTotal(text, true); total != nil {
			gbpTotal = total
			buckets.zero = *total
		} else if eurTotal.IsPositive() {
			buckets.zero = eurTotal
			currency = money.EUR
		}
	}

	f.SetAmount(constants.KeyVAT0, buckets.zero)
	f.SetAmount(constants.KeyVAT9, buckets.reduced)
	f.SetAmount(constants.KeyVAT23, buckets.standard)
	f[constants.KeyTaxFree] = buckets.zero.IsPositive() && buckets.zero.Equal(buckets.sum())

	f[amazonCurrency] = currency
	f[amazonCurrencyNote] = amazonNote(currency, hasEURVAT, eurVAT)
	f[amazonEURVATFound] = hasEURVAT
	f[amazonEURVATAmount] = constants.ZeroAmount
	if hasEURVAT {
		f.SetAmount(amazonEURVATAmount, eurVAT)
	}
	f[amazonEURTotalFound] = nil
	if eurTotal.IsPositive() {
		f.SetAmount(amazonEURTotalFound, eurTotal)
	}
	f[amazonGBPTotal] = nil
	if gbpTotal != nil {
		f.SetAmount(amazonGBPTotal, *gbpTotal)
	}
	f[amazonGBPVATAmount] = constants.ZeroAmount
	if gbpVAT.IsPositive() {
		f.SetAmount(amazonGBPVATAmount, gbpVAT)
	}
	f[amazonVATRate] = vatRate
	return f
}

// findAmazonGBPTotal looks for a labelled £ total. With largest set it falls back
// to the biggest £ amount anywhere in the text.
func findAmazonGBPTotal(text string, largest bool) *decimal.Decimal {
	pick := firstGroup
	if largest {
		pick = lastGroup
	}
	for _, re := range reAmazonGBPTotals {
		raw, ok := pick(re, text)
		if !ok {
			continue
		}
		if d, ok := amount(raw); ok {
			return &d
		}
	}
	if !largest {
		return nil
	}
	if d, ok := largestAmount(groups(reAmazonPound, text, 1)); ok {
		return &d
	}
	return nil
}

func amazonNote(currency string, hasEURVAT bool, eurVAT decimal.Decimal) string {
	switch {
	case currency == money.EUR && hasEURVAT:
		return "EUR amounts used - VAT: " + money.Format(eurVAT, money.EUR) + " at 23%"
	case currency == money.EUR:
		return "EUR total used - manual VAT review may be needed"
	default:
		return "GBP amounts converted - manual EUR adjustment needed"
	}
}
