// Package money parses the amounts printed on invoices and renders them for
// humans. Arithmetic stays in shopspring/decimal; go-money is used for display.
package money

import (
	"errors"
	"fmt"
	"strings"

	gomoney "github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

const (
	EUR = gomoney.EUR
	GBP = gomoney.GBP
	USD = gomoney.USD
)

var ErrEmptyAmount = errors.New("empty amount")

var symbolReplacer = strings.NewReplacer(
	"€", "",
	"£", "",
	"$", "",
	"EUR", "",
	"GBP", "",
	"USD", "",
	",", "",
	" ", "",
	"\u00a0", "",
)

// ParseAmount accepts the loose forms seen in extracted text:
// "€1,234.56", "1234.56 EUR", "-12.00", "(12.00)", "12.00-", "12.".
func ParseAmount(s string) (decimal.Decimal, error) {
	raw := strings.TrimSpace(s)
	clean := symbolReplacer.Replace(raw)
	if clean == "" {
		return decimal.Zero, ErrEmptyAmount
	}

	negative := false
	if strings.HasPrefix(clean, "(") && strings.HasSuffix(clean, ")") {
		negative = true
		clean = clean[1 : len(clean)-1]
	}
	if strings.HasSuffix(clean, "-") {
		negative = true
		clean = strings.TrimSuffix(clean, "-")
	}
	clean = strings.TrimSuffix(clean, ".")

	d, err := decimal.NewFromString(clean)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q: %w", raw, err)
	}
	if negative {
		d = d.Neg()
	}
	return d, nil
}

// Parse is ParseAmount for call sites that only care whether it worked.
func Parse(s string) (decimal.Decimal, bool) {
	d, err := ParseAmount(s)
	return d, err == nil
}

// Fixed renders d with exactly two decimals, e.g. "123.40".
func Fixed(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// FixedString parses s and re-renders it with two decimals. Unparseable
// input yields "0.00".
func FixedString(s string) string {
	d, ok := Parse(s)
	if !ok {
		return Fixed(decimal.Zero)
	}
	return Fixed(d)
}

// Format renders d in the currency's display form, e.g. "€1,234.56".
// Unknown currency codes fall back to EUR.
func Format(d decimal.Decimal, currency string) string {
	if gomoney.GetCurrency(currency) == nil {
		currency = EUR
	}
	cents := d.Shift(2).Round(0).IntPart()
	return gomoney.New(cents, currency).Display()
}

// Max returns the largest of ds, or false when ds is empty.
func Max(ds []decimal.Decimal) (decimal.Decimal, bool) {
	if len(ds) == 0 {
		return decimal.Zero, false
	}
	return decimal.Max(ds[0], ds[1:]...), true
}
