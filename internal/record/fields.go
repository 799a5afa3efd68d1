// Package record holds the raw field sets produced by extraction strategies
// and the canonical record they are normalized into.
package record

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/joseph-ayodele/invoice-extractor/constants"
	"github.com/joseph-ayodele/invoice-extractor/internal/money"
)

// Fields is a raw field set in supplier vocabulary. Values are scalars:
// string, bool, numbers, decimal.Decimal or nil.
type Fields map[string]any

// NewFields returns a field set pre-filled with the not-found sentinels so a
// strategy only has to set what it actually found.
func NewFields(filename string, supplier string) Fields {
	f := Fields{
		constants.KeyFilename:    filename,
		constants.KeySupplier:    supplier,
		constants.KeyInvoiceDate: constants.NotFound,
		constants.KeyTaxFree:     false,
		constants.KeyCreditNote:  false,
	}
	for _, r := range constants.VATRates {
		f[r.Key] = constants.ZeroAmount
	}
	return f
}

// String returns the value under key rendered as a string. The bool reports
// whether the key was present with a non-nil value.
func (f Fields) String(key string) (string, bool) {
	v, ok := f[key]
	if !ok || v == nil {
		return "", false
	}
	switch t := v.(type) {
	case string:
		return t, true
	case decimal.Decimal:
		return money.Fixed(t), true
	case fmt.Stringer:
		return t.String(), true
	default:
		return fmt.Sprint(t), true
	}
}

// SetAmount stores d as a two-decimal string under key.
func (f Fields) SetAmount(key string, d decimal.Decimal) {
	f[key] = money.Fixed(d)
}

// Amount parses the value under key. Missing keys and sentinels read as zero.
func (f Fields) Amount(key string) decimal.Decimal {
	s, ok := f.String(key)
	if !ok {
		return decimal.Zero
	}
	d, ok := money.Parse(s)
	if !ok {
		return decimal.Zero
	}
	return d
}

func (f Fields) Clone() Fields {
	out := make(Fields, len(f))
	for k, v := range f {
		out[k] = v
	}
	return out
}

// Keys returns the keys in sorted order.
func (f Fields) Keys() []string {
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// IsNotFound reports whether s is empty or the not-found sentinel.
func IsNotFound(s string) bool {
	s = strings.TrimSpace(s)
	return s == "" || strings.EqualFold(s, constants.NotFound)
}
