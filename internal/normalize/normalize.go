// Package normalize turns a supplier field set into a canonical record.
package normalize

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/joseph-ayodele/invoice-extractor/constants"
	"github.com/joseph-ayodele/invoice-extractor/internal/money"
	"github.com/joseph-ayodele/invoice-extractor/internal/record"
)

// ErrMalformedAmount is returned when a bucket or override holds a value
// that is present but cannot be read as an amount.
var ErrMalformedAmount = errors.New("malformed amount")

const isoDate = "2006-01-02"

// dateLayouts are tried in order; the long year comes first so "05/01/2024"
// is never read as year 20.
var dateLayouts = []string{"2/1/2006", "2/1/06"}

var hundred = decimal.NewFromInt(100)

var keySquasher = strings.NewReplacer(" ", "", "_", "", "%", "", ",", "", ".", "")

// bucketIndex maps squashed bucket keys ("vat135") to a VATRates index.
var bucketIndex = func() map[string]int {
	idx := make(map[string]int)
	for i, r := range constants.VATRates {
		idx[squash(r.Key)] = i
		idx[squash(r.JSONKey)] = i
	}
	return idx
}()

var reserved = map[string]bool{
	constants.KeyFilename:    true,
	constants.KeySupplier:    true,
	constants.KeyInvoiceDate: true,
	constants.KeyTaxFree:     true,
	constants.KeyCreditNote:  true,
}

func squash(key string) string {
	return keySquasher.Replace(strings.ToLower(key))
}

type Normalizer struct {
	logger *slog.Logger
}

func New(logger *slog.Logger) *Normalizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Normalizer{logger: logger}
}

// Normalize maps f onto the canonical schema. Keys it does not own are
// carried over as extras. The only failure is a malformed amount.
func (n *Normalizer) Normalize(f record.Fields) (record.Canonical, error) {
	c := record.Canonical{
		Currency: constants.DefaultCurrency,
		Extras:   make(map[string]any),
	}
	c.Filename, _ = f.String(constants.KeyFilename)
	c.Supplier, _ = f.String(constants.KeySupplier)
	c.InvoiceDate = Date(f[constants.KeyInvoiceDate])
	c.TaxFree = Flag(f[constants.KeyTaxFree])
	c.CreditNote = Flag(f[constants.KeyCreditNote])

	for i, r := range constants.VATRates {
		c.Buckets[i] = record.Bucket{Rate: r, Net: decimal.Zero, VAT: decimal.Zero}
	}

	// Canonical keys win over synonyms; synonyms are applied in sorted order
	// so the result does not depend on map iteration.
	assigned := [len(constants.VATRates)]bool{}
	keys := f.Keys()
	sort.SliceStable(keys, func(i, j int) bool {
		return isCanonicalBucket(keys[i]) && !isCanonicalBucket(keys[j])
	})
	for _, k := range keys {
		if reserved[k] {
			continue
		}
		i, ok := bucketIndex[squash(k)]
		if !ok {
			c.Extras[k] = f[k]
			continue
		}
		if assigned[i] {
			continue
		}
		net, err := Amount(f[k])
		if err != nil {
			return record.Canonical{}, fmt.Errorf("%s: %w", k, err)
		}
		c.Buckets[i].Net = net
		assigned[i] = true
	}

	c.Total = decimal.Zero
	for i := range c.Buckets {
		b := &c.Buckets[i]
		rate := decimal.RequireFromString(b.Rate.Percent).Div(hundred)
		if b.Net.IsPositive() && !rate.IsZero() {
			b.VAT = b.Net.Mul(rate)
		}
		c.Total = c.Total.Add(b.Net.Mul(decimal.NewFromInt(1).Add(rate)))
	}

	n.applyForeignTotal(f, &c)
	return c, nil
}

func isCanonicalBucket(key string) bool {
	for _, r := range constants.VATRates {
		if r.Key == key {
			return true
		}
	}
	return false
}

// applyForeignTotal replaces the computed total with a supplier-provided
// total in another currency, if one is present and readable.
func (n *Normalizer) applyForeignTotal(f record.Fields, c *record.Canonical) {
	keys := make([]string, 0, len(constants.ForeignTotalKeys))
	for k := range constants.ForeignTotalKeys {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		s, ok := f.String(k)
		if !ok || record.IsNotFound(s) {
			continue
		}
		total, err := money.ParseAmount(s)
		if err != nil {
			n.logger.Warn("ignoring unreadable foreign total", "key", k, "value", s)
			continue
		}
		c.Total = total
		c.Currency = constants.ForeignTotalKeys[k]
		n.logger.Debug("foreign total applied", "filename", c.Filename, "currency", c.Currency)
		return
	}
}

// Amount reads a bucket value. Absent, empty and not-found values are zero.
func Amount(v any) (decimal.Decimal, error) {
	switch t := v.(type) {
	case nil:
		return decimal.Zero, nil
	case decimal.Decimal:
		return t, nil
	case float64:
		return decimal.NewFromFloat(t), nil
	case float32:
		return decimal.NewFromFloat32(t), nil
	case int:
		return decimal.NewFromInt(int64(t)), nil
	case int64:
		return decimal.NewFromInt(t), nil
	case json.Number:
		return Amount(t.String())
	case string:
		if record.IsNotFound(t) {
			return decimal.Zero, nil
		}
		d, err := money.ParseAmount(t)
		if err != nil {
			return decimal.Zero, fmt.Errorf("%w: %q", ErrMalformedAmount, t)
		}
		return d, nil
	default:
		return decimal.Zero, fmt.Errorf("%w: unexpected %T", ErrMalformedAmount, v)
	}
}

// Date renders a day-first date as ISO 8601. Unparseable strings pass
// through unchanged; missing values become nil.
func Date(v any) *string {
	s, ok := v.(string)
	if !ok {
		if v == nil {
			return nil
		}
		s = fmt.Sprint(v)
	}
	s = strings.TrimSpace(s)
	if record.IsNotFound(s) {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			out := t.Format(isoDate)
			return &out
		}
	}
	return &s
}

// Flag coerces loose truthy values: YES, TRUE, Y and any non-zero amount.
func Flag(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		switch strings.ToUpper(strings.TrimSpace(t)) {
		case "YES", "TRUE", "Y":
			return true
		}
		d, err := money.ParseAmount(t)
		return err == nil && !d.IsZero()
	default:
		d, err := Amount(v)
		return err == nil && !d.IsZero()
	}
}
