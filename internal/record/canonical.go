package record

import (
	"encoding/json"

	"github.com/shopspring/decimal"

	"github.com/joseph-ayodele/invoice-extractor/constants"
	"github.com/joseph-ayodele/invoice-extractor/internal/money"
)

// Bucket is one VAT rate with its net base and the VAT implied by it.
type Bucket struct {
	Rate constants.VATRate
	Net  decimal.Decimal
	VAT  decimal.Decimal
}

// Canonical is the schema-uniform output for one invoice (or one page of a
// statement).
type Canonical struct {
	Filename    string
	Supplier    string
	InvoiceDate *string // nil when not found
	TaxFree     bool
	CreditNote  bool
	Buckets     [4]Bucket
	Total       decimal.Decimal
	Currency    string
	Extras      map[string]any
}

// Bucket returns the bucket stored under a canonical key such as "VAT 23%".
func (c Canonical) Bucket(key string) (Bucket, bool) {
	for _, b := range c.Buckets {
		if b.Rate.Key == key {
			return b, true
		}
	}
	return Bucket{}, false
}

// NetSum adds up the four net bases.
func (c Canonical) NetSum() decimal.Decimal {
	sum := decimal.Zero
	for _, b := range c.Buckets {
		sum = sum.Add(b.Net)
	}
	return sum
}

// Fields turns the record back into a raw field set using canonical keys,
// so it can be normalized again.
func (c Canonical) Fields() Fields {
	f := Fields{
		constants.KeyFilename:   c.Filename,
		constants.KeySupplier:   c.Supplier,
		constants.KeyTaxFree:    c.TaxFree,
		constants.KeyCreditNote: c.CreditNote,
	}
	if c.InvoiceDate != nil {
		f[constants.KeyInvoiceDate] = *c.InvoiceDate
	} else {
		f[constants.KeyInvoiceDate] = constants.NotFound
	}
	for _, b := range c.Buckets {
		f.SetAmount(b.Rate.Key, b.Net)
	}
	for k, v := range c.Extras {
		f[k] = v
	}
	return f
}

// Map renders the record in its wire shape. Extras are merged last but never
// replace a canonical key.
func (c Canonical) Map() map[string]any {
	out := map[string]any{
		"filename":           c.Filename,
		"supplier_name":      c.Supplier,
		"invoice_number":     nil,
		"invoice_date":       nil,
		"is_tax_free":        c.TaxFree,
		"is_credit_note":     c.CreditNote,
		"total_amount":       c.Total.Round(2).InexactFloat64(),
		"currency_displayed": c.Currency,
	}
	if c.InvoiceDate != nil {
		out["invoice_date"] = *c.InvoiceDate
	}
	if n, ok := c.Extras[constants.KeyInvoiceNumber].(string); ok && !IsNotFound(n) {
		out["invoice_number"] = n
	}

	breakdown := make(map[string]any, len(c.Buckets))
	for _, b := range c.Buckets {
		out[b.Rate.Key] = money.Fixed(b.Net)
		breakdown[b.Rate.JSONKey] = map[string]any{
			"net": b.Net.Round(2).InexactFloat64(),
			"vat": b.VAT.Round(2).InexactFloat64(),
		}
	}
	out["vat_breakdown"] = breakdown

	for k, v := range c.Extras {
		if _, taken := out[k]; taken {
			continue
		}
		if d, ok := v.(decimal.Decimal); ok {
			v = money.Fixed(d)
		}
		out[k] = v
	}
	return out
}

func (c Canonical) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.Map())
}
