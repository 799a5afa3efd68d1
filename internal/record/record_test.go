package record

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/invoice-extractor/constants"
)

func TestNewFields(t *testing.T) {
	f := NewFields("a.pdf", "Udea")
	assert.Equal(t, constants.NotFound, f[constants.KeyInvoiceDate])
	assert.Equal(t, false, f[constants.KeyTaxFree])
	for _, r := range constants.VATRates {
		assert.Equal(t, constants.ZeroAmount, f[r.Key])
	}
	assert.Equal(t, []string{"Credit Note", "Filename", "Invoice Date", "Supplier", "Tax Free", "VAT 0%", "VAT 13.5%", "VAT 23%", "VAT 9%"}, f.Keys())
}

func TestFields_Amount(t *testing.T) {
	f := Fields{
		"plain":   "1,234.50",
		"dec":     decimal.RequireFromString("9.999"),
		"missing": constants.NotFound,
		"nil":     nil,
		"num":     12,
	}
	assert.Equal(t, "1234.5", f.Amount("plain").String())
	assert.Equal(t, "10", f.Amount("dec").Round(2).String())
	assert.True(t, f.Amount("missing").IsZero())
	assert.True(t, f.Amount("nil").IsZero())
	assert.True(t, f.Amount("absent").IsZero())
	assert.Equal(t, "12", f.Amount("num").String())

	s, ok := f.String("dec")
	assert.True(t, ok)
	assert.Equal(t, "10.00", s)
	_, ok = f.String("nil")
	assert.False(t, ok)
}

func TestFields_CloneIsIndependent(t *testing.T) {
	f := NewFields("a.pdf", "Udea")
	g := f.Clone()
	g.SetAmount(constants.KeyVAT23, decimal.NewFromInt(5))
	assert.Equal(t, constants.ZeroAmount, f[constants.KeyVAT23])
	assert.Equal(t, "5.00", g[constants.KeyVAT23])
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, IsNotFound(""))
	assert.True(t, IsNotFound(" not found "))
	assert.False(t, IsNotFound("0.00"))
}

func sample() Canonical {
	date := "2024-03-01"
	c := Canonical{
		Filename:    "inv.pdf",
		Supplier:    "Flogas",
		InvoiceDate: &date,
		Currency:    constants.DefaultCurrency,
		Extras: map[string]any{
			constants.KeyInvoiceNumber: "F-1",
			"filename":                 "ignored",
			"Units":                    decimal.RequireFromString("3.5"),
		},
	}
	for i, r := range constants.VATRates {
		c.Buckets[i] = Bucket{Rate: r, Net: decimal.Zero, VAT: decimal.Zero}
	}
	c.Buckets[1].Net = decimal.NewFromInt(100)
	c.Buckets[1].VAT = decimal.NewFromInt(9)
	c.Total = decimal.NewFromInt(109)
	return c
}

func TestCanonical_Map(t *testing.T) {
	m := sample().Map()
	assert.Equal(t, "F-1", m["invoice_number"])
	assert.Equal(t, "2024-03-01", m["invoice_date"])
	assert.Equal(t, 109.0, m["total_amount"])
	assert.Equal(t, "100.00", m[constants.KeyVAT9])
	assert.Equal(t, "3.50", m["Units"])
	assert.Equal(t, "inv.pdf", m["filename"], "extras never shadow canonical keys")

	breakdown := m["vat_breakdown"].(map[string]any)
	assert.Equal(t, map[string]any{"net": 100.0, "vat": 9.0}, breakdown["vat_9"])
}

func TestCanonical_JSONAndFields(t *testing.T) {
	c := sample()
	c.InvoiceDate = nil

	raw, err := json.Marshal(c)
	require.NoError(t, err)
	var back map[string]any
	require.NoError(t, json.Unmarshal(raw, &back))
	assert.Nil(t, back["invoice_date"])
	assert.Equal(t, "EUR", back["currency_displayed"])

	f := c.Fields()
	assert.Equal(t, constants.NotFound, f[constants.KeyInvoiceDate])
	assert.Equal(t, "100.00", f[constants.KeyVAT9])
	assert.Equal(t, "F-1", f[constants.KeyInvoiceNumber])

	assert.Equal(t, "100", c.NetSum().String())
	b, ok := c.Bucket(constants.KeyVAT9)
	assert.True(t, ok)
	assert.Equal(t, "9", b.VAT.String())
	_, ok = c.Bucket("VAT 5%")
	assert.False(t, ok)
}
