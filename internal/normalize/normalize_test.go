package normalize

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/invoice-extractor/constants"
	"github.com/joseph-ayodele/invoice-extractor/internal/money"
	"github.com/joseph-ayodele/invoice-extractor/internal/record"
)

func nets(c record.Canonical) []string {
	out := make([]string, len(c.Buckets))
	for i, b := range c.Buckets {
		out[i] = money.Fixed(b.Net)
	}
	return out
}

func TestNormalize_Buckets(t *testing.T) {
	n := New(nil)

	f := record.NewFields("a.pdf", "Kellys")
	f[constants.KeyVAT23] = "100.00"
	f[constants.KeyVAT135] = "€1,000.00"
	f[constants.KeyVAT9] = "-10.00"

	c, err := n.Normalize(f)
	require.NoError(t, err)

	assert.Equal(t, []string{"0.00", "-10.00", "1000.00", "100.00"}, nets(c))
	b23, _ := c.Bucket(constants.KeyVAT23)
	assert.Equal(t, "23.00", money.Fixed(b23.VAT))
	b135, _ := c.Bucket(constants.KeyVAT135)
	assert.Equal(t, "135.00", money.Fixed(b135.VAT))
	b9, _ := c.Bucket(constants.KeyVAT9)
	assert.True(t, b9.VAT.IsZero(), "negative nets carry no VAT")

	// 100*1.23 + 1000*1.135 - 10*1.09
	assert.Equal(t, "1247.10", money.Fixed(c.Total))
	assert.Equal(t, constants.DefaultCurrency, c.Currency)
	assert.Equal(t, "a.pdf", c.Filename)
	assert.Equal(t, "Kellys", c.Supplier)
}

func TestNormalize_Synonyms(t *testing.T) {
	n := New(nil)

	c, err := n.Normalize(record.Fields{
		"vat_0":     "5.00",
		"VAT 13,5%": "10.00",
		"vat_23":    12.5,
		"VAT 9%":    json.Number("3"),
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"5.00", "3.00", "10.00", "12.50"}, nets(c))
	assert.Empty(t, c.Extras)

	t.Run("canonical key wins", func(t *testing.T) {
		c, err := n.Normalize(record.Fields{"vat_23": "1.00", "VAT 23%": "2.00"})
		require.NoError(t, err)
		b, _ := c.Bucket(constants.KeyVAT23)
		assert.Equal(t, "2.00", money.Fixed(b.Net))
	})
}

func TestNormalize_ForeignTotal(t *testing.T) {
	n := New(nil)

	f := record.NewFields("amz.pdf", "Amazon")
	f[constants.KeyVAT0] = "10.00"
	f["GBP_Total"] = "12.34"
	c, err := n.Normalize(f)
	require.NoError(t, err)
	assert.Equal(t, "12.34", money.Fixed(c.Total))
	assert.Equal(t, "GBP", c.Currency)
	assert.Equal(t, "12.34", c.Extras["GBP_Total"])

	f["GBP_Total"] = nil
	c, err = n.Normalize(f)
	require.NoError(t, err)
	assert.Equal(t, "10.00", money.Fixed(c.Total))
	assert.Equal(t, "EUR", c.Currency)

	f["USD_Total"] = "$20.00"
	c, err = n.Normalize(f)
	require.NoError(t, err)
	assert.Equal(t, "20.00", money.Fixed(c.Total))
	assert.Equal(t, "USD", c.Currency)
}

func TestNormalize_Extras(t *testing.T) {
	f := record.NewFields("x.pdf", "Vico")
	f["VAT_Amount"] = "23.00"
	f[constants.KeyInvoiceNumber] = "INV-1"
	f[constants.KeyTotal] = constants.NotFound

	c, err := New(nil).Normalize(f)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"VAT_Amount":               "23.00",
		constants.KeyInvoiceNumber: "INV-1",
		constants.KeyTotal:         constants.NotFound,
	}, c.Extras)
}

func TestNormalize_MalformedAmount(t *testing.T) {
	f := record.NewFields("x.pdf", "Oxigen")
	f[constants.KeyVAT135] = "twelve"

	_, err := New(nil).Normalize(f)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMalformedAmount)
	assert.Contains(t, err.Error(), constants.KeyVAT135)
}

func TestNormalize_Idempotent(t *testing.T) {
	n := New(nil)

	f := record.NewFields("amz.pdf", "Amazon")
	f[constants.KeyInvoiceDate] = "05/01/2024"
	f[constants.KeyTaxFree] = "yes"
	f[constants.KeyVAT23] = "20.00"
	f[constants.KeyVAT0] = "4.10"
	f["GBP_Total"] = "21.00"

	first, err := n.Normalize(f)
	require.NoError(t, err)
	second, err := n.Normalize(first.Fields())
	require.NoError(t, err)

	assert.Equal(t, nets(first), nets(second))
	assert.True(t, first.Total.Equal(second.Total))
	assert.Equal(t, first.Currency, second.Currency)
	assert.Equal(t, first.InvoiceDate, second.InvoiceDate)
	assert.Equal(t, first.TaxFree, second.TaxFree)
	assert.Equal(t, first.Map(), second.Map())
}

func TestDate(t *testing.T) {
	tests := []struct {
		in   any
		want *string
	}{
		{"31/12/2024", ptr("2024-12-31")},
		{"05/01/24", ptr("2024-01-05")},
		{"5/1/2024", ptr("2024-01-05")},
		{" 01/02/2023 ", ptr("2023-02-01")},
		{"Q1 2024", ptr("Q1 2024")},
		{"Page 3", ptr("Page 3")},
		{"2024-01-05", ptr("2024-01-05")},
		{constants.NotFound, nil},
		{"", nil},
		{nil, nil},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Date(tt.in), "%v", tt.in)
	}
}

func TestFlag(t *testing.T) {
	truthy := []any{true, "YES", "true", " y ", "1", "12.50", 3, 0.5, decimal.NewFromInt(1)}
	falsy := []any{false, nil, "", "no", "0", "0.00", "N", 0, constants.NotFound}
	for _, v := range truthy {
		assert.True(t, Flag(v), "%v", v)
	}
	for _, v := range falsy {
		assert.False(t, Flag(v), "%v", v)
	}
}

func TestAmount(t *testing.T) {
	for _, v := range []any{nil, "", " ", constants.NotFound, "not found"} {
		d, err := Amount(v)
		require.NoError(t, err)
		assert.True(t, d.IsZero())
	}
	_, err := Amount(true)
	assert.ErrorIs(t, err, ErrMalformedAmount)
}

func ptr(s string) *string { return &s }
