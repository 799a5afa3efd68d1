package anomaly

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/joseph-ayodele/invoice-extractor/constants"
	"github.com/joseph-ayodele/invoice-extractor/internal/record"
)

func canonical(date *string, nets ...string) record.Canonical {
	c := record.Canonical{Filename: "x.pdf", InvoiceDate: date}
	for i, r := range constants.VATRates {
		c.Buckets[i] = record.Bucket{Rate: r, Net: decimal.Zero}
		if i < len(nets) {
			c.Buckets[i].Net = decimal.RequireFromString(nets[i])
		}
	}
	return c
}

func TestDetect(t *testing.T) {
	date := "2024-01-05"
	empty := ""

	tests := []struct {
		name string
		in   record.Canonical
		want []string
	}{
		{
			name: "clean",
			in:   canonical(&date, "0", "0", "0", "100.00"),
		},
		{
			name: "all zero and no date",
			in:   canonical(nil),
			want: []string{
				"All VAT base amounts are 0.00 (possible parsing failure)",
				"Invoice date not found or invalid",
			},
		},
		{
			name: "high base",
			in:   canonical(&date, "0", "0", "0", "60000"),
			want: []string{"VAT 23% base amount unusually high: €60,000.00"},
		},
		{
			name: "negative base",
			in:   canonical(&date, "0", "0", "-12.50", "20"),
			want: []string{"VAT 13.5% base amount is negative: -€12.50"},
		},
		{
			name: "negative sum is not low",
			in:   canonical(&date, "-5.00"),
			want: []string{"VAT 0% base amount is negative: -€5.00"},
		},
		{
			name: "tiny total",
			in:   canonical(&date, "0.004"),
			want: []string{"Suspiciously low total VAT base amount: €0.00"},
		},
		{
			name: "empty date",
			in:   canonical(&empty, "1"),
			want: []string{"Invoice date not found or invalid"},
		},
	}
	d := NewDetector(nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := d.Detect(tt.in)
			assert.Equal(t, tt.want, r.Warnings)
			assert.Equal(t, len(tt.want) > 0, r.HasAnomalies)
		})
	}
}

func TestReport_Confidence(t *testing.T) {
	assert.Equal(t, 0.85, Report{}.Confidence())
	assert.Equal(t, 0.50, Report{HasAnomalies: true, Warnings: []string{"x"}}.Confidence())
}
