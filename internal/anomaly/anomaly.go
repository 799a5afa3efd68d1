// Package anomaly flags canonical records that look like parsing failures.
package anomaly

import (
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/joseph-ayodele/invoice-extractor/constants"
	"github.com/joseph-ayodele/invoice-extractor/internal/money"
	"github.com/joseph-ayodele/invoice-extractor/internal/record"
)

var (
	highBase = decimal.NewFromInt(50000)
	lowTotal = decimal.RequireFromString("0.01")
)

// Report lists the warnings raised for one record.
type Report struct {
	HasAnomalies bool
	Warnings     []string
}

// Confidence is the score a record with this report contributes.
func (r Report) Confidence() float64 {
	if r.HasAnomalies {
		return constants.ConfidenceAnomalous
	}
	return constants.ConfidenceClean
}

type Detector struct {
	logger *slog.Logger
}

func NewDetector(logger *slog.Logger) *Detector {
	if logger == nil {
		logger = slog.Default()
	}
	return &Detector{logger: logger}
}

// Detect evaluates every rule independently; a record can trip several.
func (d *Detector) Detect(c record.Canonical) Report {
	var warnings []string

	sum := c.NetSum()
	if sum.IsZero() {
		warnings = append(warnings, "All VAT base amounts are 0.00 (possible parsing failure)")
	}
	for _, b := range c.Buckets {
		switch {
		case b.Net.GreaterThan(highBase):
			warnings = append(warnings, fmt.Sprintf("VAT %s base amount unusually high: %s", b.Rate.Label, money.Format(b.Net, money.EUR)))
		case b.Net.IsNegative():
			warnings = append(warnings, fmt.Sprintf("VAT %s base amount is negative: %s", b.Rate.Label, money.Format(b.Net, money.EUR)))
		}
	}
	if c.InvoiceDate == nil || record.IsNotFound(*c.InvoiceDate) {
		warnings = append(warnings, "Invoice date not found or invalid")
	}
	if sum.IsPositive() && sum.LessThan(lowTotal) {
		warnings = append(warnings, fmt.Sprintf("Suspiciously low total VAT base amount: %s", money.Format(sum, money.EUR)))
	}

	if len(warnings) > 0 {
		d.logger.Debug("anomalies detected", "filename", c.Filename, "count", len(warnings))
	}
	return Report{HasAnomalies: len(warnings) > 0, Warnings: warnings}
}
