// Package export renders batch results as spreadsheets.
package export

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/invoice-extractor/constants"
	"github.com/joseph-ayodele/invoice-extractor/internal/core"
	"github.com/joseph-ayodele/invoice-extractor/internal/record"
)

const (
	invoicesSheet = "Invoices"
	failuresSheet = "Failures"
)

// Result is one processed document as the batch saw it.
type Result struct {
	SourcePath    string
	Envelope      *core.Envelope
	LedgerOutcome string
}

// Service produces XLSX bytes for batch results.
type Service struct {
	logger *slog.Logger
}

func NewService(logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{logger: logger}
}

var invoiceHeaders = func() []string {
	h := []string{"Filename", "Supplier", "Invoice Date", "Invoice Number", "Tax Free", "Credit Note"}
	for _, r := range constants.VATRates {
		h = append(h, "Net "+r.Label)
	}
	for _, r := range constants.VATRates {
		h = append(h, "VAT "+r.Label)
	}
	return append(h, "Total", "Currency", "Confidence", "Ledger", "File Path")
}()

// RecordsXLSX writes one row per canonical record on the Invoices sheet and
// one row per failed document on the Failures sheet.
func (s *Service) RecordsXLSX(ctx context.Context, results []Result) ([]byte, error) {
	start := time.Now()

	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName("Sheet1", invoicesSheet); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(failuresSheet); err != nil {
		return nil, err
	}

	writeRow(f, invoicesSheet, 1, toAny(invoiceHeaders))
	writeRow(f, failuresSheet, 1, []any{"Filename", "Code", "Message", "File Path"})

	row, failRow := 2, 2
	for _, res := range results {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		env := res.Envelope
		if env == nil {
			continue
		}
		if !env.Success {
			for _, e := range env.Errors {
				writeRow(f, failuresSheet, failRow, []any{env.Metadata.Filename, e.Code, e.Message, res.SourcePath})
				failRow++
			}
			continue
		}
		for _, rec := range env.Records {
			writeRow(f, invoicesSheet, row, recordRow(rec, env.Confidence, res))
			row++
		}
	}

	_ = f.SetColWidth(invoicesSheet, "A", "A", 32)
	_ = f.SetColWidth(invoicesSheet, "B", "B", 24)
	_ = f.SetColWidth(invoicesSheet, "C", "D", 14)
	_ = f.SetColWidth(failuresSheet, "A", "A", 32)
	_ = f.SetColWidth(failuresSheet, "C", "C", 60)
	if err := f.SetPanes(invoicesSheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"}); err != nil {
		s.logger.Warn("freeze header failed", "error", err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}
	s.logger.Info("export.xlsx.ok",
		"records", row-2,
		"failures", failRow-2,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}

func recordRow(c record.Canonical, confidence float64, res Result) []any {
	date := ""
	if c.InvoiceDate != nil {
		date = *c.InvoiceDate
	}
	number := ""
	if n, ok := c.Extras[constants.KeyInvoiceNumber].(string); ok && !record.IsNotFound(n) {
		number = n
	}
	out := []any{c.Filename, c.Supplier, date, number, c.TaxFree, c.CreditNote}
	for _, b := range c.Buckets {
		out = append(out, b.Net.InexactFloat64())
	}
	for _, b := range c.Buckets {
		out = append(out, b.VAT.InexactFloat64())
	}
	return append(out, c.Total.InexactFloat64(), c.Currency, confidence, res.LedgerOutcome, res.SourcePath)
}

func writeRow(f *excelize.File, sheet string, row int, values []any) {
	cell, _ := excelize.CoordinatesToCellName(1, row)
	_ = f.SetSheetRow(sheet, cell, &values)
}

func toAny(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}
