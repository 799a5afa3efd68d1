// Package ledger records processed invoices so a file is never booked twice.
package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/joseph-ayodele/invoice-extractor/constants"
	"github.com/joseph-ayodele/invoice-extractor/internal/common"
	"github.com/joseph-ayodele/invoice-extractor/internal/money"
	"github.com/joseph-ayodele/invoice-extractor/internal/record"
)

// Ledger is an append-only log keyed by filename.
type Ledger interface {
	Contains(ctx context.Context, filename string) (bool, error)
	Append(ctx context.Context, e Entry) error
	Close() error
}

// Flag is a boolean written the way the spreadsheet tooling downstream
// expects it: "True" / "False".
type Flag bool

// MarshalCSV writes True or False.
func (f Flag) MarshalCSV() (string, error) {
	if f {
		return "True", nil
	}
	return "False", nil
}

func (f *Flag) UnmarshalCSV(s string) error {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1", "yes", "y":
		*f = true
	default:
		*f = false
	}
	return nil
}

// Entry is one ledger row. The CSV header names are fixed.
type Entry struct {
	Filename    string `csv:"Filename"`
	Supplier    string `csv:"Supplier"`
	InvoiceDate string `csv:"Invoice Date"`
	TaxFree     Flag   `csv:"Tax Free"`
	CreditNote  Flag   `csv:"Credit Note"`
	VAT0        string `csv:"VAT 0%"`
	VAT9        string `csv:"VAT 9%"`
	VAT135      string `csv:"VAT 13.5%"`
	VAT23       string `csv:"VAT 23%"`
	FilePath    string `csv:"FilePath"`
}

// EntryFromRecord builds the ledger row for a canonical record.
func EntryFromRecord(c record.Canonical, filePath string) Entry {
	e := Entry{
		Filename:    c.Filename,
		Supplier:    c.Supplier,
		InvoiceDate: constants.NotFound,
		TaxFree:     Flag(c.TaxFree),
		CreditNote:  Flag(c.CreditNote),
		FilePath:    filePath,
	}
	if c.InvoiceDate != nil {
		e.InvoiceDate = *c.InvoiceDate
	}
	for _, b := range c.Buckets {
		amount := money.Fixed(b.Net)
		switch b.Rate.Key {
		case constants.KeyVAT0:
			e.VAT0 = amount
		case constants.KeyVAT9:
			e.VAT9 = amount
		case constants.KeyVAT135:
			e.VAT135 = amount
		case constants.KeyVAT23:
			e.VAT23 = amount
		}
	}
	return e
}

// Drivers accepted by Open.
const (
	DriverCSV      = "csv"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Open returns the backend selected by cfg.Driver.
func Open(ctx context.Context, cfg common.LedgerConfig, logger *slog.Logger) (Ledger, error) {
	if logger == nil {
		logger = slog.Default()
	}
	switch strings.ToLower(cfg.Driver) {
	case "", DriverCSV:
		return NewCSV(cfg.Path, logger), nil
	case DriverSQLite:
		return OpenSQLite(ctx, cfg.Path, logger)
	case DriverPostgres:
		return OpenPostgres(ctx, cfg, logger)
	default:
		return nil, common.NewAppError(constants.CodeConfigError,
			fmt.Sprintf("unknown ledger driver %q", cfg.Driver), common.ErrInvalidInput)
	}
}
