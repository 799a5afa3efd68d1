package ledger

import (
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"
)

const tableName = "ledger_entries"

var entryColumns = []string{
	"id", "filename", "supplier", "invoice_date", "tax_free", "credit_note",
	"vat_0", "vat_9", "vat_13_5", "vat_23", "file_path", "created_at",
}

// containsQuery counts rows for filename.
func containsQuery(d, filename string) (string, []any) {
	b := entsql.Dialect(d)
	return b.Select(entsql.Count("*")).
		From(b.Table(tableName)).
		Where(entsql.EQ("filename", filename)).
		Query()
}

func insertQuery(d string, e Entry, now time.Time) (string, []any) {
	return entsql.Dialect(d).Insert(tableName).
		Columns(entryColumns...).
		Values(
			uuid.NewString(), e.Filename, e.Supplier, e.InvoiceDate, bool(e.TaxFree), bool(e.CreditNote),
			e.VAT0, e.VAT9, e.VAT135, e.VAT23, e.FilePath, now.UTC(),
		).
		Query()
}

// schemaStatements creates the table and its filename index.
func schemaStatements(d string) ([]string, error) {
	var ts string
	switch d {
	case dialect.Postgres:
		ts = "TIMESTAMPTZ"
	case dialect.SQLite:
		ts = "TIMESTAMP"
	default:
		return nil, fmt.Errorf("unsupported dialect %q", d)
	}
	return []string{
		`CREATE TABLE IF NOT EXISTS ` + tableName + ` (
	id TEXT PRIMARY KEY,
	filename TEXT NOT NULL,
	supplier TEXT NOT NULL,
	invoice_date TEXT NOT NULL,
	tax_free BOOLEAN NOT NULL DEFAULT FALSE,
	credit_note BOOLEAN NOT NULL DEFAULT FALSE,
	vat_0 TEXT NOT NULL,
	vat_9 TEXT NOT NULL,
	vat_13_5 TEXT NOT NULL,
	vat_23 TEXT NOT NULL,
	file_path TEXT NOT NULL,
	created_at ` + ts + ` NOT NULL
)`,
		`CREATE INDEX IF NOT EXISTS ` + tableName + `_filename_idx ON ` + tableName + ` (filename)`,
	}, nil
}
