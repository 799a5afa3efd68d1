package export

import (
	"bytes"
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/invoice-extractor/constants"
	"github.com/joseph-ayodele/invoice-extractor/internal/core"
	"github.com/joseph-ayodele/invoice-extractor/internal/record"
)

func canonical(name string, net23 int64) record.Canonical {
	date := "2024-02-01"
	c := record.Canonical{
		Filename:    name,
		Supplier:    "Flogas",
		InvoiceDate: &date,
		Currency:    constants.DefaultCurrency,
		Extras:      map[string]any{constants.KeyInvoiceNumber: "INV-7"},
	}
	for i, r := range constants.VATRates {
		c.Buckets[i] = record.Bucket{Rate: r, Net: decimal.Zero, VAT: decimal.Zero}
	}
	c.Buckets[3].Net = decimal.NewFromInt(net23)
	c.Buckets[3].VAT = decimal.NewFromInt(net23).Mul(decimal.RequireFromString("0.23"))
	c.Total = c.Buckets[3].Net.Add(c.Buckets[3].VAT)
	return c
}

func TestRecordsXLSX(t *testing.T) {
	ok := &core.Envelope{
		Success:    true,
		Confidence: constants.ConfidenceClean,
		Records:    []record.Canonical{canonical("a.pdf", 100), canonical("a.pdf", 200)},
		Metadata:   core.Metadata{Filename: "a.pdf"},
	}
	failed := &core.Envelope{
		Errors:   []core.ErrorDetail{{Code: constants.CodeNoTextExtracted, Message: "No text could be extracted from b.pdf"}},
		Metadata: core.Metadata{Filename: "b.pdf"},
	}

	data, err := NewService(nil).RecordsXLSX(context.Background(), []Result{
		{SourcePath: "/in/a.pdf", Envelope: ok, LedgerOutcome: "appended"},
		{SourcePath: "/in/b.pdf", Envelope: failed},
		{SourcePath: "/in/c.pdf"},
	})
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(invoicesSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, invoiceHeaders, rows[0])
	assert.Equal(t, "a.pdf", rows[1][0])
	assert.Equal(t, "INV-7", rows[1][3])
	assert.Equal(t, "100", rows[1][9], "Net 23%")
	assert.Equal(t, "246", rows[2][14], "Total")
	assert.Equal(t, "appended", rows[1][17])
	assert.Equal(t, "/in/a.pdf", rows[1][18])

	fails, err := f.GetRows(failuresSheet)
	require.NoError(t, err)
	require.Len(t, fails, 2)
	assert.Equal(t, []string{"b.pdf", constants.CodeNoTextExtracted, "No text could be extracted from b.pdf", "/in/b.pdf"}, fails[1])
}

func TestRecordsXLSX_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewService(nil).RecordsXLSX(ctx, []Result{{Envelope: &core.Envelope{}}})
	assert.ErrorIs(t, err, context.Canceled)
}
