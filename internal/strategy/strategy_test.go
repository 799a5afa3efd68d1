package strategy

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/invoice-extractor/constants"
	"github.com/joseph-ayodele/invoice-extractor/internal/common"
	"github.com/joseph-ayodele/invoice-extractor/internal/record"
)

type stubPages struct {
	pages []string
	err   error
}

func (s stubPages) OCRPages(context.Context, string) ([]string, error) { return s.pages, s.err }

type panicky struct{}

func (panicky) Supplier() constants.Supplier { return constants.SupplierVico }
func (panicky) Extract(context.Context, Input) ([]record.Fields, error) {
	var m map[string]int
	m["boom"]++
	return nil, nil
}

type empty struct{}

func (empty) Supplier() constants.Supplier                            { return constants.SupplierOxigen }
func (empty) Extract(context.Context, Input) ([]record.Fields, error) { return nil, nil }

func TestRun_WrapsFaults(t *testing.T) {
	t.Run("panic", func(t *testing.T) {
		_, err := Run(context.Background(), panicky{}, Input{Filename: "v.pdf"})
		var extErr *common.ExtractionError
		require.ErrorAs(t, err, &extErr)
		assert.Equal(t, constants.SupplierVico, extErr.Supplier)
		assert.Equal(t, "v.pdf", extErr.Filename)
		assert.Contains(t, extErr.Cause.Error(), "panic")
	})

	t.Run("error", func(t *testing.T) {
		c := NewCoolnagrower(stubPages{err: errors.New("tesseract gone")}, nil)
		_, err := Run(context.Background(), c, Input{Filename: "c.pdf"})
		var extErr *common.ExtractionError
		require.ErrorAs(t, err, &extErr)
		assert.Equal(t, constants.SupplierCoolnagrower, extErr.Supplier)
	})

	t.Run("no records", func(t *testing.T) {
		_, err := Run(context.Background(), empty{}, Input{})
		assert.ErrorIs(t, err, errNoRecords)
	})
}

func TestRegistry(t *testing.T) {
	r := NewRegistry(nil, nil)
	assert.Equal(t, len(constants.Suppliers())-1, r.Len(), "every known supplier is mapped")

	assert.Equal(t, constants.SupplierUnknown, r.Lookup(constants.SupplierUnknown).Supplier())
	assert.Equal(t, constants.SupplierUnknown, r.Lookup(constants.Supplier("Nobody")).Supplier())
	assert.Equal(t, constants.SupplierUdea, r.Lookup(constants.SupplierUdea).Supplier())

	t.Run("spreadsheets are forced to the spreadsheet supplier", func(t *testing.T) {
		for _, format := range []constants.Format{constants.FormatSpreadsheet, constants.FormatLegacySpreadsheet} {
			assert.Equal(t, constants.SupplierLoughboora, r.Dispatch(constants.SupplierAmazon, format).Supplier())
			assert.Equal(t, constants.SupplierLoughboora, r.Dispatch(constants.SupplierUnknown, format).Supplier())
		}
		assert.Equal(t, constants.SupplierAmazon, r.Dispatch(constants.SupplierAmazon, constants.FormatPDF).Supplier())
	})
}

func TestDefault(t *testing.T) {
	out, err := Default().Extract(context.Background(), Input{Text: "anything", Filename: "x.pdf"})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "Unknown", out[0][constants.KeySupplier])
	assert.Equal(t, constants.NotFound, out[0][constants.KeyInvoiceDate])
	assert.Equal(t, constants.NotFound, out[0][constants.KeyTotal])
	assert.Equal(t, constants.ZeroAmount, out[0][constants.KeyVAT23])
}

func TestCoolnagrower(t *testing.T) {
	t.Run("cover page dropped", func(t *testing.T) {
		c := NewCoolnagrower(stubPages{pages: []string{
			"Statement For: Shop\nTOTAL: 999.00",
			"Order Date: 3/4/2024\nTOTAL: 45,50",
			"no date here\nTOTAL: 12.00",
		}}, nil)
		out, err := c.Extract(context.Background(), Input{Filename: "cool.pdf", Path: "/in/cool.pdf"})
		require.NoError(t, err)
		require.Len(t, out, 2)

		assert.Equal(t, "cool.pdf - Page 2", out[0][constants.KeyFilename])
		assert.Equal(t, "3/4/2024", out[0][constants.KeyInvoiceDate])
		assert.Equal(t, "45.50", out[0][constants.KeyVAT0])
		assert.Equal(t, true, out[0][constants.KeyTaxFree])

		assert.Equal(t, "Page 3", out[1][constants.KeyInvoiceDate])
		assert.Equal(t, "12.00", out[1][constants.KeyVAT0])
	})

	t.Run("only a cover page", func(t *testing.T) {
		c := NewCoolnagrower(stubPages{pages: []string{"Statement For: Shop"}}, nil)
		out, err := c.Extract(context.Background(), Input{Filename: "cool.pdf"})
		require.NoError(t, err)
		require.Len(t, out, 1)
		assert.Equal(t, "cool.pdf", out[0][constants.KeyFilename])
		assert.Equal(t, constants.NotFound, out[0][constants.KeyInvoiceDate])
		assert.Equal(t, false, out[0][constants.KeyTaxFree])
		assert.Equal(t, constants.ZeroAmount, out[0][constants.KeyVAT0])
	})

	t.Run("cover marker on a later page is kept", func(t *testing.T) {
		c := NewCoolnagrower(stubPages{pages: []string{"TOTAL: 1.00", "Statement For: Shop"}}, nil)
		out, err := c.Extract(context.Background(), Input{Filename: "cool.pdf"})
		require.NoError(t, err)
		assert.Len(t, out, 2)
	})

	t.Run("no reader", func(t *testing.T) {
		_, err := NewCoolnagrower(nil, nil).Extract(context.Background(), Input{})
		assert.ErrorIs(t, err, errNoPageReader)
	})
}
