package strategy

import (
	"github.com/joseph-ayodele/invoice-extractor/constants"
	"github.com/joseph-ayodele/invoice-extractor/internal/record"
)

// Default returns the strategy used when no supplier was recognized. It
// extracts nothing and leaves every field at its sentinel.
func Default() Strategy {
	return textStrategy{supplier: constants.SupplierUnknown, fn: extractDefault}
}

func extractDefault(_ string, filename string) record.Fields {
	f := record.NewFields(filename, "Unknown")
	f[constants.KeyTotal] = constants.NotFound
	return f
}
