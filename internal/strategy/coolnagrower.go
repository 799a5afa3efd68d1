package strategy

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/joseph-ayodele/invoice-extractor/constants"
	"github.com/joseph-ayodele/invoice-extractor/internal/record"
)

var (
	reCoolnaDate  = regexp.MustCompile(`Order Date:\s*(\d{1,2}/\d{1,2}/\d{4})`)
	reCoolnaTotal = regexp.MustCompile(`TOTAL:\s*([0-9]+(?:[.,][0-9]{2}))`)
)

const coolnaCoverMarker = "Statement For:"

var errNoPageReader = errors.New("no page reader configured")

// Coolnagrower sends one scanned statement holding several invoices, one per
// page, behind a statement cover page. Each page is recognized again on its
// own and becomes its own record.
type Coolnagrower struct {
	pages  PageReader
	logger *slog.Logger
}

func NewCoolnagrower(pages PageReader, logger *slog.Logger) *Coolnagrower {
	if logger == nil {
		logger = slog.Default()
	}
	return &Coolnagrower{pages: pages, logger: logger}
}

func (c *Coolnagrower) Supplier() constants.Supplier { return constants.SupplierCoolnagrower }

func (c *Coolnagrower) Extract(ctx context.Context, in Input) ([]record.Fields, error) {
	if c.pages == nil {
		return nil, errNoPageReader
	}
	pages, err := c.pages.OCRPages(ctx, in.Path)
	if err != nil {
		return nil, fmt.Errorf("ocr pages: %w", err)
	}
	return coolnagrowerRecords(pages, in.Filename, c.logger), nil
}

func coolnagrowerRecords(pages []string, filename string, logger *slog.Logger) []record.Fields {
	var out []record.Fields
	for i, page := range pages {
		pageNo := i + 1
		if i == 0 && strings.Contains(page, coolnaCoverMarker) {
			logger.Debug("skipping statement cover page", "filename", filename, "page", pageNo)
			continue
		}

		f := record.NewFields(fmt.Sprintf("%s - Page %d", filename, pageNo), "Coolnagrower")
		f[constants.KeyTaxFree] = true
		f[constants.KeyInvoiceDate] = fmt.Sprintf("Page %d", pageNo)
		if raw, ok := firstGroup(reCoolnaDate, page); ok {
			f[constants.KeyInvoiceDate] = raw
		}
		if raw, ok := firstGroup(reCoolnaTotal, page); ok {
			if total, ok := europeanAmount(raw); ok {
				f.SetAmount(constants.KeyVAT0, total)
			}
		}
		out = append(out, f)
	}

	if len(out) == 0 {
		return []record.Fields{record.NewFields(filename, "Coolnagrower")}
	}
	return out
}
