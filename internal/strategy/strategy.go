// Package strategy holds the per-supplier extraction routines and the
// registry that dispatches a classified document to one of them.
package strategy

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"

	"github.com/joseph-ayodele/invoice-extractor/constants"
	"github.com/joseph-ayodele/invoice-extractor/internal/common"
	"github.com/joseph-ayodele/invoice-extractor/internal/record"
)

var errNoRecords = errors.New("strategy returned no records")

// Input is everything a strategy may look at. Path is only needed by
// strategies that go back to the source file.
type Input struct {
	Text     string
	Filename string
	Path     string
}

type Strategy interface {
	Supplier() constants.Supplier
	Extract(ctx context.Context, in Input) ([]record.Fields, error)
}

// PageReader re-reads a document page by page with optical recognition.
type PageReader interface {
	OCRPages(ctx context.Context, path string) ([]string, error)
}

// textFunc is the shape of almost every supplier: pure text in, one record out.
type textFunc func(text, filename string) record.Fields

type textStrategy struct {
	supplier constants.Supplier
	fn       textFunc
}

func (s textStrategy) Supplier() constants.Supplier { return s.supplier }

func (s textStrategy) Extract(_ context.Context, in Input) ([]record.Fields, error) {
	return []record.Fields{s.fn(in.Text, in.Filename)}, nil
}

// Run executes s and converts any error or panic into a single
// *common.ExtractionError carrying the supplier and filename.
func Run(ctx context.Context, s Strategy, in Input) (out []record.Fields, err error) {
	defer func() {
		if r := recover(); r != nil {
			out = nil
			err = &common.ExtractionError{
				Supplier: s.Supplier(),
				Filename: in.Filename,
				Cause:    fmt.Errorf("panic: %v\n%s", r, debug.Stack()),
			}
		}
	}()

	out, err = s.Extract(ctx, in)
	if err != nil {
		var extErr *common.ExtractionError
		if errors.As(err, &extErr) {
			return nil, err
		}
		return nil, &common.ExtractionError{Supplier: s.Supplier(), Filename: in.Filename, Cause: err}
	}
	if len(out) == 0 {
		return nil, &common.ExtractionError{Supplier: s.Supplier(), Filename: in.Filename, Cause: errNoRecords}
	}
	return out, nil
}
