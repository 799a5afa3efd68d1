// Package splitter counts, previews and splits multi-invoice PDFs.
package splitter

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/joseph-ayodele/invoice-extractor/constants"
	"github.com/joseph-ayodele/invoice-extractor/internal/common"
	"github.com/joseph-ayodele/invoice-extractor/internal/core/ocr"
)

const (
	thumbnailDPI     = 150
	thumbnailBox     = 280
	thumbnailQuality = 85
	thumbnailWorkers = 4
)

// Document is the PDF surface the splitter needs.
type Document interface {
	PageCount(path string) (int, error)
	// Extract writes pages first..last (1-based, inclusive) of in to out.
	Extract(in, out string, first, last int) error
}

type pdfcpuDocument struct {
	conf *model.Configuration
}

func newPdfcpuDocument() pdfcpuDocument {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return pdfcpuDocument{conf: conf}
}

func (d pdfcpuDocument) PageCount(path string) (int, error) {
	return api.PageCountFile(path)
}

func (d pdfcpuDocument) Extract(in, out string, first, last int) error {
	return api.TrimFile(in, out, []string{fmt.Sprintf("%d-%d", first, last)}, d.conf)
}

// Splitter wraps pdfcpu for page work and pdftoppm for rendering.
type Splitter struct {
	doc      Document
	runner   ocr.Runner
	pdftoppm string
	logger   *slog.Logger
}

type Option func(*Splitter)

func WithRunner(r ocr.Runner) Option {
	return func(s *Splitter) { s.runner = r }
}

func WithDocument(d Document) Option {
	return func(s *Splitter) { s.doc = d }
}

// WithPdftoppm sets the pdftoppm binary used for thumbnails.
func WithPdftoppm(bin string) Option {
	return func(s *Splitter) {
		if bin != "" {
			s.pdftoppm = bin
		}
	}
}

func New(logger *slog.Logger, opts ...Option) *Splitter {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Splitter{
		doc:      newPdfcpuDocument(),
		runner:   ocr.ExecRunner{},
		pdftoppm: "pdftoppm",
		logger:   logger,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// PageCount returns the number of pages in path.
func (s *Splitter) PageCount(path string) (int, error) {
	if err := checkFile(path); err != nil {
		return 0, err
	}
	n, err := s.doc.PageCount(path)
	if err != nil {
		return 0, common.WrapError(err, "count pages")
	}
	s.logger.Info("pdf page count", "file", path, "pages", n)
	return n, nil
}

// Range is an inclusive 1-based page range.
type Range struct {
	First, Last int
	raw         string
}

// ParseRange accepts "3" or "2-4".
func ParseRange(s string) (Range, error) {
	raw := strings.TrimSpace(s)
	first, last, isSpan := strings.Cut(raw, "-")
	a, err := strconv.Atoi(strings.TrimSpace(first))
	if err != nil {
		return Range{}, fmt.Errorf("invalid page range %q", s)
	}
	b := a
	if isSpan {
		if b, err = strconv.Atoi(strings.TrimSpace(last)); err != nil {
			return Range{}, fmt.Errorf("invalid page range %q", s)
		}
	}
	return Range{First: a, Last: b, raw: raw}, nil
}

func (r Range) String() string {
	if r.raw != "" {
		return r.raw
	}
	if r.First == r.Last {
		return strconv.Itoa(r.First)
	}
	return fmt.Sprintf("%d-%d", r.First, r.Last)
}

func (r Range) valid(total int) bool {
	return r.First >= 1 && r.Last <= total && r.First <= r.Last
}

// OutputName is "{stem}_pages_{range}.pdf" with "-" spelled "_to_".
func OutputName(src string, r Range) string {
	stem := strings.TrimSuffix(filepath.Base(src), filepath.Ext(src))
	return stem + "_pages_" + strings.ReplaceAll(r.String(), "-", "_to_") + ".pdf"
}

// Split writes one PDF per range into outDir and returns the created paths.
// Ranges that do not parse or fall outside the document are logged and
// skipped.
func (s *Splitter) Split(ctx context.Context, path, outDir string, ranges []string) ([]string, error) {
	if outDir == "" || len(ranges) == 0 {
		return nil, common.NewAppError(constants.CodeInvalidArgument,
			"Output directory and page ranges are required for split action", common.ErrInvalidInput)
	}
	total, err := s.PageCount(path)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	var out []string
	for _, raw := range ranges {
		if err := ctx.Err(); err != nil {
			return out, err
		}
		r, err := ParseRange(raw)
		if err != nil {
			s.logger.Error("skipping range", "range", raw, "error", err)
			continue
		}
		if !r.valid(total) {
			s.logger.Error("invalid page range", "range", raw, "pages", total)
			continue
		}
		dst := filepath.Join(outDir, OutputName(path, r))
		if err := s.doc.Extract(path, dst, r.First, r.Last); err != nil {
			s.logger.Error("split failed", "range", raw, "error", err)
			continue
		}
		s.logger.Info("created split file", "path", dst, "range", r.String())
		out = append(out, dst)
	}
	return out, nil
}

func checkFile(path string) error {
	if _, err := os.Stat(path); err != nil {
		return common.NewAppError(constants.CodeFileNotFound, "File not found: "+path, common.ErrNotFound)
	}
	return nil
}
