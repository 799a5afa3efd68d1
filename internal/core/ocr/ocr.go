package ocr

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/joseph-ayodele/invoice-extractor/constants"
)

type Config struct {
	Pdftotext string // binary name or absolute path; if empty -> "pdftotext"
	Pdftoppm  string // binary name or absolute path; if empty -> "pdftoppm"
	Tesseract string // binary name or absolute path; if empty -> "tesseract"

	Lang     string // default "eng"
	DPI      int    // rasterization DPI for scanned PDFs, default 400
	PSM      int    // tesseract page segmentation mode, default 6 (uniform block)
	MaxPages int    // 0 = no limit

	TessdataDir string
}

type Result struct {
	Text     string
	Pages    int
	Method   constants.Method
	Duration time.Duration
	Warnings []string
}

type Extractor struct {
	cfg    Config
	runner Runner
	logger *slog.Logger
}

type Option func(*Extractor)

// WithRunner swaps the command runner, mostly for tests.
func WithRunner(r Runner) Option {
	return func(e *Extractor) {
		if r != nil {
			e.runner = r
		}
	}
}

func NewExtractor(cfg Config, logger *slog.Logger, opts ...Option) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Pdftotext == "" {
		cfg.Pdftotext = "pdftotext"
	}
	if cfg.Pdftoppm == "" {
		cfg.Pdftoppm = "pdftoppm"
	}
	if cfg.Tesseract == "" {
		cfg.Tesseract = "tesseract"
	}
	if cfg.Lang == "" {
		cfg.Lang = "eng"
	}
	if cfg.DPI <= 0 {
		cfg.DPI = 400
	}
	if cfg.PSM <= 0 {
		cfg.PSM = 6
	}
	e := &Extractor{cfg: cfg, runner: ExecRunner{}, logger: logger}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Runner exposes the command runner so collaborators can share it.
func (e *Extractor) Runner() Runner { return e.runner }

// ExtractPDF reads the text layer of a PDF and falls back to OCR when the
// layer is empty or unreadable. content may be nil, in which case the file
// is read from path when the in-process reader needs it.
func (e *Extractor) ExtractPDF(ctx context.Context, path string, content []byte) (Result, error) {
	start := time.Now()
	e.logger.Debug("starting pdf extraction", "path", path)

	text, pages, warns := e.nativeText(ctx, path, content)
	if strings.TrimSpace(text) != "" {
		return Result{
			Text:     text,
			Pages:    pages,
			Method:   constants.MethodNative,
			Duration: time.Since(start),
			Warnings: warns,
		}, nil
	}

	e.logger.Info("no text layer, falling back to ocr", "path", path)
	pageTexts, err := e.OCRPages(ctx, path)
	if err != nil {
		return Result{Method: constants.MethodFailed, Duration: time.Since(start), Warnings: warns}, err
	}
	return Result{
		Text:     strings.Join(pageTexts, "\n"),
		Pages:    len(pageTexts),
		Method:   constants.MethodOptical,
		Duration: time.Since(start),
		Warnings: warns,
	}, nil
}

// OCRPages rasterizes every page and returns the recognized text per page.
func (e *Extractor) OCRPages(ctx context.Context, path string) ([]string, error) {
	images, cleanup, err := e.rasterize(ctx, path)
	if cleanup != nil {
		defer cleanup()
	}
	if err != nil {
		return nil, err
	}

	out := make([]string, 0, len(images))
	for i, img := range images {
		txt, err := e.tesseractOCR(ctx, img)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", i+1, err)
		}
		out = append(out, txt)
	}
	e.logger.Debug("ocr complete", "path", path, "pages", len(out))
	return out, nil
}
