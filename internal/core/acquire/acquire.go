package acquire

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joseph-ayodele/invoice-extractor/constants"
	"github.com/joseph-ayodele/invoice-extractor/internal/common"
	"github.com/joseph-ayodele/invoice-extractor/internal/core/ocr"
)

// PDFExtractor reads a PDF, falling back to OCR internally.
type PDFExtractor interface {
	ExtractPDF(ctx context.Context, path string, content []byte) (ocr.Result, error)
}

// Converter turns legacy office files into modern ones.
type Converter interface {
	Convert(ctx context.Context, path, targetExt, outDir string) (string, error)
}

type Service struct {
	pdf     PDFExtractor
	conv    Converter
	workDir string
	logger  *slog.Logger
}

type Option func(*Service)

// WithWorkDir sets the parent directory for conversion scratch space.
func WithWorkDir(dir string) Option {
	return func(s *Service) { s.workDir = dir }
}

func NewService(pdf PDFExtractor, conv Converter, logger *slog.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Service{pdf: pdf, conv: conv, logger: logger}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Acquire never returns an error: every failure is reported through
// ExtractedText.Method == failed with the cause attached.
func (s *Service) Acquire(ctx context.Context, doc Document) (out ExtractedText) {
	start := time.Now()
	logger := s.logger.With("filename", doc.Filename, "format", string(doc.Format))

	defer func() {
		if r := recover(); r != nil {
			out = failed(constants.ParsingUnknown, fmt.Errorf("acquire panic: %v", r))
		}
		if out.Method == constants.MethodFailed {
			logger.Warn("text acquisition failed", "error", out.Cause, "duration_ms", time.Since(start).Milliseconds())
			return
		}
		logger.Info("text acquired",
			"method", string(out.Method),
			"parsing_method", out.ParsingMethod,
			"pages", out.Pages,
			"chars", len(out.Text),
			"duration_ms", time.Since(start).Milliseconds(),
		)
	}()

	switch doc.Format {
	case constants.FormatPDF:
		return s.acquirePDF(ctx, doc)
	case constants.FormatWord:
		return acquireWord(doc.Content)
	case constants.FormatLegacyWord:
		return s.acquireConverted(ctx, doc, "docx", constants.ParsingWord, func(path string) ExtractedText {
			data, err := os.ReadFile(path)
			if err != nil {
				return failed(constants.ParsingWord, err)
			}
			return acquireWord(data)
		})
	case constants.FormatSpreadsheet:
		return acquireSpreadsheet(doc.Content)
	case constants.FormatLegacySpreadsheet:
		return s.acquireConverted(ctx, doc, "xlsx", constants.ParsingSpreadsheet, func(path string) ExtractedText {
			data, err := os.ReadFile(path)
			if err != nil {
				return failed(constants.ParsingSpreadsheet, err)
			}
			return acquireSpreadsheet(data)
		})
	default:
		return failed(constants.ParsingUnknown, fmt.Errorf("%w: %q", common.ErrUnsupportedFormat, doc.Filename))
	}
}

func (s *Service) acquirePDF(ctx context.Context, doc Document) ExtractedText {
	if s.pdf == nil {
		return failed(constants.ParsingUnknown, fmt.Errorf("no pdf extractor configured"))
	}
	res, err := s.pdf.ExtractPDF(ctx, doc.Path, doc.Content)
	if err != nil {
		return ExtractedText{
			Method:        constants.MethodFailed,
			ParsingMethod: constants.ParsingOCR,
			Warnings:      res.Warnings,
			Cause:         err,
		}
	}

	parsing := constants.ParsingNative
	if res.Method == constants.MethodOptical {
		parsing = constants.ParsingOCR
	}
	out := ExtractedText{
		Text:          res.Text,
		Method:        res.Method,
		ParsingMethod: parsing,
		Pages:         res.Pages,
		Warnings:      res.Warnings,
	}
	if strings.TrimSpace(out.Text) == "" {
		out.Method = constants.MethodFailed
		out.Cause = common.ErrNoText
	}
	return out
}

func (s *Service) acquireConverted(ctx context.Context, doc Document, target, parsing string, read func(string) ExtractedText) ExtractedText {
	if s.conv == nil {
		return failed(parsing, fmt.Errorf("no converter configured for %s", doc.Filename))
	}
	dir, err := os.MkdirTemp(s.workDir, "inv-conv-*")
	if err != nil {
		return failed(parsing, err)
	}
	defer func() {
		if err := os.RemoveAll(dir); err != nil {
			s.logger.Warn("failed to remove temp dir", "path", dir, "error", err)
		}
	}()

	converted, err := s.conv.Convert(ctx, doc.Path, target, dir)
	if err != nil {
		return failed(parsing, err)
	}
	return read(converted)
}
