// Package app wires the pipeline from configuration for the commands.
package app

import (
	"log/slog"

	"github.com/joseph-ayodele/invoice-extractor/internal/classify"
	"github.com/joseph-ayodele/invoice-extractor/internal/common"
	"github.com/joseph-ayodele/invoice-extractor/internal/convert"
	"github.com/joseph-ayodele/invoice-extractor/internal/core"
	"github.com/joseph-ayodele/invoice-extractor/internal/core/acquire"
	"github.com/joseph-ayodele/invoice-extractor/internal/core/ocr"
	"github.com/joseph-ayodele/invoice-extractor/internal/strategy"
)

// Pipeline holds the collaborators a command may want to reach directly.
type Pipeline struct {
	OCR       *ocr.Extractor
	Acquirer  *acquire.Service
	Registry  *strategy.Registry
	Processor *core.Processor
}

func ocrConfig(cfg *common.Config) ocr.Config {
	return ocr.Config{
		Pdftotext:   cfg.OCR.Pdftotext,
		Pdftoppm:    cfg.OCR.Pdftoppm,
		Tesseract:   cfg.OCR.Tesseract,
		Lang:        cfg.OCR.Lang,
		DPI:         cfg.OCR.DPI,
		PSM:         cfg.OCR.PSM,
		MaxPages:    cfg.OCR.MaxPages,
		TessdataDir: cfg.OCR.TessdataDir,
	}
}

// NewPipeline builds the full document processor from cfg.
func NewPipeline(cfg *common.Config, logger *slog.Logger, opts ...core.Option) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	extractor := ocr.NewExtractor(ocrConfig(cfg), logger)
	converter := convert.NewLibreOffice(convert.Config{
		Binary:  cfg.Converter.Binary,
		Timeout: cfg.Converter.Timeout,
	}, extractor.Runner(), logger)
	acquirer := acquire.NewService(extractor, converter, logger, acquire.WithWorkDir(cfg.Converter.WorkDir))

	registry := strategy.NewRegistry(extractor, logger)
	classifier := classify.New(registry, logger)

	return &Pipeline{
		OCR:       extractor,
		Acquirer:  acquirer,
		Registry:  registry,
		Processor: core.NewProcessor(acquirer, classifier, registry, logger, opts...),
	}
}
