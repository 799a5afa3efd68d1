// Package core runs one document through acquisition, classification,
// extraction, normalization and anomaly detection.
package core

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"runtime/debug"
	"strings"
	"time"

	"github.com/joseph-ayodele/invoice-extractor/constants"
	"github.com/joseph-ayodele/invoice-extractor/internal/anomaly"
	"github.com/joseph-ayodele/invoice-extractor/internal/common"
	"github.com/joseph-ayodele/invoice-extractor/internal/core/acquire"
	"github.com/joseph-ayodele/invoice-extractor/internal/normalize"
	"github.com/joseph-ayodele/invoice-extractor/internal/record"
	"github.com/joseph-ayodele/invoice-extractor/internal/strategy"
)

type Acquirer interface {
	Acquire(ctx context.Context, doc acquire.Document) acquire.ExtractedText
}

type Classifier interface {
	Identify(text string) constants.Supplier
}

type Dispatcher interface {
	Dispatch(id constants.Supplier, format constants.Format) strategy.Strategy
}

// Observer receives one call per processed document.
type Observer interface {
	ObserveDocument(env *Envelope, elapsed time.Duration)
}

// Processor sequences the pipeline for a single document.
type Processor struct {
	acquirer   Acquirer
	classifier Classifier
	dispatcher Dispatcher
	normalizer *normalize.Normalizer
	detector   *anomaly.Detector
	observer   Observer
	logger     *slog.Logger
	now        func() time.Time
}

type Option func(*Processor)

// WithMetrics reports every processed document to o.
func WithMetrics(o Observer) Option {
	return func(p *Processor) { p.observer = o }
}

func WithClock(now func() time.Time) Option {
	return func(p *Processor) {
		if now != nil {
			p.now = now
		}
	}
}

func NewProcessor(acquirer Acquirer, classifier Classifier, dispatcher Dispatcher, logger *slog.Logger, opts ...Option) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	p := &Processor{
		acquirer:   acquirer,
		classifier: classifier,
		dispatcher: dispatcher,
		normalizer: normalize.New(logger),
		detector:   anomaly.NewDetector(logger),
		logger:     logger,
		now:        time.Now,
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

// Process never fails: every outcome, including a panic further down, is
// reported in the returned envelope.
func (p *Processor) Process(ctx context.Context, path string) (env *Envelope) {
	start := p.now()
	env = newEnvelope(filepath.Base(path))
	logger := p.logger.With("filename", env.Metadata.Filename)

	defer func() {
		if r := recover(); r != nil {
			env.fail(constants.CodeParseError, fmt.Sprintf("unexpected failure: %v", r), string(debug.Stack()))
		}
		elapsed := p.now().Sub(start)
		env.Metadata.ProcessingTime = elapsed.Seconds()
		if p.observer != nil {
			p.observer.ObserveDocument(env, elapsed)
		}
		if env.Success {
			logger.Info("document processed",
				"supplier", env.Metadata.SupplierDetected,
				"records", len(env.Records),
				"warnings", len(env.Warnings),
				"confidence", env.Confidence,
				"duration_ms", elapsed.Milliseconds(),
			)
		} else {
			logger.Warn("document failed", "code", env.FirstErrorCode(), "duration_ms", elapsed.Milliseconds())
		}
	}()

	doc, err := acquire.Open(path)
	if err != nil {
		var appErr *common.AppError
		if errors.As(err, &appErr) {
			env.fail(appErr.Code, appErr.Message, "")
		} else {
			env.fail(constants.CodeFileNotFound, err.Error(), "")
		}
		return env
	}

	text := p.acquirer.Acquire(ctx, doc)
	env.Metadata.ParsingMethod = text.ParsingMethod
	env.Metadata.OCRUsed = text.OCRUsed()
	if text.Method == constants.MethodFailed || strings.TrimSpace(text.Text) == "" {
		detail := ""
		if text.Cause != nil {
			detail = errorChain(text.Cause)
		}
		env.fail(constants.CodeNoTextExtracted, fmt.Sprintf("No text could be extracted from %s", doc.Filename), detail)
		return env
	}

	supplier := p.classifier.Identify(text.Text)
	env.Metadata.SupplierDetected = string(supplier)
	s := p.dispatcher.Dispatch(supplier, doc.Format)
	logger.Debug("strategy selected", "supplier", supplier, "strategy", s.Supplier())

	raw, err := strategy.Run(ctx, s, strategy.Input{Text: text.Text, Filename: doc.Filename, Path: doc.Path})
	if err != nil {
		env.fail(constants.CodeParseError, err.Error(), errorChain(err))
		return env
	}

	p.assemble(env, raw)
	return env
}

// assemble normalizes every record in order. data is the last record;
// confidence drops if any record is anomalous.
func (p *Processor) assemble(env *Envelope, raw []record.Fields) {
	records := make([]record.Canonical, 0, len(raw))
	anomalous := false
	for i, f := range raw {
		c, err := p.normalizer.Normalize(f)
		if err != nil {
			err = fmt.Errorf("normalize record %d: %w", i+1, err)
			env.fail(constants.CodeParseError, err.Error(), errorChain(err))
			return
		}
		report := p.detector.Detect(c)
		env.Warnings = append(env.Warnings, report.Warnings...)
		anomalous = anomalous || report.HasAnomalies
		records = append(records, c)
	}

	env.Records = records
	env.Data = &env.Records[len(env.Records)-1]
	env.Success = true
	env.Confidence = anomaly.Report{HasAnomalies: anomalous}.Confidence()
}
