package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joseph-ayodele/invoice-extractor/internal/app"
	"github.com/joseph-ayodele/invoice-extractor/internal/classify"
	"github.com/joseph-ayodele/invoice-extractor/internal/common"
	"github.com/joseph-ayodele/invoice-extractor/internal/core/acquire"
)

func main() {
	cfg := common.LoadConfig()
	logger := common.NewLogger(os.Stderr, cfg.Log.Level, cfg.Log.Format)
	slog.SetDefault(logger)

	if len(os.Args) != 2 {
		logger.Error("usage", "cmd", "runocr <file>")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	doc, err := acquire.Open(os.Args[1])
	if err != nil {
		logger.Error("open document", "path", os.Args[1], "error", err)
		os.Exit(1)
	}

	p := app.NewPipeline(cfg, logger)
	start := time.Now()
	res := p.Acquirer.Acquire(ctx, doc)
	dur := time.Since(start)

	if res.Cause != nil {
		logger.Error("text extraction failed", "method", res.Method, "error", res.Cause, "duration_ms", dur.Milliseconds())
		os.Exit(1)
	}

	supplier := classify.New(p.Registry, logger).Identify(res.Text)
	logger.Info("text extraction OK",
		"method", res.Method,
		"parsing_method", res.ParsingMethod,
		"pages", res.Pages,
		"bytes", len(res.Text),
		"supplier", supplier,
		"warnings", len(res.Warnings),
		"duration_ms", dur.Milliseconds(),
	)
	fmt.Println(res.Text)
}
