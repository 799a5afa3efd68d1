package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joseph-ayodele/invoice-extractor/internal/app"
	"github.com/joseph-ayodele/invoice-extractor/internal/common"
	"github.com/joseph-ayodele/invoice-extractor/internal/core"
	"github.com/joseph-ayodele/invoice-extractor/internal/ledger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run returns the process exit status: 0 when the envelope reports success,
// 1 for everything else, bad flags included.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("invoice-parser", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		file   = fs.String("file", "", "path to invoice file (required)")
		output = fs.String("output", "json", "output format: json or text")
		debug  = fs.Bool("debug", false, "enable debug logging")
		record = fs.Bool("record", false, "append new records to the duplicate ledger")
	)
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 1
	}

	v := common.NewValidator().
		Field("file", *file, common.Required).
		Field("output", *output, common.OneOf("json", "text"))
	if err := v.Error(); err != nil {
		fmt.Fprintln(stderr, err)
		fs.Usage()
		return 1
	}

	cfg := common.LoadConfig()
	level := "error"
	if *debug {
		level = "debug"
	}
	logger := common.NewLogger(stderr, level, cfg.Log.Format)

	pipeline := app.NewPipeline(cfg, logger)
	env := pipeline.Processor.Process(ctx, *file)

	if *debug {
		if err := core.ValidateEnvelope(env); err != nil {
			logger.Warn("envelope does not match schema", "error", err)
		}
	}

	if *record && env.Success {
		if err := recordEnvelope(ctx, cfg, env, *file, logger); err != nil {
			logger.Error("ledger write failed", "error", err)
			env.Warnings = append(env.Warnings, fmt.Sprintf("Ledger write failed: %v", err))
		}
	}

	switch *output {
	case "text":
		fmt.Fprint(stdout, env.Summary())
	default:
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(env); err != nil {
			logger.Error("encode envelope", "error", err)
			return 1
		}
	}

	if !env.Success {
		return 1
	}
	return 0
}

func recordEnvelope(ctx context.Context, cfg *common.Config, env *core.Envelope, path string, logger *slog.Logger) error {
	l, err := ledger.Open(ctx, cfg.Ledger, logger)
	if err != nil {
		return err
	}
	defer l.Close()

	rec := ledger.NewRecorder(l, logger)
	for _, c := range env.Records {
		appended, err := rec.Record(ctx, ledger.EntryFromRecord(c, path))
		if err != nil {
			return err
		}
		if !appended {
			logger.Info("already in ledger", "filename", c.Filename)
		}
	}
	return nil
}
