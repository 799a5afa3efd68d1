package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"

	"github.com/joseph-ayodele/invoice-extractor/internal/app"
	"github.com/joseph-ayodele/invoice-extractor/internal/common"
	"github.com/joseph-ayodele/invoice-extractor/internal/core/async"
	"github.com/joseph-ayodele/invoice-extractor/internal/export"
	"github.com/joseph-ayodele/invoice-extractor/internal/ingest"
	"github.com/joseph-ayodele/invoice-extractor/internal/ledger"
)

// printError prints an error message to stderr, falling back to stdout if stderr fails
func printError(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		fmt.Printf(format, args...)
	}
}

type summary struct {
	mu         sync.Mutex
	results    []export.Result
	succeeded  int
	failed     int
	appended   int
	duplicates int
}

func main() {
	var (
		dir      = flag.String("dir", "", "directory to process invoices from (required)")
		out      = flag.String("out", "", "output XLSX file path (optional, defaults to parent directory)")
		exts     = flag.String("ext", "", "comma-separated extensions to include (default: every supported format)")
		workers  = flag.Int("workers", 0, "worker count (default BATCH_WORKERS)")
		noLedger = flag.Bool("no-ledger", false, "do not consult or update the duplicate ledger")
	)
	flag.CommandLine.Init(os.Args[0], flag.ContinueOnError)
	if err := flag.CommandLine.Parse(os.Args[1:]); err != nil {
		os.Exit(1)
	}

	if *dir == "" {
		printError("Error: --dir is required\n")
		os.Exit(1)
	}
	if *out == "" {
		*out = filepath.Join(filepath.Dir(filepath.Clean(*dir)), "invoices.xlsx")
	}

	cfg := common.LoadConfig()
	if *workers > 0 {
		cfg.Batch.Workers = *workers
	}
	if err := cfg.Validate(); err != nil {
		printError("Error: %v\n", err)
		os.Exit(1)
	}
	logger := common.NewLogger(os.Stderr, cfg.Log.Level, cfg.Log.Format)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = common.WithRunID(ctx, "")
	runID := common.RunIDFromContext(ctx)

	var recorder *ledger.Recorder
	if !*noLedger {
		l, err := ledger.Open(ctx, cfg.Ledger, logger)
		if err != nil {
			logger.Error("failed to open ledger", "error", err)
			os.Exit(1)
		}
		defer l.Close()
		recorder = ledger.NewRecorder(l, logger)
	}

	logger.Info("starting scan", "dir", *dir, "run_id", runID)
	scanned, stats, err := ingest.ScanDirectory(ctx, *dir, splitList(*exts), true)
	if err != nil {
		logger.Error("failed to scan directory", "error", err)
		os.Exit(1)
	}
	pending := ingest.Pending(scanned)
	logger.Info("scan complete",
		"scanned", stats.Scanned,
		"matched", stats.Matched,
		"succeeded", stats.Succeeded,
		"failed", stats.Failed,
		"deduplicated", stats.Deduplicated,
		"pending", len(pending))

	pipeline := app.NewPipeline(cfg, logger)
	sum := &summary{}

	queue := async.NewBatchQueue(pipeline.Processor, logger,
		async.WithWorkers(cfg.Batch.Workers),
		async.WithQueueSize(cfg.Batch.QueueSize),
		async.WithProcessTimeout(cfg.Batch.DocumentTimeout),
		async.WithResultHandler(func(ctx context.Context, r async.Result) {
			res := export.Result{SourcePath: r.Job.Path, Envelope: r.Envelope}
			if r.Envelope.Success && recorder != nil {
				res.LedgerOutcome = recordAll(ctx, recorder, r, sum, logger)
			}
			sum.mu.Lock()
			defer sum.mu.Unlock()
			if r.Envelope.Success {
				sum.succeeded++
			} else {
				sum.failed++
			}
			sum.results = append(sum.results, res)
		}),
	)

	for _, path := range pending {
		if err := queue.Enqueue(ctx, async.Job{Path: path, RunID: runID}); err != nil {
			logger.Error("enqueue failed", "path", path, "error", err)
			break
		}
	}
	if err := queue.Shutdown(context.Background()); err != nil {
		logger.Error("queue shutdown", "error", err)
	}

	xlsx, err := export.NewService(logger).RecordsXLSX(context.Background(), sum.results)
	if err != nil {
		logger.Error("failed to export results", "error", err)
		os.Exit(1)
	}
	if err := os.WriteFile(*out, xlsx, 0o644); err != nil {
		logger.Error("failed to write output file", "error", err)
		os.Exit(1)
	}

	logger.Info("batch processing complete",
		"run_id", runID,
		"processed", len(sum.results),
		"failures", sum.failed,
		"output_file", *out)

	fmt.Printf("Batch processing complete!\n")
	fmt.Printf("- Files scanned: %d (duplicates by content: %d)\n", stats.Matched, stats.Deduplicated)
	fmt.Printf("- Documents processed: %d\n", sum.succeeded)
	fmt.Printf("- Failures: %d\n", sum.failed)
	if recorder != nil {
		fmt.Printf("- Ledger: %d appended, %d already present\n", sum.appended, sum.duplicates)
	}
	fmt.Printf("- Output: %s\n", *out)

	if sum.failed > 0 {
		os.Exit(1)
	}
}

// recordAll books every record of a successful envelope and returns the
// outcome to show in the export.
func recordAll(ctx context.Context, rec *ledger.Recorder, r async.Result, sum *summary, logger *slog.Logger) string {
	outcome := ledger.OutcomeDuplicate
	for _, c := range r.Envelope.Records {
		appended, err := rec.Record(ctx, ledger.EntryFromRecord(c, r.Job.Path))
		sum.mu.Lock()
		switch {
		case err != nil:
			logger.Error("ledger write failed", "path", r.Job.Path, "error", err)
			outcome = ledger.OutcomeError
		case appended:
			sum.appended++
			if outcome != ledger.OutcomeError {
				outcome = ledger.OutcomeAppended
			}
		default:
			sum.duplicates++
		}
		sum.mu.Unlock()
	}
	return outcome
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
