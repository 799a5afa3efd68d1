// Package convert turns legacy office formats into their modern equivalents
// with a headless LibreOffice.
package convert

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joseph-ayodele/invoice-extractor/internal/core/ocr"
)

var ErrNoOutput = errors.New("converter produced no output")

type Config struct {
	Binary  string        // default "libreoffice"
	Timeout time.Duration // 0 = no limit
}

type LibreOffice struct {
	cfg    Config
	runner ocr.Runner
	logger *slog.Logger
}

func NewLibreOffice(cfg Config, runner ocr.Runner, logger *slog.Logger) *LibreOffice {
	if logger == nil {
		logger = slog.Default()
	}
	if runner == nil {
		runner = ocr.ExecRunner{}
	}
	if cfg.Binary == "" {
		cfg.Binary = "libreoffice"
	}
	return &LibreOffice{cfg: cfg, runner: runner, logger: logger}
}

// Convert writes path converted to targetExt ("docx", "xlsx") into outDir and
// returns the converted file's path.
func (c *LibreOffice) Convert(ctx context.Context, path, targetExt, outDir string) (string, error) {
	targetExt = strings.TrimPrefix(strings.ToLower(targetExt), ".")
	if targetExt == "" {
		return "", fmt.Errorf("convert %s: empty target extension", path)
	}
	if outDir == "" {
		return "", fmt.Errorf("convert %s: empty output dir", path)
	}

	if c.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.cfg.Timeout)
		defer cancel()
	}

	start := time.Now()
	// libreoffice --headless --convert-to docx --outdir <dir> <file>
	_, errb, err := c.runner.Run(ctx, c.cfg.Binary, c.logger,
		"--headless", "--convert-to", targetExt, "--outdir", outDir, path)
	if err != nil {
		return "", fmt.Errorf("convert %s to %s: %w: %s", filepath.Base(path), targetExt, err, strings.TrimSpace(string(errb)))
	}

	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	out := filepath.Join(outDir, stem+"."+targetExt)
	if _, err := os.Stat(out); err != nil {
		return "", fmt.Errorf("convert %s: %w", filepath.Base(path), ErrNoOutput)
	}

	c.logger.Debug("document converted",
		"path", path,
		"output", out,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return out, nil
}
