package ocr

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"time"
)

// Runner lets us stub external commands in tests.
type Runner interface {
	Run(ctx context.Context, name string, logger *slog.Logger, args ...string) (stdout, stderr []byte, err error)
}

// stderrLogLimit bounds how much tool stderr lands in a single log record.
const stderrLogLimit = 8 << 10

// ToolError describes a failed invocation of an external binary
// (pdftotext, pdftoppm, tesseract, soffice).
type ToolError struct {
	Tool     string
	ExitCode int // -1 when the process never ran or was killed
	Stderr   string
	Err      error
}

func (e *ToolError) Error() string {
	msg := strings.TrimSpace(e.Stderr)
	if msg == "" {
		return fmt.Sprintf("%s failed (exit %d): %v", e.Tool, e.ExitCode, e.Err)
	}
	return fmt.Sprintf("%s failed (exit %d): %s", e.Tool, e.ExitCode, clip(msg, 512))
}

func (e *ToolError) Unwrap() error { return e.Err }

// ExecRunner runs real binaries found on PATH. Dir and Env are optional;
// a zero ExecRunner inherits the working directory and environment.
type ExecRunner struct {
	Dir string
	Env []string
}

func (r ExecRunner) Run(ctx context.Context, name string, logger *slog.Logger, args ...string) ([]byte, []byte, error) {
	if logger == nil {
		logger = slog.Default()
	}
	log := logger.With("tool", name)

	bin, err := exec.LookPath(name)
	if err != nil {
		log.Error("tool not installed", "error", err)
		return nil, nil, &ToolError{Tool: name, ExitCode: -1, Err: err}
	}

	cmd := exec.CommandContext(ctx, bin, args...)
	cmd.Dir = r.Dir
	if len(r.Env) > 0 {
		cmd.Env = append(cmd.Environ(), r.Env...)
	}
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	log.Debug("exec start", "args", strings.Join(args, " "))
	start := time.Now()
	runErr := cmd.Run()
	elapsed := time.Since(start).Milliseconds()

	if runErr == nil {
		log.Debug("exec ok", "duration_ms", elapsed, "stdout_bytes", stdout.Len(), "stderr_bytes", stderr.Len())
		return stdout.Bytes(), stderr.Bytes(), nil
	}

	code := -1
	var exitErr *exec.ExitError
	if errors.As(runErr, &exitErr) {
		code = exitErr.ExitCode()
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		runErr = errors.Join(runErr, ctxErr)
	}
	log.Error("exec failed",
		"duration_ms", elapsed,
		"exit_code", code,
		"error", runErr,
		"stderr", clip(stderr.String(), stderrLogLimit),
	)
	return stdout.Bytes(), stderr.Bytes(), &ToolError{Tool: name, ExitCode: code, Stderr: stderr.String(), Err: runErr}
}

func clip(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "...(truncated)"
}
