package ledger

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"sync"

	"github.com/gocarina/gocsv"
)

var errStopScan = errors.New("stop scan")

// CSV is the file ledger. The header is written only when the file is new
// or empty.
type CSV struct {
	path   string
	logger *slog.Logger
	mu     sync.Mutex
}

// NewCSV returns a ledger backed by the CSV file at path. The file is
// created, header first, on the first Append.
func NewCSV(path string, logger *slog.Logger) *CSV {
	if logger == nil {
		logger = slog.Default()
	}
	return &CSV{path: path, logger: logger}
}

type filenameRow struct {
	Filename string `csv:"Filename"`
}

// Contains scans the file; a missing file contains nothing.
func (l *CSV) Contains(_ context.Context, filename string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	f, err := os.Open(l.path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("open ledger: %w", err)
	}
	defer f.Close()

	if info, err := f.Stat(); err == nil && info.Size() == 0 {
		return false, nil
	}

	found := false
	err = gocsv.UnmarshalToCallbackWithError(f, func(row filenameRow) error {
		if row.Filename == filename {
			found = true
			return errStopScan
		}
		return nil
	})
	if err != nil && !errors.Is(err, errStopScan) {
		return false, fmt.Errorf("read ledger: %w", err)
	}
	return found, nil
}

// Append writes one row, plus the header when the file is new.
func (l *CSV) Append(_ context.Context, e Entry) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open ledger: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat ledger: %w", err)
	}

	rows := []Entry{e}
	if info.Size() == 0 {
		err = gocsv.Marshal(&rows, f)
	} else {
		err = gocsv.MarshalWithoutHeaders(&rows, f)
	}
	if err != nil {
		return fmt.Errorf("write ledger: %w", err)
	}
	l.logger.Debug("ledger row written", "filename", e.Filename, "path", l.path)
	return nil
}

// Entries reads the whole ledger.
func (l *CSV) Entries() ([]Entry, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	f, err := os.Open(l.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open ledger: %w", err)
	}
	defer f.Close()

	var rows []Entry
	if err := gocsv.UnmarshalFile(f, &rows); err != nil {
		if errors.Is(err, gocsv.ErrEmptyCSVFile) {
			return nil, nil
		}
		return nil, fmt.Errorf("read ledger: %w", err)
	}
	return rows, nil
}

func (l *CSV) Close() error { return nil }
