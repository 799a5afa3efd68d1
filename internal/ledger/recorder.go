package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
)

// Outcomes reported by Recorder.Record.
const (
	OutcomeAppended  = "appended"
	OutcomeDuplicate = "duplicate"
	OutcomeError     = "error"
)

// Recorder serializes the check-then-append sequence per filename so two
// concurrent runs cannot both decide a file is new.
type Recorder struct {
	ledger  Ledger
	logger  *slog.Logger
	observe func(outcome string)

	mu    sync.Mutex
	locks map[string]*keyLock
}

type keyLock struct {
	mu   sync.Mutex
	refs int
}

// RecorderOption configures a Recorder.
type RecorderOption func(*Recorder)

// WithObserver is called once per Record with its outcome.
func WithObserver(fn func(outcome string)) RecorderOption {
	return func(r *Recorder) { r.observe = fn }
}

// NewRecorder wraps l; a nil logger uses slog.Default().
func NewRecorder(l Ledger, logger *slog.Logger, opts ...RecorderOption) *Recorder {
	if logger == nil {
		logger = slog.Default()
	}
	r := &Recorder{
		ledger:  l,
		logger:  logger,
		observe: func(string) {},
		locks:   make(map[string]*keyLock),
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Record appends e unless its filename is already in the ledger. It reports
// whether a row was written.
func (r *Recorder) Record(ctx context.Context, e Entry) (appended bool, err error) {
	unlock := r.lock(e.Filename)
	defer unlock()

	defer func() {
		switch {
		case err != nil:
			r.observe(OutcomeError)
		case appended:
			r.observe(OutcomeAppended)
		default:
			r.observe(OutcomeDuplicate)
		}
	}()

	exists, err := r.ledger.Contains(ctx, e.Filename)
	if err != nil {
		return false, fmt.Errorf("ledger lookup %s: %w", e.Filename, err)
	}
	if exists {
		r.logger.Info("duplicate skipped", "filename", e.Filename)
		return false, nil
	}
	if err := r.ledger.Append(ctx, e); err != nil {
		return false, fmt.Errorf("ledger append %s: %w", e.Filename, err)
	}
	r.logger.Debug("ledger entry appended", "filename", e.Filename, "supplier", e.Supplier)
	return true, nil
}

func (r *Recorder) lock(key string) func() {
	r.mu.Lock()
	l, ok := r.locks[key]
	if !ok {
		l = &keyLock{}
		r.locks[key] = l
	}
	l.refs++
	r.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		r.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(r.locks, key)
		}
		r.mu.Unlock()
	}
}
