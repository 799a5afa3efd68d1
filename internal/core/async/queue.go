package async

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/joseph-ayodele/invoice-extractor/internal/common"
	"github.com/joseph-ayodele/invoice-extractor/internal/core"
)

// ErrQueueClosed is returned by Enqueue after Shutdown has started.
var ErrQueueClosed = errors.New("queue is shutting down")

// Job is one document to process.
type Job struct {
	Path        string
	SubmittedAt time.Time
	RunID       string
}

// Result pairs a job with the envelope it produced.
type Result struct {
	Job      Job
	Envelope *core.Envelope
	Worker   int
}

// Processor is satisfied by *core.Processor.
type Processor interface {
	Process(ctx context.Context, path string) *core.Envelope
}

// ResultHandler is called from the worker goroutine after each job, so it
// must be safe for concurrent use.
type ResultHandler func(ctx context.Context, r Result)

// Queue accepts documents for background processing.
type Queue interface {
	Enqueue(ctx context.Context, job Job) error
	Shutdown(ctx context.Context) error
}

// BatchQueue runs a fixed pool of workers over a buffered channel of jobs.
type BatchQueue struct {
	proc    Processor
	logger  *slog.Logger
	workers int
	timeout time.Duration
	handle  ResultHandler

	ch   chan Job
	wg   sync.WaitGroup
	once sync.Once

	// mu guards closed and the registration of in-flight senders; it is
	// never held across a blocking send.
	mu      sync.Mutex
	closed  bool
	done    chan struct{}
	senders sync.WaitGroup
}

// Option configures a BatchQueue.
type Option func(*BatchQueue)

// WithWorkers sets the number of worker goroutines (default 4).
func WithWorkers(n int) Option {
	return func(q *BatchQueue) {
		if n > 0 {
			q.workers = n
		}
	}
}

// WithQueueSize sets the job buffer size (default 256).
func WithQueueSize(n int) Option {
	return func(q *BatchQueue) {
		if n > 0 {
			q.ch = make(chan Job, n)
		}
	}
}

// WithProcessTimeout bounds the time spent on one document (default 3m).
func WithProcessTimeout(d time.Duration) Option {
	return func(q *BatchQueue) {
		if d > 0 {
			q.timeout = d
		}
	}
}

// WithResultHandler receives every Result as it completes.
func WithResultHandler(h ResultHandler) Option {
	return func(q *BatchQueue) {
		if h != nil {
			q.handle = h
		}
	}
}

// NewBatchQueue starts the workers immediately; call Shutdown to drain them.
func NewBatchQueue(proc Processor, logger *slog.Logger, opts ...Option) *BatchQueue {
	if logger == nil {
		logger = slog.Default()
	}
	q := &BatchQueue{
		proc:    proc,
		logger:  logger,
		workers: 4,
		timeout: 3 * time.Minute,
		handle:  func(context.Context, Result) {},
		ch:      make(chan Job, 256),
		done:    make(chan struct{}),
	}
	for _, o := range opts {
		o(q)
	}
	q.start()
	return q
}

var _ Queue = (*BatchQueue)(nil)

func (q *BatchQueue) start() {
	q.once.Do(func() {
		for i := 0; i < q.workers; i++ {
			q.wg.Add(1)
			go func(workerID int) {
				defer q.wg.Done()
				q.logger.Debug("worker started", "worker_id", workerID)

				for job := range q.ch {
					q.run(workerID, job)
				}

				q.logger.Debug("worker stopped", "worker_id", workerID)
			}(i + 1)
		}
	})
}

func (q *BatchQueue) run(workerID int, job Job) {
	ctx := common.WithRunID(context.Background(), job.RunID)
	ctx, cancel := context.WithTimeout(ctx, q.timeout)
	defer cancel()

	env := q.proc.Process(ctx, job.Path)
	if env.Success {
		q.logger.Info("processed document",
			"worker_id", workerID,
			"path", job.Path,
			"supplier", env.Metadata.SupplierDetected,
			"queued_for", time.Since(job.SubmittedAt).Round(time.Millisecond).String(),
		)
	} else {
		q.logger.Error("processing failed",
			"worker_id", workerID,
			"path", job.Path,
			"code", env.FirstErrorCode(),
		)
	}
	q.handle(ctx, Result{Job: job, Envelope: env, Worker: workerID})
}

// Enqueue blocks while the queue is full, until ctx is done or Shutdown
// starts.
func (q *BatchQueue) Enqueue(ctx context.Context, job Job) error {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		q.logger.Warn("cannot enqueue: queue is shutting down", "path", job.Path)
		return ErrQueueClosed
	}
	q.senders.Add(1)
	q.mu.Unlock()
	defer q.senders.Done()

	if job.SubmittedAt.IsZero() {
		job.SubmittedAt = time.Now()
	}
	select {
	case q.ch <- job:
		q.logger.Debug("queued document", "path", job.Path)
		return nil
	default:
	}

	q.logger.Warn("queue full, applying backpressure", "path", job.Path)
	select {
	case q.ch <- job:
		return nil
	case <-q.done:
		return ErrQueueClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Shutdown stops intake, releases blocked Enqueue calls and waits for the
// queued jobs to finish.
func (q *BatchQueue) Shutdown(ctx context.Context) error {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return nil
	}
	q.closed = true
	close(q.done)
	q.mu.Unlock()

	// no sender can touch ch once the registered ones have returned
	q.senders.Wait()
	close(q.ch)

	drained := make(chan struct{})
	go func() { defer close(drained); q.wg.Wait() }()

	select {
	case <-ctx.Done():
		q.logger.Warn("shutdown interrupted by context")
		return ctx.Err()
	case <-drained:
		q.logger.Info("queue drained, shutdown complete")
		return nil
	}
}
