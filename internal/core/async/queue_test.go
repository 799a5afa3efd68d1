package async

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/invoice-extractor/internal/common"
	"github.com/joseph-ayodele/invoice-extractor/internal/core"
)

type fakeProcessor struct {
	delay  time.Duration
	calls  atomic.Int32
	runIDs sync.Map
}

func (p *fakeProcessor) Process(ctx context.Context, path string) *core.Envelope {
	p.calls.Add(1)
	p.runIDs.Store(path, common.RunIDFromContext(ctx))
	if p.delay > 0 {
		select {
		case <-time.After(p.delay):
		case <-ctx.Done():
		}
	}
	return &core.Envelope{Success: true, Metadata: core.Metadata{Filename: path}}
}

func TestBatchQueue_ProcessesAllJobs(t *testing.T) {
	proc := &fakeProcessor{}
	var mu sync.Mutex
	seen := map[string]bool{}

	q := NewBatchQueue(proc, nil,
		WithWorkers(3),
		WithQueueSize(2),
		WithResultHandler(func(_ context.Context, r Result) {
			mu.Lock()
			seen[r.Envelope.Metadata.Filename] = true
			mu.Unlock()
		}),
	)

	paths := []string{"a.pdf", "b.pdf", "c.pdf", "d.pdf", "e.pdf", "f.pdf"}
	for _, p := range paths {
		require.NoError(t, q.Enqueue(context.Background(), Job{Path: p, RunID: "run-" + p}))
	}
	require.NoError(t, q.Shutdown(context.Background()))

	assert.Equal(t, int32(len(paths)), proc.calls.Load())
	assert.Len(t, seen, len(paths))
	id, _ := proc.runIDs.Load("c.pdf")
	assert.Equal(t, "run-c.pdf", id)
}

func TestBatchQueue_EnqueueAfterShutdown(t *testing.T) {
	q := NewBatchQueue(&fakeProcessor{}, nil)
	require.NoError(t, q.Shutdown(context.Background()))
	assert.ErrorIs(t, q.Enqueue(context.Background(), Job{Path: "a.pdf"}), ErrQueueClosed)
	assert.NoError(t, q.Shutdown(context.Background()), "second shutdown is a no-op")
}

func TestBatchQueue_EnqueueHonoursContextWhenFull(t *testing.T) {
	proc := &fakeProcessor{delay: 200 * time.Millisecond}
	q := NewBatchQueue(proc, nil, WithWorkers(1), WithQueueSize(1))
	defer q.Shutdown(context.Background())

	// one in flight, one buffered
	require.NoError(t, q.Enqueue(context.Background(), Job{Path: "a.pdf"}))
	require.Eventually(t, func() bool { return proc.calls.Load() == 1 }, time.Second, 5*time.Millisecond)
	require.NoError(t, q.Enqueue(context.Background(), Job{Path: "b.pdf"}))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, q.Enqueue(ctx, Job{Path: "c.pdf"}), context.DeadlineExceeded)
}

func TestBatchQueue_ShutdownTimeout(t *testing.T) {
	proc := &fakeProcessor{delay: time.Second}
	q := NewBatchQueue(proc, nil, WithWorkers(1), WithProcessTimeout(2*time.Second))
	require.NoError(t, q.Enqueue(context.Background(), Job{Path: "slow.pdf"}))
	require.Eventually(t, func() bool { return proc.calls.Load() == 1 }, time.Second, 5*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, q.Shutdown(ctx), context.DeadlineExceeded)
}

func TestBatchQueue_ShutdownReleasesBlockedEnqueue(t *testing.T) {
	proc := &fakeProcessor{delay: 300 * time.Millisecond}
	q := NewBatchQueue(proc, nil, WithWorkers(1), WithQueueSize(1))

	require.NoError(t, q.Enqueue(context.Background(), Job{Path: "a.pdf"}))
	require.Eventually(t, func() bool { return proc.calls.Load() == 1 }, time.Second, 5*time.Millisecond)
	require.NoError(t, q.Enqueue(context.Background(), Job{Path: "b.pdf"}))

	// the buffer is full and the context never ends
	blocked := make(chan error, 1)
	go func() { blocked <- q.Enqueue(context.Background(), Job{Path: "c.pdf"}) }()
	time.Sleep(20 * time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, q.Shutdown(ctx))

	select {
	case err := <-blocked:
		assert.ErrorIs(t, err, ErrQueueClosed)
	case <-time.After(time.Second):
		t.Fatal("enqueue still blocked after shutdown")
	}
	assert.Equal(t, int32(2), proc.calls.Load())
}
