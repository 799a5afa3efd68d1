package ledger

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingLedger struct{ Ledger }

func (failingLedger) Contains(context.Context, string) (bool, error) {
	return false, errors.New("disk gone")
}

func TestRecorder_ConcurrentDuplicates(t *testing.T) {
	ctx := context.Background()
	csv := NewCSV(filepath.Join(t.TempDir(), "ledger.csv"), nil)

	var mu sync.Mutex
	outcomes := map[string]int{}
	r := NewRecorder(csv, nil, WithObserver(func(o string) {
		mu.Lock()
		outcomes[o]++
		mu.Unlock()
	}))

	var appended atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := r.Record(ctx, sampleEntry("same.pdf"))
			assert.NoError(t, err)
			if ok {
				appended.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), appended.Load())
	assert.Equal(t, 1, outcomes[OutcomeAppended])
	assert.Equal(t, 15, outcomes[OutcomeDuplicate])

	entries, err := csv.Entries()
	require.NoError(t, err)
	assert.Len(t, entries, 1)
	assert.Empty(t, r.locks)
}

func TestRecorder_LookupError(t *testing.T) {
	var got string
	r := NewRecorder(failingLedger{}, nil, WithObserver(func(o string) { got = o }))

	ok, err := r.Record(context.Background(), sampleEntry("x.pdf"))
	require.Error(t, err)
	assert.False(t, ok)
	assert.Contains(t, err.Error(), "disk gone")
	assert.Equal(t, OutcomeError, got)
}
