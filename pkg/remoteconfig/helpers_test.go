package remoteconfig

import (
	"context"
	"sync"
	"testing"
	"time"
)

type testConfig struct {
	Name string `json:"name"`
	Port int    `json:"port"`
}

// scriptedFetcher maps endpoints to fixed values or errors and records calls.
type scriptedFetcher struct {
	mu     sync.Mutex
	calls  []string
	values map[string]any
	errs   map[string]error
}

func (f *scriptedFetcher) Fetch(ctx context.Context, endpoint string) (any, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, endpoint)
	if err, ok := f.errs[endpoint]; ok {
		return nil, err
	}
	return f.values[endpoint], nil
}

func (f *scriptedFetcher) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *scriptedFetcher) calledEndpoints() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.calls))
	copy(out, f.calls)
	return out
}

// sequenceFetcher returns the scripted values one per call, repeating the
// last one once the script runs out.
type sequenceFetcher struct {
	mu     sync.Mutex
	calls  int
	values []any
}

func (f *sequenceFetcher) Fetch(ctx context.Context, endpoint string) (any, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	idx := f.calls
	f.calls++
	if idx >= len(f.values) {
		idx = len(f.values) - 1
	}
	return f.values[idx], nil
}

func (f *sequenceFetcher) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// countingCache wraps a single slot and counts reads and writes.
type countingCache[T any] struct {
	mu     sync.Mutex
	value  *T
	reads  int
	writes int
}

func (c *countingCache[T]) Read(ctx context.Context) (*T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.reads++
	return c.value, nil
}

func (c *countingCache[T]) Write(ctx context.Context, configuration *T) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.writes++
	c.value = configuration
	return nil
}

func (c *countingCache[T]) stats() (reads, writes int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.reads, c.writes
}

func acceptAll[T any](ctx context.Context, event Event[T]) (*T, error) {
	return nil, nil
}

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("condition not met within %v", timeout)
}
