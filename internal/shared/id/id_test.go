package id

import (
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTypedIDFormat(t *testing.T) {
	ids := map[string]string{
		ProcessPrefix:    NewProcessID().String(),
		TerminalPrefix:   NewTerminalID().String(),
		RequestPrefix:    NewRequestID().String(),
		SubscriberPrefix: NewSubscriberID().String(),
	}

	for prefix, id := range ids {
		t.Run(prefix, func(t *testing.T) {
			parts := strings.Split(id, "_")
			require.Len(t, parts, 2)
			assert.Equal(t, prefix, parts[0])
			assert.Len(t, parts[1], 26)

			_, err := Parse(id)
			assert.NoError(t, err)
		})
	}
}

func TestParseRejectsGarbage(t *testing.T) {
	for _, id := range []string{"", "invalid", "proc_", "zzzzzzzzzzzzzzzzzzzzzzzzzzz"} {
		_, err := Parse(id)
		assert.Error(t, err, "id %q", id)
	}
}

func TestTimestamp(t *testing.T) {
	before := time.Now()
	id := NewTerminalID().String()
	after := time.Now()

	ts, err := Timestamp(id)
	require.NoError(t, err)

	// millisecond precision
	assert.GreaterOrEqual(t, ts.UnixMilli(), before.UnixMilli())
	assert.LessOrEqual(t, ts.UnixMilli(), after.UnixMilli())
}

func TestConcurrentGeneration(t *testing.T) {
	gen := NewGenerator()

	const goroutines = 50
	const perGoroutine = 100

	var wg sync.WaitGroup
	out := make(chan string, goroutines*perGoroutine)
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perGoroutine; j++ {
				out <- gen.WithPrefix(ProcessPrefix)
			}
		}()
	}
	wg.Wait()
	close(out)

	seen := make(map[string]struct{})
	for id := range out {
		_, dup := seen[id]
		require.False(t, dup, "duplicate id %s", id)
		seen[id] = struct{}{}
	}
	assert.Len(t, seen, goroutines*perGoroutine)
}

func TestMonotonic(t *testing.T) {
	gen := NewGenerator()

	prev := gen.WithPrefix(TerminalPrefix)
	for i := 0; i < 50; i++ {
		next := gen.WithPrefix(TerminalPrefix)
		require.Greater(t, next, prev)
		prev = next
	}
}

func TestDefaultGenerator(t *testing.T) {
	assert.Same(t, Default(), Default())
}
