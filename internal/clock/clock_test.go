package clock

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestAdvanceIsMonotonic(t *testing.T) {
	h := New(10)
	ctx := context.Background()

	assert.Equal(t, uint64(10), h.Height(ctx))
	assert.Equal(t, uint64(11), h.Advance())
	assert.Equal(t, uint64(11), h.Height(ctx))
}

func TestConcurrentAdvance(t *testing.T) {
	h := New(0)
	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			h.Advance()
		}()
	}
	wg.Wait()
	assert.Equal(t, uint64(50), h.Height(context.Background()))
}

func TestRunAdvancesUntilCancelled(t *testing.T) {
	h := New(0)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- h.Run(ctx, time.Millisecond, nil)
	}()

	require.Eventually(t, func() bool {
		return h.Height(context.Background()) >= 3
	}, time.Second, time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("clock worker did not stop")
	}
}

func TestRunWithoutIntervalBlocksUntilCancelled(t *testing.T) {
	h := New(5)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- h.Run(ctx, 0, nil)
	}()
	cancel()
	require.NoError(t, <-done)
	assert.Equal(t, uint64(5), h.Height(context.Background()))
}
