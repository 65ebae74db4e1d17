package dispatch

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func startLoop(t *testing.T) *Loop {
	t.Helper()
	l := New(zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	go l.Run(ctx)
	t.Cleanup(func() {
		cancel()
		<-l.Done()
	})
	return l
}

func TestLoop_FIFO(t *testing.T) {
	l := startLoop(t)

	var got []int
	for i := 1; i <= 5; i++ {
		i := i
		require.True(t, l.Post(func() { got = append(got, i) }))
	}

	var snapshot []int
	require.NoError(t, l.Call(context.Background(), func() { snapshot = append(snapshot, got...) }))
	assert.Equal(t, []int{1, 2, 3, 4, 5}, snapshot)
}

func TestLoop_VerifyAccess(t *testing.T) {
	l := startLoop(t)

	assert.False(t, l.IsOwner())
	assert.PanicsWithValue(t, ErrWrongOwner, l.VerifyAccess)

	var owner bool
	require.NoError(t, l.Call(context.Background(), func() {
		owner = l.IsOwner()
		l.VerifyAccess()
	}))
	assert.True(t, owner)
}

func TestLoop_CallInlineOnOwner(t *testing.T) {
	l := startLoop(t)

	var nested bool
	require.NoError(t, l.Call(context.Background(), func() {
		// Would deadlock if Call posted instead of running inline.
		_ = l.Call(context.Background(), func() { nested = true })
	}))
	assert.True(t, nested)
}

func TestLoop_CallPropagatesPanic(t *testing.T) {
	l := startLoop(t)

	assert.Panics(t, func() {
		_ = l.Call(context.Background(), func() { panic("boom") })
	})

	// Loop survives.
	ran := false
	require.NoError(t, l.Call(context.Background(), func() { ran = true }))
	assert.True(t, ran)
}

func TestLoop_TaskPanicDoesNotStopLoop(t *testing.T) {
	l := startLoop(t)

	l.Post(func() { panic("task failure") })
	ran := false
	require.NoError(t, l.Call(context.Background(), func() { ran = true }))
	assert.True(t, ran)
}

func TestLoop_PostDelayed(t *testing.T) {
	l := startLoop(t)

	t.Run("Fires", func(t *testing.T) {
		var mu sync.Mutex
		fired := false
		l.PostDelayed(10*time.Millisecond, func() {
			mu.Lock()
			fired = true
			mu.Unlock()
		})
		assert.Eventually(t, func() bool {
			mu.Lock()
			defer mu.Unlock()
			return fired
		}, time.Second, 5*time.Millisecond)
	})

	t.Run("CancelledBeforeFiring", func(t *testing.T) {
		var mu sync.Mutex
		fired := false
		h := l.PostDelayed(20*time.Millisecond, func() {
			mu.Lock()
			fired = true
			mu.Unlock()
		})
		h.Close()
		h.Close()
		time.Sleep(60 * time.Millisecond)
		mu.Lock()
		defer mu.Unlock()
		assert.False(t, fired)
	})
}

func TestLoop_Close(t *testing.T) {
	l := New(nil)
	done := make(chan error, 1)
	go func() { done <- l.Run(context.Background()) }()

	l.Close()
	l.Close()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Run did not return after Close")
	}

	assert.False(t, l.Post(func() {}))
	assert.ErrorIs(t, l.Call(context.Background(), func() {}), ErrLoopClosed)
}

func TestLoop_RunTwice(t *testing.T) {
	l := startLoop(t)
	// Wait for Run to register its goroutine.
	require.NoError(t, l.Call(context.Background(), func() {}))
	assert.Error(t, l.Run(context.Background()))
}
