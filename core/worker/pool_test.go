package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"media-manager/core/handle"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestPool_RunsJob(t *testing.T) {
	p := New(2, zap.NewNop())
	defer p.Close()

	var ran atomic.Bool
	p.Go(handle.New(context.Background()), func(ctx context.Context) error {
		ran.Store(true)
		return nil
	})
	assert.Eventually(t, ran.Load, time.Second, 5*time.Millisecond)
}

func TestPool_SkipsClosedToken(t *testing.T) {
	p := New(1, zap.NewNop())
	defer p.Close()

	// Occupy the only slot so the second job waits.
	release := make(chan struct{})
	busy := make(chan struct{})
	p.Go(handle.New(context.Background()), func(ctx context.Context) error {
		close(busy)
		<-release
		return nil
	})
	<-busy

	var ran atomic.Bool
	tok := handle.New(context.Background())
	p.Go(tok, func(ctx context.Context) error {
		ran.Store(true)
		return nil
	})
	tok.Close()
	close(release)

	time.Sleep(30 * time.Millisecond)
	assert.False(t, ran.Load(), "Job whose token closed while queued must not run")
}

func TestPool_CancelsRunningJob(t *testing.T) {
	p := New(1, zap.NewNop())
	defer p.Close()

	started := make(chan struct{})
	var cancelled atomic.Bool
	tok := handle.New(context.Background())
	p.Go(tok, func(ctx context.Context) error {
		close(started)
		<-ctx.Done()
		cancelled.Store(true)
		return ctx.Err()
	})

	<-started
	tok.Close()
	assert.Eventually(t, cancelled.Load, time.Second, 5*time.Millisecond)
}

func TestPool_LogsFailuresAndPanics(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	p := New(2, zap.New(core))

	p.Go(handle.New(context.Background()), func(ctx context.Context) error {
		return errors.New("gateway unavailable")
	})
	p.Go(handle.New(context.Background()), func(ctx context.Context) error {
		panic("bad row")
	})
	p.Close()

	assert.Equal(t, 1, logs.FilterMessage("Background job failed").Len())
	assert.Equal(t, 1, logs.FilterMessage("Background job panicked").Len())
}

func TestPool_Post(t *testing.T) {
	p := New(1, nil)
	var ran atomic.Bool
	p.Post(func() { ran.Store(true) })
	p.Close()
	assert.True(t, ran.Load())
}
