package worker

import (
	"context"
	"errors"
	"sync"

	"media-manager/core/handle"
	"media-manager/core/metrics"

	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"
)

// Job is a unit of background work.
type Job func(ctx context.Context) error

// Pool runs jobs on goroutines, at most size at a time.
type Pool struct {
	sem    *semaphore.Weighted
	logger *zap.Logger
	wg     sync.WaitGroup

	ctx    context.Context
	cancel context.CancelFunc
}

// New creates a pool running at most size jobs concurrently.
func New(size int, logger *zap.Logger) *Pool {
	if size <= 0 {
		size = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Pool{
		sem:    semaphore.NewWeighted(int64(size)),
		logger: logger,
		ctx:    ctx,
		cancel: cancel,
	}
}

// Go runs job for tok. The job is skipped if tok is closed before a slot is
// available, and its context is cancelled when tok or the pool is closed.
func (p *Pool) Go(tok *handle.Token, job Job) {
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		defer p.handlePanic()

		ctx, stop := mergeCancel(tok.Context(), p.ctx)
		defer stop()

		if err := p.sem.Acquire(ctx, 1); err != nil {
			return
		}
		defer p.sem.Release(1)

		if !tok.Valid() {
			return
		}
		if err := job(ctx); err != nil && !errors.Is(err, context.Canceled) {
			metrics.QueryFailures.Inc()
			p.logger.Warn("Background job failed", zap.Error(err))
		}
	}()
}

// Post runs fn on the pool without a token. It is used for bookkeeping that
// must happen off the owner, such as dropping store subscriptions.
func (p *Pool) Post(fn func()) {
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		defer p.handlePanic()
		fn()
	}()
}

func (p *Pool) handlePanic() {
	if r := recover(); r != nil {
		p.logger.Error("Background job panicked", zap.Any("panic", r), zap.Stack("stack"))
	}
}

// Close cancels running jobs and waits for them to return.
func (p *Pool) Close() {
	p.cancel()
	p.wg.Wait()
}

// mergeCancel returns a context cancelled when either a or b is done.
func mergeCancel(a, b context.Context) (context.Context, func()) {
	ctx, cancel := context.WithCancel(a)
	stop := context.AfterFunc(b, cancel)
	return ctx, func() {
		stop()
		cancel()
	}
}
