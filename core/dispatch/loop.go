package dispatch

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"media-manager/core/handle"

	"github.com/petermattis/goid"
	"go.uber.org/zap"
)

var (
	// ErrWrongOwner is the panic value raised when owner-only code runs off the loop goroutine.
	ErrWrongOwner = errors.New("dispatch: called outside the owner goroutine")
	// ErrLoopClosed is returned when posting to or calling into a closed loop.
	ErrLoopClosed = errors.New("dispatch: loop closed")
)

// Loop is a single-goroutine task executor.
//
// The queue is unbounded so that workers posting results never block on a
// busy owner.
type Loop struct {
	logger *zap.Logger

	mu     sync.Mutex
	tasks  []func()
	closed bool
	signal chan struct{} // buffered, size 1

	owner   atomic.Int64 // goroutine id running Run, 0 when idle
	running atomic.Bool
	done    chan struct{}
}

// New creates a loop. It does nothing until Run is called.
func New(logger *zap.Logger) *Loop {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loop{
		logger: logger,
		tasks:  make([]func(), 0, 64),
		signal: make(chan struct{}, 1),
		done:   make(chan struct{}),
	}
}

// Post enqueues task. It may be called from any goroutine and returns false
// if the loop is closed.
func (l *Loop) Post(task func()) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return false
	}
	l.tasks = append(l.tasks, task)

	select {
	case l.signal <- struct{}{}:
	default:
	}
	return true
}

// delayed is the handle returned by PostDelayed.
type delayed struct {
	timer     *time.Timer
	cancelled atomic.Bool
}

func (d *delayed) Close() {
	d.cancelled.Store(true)
	d.timer.Stop()
}

func (d *delayed) Valid() bool {
	return !d.cancelled.Load()
}

// PostDelayed enqueues task after delay. Closing the returned handle before
// the task runs prevents it from running, even if the timer already fired
// and the task is waiting in the queue.
func (l *Loop) PostDelayed(delay time.Duration, task func()) handle.Handle {
	d := &delayed{}
	d.timer = time.AfterFunc(delay, func() {
		l.Post(func() {
			if d.cancelled.Load() {
				return
			}
			task()
		})
	})
	return d
}

// Run drains the queue on the calling goroutine until ctx is done or Close is
// called. Tasks still queued at that point are dropped.
func (l *Loop) Run(ctx context.Context) error {
	if !l.running.CompareAndSwap(false, true) {
		return fmt.Errorf("dispatch: loop already running")
	}
	l.owner.Store(goid.Get())
	defer func() {
		l.owner.Store(0)
		close(l.done)
	}()

	for {
		if task, ok := l.next(); ok {
			l.exec(task)
			continue
		}

		l.mu.Lock()
		closed := l.closed
		l.mu.Unlock()
		if closed {
			return nil
		}

		select {
		case <-ctx.Done():
			l.Close()
			return ctx.Err()
		case <-l.signal:
		}
	}
}

func (l *Loop) next() (func(), bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.tasks) == 0 || l.closed {
		return nil, false
	}
	task := l.tasks[0]
	l.tasks[0] = nil
	if len(l.tasks) == 1 {
		l.tasks = l.tasks[:0]
	} else {
		l.tasks = l.tasks[1:]
	}
	return task, true
}

func (l *Loop) exec(task func()) {
	defer func() {
		if r := recover(); r != nil {
			l.logger.Error("Task panicked", zap.Any("panic", r), zap.Stack("stack"))
		}
	}()
	task()
}

// IsOwner reports whether the caller is running on the loop goroutine.
func (l *Loop) IsOwner() bool {
	id := l.owner.Load()
	return id != 0 && id == goid.Get()
}

// VerifyAccess panics with ErrWrongOwner unless called on the loop goroutine.
func (l *Loop) VerifyAccess() {
	if !l.IsOwner() {
		panic(ErrWrongOwner)
	}
}

// Call runs fn on the loop and waits for it to return. When the caller is
// already on the loop, fn runs inline.
func (l *Loop) Call(ctx context.Context, fn func()) error {
	if l.IsOwner() {
		fn()
		return nil
	}

	finished := make(chan any, 1)
	posted := l.Post(func() {
		defer func() { finished <- recover() }()
		fn()
	})
	if !posted {
		return ErrLoopClosed
	}

	select {
	case r := <-finished:
		if r != nil {
			panic(r)
		}
		return nil
	case <-l.done:
		return ErrLoopClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops accepting tasks and wakes the loop so Run returns.
func (l *Loop) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return
	}
	l.closed = true
	l.tasks = nil
	close(l.signal)
}

// Done is closed once Run has returned.
func (l *Loop) Done() <-chan struct{} {
	return l.done
}
