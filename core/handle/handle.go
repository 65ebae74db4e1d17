package handle

import (
	"context"
	"sync"
)

// Handle identifies one outstanding unit of work or one subscription.
type Handle interface {
	// Close revokes the handle. It is safe to call more than once.
	Close()
}

// validator is implemented by handles that can report whether they are still live.
type validator interface {
	Valid() bool
}

// Close closes h if non-nil and returns the zero value so callers can write
// h = handle.Close(h).
func Close[H Handle](h H) H {
	var zero H
	if any(h) != nil {
		h.Close()
	}
	return zero
}

// IsValid reports whether h is non-nil and not yet closed.
func IsValid(h Handle) bool {
	if h == nil {
		return false
	}
	if v, ok := h.(validator); ok {
		return v.Valid()
	}
	return true
}

// Token is a context-backed Handle.
type Token struct {
	ctx    context.Context
	cancel context.CancelFunc
}

// New creates a token whose context is derived from parent. Closing the parent
// invalidates the token as well.
func New(parent context.Context) *Token {
	ctx, cancel := context.WithCancel(parent)
	return &Token{ctx: ctx, cancel: cancel}
}

// Context returns the context cancelled when the token is closed.
func (t *Token) Context() context.Context {
	return t.ctx
}

// Valid reports whether the token is still open.
func (t *Token) Valid() bool {
	return t != nil && t.ctx.Err() == nil
}

// Close revokes the token.
func (t *Token) Close() {
	if t != nil {
		t.cancel()
	}
}

// Func wraps an unregistration callback into a Handle that runs it once.
type Func struct {
	once   sync.Once
	mu     sync.Mutex
	closed bool
	fn     func()
}

// NewFunc returns a Handle running fn on its first Close.
func NewFunc(fn func()) *Func {
	return &Func{fn: fn}
}

// Valid reports whether Close has not been called yet.
func (f *Func) Valid() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return !f.closed
}

// Close runs the callback the first time it is called.
func (f *Func) Close() {
	f.once.Do(func() {
		f.mu.Lock()
		f.closed = true
		f.mu.Unlock()
		if f.fn != nil {
			f.fn()
		}
	})
}
