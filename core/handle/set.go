package handle

import "sync"

// Set groups handles that are closed together.
type Set struct {
	mu      sync.Mutex
	handles []Handle
	closed  bool
}

// NewSet creates a set holding the given handles.
func NewSet(handles ...Handle) *Set {
	s := &Set{}
	for _, h := range handles {
		s.Add(h)
	}
	return s
}

// Add registers h with the set. Adding to a closed set closes h immediately.
func (s *Set) Add(h Handle) {
	if h == nil {
		return
	}
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		h.Close()
		return
	}
	s.handles = append(s.handles, h)
	s.mu.Unlock()
}

// Len returns the number of handles held.
func (s *Set) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.handles)
}

// Valid reports whether the set has not been closed.
func (s *Set) Valid() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.closed
}

// Close closes every handle in reverse registration order.
func (s *Set) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	handles := s.handles
	s.handles = nil
	s.mu.Unlock()

	for i := len(handles) - 1; i >= 0; i-- {
		handles[i].Close()
	}
}
