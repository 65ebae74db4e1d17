package notify

import (
	"errors"
	"sync"

	"media-manager/core/handle"
	"media-manager/core/media"
)

// Class is a resource class of the media index.
type Class string

const (
	// ClassImages covers still images.
	ClassImages Class = "images"
	// ClassVideos covers video clips.
	ClassVideos Class = "video"
)

// ClassOf maps a media type to its resource class.
func ClassOf(kind media.Type) (Class, bool) {
	switch kind {
	case media.TypePhoto:
		return ClassImages, true
	case media.TypeVideo:
		return ClassVideos, true
	default:
		return "", false
	}
}

// ErrNoCallback is returned when subscribing without a callback.
var ErrNoCallback = errors.New("notify: no callback")

// Callback receives the class that changed.
type Callback func(Class)

// Source is a publisher of change notifications.
type Source interface {
	// Subscribe registers cb for class. Closing the returned handle unsubscribes.
	Subscribe(class Class, cb Callback) (handle.Handle, error)
}

// Hub is an in-process Source. It is safe for concurrent use.
type Hub struct {
	mu   sync.RWMutex
	next uint64
	subs map[Class]map[uint64]Callback
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{subs: make(map[Class]map[uint64]Callback)}
}

// Subscribe registers cb for class.
func (h *Hub) Subscribe(class Class, cb Callback) (handle.Handle, error) {
	if cb == nil {
		return nil, ErrNoCallback
	}

	h.mu.Lock()
	h.next++
	id := h.next
	if h.subs[class] == nil {
		h.subs[class] = make(map[uint64]Callback)
	}
	h.subs[class][id] = cb
	h.mu.Unlock()

	return handle.NewFunc(func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		delete(h.subs[class], id)
		if len(h.subs[class]) == 0 {
			delete(h.subs, class)
		}
	}), nil
}

// Publish notifies every subscriber of class. Callbacks run on the calling
// goroutine, outside the hub lock.
func (h *Hub) Publish(class Class) {
	h.mu.RLock()
	callbacks := make([]Callback, 0, len(h.subs[class]))
	for _, cb := range h.subs[class] {
		callbacks = append(callbacks, cb)
	}
	h.mu.RUnlock()

	for _, cb := range callbacks {
		cb(class)
	}
}

// Subscribers returns the number of callbacks registered for class.
func (h *Hub) Subscribers(class Class) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[class])
}

// PublishPath publishes the class matching the file extension of p.
func (h *Hub) PublishPath(p string) bool {
	kind, _, ok := media.TypeOfPath(p)
	if !ok {
		return false
	}
	class, _ := ClassOf(kind)
	h.Publish(class)
	return true
}
