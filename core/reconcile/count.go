package reconcile

import (
	"context"
	"fmt"
	"slices"

	"media-manager/core/handle"
	"media-manager/core/mediastore"
	"media-manager/core/notify"

	"go.uber.org/zap"
)

// Count returns the number of items matching the set. known is false until the
// first count query completes and while a cleared count is recomputed.
func (s *Set) Count() (count int, known bool) {
	s.opts.Loop.VerifyAccess()
	return s.count, s.countKnown
}

// OnCountChanged registers l for count changes. Closing the returned handle
// from any goroutine unregisters it.
func (s *Set) OnCountChanged(l CountListener) handle.Handle {
	s.opts.Loop.VerifyAccess()
	if s.released || l == nil {
		return handle.NewFunc(nil)
	}
	s.nextListener++
	key := s.nextListener
	s.countListeners[key] = l
	return handle.NewFunc(func() {
		remove := func() { delete(s.countListeners, key) }
		if s.opts.Loop.IsOwner() {
			remove()
		} else {
			s.opts.Loop.Post(remove)
		}
	})
}

// RefreshCount recomputes the count. With clearFirst the count becomes
// unknown until the new value arrives.
func (s *Set) RefreshCount(clearFirst bool) {
	s.opts.Loop.VerifyAccess()
	s.refreshCount(clearFirst)
}

func (s *Set) refreshCount(clearFirst bool) {
	if s.released {
		return
	}
	if clearFirst {
		s.setCount(0, false)
	}
	s.countHandle = handle.Close(s.countHandle)
	s.subscribe()

	tok := handle.New(s.ctx)
	s.countHandle = tok
	q := mediastore.ScalarQuery{
		Locator:   s.opts.Locator,
		Expr:      mediastore.CountExpr,
		Predicate: s.predicate,
		Args:      s.args,
	}

	s.opts.Pool.Go(tok, func(ctx context.Context) error {
		n, err := s.opts.Gateway.QueryScalar(ctx, q)
		if err != nil {
			return fmt.Errorf("count set %s: %w", s.opts.Name, err)
		}
		s.post(tok, func() {
			if s.countHandle != tok {
				return
			}
			s.countHandle = nil
			tok.Close()
			s.setCount(int(n), true)
		})
		return nil
	})
}

// subscribe registers for image and video changes the first time it is called.
func (s *Set) subscribe() {
	if s.subscriptions != nil {
		return
	}
	s.subscriptions = handle.NewSet()
	for _, class := range []notify.Class{notify.ClassImages, notify.ClassVideos} {
		h, err := s.opts.Source.Subscribe(class, s.onStoreChanged)
		if err != nil {
			s.logger.Warn("Failed to subscribe to store changes", zap.String("class", string(class)), zap.Error(err))
			continue
		}
		s.subscriptions.Add(h)
	}
}

func (s *Set) setCount(count int, known bool) {
	if s.count == count && s.countKnown == known {
		return
	}
	s.count, s.countKnown = count, known

	keys := make([]uint64, 0, len(s.countListeners))
	for key := range s.countListeners {
		keys = append(keys, key)
	}
	slices.Sort(keys)
	for _, key := range keys {
		if l, ok := s.countListeners[key]; ok {
			l(count, known)
		}
	}
}
