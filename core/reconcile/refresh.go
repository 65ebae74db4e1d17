package reconcile

import (
	"context"
	"fmt"

	"media-manager/core/media"
	"media-manager/core/metrics"
	"media-manager/core/notify"
)

// onStoreChanged may run on any goroutine.
func (s *Set) onStoreChanged(notify.Class) {
	s.opts.Loop.Post(s.scheduleChange)
}

// scheduleChange arms the debounce timer unless it is already armed.
func (s *Set) scheduleChange() {
	if s.released {
		return
	}
	if s.changeTimer != nil {
		metrics.CoalescedChanges.Inc()
		return
	}
	s.changeTimer = s.opts.Loop.PostDelayed(s.opts.Debounce, s.handleChange)
}

// handleChange clears the timer before doing any work so that a change
// arriving during the refresh arms a new one.
func (s *Set) handleChange() {
	s.changeTimer = nil
	if s.released {
		return
	}
	metrics.RefreshCycles.Inc()

	s.refreshCount(false)
	for i := len(s.views) - 1; i >= 0; i-- {
		s.refreshView(s.views[i])
	}
}

// Refresh reconciles the count and every view with the store immediately,
// cancelling a pending debounced refresh.
func (s *Set) Refresh() {
	s.opts.Loop.VerifyAccess()
	if s.changeTimer != nil {
		s.changeTimer.Close()
	}
	s.handleChange()
}

// refreshView re-runs the query of v and applies the identity difference.
// Items whose identity is unchanged are kept as they are.
func (s *Set) refreshView(v *View) {
	if v.released || len(v.items) == 0 {
		return
	}

	stale := make(map[media.Identity]struct{}, len(v.items))
	v.snapshotIdentities(stale)
	tok := v.track()
	q := s.query(v.cmp, v.maxCount)

	s.opts.Pool.Go(tok, func(ctx context.Context) error {
		defer s.opts.Loop.Post(func() { v.untrack(tok) })

		var added []media.Item
		err := s.opts.Gateway.Query(ctx, q, func(row media.Row) bool {
			id, ok := media.IdentityOf(row)
			if !ok {
				return true
			}
			if _, seen := stale[id]; seen {
				delete(stale, id)
				return true
			}
			if item, ok := media.FromRow(row); ok {
				added = append(added, item)
			}
			return true
		})
		if err != nil {
			return fmt.Errorf("refresh view %s: %w", v.id, err)
		}
		if !tok.Valid() {
			return nil
		}

		s.post(tok, func() {
			v.removeSet(stale)
			v.addBatch(added, false)
		})
		return nil
	})
}
