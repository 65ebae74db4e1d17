// Package reconcile keeps live, ordered, bounded views over the media index in
// step with the index as it changes.
//
// The engine consists of two types:
//
// 1. View: an ordered, size-capped list of media items keyed by identity. A
//    view is created by a Set and mutated only by that Set.
//
// 2. Set: the reconciliation root. It owns its views and a derived item
//    count, subscribes to store change notifications, and reconciles every
//    open view after a burst of notifications has settled.
//
// # Threading
//
// A Set and its views belong to one dispatch.Loop. Every exported method must
// be called on that loop (directly from a task or through Loop.Call); the
// methods verify this and panic with dispatch.ErrWrongOwner otherwise. Gateway
// queries run on a worker.Pool and post their results back to the loop, where
// they are applied only if the token they were issued under is still valid.
//
// # Loading
//
// Opening a view queries the store with the comparator's ORDER BY clause and
// the view's cap as LIMIT. The first row is applied on its own so content
// appears quickly; the rest arrive in pre-sorted batches of BatchSize rows
// that are merged linearly.
//
// # Diff Refresh
//
// On a change, each non-empty view snapshots its identities and re-runs its
// query. Returned rows whose identity is in the snapshot are kept as-is and
// struck from it; others are queued as additions. Whatever remains in the
// snapshot is removed in one pass. Views are reconciled by identity only, so
// an edit to an item's metadata that keeps its identity is not picked up.
//
// # Usage Example
//
//	err := loop.Call(ctx, func() {
//	    set, err = reconcile.AllMedia(opts)
//	    if err != nil {
//	        return
//	    }
//	    view, err = set.Open(media.ByDateTaken(true), 500, 0)
//	    view.OnChange(func(c reconcile.ListChange) {
//	        log.Info("view changed", zap.Stringer("kind", c.Kind), zap.Int("items", len(c.Identities)))
//	    })
//	})
package reconcile
