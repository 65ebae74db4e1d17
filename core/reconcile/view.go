package reconcile

import (
	"context"
	"slices"
	"sort"

	"media-manager/core/dispatch"
	"media-manager/core/handle"
	"media-manager/core/media"
	"media-manager/core/metrics"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// View is an ordered, size-capped list of media items. Its contents are kept
// in comparator order and never exceed its cap; when an addition overflows
// the cap the trailing items are evicted, which may include the new item.
type View struct {
	id       string
	loop     *dispatch.Loop
	cmp      media.Comparator
	maxCount int
	logger   *zap.Logger

	items []media.Item
	index map[media.Identity]struct{}

	listeners    map[uint64]ChangeListener
	nextListener uint64

	// ctx parents every token issued for this view's loads and refreshes.
	ctx     context.Context
	cancel  context.CancelFunc
	pending map[*handle.Token]struct{}

	released  bool
	onRelease func(*View)
}

func newView(loop *dispatch.Loop, parent context.Context, cmp media.Comparator, maxCount int, logger *zap.Logger) *View {
	ctx, cancel := context.WithCancel(parent)
	id := uuid.NewString()
	return &View{
		id:        id,
		loop:      loop,
		cmp:       cmp,
		maxCount:  maxCount,
		logger:    logger.With(zap.String("view", id)),
		index:     make(map[media.Identity]struct{}),
		listeners: make(map[uint64]ChangeListener),
		ctx:       ctx,
		cancel:    cancel,
		pending:   make(map[*handle.Token]struct{}),
	}
}

// ID returns the unique id of the view.
func (v *View) ID() string { return v.id }

// Comparator returns the order of the view.
func (v *View) Comparator() media.Comparator { return v.cmp }

// MaxCount returns the cap of the view; negative means unbounded.
func (v *View) MaxCount() int { return v.maxCount }

// Size returns the number of items in the view.
func (v *View) Size() int {
	v.loop.VerifyAccess()
	return len(v.items)
}

// IsEmpty reports whether the view holds no items.
func (v *View) IsEmpty() bool {
	v.loop.VerifyAccess()
	return len(v.items) == 0
}

// Get returns the item at position i. It panics if i is out of range.
func (v *View) Get(i int) media.Item {
	v.loop.VerifyAccess()
	return v.items[i]
}

// Items returns a copy of the current contents.
func (v *View) Items() []media.Item {
	v.loop.VerifyAccess()
	return slices.Clone(v.items)
}

// Contains reports whether an item with identity id is in the view.
func (v *View) Contains(id media.Identity) bool {
	v.loop.VerifyAccess()
	_, ok := v.index[id]
	return ok
}

// Loading reports whether a load or refresh of the view is in flight.
func (v *View) Loading() bool {
	v.loop.VerifyAccess()
	return len(v.pending) > 0
}

// IsReleased reports whether Release has been called.
func (v *View) IsReleased() bool {
	v.loop.VerifyAccess()
	return v.released
}

// OnChange registers l for list changes. Closing the returned handle from any
// goroutine unregisters it.
func (v *View) OnChange(l ChangeListener) handle.Handle {
	v.loop.VerifyAccess()
	if v.released || l == nil {
		return handle.NewFunc(nil)
	}
	v.nextListener++
	key := v.nextListener
	v.listeners[key] = l
	return handle.NewFunc(func() {
		remove := func() { delete(v.listeners, key) }
		if v.loop.IsOwner() {
			remove()
		} else {
			v.loop.Post(remove)
		}
	})
}

// Release clears the view, cancels its in-flight work and detaches it from its
// set. Calling it more than once has no further effect.
func (v *View) Release() {
	v.loop.VerifyAccess()
	if v.released {
		return
	}
	v.released = true

	v.cancel()
	v.pending = nil

	if len(v.items) > 0 {
		removed := make([]media.Identity, len(v.items))
		for i, item := range v.items {
			removed[i] = item.Identity()
		}
		v.items = nil
		v.index = make(map[media.Identity]struct{})
		v.emit(ListChange{Kind: ChangeRemoved, Identities: removed})
	}
	v.listeners = nil

	metrics.ActiveViews.Dec()
	if v.onRelease != nil {
		v.onRelease(v)
	}
	v.logger.Debug("Media view released")
}

// track issues a token for work on behalf of this view.
func (v *View) track() *handle.Token {
	tok := handle.New(v.ctx)
	if v.pending != nil {
		v.pending[tok] = struct{}{}
	}
	return tok
}

// untrack forgets a finished token.
func (v *View) untrack(tok *handle.Token) {
	if v.pending != nil {
		delete(v.pending, tok)
	}
	tok.Close()
}

// addOne inserts item at its ordered position.
func (v *View) addOne(item media.Item) {
	v.addBatch([]media.Item{item}, true)
}

// addBatch inserts items. When preSorted is set and the batch really is in
// comparator order it is merged linearly; otherwise each item is inserted at
// its searched position. Items whose identity is already present are skipped.
func (v *View) addBatch(items []media.Item, preSorted bool) {
	v.loop.VerifyAccess()
	if v.released || len(items) == 0 {
		return
	}

	fresh := make([]media.Item, 0, len(items))
	for _, item := range items {
		id := item.Identity()
		if _, dup := v.index[id]; dup {
			continue
		}
		v.index[id] = struct{}{}
		fresh = append(fresh, item)
	}
	if len(fresh) == 0 {
		return
	}

	if preSorted && slices.IsSortedFunc(fresh, v.cmp.Compare) {
		v.items = merge(v.items, fresh, v.cmp)
	} else {
		for _, item := range fresh {
			v.insert(item)
		}
	}

	evicted := v.trim()

	added := make([]media.Identity, 0, len(fresh))
	freshIDs := make(map[media.Identity]struct{}, len(fresh))
	for _, item := range fresh {
		id := item.Identity()
		freshIDs[id] = struct{}{}
		if _, gone := evicted[id]; !gone {
			added = append(added, id)
		}
	}
	var removed []media.Identity
	for id := range evicted {
		if _, isFresh := freshIDs[id]; !isFresh {
			removed = append(removed, id)
		}
	}

	if len(added) > 0 {
		metrics.ItemsApplied.WithLabelValues("added").Add(float64(len(added)))
		v.emit(ListChange{Kind: ChangeAdded, Identities: added})
	}
	if len(removed) > 0 {
		metrics.ItemsApplied.WithLabelValues("evicted").Add(float64(len(removed)))
		v.emit(ListChange{Kind: ChangeRemoved, Identities: removed})
	}
}

// insert places item after every element that does not sort after it.
func (v *View) insert(item media.Item) {
	pos := sort.Search(len(v.items), func(i int) bool {
		return v.cmp.Compare(v.items[i], item) > 0
	})
	v.items = slices.Insert(v.items, pos, item)
}

// trim evicts trailing items beyond the cap and returns their identities.
func (v *View) trim() map[media.Identity]struct{} {
	if v.maxCount < 0 || len(v.items) <= v.maxCount {
		return nil
	}
	evicted := make(map[media.Identity]struct{}, len(v.items)-v.maxCount)
	for _, item := range v.items[v.maxCount:] {
		evicted[item.Identity()] = struct{}{}
		delete(v.index, item.Identity())
	}
	clear(v.items[v.maxCount:])
	v.items = v.items[:v.maxCount]
	return evicted
}

// removeOne removes the item with the same identity as item.
func (v *View) removeOne(item media.Item) {
	v.removeSet(map[media.Identity]struct{}{item.Identity(): {}})
}

// removeSet removes every item whose identity is in ids in a single pass.
func (v *View) removeSet(ids map[media.Identity]struct{}) {
	v.loop.VerifyAccess()
	if v.released || len(ids) == 0 || len(v.items) == 0 {
		return
	}

	var removed []media.Identity
	kept := v.items[:0]
	for _, item := range v.items {
		if _, ok := ids[item.Identity()]; ok {
			removed = append(removed, item.Identity())
			delete(v.index, item.Identity())
			continue
		}
		kept = append(kept, item)
	}
	clear(v.items[len(kept):])
	v.items = kept

	if len(removed) > 0 {
		metrics.ItemsApplied.WithLabelValues("removed").Add(float64(len(removed)))
		v.emit(ListChange{Kind: ChangeRemoved, Identities: removed})
	}
}

// snapshotIdentities adds the identity of every item to into.
func (v *View) snapshotIdentities(into map[media.Identity]struct{}) {
	v.loop.VerifyAccess()
	for _, item := range v.items {
		into[item.Identity()] = struct{}{}
	}
}

func (v *View) emit(change ListChange) {
	if len(v.listeners) == 0 {
		return
	}
	keys := make([]uint64, 0, len(v.listeners))
	for key := range v.listeners {
		keys = append(keys, key)
	}
	slices.Sort(keys)
	for _, key := range keys {
		// A listener may unregister others or release the view.
		if l, ok := v.listeners[key]; ok {
			l(change)
		}
	}
}

// merge combines two sequences sorted by cmp. Elements of a stay ahead of
// equal elements of b.
func merge(a, b []media.Item, cmp media.Comparator) []media.Item {
	out := make([]media.Item, 0, len(a)+len(b))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		if cmp.Compare(b[j], a[i]) < 0 {
			out = append(out, b[j])
			j++
		} else {
			out = append(out, a[i])
			i++
		}
	}
	out = append(out, a[i:]...)
	return append(out, b[j:]...)
}
