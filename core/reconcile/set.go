package reconcile

import (
	"context"
	"fmt"
	"slices"

	"media-manager/core/handle"
	"media-manager/core/media"
	"media-manager/core/mediastore"
	"media-manager/core/metrics"

	"go.uber.org/zap"
)

// Set is the reconciliation root. It owns its views, a derived item count and
// the subscriptions that keep both current.
//
// Every method must be called on the owner loop given in Options.
type Set struct {
	opts   Options
	logger *zap.Logger

	ctx    context.Context
	cancel context.CancelFunc

	predicate string
	args      []any

	count          int
	countKnown     bool
	countHandle    *handle.Token
	countListeners map[uint64]CountListener
	nextListener   uint64

	views         []*View
	subscriptions *handle.Set
	changeTimer   handle.Handle

	released bool
}

// NewSet creates a set and starts computing its count.
func NewSet(opts Options) (*Set, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	opts.Loop.VerifyAccess()

	ctx, cancel := context.WithCancel(context.Background())
	s := &Set{
		opts:           opts,
		logger:         opts.Logger.With(zap.String("set", opts.Name)),
		ctx:            ctx,
		cancel:         cancel,
		countListeners: make(map[uint64]CountListener),
	}
	s.SetQueryCondition(opts.Condition, opts.ConditionArgs...)
	return s, nil
}

// Type returns the classification of the set.
func (s *Set) Type() SetType { return s.opts.Type }

// Name returns the name the set was created with.
func (s *Set) Name() string { return s.opts.Name }

// IsReleased reports whether Release has been called.
func (s *Set) IsReleased() bool {
	s.opts.Loop.VerifyAccess()
	return s.released
}

// Views returns the active views in the order they were opened.
func (s *Set) Views() []*View {
	s.opts.Loop.VerifyAccess()
	return slices.Clone(s.views)
}

// SetQueryCondition narrows the set to rows matching cond, in addition to the
// photo and video restriction every set carries. An empty cond removes the
// narrowing. The count is recomputed; open views keep their contents until
// the next refresh.
func (s *Set) SetQueryCondition(cond string, args ...any) {
	s.opts.Loop.VerifyAccess()
	if s.released {
		return
	}

	s.predicate = fmt.Sprintf("(media_type=%d OR media_type=%d)", media.TypePhoto, media.TypeVideo)
	s.args = nil
	if cond != "" {
		s.predicate += " AND (" + cond + ")"
		s.args = slices.Clone(args)
	}
	s.refreshCount(true)
}

// Open creates a view ordered by cmp and holding at most maxCount items, and
// starts loading it. A negative maxCount leaves the view unbounded.
func (s *Set) Open(cmp media.Comparator, maxCount int, flags OpenFlags) (*View, error) {
	s.opts.Loop.VerifyAccess()
	if cmp == nil {
		return nil, ErrNoComparator
	}
	if s.released {
		return nil, ErrReleased
	}

	v := newView(s.opts.Loop, s.ctx, cmp, maxCount, s.logger)
	v.onRelease = s.onViewReleased
	s.views = append(s.views, v)
	metrics.ActiveViews.Inc()

	s.load(v)
	return v, nil
}

// Release releases every view, cancels the count query and drops the store
// subscriptions. Calling it more than once has no further effect.
func (s *Set) Release() {
	s.opts.Loop.VerifyAccess()
	if s.released {
		return
	}
	s.released = true

	for len(s.views) > 0 {
		s.views[len(s.views)-1].Release()
	}

	s.countHandle = handle.Close(s.countHandle)
	s.changeTimer = handle.Close(s.changeTimer)

	if subs := s.subscriptions; subs != nil {
		s.subscriptions = nil
		s.opts.Pool.Post(subs.Close)
	}

	s.cancel()
	s.countListeners = nil
	s.logger.Debug("Media set released")
}

func (s *Set) onViewReleased(v *View) {
	if i := slices.Index(s.views, v); i >= 0 {
		s.views = slices.Delete(s.views, i, i+1)
	}
}

// load streams the initial contents of v. The first row is applied alone,
// the rest in pre-sorted batches.
func (s *Set) load(v *View) {
	tok := v.track()
	q := s.query(v.cmp, v.maxCount)
	batchSize := s.opts.BatchSize

	s.opts.Pool.Go(tok, func(ctx context.Context) error {
		defer s.opts.Loop.Post(func() { v.untrack(tok) })

		first := true
		batch := make([]media.Item, 0, batchSize)
		err := s.opts.Gateway.Query(ctx, q, func(row media.Row) bool {
			item, ok := media.FromRow(row)
			if !ok {
				return true
			}
			if first {
				first = false
				s.post(tok, func() { v.addOne(item) })
				return true
			}

			batch = append(batch, item)
			if len(batch) < batchSize {
				return true
			}
			if !tok.Valid() {
				return false
			}
			full := batch
			batch = make([]media.Item, 0, batchSize)
			s.post(tok, func() { v.addBatch(full, true) })
			return true
		})
		if err != nil {
			return fmt.Errorf("load view %s: %w", v.id, err)
		}

		if len(batch) > 0 && tok.Valid() {
			s.post(tok, func() { v.addBatch(batch, true) })
		}
		return nil
	})
}

// query builds the row query shared by the initial load and refreshes.
func (s *Set) query(cmp media.Comparator, maxCount int) mediastore.Query {
	limit := maxCount
	if maxCount < 0 {
		limit = -1
	}
	return mediastore.Query{
		Locator:   s.opts.Locator,
		Predicate: s.predicate,
		Args:      s.args,
		Order:     cmp.OrderClause(),
		Limit:     limit,
	}
}

// post applies a worker result on the owner loop unless tok was closed in the
// meantime.
func (s *Set) post(tok *handle.Token, apply func()) {
	s.opts.Loop.Post(func() {
		if !tok.Valid() {
			metrics.StaleResults.Inc()
			return
		}
		apply()
	})
}
