package gallery

import (
	"context"
	"errors"
	"fmt"
	"time"

	"media-manager/core/dispatch"
	"media-manager/core/media"
	"media-manager/core/reconcile"

	"go.uber.org/zap"
)

var (
	// ErrUnknownSet is returned for a set name the service does not serve.
	ErrUnknownSet = errors.New("gallery: unknown set")
	// ErrUnknownView is returned for a view id that is not open.
	ErrUnknownView = errors.New("gallery: unknown view")
	// ErrUnknownOrder is returned for an order name with no comparator.
	ErrUnknownOrder = errors.New("gallery: unknown order")
)

// DefaultLimit caps views opened without an explicit limit.
const DefaultLimit = 100

// ItemReport is the wire form of a media item.
type ItemReport struct {
	ID         string    `json:"id"`
	Path       string    `json:"path"`
	Name       string    `json:"name"`
	MimeType   string    `json:"mime_type"`
	Type       string    `json:"type"`
	Size       int64     `json:"size"`
	Width      int       `json:"width"`
	Height     int       `json:"height"`
	DurationMs int64     `json:"duration_ms,omitempty"`
	TakenAt    time.Time `json:"taken_at"`
	AddedAt    time.Time `json:"added_at"`
}

// ViewReport is the wire form of a view.
type ViewReport struct {
	ID      string       `json:"id"`
	Set     string       `json:"set"`
	Order   string       `json:"order"`
	Limit   int          `json:"limit"`
	Size    int          `json:"size"`
	Loading bool         `json:"loading"`
	Items   []ItemReport `json:"items"`
}

// CountReport is the wire form of a set count.
type CountReport struct {
	Set   string `json:"set"`
	Count int    `json:"count"`
	Known bool   `json:"known"`
}

type openView struct {
	view  *reconcile.View
	set   string
	order string
	seq   uint64
}

// Service serves sets owned by a single loop.
type Service struct {
	loop   *dispatch.Loop
	sets   map[string]*reconcile.Set
	logger *zap.Logger

	// maxViews bounds the open views per set; zero means no bound.
	maxViews int

	// views and nextSeq are only touched on the loop.
	views   map[string]*openView
	nextSeq uint64
}

// NewService creates a service for sets, which must all be owned by loop.
// The first set is the default. Opening more than maxViews views on one set
// releases the oldest of them.
func NewService(loop *dispatch.Loop, logger *zap.Logger, maxViews int, sets ...*reconcile.Set) *Service {
	s := &Service{
		loop:     loop,
		sets:     make(map[string]*reconcile.Set, len(sets)),
		logger:   logger.With(zap.String("feature", "gallery")),
		maxViews: maxViews,
		views:    make(map[string]*openView),
	}
	for _, set := range sets {
		s.sets[set.Name()] = set
	}
	if len(sets) > 0 {
		s.sets[""] = sets[0]
	}
	return s
}

func (s *Service) set(name string) (*reconcile.Set, error) {
	set, ok := s.sets[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSet, name)
	}
	return set, nil
}

// Count returns the count of the named set.
func (s *Service) Count(ctx context.Context, name string) (*CountReport, error) {
	set, err := s.set(name)
	if err != nil {
		return nil, err
	}
	report := &CountReport{Set: set.Name()}
	err = s.loop.Call(ctx, func() {
		report.Count, report.Known = set.Count()
	})
	if err != nil {
		return nil, err
	}
	return report, nil
}

// OpenView opens a view on the named set. A negative limit leaves the view
// unbounded.
func (s *Service) OpenView(ctx context.Context, name, order string, limit int) (*ViewReport, error) {
	set, err := s.set(name)
	if err != nil {
		return nil, err
	}
	cmp, ok := media.ComparatorByName(order)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownOrder, order)
	}

	var report *ViewReport
	var openErr error
	err = s.loop.Call(ctx, func() {
		s.evict(set.Name())
		v, err := set.Open(cmp, limit, 0)
		if err != nil {
			openErr = err
			return
		}
		s.nextSeq++
		ov := &openView{view: v, set: set.Name(), order: order, seq: s.nextSeq}
		s.views[v.ID()] = ov
		report = ov.report()
	})
	if err != nil {
		return nil, err
	}
	if openErr != nil {
		return nil, openErr
	}
	s.logger.Debug("Opened view", zap.String("view", report.ID), zap.String("set", report.Set))
	return report, nil
}

// View returns the current contents of an open view.
func (s *Service) View(ctx context.Context, id string) (*ViewReport, error) {
	var report *ViewReport
	err := s.loop.Call(ctx, func() {
		ov, ok := s.lookup(id)
		if ok {
			report = ov.report()
		}
	})
	if err != nil {
		return nil, err
	}
	if report == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownView, id)
	}
	return report, nil
}

// CloseView releases an open view.
func (s *Service) CloseView(ctx context.Context, id string) error {
	found := false
	err := s.loop.Call(ctx, func() {
		ov, ok := s.lookup(id)
		if !ok {
			return
		}
		found = true
		delete(s.views, id)
		ov.view.Release()
	})
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("%w: %q", ErrUnknownView, id)
	}
	return nil
}

// Refresh reconciles the named set with the index immediately.
func (s *Service) Refresh(ctx context.Context, name string) error {
	set, err := s.set(name)
	if err != nil {
		return err
	}
	return s.loop.Call(ctx, set.Refresh)
}

// evict releases the oldest views of the named set until one more fits.
func (s *Service) evict(set string) {
	if s.maxViews <= 0 {
		return
	}
	for {
		var oldest *openView
		open := 0
		for id, ov := range s.views {
			if ov.set != set {
				continue
			}
			if _, ok := s.lookup(id); !ok {
				continue
			}
			open++
			if oldest == nil || ov.seq < oldest.seq {
				oldest = ov
			}
		}
		if open < s.maxViews {
			return
		}
		delete(s.views, oldest.view.ID())
		oldest.view.Release()
		s.logger.Info("Evicted oldest view", zap.String("view", oldest.view.ID()), zap.String("set", set))
	}
}

// lookup drops registry entries whose view was released elsewhere, such as by
// releasing its set.
func (s *Service) lookup(id string) (*openView, bool) {
	ov, ok := s.views[id]
	if !ok {
		return nil, false
	}
	if ov.view.IsReleased() {
		delete(s.views, id)
		return nil, false
	}
	return ov, true
}

func (ov *openView) report() *ViewReport {
	items := ov.view.Items()
	report := &ViewReport{
		ID:      ov.view.ID(),
		Set:     ov.set,
		Order:   ov.order,
		Limit:   ov.view.MaxCount(),
		Size:    len(items),
		Loading: ov.view.Loading(),
		Items:   make([]ItemReport, len(items)),
	}
	for i, item := range items {
		report.Items[i] = itemReport(item)
	}
	return report
}

func itemReport(item media.Item) ItemReport {
	w, h := item.Dimensions()
	return ItemReport{
		ID:         string(item.Identity()),
		Path:       item.FilePath(),
		Name:       item.DisplayName(),
		MimeType:   item.MimeType(),
		Type:       item.Type().String(),
		Size:       item.Size(),
		Width:      w,
		Height:     h,
		DurationMs: item.Duration().Milliseconds(),
		TakenAt:    item.TakenAt(),
		AddedAt:    item.AddedAt(),
	}
}
