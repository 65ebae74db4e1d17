package reconcile

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"media-manager/core/dispatch"
	"media-manager/core/media"
	"media-manager/core/mediastore/mocks"
	"media-manager/core/notify"
	"media-manager/core/worker"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const (
	waitFor = 2 * time.Second
	tick    = 5 * time.Millisecond
)

type fixture struct {
	loop *dispatch.Loop
	pool *worker.Pool
	gw   *mocks.Gateway
	hub  *notify.Hub

	scalars atomic.Int32
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		loop: dispatch.New(zap.NewNop()),
		pool: worker.New(4, zap.NewNop()),
		gw:   &mocks.Gateway{},
		hub:  notify.NewHub(),
	}
	ctx, cancel := context.WithCancel(context.Background())
	go f.loop.Run(ctx)
	t.Cleanup(func() {
		f.pool.Close()
		cancel()
		<-f.loop.Done()
	})
	return f
}

func (f *fixture) options() Options {
	return Options{
		Type:     SetTypeSystem,
		Name:     "test",
		Loop:     f.loop,
		Pool:     f.pool,
		Gateway:  f.gw,
		Source:   f.hub,
		Debounce: 100 * time.Millisecond,
		Logger:   zap.NewNop(),
	}
}

// do runs fn on the owner loop and waits for it.
func (f *fixture) do(t *testing.T, fn func()) {
	t.Helper()
	require.NoError(t, f.loop.Call(context.Background(), fn))
}

// countScalars makes QueryScalar return n and records every call.
func (f *fixture) countScalars(n int64) {
	f.gw.On("QueryScalar", mock.Anything, mock.Anything).
		Return(n, nil).
		Run(func(mock.Arguments) { f.scalars.Add(1) })
}

// newSet creates a set on the loop and releases it when the test ends.
func (f *fixture) newSet(t *testing.T, opts Options) *Set {
	t.Helper()
	var (
		s   *Set
		err error
	)
	f.do(t, func() { s, err = NewSet(opts) })
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.loop.Call(context.Background(), s.Release) })
	return s
}

func (f *fixture) open(t *testing.T, s *Set, cmp media.Comparator, maxCount int) *View {
	t.Helper()
	var (
		v   *View
		err error
	)
	f.do(t, func() { v, err = s.Open(cmp, maxCount, 0) })
	require.NoError(t, err)
	return v
}

func (f *fixture) identities(t *testing.T, v *View) []media.Identity {
	t.Helper()
	var ids []media.Identity
	f.do(t, func() {
		for _, item := range v.Items() {
			ids = append(ids, item.Identity())
		}
	})
	return ids
}

func photo(id, taken int64) media.Row {
	return media.Row{
		ID:        id,
		Data:      fmt.Sprintf("/DCIM/Camera/IMG_%04d.jpg", id),
		MediaType: int(media.TypePhoto),
		DateTaken: taken,
	}
}

func identity(id int64) media.Identity {
	ident, _ := media.IdentityOf(photo(id, 0))
	return ident
}

func identities(ids ...int64) []media.Identity {
	out := make([]media.Identity, len(ids))
	for i, id := range ids {
		out[i] = identity(id)
	}
	return out
}

// changeLog records list changes delivered on the owner loop.
type changeLog struct {
	mu      sync.Mutex
	changes []ListChange
}

func (c *changeLog) listener(change ListChange) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.changes = append(c.changes, change)
}

func (c *changeLog) snapshot() []ListChange {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]ListChange(nil), c.changes...)
}

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	m := &dto.Metric{}
	require.NoError(t, c.Write(m))
	return m.GetCounter().GetValue()
}
