package reconcile

import (
	"context"
	"testing"

	"media-manager/core/metrics"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type countEvent struct {
	count int
	known bool
}

func TestSet_CountDropsSupersededResult(t *testing.T) {
	f := newFixture(t)

	started := make(chan struct{})
	gate := make(chan struct{})
	f.gw.On("QueryScalar", mock.Anything, mock.Anything).
		Return(int64(99), nil).
		Run(func(mock.Arguments) {
			close(started)
			<-gate
		}).Once()
	f.gw.On("QueryScalar", mock.Anything, mock.Anything).Return(int64(7), nil)

	stale := counterValue(t, metrics.StaleResults)
	s := f.newSet(t, f.options())
	<-started

	f.do(t, func() {
		count, known := s.Count()
		assert.False(t, known)
		assert.Zero(t, count)
		s.RefreshCount(false)
	})

	assert.Eventually(t, func() bool {
		var known bool
		f.do(t, func() { _, known = s.Count() })
		return known
	}, waitFor, tick)

	close(gate)
	assert.Eventually(t, func() bool {
		return counterValue(t, metrics.StaleResults) == stale+1
	}, waitFor, tick)

	f.do(t, func() {
		count, known := s.Count()
		assert.True(t, known)
		assert.Equal(t, 7, count, "The late result of a superseded query must be dropped")
	})
}

func TestSet_CountListeners(t *testing.T) {
	f := newFixture(t)
	f.countScalars(5)

	var (
		s      *Set
		events []countEvent
	)
	f.do(t, func() {
		var err error
		s, err = NewSet(f.options())
		require.NoError(t, err)
		s.OnCountChanged(func(count int, known bool) {
			events = append(events, countEvent{count, known})
		})
	})
	t.Cleanup(func() { _ = f.loop.Call(context.Background(), s.Release) })

	snapshot := func() []countEvent {
		var out []countEvent
		f.do(t, func() { out = append(out, events...) })
		return out
	}
	assert.Eventually(t, func() bool { return len(snapshot()) == 1 }, waitFor, tick)

	f.do(t, func() { s.SetQueryCondition("_size > ?", 1024) })
	assert.Eventually(t, func() bool { return len(snapshot()) == 3 }, waitFor, tick)

	assert.Equal(t, []countEvent{{5, true}, {0, false}, {5, true}}, snapshot())
}
