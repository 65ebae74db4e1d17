package reconcile

import (
	"context"
	"math/rand/v2"
	"slices"
	"testing"

	"media-manager/core/media"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func items(t *testing.T, rows ...media.Row) []media.Item {
	t.Helper()
	out := make([]media.Item, len(rows))
	for i, row := range rows {
		item, ok := media.FromRow(row)
		require.True(t, ok)
		out[i] = item
	}
	return out
}

func TestView_KeepsOrderAndCap(t *testing.T) {
	f := newFixture(t)
	cmp := media.ByDateTaken(true)
	rng := rand.New(rand.NewPCG(1, 2))

	taken := make(map[int64]int64)
	pick := func() media.Row {
		id := rng.Int64N(60) + 1
		if _, ok := taken[id]; !ok {
			taken[id] = rng.Int64N(20)
		}
		return photo(id, taken[id])
	}

	for _, maxCount := range []int{-1, 0, 1, 7, 25} {
		var model []media.Item
		f.do(t, func() {
			v := newView(f.loop, context.Background(), cmp, maxCount, zap.NewNop())

			for op := 0; op < 400; op++ {
				switch rng.IntN(4) {
				case 0:
					item := items(t, pick())[0]
					v.addOne(item)
					model = modelAdd(model, []media.Item{item}, cmp, maxCount)
				case 1:
					batch := items(t, pick(), pick(), pick(), pick(), pick())
					slices.SortFunc(batch, cmp.Compare)
					v.addBatch(batch, true)
					model = modelAdd(model, batch, cmp, maxCount)
				case 2:
					batch := items(t, pick(), pick(), pick())
					v.addBatch(batch, rng.IntN(2) == 0)
					model = modelAdd(model, batch, cmp, maxCount)
				case 3:
					if len(model) == 0 {
						continue
					}
					victim := model[rng.IntN(len(model))]
					v.removeOne(victim)
					model = slices.DeleteFunc(model, func(i media.Item) bool {
						return i.Identity() == victim.Identity()
					})
				}

				got := v.Items()
				require.True(t, slices.IsSortedFunc(got, cmp.Compare), "View must stay ordered")
				if maxCount >= 0 {
					require.LessOrEqual(t, len(got), maxCount, "View must respect its cap")
				}
				require.Equal(t, ids(model), ids(got))
				require.Equal(t, len(got), v.Size())
			}
		})
	}
}

// modelAdd is the reference behaviour of an add: dedupe by identity, sort,
// truncate to the cap.
func modelAdd(model, add []media.Item, cmp media.Comparator, maxCount int) []media.Item {
	for _, item := range add {
		if !slices.ContainsFunc(model, func(i media.Item) bool { return i.Identity() == item.Identity() }) {
			model = append(model, item)
		}
	}
	slices.SortFunc(model, cmp.Compare)
	if maxCount >= 0 && len(model) > maxCount {
		model = model[:maxCount]
	}
	return model
}

func ids(list []media.Item) []media.Identity {
	out := make([]media.Identity, len(list))
	for i, item := range list {
		out[i] = item.Identity()
	}
	return out
}

func TestView_ChangeNotifications(t *testing.T) {
	f := newFixture(t)
	log := &changeLog{}

	f.do(t, func() {
		v := newView(f.loop, context.Background(), media.ByDateTaken(true), 2, zap.NewNop())
		v.OnChange(log.listener)

		v.addBatch(items(t, photo(1, 30), photo(2, 20)), true)
		// Sorts after the cap: evicted straight away, nothing reported.
		v.addOne(items(t, photo(3, 10))[0])
		// Sorts first: pushes item 2 out.
		v.addOne(items(t, photo(4, 40))[0])
		// Already present.
		v.addOne(items(t, photo(4, 40))[0])
		v.removeSet(map[media.Identity]struct{}{identity(1): {}, identity(99): {}})

		assert.Equal(t, identities(4), ids(v.Items()))
	})

	assert.Equal(t, []ListChange{
		{Kind: ChangeAdded, Identities: identities(1, 2)},
		{Kind: ChangeAdded, Identities: identities(4)},
		{Kind: ChangeRemoved, Identities: identities(2)},
		{Kind: ChangeRemoved, Identities: identities(1)},
	}, log.snapshot())
}

func TestView_ListenerHandle(t *testing.T) {
	f := newFixture(t)
	log := &changeLog{}

	var v *View
	f.do(t, func() {
		v = newView(f.loop, context.Background(), media.ByDateTaken(true), -1, zap.NewNop())
	})

	var h interface{ Close() }
	f.do(t, func() { h = v.OnChange(log.listener) })
	// Closing off the loop posts the unregistration.
	h.Close()
	h.Close()

	f.do(t, func() { v.addOne(items(t, photo(1, 1))[0]) })
	assert.Empty(t, log.snapshot())
}

func TestView_OwnerOnly(t *testing.T) {
	f := newFixture(t)

	var v *View
	f.do(t, func() {
		v = newView(f.loop, context.Background(), media.ByDateTaken(true), -1, zap.NewNop())
	})
	assert.Panics(t, func() { v.Size() })
	assert.Panics(t, func() { v.addOne(items(t, photo(1, 1))[0]) })
}
