package reconcile

import (
	"context"
	"fmt"
	"slices"
	"testing"

	"media-manager/core/database"
	"media-manager/core/media"
	"media-manager/core/mediastore"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// setupStore creates an in-memory index with named, unnamed and equally
// named photos.
func setupStore(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Connect(database.Config{Driver: "sqlite", Name: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, mediastore.Migrate(db, ""))

	rows := []media.Row{
		{ID: 1, Data: "/dcim/z.jpg", MediaType: 1, DateTaken: 500, DateAdded: 5},
		{ID: 2, Data: "/dcim/b.jpg", DisplayName: "b.jpg", MediaType: 1, DateTaken: 300, DateAdded: 3},
		{ID: 3, Data: "/dcim/c.jpg", DisplayName: "c.jpg", MediaType: 1, DateTaken: 300, DateAdded: 3},
		{ID: 4, Data: "/dcim/B.jpg", DisplayName: "B.jpg", MediaType: 1, DateTaken: 100, DateAdded: 1},
		{ID: 5, Data: "/dcim/copy/c.jpg", DisplayName: "c.jpg", MediaType: 3, DateTaken: 400, DateAdded: 4},
		{ID: 6, Data: "/dcim/y.mp4", MediaType: 3, DateTaken: 200, DateAdded: 2},
		{ID: 7, Data: "/dcim/été.jpg", DisplayName: "été.jpg", MediaType: 1, DateTaken: 600, DateAdded: 6},
	}
	require.NoError(t, db.Create(&rows).Error)
	return db
}

func (f *fixture) storeOptions(db *gorm.DB) Options {
	opts := f.options()
	opts.Gateway = mediastore.NewDBGateway(db)
	return opts
}

func (f *fixture) waitLoaded(t *testing.T, v *View) {
	t.Helper()
	require.Eventually(t, func() bool {
		var loading bool
		_ = f.loop.Call(context.Background(), func() { loading = v.Loading() })
		return !loading
	}, waitFor, tick)
}

func (f *fixture) names(t *testing.T, v *View) []string {
	t.Helper()
	var names []string
	f.do(t, func() {
		for _, item := range v.Items() {
			names = append(names, item.DisplayName())
		}
	})
	return names
}

// sortedIndex loads every photo and video from db and sorts it with cmp.
func sortedIndex(t *testing.T, db *gorm.DB, cmp media.Comparator) []media.Identity {
	t.Helper()
	var items []media.Item
	err := mediastore.NewDBGateway(db).Query(context.Background(), mediastore.Query{Limit: -1}, func(row media.Row) bool {
		if item, ok := media.FromRow(row); ok {
			items = append(items, item)
		}
		return true
	})
	require.NoError(t, err)
	slices.SortFunc(items, cmp.Compare)

	ids := make([]media.Identity, len(items))
	for i, item := range items {
		ids[i] = item.Identity()
	}
	return ids
}

func TestSet_CappedDisplayNameView(t *testing.T) {
	f := newFixture(t)
	db := setupStore(t)
	s := f.newSet(t, f.storeOptions(db))

	asc := f.open(t, s, media.ByDisplayName(false), 2)
	desc := f.open(t, s, media.ByDisplayName(true), 2)
	f.waitLoaded(t, asc)
	f.waitLoaded(t, desc)

	assert.Equal(t, []string{"B.jpg", "b.jpg"}, f.names(t, asc), "Byte order, unnamed rows last")
	assert.Equal(t, []string{"été.jpg", "c.jpg"}, f.names(t, desc))

	require.NoError(t, db.Create(&media.Row{ID: 8, Data: "/dcim/a.jpg", DisplayName: "A.jpg", MediaType: 1}).Error)
	require.NoError(t, db.Where("_id = ?", 4).Delete(&media.Row{}).Error)
	f.do(t, s.Refresh)
	f.waitLoaded(t, asc)

	assert.Eventually(t, func() bool {
		return slices.Equal([]string{"A.jpg", "b.jpg"}, f.names(t, asc))
	}, waitFor, tick)
}

func TestSet_CappedViewsMatchComparatorOrder(t *testing.T) {
	db := setupStore(t)

	for _, name := range media.ComparatorNames {
		for _, variant := range []string{name, name + "-asc"} {
			for _, limit := range []int{1, 3, 6} {
				t.Run(fmt.Sprintf("%s/%d", variant, limit), func(t *testing.T) {
					cmp, ok := media.ComparatorByName(variant)
					require.True(t, ok)

					f := newFixture(t)
					s := f.newSet(t, f.storeOptions(db))
					v := f.open(t, s, cmp, limit)
					f.waitLoaded(t, v)

					assert.Equal(t, sortedIndex(t, db, cmp)[:limit], f.identities(t, v))
				})
			}
		}
	}
}
