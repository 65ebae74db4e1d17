package media

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdentityOf(t *testing.T) {
	tests := []struct {
		name string
		row  Row
		want Identity
		ok   bool
	}{
		{name: "photo", row: Row{ID: 7, MediaType: 1}, want: "content://media/external/images/media/7", ok: true},
		{name: "video", row: Row{ID: 9, MediaType: 3}, want: "content://media/external/video/media/9", ok: true},
		{name: "audio is not media", row: Row{ID: 9, MediaType: 2}},
		{name: "missing id", row: Row{MediaType: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, ok := IdentityOf(tt.row)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, id)
		})
	}
}

func TestFromRow(t *testing.T) {
	t.Run("Video", func(t *testing.T) {
		item, ok := FromRow(Row{
			ID:        4,
			Data:      "/sdcard/DCIM/Camera/VID_0001.mp4",
			MimeType:  "video/mp4",
			MediaType: 3,
			Duration:  2500,
			DateTaken: 1700000000000,
			Width:     1920,
			Height:    1080,
		})
		require.True(t, ok)
		assert.Equal(t, TypeVideo, item.Type())
		assert.Equal(t, "VID_0001.mp4", item.DisplayName(), "Should fall back to the file name")
		assert.Equal(t, 2500*time.Millisecond, item.Duration())
		assert.Equal(t, int64(1700000000000), item.TakenAt().UnixMilli())
		w, h := item.Dimensions()
		assert.Equal(t, 1920, w)
		assert.Equal(t, 1080, h)
	})

	t.Run("PhotoHasNoDuration", func(t *testing.T) {
		item, ok := FromRow(Row{ID: 1, Data: "/a.jpg", MediaType: 1, Duration: 100})
		require.True(t, ok)
		assert.Zero(t, item.Duration())
	})

	t.Run("RejectsRowWithoutPath", func(t *testing.T) {
		_, ok := FromRow(Row{ID: 1, MediaType: 1})
		assert.False(t, ok)
	})
}

func TestTypeOfPath(t *testing.T) {
	kind, mime, ok := TypeOfPath("DCIM/Camera/IMG_1.JPG")
	assert.True(t, ok)
	assert.Equal(t, TypePhoto, kind)
	assert.Equal(t, "image/jpeg", mime)

	kind, _, ok = TypeOfPath("clips/a.mov")
	assert.True(t, ok)
	assert.Equal(t, TypeVideo, kind)

	_, _, ok = TypeOfPath("notes.txt")
	assert.False(t, ok)
}
