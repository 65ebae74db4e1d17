package media

import (
	"fmt"
	"path"
	"time"
)

// Identity is the stable key distinguishing one item from another across queries.
type Identity string

// Type classifies an item as still or motion media.
type Type int

const (
	// TypeUnknown is never materialized into an Item.
	TypeUnknown Type = 0
	// TypePhoto is a still image (media_type=1 in the index).
	TypePhoto Type = 1
	// TypeVideo is a motion clip (media_type=3 in the index).
	TypeVideo Type = 3
)

// String returns the string representation of the type.
func (t Type) String() string {
	switch t {
	case TypePhoto:
		return "photo"
	case TypeVideo:
		return "video"
	default:
		return "unknown"
	}
}

// Row is the column set the gateway reads from the media index for each item.
type Row struct {
	ID          int64  `gorm:"column:_id;primaryKey;autoIncrement"`
	Data        string `gorm:"column:_data;size:1024;uniqueIndex"`
	DisplayName string `gorm:"column:_display_name;size:255"`
	MimeType    string `gorm:"column:mime_type;size:64"`
	MediaType   int    `gorm:"column:media_type;index"`
	Size        int64  `gorm:"column:_size"`
	Width       int    `gorm:"column:width"`
	Height      int    `gorm:"column:height"`
	Duration    int64  `gorm:"column:duration"`
	DateTaken   int64  `gorm:"column:datetaken;index"`
	DateAdded   int64  `gorm:"column:date_added"`
}

// TableName returns the default locator of the media index.
func (Row) TableName() string {
	return "files"
}

// Item is an immutable materialized row. A changed row becomes a new Item with
// the same Identity.
type Item struct {
	id          Identity
	rowID       int64
	kind        Type
	filePath    string
	displayName string
	sortName    string
	mimeType    string
	size        int64
	width       int
	height      int
	duration    time.Duration
	takenAt     time.Time
	addedAt     time.Time
}

// IdentityOf computes the identity of a row without materializing it.
// ok is false when the row has no usable id or media type.
func IdentityOf(row Row) (Identity, bool) {
	if row.ID <= 0 {
		return "", false
	}
	switch Type(row.MediaType) {
	case TypePhoto:
		return Identity(fmt.Sprintf("content://media/external/images/media/%d", row.ID)), true
	case TypeVideo:
		return Identity(fmt.Sprintf("content://media/external/video/media/%d", row.ID)), true
	default:
		return "", false
	}
}

// FromRow validates a row and materializes it. Rows without an identity or a
// file path are rejected.
func FromRow(row Row) (Item, bool) {
	id, ok := IdentityOf(row)
	if !ok || row.Data == "" {
		return Item{}, false
	}
	name := row.DisplayName
	if name == "" {
		name = path.Base(row.Data)
	}
	item := Item{
		id:          id,
		rowID:       row.ID,
		kind:        Type(row.MediaType),
		filePath:    row.Data,
		displayName: name,
		sortName:    row.DisplayName,
		mimeType:    row.MimeType,
		size:        row.Size,
		width:       row.Width,
		height:      row.Height,
		takenAt:     time.UnixMilli(row.DateTaken),
		addedAt:     time.Unix(row.DateAdded, 0),
	}
	if item.kind == TypeVideo {
		item.duration = time.Duration(row.Duration) * time.Millisecond
	}
	return item, true
}

// Identity returns the content URI of the item.
func (i Item) Identity() Identity { return i.id }

// RowID returns the primary key of the row the item was built from.
func (i Item) RowID() int64 { return i.rowID }

// Type returns the classification of the item.
func (i Item) Type() Type { return i.kind }

// FilePath returns the stored path of the content.
func (i Item) FilePath() string { return i.filePath }

// DisplayName returns the display name, falling back to the file name.
func (i Item) DisplayName() string { return i.displayName }

// MimeType returns the MIME type recorded in the index.
func (i Item) MimeType() string { return i.mimeType }

// Size returns the content size in bytes.
func (i Item) Size() int64 { return i.size }

// Dimensions returns width and height in pixels.
func (i Item) Dimensions() (int, int) { return i.width, i.height }

// Duration returns the clip length; zero for photos.
func (i Item) Duration() time.Duration { return i.duration }

// TakenAt returns the capture time.
func (i Item) TakenAt() time.Time { return i.takenAt }

// AddedAt returns the time the item entered the index.
func (i Item) AddedAt() time.Time { return i.addedAt }
