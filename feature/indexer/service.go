package indexer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"media-manager/core/media"
	"media-manager/core/mediastore"
	"media-manager/core/notify"
	"media-manager/core/storage"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrNoDirectory is returned by ScanDir when no directory is configured.
var ErrNoDirectory = errors.New("indexer: no directory configured")

const writeBatchSize = 100

// ScanReport summarizes one scan.
type ScanReport struct {
	Scope   string `json:"scope"`
	Scanned int    `json:"scanned"`
	Added   int    `json:"added"`
	Updated int    `json:"updated"`
	Removed int    `json:"removed"`
}

// Changed reports whether the scan modified the index.
func (r ScanReport) Changed() bool {
	return r.Added+r.Updated+r.Removed > 0
}

// Service handles index scans.
type Service struct {
	db     *gorm.DB
	table  string
	client storage.Client
	bucket string
	root   string
	hub    *notify.Hub
	logger *zap.Logger
	now    func() time.Time
}

// NewService creates a new indexer service. client and root are optional;
// the matching scan fails when they are unset.
func NewService(db *gorm.DB, table string, client storage.Client, bucket, root string, hub *notify.Hub, logger *zap.Logger) *Service {
	if table == "" {
		table = mediastore.DefaultLocator
	}
	return &Service{
		db:     db,
		table:  table,
		client: client,
		bucket: bucket,
		root:   root,
		hub:    hub,
		logger: logger.With(zap.String("feature", "indexer")),
		now:    time.Now,
	}
}

// Root returns the configured directory.
func (s *Service) Root() string {
	return s.root
}

// Migrate creates or updates the index table.
func (s *Service) Migrate() error {
	return mediastore.Migrate(s.db, s.table)
}

// CheckSchema returns the required columns missing from the index table.
func (s *Service) CheckSchema() ([]string, error) {
	return mediastore.VerifySchema(s.db, s.table)
}

// entry is one media file found by a listing.
type entry struct {
	path     string
	kind     media.Type
	mime     string
	size     int64
	width    int
	height   int
	duration int64
	taken    time.Time
}

// indexed is the part of an index row a scan compares against.
type indexed struct {
	ID        int64  `gorm:"column:_id"`
	Data      string `gorm:"column:_data"`
	Size      int64  `gorm:"column:_size"`
	MediaType int    `gorm:"column:media_type"`
	DateTaken int64  `gorm:"column:datetaken"`
}

// apply reconciles the rows under scope with entries.
func (s *Service) apply(ctx context.Context, scope string, entries map[string]entry) (*ScanReport, error) {
	report := &ScanReport{Scope: scope, Scanned: len(entries)}

	var existing []indexed
	err := s.db.WithContext(ctx).Table(s.table).
		Select("_id", "_data", "_size", "media_type", "datetaken").
		Where("_data LIKE ?", scope+"%").
		Find(&existing).Error
	if err != nil {
		return nil, fmt.Errorf("failed to read index under %q: %w", scope, err)
	}

	touched := make(map[media.Type]struct{})
	var stale []int64
	for _, row := range existing {
		// LIKE treats _ as a wildcard.
		if !strings.HasPrefix(row.Data, scope) {
			continue
		}
		e, ok := entries[row.Data]
		if !ok {
			stale = append(stale, row.ID)
			touched[media.Type(row.MediaType)] = struct{}{}
			continue
		}
		if e.size == row.Size && e.taken.UnixMilli() == row.DateTaken && int(e.kind) == row.MediaType {
			delete(entries, row.Data)
			continue
		}
		report.Updated++
	}
	report.Added = len(entries) - report.Updated

	if len(entries) > 0 {
		rows := make([]media.Row, 0, len(entries))
		added := s.now().Unix()
		for _, e := range entries {
			rows = append(rows, e.row(added))
			touched[e.kind] = struct{}{}
		}
		err := s.db.WithContext(ctx).Table(s.table).
			Clauses(clause.OnConflict{
				Columns: []clause.Column{{Name: "_data"}},
				DoUpdates: clause.AssignmentColumns([]string{
					"_display_name", "mime_type", "media_type", "_size", "width", "height", "duration", "datetaken",
				}),
			}).
			CreateInBatches(&rows, writeBatchSize).Error
		if err != nil {
			return nil, fmt.Errorf("failed to write index rows: %w", err)
		}
	}

	for start := 0; start < len(stale); start += writeBatchSize {
		end := min(start+writeBatchSize, len(stale))
		err := s.db.WithContext(ctx).Table(s.table).
			Where("_id IN ?", stale[start:end]).
			Delete(&media.Row{}).Error
		if err != nil {
			return nil, fmt.Errorf("failed to delete index rows: %w", err)
		}
	}
	report.Removed = len(stale)

	for kind := range touched {
		if class, ok := notify.ClassOf(kind); ok && s.hub != nil {
			s.hub.Publish(class)
		}
	}

	s.logger.Info("Index scan completed",
		zap.String("scope", scope),
		zap.Int("scanned", report.Scanned),
		zap.Int("added", report.Added),
		zap.Int("updated", report.Updated),
		zap.Int("removed", report.Removed))
	return report, nil
}

func (e entry) row(addedAt int64) media.Row {
	return media.Row{
		Data:        e.path,
		DisplayName: displayName(e.path),
		MimeType:    e.mime,
		MediaType:   int(e.kind),
		Size:        e.size,
		Width:       e.width,
		Height:      e.height,
		Duration:    e.duration,
		DateTaken:   e.taken.UnixMilli(),
		DateAdded:   addedAt,
	}
}

func displayName(p string) string {
	if i := strings.LastIndexAny(p, `/\`); i >= 0 {
		return p[i+1:]
	}
	return p
}
