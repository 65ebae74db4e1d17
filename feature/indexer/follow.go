package indexer

import (
	"context"
	"time"

	"media-manager/core/handle"
	"media-manager/core/notify"

	"go.uber.org/zap"
)

// ScanFunc runs one scan.
type ScanFunc func(ctx context.Context) (*ScanReport, error)

// Follow runs scan whenever changes reports a file change, waiting settle
// after the first change of a burst so that one scan covers the whole burst.
// It returns when ctx is done.
func (s *Service) Follow(ctx context.Context, changes notify.Source, settle time.Duration, scan ScanFunc) error {
	pending := make(chan struct{}, 1)
	signal := func(notify.Class) {
		select {
		case pending <- struct{}{}:
		default:
		}
	}

	subs := handle.NewSet()
	defer subs.Close()
	for _, class := range []notify.Class{notify.ClassImages, notify.ClassVideos} {
		h, err := changes.Subscribe(class, signal)
		if err != nil {
			return err
		}
		subs.Add(h)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-pending:
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(settle):
		}
		// Changes during the settle window are covered by this scan.
		select {
		case <-pending:
		default:
		}

		if _, err := scan(ctx); err != nil && ctx.Err() == nil {
			s.logger.Warn("Follow-up scan failed", zap.Error(err))
		}
	}
}
