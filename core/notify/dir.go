package notify

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DirSource forwards file system changes under a directory tree to a Hub.
type DirSource struct {
	root    string
	hub     *Hub
	logger  *zap.Logger
	watcher *fsnotify.Watcher
}

// NewDirSource creates a watcher for root and every directory below it.
func NewDirSource(root string, hub *Hub, logger *zap.Logger) (*DirSource, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	s := &DirSource{
		root:    root,
		hub:     hub,
		logger:  logger.With(zap.String("dir", root)),
		watcher: watcher,
	}
	if err := s.addTree(root); err != nil {
		_ = watcher.Close()
		return nil, err
	}
	return s, nil
}

func (s *DirSource) addTree(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		return s.watcher.Add(path)
	})
}

// Run processes events until ctx is cancelled. The watcher is closed on return.
func (s *DirSource) Run(ctx context.Context) error {
	defer s.watcher.Close()
	s.logger.Info("Watching media directory")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err, ok := <-s.watcher.Errors:
			if !ok {
				return nil
			}
			s.logger.Warn("Directory watch error", zap.Error(err))
		case event, ok := <-s.watcher.Events:
			if !ok {
				return nil
			}
			s.handle(event)
		}
	}
}

func (s *DirSource) handle(event fsnotify.Event) {
	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := s.addTree(event.Name); err != nil {
				s.logger.Warn("Failed to watch new directory", zap.String("path", event.Name), zap.Error(err))
			}
			return
		}
	}
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Remove) &&
		!event.Has(fsnotify.Rename) && !event.Has(fsnotify.Write) {
		return
	}
	if s.hub.PublishPath(event.Name) {
		s.logger.Debug("Media file changed", zap.String("op", event.Op.String()), zap.String("path", event.Name))
	}
}
