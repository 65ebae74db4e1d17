package indexer

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"media-manager/core/media"
	"media-manager/core/utils"

	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

// ScanBucket indexes the objects under prefix in the storage bucket.
func (s *Service) ScanBucket(ctx context.Context, prefix string) (*ScanReport, error) {
	if s.client == nil {
		return nil, errors.New("indexer: no storage client")
	}
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket %s: %w", s.bucket, err)
	}
	if !exists {
		return nil, fmt.Errorf("bucket %s does not exist", s.bucket)
	}

	entries := make(map[string]entry)
	objects := s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{
		Prefix:       prefix,
		Recursive:    true,
		WithMetadata: true,
	})
	for obj := range objects {
		if obj.Err != nil {
			return nil, fmt.Errorf("failed to list %s/%s: %w", s.bucket, prefix, obj.Err)
		}
		kind, mime, ok := media.TypeOfPath(obj.Key)
		if !ok {
			continue
		}
		meta := map[string]string(obj.UserMetadata)
		e := entry{
			path:   obj.Key,
			kind:   kind,
			mime:   mime,
			size:   obj.Size,
			width:  utils.ToInt(utils.Lookup(meta, "X-Amz-Meta-Width", "Width")),
			height: utils.ToInt(utils.Lookup(meta, "X-Amz-Meta-Height", "Height")),
			taken:  obj.LastModified,
		}
		if taken := utils.ToInt(utils.Lookup(meta, "X-Amz-Meta-Taken", "Taken")); taken > 0 {
			e.taken = time.UnixMilli(int64(taken))
		}
		if kind == media.TypeVideo {
			e.duration = int64(utils.ToInt(utils.Lookup(meta, "X-Amz-Meta-Duration", "Duration")))
		}
		entries[obj.Key] = e
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return s.apply(ctx, prefix, entries)
}

// ScanDir indexes the files under the configured directory. Paths are stored
// absolute. Hidden directories are skipped.
func (s *Service) ScanDir(ctx context.Context) (*ScanReport, error) {
	if s.root == "" {
		return nil, ErrNoDirectory
	}
	root, err := filepath.Abs(s.root)
	if err != nil {
		return nil, err
	}

	entries := make(map[string]entry)
	err = filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if p == root {
				return err
			}
			s.logger.Warn("Skipping unreadable path", zap.String("path", p), zap.Error(err))
			return nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if d.IsDir() {
			if p != root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		kind, mime, ok := media.TypeOfPath(p)
		if !ok {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return nil
			}
			return err
		}
		path := filepath.ToSlash(p)
		entries[path] = entry{
			path:  path,
			kind:  kind,
			mime:  mime,
			size:  info.Size(),
			taken: info.ModTime(),
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", root, err)
	}

	return s.apply(ctx, filepath.ToSlash(root)+"/", entries)
}
