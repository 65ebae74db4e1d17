package notify

import (
	"context"
	"net/url"

	"media-manager/core/storage"

	"go.uber.org/zap"
)

// bucketEvents are the S3 event names that change the set of media objects.
var bucketEvents = []string{
	"s3:ObjectCreated:*",
	"s3:ObjectRemoved:*",
}

// BucketSource forwards object storage notifications to a Hub.
type BucketSource struct {
	client storage.Client
	bucket string
	prefix string
	hub    *Hub
	logger *zap.Logger
}

// NewBucketSource creates a bridge for objects under prefix in bucket.
func NewBucketSource(client storage.Client, bucket, prefix string, hub *Hub, logger *zap.Logger) *BucketSource {
	return &BucketSource{
		client: client,
		bucket: bucket,
		prefix: prefix,
		hub:    hub,
		logger: logger.With(zap.String("bucket", bucket), zap.String("prefix", prefix)),
	}
}

// Run listens until ctx is cancelled or the notification stream ends.
func (s *BucketSource) Run(ctx context.Context) error {
	s.logger.Info("Listening for bucket notifications")
	events := s.client.ListenBucketNotification(ctx, s.bucket, s.prefix, "", bucketEvents)
	for info := range events {
		if info.Err != nil {
			s.logger.Warn("Bucket notification error", zap.Error(info.Err))
			continue
		}
		for _, record := range info.Records {
			key, err := url.QueryUnescape(record.S3.Object.Key)
			if err != nil {
				key = record.S3.Object.Key
			}
			if s.hub.PublishPath(key) {
				s.logger.Debug("Media object changed",
					zap.String("event", record.EventName),
					zap.String("key", key))
			}
		}
	}
	return ctx.Err()
}
