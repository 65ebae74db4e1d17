// Package storage provides an abstraction layer for object storage services.
//
// It wraps the MinIO Go client behind the few operations the media engine
// needs. This abstraction supports both AWS S3 and self-hosted MinIO instances.
//
// # Client Interface
//
// The Client interface abstracts the underlying storage provider, making it easier
// to mock storage interactions for unit testing (as seen in core/storage/mocks).
//
// # Operations
//
//   - BucketExists: Verifies access to the target bucket.
//   - ListObjects: Lists objects in a bucket (supports prefix/recursive/metadata).
//   - ListenBucketNotification: Streams object created/removed events (MinIO only).
//
// # Usage
//
//	client, err := storage.NewClient(config)
//	exists, err := client.BucketExists(ctx, "media")
package storage
