// Package notify publishes coarse "something changed" signals for classes of
// media in the index.
//
// Notifications carry no payload: subscribers learn that images or videos
// changed and re-query the gateway themselves. Callbacks may be invoked from
// any goroutine and must not block.
//
// # Sources
//
//   - Hub: in-process publisher; every other source feeds one.
//   - BucketSource: bridges MinIO/S3 bucket notifications (object created or
//     removed) into a Hub.
//   - DirSource: bridges fsnotify events under a local media directory into a Hub.
//
// Both bridges classify objects by file extension and ignore everything that
// is neither a photo nor a video.
package notify
