// Package indexer keeps the media index table in step with the files it describes.
//
// A scan lists every photo and video under a scope (a bucket prefix or a
// local directory), compares the listing with the rows already indexed under
// that scope by path, then inserts new files, updates changed ones and deletes
// rows whose file is gone. Each resource class touched by a scan is published
// on the notification hub so that open media sets refresh.
//
// # HTTP Endpoints
//
//   - POST /index/scan : Scans the storage bucket (supports ?prefix=).
//   - POST /index/scan/dir : Scans the configured watch directory.
//   - GET /index/schema : Reports required index columns missing from the table.
package indexer
