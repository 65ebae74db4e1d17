// Package utils provides small conversion helpers shared by the indexer and
// the HTTP handlers, mostly for loosely typed input such as object metadata
// and query parameters.
package utils
