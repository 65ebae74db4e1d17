// Package mediastore is the access gateway to the media index.
//
// The engine only depends on the Gateway interface: a streaming row query and
// an aggregate scalar query, both safe to call concurrently from worker
// goroutines. DBGateway implements it over GORM, so the index can live in
// MySQL or in a local SQLite file.
//
// # Queries
//
// A Query names a locator (the table), an optional WHERE predicate with bound
// arguments, an ORDER BY clause and a row limit. Rows are handed to the caller
// one by one; returning false from the callback stops the scan early.
//
//	err := gw.Query(ctx, mediastore.Query{
//	    Locator:   "files",
//	    Predicate: "media_type = ?",
//	    Args:      []any{1},
//	    Order:     "datetaken DESC, _id DESC",
//	    Limit:     200,
//	}, func(row media.Row) bool {
//	    return true
//	})
//
// Identical concurrent scalar queries are collapsed into one database round
// trip.
package mediastore
