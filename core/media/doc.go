// Package media defines the identity and ordering contract shared by the
// reconciliation engine and the backing-store gateway.
//
// # Items
//
// An Item is an immutable record materialized from one row of the media index.
// Two items describe the same piece of content when their Identity (the content
// URI) is equal; descriptive fields such as the MIME type or the duration are
// carried along but never compared for change.
//
// # Ordering
//
// A Comparator is a total order over items together with the store-native
// ORDER BY clause that produces the same order. The two must agree: initial
// loads merge pre-sorted batches linearly and rely on the store returning rows
// in comparator order.
//
//	cmp := media.ByDateTaken(true)
//	rows, _ := db.Table("files").Order(cmp.OrderClause()).Rows()
package media
