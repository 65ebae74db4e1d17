package mediastore

import (
	"context"

	"media-manager/core/media"
)

// DefaultLocator is the table holding the media index.
const DefaultLocator = "files"

// CountExpr is the aggregate used to count matching items.
const CountExpr = "COUNT(_id)"

// Query describes a row query against the index.
type Query struct {
	// Locator is the table to read from.
	Locator string
	// Predicate is an optional WHERE clause using ? placeholders.
	Predicate string
	// Args are bound to the placeholders of Predicate.
	Args []any
	// Order is the ORDER BY clause.
	Order string
	// Limit caps the number of rows; negative means unlimited.
	Limit int
}

// ScalarQuery describes an aggregate query returning one integer.
type ScalarQuery struct {
	Locator   string
	Expr      string
	Predicate string
	Args      []any
}

// Gateway executes queries against the backing store.
type Gateway interface {
	// Query streams matching rows to yield in store order until yield returns
	// false or rows are exhausted.
	Query(ctx context.Context, q Query, yield func(media.Row) bool) error
	// QueryScalar evaluates an aggregate expression.
	QueryScalar(ctx context.Context, q ScalarQuery) (int64, error)
}
