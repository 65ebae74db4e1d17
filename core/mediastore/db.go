package mediastore

import (
	"context"
	"fmt"

	"media-manager/core/media"

	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

// DBGateway implements Gateway on top of a GORM connection.
type DBGateway struct {
	db *gorm.DB
	sf singleflight.Group
}

// NewDBGateway creates a gateway reading from db.
func NewDBGateway(db *gorm.DB) *DBGateway {
	return &DBGateway{db: db}
}

// Query streams rows matching q.
func (g *DBGateway) Query(ctx context.Context, q Query, yield func(media.Row) bool) error {
	tx := g.db.WithContext(ctx).Table(locator(q.Locator))
	if q.Predicate != "" {
		tx = tx.Where(q.Predicate, q.Args...)
	}
	if q.Order != "" {
		tx = tx.Order(q.Order)
	}
	if q.Limit >= 0 {
		tx = tx.Limit(q.Limit)
	}

	rows, err := tx.Rows()
	if err != nil {
		return fmt.Errorf("failed to query %s: %w", locator(q.Locator), err)
	}
	defer rows.Close()

	for rows.Next() {
		var row media.Row
		if err := tx.ScanRows(rows, &row); err != nil {
			return fmt.Errorf("failed to scan row: %w", err)
		}
		if !yield(row) {
			return nil
		}
	}
	return rows.Err()
}

// QueryScalar evaluates q. Identical queries running at the same time share
// one round trip; a caller whose ctx ends stops waiting without cancelling the
// shared query for the others.
func (g *DBGateway) QueryScalar(ctx context.Context, q ScalarQuery) (int64, error) {
	key := fmt.Sprintf("%s|%s|%s|%v", locator(q.Locator), q.Expr, q.Predicate, q.Args)
	ch := g.sf.DoChan(key, func() (any, error) {
		tx := g.db.WithContext(context.WithoutCancel(ctx)).Table(locator(q.Locator)).Select(q.Expr)
		if q.Predicate != "" {
			tx = tx.Where(q.Predicate, q.Args...)
		}
		var n int64
		if err := tx.Row().Scan(&n); err != nil {
			return int64(0), fmt.Errorf("failed to evaluate %s on %s: %w", q.Expr, locator(q.Locator), err)
		}
		return n, nil
	})

	select {
	case <-ctx.Done():
		return 0, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return 0, res.Err
		}
		return res.Val.(int64), nil
	}
}

func locator(name string) string {
	if name == "" {
		return DefaultLocator
	}
	return name
}
