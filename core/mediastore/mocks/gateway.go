package mocks

import (
	"context"

	"media-manager/core/media"
	"media-manager/core/mediastore"

	"github.com/stretchr/testify/mock"
)

// Gateway is a mock implementation of mediastore.Gateway.
// Query expectations return ([]media.Row, error); the rows are streamed to the
// caller's callback.
type Gateway struct {
	mock.Mock
}

func (m *Gateway) Query(ctx context.Context, q mediastore.Query, yield func(media.Row) bool) error {
	args := m.Called(ctx, q)
	rows, _ := args.Get(0).([]media.Row)
	for _, row := range rows {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if !yield(row) {
			break
		}
	}
	return args.Error(1)
}

func (m *Gateway) QueryScalar(ctx context.Context, q mediastore.ScalarQuery) (int64, error) {
	args := m.Called(ctx, q)
	return args.Get(0).(int64), args.Error(1)
}
