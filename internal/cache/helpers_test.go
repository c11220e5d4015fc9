package cache

import (
	"context"

	"github.com/jonathan/lifeofword/internal/types"
)

type fetchFunc func(ctx context.Context, query string) (*types.Passage, error)

func (f fetchFunc) Fetch(ctx context.Context, query string) (*types.Passage, error) {
	return f(ctx, query)
}
