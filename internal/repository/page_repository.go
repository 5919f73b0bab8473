package repository

import (
	"context"

	"page-hits/internal/domain/entity"
)

// PageRepository stores pages and their hit counters.
// Implementations must be safe for concurrent use and must return copies,
// never pointers into their own state.
type PageRepository interface {
	Create(ctx context.Context, name string) (*entity.Page, error)
	List(ctx context.Context) ([]*entity.Page, error)
	GetHits(ctx context.Context, id int64) (int64, error)
	IncrementHit(ctx context.Context, id int64) (*entity.Page, error)
	Count() int
}
