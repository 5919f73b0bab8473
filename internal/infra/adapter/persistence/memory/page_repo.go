// Package memory provides in-process repository implementations.
// State lives for the lifetime of the process and is lost on restart.
package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"page-hits/internal/domain/entity"
	"page-hits/internal/repository"
)

// PageRepo is a mutex-guarded in-memory PageRepository.
// IDs come from a counter owned by the repo, so concurrent creates never
// collide and IDs are never reused.
type PageRepo struct {
	mu     sync.RWMutex
	pages  map[int64]*entity.Page
	order  []int64
	nextID int64
	now    func() time.Time
}

// Option configures a PageRepo.
type Option func(*PageRepo)

// WithClock overrides the clock used for CreatedAt.
func WithClock(now func() time.Time) Option {
	return func(r *PageRepo) {
		if now != nil {
			r.now = now
		}
	}
}

// NewPageRepo creates an empty repository whose first page gets ID 1.
func NewPageRepo(opts ...Option) *PageRepo {
	r := &PageRepo{
		pages:  make(map[int64]*entity.Page),
		order:  make([]int64, 0, 16),
		nextID: 1,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

var _ repository.PageRepository = (*PageRepo)(nil)

// Create validates the name and stores a new page with zero hits.
func (r *PageRepo) Create(_ context.Context, name string) (*entity.Page, error) {
	name = entity.NormalizePageName(name)
	if err := entity.ValidatePageName(name); err != nil {
		return nil, fmt.Errorf("Create: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	page := &entity.Page{
		ID:        r.nextID,
		Name:      name,
		Hits:      0,
		CreatedAt: r.now(),
	}
	r.nextID++
	r.pages[page.ID] = page
	r.order = append(r.order, page.ID)

	return page.Clone(), nil
}

// List returns copies of all pages in insertion order.
func (r *PageRepo) List(_ context.Context) ([]*entity.Page, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*entity.Page, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.pages[id].Clone())
	}
	return out, nil
}

// GetHits returns the current hit count of a page.
func (r *PageRepo) GetHits(_ context.Context, id int64) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	page, ok := r.pages[id]
	if !ok {
		return 0, fmt.Errorf("GetHits: id=%d: %w", id, entity.ErrNotFound)
	}
	return page.Hits, nil
}

// IncrementHit adds one hit to the page and returns the updated copy.
// Unknown IDs return entity.ErrNotFound and leave the repo untouched.
func (r *PageRepo) IncrementHit(_ context.Context, id int64) (*entity.Page, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	page, ok := r.pages[id]
	if !ok {
		return nil, fmt.Errorf("IncrementHit: id=%d: %w", id, entity.ErrNotFound)
	}
	page.Hits++
	return page.Clone(), nil
}

// Count returns the number of stored pages.
func (r *PageRepo) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.pages)
}
