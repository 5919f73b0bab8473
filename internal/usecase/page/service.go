package page

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"page-hits/internal/domain/entity"
	"page-hits/internal/observability/logging"
	"page-hits/internal/repository"
)

// HitRecorder counts page hits in the metrics registry.
type HitRecorder interface {
	RecordPageHit(pageName string)
}

// Service provides page management use cases.
// It handles business logic for page operations and delegates storage to the repository.
type Service struct {
	Repo    repository.PageRepository
	Metrics HitRecorder
}

// Create registers a new page.
// Returns a ValidationError (matching entity.ErrInvalidInput) if the name is missing or invalid.
func (s *Service) Create(ctx context.Context, name string) (*entity.Page, error) {
	page, err := s.Repo.Create(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("create page: %w", err)
	}

	logging.FromContext(ctx).Info("page created",
		slog.Int64("page_id", page.ID),
		slog.String("page_name", page.Name))
	return page, nil
}

// List returns all pages in creation order.
func (s *Service) List(ctx context.Context) ([]*entity.Page, error) {
	pages, err := s.Repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list pages: %w", err)
	}
	return pages, nil
}

// GetHits returns the hit count of a page.
// Returns ErrPageNotFound if the page does not exist.
func (s *Service) GetHits(ctx context.Context, id int64) (int64, error) {
	hits, err := s.Repo.GetHits(ctx, id)
	if err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			return 0, ErrPageNotFound
		}
		return 0, fmt.Errorf("get hits: %w", err)
	}
	return hits, nil
}

// RecordHit adds one hit to a page and counts it in page_hits_total.
// Returns ErrPageNotFound if the page does not exist; in that case neither
// the store nor the metrics change.
func (s *Service) RecordHit(ctx context.Context, id int64) (*entity.Page, error) {
	page, err := s.Repo.IncrementHit(ctx, id)
	if err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			return nil, ErrPageNotFound
		}
		return nil, fmt.Errorf("record hit: %w", err)
	}

	if s.Metrics != nil {
		s.Metrics.RecordPageHit(page.Name)
	}

	logging.FromContext(ctx).Info("hit recorded",
		slog.Int64("page_id", page.ID),
		slog.String("page_name", page.Name),
		slog.Int64("total_hits", page.Hits))
	return page, nil
}
