// Package page provides HTTP handlers for page-related endpoints.
// It includes handlers for creating and listing pages and for reading and recording hits.
package page

import (
	"time"

	"page-hits/internal/domain/entity"
)

// DTO represents the JSON structure for page data transfer.
type DTO struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Hits      int64     `json:"hits"`
	CreatedAt time.Time `json:"created_at"`
}

// HitsDTO is the body of GET /api/pages/{id}/hits.
type HitsDTO struct {
	Hits int64 `json:"hits"`
}

type createRequest struct {
	Name string `json:"name"`
}

func toDTO(p *entity.Page) DTO {
	return DTO{
		ID:        p.ID,
		Name:      p.Name,
		Hits:      p.Hits,
		CreatedAt: p.CreatedAt,
	}
}
