// Package certifications persists certification records.
package certifications

import (
	"context"

	"github.com/dmitrijs2005/truproof/internal/server/models"
)

// Repository stores certification records keyed by their public id.
//
// GetByID and Delete return common.ErrorNotFound for unknown ids. List
// returns records newest first; an empty visibility matches all records.
// Listed records carry no CodeImage.
type Repository interface {
	Create(ctx context.Context, c *models.Certification) error
	GetByID(ctx context.Context, id string) (*models.Certification, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, visibility string) ([]*models.Certification, error)
}
