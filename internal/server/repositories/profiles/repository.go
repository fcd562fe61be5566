// Package profiles persists owner profiles together with their derived
// fingerprint.
package profiles

import (
	"context"

	"github.com/dmitrijs2005/truproof/internal/server/models"
)

type Repository interface {
	// Get returns common.ErrorNotFound when the owner has never saved a profile.
	Get(ctx context.Context, ownerID string) (*models.Profile, error)
	// Upsert writes all fields, fingerprint and code image in one statement.
	Upsert(ctx context.Context, p *models.Profile) error
}
