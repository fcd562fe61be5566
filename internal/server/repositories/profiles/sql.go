package profiles

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/truproof/internal/common"
	"github.com/dmitrijs2005/truproof/internal/dbx"
	"github.com/dmitrijs2005/truproof/internal/server/models"
)

type dialect struct {
	get    string
	upsert string

	timeArg  func(time.Time) any
	timeDest func(*time.Time) any
}

type SQLRepository struct {
	db dbx.DBTX
	q  dialect
}

func (r *SQLRepository) Get(ctx context.Context, ownerID string) (*models.Profile, error) {
	p := &models.Profile{}
	err := r.db.QueryRowContext(ctx, r.q.get, ownerID).Scan(
		&p.OwnerID, &p.GivenName, &p.FamilyName, &p.BirthDate, &p.Email, &p.Phone,
		&p.Profession, &p.ZipCode, &p.City, &p.Country, &p.Fingerprint, &p.CodeImage,
		r.q.timeDest(&p.UpdatedAt))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return p, nil
}

func (r *SQLRepository) Upsert(ctx context.Context, p *models.Profile) error {
	_, err := r.db.ExecContext(ctx, r.q.upsert,
		p.OwnerID, p.GivenName, p.FamilyName, p.BirthDate, p.Email, p.Phone,
		p.Profession, p.ZipCode, p.City, p.Country, p.Fingerprint, p.CodeImage,
		r.q.timeArg(p.UpdatedAt))
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
