package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/truproof/internal/common"
	"github.com/dmitrijs2005/truproof/internal/logging"
	"github.com/dmitrijs2005/truproof/internal/server/config"
	"github.com/dmitrijs2005/truproof/internal/server/fingerprint"
	"github.com/dmitrijs2005/truproof/internal/server/models"
	"github.com/dmitrijs2005/truproof/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/truproof/internal/server/visualcode"
)

// ProfileInput carries the editable profile fields. There is no fingerprint
// field: the fingerprint is always derived on the server.
type ProfileInput struct {
	GivenName  string
	FamilyName string
	BirthDate  string
	Email      string
	Phone      string
	Profession string
	ZipCode    string
	City       string
	Country    string
}

// ProfileService manages the installation's single owner profile.
type ProfileService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	codes       *visualcode.Encoder
	owner       string
	log         logging.Logger

	now func() time.Time
}

func NewProfileService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config, log logging.Logger) *ProfileService {
	return &ProfileService{
		db:          db,
		repomanager: m,
		codes:       visualcode.NewEncoder(cfg.QRCodeSize),
		owner:       common.DefaultProfileOwner,
		log:         log.With("module", "profile"),
		now:         time.Now,
	}
}

// Get returns the saved profile, or an empty one if nothing was saved yet.
func (s *ProfileService) Get(ctx context.Context) (*models.Profile, error) {
	p, err := s.repomanager.Profiles(s.db).Get(ctx, s.owner)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return &models.Profile{OwnerID: s.owner}, nil
		}
		return nil, fmt.Errorf("%w: %v", common.ErrorRecordStore, err)
	}
	return p, nil
}

// Save replaces all profile fields. The fingerprint and its code image are
// re-derived from in and written in the same statement as the fields.
func (s *ProfileService) Save(ctx context.Context, in ProfileInput) (*models.Profile, error) {
	fp := fingerprint.Derive(fingerprint.Fields{
		GivenName:  in.GivenName,
		FamilyName: in.FamilyName,
		Email:      in.Email,
		BirthDate:  in.BirthDate,
	})

	var png []byte
	if fp != "" {
		var err error
		png, err = s.codes.PNG(fp)
		if err != nil {
			return nil, fmt.Errorf("%w: render code: %v", common.ErrorInternal, err)
		}
	}

	p := &models.Profile{
		OwnerID:     s.owner,
		GivenName:   in.GivenName,
		FamilyName:  in.FamilyName,
		BirthDate:   in.BirthDate,
		Email:       in.Email,
		Phone:       in.Phone,
		Profession:  in.Profession,
		ZipCode:     in.ZipCode,
		City:        in.City,
		Country:     in.Country,
		Fingerprint: fp,
		CodeImage:   png,
		UpdatedAt:   s.now().UTC(),
	}

	if err := s.repomanager.Profiles(s.db).Upsert(ctx, p); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrorRecordStore, err)
	}

	s.log.Info(ctx, "profile saved", "fingerprint", fp)
	return p, nil
}
