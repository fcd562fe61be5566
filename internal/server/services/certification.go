// Package services contains server-side business logic. This file implements
// CertificationService, which issues verification codes for uploaded
// artifacts and serves the verification read path.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/truproof/internal/common"
	"github.com/dmitrijs2005/truproof/internal/dbx"
	"github.com/dmitrijs2005/truproof/internal/filex"
	"github.com/dmitrijs2005/truproof/internal/logging"
	"github.com/dmitrijs2005/truproof/internal/server/blobstore"
	"github.com/dmitrijs2005/truproof/internal/server/config"
	"github.com/dmitrijs2005/truproof/internal/server/models"
	"github.com/dmitrijs2005/truproof/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/truproof/internal/server/visualcode"
)

// IssueRequest is an uploaded artifact plus its user-supplied metadata.
// Empty Visibility means public; empty NominalDate means now.
type IssueRequest struct {
	Data         []byte
	OriginalName string
	Title        string
	Description  string
	NominalDate  string
	Visibility   string
}

// IssueResult is what the uploader gets back: the public id, the URL the
// code points to and the code itself as PNG.
type IssueResult struct {
	ID        string
	VerifyURL string
	CodeImage []byte
}

// ListFilter narrows List. Empty Visibility matches all records.
type ListFilter struct {
	Visibility string
}

// CertificationService provides:
//   - Issue: store the artifact, mint an id, render its code, persist the record
//   - Resolve / List: read records
//   - Revoke: remove a record and its artifact together
//   - OpenArtifact: stream the stored artifact of a record
type CertificationService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	blobs       blobstore.Store
	codes       *visualcode.Encoder
	baseURL     string
	maxUpload   int64
	log         logging.Logger

	now   func() time.Time
	newID func() string
}

func NewCertificationService(db *sql.DB, m repomanager.RepositoryManager, blobs blobstore.Store,
	cfg *config.Config, log logging.Logger) *CertificationService {
	return &CertificationService{
		db:          db,
		repomanager: m,
		blobs:       blobs,
		codes:       visualcode.NewEncoder(cfg.QRCodeSize),
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		maxUpload:   cfg.MaxUploadSize,
		log:         log.With("module", "certifications"),
		now:         time.Now,
		newID:       uuid.NewString,
	}
}

// VerifyURL returns the URL encoded in the code of certification id.
func (s *CertificationService) VerifyURL(id string) string {
	return s.baseURL + common.VerifyPathSegment + id
}

// Issue validates req, stores the artifact and persists a new record whose
// code encodes VerifyURL(id). Nothing is stored when validation fails. When
// the record cannot be written the artifact is deleted again.
func (s *CertificationService) Issue(ctx context.Context, req IssueRequest) (*IssueResult, error) {
	visibility, contentType, err := s.validate(req)
	if err != nil {
		return nil, err
	}

	ref, err := s.blobs.Put(ctx, req.Data, filex.Ext(req.OriginalName))
	if err != nil {
		return nil, fmt.Errorf("%w: store artifact: %v", common.ErrorStorage, err)
	}

	id := s.newID()
	verifyURL := s.VerifyURL(id)

	png, err := s.codes.PNG(verifyURL)
	if err != nil {
		s.discard(ctx, ref)
		return nil, fmt.Errorf("%w: render code: %v", common.ErrorInternal, err)
	}

	now := s.now().UTC()
	nominal := req.NominalDate
	if nominal == "" {
		nominal = now.Format(time.RFC3339)
	}

	rec := &models.Certification{
		ID:           id,
		StorageRef:   ref,
		OriginalName: req.OriginalName,
		ContentType:  contentType,
		Title:        req.Title,
		Description:  req.Description,
		NominalDate:  nominal,
		CreatedAt:    now,
		CodeImage:    png,
		Visibility:   visibility,
	}

	if err := s.repomanager.Certifications(s.db).Create(ctx, rec); err != nil {
		s.discard(ctx, ref)
		return nil, fmt.Errorf("%w: create record: %v", common.ErrorRecordStore, err)
	}

	s.log.Info(ctx, "certification issued", "id", id, "size", len(req.Data), "visibility", visibility)

	return &IssueResult{ID: id, VerifyURL: verifyURL, CodeImage: png}, nil
}

// validate returns the effective visibility and the sniffed content type.
// Only raster images are accepted; markup such as SVG or HTML is rejected
// whatever its file name says.
func (s *CertificationService) validate(req IssueRequest) (string, string, error) {
	if len(req.Data) == 0 {
		return "", "", fmt.Errorf("%w: empty artifact", common.ErrorInvalidInput)
	}
	if strings.TrimSpace(req.OriginalName) == "" {
		return "", "", fmt.Errorf("%w: missing file name", common.ErrorInvalidInput)
	}
	if s.maxUpload > 0 && int64(len(req.Data)) > s.maxUpload {
		return "", "", fmt.Errorf("%w: artifact larger than %d bytes", common.ErrorInvalidInput, s.maxUpload)
	}

	ct := blobstore.ContentType(req.Data)
	if !blobstore.IsRasterImage(ct) {
		return "", "", fmt.Errorf("%w: artifact is not a supported raster image (%s)", common.ErrorInvalidInput, ct)
	}

	visibility := req.Visibility
	if visibility == "" {
		visibility = common.VisibilityPublic
	}
	if !common.ValidVisibility(visibility) {
		return "", "", fmt.Errorf("%w: unknown visibility %q", common.ErrorInvalidInput, visibility)
	}
	return visibility, ct, nil
}

// discard removes an artifact whose record was never written. It runs even
// if ctx is already canceled. A failure leaves an orphaned blob and is only
// logged.
func (s *CertificationService) discard(ctx context.Context, ref string) {
	if err := s.blobs.Delete(context.WithoutCancel(ctx), ref); err != nil {
		s.log.Error(ctx, "orphaned artifact", "ref", ref, "error", err)
	}
}

// Resolve returns the full record for id or common.ErrorNotFound. The id is
// looked up as given, without shape validation.
func (s *CertificationService) Resolve(ctx context.Context, id string) (*models.Certification, error) {
	rec, err := s.repomanager.Certifications(s.db).GetByID(ctx, id)
	if err != nil {
		return nil, recordErr(err)
	}
	return rec, nil
}

// Revoke deletes the record and its artifact. Both happen inside one
// record-store transaction: if the artifact cannot be removed the record
// deletion is rolled back. An artifact that is already gone is not an error.
func (s *CertificationService) Revoke(ctx context.Context, id string) error {
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Certifications(tx)

		rec, err := repo.GetByID(ctx, id)
		if err != nil {
			return recordErr(err)
		}

		if err := repo.Delete(ctx, id); err != nil {
			return recordErr(err)
		}

		err = s.blobs.Delete(ctx, rec.StorageRef)
		switch {
		case err == nil:
		case errors.Is(err, common.ErrorNotFound):
			s.log.Warn(ctx, "artifact already gone", "id", id, "ref", rec.StorageRef)
		default:
			return fmt.Errorf("%w: delete artifact: %v", common.ErrorStorage, err)
		}
		return nil
	})
	if err != nil {
		return recordErr(err)
	}

	s.log.Info(ctx, "certification revoked", "id", id)
	return nil
}

// List returns records newest first.
func (s *CertificationService) List(ctx context.Context, f ListFilter) ([]*models.Certification, error) {
	if f.Visibility != "" && !common.ValidVisibility(f.Visibility) {
		return nil, fmt.Errorf("%w: unknown visibility %q", common.ErrorInvalidInput, f.Visibility)
	}

	recs, err := s.repomanager.Certifications(s.db).List(ctx, f.Visibility)
	if err != nil {
		return nil, recordErr(err)
	}
	return recs, nil
}

// OpenArtifact resolves id and opens its artifact. The caller closes the
// reader.
func (s *CertificationService) OpenArtifact(ctx context.Context, id string) (*models.Certification, io.ReadCloser, error) {
	rec, err := s.Resolve(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	rc, err := s.blobs.Open(ctx, rec.StorageRef)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, nil, common.ErrorNotFound
		}
		return nil, nil, fmt.Errorf("%w: open artifact: %v", common.ErrorStorage, err)
	}
	return rec, rc, nil
}

// recordErr keeps sentinel errors and classifies everything else as a
// record-store failure.
func recordErr(err error) error {
	for _, sentinel := range []error{
		common.ErrorNotFound,
		common.ErrorInvalidInput,
		common.ErrorStorage,
		common.ErrorRecordStore,
		common.ErrorInternal,
	} {
		if errors.Is(err, sentinel) {
			return err
		}
	}
	return fmt.Errorf("%w: %v", common.ErrorRecordStore, err)
}
