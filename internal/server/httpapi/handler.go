// Package httpapi exposes the truproof services over HTTP: the JSON API
// under /api, the public verification pages under /verify and the
// operational endpoints.
package httpapi

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dmitrijs2005/truproof/internal/logging"
	"github.com/dmitrijs2005/truproof/internal/server/httpapi/middleware"
	"github.com/dmitrijs2005/truproof/internal/server/models"
	"github.com/dmitrijs2005/truproof/internal/server/services"
)

// CertificationService is the certification side of the service layer.
type CertificationService interface {
	Issue(ctx context.Context, req services.IssueRequest) (*services.IssueResult, error)
	Resolve(ctx context.Context, id string) (*models.Certification, error)
	Revoke(ctx context.Context, id string) error
	List(ctx context.Context, f services.ListFilter) ([]*models.Certification, error)
	OpenArtifact(ctx context.Context, id string) (*models.Certification, io.ReadCloser, error)
	VerifyURL(id string) string
}

type ProfileService interface {
	Get(ctx context.Context) (*models.Profile, error)
	Save(ctx context.Context, in services.ProfileInput) (*models.Profile, error)
}

// Pinger reports whether the record store is reachable. *sql.DB satisfies it.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Handler serves all routes.
type Handler struct {
	certs     CertificationService
	profile   ProfileService
	db        Pinger
	log       logging.Logger
	maxUpload int64
}

func NewHandler(certs CertificationService, profile ProfileService, db Pinger, maxUpload int64, log logging.Logger) *Handler {
	return &Handler{
		certs:     certs,
		profile:   profile,
		db:        db,
		log:       log.With("module", "http"),
		maxUpload: maxUpload,
	}
}

// Router builds the chi router with middleware and all routes mounted.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger(h.log))
	r.Use(middleware.Metrics())
	r.Use(chimw.Recoverer)

	r.Get("/health/live", h.healthLive)
	r.Get("/health/ready", h.healthReady)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Route("/certifications", func(r chi.Router) {
			r.Post("/", h.issue)
			r.Get("/", h.list)
			r.Get("/{id}", h.get)
			r.Delete("/{id}", h.revoke)
			r.Get("/{id}/code.png", h.certificationCode)
		})
		r.Get("/profile", h.getProfile)
		r.Put("/profile", h.saveProfile)
		r.Get("/profile/code.png", h.profileCode)
	})

	r.Get("/verify/{id}", h.verifyPage)
	r.Get("/verify/{id}/artifact", h.artifact)

	return r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writePNG(w http.ResponseWriter, png []byte) {
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
