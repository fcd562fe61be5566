package httpapi

import (
	"embed"
	"errors"
	"html/template"
	"io"
	"mime"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrijs2005/truproof/internal/common"
	"github.com/dmitrijs2005/truproof/internal/server/blobstore"
	"github.com/dmitrijs2005/truproof/internal/server/httpapi/apierrors"
	"github.com/dmitrijs2005/truproof/internal/server/visualcode"
)

//go:embed templates/verify.html
var templatesFS embed.FS

var verifyTemplate = template.Must(template.ParseFS(templatesFS, "templates/verify.html"))

type verifyView struct {
	Found        bool
	ID           string
	Heading      string
	Description  string
	NominalDate  string
	CreatedAt    string
	OriginalName string
	ArtifactURL  string
	IsImage      bool
	CodeImage    template.URL
}

// verifyPage handles GET /verify/{id}, the page a scanned code opens.
// Unknown ids render the not-found page with status 404.
func (h *Handler) verifyPage(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	view := verifyView{ID: id}
	status := http.StatusOK

	c, err := h.certs.Resolve(r.Context(), id)
	switch {
	case err == nil:
		verifications.WithLabelValues("found").Inc()
		heading := c.Title
		if heading == "" {
			heading = c.OriginalName
		}
		view = verifyView{
			Found:        true,
			ID:           c.ID,
			Heading:      heading,
			Description:  c.Description,
			NominalDate:  c.NominalDate,
			CreatedAt:    formatTime(c.CreatedAt),
			OriginalName: c.OriginalName,
			ArtifactURL:  common.VerifyPathSegment + c.ID + "/artifact",
			IsImage:      blobstore.IsRasterImage(c.ContentType),
			// Data URL built from our own PNG bytes.
			CodeImage: template.URL(visualcode.DataURL(c.CodeImage)),
		}
	case errors.Is(err, common.ErrorNotFound):
		verifications.WithLabelValues("not_found").Inc()
		status = http.StatusNotFound
	default:
		h.log.Error(r.Context(), "verify lookup failed", "id", id, "error", err)
		apierrors.FromError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := verifyTemplate.Execute(w, view); err != nil {
		h.log.Error(r.Context(), "render verify page", "error", err)
	}
}

// artifact handles GET /verify/{id}/artifact and streams the stored file.
func (h *Handler) artifact(w http.ResponseWriter, r *http.Request) {
	c, rc, err := h.certs.OpenArtifact(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		apierrors.FromError(w, err)
		return
	}
	defer rc.Close()

	// Only raster images are rendered in place. Anything else, such as
	// records stored before uploads were restricted, is forced to download.
	ct := c.ContentType
	disposition := "inline"
	if !blobstore.IsRasterImage(ct) {
		ct = "application/octet-stream"
		disposition = "attachment"
	}
	w.Header().Set("Content-Type", ct)
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("Content-Security-Policy", "default-src 'none'; sandbox")
	if cd := mime.FormatMediaType(disposition, map[string]string{"filename": c.OriginalName}); cd != "" {
		w.Header().Set("Content-Disposition", cd)
	} else {
		w.Header().Set("Content-Disposition", disposition)
	}
	w.WriteHeader(http.StatusOK)

	if _, err := io.Copy(w, rc); err != nil {
		h.log.Warn(r.Context(), "artifact stream interrupted", "id", c.ID, "error", err)
	}
}
