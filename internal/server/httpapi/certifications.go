package httpapi

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrijs2005/truproof/internal/common"
	"github.com/dmitrijs2005/truproof/internal/server/httpapi/apierrors"
	"github.com/dmitrijs2005/truproof/internal/server/models"
	"github.com/dmitrijs2005/truproof/internal/server/services"
	"github.com/dmitrijs2005/truproof/internal/server/visualcode"
)

// multipartOverhead is the room left for form fields and part headers on
// top of the artifact itself.
const multipartOverhead = 1 << 20

type issueResponse struct {
	ID        string `json:"id"`
	VerifyURL string `json:"verify_url"`
	CodeImage string `json:"code_image"`
}

type certificationResponse struct {
	ID           string `json:"id"`
	OriginalName string `json:"original_name"`
	ContentType  string `json:"content_type"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	Date         string `json:"date"`
	Visibility   string `json:"visibility"`
	CreatedAt    string `json:"created_at"`
	VerifyURL    string `json:"verify_url"`
	CodeImageURL string `json:"code_image_url"`
	ArtifactURL  string `json:"artifact_url"`
}

type listResponse struct {
	Items []certificationResponse `json:"items"`
}

func (h *Handler) toResponse(c *models.Certification) certificationResponse {
	return certificationResponse{
		ID:           c.ID,
		OriginalName: c.OriginalName,
		ContentType:  c.ContentType,
		Title:        c.Title,
		Description:  c.Description,
		Date:         c.NominalDate,
		Visibility:   c.Visibility,
		CreatedAt:    formatTime(c.CreatedAt),
		VerifyURL:    h.certs.VerifyURL(c.ID),
		CodeImageURL: "/api/certifications/" + c.ID + "/code.png",
		ArtifactURL:  common.VerifyPathSegment + c.ID + "/artifact",
	}
}

// issue handles POST /api/certifications.
// Multipart form: file (required), title, description, date, visibility.
func (h *Handler) issue(w http.ResponseWriter, r *http.Request) {
	if h.maxUpload > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload+multipartOverhead)
	}

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			apierrors.ValidationError(w, fmt.Sprintf("upload larger than %d bytes", h.maxUpload))
			return
		}
		apierrors.ValidationError(w, "invalid multipart form: "+err.Error())
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	file, header, err := r.FormFile("file")
	if err != nil {
		apierrors.ValidationError(w, "field 'file' is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		apierrors.ValidationError(w, "cannot read uploaded file")
		return
	}

	res, err := h.certs.Issue(r.Context(), services.IssueRequest{
		Data:         data,
		OriginalName: header.Filename,
		Title:        r.FormValue("title"),
		Description:  r.FormValue("description"),
		NominalDate:  r.FormValue("date"),
		Visibility:   r.FormValue("visibility"),
	})
	if err != nil {
		h.log.Warn(r.Context(), "issue failed", "error", err)
		apierrors.FromError(w, err)
		return
	}

	certificationsIssued.Inc()
	w.Header().Set("Location", "/api/certifications/"+res.ID)
	writeJSON(w, http.StatusCreated, issueResponse{
		ID:        res.ID,
		VerifyURL: res.VerifyURL,
		CodeImage: visualcode.DataURL(res.CodeImage),
	})
}

// list handles GET /api/certifications?visibility=public|private.
func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	recs, err := h.certs.List(r.Context(), services.ListFilter{Visibility: r.URL.Query().Get("visibility")})
	if err != nil {
		apierrors.FromError(w, err)
		return
	}

	resp := listResponse{Items: make([]certificationResponse, 0, len(recs))}
	for _, c := range recs {
		resp.Items = append(resp.Items, h.toResponse(c))
	}
	writeJSON(w, http.StatusOK, resp)
}

// get handles GET /api/certifications/{id}.
func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	c, err := h.certs.Resolve(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		apierrors.FromError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.toResponse(c))
}

// revoke handles DELETE /api/certifications/{id}.
func (h *Handler) revoke(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.certs.Revoke(r.Context(), id); err != nil {
		if !errors.Is(err, common.ErrorNotFound) {
			h.log.Error(r.Context(), "revoke failed", "id", id, "error", err)
		}
		apierrors.FromError(w, err)
		return
	}

	certificationsRevoked.Inc()
	w.WriteHeader(http.StatusNoContent)
}

// certificationCode handles GET /api/certifications/{id}/code.png.
func (h *Handler) certificationCode(w http.ResponseWriter, r *http.Request) {
	c, err := h.certs.Resolve(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		apierrors.FromError(w, err)
		return
	}
	writePNG(w, c.CodeImage)
}
