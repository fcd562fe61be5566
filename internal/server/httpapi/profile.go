package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/dmitrijs2005/truproof/internal/server/httpapi/apierrors"
	"github.com/dmitrijs2005/truproof/internal/server/models"
	"github.com/dmitrijs2005/truproof/internal/server/services"
	"github.com/dmitrijs2005/truproof/internal/server/visualcode"
)

type profileJSON struct {
	GivenName  string `json:"given_name"`
	FamilyName string `json:"family_name"`
	BirthDate  string `json:"birth_date"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Profession string `json:"profession"`
	ZipCode    string `json:"zip_code"`
	City       string `json:"city"`
	Country    string `json:"country"`
}

type profileResponse struct {
	profileJSON
	Fingerprint string `json:"fingerprint"`
	CodeImage   string `json:"code_image,omitempty"`
	UpdatedAt   string `json:"updated_at,omitempty"`
}

// profileRequest tolerates a fingerprint so an edited GET response can be
// sent back as is. The value is ignored; Save always derives its own.
type profileRequest struct {
	profileJSON
	Fingerprint string `json:"fingerprint"`
}

func toProfileResponse(p *models.Profile) profileResponse {
	return profileResponse{
		profileJSON: profileJSON{
			GivenName:  p.GivenName,
			FamilyName: p.FamilyName,
			BirthDate:  p.BirthDate,
			Email:      p.Email,
			Phone:      p.Phone,
			Profession: p.Profession,
			ZipCode:    p.ZipCode,
			City:       p.City,
			Country:    p.Country,
		},
		Fingerprint: p.Fingerprint,
		CodeImage:   visualcode.DataURL(p.CodeImage),
		UpdatedAt:   formatTime(p.UpdatedAt),
	}
}

// getProfile handles GET /api/profile.
func (h *Handler) getProfile(w http.ResponseWriter, r *http.Request) {
	p, err := h.profile.Get(r.Context())
	if err != nil {
		apierrors.FromError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toProfileResponse(p))
}

// saveProfile handles PUT /api/profile.
func (h *Handler) saveProfile(w http.ResponseWriter, r *http.Request) {
	var req profileRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 64<<10))
	if err := dec.Decode(&req); err != nil {
		apierrors.ValidationError(w, "invalid request body")
		return
	}

	p, err := h.profile.Save(r.Context(), services.ProfileInput{
		GivenName:  req.GivenName,
		FamilyName: req.FamilyName,
		BirthDate:  req.BirthDate,
		Email:      req.Email,
		Phone:      req.Phone,
		Profession: req.Profession,
		ZipCode:    req.ZipCode,
		City:       req.City,
		Country:    req.Country,
	})
	if err != nil {
		h.log.Error(r.Context(), "save profile failed", "error", err)
		apierrors.FromError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toProfileResponse(p))
}

// profileCode handles GET /api/profile/code.png. There is no code until a
// profile with an identity field has been saved.
func (h *Handler) profileCode(w http.ResponseWriter, r *http.Request) {
	p, err := h.profile.Get(r.Context())
	if err != nil {
		apierrors.FromError(w, err)
		return
	}
	if len(p.CodeImage) == 0 {
		apierrors.NotFound(w, "profile has no fingerprint yet")
		return
	}
	writePNG(w, p.CodeImage)
}
