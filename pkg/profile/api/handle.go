package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/google/uuid"
	"github.com/jinzhu/copier"
	apperrors "github.com/tendant/simple-account/pkg/errors"
	"github.com/tendant/simple-account/pkg/httpapi"
	"github.com/tendant/simple-account/pkg/profile"
)

// ProfileHandler exposes profiles over HTTP
type ProfileHandler struct {
	profileService *profile.ProfileService
	validator      *httpapi.Validator
}

func NewProfileHandler(profileService *profile.ProfileService) *ProfileHandler {
	return &ProfileHandler{
		profileService: profileService,
		validator:      httpapi.NewValidator(),
	}
}

type ProfileRequest struct {
	FirstName string `json:"first_name" validate:"max=255"`
	LastName  string `json:"last_name" validate:"max=255"`
	Image     string `json:"image"`
}

// Routes mounts the profile endpoints relative to their mount point.
// writeMiddlewares guard create and update.
func (h *ProfileHandler) Routes(writeMiddlewares ...func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.ListProfiles)
	r.Get("/{id}", h.GetProfile)

	r.Group(func(r chi.Router) {
		r.Use(writeMiddlewares...)
		r.Post("/", h.CreateProfile)
		r.Put("/{id}", h.UpdateProfile)
	})

	return r
}

func (h *ProfileHandler) CreateProfile(w http.ResponseWriter, r *http.Request) {
	var req ProfileRequest
	if !httpapi.Bind(w, r, h.validator, &req) {
		return
	}

	var p profile.Profile
	copier.Copy(&p, &req)

	created, err := h.profileService.CreateProfile(r.Context(), p)
	if err != nil {
		httpapi.RenderServiceError(w, r, "Failed to create profile", err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, created)
}

func (h *ProfileHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	id, ok := profileID(w, r)
	if !ok {
		return
	}

	var req ProfileRequest
	if !httpapi.Bind(w, r, h.validator, &req) {
		return
	}

	p := profile.Profile{ID: id}
	copier.Copy(&p, &req)

	updated, err := h.profileService.UpdateProfile(r.Context(), p)
	if err != nil {
		httpapi.RenderServiceError(w, r, "Failed to update profile", err)
		return
	}

	render.JSON(w, r, updated)
}

func (h *ProfileHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	id, ok := profileID(w, r)
	if !ok {
		return
	}

	p, found, err := h.profileService.GetProfile(r.Context(), id)
	if err != nil {
		httpapi.RenderServiceError(w, r, "Failed to get profile", err)
		return
	}
	if !found {
		httpapi.RenderError(w, r, http.StatusNotFound, apperrors.ErrCodeNotFound, "Profile not found", "")
		return
	}

	render.JSON(w, r, p)
}

func (h *ProfileHandler) ListProfiles(w http.ResponseWriter, r *http.Request) {
	profiles, err := h.profileService.GetAllProfiles(r.Context())
	if err != nil {
		httpapi.RenderServiceError(w, r, "Failed to list profiles", err)
		return
	}

	render.JSON(w, r, profiles)
}

func profileID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpapi.RenderError(w, r, http.StatusBadRequest, apperrors.ErrCodeInvalidInput, "Invalid profile ID", err.Error())
		return uuid.Nil, false
	}
	return id, true
}
