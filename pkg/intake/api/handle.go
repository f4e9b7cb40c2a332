package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	apperrors "github.com/tendant/simple-account/pkg/errors"
	"github.com/tendant/simple-account/pkg/httpapi"
	"github.com/tendant/simple-account/pkg/intake"
)

// IntakeHandler exposes intakes over HTTP. Accounts only link to intakes
// created here.
type IntakeHandler struct {
	intakeService *intake.IntakeService
	validator     *httpapi.Validator
}

func NewIntakeHandler(intakeService *intake.IntakeService) *IntakeHandler {
	return &IntakeHandler{
		intakeService: intakeService,
		validator:     httpapi.NewValidator(),
	}
}

type CreateIntakeRequest struct {
	Name       string `json:"name" validate:"required,max=255"`
	IntakeCode string `json:"intake_code" validate:"required,max=64"`
}

// Routes mounts the intake endpoints relative to their mount point.
// writeMiddlewares guard creation.
func (h *IntakeHandler) Routes(writeMiddlewares ...func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/{code}", h.GetIntake)

	r.Group(func(r chi.Router) {
		r.Use(writeMiddlewares...)
		r.Post("/", h.CreateIntake)
	})

	return r
}

func (h *IntakeHandler) CreateIntake(w http.ResponseWriter, r *http.Request) {
	var req CreateIntakeRequest
	if !httpapi.Bind(w, r, h.validator, &req) {
		return
	}

	created, err := h.intakeService.CreateIntake(r.Context(), req.Name, req.IntakeCode)
	if err != nil {
		httpapi.RenderServiceError(w, r, "Failed to create intake", err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, created)
}

func (h *IntakeHandler) GetIntake(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")

	in, ok, err := h.intakeService.GetIntakeByCode(r.Context(), code)
	if err != nil {
		httpapi.RenderServiceError(w, r, "Failed to get intake", err)
		return
	}
	if !ok {
		httpapi.RenderError(w, r, http.StatusNotFound, apperrors.ErrCodeNotFound, "Intake not found", "")
		return
	}

	render.JSON(w, r, in)
}
