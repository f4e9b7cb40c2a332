package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/google/uuid"
	"github.com/jinzhu/copier"
	"github.com/tendant/simple-account/pkg/account"
	apperrors "github.com/tendant/simple-account/pkg/errors"
	"github.com/tendant/simple-account/pkg/httpapi"
	"github.com/tendant/simple-account/pkg/intake"
	"github.com/tendant/simple-account/pkg/profile"
	"github.com/tendant/simple-account/pkg/role"
)

// AccountHandler exposes account provisioning over HTTP
type AccountHandler struct {
	accountService *account.AccountService
	validator      *httpapi.Validator
}

func NewAccountHandler(accountService *account.AccountService) *AccountHandler {
	return &AccountHandler{
		accountService: accountService,
		validator:      httpapi.NewValidator(),
	}
}

// ProfileRequest either links an existing profile by ID or carries the
// fields to store for the account
type ProfileRequest struct {
	ID        uuid.UUID `json:"id,omitempty"`
	FirstName string    `json:"first_name" validate:"max=255"`
	LastName  string    `json:"last_name" validate:"max=255"`
	Image     string    `json:"image"`
}

// IntakeRequest references an existing intake by code
type IntakeRequest struct {
	IntakeCode string `json:"intake_code" validate:"required,max=64"`
}

// CreateAccountRequest is the body of POST /accounts. No credential is
// accepted: the initial one is derived from the username, so the username
// is bounded by login.MaxSecretBytes.
type CreateAccountRequest struct {
	Username string          `json:"username" validate:"required,maxbytes=56"`
	Email    string          `json:"email" validate:"omitempty,email,max=255"`
	Roles    []string        `json:"roles" validate:"dive,required"`
	Profile  *ProfileRequest `json:"profile,omitempty"`
	Intake   *IntakeRequest  `json:"intake,omitempty"`
}

// UpdateAccountRequest is the body of PUT /accounts/{username}. It replaces
// every mutable field, so omitted profile or intake clear the link.
type UpdateAccountRequest struct {
	Email   string          `json:"email" validate:"omitempty,email,max=255"`
	Deleted bool            `json:"deleted"`
	Roles   []string        `json:"roles" validate:"required,min=1,dive,required"`
	Profile *ProfileRequest `json:"profile,omitempty"`
	Intake  *IntakeRequest  `json:"intake,omitempty"`
}

// AccountResponse is an account without its credential hash
type AccountResponse struct {
	ID             uuid.UUID        `json:"id"`
	Username       string           `json:"username"`
	Email          string           `json:"email"`
	Deleted        bool             `json:"deleted"`
	Roles          []string         `json:"roles" copier:"-"`
	Profile        *profile.Profile `json:"profile,omitempty"`
	Intake         *intake.Intake   `json:"intake,omitempty"`
	CreatedAt      time.Time        `json:"created_at"`
	LastModifiedAt time.Time        `json:"last_modified_at"`
}

type ExistsResponse struct {
	Username bool `json:"username"`
	Email    bool `json:"email"`
}

type IdentityResponse struct {
	ID          uuid.UUID `json:"id"`
	Username    string    `json:"username"`
	Email       string    `json:"email"`
	Authorities []string  `json:"authorities"`
}

type MeResponse struct {
	Name          string            `json:"name"`
	Authenticated bool              `json:"authenticated"`
	Identity      *IdentityResponse `json:"identity,omitempty"`
}

// Routes mounts the account endpoints. writeMiddlewares guard the create and
// update routes only.
func (h *AccountHandler) Routes(writeMiddlewares ...func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/me", h.Me)
	r.Get("/accounts/exists", h.Exists)
	r.Get("/accounts/{username}", h.GetAccount)

	r.Group(func(r chi.Router) {
		r.Use(writeMiddlewares...)
		r.Post("/accounts", h.CreateAccount)
		r.Put("/accounts/{username}", h.UpdateAccount)
	})

	return r
}

func (h *AccountHandler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	var req CreateAccountRequest
	if !httpapi.Bind(w, r, h.validator, &req) {
		return
	}

	candidate := account.Account{
		Username: req.Username,
		Email:    req.Email,
		Roles:    toRoles(req.Roles),
		Profile:  toProfile(req.Profile),
		Intake:   toIntake(req.Intake),
	}

	created, err := h.accountService.CreateAccount(r.Context(), candidate)
	if err != nil {
		httpapi.RenderServiceError(w, r, "Failed to create account", err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, toAccountResponse(created))
}

func (h *AccountHandler) UpdateAccount(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")

	var req UpdateAccountRequest
	if !httpapi.Bind(w, r, h.validator, &req) {
		return
	}

	updated, err := h.accountService.UpdateAccount(r.Context(), &account.Account{
		Username: username,
		Email:    req.Email,
		Deleted:  req.Deleted,
		Roles:    toRoles(req.Roles),
		Profile:  toProfile(req.Profile),
		Intake:   toIntake(req.Intake),
	})
	if err != nil {
		httpapi.RenderServiceError(w, r, "Failed to update account", err)
		return
	}

	render.JSON(w, r, toAccountResponse(updated))
}

func (h *AccountHandler) GetAccount(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")

	a, ok, err := h.accountService.GetUserByUsername(r.Context(), username)
	if err != nil {
		httpapi.RenderServiceError(w, r, "Failed to get account", err)
		return
	}
	if !ok {
		httpapi.RenderError(w, r, http.StatusNotFound, apperrors.ErrCodeUserNotFound, "Account not found", "")
		return
	}

	render.JSON(w, r, toAccountResponse(a))
}

func (h *AccountHandler) Exists(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	query := r.URL.Query()

	byUsername, err := h.accountService.ExistsByUsername(ctx, query.Get("username"))
	if err != nil {
		httpapi.RenderServiceError(w, r, "Failed to check username", err)
		return
	}
	byEmail, err := h.accountService.ExistsByEmail(ctx, query.Get("email"))
	if err != nil {
		httpapi.RenderServiceError(w, r, "Failed to check email", err)
		return
	}

	render.JSON(w, r, ExistsResponse{Username: byUsername, Email: byEmail})
}

// Me reports the current principal and, when provisioned, its identity
func (h *AccountHandler) Me(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	name := h.accountService.GetUserName(ctx)
	resp := MeResponse{Name: name, Authenticated: name != account.AnonymousUser}

	if resp.Authenticated {
		id, err := h.accountService.LoadIdentityByUsername(ctx, name)
		switch {
		case err == nil:
			resp.Identity = &IdentityResponse{
				ID:          id.ID(),
				Username:    id.Username(),
				Email:       id.Email(),
				Authorities: id.Authorities(),
			}
		case apperrors.IsCode(err, apperrors.ErrCodeUserNotFound):
			slog.Debug("Principal has no account", "name", name)
		default:
			httpapi.RenderServiceError(w, r, "Failed to load identity", err)
			return
		}
	}

	render.JSON(w, r, resp)
}

func toRoles(names []string) []role.Role {
	roles := make([]role.Role, 0, len(names))
	for _, n := range names {
		roles = append(roles, role.Role{Name: role.Name(n)})
	}
	return roles
}

func toProfile(req *ProfileRequest) *profile.Profile {
	if req == nil {
		return nil
	}
	p := &profile.Profile{}
	copier.Copy(p, req)
	return p
}

func toIntake(req *IntakeRequest) *intake.Intake {
	if req == nil {
		return nil
	}
	in := &intake.Intake{}
	copier.Copy(in, req)
	return in
}

func toAccountResponse(a account.Account) AccountResponse {
	var resp AccountResponse
	copier.Copy(&resp, &a)

	resp.Roles = make([]string, len(a.Roles))
	for i, r := range a.Roles {
		resp.Roles[i] = r.Name.String()
	}
	return resp
}
