package handlers

import (
	"log/slog"
	"net/http"

	"github.com/hugh/go-planner/internal/api/dto"
	"github.com/hugh/go-planner/internal/api/middleware"
	"github.com/hugh/go-planner/internal/apperr"
	"github.com/hugh/go-planner/internal/auth"
	"github.com/hugh/go-planner/internal/repository"
	"github.com/hugh/go-planner/internal/tenant"
)

type AuthHandler struct {
	responder
	authService auth.Authenticator
	tokens      auth.TokenService
	repo        *repository.Repository
}

func NewAuthHandler(authService auth.Authenticator, tokens auth.TokenService, repo *repository.Repository, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		responder:   responder{logger: logger},
		authService: authService,
		tokens:      tokens,
		repo:        repo,
	}
}

// Register handles POST /api/v1/auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if !decode(w, r, &req) {
		return
	}

	if errors := req.Validate(); len(errors) > 0 {
		h.fail(w, r, apperr.InvalidFields(errors))
		return
	}

	user, err := h.authService.Register(r.Context(), req.Input())
	if err != nil {
		h.fail(w, r, err)
		return
	}

	writeSuccess(w, http.StatusCreated, "User registered successfully", user)
}

// Login handles POST /api/v1/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if !decode(w, r, &req) {
		return
	}

	if errors := req.Validate(); len(errors) > 0 {
		h.fail(w, r, apperr.InvalidFields(errors))
		return
	}

	resp, err := h.authService.Login(r.Context(), req.Input())
	if err != nil {
		h.fail(w, r, err)
		return
	}

	writeSuccess(w, http.StatusOK, "Login successful", resp)
}

// Refresh handles POST /api/v1/auth/refresh. The presented token must still
// be valid; the new one carries the same identity.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	token, err := h.tokens.Refresh(middleware.BearerToken(r))
	if err != nil {
		h.fail(w, r, err)
		return
	}

	writeSuccess(w, http.StatusOK, "Token refreshed", dto.TokenResponse{Token: token})
}

// Logout is an acknowledgement only; tokens expire on their own.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	writeSuccess(w, http.StatusOK, "Logged out", nil)
}

// Me handles GET /api/v1/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	actor, err := tenant.FromContext(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}

	user, err := h.repo.GetUser(r.Context(), actor.UserID)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	writeSuccess(w, http.StatusOK, "User retrieved successfully", user)
}
