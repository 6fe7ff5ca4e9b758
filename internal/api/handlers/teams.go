package handlers

import (
	"log/slog"
	"net/http"

	"github.com/hugh/go-planner/internal/api/dto"
	"github.com/hugh/go-planner/internal/repository"
	"github.com/hugh/go-planner/internal/service"
)

type TeamHandler struct {
	responder
	repo    *repository.Repository
	service *service.Service
}

func NewTeamHandler(repo *repository.Repository, svc *service.Service, logger *slog.Logger) *TeamHandler {
	return &TeamHandler{responder: responder{logger: logger}, repo: repo, service: svc}
}

// List handles GET /api/v1/teams
func (h *TeamHandler) List(w http.ResponseWriter, r *http.Request) {
	teams, err := h.repo.ListTeams(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, "Teams retrieved successfully", teams)
}

// Get handles GET /api/v1/teams/{id}
func (h *TeamHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r, "id")
	if err != nil {
		h.fail(w, r, err)
		return
	}

	team, err := h.repo.GetTeam(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, "Team retrieved successfully", team)
}

// Create handles POST /api/v1/teams
func (h *TeamHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateTeamRequest
	if !decode(w, r, &req) {
		return
	}
	in, err := req.Input()
	if err != nil {
		h.fail(w, r, err)
		return
	}

	team, err := h.service.CreateTeam(r.Context(), in)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeSuccess(w, http.StatusCreated, "Team created successfully", team)
}

// AddMember handles POST /api/v1/teams/{id}/members
func (h *TeamHandler) AddMember(w http.ResponseWriter, r *http.Request) {
	teamID, err := urlID(r, "id")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	var req dto.AddMemberRequest
	if !decode(w, r, &req) {
		return
	}
	userID, err := req.UserUUID()
	if err != nil {
		h.fail(w, r, err)
		return
	}

	member, err := h.service.AddTeamMember(r.Context(), teamID, userID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeSuccess(w, http.StatusCreated, "Member added successfully", member)
}

// RemoveMember handles DELETE /api/v1/teams/{id}/members/{userID}
func (h *TeamHandler) RemoveMember(w http.ResponseWriter, r *http.Request) {
	teamID, err := urlID(r, "id")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	userID, err := urlID(r, "userID")
	if err != nil {
		h.fail(w, r, err)
		return
	}

	if err := h.service.RemoveTeamMember(r.Context(), teamID, userID); err != nil {
		h.fail(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, "Member removed successfully", nil)
}
