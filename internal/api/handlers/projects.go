package handlers

import (
	"log/slog"
	"net/http"

	"github.com/hugh/go-planner/internal/api/dto"
	"github.com/hugh/go-planner/internal/repository"
	"github.com/hugh/go-planner/internal/service"
)

type ProjectHandler struct {
	responder
	repo    *repository.Repository
	service *service.Service
}

func NewProjectHandler(repo *repository.Repository, svc *service.Service, logger *slog.Logger) *ProjectHandler {
	return &ProjectHandler{responder: responder{logger: logger}, repo: repo, service: svc}
}

// List handles GET /api/v1/projects
func (h *ProjectHandler) List(w http.ResponseWriter, r *http.Request) {
	projects, err := h.repo.ListProjects(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, "Projects retrieved successfully", projects)
}

// Create handles POST /api/v1/projects
func (h *ProjectHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateProjectRequest
	if !decode(w, r, &req) {
		return
	}
	in, err := req.Input()
	if err != nil {
		h.fail(w, r, err)
		return
	}

	project, err := h.service.CreateProject(r.Context(), in)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeSuccess(w, http.StatusCreated, "Project created successfully", project)
}

// Get handles GET /api/v1/projects/{id}
func (h *ProjectHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r, "id")
	if err != nil {
		h.fail(w, r, err)
		return
	}

	project, err := h.repo.GetProject(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, "Project retrieved successfully", project)
}

// Update handles PUT /api/v1/projects/{id}
func (h *ProjectHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r, "id")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	var req dto.UpdateProjectRequest
	if !decode(w, r, &req) {
		return
	}
	in, err := req.Input()
	if err != nil {
		h.fail(w, r, err)
		return
	}

	project, err := h.service.UpdateProject(r.Context(), id, in)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, "Project updated successfully", project)
}

// Archive handles DELETE /api/v1/projects/{id}
func (h *ProjectHandler) Archive(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r, "id")
	if err != nil {
		h.fail(w, r, err)
		return
	}

	if err := h.service.ArchiveProject(r.Context(), id); err != nil {
		h.fail(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, "Project archived successfully", nil)
}

// Stats handles GET /api/v1/projects/{id}/stats
func (h *ProjectHandler) Stats(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r, "id")
	if err != nil {
		h.fail(w, r, err)
		return
	}

	stats, err := h.repo.ProjectStats(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, "Project stats retrieved successfully", stats)
}

// Metrics handles GET /api/v1/projects/{id}/metrics
func (h *ProjectHandler) Metrics(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r, "id")
	if err != nil {
		h.fail(w, r, err)
		return
	}

	metrics, err := h.repo.ProjectMetrics(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, "Project metrics retrieved successfully", metrics)
}
