package handlers

import (
	"log/slog"
	"net/http"

	"github.com/hugh/go-planner/internal/api/dto"
	"github.com/hugh/go-planner/internal/repository"
	"github.com/hugh/go-planner/internal/service"
)

type CategoryHandler struct {
	responder
	repo    *repository.Repository
	service *service.Service
}

func NewCategoryHandler(repo *repository.Repository, svc *service.Service, logger *slog.Logger) *CategoryHandler {
	return &CategoryHandler{responder: responder{logger: logger}, repo: repo, service: svc}
}

// List handles GET /api/v1/categories
func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	categories, err := h.repo.ListCategories(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, "Categories retrieved successfully", categories)
}

// Create handles POST /api/v1/categories
func (h *CategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateCategoryRequest
	if !decode(w, r, &req) {
		return
	}
	in, err := req.Input()
	if err != nil {
		h.fail(w, r, err)
		return
	}

	category, err := h.service.CreateCategory(r.Context(), in)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeSuccess(w, http.StatusCreated, "Category created successfully", category)
}
