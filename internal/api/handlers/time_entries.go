package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/hugh/go-planner/internal/api/dto"
	"github.com/hugh/go-planner/internal/api/validation"
	"github.com/hugh/go-planner/internal/apperr"
	"github.com/hugh/go-planner/internal/repository"
	"github.com/hugh/go-planner/internal/service"
)

type TimeEntryHandler struct {
	responder
	repo    *repository.Repository
	service *service.Service
}

func NewTimeEntryHandler(repo *repository.Repository, svc *service.Service, logger *slog.Logger) *TimeEntryHandler {
	return &TimeEntryHandler{responder: responder{logger: logger}, repo: repo, service: svc}
}

// List handles GET /api/v1/time-entries?project_id=&start_date=&end_date=
func (h *TimeEntryHandler) List(w http.ResponseWriter, r *http.Request) {
	filter, err := timeEntryFilter(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	entries, err := h.repo.ListTimeEntries(r.Context(), filter)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, "Time entries retrieved successfully", entries)
}

func timeEntryFilter(r *http.Request) (repository.TimeEntryFilter, error) {
	var filter repository.TimeEntryFilter
	projectID, err := queryID(r, "project_id")
	if err != nil {
		return filter, err
	}
	filter.ProjectID = projectID

	fields := map[string]string{}
	parse := func(name string) *time.Time {
		raw := r.URL.Query().Get(name)
		if raw == "" {
			return nil
		}
		t, err := validation.ParseTime(raw)
		if err != nil {
			fields[name] = "Invalid date format"
			return nil
		}
		return &t
	}
	filter.From = parse("start_date")
	filter.To = parse("end_date")
	return filter, apperr.InvalidFields(fields)
}

// Create handles POST /api/v1/time-entries
func (h *TimeEntryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.TimeEntryRequest
	if !decode(w, r, &req) {
		return
	}
	in, err := req.Input()
	if err != nil {
		h.fail(w, r, err)
		return
	}

	entry, err := h.service.CreateTimeEntry(r.Context(), in)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeSuccess(w, http.StatusCreated, "Time entry created successfully", entry)
}

// Update handles PUT /api/v1/time-entries/{id}
func (h *TimeEntryHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r, "id")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	var req dto.TimeEntryRequest
	if !decode(w, r, &req) {
		return
	}
	in, err := req.Input()
	if err != nil {
		h.fail(w, r, err)
		return
	}

	entry, err := h.service.UpdateTimeEntry(r.Context(), id, in)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, "Time entry updated successfully", entry)
}
