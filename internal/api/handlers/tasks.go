package handlers

import (
	"log/slog"
	"net/http"

	"github.com/hugh/go-planner/internal/api/dto"
	"github.com/hugh/go-planner/internal/repository"
	"github.com/hugh/go-planner/internal/service"
)

// TaskHandler serves tasks together with their subtasks and dependencies.
type TaskHandler struct {
	responder
	repo    *repository.Repository
	service *service.Service
}

func NewTaskHandler(repo *repository.Repository, svc *service.Service, logger *slog.Logger) *TaskHandler {
	return &TaskHandler{responder: responder{logger: logger}, repo: repo, service: svc}
}

// List handles GET /api/v1/tasks?project_id=
func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	projectID, err := queryID(r, "project_id")
	if err != nil {
		h.fail(w, r, err)
		return
	}

	tasks, err := h.repo.ListTasks(r.Context(), repository.TaskFilter{ProjectID: projectID})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, "Tasks retrieved successfully", tasks)
}

// Create handles POST /api/v1/tasks
func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateTaskRequest
	if !decode(w, r, &req) {
		return
	}
	in, err := req.Input()
	if err != nil {
		h.fail(w, r, err)
		return
	}

	task, err := h.service.CreateTask(r.Context(), in)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeSuccess(w, http.StatusCreated, "Task created successfully", task)
}

// Get handles GET /api/v1/tasks/{id}
func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r, "id")
	if err != nil {
		h.fail(w, r, err)
		return
	}

	task, err := h.repo.GetTask(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, "Task retrieved successfully", task)
}

// Update handles PUT /api/v1/tasks/{id}
func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r, "id")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	var req dto.UpdateTaskRequest
	if !decode(w, r, &req) {
		return
	}
	in, err := req.Input()
	if err != nil {
		h.fail(w, r, err)
		return
	}

	task, err := h.service.UpdateTask(r.Context(), id, in)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, "Task updated successfully", task)
}

// Delete handles DELETE /api/v1/tasks/{id}
func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r, "id")
	if err != nil {
		h.fail(w, r, err)
		return
	}

	if err := h.service.DeleteTask(r.Context(), id); err != nil {
		h.fail(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, "Task deleted successfully", nil)
}

// CreateSubtask handles POST /api/v1/subtasks
func (h *TaskHandler) CreateSubtask(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateSubtaskRequest
	if !decode(w, r, &req) {
		return
	}
	in, err := req.Input()
	if err != nil {
		h.fail(w, r, err)
		return
	}

	subtask, err := h.service.CreateSubtask(r.Context(), in)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeSuccess(w, http.StatusCreated, "Subtask created successfully", subtask)
}

// UpdateSubtask handles PUT /api/v1/subtasks/{id}
func (h *TaskHandler) UpdateSubtask(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r, "id")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	var req dto.UpdateSubtaskRequest
	if !decode(w, r, &req) {
		return
	}
	in, err := req.Input()
	if err != nil {
		h.fail(w, r, err)
		return
	}

	subtask, err := h.service.UpdateSubtask(r.Context(), id, in)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, "Subtask updated successfully", subtask)
}

// DeleteSubtask handles DELETE /api/v1/subtasks/{id}
func (h *TaskHandler) DeleteSubtask(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r, "id")
	if err != nil {
		h.fail(w, r, err)
		return
	}

	if err := h.service.DeleteSubtask(r.Context(), id); err != nil {
		h.fail(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, "Subtask deleted successfully", nil)
}

// ListDependencies handles GET /api/v1/tasks/{id}/dependencies
func (h *TaskHandler) ListDependencies(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r, "id")
	if err != nil {
		h.fail(w, r, err)
		return
	}

	deps, err := h.repo.ListDependencies(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, "Dependencies retrieved successfully", deps)
}

// AddDependency handles POST /api/v1/tasks/{id}/dependencies
func (h *TaskHandler) AddDependency(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r, "id")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	var req dto.DependencyRequest
	if !decode(w, r, &req) {
		return
	}
	in, err := req.Input()
	if err != nil {
		h.fail(w, r, err)
		return
	}

	dep, err := h.service.AddDependency(r.Context(), id, in)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeSuccess(w, http.StatusCreated, "Dependency added successfully", dep)
}

// RemoveDependency handles DELETE /api/v1/tasks/{id}/dependencies/{dependencyID}
func (h *TaskHandler) RemoveDependency(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r, "id")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	depID, err := urlID(r, "dependencyID")
	if err != nil {
		h.fail(w, r, err)
		return
	}

	if err := h.service.RemoveDependency(r.Context(), id, depID); err != nil {
		h.fail(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, "Dependency removed successfully", nil)
}
