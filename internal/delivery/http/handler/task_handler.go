package handler

import (
	"errors"
	"net/http"

	"github.com/charmbracelet/log"

	"taskmanager/internal/application/task"
	domain "taskmanager/internal/domain/task"
)

type TaskHandler struct {
	service task.Service
	logger  *log.Logger
}

func NewTaskHandler(service task.Service, logger *log.Logger) *TaskHandler {
	return &TaskHandler{
		service: service,
		logger:  logger,
	}
}

// List handles GET /api/tasks
func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	u := GetUserFromContext(r.Context())
	tasks, err := h.service.List(r.Context(), u.ID)
	if err != nil {
		sendInternalError(w, r, h.logger, "Failed to list tasks", err)
		return
	}
	SendJSON(w, http.StatusOK, tasks)
}

// Get handles GET /api/tasks/{id}
func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		SendError(w, "Invalid task id", http.StatusBadRequest)
		return
	}
	u := GetUserFromContext(r.Context())
	t, err := h.service.Get(r.Context(), u.ID, id)
	if err != nil {
		h.sendTaskError(w, r, err, "Failed to get task")
		return
	}
	SendJSON(w, http.StatusOK, t)
}

// Create handles POST /api/tasks
func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in domain.Input
	if err := decodeJSON(r, &in); err != nil {
		SendError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	u := GetUserFromContext(r.Context())
	t, err := h.service.Create(r.Context(), u.ID, in)
	if err != nil {
		h.sendTaskError(w, r, err, "Failed to create task")
		return
	}
	SendJSON(w, http.StatusCreated, t)
}

// Update handles PUT /api/tasks/{id}
func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		SendError(w, "Invalid task id", http.StatusBadRequest)
		return
	}
	var in domain.Input
	if err := decodeJSON(r, &in); err != nil {
		SendError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	u := GetUserFromContext(r.Context())
	t, err := h.service.Update(r.Context(), u.ID, id, in)
	if err != nil {
		h.sendTaskError(w, r, err, "Failed to update task")
		return
	}
	SendJSON(w, http.StatusOK, t)
}

// Toggle handles PUT /api/tasks/{id}/toggle
func (h *TaskHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		SendError(w, "Invalid task id", http.StatusBadRequest)
		return
	}
	u := GetUserFromContext(r.Context())
	t, err := h.service.Toggle(r.Context(), u.ID, id)
	if err != nil {
		h.sendTaskError(w, r, err, "Failed to toggle task")
		return
	}
	SendJSON(w, http.StatusOK, t)
}

// Delete handles DELETE /api/tasks/{id}
func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		SendError(w, "Invalid task id", http.StatusBadRequest)
		return
	}
	u := GetUserFromContext(r.Context())
	if err := h.service.Delete(r.Context(), u.ID, id); err != nil {
		h.sendTaskError(w, r, err, "Failed to delete task")
		return
	}
	SendNoContent(w)
}

// Search handles GET /api/tasks/search?keyword=
func (h *TaskHandler) Search(w http.ResponseWriter, r *http.Request) {
	u := GetUserFromContext(r.Context())
	tasks, err := h.service.Search(r.Context(), u.ID, r.URL.Query().Get("keyword"))
	if err != nil {
		sendInternalError(w, r, h.logger, "Search failed", err)
		return
	}
	SendJSON(w, http.StatusOK, tasks)
}

// Incomplete handles GET /api/tasks/incomplete
func (h *TaskHandler) Incomplete(w http.ResponseWriter, r *http.Request) {
	u := GetUserFromContext(r.Context())
	tasks, err := h.service.Incomplete(r.Context(), u.ID)
	if err != nil {
		sendInternalError(w, r, h.logger, "Failed to list incomplete tasks", err)
		return
	}
	SendJSON(w, http.StatusOK, tasks)
}

func (h *TaskHandler) sendTaskError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	switch {
	case errors.Is(err, domain.ErrTaskNotFound):
		SendError(w, "Task not found", http.StatusNotFound)
	case errors.Is(err, domain.ErrTitleRequired):
		SendError(w, "Title is required", http.StatusBadRequest)
	default:
		sendInternalError(w, r, h.logger, fallback, err)
	}
}
