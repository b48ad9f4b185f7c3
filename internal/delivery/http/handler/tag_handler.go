package handler

import (
	"errors"
	"net/http"

	"github.com/charmbracelet/log"

	"taskmanager/internal/application/tag"
	domain "taskmanager/internal/domain/tag"
)

type TagHandler struct {
	service tag.Service
	logger  *log.Logger
}

func NewTagHandler(service tag.Service, logger *log.Logger) *TagHandler {
	return &TagHandler{
		service: service,
		logger:  logger,
	}
}

// List handles GET /api/tags
func (h *TagHandler) List(w http.ResponseWriter, r *http.Request) {
	u := GetUserFromContext(r.Context())
	tags, err := h.service.List(r.Context(), u.ID)
	if err != nil {
		sendInternalError(w, r, h.logger, "Failed to list tags", err)
		return
	}
	SendJSON(w, http.StatusOK, tags)
}

// Get handles GET /api/tags/{id}
func (h *TagHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		SendError(w, "Invalid tag id", http.StatusBadRequest)
		return
	}
	u := GetUserFromContext(r.Context())
	t, err := h.service.Get(r.Context(), u.ID, id)
	if err != nil {
		h.sendTagError(w, r, err, "Failed to get tag")
		return
	}
	SendJSON(w, http.StatusOK, t)
}

// Create handles POST /api/tags
func (h *TagHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in domain.Input
	if err := decodeJSON(r, &in); err != nil {
		SendError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	u := GetUserFromContext(r.Context())
	t, err := h.service.Create(r.Context(), u.ID, in)
	if err != nil {
		h.sendTagError(w, r, err, "Failed to create tag")
		return
	}
	SendJSON(w, http.StatusCreated, t)
}

// Update handles PUT /api/tags/{id}
func (h *TagHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		SendError(w, "Invalid tag id", http.StatusBadRequest)
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
		h.sendTagError(w, r, err, "Failed to update tag")
		return
	}
	SendJSON(w, http.StatusOK, t)
}

// Delete handles DELETE /api/tags/{id}
func (h *TagHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		SendError(w, "Invalid tag id", http.StatusBadRequest)
		return
	}
	u := GetUserFromContext(r.Context())
	if err := h.service.Delete(r.Context(), u.ID, id); err != nil {
		h.sendTagError(w, r, err, "Failed to delete tag")
		return
	}
	SendNoContent(w)
}

func (h *TagHandler) sendTagError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	switch {
	case errors.Is(err, domain.ErrTagNotFound):
		SendError(w, "Tag not found", http.StatusNotFound)
	case errors.Is(err, domain.ErrNameRequired):
		SendError(w, "Name is required", http.StatusBadRequest)
	default:
		sendInternalError(w, r, h.logger, fallback, err)
	}
}
