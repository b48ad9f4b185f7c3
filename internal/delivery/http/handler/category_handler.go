package handler

import (
	"errors"
	"net/http"

	"github.com/charmbracelet/log"

	"taskmanager/internal/application/category"
	domain "taskmanager/internal/domain/category"
)

type CategoryHandler struct {
	service category.Service
	logger  *log.Logger
}

func NewCategoryHandler(service category.Service, logger *log.Logger) *CategoryHandler {
	return &CategoryHandler{
		service: service,
		logger:  logger,
	}
}

// List handles GET /api/categories
func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	u := GetUserFromContext(r.Context())
	categories, err := h.service.List(r.Context(), u.ID)
	if err != nil {
		sendInternalError(w, r, h.logger, "Failed to list categories", err)
		return
	}
	SendJSON(w, http.StatusOK, categories)
}

// Get handles GET /api/categories/{id}
func (h *CategoryHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		SendError(w, "Invalid category id", http.StatusBadRequest)
		return
	}
	u := GetUserFromContext(r.Context())
	c, err := h.service.Get(r.Context(), u.ID, id)
	if err != nil {
		h.sendCategoryError(w, r, err, "Failed to get category")
		return
	}
	SendJSON(w, http.StatusOK, c)
}

// Create handles POST /api/categories
func (h *CategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in domain.Input
	if err := decodeJSON(r, &in); err != nil {
		SendError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	u := GetUserFromContext(r.Context())
	c, err := h.service.Create(r.Context(), u.ID, in)
	if err != nil {
		h.sendCategoryError(w, r, err, "Failed to create category")
		return
	}
	SendJSON(w, http.StatusCreated, c)
}

// Update handles PUT /api/categories/{id}
func (h *CategoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		SendError(w, "Invalid category id", http.StatusBadRequest)
		return
	}
	var in domain.Input
	if err := decodeJSON(r, &in); err != nil {
		SendError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	u := GetUserFromContext(r.Context())
	c, err := h.service.Update(r.Context(), u.ID, id, in)
	if err != nil {
		h.sendCategoryError(w, r, err, "Failed to update category")
		return
	}
	SendJSON(w, http.StatusOK, c)
}

// Delete handles DELETE /api/categories/{id}
func (h *CategoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		SendError(w, "Invalid category id", http.StatusBadRequest)
		return
	}
	u := GetUserFromContext(r.Context())
	if err := h.service.Delete(r.Context(), u.ID, id); err != nil {
		h.sendCategoryError(w, r, err, "Failed to delete category")
		return
	}
	SendNoContent(w)
}

func (h *CategoryHandler) sendCategoryError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	switch {
	case errors.Is(err, domain.ErrCategoryNotFound):
		SendError(w, "Category not found", http.StatusNotFound)
	case errors.Is(err, domain.ErrNameRequired):
		SendError(w, "Name is required", http.StatusBadRequest)
	default:
		sendInternalError(w, r, h.logger, fallback, err)
	}
}
