package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/ChikinaValeria/TimeTrackerApp/internal/models"
	"github.com/ChikinaValeria/TimeTrackerApp/internal/validation"
)

// TagHandler handles tag CRUD
type TagHandler struct {
	activity ActivityService
}

// NewTagHandler creates a new tag handler
func NewTagHandler(svc ActivityService) *TagHandler {
	return &TagHandler{activity: svc}
}

// RegisterRoutes registers tag routes. The router should already have the /tags prefix.
func (h *TagHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("", h.ListTags).Methods("GET")
	r.HandleFunc("", h.CreateTag).Methods("POST")
	r.HandleFunc("/{id:[0-9]+}", h.UpdateTag).Methods("PUT")
	r.HandleFunc("/{id:[0-9]+}", h.DeleteTag).Methods("DELETE")
}

// ListTags handles GET /tags
func (h *TagHandler) ListTags(w http.ResponseWriter, r *http.Request) {
	tags, err := h.activity.ListTags(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	if tags == nil {
		tags = []models.Tag{}
	}
	respondJSON(w, http.StatusOK, tags)
}

// CreateTag handles POST /tags
func (h *TagHandler) CreateTag(w http.ResponseWriter, r *http.Request) {
	var req models.TagInput
	if !decodeJSON(w, r, &req) {
		return
	}
	req.Name = validation.SanitizeText(req.Name)
	if req.Name == "" {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Name is required and cannot be empty after sanitization")
		return
	}

	tag, err := h.activity.CreateTag(r.Context(), req)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, tag)
}

// UpdateTag handles PUT /tags/{id}
func (h *TagHandler) UpdateTag(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid tag ID")
		return
	}
	var req models.TagInput
	if !decodeJSON(w, r, &req) {
		return
	}
	req.Name = validation.SanitizeText(req.Name)
	if req.Name == "" {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Name is required and cannot be empty after sanitization")
		return
	}

	if err := h.activity.UpdateTag(r.Context(), id, req); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, models.Tag{ID: id, Name: req.Name, AdditionalData: req.AdditionalData})
}

// DeleteTag handles DELETE /tags/{id}
func (h *TagHandler) DeleteTag(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid tag ID")
		return
	}
	if err := h.activity.DeleteTag(r.Context(), id); err != nil {
		respondServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
