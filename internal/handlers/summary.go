package handlers

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/ChikinaValeria/TimeTrackerApp/internal/activity"
)

// SummaryHandler serves per-tag and per-task active time over a window
type SummaryHandler struct {
	activity ActivityService
}

// NewSummaryHandler creates a new summary handler
func NewSummaryHandler(svc ActivityService) *SummaryHandler {
	return &SummaryHandler{activity: svc}
}

// RegisterRoutes registers summary routes.
// The router should already have the /summary prefix.
func (h *SummaryHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/tags", h.TagSummary).Methods("GET")
	r.HandleFunc("/tasks", h.TaskSummary).Methods("GET")
}

// TagSummaryItem is a tag summary with its duration formatted as HH:MM:SS
type TagSummaryItem struct {
	activity.TagActivitySummary
	ActiveTime string `json:"active_time"`
}

// TaskSummaryItem is a task summary with its duration formatted as HH:MM:SS
type TaskSummaryItem struct {
	activity.TaskActiveTimeResult
	ActiveTime string `json:"active_time"`
}

// TagSummaryResponse is the body of GET /summary/tags
type TagSummaryResponse struct {
	Start time.Time        `json:"start"`
	End   time.Time        `json:"end"`
	Tags  []TagSummaryItem `json:"tags"`
}

// TaskSummaryResponse is the body of GET /summary/tasks
type TaskSummaryResponse struct {
	Start time.Time         `json:"start"`
	End   time.Time         `json:"end"`
	Tasks []TaskSummaryItem `json:"tasks"`
}

// TagSummary handles GET /summary/tags
func (h *SummaryHandler) TagSummary(w http.ResponseWriter, r *http.Request) {
	window, err := parseWindow(r, h.activity.Location(), h.activity.Now())
	if err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", err.Error())
		return
	}

	summaries, err := h.activity.TagSummary(r.Context(), window)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	items := make([]TagSummaryItem, len(summaries))
	for i, s := range summaries {
		items[i] = TagSummaryItem{TagActivitySummary: s, ActiveTime: activity.FormatDuration(s.ActiveTimeMs)}
	}
	respondJSON(w, http.StatusOK, TagSummaryResponse{Start: window.Start, End: window.End, Tags: items})
}

// TaskSummary handles GET /summary/tasks
func (h *SummaryHandler) TaskSummary(w http.ResponseWriter, r *http.Request) {
	window, err := parseWindow(r, h.activity.Location(), h.activity.Now())
	if err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", err.Error())
		return
	}

	results, err := h.activity.TaskSummary(r.Context(), window)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	items := make([]TaskSummaryItem, len(results))
	for i, res := range results {
		items[i] = TaskSummaryItem{TaskActiveTimeResult: res, ActiveTime: activity.FormatDuration(res.ActiveTimeMs)}
	}
	respondJSON(w, http.StatusOK, TaskSummaryResponse{Start: window.Start, End: window.End, Tasks: items})
}
