package handlers

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/ChikinaValeria/TimeTrackerApp/internal/activity"
	"github.com/ChikinaValeria/TimeTrackerApp/internal/models"
	"github.com/ChikinaValeria/TimeTrackerApp/internal/validation"
)

// TaskHandler handles task listing, detail views, start/stop and task CRUD
type TaskHandler struct {
	activity ActivityService
}

// NewTaskHandler creates a new task handler
func NewTaskHandler(svc ActivityService) *TaskHandler {
	return &TaskHandler{activity: svc}
}

// RegisterRoutes registers task routes on the given router.
// The router should already have the /tasks prefix.
func (h *TaskHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("", h.ListTasks).Methods("GET")
	r.HandleFunc("", h.CreateTask).Methods("POST")
	r.HandleFunc("/{id:[0-9]+}", h.UpdateTask).Methods("PUT")
	r.HandleFunc("/{id:[0-9]+}", h.DeleteTask).Methods("DELETE")
	r.HandleFunc("/{id:[0-9]+}/intervals", h.Intervals).Methods("GET")
	r.HandleFunc("/{id:[0-9]+}/daily", h.Daily).Methods("GET")
	r.HandleFunc("/{id:[0-9]+}/start", h.Start).Methods("POST")
	r.HandleFunc("/{id:[0-9]+}/stop", h.Stop).Methods("POST")
}

// IntervalView is an interval as shown in the detail view
type IntervalView struct {
	Start    time.Time  `json:"start"`
	End      *time.Time `json:"end"`
	Ongoing  bool       `json:"ongoing"`
	Duration string     `json:"duration,omitempty"`
}

// IntervalsResponse is the body of GET /tasks/{id}/intervals
type IntervalsResponse struct {
	TaskID         int64          `json:"task_id"`
	TaskName       string         `json:"task_name"`
	Start          time.Time      `json:"start"`
	End            time.Time      `json:"end"`
	HideOngoingEnd bool           `json:"hide_end"`
	Intervals      []IntervalView `json:"intervals"`
}

// DailyResponse is the body of GET /tasks/{id}/daily
type DailyResponse struct {
	TaskID int64                  `json:"task_id"`
	From   string                 `json:"from"`
	To     string                 `json:"to"`
	Days   []activity.DayActivity `json:"days"`
}

// ListTasks handles GET /tasks?tags=1,3. Only tasks carrying every listed tag are returned.
func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("tags")
	if err := validation.ValidateTagList(raw); err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", err.Error())
		return
	}

	tasks, err := h.activity.ListTasks(r.Context(), models.ParseTagIDs(raw))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, tasks)
}

// CreateTask handles POST /tasks
func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	var req models.TaskInput
	if !decodeJSON(w, r, &req) {
		return
	}
	req.Name = validation.SanitizeText(req.Name)
	if req.Name == "" {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Name is required and cannot be empty after sanitization")
		return
	}
	req.Tags = models.FormatTagIDs(models.ParseTagIDs(req.Tags))

	task, err := h.activity.CreateTask(r.Context(), req)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, task)
}

// UpdateTask handles PUT /tasks/{id}
func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid task ID")
		return
	}
	var req models.TaskInput
	if !decodeJSON(w, r, &req) {
		return
	}
	req.Name = validation.SanitizeText(req.Name)
	if req.Name == "" {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Name is required and cannot be empty after sanitization")
		return
	}
	req.Tags = models.FormatTagIDs(models.ParseTagIDs(req.Tags))

	if err := h.activity.UpdateTask(r.Context(), id, req); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, models.Task{ID: id, Name: req.Name, Tags: req.Tags, AdditionalData: req.AdditionalData})
}

// DeleteTask handles DELETE /tasks/{id}
func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid task ID")
		return
	}
	if err := h.activity.DeleteTask(r.Context(), id); err != nil {
		respondServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Intervals handles GET /tasks/{id}/intervals
func (h *TaskHandler) Intervals(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid task ID")
		return
	}
	window, err := parseWindow(r, h.activity.Location(), h.activity.Now())
	if err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", err.Error())
		return
	}

	detail, err := h.activity.Intervals(r.Context(), id, window)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	views := make([]IntervalView, len(detail.Intervals))
	for i, iv := range detail.Intervals {
		views[i] = IntervalView{Start: iv.Start, End: iv.End, Ongoing: iv.Ongoing()}
		if iv.End != nil {
			views[i].Duration = activity.FormatDuration(iv.End.Sub(iv.Start).Milliseconds())
		}
	}
	respondJSON(w, http.StatusOK, IntervalsResponse{
		TaskID:         detail.TaskID,
		TaskName:       detail.TaskName,
		Start:          window.Start,
		End:            window.End,
		HideOngoingEnd: detail.HideOngoingEnd,
		Intervals:      views,
	})
}

// Daily handles GET /tasks/{id}/daily?from=YYYY-MM-DD&to=YYYY-MM-DD
func (h *TaskHandler) Daily(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid task ID")
		return
	}
	from, to, err := parseDayRange(r, h.activity.Location(), h.activity.Now())
	if err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", err.Error())
		return
	}

	days, err := h.activity.Daily(r.Context(), id, from, to)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, DailyResponse{
		TaskID: id,
		From:   from.Format(time.DateOnly),
		To:     to.Format(time.DateOnly),
		Days:   days,
	})
}

// Start handles POST /tasks/{id}/start
func (h *TaskHandler) Start(w http.ResponseWriter, r *http.Request) {
	h.record(w, r, activity.Start)
}

// Stop handles POST /tasks/{id}/stop
func (h *TaskHandler) Stop(w http.ResponseWriter, r *http.Request) {
	h.record(w, r, activity.Stop)
}

func (h *TaskHandler) record(w http.ResponseWriter, r *http.Request, typ activity.EventType) {
	id, err := pathID(r)
	if err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid task ID")
		return
	}

	if typ == activity.Start {
		err = h.activity.StartTask(r.Context(), id)
	} else {
		err = h.activity.StopTask(r.Context(), id)
	}
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]any{
		"task_id":   id,
		"type":      typ.String(),
		"is_active": typ == activity.Start,
	})
}
