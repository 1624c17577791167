package handlers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/ChikinaValeria/TimeTrackerApp/internal/activity"
	"github.com/ChikinaValeria/TimeTrackerApp/internal/models"
)

// ReportHandler queues background summary reports and serves their results
type ReportHandler struct {
	reports  ReportService
	activity ActivityService
}

// NewReportHandler creates a new report handler. svc supplies the location
// report windows are parsed in.
func NewReportHandler(reports ReportService, svc ActivityService) *ReportHandler {
	return &ReportHandler{reports: reports, activity: svc}
}

// RegisterRoutes registers report routes. The router should already have the /reports prefix.
func (h *ReportHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("", h.CreateReport).Methods("POST")
	r.HandleFunc("/{id}", h.GetReport).Methods("GET")
}

// CreateReport handles POST /reports and answers 202 with the pending report
func (h *ReportHandler) CreateReport(w http.ResponseWriter, r *http.Request) {
	var req models.ReportRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	loc := h.activity.Location()
	start, err := activity.ParseTime(req.Start, loc)
	if err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "start: "+err.Error())
		return
	}
	end, err := activity.ParseTime(req.End, loc)
	if err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "end: "+err.Error())
		return
	}

	report, err := h.reports.Request(r.Context(), req.Kind, activity.Window{Start: start, End: end})
	if err != nil {
		respondServiceError(w, err)
		return
	}

	w.Header().Set("Location", "/api/v1/reports/"+report.ID.String())
	respondJSON(w, http.StatusAccepted, report)
}

// GetReport handles GET /reports/{id}
func (h *ReportHandler) GetReport(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid report ID")
		return
	}

	report, err := h.reports.Get(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, report)
}
