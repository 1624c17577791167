package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"

	"github.com/ChikinaValeria/TimeTrackerApp/internal/activity"
	"github.com/ChikinaValeria/TimeTrackerApp/internal/backend"
	"github.com/ChikinaValeria/TimeTrackerApp/internal/cache"
	"github.com/ChikinaValeria/TimeTrackerApp/internal/service"
	"github.com/ChikinaValeria/TimeTrackerApp/internal/validation"
)

const maxErrorMessageLength = 200

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	response := map[string]any{
		"success":   true,
		"data":      data,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}

	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// sanitizeErrorMessage caps error messages sent to clients
func sanitizeErrorMessage(message string) string {
	if len(message) > maxErrorMessageLength {
		return message[:maxErrorMessageLength] + "..."
	}
	return message
}

// respondJSONError sends an error JSON response with sanitized error messages
func respondJSONError(w http.ResponseWriter, status int, errorType, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	response := map[string]any{
		"success":   false,
		"error":     errorType,
		"message":   sanitizeErrorMessage(message),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}

	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// respondServiceError maps a service or backend error to a status code.
// Backend details are not forwarded to the client.
func respondServiceError(w http.ResponseWriter, err error) {
	var statusErr *backend.StatusError
	switch {
	case errors.Is(err, activity.ErrInvalidWindow):
		respondJSONError(w, http.StatusBadRequest, "InvalidWindow", err.Error())
	case errors.Is(err, activity.ErrStartInFuture), errors.Is(err, activity.ErrStartAfterEnd),
		errors.Is(err, activity.ErrRangeTooLong):
		respondJSONError(w, http.StatusBadRequest, "InvalidRange", err.Error())
	case errors.Is(err, service.ErrTaskNotFound):
		respondJSONError(w, http.StatusNotFound, "Not Found", "Task not found")
	case errors.Is(err, service.ErrTagNotFound):
		respondJSONError(w, http.StatusNotFound, "Not Found", "Tag not found")
	case errors.Is(err, cache.ErrReportNotFound):
		respondJSONError(w, http.StatusNotFound, "Not Found", "Report not found")
	case errors.Is(err, service.ErrTaskAlreadyActive), errors.Is(err, service.ErrTaskNotActive):
		respondJSONError(w, http.StatusConflict, "Conflict", err.Error())
	case errors.Is(err, service.ErrReportsUnavailable):
		respondJSONError(w, http.StatusServiceUnavailable, "Service Unavailable", "Reports are not enabled")
	case errors.As(err, &statusErr):
		respondJSONError(w, http.StatusBadGateway, "Bad Gateway",
			fmt.Sprintf("Tracker backend returned status %d", statusErr.StatusCode))
	default:
		respondJSONError(w, http.StatusBadGateway, "Bad Gateway", "Tracker backend unavailable")
	}
}

// decodeJSON decodes and validates the request body into dst.
// It writes the error response and returns false on failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			respondJSONError(w, http.StatusRequestEntityTooLarge, "Request Entity Too Large",
				fmt.Sprintf("Request body exceeds maximum size of %d bytes", maxBytesErr.Limit))
			return false
		}
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid request body")
		return false
	}

	if err := validation.Validate.Struct(dst); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) && len(validationErrors) > 0 {
			respondJSONError(w, http.StatusBadRequest, "Bad Request",
				fmt.Sprintf("Validation failed: %s", validationErrors[0].Error()))
			return false
		}
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Validation failed")
		return false
	}
	return true
}

// pathID reads the numeric {id} route variable
func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", mux.Vars(r)["id"])
	}
	return id, nil
}

// parseWindow reads start and end query parameters. A missing start defaults to
// the start of today and a missing end to now. The window is not validated here.
func parseWindow(r *http.Request, loc *time.Location, now time.Time) (activity.Window, error) {
	q := r.URL.Query()
	return activity.ParseWindow(q.Get("start"), q.Get("end"), loc, now)
}

// parseDayRange reads from and to (YYYY-MM-DD); the range defaults to yesterday through today
func parseDayRange(r *http.Request, loc *time.Location, now time.Time) (time.Time, time.Time, error) {
	q := r.URL.Query()
	return activity.ParseDayRange(q.Get("from"), q.Get("to"), loc, now)
}
