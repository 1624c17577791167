package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ChikinaValeria/TimeTrackerApp/internal/activity"
	"github.com/ChikinaValeria/TimeTrackerApp/internal/backend"
)

type envelope[T any] struct {
	Success bool   `json:"success"`
	Data    T      `json:"data"`
	Error   string `json:"error"`
	Message string `json:"message"`
}

func decodeEnvelope[T any](t *testing.T, w *httptest.ResponseRecorder) envelope[T] {
	t.Helper()
	var env envelope[T]
	if err := json.NewDecoder(w.Body).Decode(&env); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	return env
}

func TestSummaryHandler_TagSummary(t *testing.T) {
	t.Parallel()

	svc := &mockActivity{tagSummary: []activity.TagActivitySummary{
		{TagID: 1, TagName: "work", ActiveTimeMs: 2 * time.Hour.Milliseconds()},
		{TagID: 2, TagName: "comms", ActiveTimeMs: 90 * time.Second.Milliseconds()},
	}}
	r := newTestRouter(svc, &mockReports{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet,
		"/api/v1/summary/tags?start=2025-03-03T00:00:00Z&end=2025-03-04T00:00:00Z", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	env := decodeEnvelope[TagSummaryResponse](t, w)
	if len(env.Data.Tags) != 2 {
		t.Fatalf("Expected 2 tags, got %+v", env.Data.Tags)
	}
	if env.Data.Tags[0].ActiveTime != "02:00:00" || env.Data.Tags[1].ActiveTime != "00:01:30" {
		t.Errorf("Unexpected formatted durations: %q, %q", env.Data.Tags[0].ActiveTime, env.Data.Tags[1].ActiveTime)
	}
	if env.Data.Tags[0].TagName != "work" || env.Data.Tags[0].ActiveTimeMs != 7200000 {
		t.Errorf("Unexpected first summary: %+v", env.Data.Tags[0])
	}
	wantStart := time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)
	if !svc.gotWindow.Start.Equal(wantStart) {
		t.Errorf("Expected window start %s, got %s", wantStart, svc.gotWindow.Start)
	}
}

func TestSummaryHandler_TaskSummaryDefaultWindow(t *testing.T) {
	t.Parallel()

	svc := &mockActivity{taskSummary: []activity.TaskActiveTimeResult{
		{TaskID: 3, TaskName: "Email", ActiveTimeMs: 1000},
	}}
	r := newTestRouter(svc, &mockReports{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/summary/tasks", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	env := decodeEnvelope[TaskSummaryResponse](t, w)
	if len(env.Data.Tasks) != 1 || env.Data.Tasks[0].ActiveTime != "00:00:01" {
		t.Errorf("Unexpected tasks: %+v", env.Data.Tasks)
	}
	today := time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)
	if !svc.gotWindow.Start.Equal(today) || !svc.gotWindow.End.Equal(testNow) {
		t.Errorf("Expected default window [%s, %s], got [%s, %s]", today, testNow, svc.gotWindow.Start, svc.gotWindow.End)
	}
}

func TestSummaryHandler_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		path       string
		err        error
		wantStatus int
		wantError  string
	}{
		{
			name:       "inverted window",
			path:       "/api/v1/summary/tags?start=2025-03-04T00:00:00Z&end=2025-03-03T00:00:00Z",
			wantStatus: http.StatusBadRequest,
			wantError:  "InvalidWindow",
		},
		{
			name:       "empty window",
			path:       "/api/v1/summary/tasks?start=2025-03-03T00:00:00Z&end=2025-03-03T00:00:00Z",
			wantStatus: http.StatusBadRequest,
			wantError:  "InvalidWindow",
		},
		{
			name:       "unparseable start",
			path:       "/api/v1/summary/tags?start=soon",
			wantStatus: http.StatusBadRequest,
			wantError:  "Bad Request",
		},
		{
			name:       "backend failure",
			path:       "/api/v1/summary/tags",
			err:        &backend.StatusError{Method: "GET", Path: "/timestamps", StatusCode: 500},
			wantStatus: http.StatusBadGateway,
			wantError:  "Bad Gateway",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			r := newTestRouter(&mockActivity{err: tt.err}, &mockReports{})
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.path, nil))

			if w.Code != tt.wantStatus {
				t.Fatalf("Expected %d, got %d: %s", tt.wantStatus, w.Code, w.Body.String())
			}
			env := decodeEnvelope[any](t, w)
			if env.Success || env.Error != tt.wantError {
				t.Errorf("Expected error %q, got %+v", tt.wantError, env)
			}
		})
	}
}
