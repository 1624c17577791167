package handlers

import (
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/ChikinaValeria/TimeTrackerApp/internal/activity"
	"github.com/ChikinaValeria/TimeTrackerApp/internal/models"
	"github.com/ChikinaValeria/TimeTrackerApp/internal/service"
)

func TestTaskHandler_ListTasks(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		query      string
		wantStatus int
		wantTagIDs []int64
	}{
		{"no filter", "", http.StatusOK, nil},
		{"single tag", "?tags=1", http.StatusOK, []int64{1}},
		{"several tags", "?tags=1,3", http.StatusOK, []int64{1, 3}},
		{"malformed tag list", "?tags=1,abc", http.StatusBadRequest, nil},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			svc := &mockActivity{tasks: []service.TaskStatus{
				{ID: 2, Name: "Review", Tags: []activity.Tag{{ID: 1, Name: "work"}}, IsActive: true},
			}}
			r := newTestRouter(svc, &mockReports{})

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/tasks"+tt.query, nil))

			if w.Code != tt.wantStatus {
				t.Fatalf("Expected %d, got %d: %s", tt.wantStatus, w.Code, w.Body.String())
			}
			if tt.wantStatus != http.StatusOK {
				return
			}
			if !slices.Equal(svc.gotTagIDs, tt.wantTagIDs) {
				t.Errorf("Expected tag filter %v, got %v", tt.wantTagIDs, svc.gotTagIDs)
			}
			env := decodeEnvelope[[]service.TaskStatus](t, w)
			if len(env.Data) != 1 || !env.Data[0].IsActive || env.Data[0].Tags[0].Name != "work" {
				t.Errorf("Unexpected tasks: %+v", env.Data)
			}
		})
	}
}

func TestTaskHandler_Intervals(t *testing.T) {
	t.Parallel()

	end := time.Date(2025, 3, 3, 10, 0, 0, 0, time.UTC)
	svc := &mockActivity{intervals: &service.TaskIntervals{
		TaskID:   1,
		TaskName: "Write",
		Intervals: []activity.Interval{
			{Start: time.Date(2025, 3, 3, 9, 0, 0, 0, time.UTC), End: &end},
			{Start: time.Date(2025, 3, 3, 11, 0, 0, 0, time.UTC)},
		},
		HideOngoingEnd: true,
	}}
	r := newTestRouter(svc, &mockReports{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/tasks/1/intervals?start=2025-03-03T00:00", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if svc.gotID != 1 {
		t.Errorf("Expected task 1, got %d", svc.gotID)
	}
	env := decodeEnvelope[IntervalsResponse](t, w)
	if !env.Data.HideOngoingEnd {
		t.Error("Expected hide_end to be set")
	}
	if len(env.Data.Intervals) != 2 {
		t.Fatalf("Expected 2 intervals, got %+v", env.Data.Intervals)
	}
	first, second := env.Data.Intervals[0], env.Data.Intervals[1]
	if first.Ongoing || first.Duration != "01:00:00" {
		t.Errorf("Unexpected closed interval: %+v", first)
	}
	if !second.Ongoing || second.End != nil || second.Duration != "" {
		t.Errorf("Unexpected ongoing interval: %+v", second)
	}
}

func TestTaskHandler_Daily(t *testing.T) {
	t.Parallel()

	svc := &mockActivity{days: []activity.DayActivity{
		{Date: "2025-03-01", Minutes: 30},
		{Date: "2025-03-02", Minutes: 0},
	}}
	r := newTestRouter(svc, &mockReports{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/tasks/5/daily?from=2025-03-01&to=2025-03-02", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if svc.gotID != 5 || svc.gotFrom.Day() != 1 || svc.gotTo.Day() != 2 {
		t.Errorf("Unexpected arguments: id=%d from=%s to=%s", svc.gotID, svc.gotFrom, svc.gotTo)
	}
	env := decodeEnvelope[DailyResponse](t, w)
	if env.Data.From != "2025-03-01" || env.Data.To != "2025-03-02" || len(env.Data.Days) != 2 {
		t.Errorf("Unexpected response: %+v", env.Data)
	}
}

func TestTaskHandler_DailyRangeErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		query      string
		err        error
		wantStatus int
	}{
		{"malformed date", "?from=March", nil, http.StatusBadRequest},
		{"start after end", "?from=2025-03-02&to=2025-03-01", activity.ErrStartAfterEnd, http.StatusBadRequest},
		{"start in future", "?from=2025-04-01&to=2025-04-02", activity.ErrStartInFuture, http.StatusBadRequest},
		{"range too long", "?from=2023-01-01&to=2025-03-03", activity.ErrRangeTooLong, http.StatusBadRequest},
		{"unknown task", "", service.ErrTaskNotFound, http.StatusNotFound},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			r := newTestRouter(&mockActivity{err: tt.err}, &mockReports{})
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/tasks/1/daily"+tt.query, nil))

			if w.Code != tt.wantStatus {
				t.Errorf("Expected %d, got %d: %s", tt.wantStatus, w.Code, w.Body.String())
			}
		})
	}
}

func TestTaskHandler_StartStop(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		path       string
		err        error
		wantStatus int
	}{
		{"start", "/api/v1/tasks/3/start", nil, http.StatusCreated},
		{"stop", "/api/v1/tasks/3/stop", nil, http.StatusCreated},
		{"start running task", "/api/v1/tasks/3/start", service.ErrTaskAlreadyActive, http.StatusConflict},
		{"stop idle task", "/api/v1/tasks/3/stop", service.ErrTaskNotActive, http.StatusConflict},
		{"unknown task", "/api/v1/tasks/99/start", service.ErrTaskNotFound, http.StatusNotFound},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			svc := &mockActivity{err: tt.err}
			r := newTestRouter(svc, &mockReports{})
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, tt.path, nil))

			if w.Code != tt.wantStatus {
				t.Fatalf("Expected %d, got %d: %s", tt.wantStatus, w.Code, w.Body.String())
			}
			if len(svc.started)+len(svc.stopped) != 1 {
				t.Errorf("Expected exactly one start or stop call, got %v / %v", svc.started, svc.stopped)
			}
			if tt.wantStatus == http.StatusCreated {
				env := decodeEnvelope[map[string]any](t, w)
				wantActive := strings.HasSuffix(tt.path, "/start")
				if env.Data["is_active"] != wantActive {
					t.Errorf("Expected is_active %v, got %v", wantActive, env.Data["is_active"])
				}
			}
		})
	}
}

func TestTaskHandler_CreateTask(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		body       any
		wantStatus int
		wantName   string
		wantTags   string
	}{
		{"valid", models.TaskInput{Name: "  Plan sprint ", Tags: "3, 1"}, http.StatusCreated, "Plan sprint", "3,1"},
		{"missing name", models.TaskInput{Tags: "1"}, http.StatusBadRequest, "", ""},
		{"control characters only", models.TaskInput{Name: "\x00\x01"}, http.StatusBadRequest, "", ""},
		{"bad tag list", models.TaskInput{Name: "Plan", Tags: "x"}, http.StatusBadRequest, "", ""},
		{"not json", "{", http.StatusBadRequest, "", ""},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			svc := &mockActivity{}
			r := newTestRouter(svc, &mockReports{})
			var req *http.Request
			if s, ok := tt.body.(string); ok {
				req = httptest.NewRequest(http.MethodPost, "/api/v1/tasks", strings.NewReader(s))
			} else {
				req = newTestRequest(http.MethodPost, "/api/v1/tasks", tt.body)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Fatalf("Expected %d, got %d: %s", tt.wantStatus, w.Code, w.Body.String())
			}
			if tt.wantStatus != http.StatusCreated {
				return
			}
			if svc.gotTask.Name != tt.wantName || svc.gotTask.Tags != tt.wantTags {
				t.Errorf("Expected %q/%q, got %+v", tt.wantName, tt.wantTags, svc.gotTask)
			}
		})
	}
}

func TestTaskHandler_UpdateDelete(t *testing.T) {
	t.Parallel()

	svc := &mockActivity{}
	r := newTestRouter(svc, &mockReports{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, newTestRequest(http.MethodPut, "/api/v1/tasks/4", models.TaskInput{Name: "Renamed", Tags: "2"}))
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200 for update, got %d: %s", w.Code, w.Body.String())
	}
	if svc.gotID != 4 || svc.gotTask.Name != "Renamed" {
		t.Errorf("Unexpected update arguments: %d %+v", svc.gotID, svc.gotTask)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/v1/tasks/4", nil))
	if w.Code != http.StatusNoContent {
		t.Errorf("Expected 204 for delete, got %d", w.Code)
	}

	missing := newTestRouter(&mockActivity{err: service.ErrTaskNotFound}, &mockReports{})
	w = httptest.NewRecorder()
	missing.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/v1/tasks/4", nil))
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for missing task, got %d", w.Code)
	}
}
