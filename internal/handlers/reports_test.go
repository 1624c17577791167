package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/ChikinaValeria/TimeTrackerApp/internal/models"
	"github.com/ChikinaValeria/TimeTrackerApp/internal/service"
)

func TestReportHandler_CreateAndGet(t *testing.T) {
	t.Parallel()

	reports := &mockReports{}
	r := newTestRouter(&mockActivity{}, reports)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, newTestRequest(http.MethodPost, "/api/v1/reports", models.ReportRequest{
		Kind:  models.ReportKindTagSummary,
		Start: "2025-03-01",
		End:   "2025-03-02T00:00:00Z",
	}))

	if w.Code != http.StatusAccepted {
		t.Fatalf("Expected 202, got %d: %s", w.Code, w.Body.String())
	}
	created := decodeEnvelope[models.Report](t, w).Data
	if created.Status != models.ReportStatusPending || created.Kind != models.ReportKindTagSummary {
		t.Errorf("Unexpected report: %+v", created)
	}
	if loc := w.Header().Get("Location"); loc != "/api/v1/reports/"+created.ID.String() {
		t.Errorf("Unexpected Location header %q", loc)
	}
	if !reports.gotWin.Start.Equal(time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("Unexpected window start %s", reports.gotWin.Start)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/reports/"+created.ID.String(), nil))
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}
	if got := decodeEnvelope[models.Report](t, w).Data; got.ID != created.ID {
		t.Errorf("Expected report %s, got %s", created.ID, got.ID)
	}
}

func TestReportHandler_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		method     string
		path       string
		body       any
		err        error
		wantStatus int
	}{
		{
			name:       "unknown kind",
			method:     http.MethodPost,
			path:       "/api/v1/reports",
			body:       models.ReportRequest{Kind: "weekly", Start: "2025-03-01", End: "2025-03-02"},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "bad start",
			method:     http.MethodPost,
			path:       "/api/v1/reports",
			body:       models.ReportRequest{Kind: models.ReportKindTaskSummary, Start: "then", End: "2025-03-02"},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "inverted window",
			method:     http.MethodPost,
			path:       "/api/v1/reports",
			body:       models.ReportRequest{Kind: models.ReportKindTaskSummary, Start: "2025-03-02", End: "2025-03-01"},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "reports disabled",
			method:     http.MethodPost,
			path:       "/api/v1/reports",
			body:       models.ReportRequest{Kind: models.ReportKindTaskSummary, Start: "2025-03-01", End: "2025-03-02"},
			err:        service.ErrReportsUnavailable,
			wantStatus: http.StatusServiceUnavailable,
		},
		{
			name:       "malformed id",
			method:     http.MethodGet,
			path:       "/api/v1/reports/not-a-uuid",
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "unknown id",
			method:     http.MethodGet,
			path:       "/api/v1/reports/" + uuid.NewString(),
			wantStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			r := newTestRouter(&mockActivity{}, &mockReports{err: tt.err})
			w := httptest.NewRecorder()
			r.ServeHTTP(w, newTestRequest(tt.method, tt.path, tt.body))

			if w.Code != tt.wantStatus {
				t.Errorf("Expected %d, got %d: %s", tt.wantStatus, w.Code, w.Body.String())
			}
		})
	}
}
