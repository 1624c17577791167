package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/ChikinaValeria/TimeTrackerApp/internal/request"
)

func TestLogging(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		method        string
		path          string
		handlerStatus int
		write         bool
	}{
		{"GET request", "GET", "/api/v1/summary/tags", http.StatusOK, false},
		{"POST request", "POST", "/api/v1/tasks/1/start", http.StatusCreated, false},
		{"404 request", "GET", "/notfound", http.StatusNotFound, false},
		{"implicit 200 on write", "GET", "/healthz", 0, true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			core, logs := observer.New(zapcore.InfoLevel)
			var seenID string
			handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				seenID = request.RequestIDFromContext(r.Context())
				if tt.handlerStatus != 0 {
					w.WriteHeader(tt.handlerStatus)
				}
				if tt.write {
					_, _ = w.Write([]byte("ok"))
				}
			})

			w := httptest.NewRecorder()
			Logging(zap.New(core))(handler).ServeHTTP(w, httptest.NewRequest(tt.method, tt.path, nil))

			wantStatus := tt.handlerStatus
			if wantStatus == 0 {
				wantStatus = http.StatusOK
			}
			if w.Code != wantStatus {
				t.Errorf("Expected status %d, got %d", wantStatus, w.Code)
			}
			if seenID == "" || w.Header().Get(request.RequestIDHeader) != seenID {
				t.Errorf("Expected request id %q echoed, got %q", seenID, w.Header().Get(request.RequestIDHeader))
			}

			entries := logs.FilterMessage("http_request").All()
			if len(entries) != 1 {
				t.Fatalf("Expected one http_request entry, got %d", len(entries))
			}
			fields := entries[0].ContextMap()
			if fields["status_code"] != int64(wantStatus) {
				t.Errorf("Expected logged status %d, got %v", wantStatus, fields["status_code"])
			}
			if fields["path"] != tt.path {
				t.Errorf("Expected logged path %q, got %v", tt.path, fields["path"])
			}
		})
	}
}

func TestLogging_KeepsClientRequestID(t *testing.T) {
	t.Parallel()

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})
	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set(request.RequestIDHeader, "client-id-1")

	w := httptest.NewRecorder()
	Logging(zap.NewNop())(handler).ServeHTTP(w, req)

	if got := w.Header().Get(request.RequestIDHeader); got != "client-id-1" {
		t.Errorf("Expected client request id to be echoed, got %q", got)
	}
}
