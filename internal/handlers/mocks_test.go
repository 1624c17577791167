package handlers

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/ChikinaValeria/TimeTrackerApp/internal/activity"
	"github.com/ChikinaValeria/TimeTrackerApp/internal/cache"
	"github.com/ChikinaValeria/TimeTrackerApp/internal/models"
	"github.com/ChikinaValeria/TimeTrackerApp/internal/service"
)

var testNow = time.Date(2025, 3, 3, 12, 0, 0, 0, time.UTC)

// mockActivity records the arguments it was called with and returns canned results
type mockActivity struct {
	err error

	tagSummary  []activity.TagActivitySummary
	taskSummary []activity.TaskActiveTimeResult
	tasks       []service.TaskStatus
	intervals   *service.TaskIntervals
	days        []activity.DayActivity
	tags        []models.Tag

	gotWindow activity.Window
	gotTagIDs []int64
	gotID     int64
	gotFrom   time.Time
	gotTo     time.Time
	gotTask   models.TaskInput
	gotTag    models.TagInput
	started   []int64
	stopped   []int64
}

var _ ActivityService = (*mockActivity)(nil)

func (m *mockActivity) Location() *time.Location { return time.UTC }
func (m *mockActivity) Now() time.Time           { return testNow }

func (m *mockActivity) TagSummary(_ context.Context, w activity.Window) ([]activity.TagActivitySummary, error) {
	m.gotWindow = w
	if err := w.Validate(); err != nil {
		return nil, err
	}
	return m.tagSummary, m.err
}

func (m *mockActivity) TaskSummary(_ context.Context, w activity.Window) ([]activity.TaskActiveTimeResult, error) {
	m.gotWindow = w
	if err := w.Validate(); err != nil {
		return nil, err
	}
	return m.taskSummary, m.err
}

func (m *mockActivity) ListTasks(_ context.Context, tagIDs []int64) ([]service.TaskStatus, error) {
	m.gotTagIDs = tagIDs
	return m.tasks, m.err
}

func (m *mockActivity) Intervals(_ context.Context, id int64, w activity.Window) (*service.TaskIntervals, error) {
	m.gotID, m.gotWindow = id, w
	if m.err != nil {
		return nil, m.err
	}
	return m.intervals, nil
}

func (m *mockActivity) Daily(_ context.Context, id int64, from, to time.Time) ([]activity.DayActivity, error) {
	m.gotID, m.gotFrom, m.gotTo = id, from, to
	return m.days, m.err
}

func (m *mockActivity) StartTask(_ context.Context, id int64) error {
	m.started = append(m.started, id)
	return m.err
}

func (m *mockActivity) StopTask(_ context.Context, id int64) error {
	m.stopped = append(m.stopped, id)
	return m.err
}

func (m *mockActivity) CreateTask(_ context.Context, in models.TaskInput) (*models.Task, error) {
	m.gotTask = in
	if m.err != nil {
		return nil, m.err
	}
	return &models.Task{ID: 42, Name: in.Name, Tags: in.Tags}, nil
}

func (m *mockActivity) UpdateTask(_ context.Context, id int64, in models.TaskInput) error {
	m.gotID, m.gotTask = id, in
	return m.err
}

func (m *mockActivity) DeleteTask(_ context.Context, id int64) error {
	m.gotID = id
	return m.err
}

func (m *mockActivity) ListTags(context.Context) ([]models.Tag, error) {
	return m.tags, m.err
}

func (m *mockActivity) CreateTag(_ context.Context, in models.TagInput) (*models.Tag, error) {
	m.gotTag = in
	if m.err != nil {
		return nil, m.err
	}
	return &models.Tag{ID: 7, Name: in.Name}, nil
}

func (m *mockActivity) UpdateTag(_ context.Context, id int64, in models.TagInput) error {
	m.gotID, m.gotTag = id, in
	return m.err
}

func (m *mockActivity) DeleteTag(_ context.Context, id int64) error {
	m.gotID = id
	return m.err
}

var errReportMissing = fmt.Errorf("lookup: %w", cache.ErrReportNotFound)

// mockReports stores reports in memory
type mockReports struct {
	err     error
	reports map[uuid.UUID]*models.Report
	gotKind models.ReportKind
	gotWin  activity.Window
}

var _ ReportService = (*mockReports)(nil)

func (m *mockReports) Request(_ context.Context, kind models.ReportKind, w activity.Window) (*models.Report, error) {
	m.gotKind, m.gotWin = kind, w
	if m.err != nil {
		return nil, m.err
	}
	if err := w.Validate(); err != nil {
		return nil, err
	}
	report := &models.Report{ID: uuid.New(), Kind: kind, Status: models.ReportStatusPending, Start: w.Start, End: w.End}
	if m.reports == nil {
		m.reports = map[uuid.UUID]*models.Report{}
	}
	m.reports[report.ID] = report
	return report, nil
}

func (m *mockReports) Get(_ context.Context, id uuid.UUID) (*models.Report, error) {
	if m.err != nil {
		return nil, m.err
	}
	report, ok := m.reports[id]
	if !ok {
		return nil, errReportMissing
	}
	return report, nil
}

// newTestRouter mounts every API handler the way the server does
func newTestRouter(svc ActivityService, reports ReportService) *mux.Router {
	r := mux.NewRouter()
	api := r.PathPrefix("/api/v1").Subrouter()
	NewSummaryHandler(svc).RegisterRoutes(api.PathPrefix("/summary").Subrouter())
	NewTaskHandler(svc).RegisterRoutes(api.PathPrefix("/tasks").Subrouter())
	NewTagHandler(svc).RegisterRoutes(api.PathPrefix("/tags").Subrouter())
	NewReportHandler(reports, svc).RegisterRoutes(api.PathPrefix("/reports").Subrouter())
	return r
}
