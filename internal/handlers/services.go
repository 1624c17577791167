package handlers

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/ChikinaValeria/TimeTrackerApp/internal/activity"
	"github.com/ChikinaValeria/TimeTrackerApp/internal/models"
	"github.com/ChikinaValeria/TimeTrackerApp/internal/service"
)

// ActivityService is the part of *service.ActivityService the HTTP API uses
type ActivityService interface {
	Location() *time.Location
	Now() time.Time

	TagSummary(ctx context.Context, w activity.Window) ([]activity.TagActivitySummary, error)
	TaskSummary(ctx context.Context, w activity.Window) ([]activity.TaskActiveTimeResult, error)
	ListTasks(ctx context.Context, tagIDs []int64) ([]service.TaskStatus, error)
	Intervals(ctx context.Context, id int64, w activity.Window) (*service.TaskIntervals, error)
	Daily(ctx context.Context, id int64, from, to time.Time) ([]activity.DayActivity, error)
	StartTask(ctx context.Context, id int64) error
	StopTask(ctx context.Context, id int64) error

	CreateTask(ctx context.Context, in models.TaskInput) (*models.Task, error)
	UpdateTask(ctx context.Context, id int64, in models.TaskInput) error
	DeleteTask(ctx context.Context, id int64) error
	ListTags(ctx context.Context) ([]models.Tag, error)
	CreateTag(ctx context.Context, in models.TagInput) (*models.Tag, error)
	UpdateTag(ctx context.Context, id int64, in models.TagInput) error
	DeleteTag(ctx context.Context, id int64) error
}

// ReportService queues and serves background reports
type ReportService interface {
	Request(ctx context.Context, kind models.ReportKind, w activity.Window) (*models.Report, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Report, error)
}

var (
	_ ActivityService = (*service.ActivityService)(nil)
	_ ReportService   = (*service.ReportService)(nil)
)
