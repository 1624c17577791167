package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/ChikinaValeria/TimeTrackerApp/internal/activity"
)

// ReportKind selects which summary a report contains
type ReportKind string

const (
	ReportKindTagSummary  ReportKind = "tag_summary"
	ReportKindTaskSummary ReportKind = "task_summary"
)

// ReportStatus tracks an asynchronous report through the worker
type ReportStatus string

const (
	ReportStatusPending   ReportStatus = "pending"
	ReportStatusCompleted ReportStatus = "completed"
	ReportStatusFailed    ReportStatus = "failed"
)

// ReportRequest is the body of POST /api/v1/reports
type ReportRequest struct {
	Kind  ReportKind `json:"kind" validate:"required,report_kind"`
	Start string     `json:"start" validate:"required"`
	End   string     `json:"end" validate:"required"`
}

// Report is a summary computed in the background for a fixed window
type Report struct {
	ID          uuid.UUID                       `json:"id"`
	Kind        ReportKind                      `json:"kind"`
	Status      ReportStatus                    `json:"status"`
	Start       time.Time                       `json:"start"`
	End         time.Time                       `json:"end"`
	Tags        []activity.TagActivitySummary   `json:"tags,omitempty"`
	Tasks       []activity.TaskActiveTimeResult `json:"tasks,omitempty"`
	Error       string                          `json:"error,omitempty"`
	CreatedAt   time.Time                       `json:"created_at"`
	CompletedAt *time.Time                      `json:"completed_at,omitempty"`
}
