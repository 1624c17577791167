package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ChikinaValeria/TimeTrackerApp/internal/activity"
	"github.com/ChikinaValeria/TimeTrackerApp/internal/logger"
	"github.com/ChikinaValeria/TimeTrackerApp/internal/models"
	"github.com/ChikinaValeria/TimeTrackerApp/internal/queue"
)

// ErrReportsUnavailable is returned when the server runs without a queue or report store
var ErrReportsUnavailable = errors.New("report processing is not configured")

// ReportRepository stores reports between the server and the worker
type ReportRepository interface {
	Save(ctx context.Context, report *models.Report) error
	Get(ctx context.Context, id uuid.UUID) (*models.Report, error)
}

// ReportService accepts report requests and hands them to the worker
type ReportService struct {
	reports ReportRepository
	queue   queue.JobQueue
	jobTTL  time.Duration
	now     func() time.Time
	logger  *zap.Logger
}

// NewReportService creates a report service. Jobs not picked up within jobTTL are dropped.
func NewReportService(reports ReportRepository, q queue.JobQueue, jobTTL time.Duration, log *zap.Logger) *ReportService {
	if log == nil {
		log = zap.NewNop()
	}
	return &ReportService{reports: reports, queue: q, jobTTL: jobTTL, now: time.Now, logger: log}
}

func (s *ReportService) available() bool {
	return s != nil && s.reports != nil && s.queue != nil
}

// Request stores a pending report for kind over w and enqueues a job to compute it
func (s *ReportService) Request(ctx context.Context, kind models.ReportKind, w activity.Window) (*models.Report, error) {
	if !s.available() {
		return nil, ErrReportsUnavailable
	}
	if err := w.Validate(); err != nil {
		return nil, err
	}
	switch kind {
	case models.ReportKindTagSummary, models.ReportKindTaskSummary:
	default:
		return nil, fmt.Errorf("unsupported report kind %q", kind)
	}

	report := &models.Report{
		ID:        uuid.New(),
		Kind:      kind,
		Status:    models.ReportStatusPending,
		Start:     w.Start,
		End:       w.End,
		CreatedAt: s.now(),
	}
	if err := s.reports.Save(ctx, report); err != nil {
		return nil, err
	}

	job := queue.NewReportJob(report.ID, s.jobTTL)
	if err := s.queue.Enqueue(ctx, job); err != nil {
		report.Status = models.ReportStatusFailed
		report.Error = "could not be queued"
		if saveErr := s.reports.Save(ctx, report); saveErr != nil {
			return nil, errors.Join(fmt.Errorf("failed to enqueue report: %w", err), saveErr)
		}
		return nil, fmt.Errorf("failed to enqueue report: %w", err)
	}

	s.logger.Info("report_requested",
		zap.String("report_id", report.ID.String()),
		zap.String("job_id", job.ID.String()),
		zap.String("kind", string(kind)),
	)
	return report, nil
}

// Get returns a stored report
func (s *ReportService) Get(ctx context.Context, id uuid.UUID) (*models.Report, error) {
	if !s.available() {
		return nil, ErrReportsUnavailable
	}
	report, err := s.reports.Get(ctx, id)
	if err != nil {
		s.logger.Debug("report_lookup_failed",
			zap.String("report_id", id.String()),
			zap.String("error", logger.SanitizeError(err)),
		)
		return nil, err
	}
	return report, nil
}
