package workers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/ChikinaValeria/TimeTrackerApp/internal/activity"
	"github.com/ChikinaValeria/TimeTrackerApp/internal/cache"
	logpkg "github.com/ChikinaValeria/TimeTrackerApp/internal/logger"
	"github.com/ChikinaValeria/TimeTrackerApp/internal/models"
	"github.com/ChikinaValeria/TimeTrackerApp/internal/queue"
	"github.com/ChikinaValeria/TimeTrackerApp/internal/service"
	"github.com/ChikinaValeria/TimeTrackerApp/internal/telemetry"
)

// ErrUnknownJobType is returned for jobs no processor is registered for
var ErrUnknownJobType = errors.New("unknown job type")

var errUnsupportedKind = errors.New("unsupported report kind")

// JobProcessor handles one job type
type JobProcessor func(ctx context.Context, job *queue.Job) error

// Summarizer computes the summaries a report can contain
type Summarizer interface {
	TagSummary(ctx context.Context, w activity.Window) ([]activity.TagActivitySummary, error)
	TaskSummary(ctx context.Context, w activity.Window) ([]activity.TaskActiveTimeResult, error)
}

// ReportWorker computes pending reports delivered through the job queue
type ReportWorker struct {
	summarizer Summarizer
	reports    service.ReportRepository
	jobQueue   queue.JobQueue
	logger     *zap.Logger
	registry   map[queue.JobType]JobProcessor
	now        func() time.Time
}

// NewReportWorker creates a worker and registers the report processor.
// jobQueue is used to re-enqueue failed jobs; nil disables retries.
func NewReportWorker(summarizer Summarizer, reports service.ReportRepository, jobQueue queue.JobQueue, logger *zap.Logger) *ReportWorker {
	if logger == nil {
		logger = zap.NewNop()
	}
	w := &ReportWorker{
		summarizer: summarizer,
		reports:    reports,
		jobQueue:   jobQueue,
		logger:     logger,
		registry:   make(map[queue.JobType]JobProcessor),
		now:        time.Now,
	}
	w.RegisterProcessor(queue.JobTypeReport, w.ProcessReportJob)
	return w
}

// RegisterProcessor registers a processor for a job type.
func (w *ReportWorker) RegisterProcessor(typ queue.JobType, proc JobProcessor) {
	w.registry[typ] = proc
}

// ProcessReportJob computes the report referenced by job and stores the result
func (w *ReportWorker) ProcessReportJob(ctx context.Context, job *queue.Job) error {
	ctx, span := telemetry.Tracer().Start(ctx, "worker.report")
	defer span.End()
	span.SetAttributes(
		attribute.String("report_id", job.ReportID.String()),
		attribute.Int("retry_count", job.RetryCount),
	)

	report, err := w.reports.Get(ctx, job.ReportID)
	if err != nil {
		return fmt.Errorf("failed to load report: %w", err)
	}
	if report.Status == models.ReportStatusCompleted {
		w.logger.Debug("report_already_completed", zap.String("report_id", report.ID.String()))
		return nil
	}

	window := activity.Window{Start: report.Start, End: report.End}
	switch report.Kind {
	case models.ReportKindTagSummary:
		report.Tags, err = w.summarizer.TagSummary(ctx, window)
	case models.ReportKindTaskSummary:
		report.Tasks, err = w.summarizer.TaskSummary(ctx, window)
	default:
		err = fmt.Errorf("%w %q", errUnsupportedKind, report.Kind)
	}
	if err != nil {
		return err
	}

	completedAt := w.now()
	report.Status = models.ReportStatusCompleted
	report.Error = ""
	report.CompletedAt = &completedAt
	if err := w.reports.Save(ctx, report); err != nil {
		return err
	}

	w.logger.Info("report_completed",
		zap.String("report_id", report.ID.String()),
		zap.String("kind", string(report.Kind)),
		zap.Int("tags", len(report.Tags)),
		zap.Int("tasks", len(report.Tasks)),
	)
	return nil
}

// ProcessJob dispatches msg to its processor and acknowledges it
func (w *ReportWorker) ProcessJob(ctx context.Context, msg queue.MessageInterface) error {
	job := msg.GetJob()
	proc, ok := w.registry[job.Type]
	if !ok {
		if nackErr := msg.Nack(false); nackErr != nil {
			w.logger.Error("failed_to_nack_unknown_job_type",
				zap.String("job_id", job.ID.String()),
				zap.String("job_type", logpkg.SanitizeString(string(job.Type), 64)),
				zap.String("error", logpkg.SanitizeError(nackErr)),
			)
		}
		return fmt.Errorf("%w: %s", ErrUnknownJobType, job.Type)
	}

	if err := proc(ctx, job); err != nil {
		return w.handleJobError(ctx, msg, job, err)
	}
	if ackErr := msg.Ack(); ackErr != nil {
		return fmt.Errorf("failed to ack job: %w", ackErr)
	}
	return nil
}

// permanent reports whether retrying job cannot succeed
func permanent(err error) bool {
	return errors.Is(err, activity.ErrInvalidWindow) ||
		errors.Is(err, cache.ErrReportNotFound) ||
		errors.Is(err, errUnsupportedKind)
}

// handleJobError retries transient failures by re-enqueueing the job with an
// incremented retry count. Permanent failures and exhausted retries mark the
// report failed and dead-letter the message.
func (w *ReportWorker) handleJobError(ctx context.Context, msg queue.MessageInterface, job *queue.Job, jobErr error) error {
	w.logger.Error("report_job_failed",
		zap.String("job_id", job.ID.String()),
		zap.String("report_id", job.ReportID.String()),
		zap.Int("retry_count", job.RetryCount),
		zap.String("error", logpkg.SanitizeError(jobErr)),
	)

	if !permanent(jobErr) && job.CanRetry() && w.jobQueue != nil {
		retry := *job
		retry.IncrementRetry()
		err := w.jobQueue.Enqueue(ctx, &retry)
		if err != nil {
			w.logger.Warn("failed_to_reenqueue_job",
				zap.String("job_id", job.ID.String()),
				zap.String("error", logpkg.SanitizeError(err)),
			)
			if nackErr := msg.Nack(true); nackErr != nil {
				w.logger.Warn("failed_to_nack_job", zap.String("error", logpkg.SanitizeError(nackErr)))
			}
			return fmt.Errorf("report job failed, requeued: %w", jobErr)
		}
		if ackErr := msg.Ack(); ackErr != nil {
			w.logger.Warn("failed_to_ack_retried_job",
				zap.String("job_id", job.ID.String()),
				zap.String("error", logpkg.SanitizeError(ackErr)),
			)
		}
		return fmt.Errorf("report job failed (will retry %d/%d): %w", retry.RetryCount, job.MaxRetries, jobErr)
	}

	w.markFailed(ctx, job, jobErr)
	if nackErr := msg.Nack(false); nackErr != nil {
		w.logger.Warn("failed_to_nack_job_to_dlq",
			zap.String("job_id", job.ID.String()),
			zap.String("error", logpkg.SanitizeError(nackErr)),
		)
	}
	return fmt.Errorf("report job failed permanently: %w", jobErr)
}

func (w *ReportWorker) markFailed(ctx context.Context, job *queue.Job, jobErr error) {
	report, err := w.reports.Get(ctx, job.ReportID)
	if err != nil {
		return
	}
	completedAt := w.now()
	report.Status = models.ReportStatusFailed
	report.Error = logpkg.SanitizeError(jobErr)
	report.CompletedAt = &completedAt
	if err := w.reports.Save(ctx, report); err != nil {
		w.logger.Warn("failed_to_mark_report_failed",
			zap.String("report_id", report.ID.String()),
			zap.String("error", logpkg.SanitizeError(err)),
		)
	}
}

// Run consumes jobs until ctx is cancelled or the delivery channel closes
func (w *ReportWorker) Run(ctx context.Context, prefetch int) error {
	msgChan, errChan, err := w.jobQueue.Consume(ctx, prefetch)
	if err != nil {
		return fmt.Errorf("failed to start consuming messages: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case err, ok := <-errChan:
			if !ok {
				errChan = nil
				continue
			}
			w.logger.Error("queue_error", zap.String("error", logpkg.SanitizeError(err)))
		case msg, ok := <-msgChan:
			if !ok {
				if ctx.Err() != nil {
					return nil
				}
				return errors.New("message channel closed")
			}
			if err := w.ProcessJob(ctx, msg); err != nil {
				w.logger.Warn("job_not_completed",
					zap.String("job_id", msg.GetJob().ID.String()),
					zap.String("job_type", string(msg.GetJob().Type)),
					zap.String("error", logpkg.SanitizeError(err)),
				)
			}
		}
	}
}
