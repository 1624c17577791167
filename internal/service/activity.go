// Package service combines the tracker backend, the snapshot cache and the
// activity calculations into the operations exposed over HTTP and the CLI.
package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ChikinaValeria/TimeTrackerApp/internal/activity"
	"github.com/ChikinaValeria/TimeTrackerApp/internal/backend"
	"github.com/ChikinaValeria/TimeTrackerApp/internal/cache"
	"github.com/ChikinaValeria/TimeTrackerApp/internal/logger"
	"github.com/ChikinaValeria/TimeTrackerApp/internal/models"
	"github.com/ChikinaValeria/TimeTrackerApp/internal/telemetry"
)

const snapshotKey = "snapshot"

var (
	// ErrTaskNotFound is returned for task IDs the backend does not know
	ErrTaskNotFound = errors.New("task not found")
	// ErrTaskAlreadyActive is returned when starting a running task
	ErrTaskAlreadyActive = errors.New("task is already active")
	// ErrTaskNotActive is returned when stopping a task that is not running
	ErrTaskNotActive = errors.New("task is not active")
)

// Snapshot is everything the backend knows, fetched in one go
type Snapshot struct {
	Tasks      []models.Task      `json:"tasks"`
	Tags       []models.Tag       `json:"tags"`
	Timestamps []models.Timestamp `json:"timestamps"`
}

// TaskStatus is a task with its resolved tags and whether it is running
type TaskStatus struct {
	ID       int64          `json:"id"`
	Name     string         `json:"name"`
	Tags     []activity.Tag `json:"tags"`
	IsActive bool           `json:"is_active"`
}

// TaskIntervals lists the intervals of one task overlapping a window
type TaskIntervals struct {
	TaskID    int64               `json:"task_id"`
	TaskName  string              `json:"task_name"`
	Intervals []activity.Interval `json:"intervals"`
	// HideOngoingEnd is set when the window covers the present, so an ongoing
	// interval has no end worth showing yet
	HideOngoingEnd bool `json:"hide_ongoing_end"`
}

// ActivityService answers activity questions about the tracker's data
type ActivityService struct {
	tracker  backend.Tracker
	cache    cache.Store
	cacheTTL time.Duration
	loc      *time.Location
	now      func() time.Time
	logger   *zap.Logger
}

// Option customizes an ActivityService
type Option func(*ActivityService)

// WithCache caches snapshots in store for ttl
func WithCache(store cache.Store, ttl time.Duration) Option {
	return func(s *ActivityService) {
		s.cache = store
		s.cacheTTL = ttl
	}
}

// WithClock replaces time.Now, for tests
func WithClock(now func() time.Time) Option {
	return func(s *ActivityService) {
		s.now = now
	}
}

// WithLogger sets the logger
func WithLogger(log *zap.Logger) Option {
	return func(s *ActivityService) {
		s.logger = log
	}
}

// NewActivityService creates a service reading from tracker. Backend wall-clock
// timestamps are interpreted in loc; nil means UTC.
func NewActivityService(tracker backend.Tracker, loc *time.Location, opts ...Option) *ActivityService {
	if loc == nil {
		loc = time.UTC
	}
	s := &ActivityService{
		tracker: tracker,
		cache:   cache.NopStore{},
		loc:     loc,
		now:     time.Now,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Location returns the zone backend timestamps are interpreted in
func (s *ActivityService) Location() *time.Location {
	return s.loc
}

// Now returns the service clock's current time
func (s *ActivityService) Now() time.Time {
	return s.now()
}

// Snapshot returns the cached snapshot or fetches tasks, tags and timestamps concurrently
func (s *ActivityService) Snapshot(ctx context.Context) (*Snapshot, error) {
	ctx, span := telemetry.Tracer().Start(ctx, "service.snapshot")
	defer span.End()

	var snap Snapshot
	err := s.cache.Get(ctx, snapshotKey, &snap)
	if err == nil {
		span.SetAttributes(attribute.Bool("cache_hit", true))
		return &snap, nil
	}
	span.SetAttributes(attribute.Bool("cache_hit", false))
	if !errors.Is(err, cache.ErrCacheMiss) {
		s.logger.Warn("snapshot_cache_read_failed", zap.String("error", logger.SanitizeError(err)))
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		tasks, err := s.tracker.ListTasks(gctx)
		snap.Tasks = tasks
		return err
	})
	g.Go(func() error {
		tags, err := s.tracker.ListTags(gctx)
		snap.Tags = tags
		return err
	})
	g.Go(func() error {
		timestamps, err := s.tracker.ListTimestamps(gctx)
		snap.Timestamps = timestamps
		return err
	})
	if err := g.Wait(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "backend fetch failed")
		return nil, fmt.Errorf("failed to fetch snapshot: %w", err)
	}
	span.SetAttributes(
		attribute.Int("tasks", len(snap.Tasks)),
		attribute.Int("timestamps", len(snap.Timestamps)),
	)

	if err := s.cache.Set(ctx, snapshotKey, &snap, s.cacheTTL); err != nil {
		s.logger.Warn("snapshot_cache_write_failed", zap.String("error", logger.SanitizeError(err)))
	}
	return &snap, nil
}

// Invalidate drops the cached snapshot
func (s *ActivityService) Invalidate(ctx context.Context) error {
	return s.cache.Delete(ctx, snapshotKey)
}

// domain converts a snapshot into activity types
func (s *ActivityService) domain(snap *Snapshot) ([]activity.Event, []activity.Task, []activity.Tag) {
	events := s.events(snap.Timestamps)
	tasks := make([]activity.Task, len(snap.Tasks))
	for i, t := range snap.Tasks {
		tasks[i] = t.ToActivity()
	}
	tags := make([]activity.Tag, len(snap.Tags))
	for i, t := range snap.Tags {
		tags[i] = t.ToActivity()
	}
	return events, tasks, tags
}

// events converts backend timestamps. A row that does not parse contributes
// nothing and is logged.
func (s *ActivityService) events(timestamps []models.Timestamp) []activity.Event {
	events, skipped := models.ToEvents(timestamps, s.loc)
	for _, err := range skipped {
		s.logger.Warn("timestamp_skipped", zap.String("error", logger.SanitizeError(err)))
	}
	return events
}

// TagSummary returns the merged active time per tag inside w
func (s *ActivityService) TagSummary(ctx context.Context, w activity.Window) ([]activity.TagActivitySummary, error) {
	if err := w.Validate(); err != nil {
		return nil, err
	}
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	events, tasks, tags := s.domain(snap)

	summary := activity.SummarizeTags(events, tasks, tags, w, activity.Options{Now: s.now()})
	s.logger.Debug("summary_computed",
		zap.String("kind", string(models.ReportKindTagSummary)),
		zap.Int("tags", len(summary)),
		zap.Int("events", len(events)),
	)
	return summary, nil
}

// TaskSummary returns the active time per task inside w
func (s *ActivityService) TaskSummary(ctx context.Context, w activity.Window) ([]activity.TaskActiveTimeResult, error) {
	if err := w.Validate(); err != nil {
		return nil, err
	}
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	events, tasks, _ := s.domain(snap)

	results := activity.SummarizeTasks(events, tasks, w, activity.Options{Now: s.now()})
	s.logger.Debug("summary_computed",
		zap.String("kind", string(models.ReportKindTaskSummary)),
		zap.Int("tasks", len(results)),
		zap.Int("events", len(events)),
	)
	return results, nil
}

// ListTasks returns every task carrying all of tagIDs, with tag names and running state
func (s *ActivityService) ListTasks(ctx context.Context, tagIDs []int64) ([]TaskStatus, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	events, tasks, tags := s.domain(snap)

	tagsByID := make(map[int64]activity.Tag, len(tags))
	for _, t := range tags {
		tagsByID[t.ID] = t
	}
	byTask := activity.GroupByTask(events)

	filtered := activity.FilterByTags(tasks, tagIDs)
	statuses := make([]TaskStatus, 0, len(filtered))
	for _, t := range filtered {
		resolved := make([]activity.Tag, 0, len(t.TagIDs))
		for _, id := range t.TagIDs {
			if tag, ok := tagsByID[id]; ok {
				resolved = append(resolved, tag)
			}
		}
		statuses = append(statuses, TaskStatus{
			ID:       t.ID,
			Name:     t.Name,
			Tags:     resolved,
			IsActive: activity.IsActive(byTask[t.ID]),
		})
	}
	return statuses, nil
}

// findTask returns the task with id from the snapshot
func (s *ActivityService) findTask(ctx context.Context, id int64) (*models.Task, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	idx := slices.IndexFunc(snap.Tasks, func(t models.Task) bool { return t.ID == id })
	if idx < 0 {
		return nil, fmt.Errorf("%w: %d", ErrTaskNotFound, id)
	}
	return &snap.Tasks[idx], nil
}

// taskEvents fetches a task's own timestamps; these are never served from the cache
func (s *ActivityService) taskEvents(ctx context.Context, id int64) ([]activity.Event, error) {
	timestamps, err := s.tracker.TimestampsForTask(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.events(timestamps), nil
}

// Intervals returns the intervals of task id that overlap w
func (s *ActivityService) Intervals(ctx context.Context, id int64, w activity.Window) (*TaskIntervals, error) {
	if err := w.Validate(); err != nil {
		return nil, err
	}
	task, err := s.findTask(ctx, id)
	if err != nil {
		return nil, err
	}
	events, err := s.taskEvents(ctx, id)
	if err != nil {
		return nil, err
	}

	return &TaskIntervals{
		TaskID:         task.ID,
		TaskName:       task.Name,
		Intervals:      activity.OverlappingIntervals(activity.BuildIntervals(events), w),
		HideOngoingEnd: activity.HideOngoingEnd(w, s.now()),
	}, nil
}

// Daily returns per-day active minutes of task id between the calendar days of from and to
func (s *ActivityService) Daily(ctx context.Context, id int64, from, to time.Time) ([]activity.DayActivity, error) {
	if _, err := s.findTask(ctx, id); err != nil {
		return nil, err
	}
	events, err := s.taskEvents(ctx, id)
	if err != nil {
		return nil, err
	}
	return activity.DailyMinutes(activity.BuildIntervals(events), from, to, s.loc, s.now())
}

// StartTask records a START for task id
func (s *ActivityService) StartTask(ctx context.Context, id int64) error {
	return s.record(ctx, id, activity.Start)
}

// StopTask records a STOP for task id
func (s *ActivityService) StopTask(ctx context.Context, id int64) error {
	return s.record(ctx, id, activity.Stop)
}

func (s *ActivityService) record(ctx context.Context, id int64, typ activity.EventType) error {
	if _, err := s.findTask(ctx, id); err != nil {
		return err
	}
	events, err := s.taskEvents(ctx, id)
	if err != nil {
		return err
	}

	active := activity.IsActive(events)
	switch {
	case typ == activity.Start && active:
		return ErrTaskAlreadyActive
	case typ == activity.Stop && !active:
		return ErrTaskNotActive
	}

	ts := models.NewTimestamp{
		Timestamp: models.FormatServerTime(s.now(), s.loc),
		Task:      id,
		Type:      typ,
	}
	if err := s.tracker.CreateTimestamp(ctx, ts); err != nil {
		return err
	}

	if err := s.Invalidate(ctx); err != nil {
		s.logger.Warn("snapshot_invalidate_failed", zap.String("error", logger.SanitizeError(err)))
	}
	s.logger.Info("task_event_recorded", zap.Int64("task_id", id), zap.Stringer("type", typ))
	return nil
}
