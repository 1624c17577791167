package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/ChikinaValeria/TimeTrackerApp/internal/backend"
	"github.com/ChikinaValeria/TimeTrackerApp/internal/logger"
	"github.com/ChikinaValeria/TimeTrackerApp/internal/models"
)

// ErrTagNotFound is returned for tag IDs the backend does not know
var ErrTagNotFound = errors.New("tag not found")

// ListTags returns all tags
func (s *ActivityService) ListTags(ctx context.Context) ([]models.Tag, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return snap.Tags, nil
}

// CreateTask creates a task in the backend
func (s *ActivityService) CreateTask(ctx context.Context, in models.TaskInput) (*models.Task, error) {
	task, err := s.tracker.CreateTask(ctx, in)
	if err != nil {
		return nil, err
	}
	s.changed(ctx, "task_created", task.ID)
	return task, nil
}

// UpdateTask replaces the name, tags and additional data of task id
func (s *ActivityService) UpdateTask(ctx context.Context, id int64, in models.TaskInput) error {
	if err := s.tracker.UpdateTask(ctx, id, in); err != nil {
		return notFound(err, ErrTaskNotFound, id)
	}
	s.changed(ctx, "task_updated", id)
	return nil
}

// DeleteTask removes task id
func (s *ActivityService) DeleteTask(ctx context.Context, id int64) error {
	if err := s.tracker.DeleteTask(ctx, id); err != nil {
		return notFound(err, ErrTaskNotFound, id)
	}
	s.changed(ctx, "task_deleted", id)
	return nil
}

// CreateTag creates a tag in the backend
func (s *ActivityService) CreateTag(ctx context.Context, in models.TagInput) (*models.Tag, error) {
	tag, err := s.tracker.CreateTag(ctx, in)
	if err != nil {
		return nil, err
	}
	s.changed(ctx, "tag_created", tag.ID)
	return tag, nil
}

// UpdateTag renames tag id
func (s *ActivityService) UpdateTag(ctx context.Context, id int64, in models.TagInput) error {
	if err := s.tracker.UpdateTag(ctx, id, in); err != nil {
		return notFound(err, ErrTagNotFound, id)
	}
	s.changed(ctx, "tag_updated", id)
	return nil
}

// DeleteTag removes tag id. Tasks keep the stale ID in their tag list; it is
// dropped when names are resolved.
func (s *ActivityService) DeleteTag(ctx context.Context, id int64) error {
	if err := s.tracker.DeleteTag(ctx, id); err != nil {
		return notFound(err, ErrTagNotFound, id)
	}
	s.changed(ctx, "tag_deleted", id)
	return nil
}

// changed invalidates the snapshot after a write and logs event
func (s *ActivityService) changed(ctx context.Context, event string, id int64) {
	if err := s.Invalidate(ctx); err != nil {
		s.logger.Warn("snapshot_invalidate_failed", zap.String("error", logger.SanitizeError(err)))
	}
	s.logger.Info(event, zap.Int64("id", id))
}

// notFound maps a backend 404 to sentinel
func notFound(err, sentinel error, id int64) error {
	if backend.IsNotFound(err) {
		return fmt.Errorf("%w: %d", sentinel, id)
	}
	return err
}
