package models

import (
	"strconv"
	"strings"

	"github.com/ChikinaValeria/TimeTrackerApp/internal/activity"
)

// Task is a tracked task as stored by the tracker backend.
// Tags holds a comma-separated list of tag IDs, e.g. "1,3,7".
type Task struct {
	ID             int64  `json:"id"`
	Name           string `json:"name"`
	Tags           string `json:"tags"`
	AdditionalData string `json:"additional_data,omitempty"`
}

// Tag is a label that can be attached to tasks
type Tag struct {
	ID             int64  `json:"id"`
	Name           string `json:"name"`
	AdditionalData string `json:"additional_data,omitempty"`
}

// Timestamp is a single start or stop record as stored by the tracker backend
type Timestamp struct {
	ID        int64              `json:"id"`
	Timestamp string             `json:"timestamp"`
	Task      int64              `json:"task"`
	Type      activity.EventType `json:"type"`
}

// NewTimestamp is the body posted to record a start or stop
type NewTimestamp struct {
	Timestamp string             `json:"timestamp"`
	Task      int64              `json:"task"`
	Type      activity.EventType `json:"type"`
}

// TaskInput is the body for creating or updating a task
type TaskInput struct {
	Name           string `json:"name" validate:"required,min=1,max=255"`
	Tags           string `json:"tags" validate:"tag_list"`
	AdditionalData string `json:"additional_data,omitempty" validate:"max=10000"`
}

// TagInput is the body for creating or updating a tag
type TagInput struct {
	Name           string `json:"name" validate:"required,min=1,max=255"`
	AdditionalData string `json:"additional_data,omitempty" validate:"max=10000"`
}

// ParseTagIDs parses a comma-separated tag list. Blank and non-numeric entries are skipped.
func ParseTagIDs(s string) []int64 {
	if strings.TrimSpace(s) == "" {
		return nil
	}

	parts := strings.Split(s, ",")
	ids := make([]int64, 0, len(parts))
	for _, part := range parts {
		id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}

// FormatTagIDs is the inverse of ParseTagIDs
func FormatTagIDs(ids []int64) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatInt(id, 10)
	}
	return strings.Join(parts, ",")
}

// ToActivity converts the backend task into its tag-membership projection
func (t Task) ToActivity() activity.Task {
	return activity.Task{ID: t.ID, Name: t.Name, TagIDs: ParseTagIDs(t.Tags)}
}

// ToActivity converts the backend tag
func (t Tag) ToActivity() activity.Tag {
	return activity.Tag{ID: t.ID, Name: t.Name}
}
