// Package backend talks to the tracker backend that stores tasks, tags and
// start/stop timestamps.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ChikinaValeria/TimeTrackerApp/internal/logger"
	"github.com/ChikinaValeria/TimeTrackerApp/internal/models"
)

// DefaultTimeout bounds a single backend request when no timeout is configured
const DefaultTimeout = 10 * time.Second

// maxErrorBody caps how much of a failed response is kept in StatusError
const maxErrorBody = 1024

// StatusError is returned when the backend answers with a non-2xx status
type StatusError struct {
	Method     string
	Path       string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("backend %s %s: status %d", e.Method, e.Path, e.StatusCode)
	}
	return fmt.Sprintf("backend %s %s: status %d: %s", e.Method, e.Path, e.StatusCode, e.Body)
}

// IsNotFound reports whether err is a backend 404
func IsNotFound(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.StatusCode == http.StatusNotFound
}

// Tracker is the set of backend operations the rest of the application depends on
type Tracker interface {
	ListTasks(ctx context.Context) ([]models.Task, error)
	ListTags(ctx context.Context) ([]models.Tag, error)
	ListTimestamps(ctx context.Context) ([]models.Timestamp, error)
	TimestampsForTask(ctx context.Context, taskID int64) ([]models.Timestamp, error)
	CreateTimestamp(ctx context.Context, ts models.NewTimestamp) error
	CreateTask(ctx context.Context, in models.TaskInput) (*models.Task, error)
	UpdateTask(ctx context.Context, id int64, in models.TaskInput) error
	DeleteTask(ctx context.Context, id int64) error
	CreateTag(ctx context.Context, in models.TagInput) (*models.Tag, error)
	UpdateTag(ctx context.Context, id int64, in models.TagInput) error
	DeleteTag(ctx context.Context, id int64) error
	Ping(ctx context.Context) error
}

// Client is an HTTP implementation of Tracker
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a backend client for baseURL.
// A nil log disables request failure logging.
func NewClient(baseURL string, timeout time.Duration, log *zap.Logger) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid backend URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid backend URL %q: scheme must be http or https", baseURL)
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if log == nil {
		log = zap.NewNop()
	}

	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		logger:     log,
	}, nil
}

// ListTasks returns every task
func (c *Client) ListTasks(ctx context.Context) ([]models.Task, error) {
	var tasks []models.Task
	if err := c.do(ctx, http.MethodGet, "/tasks", nil, &tasks); err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

// ListTags returns every tag
func (c *Client) ListTags(ctx context.Context) ([]models.Tag, error) {
	var tags []models.Tag
	if err := c.do(ctx, http.MethodGet, "/tags", nil, &tags); err != nil {
		return nil, fmt.Errorf("failed to list tags: %w", err)
	}
	return tags, nil
}

// ListTimestamps returns the timestamps of all tasks
func (c *Client) ListTimestamps(ctx context.Context) ([]models.Timestamp, error) {
	var timestamps []models.Timestamp
	if err := c.do(ctx, http.MethodGet, "/timestamps", nil, &timestamps); err != nil {
		return nil, fmt.Errorf("failed to list timestamps: %w", err)
	}
	return timestamps, nil
}

// TimestampsForTask returns the timestamps of a single task
func (c *Client) TimestampsForTask(ctx context.Context, taskID int64) ([]models.Timestamp, error) {
	var timestamps []models.Timestamp
	if err := c.do(ctx, http.MethodGet, "/timesfortask/"+strconv.FormatInt(taskID, 10), nil, &timestamps); err != nil {
		return nil, fmt.Errorf("failed to list timestamps for task %d: %w", taskID, err)
	}
	return timestamps, nil
}

// CreateTimestamp records a start or stop
func (c *Client) CreateTimestamp(ctx context.Context, ts models.NewTimestamp) error {
	if err := c.do(ctx, http.MethodPost, "/timestamps", ts, nil); err != nil {
		return fmt.Errorf("failed to create timestamp for task %d: %w", ts.Task, err)
	}
	return nil
}

// CreateTask creates a task and returns it as stored
func (c *Client) CreateTask(ctx context.Context, in models.TaskInput) (*models.Task, error) {
	var task models.Task
	if err := c.do(ctx, http.MethodPost, "/tasks", in, &task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}
	return &task, nil
}

// UpdateTask replaces a task's name, tags and additional data
func (c *Client) UpdateTask(ctx context.Context, id int64, in models.TaskInput) error {
	body := models.Task{ID: id, Name: in.Name, Tags: in.Tags, AdditionalData: in.AdditionalData}
	if err := c.do(ctx, http.MethodPut, "/tasks/"+strconv.FormatInt(id, 10), body, nil); err != nil {
		return fmt.Errorf("failed to update task %d: %w", id, err)
	}
	return nil
}

// DeleteTask deletes a task
func (c *Client) DeleteTask(ctx context.Context, id int64) error {
	if err := c.do(ctx, http.MethodDelete, "/tasks/"+strconv.FormatInt(id, 10), nil, nil); err != nil {
		return fmt.Errorf("failed to delete task %d: %w", id, err)
	}
	return nil
}

// CreateTag creates a tag and returns it as stored
func (c *Client) CreateTag(ctx context.Context, in models.TagInput) (*models.Tag, error) {
	var tag models.Tag
	if err := c.do(ctx, http.MethodPost, "/tags", in, &tag); err != nil {
		return nil, fmt.Errorf("failed to create tag: %w", err)
	}
	return &tag, nil
}

// UpdateTag replaces a tag's name and additional data
func (c *Client) UpdateTag(ctx context.Context, id int64, in models.TagInput) error {
	body := models.Tag{ID: id, Name: in.Name, AdditionalData: in.AdditionalData}
	if err := c.do(ctx, http.MethodPut, "/tags/"+strconv.FormatInt(id, 10), body, nil); err != nil {
		return fmt.Errorf("failed to update tag %d: %w", id, err)
	}
	return nil
}

// DeleteTag deletes a tag
func (c *Client) DeleteTag(ctx context.Context, id int64) error {
	if err := c.do(ctx, http.MethodDelete, "/tags/"+strconv.FormatInt(id, 10), nil, nil); err != nil {
		return fmt.Errorf("failed to delete tag %d: %w", id, err)
	}
	return nil
}

// Ping checks that the backend answers; used by the extended health check
func (c *Client) Ping(ctx context.Context) error {
	if err := c.do(ctx, http.MethodGet, "/tags", nil, nil); err != nil {
		return fmt.Errorf("backend unreachable: %w", err)
	}
	return nil
}

// do sends a JSON request and decodes a JSON response into out when out is non-nil
func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("backend_request_failed",
			zap.String("method", method),
			zap.String("path", logger.SanitizePath(path)),
			zap.Duration("duration", time.Since(start)),
			zap.String("error", logger.SanitizeError(err)),
		)
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		c.logger.Warn("backend_request_rejected",
			zap.String("method", method),
			zap.String("path", logger.SanitizePath(path)),
			zap.Int("status", resp.StatusCode),
			zap.Duration("duration", time.Since(start)),
		)
		return &StatusError{
			Method:     method,
			Path:       path,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(snippet)),
		}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
