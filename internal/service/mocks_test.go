package service

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ChikinaValeria/TimeTrackerApp/internal/backend"
	"github.com/ChikinaValeria/TimeTrackerApp/internal/cache"
	"github.com/ChikinaValeria/TimeTrackerApp/internal/models"
	"github.com/ChikinaValeria/TimeTrackerApp/internal/queue"
)

// mockTracker serves fixed data and records posted timestamps
type mockTracker struct {
	mu         sync.Mutex
	tasks      []models.Task
	tags       []models.Tag
	timestamps []models.Timestamp
	listErr    error
	created    []models.NewTimestamp
	listCalls  int
}

var _ backend.Tracker = (*mockTracker)(nil)

func (m *mockTracker) ListTasks(context.Context) ([]models.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listCalls++
	return append([]models.Task(nil), m.tasks...), m.listErr
}

func (m *mockTracker) ListTags(context.Context) ([]models.Tag, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.Tag(nil), m.tags...), nil
}

func (m *mockTracker) ListTimestamps(context.Context) ([]models.Timestamp, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.Timestamp(nil), m.timestamps...), nil
}

func (m *mockTracker) TimestampsForTask(_ context.Context, taskID int64) ([]models.Timestamp, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Timestamp
	for _, ts := range m.timestamps {
		if ts.Task == taskID {
			out = append(out, ts)
		}
	}
	return out, nil
}

func (m *mockTracker) CreateTimestamp(_ context.Context, ts models.NewTimestamp) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.created = append(m.created, ts)
	m.timestamps = append(m.timestamps, models.Timestamp{
		ID:        int64(len(m.timestamps) + 1000),
		Timestamp: ts.Timestamp,
		Task:      ts.Task,
		Type:      ts.Type,
	})
	return nil
}

func (m *mockTracker) CreateTask(_ context.Context, in models.TaskInput) (*models.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	task := models.Task{ID: int64(len(m.tasks) + 100), Name: in.Name, Tags: in.Tags, AdditionalData: in.AdditionalData}
	m.tasks = append(m.tasks, task)
	return &task, nil
}

func (m *mockTracker) UpdateTask(_ context.Context, id int64, in models.TaskInput) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.tasks {
		if m.tasks[i].ID == id {
			m.tasks[i].Name, m.tasks[i].Tags, m.tasks[i].AdditionalData = in.Name, in.Tags, in.AdditionalData
			return nil
		}
	}
	return &backend.StatusError{Method: "PUT", Path: "/tasks", StatusCode: 404}
}

func (m *mockTracker) DeleteTask(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.tasks {
		if m.tasks[i].ID == id {
			m.tasks = append(m.tasks[:i], m.tasks[i+1:]...)
			return nil
		}
	}
	return &backend.StatusError{Method: "DELETE", Path: "/tasks", StatusCode: 404}
}

func (m *mockTracker) CreateTag(_ context.Context, in models.TagInput) (*models.Tag, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	tag := models.Tag{ID: int64(len(m.tags) + 100), Name: in.Name, AdditionalData: in.AdditionalData}
	m.tags = append(m.tags, tag)
	return &tag, nil
}

func (m *mockTracker) UpdateTag(_ context.Context, id int64, in models.TagInput) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.tags {
		if m.tags[i].ID == id {
			m.tags[i].Name, m.tags[i].AdditionalData = in.Name, in.AdditionalData
			return nil
		}
	}
	return &backend.StatusError{Method: "PUT", Path: "/tags", StatusCode: 404}
}

func (m *mockTracker) DeleteTag(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.tags {
		if m.tags[i].ID == id {
			m.tags = append(m.tags[:i], m.tags[i+1:]...)
			return nil
		}
	}
	return &backend.StatusError{Method: "DELETE", Path: "/tags", StatusCode: 404}
}

func (m *mockTracker) Ping(context.Context) error { return nil }

// memoryStore is an in-process cache.Store
type memoryStore struct {
	mu   sync.Mutex
	data map[string][]byte
}

var _ cache.Store = (*memoryStore)(nil)

func newMemoryStore() *memoryStore {
	return &memoryStore{data: map[string][]byte{}}
}

func (m *memoryStore) Get(_ context.Context, key string, dest any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	raw, ok := m.data[key]
	if !ok {
		return cache.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (m *memoryStore) Set(_ context.Context, key string, value any, _ time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = raw
	return nil
}

func (m *memoryStore) Delete(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.data, k)
	}
	return nil
}

func (m *memoryStore) Ping(context.Context) error { return nil }

// mockQueue records enqueued jobs
type mockQueue struct {
	mu         sync.Mutex
	jobs       []*queue.Job
	enqueueErr error
}

var _ queue.JobQueue = (*mockQueue)(nil)

func (q *mockQueue) Enqueue(_ context.Context, job *queue.Job) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.enqueueErr != nil {
		return q.enqueueErr
	}
	q.jobs = append(q.jobs, job)
	return nil
}

func (q *mockQueue) Consume(context.Context, int) (<-chan queue.MessageInterface, <-chan error, error) {
	return nil, nil, nil
}
func (q *mockQueue) Close() error                      { return nil }
func (q *mockQueue) HealthCheck(context.Context) error { return nil }

// mockReports is an in-memory ReportRepository
type mockReports struct {
	mu      sync.Mutex
	reports map[uuid.UUID]models.Report
}

var _ ReportRepository = (*mockReports)(nil)

func newMockReports() *mockReports {
	return &mockReports{reports: map[uuid.UUID]models.Report{}}
}

func (m *mockReports) Save(_ context.Context, r *models.Report) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reports[r.ID] = *r
	return nil
}

func (m *mockReports) Get(_ context.Context, id uuid.UUID) (*models.Report, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.reports[id]
	if !ok {
		return nil, cache.ErrReportNotFound
	}
	return &r, nil
}

func (m *memoryStore) has(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.data[key]
	return ok
}
