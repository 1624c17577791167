package queue

import (
	"time"

	"github.com/google/uuid"
)

// JobType represents the type of job
type JobType string

const (
	// JobTypeReport computes a pending report and stores the result
	JobTypeReport JobType = "report"
)

// DefaultMaxRetries bounds redelivery of a failing job
const DefaultMaxRetries = 3

// Job represents a job in the queue
type Job struct {
	ID         uuid.UUID  `json:"id"`
	Type       JobType    `json:"type"`
	ReportID   uuid.UUID  `json:"report_id"`
	NotAfter   *time.Time `json:"not_after,omitempty"` // nil = no expiration
	CreatedAt  time.Time  `json:"created_at"`
	RetryCount int        `json:"retry_count"`
	MaxRetries int        `json:"max_retries"`
}

// NewReportJob creates a job for reportID that expires after ttl. A non-positive ttl never expires.
func NewReportJob(reportID uuid.UUID, ttl time.Duration) *Job {
	now := time.Now()
	job := &Job{
		ID:         uuid.New(),
		Type:       JobTypeReport,
		ReportID:   reportID,
		CreatedAt:  now,
		MaxRetries: DefaultMaxRetries,
	}
	if ttl > 0 {
		notAfter := now.Add(ttl)
		job.NotAfter = &notAfter
	}
	return job
}

// IsExpired reports whether the job outlived its NotAfter deadline
func (j *Job) IsExpired() bool {
	if j.NotAfter == nil {
		return false
	}
	return time.Now().After(*j.NotAfter)
}

// CanRetry checks if the job can be retried
func (j *Job) CanRetry() bool {
	return j.RetryCount < j.MaxRetries
}

// IncrementRetry increments the retry count
func (j *Job) IncrementRetry() {
	j.RetryCount++
}
