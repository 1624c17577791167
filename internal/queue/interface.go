package queue

import (
	"context"
	"time"
)

// MessageInterface is what a worker needs from a delivered message
type MessageInterface interface {
	Ack() error
	Nack(requeue bool) error
	GetJob() *Job
}

// JobQueue is the interface for job queues
type JobQueue interface {
	// Enqueue publishes a job
	Enqueue(ctx context.Context, job *Job) error

	// Consume delivers messages until ctx is cancelled. Prefetch bounds how many
	// unacknowledged messages the consumer holds. Both channels are closed when
	// delivery stops.
	Consume(ctx context.Context, prefetchCount int) (<-chan MessageInterface, <-chan error, error)

	Close() error

	// HealthCheck verifies the broker connection is usable
	HealthCheck(ctx context.Context) error
}

// DLQPurger removes dead-lettered jobs older than a retention period
type DLQPurger interface {
	PurgeOlderThan(ctx context.Context, retention time.Duration) (int, error)
}
