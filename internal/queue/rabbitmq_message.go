package queue

import (
	amqp "github.com/rabbitmq/amqp091-go"
)

// delivery is a decoded report job together with the broker delivery it came in
type delivery struct {
	job *Job
	raw amqp.Delivery
}

var _ MessageInterface = (*delivery)(nil)

func (d *delivery) Ack() error {
	return d.raw.Ack(false)
}

// Nack without requeue routes the job to the dead letter queue
func (d *delivery) Nack(requeue bool) error {
	return d.raw.Nack(false, requeue)
}

func (d *delivery) GetJob() *Job { return d.job }
