// Package summary implements the asynchronous goal-summary collaborator:
// an in-process queue the goal service publishes to and a worker that calls
// a text summarizer and writes the result back onto the goal row.
//
// Collaborator failures never propagate to the operation that requested the
// summary; they are converted into a human-readable error string stored in
// the goal's summary field.
package summary

import (
	"context"
	"errors"
)

// Request asks the collaborator to summarize one freshly created goal.
type Request struct {
	GoalID  string
	Title   string
	Content string
}

// Summarizer produces a short summary of a goal.
type Summarizer interface {
	Summarize(ctx context.Context, title, content string) (string, error)
}

// Publisher is the producer side of the queue, as seen by the goal service.
type Publisher interface {
	// Publish hands off a request without blocking. It fails with
	// ErrQueueFull when the worker has fallen too far behind.
	Publish(req Request) error
}

// ErrQueueFull is returned by Publish when the queue has no free capacity.
var ErrQueueFull = errors.New("summary queue is full")

// Queue is a bounded in-process handoff between the goal service and the
// worker.
type Queue struct {
	ch chan Request
}

// NewQueue creates a queue with the given capacity.
func NewQueue(size int) *Queue {
	if size <= 0 {
		size = 1
	}
	return &Queue{ch: make(chan Request, size)}
}

// Publish enqueues a request without blocking.
func (q *Queue) Publish(req Request) error {
	select {
	case q.ch <- req:
		return nil
	default:
		return ErrQueueFull
	}
}

// Requests exposes the consumer side of the queue.
func (q *Queue) Requests() <-chan Request {
	return q.ch
}
