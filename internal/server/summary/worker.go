package summary

import (
	"context"

	"github.com/dmitrijs2005/goalkeeper/internal/logging"
)

// SummarySaver persists a produced summary onto a goal row. The goals
// repository satisfies this interface.
type SummarySaver interface {
	UpdateSummary(ctx context.Context, id string, summary string) error
}

// Worker consumes summarization requests and writes results back.
type Worker struct {
	queue      *Queue
	summarizer Summarizer
	saver      SummarySaver
	logger     logging.Logger
}

// NewWorker constructs a worker over the given queue and summarizer.
func NewWorker(q *Queue, s Summarizer, saver SummarySaver, l logging.Logger) *Worker {
	return &Worker{
		queue:      q,
		summarizer: s,
		saver:      saver,
		logger:     l.With("module", "summary_worker"),
	}
}

// Run processes requests until ctx is cancelled. A summarizer failure is
// recorded on the goal as an error text; a storage failure is only logged,
// the goal itself is never touched beyond its summary column.
func (w *Worker) Run(ctx context.Context) {
	w.logger.Info(ctx, "Starting summary worker...")
	for {
		select {
		case <-ctx.Done():
			w.logger.Info(ctx, "Stopping summary worker...")
			return
		case req := <-w.queue.Requests():
			w.process(ctx, req)
		}
	}
}

func (w *Worker) process(ctx context.Context, req Request) {
	text, err := w.summarizer.Summarize(ctx, req.Title, req.Content)
	if err != nil {
		w.logger.Error(ctx, "summarization failed", "goal_id", req.GoalID, "error", err.Error())
		text = FailureText(err)
	}

	if err := w.saver.UpdateSummary(ctx, req.GoalID, text); err != nil {
		w.logger.Error(ctx, "saving summary failed", "goal_id", req.GoalID, "error", err.Error())
	}
}

// FailureText renders a collaborator error as the string stored in the
// goal's summary field.
func FailureText(err error) string {
	return "summary unavailable: " + err.Error()
}
