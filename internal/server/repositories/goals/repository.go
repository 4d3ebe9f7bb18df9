// Package goals declares the server-side repository contract for goal rows.
package goals

import (
	"context"

	"github.com/dmitrijs2005/goalkeeper/internal/server/models"
)

// Repository defines persistence operations on goals. Budget movement between
// a goal and its owner's ledger is the service's job; the repository only
// stores rows.
type Repository interface {
	// Create inserts a new goal and fills in its generated id and timestamp.
	Create(ctx context.Context, goal *models.Goal) (*models.Goal, error)

	// Get returns a goal by id, or common.ErrorNotFound.
	Get(ctx context.Context, id string) (*models.Goal, error)

	// GetForUpdate returns a goal by id with its row locked until the
	// surrounding transaction ends. Lifecycle transitions and budget
	// moves must read through this so a concurrent writer cannot act on
	// the same stale snapshot.
	GetForUpdate(ctx context.Context, id string) (*models.Goal, error)

	// ListByOwner returns all goals owned by the given user, newest first.
	ListByOwner(ctx context.Context, userID string) ([]*models.Goal, error)

	// ListByVerifier returns goals awaiting the given verifier's decision.
	ListByVerifier(ctx context.Context, verifierID string, status models.GoalStatus) ([]*models.Goal, error)

	// Update rewrites the mutable fields (title, content, deadline,
	// verifier, budget) of an existing goal row.
	Update(ctx context.Context, goal *models.Goal) error

	// UpdateStatus sets the lifecycle status of a goal.
	UpdateStatus(ctx context.Context, id string, status models.GoalStatus) error

	// UpdateSummary stores the collaborator-produced summary text.
	UpdateSummary(ctx context.Context, id string, summary string) error

	// Delete removes a goal row.
	Delete(ctx context.Context, id string) error

	// SumReserved returns the total stake held across the user's
	// non-terminal goals.
	SumReserved(ctx context.Context, userID string) (int64, error)
}
