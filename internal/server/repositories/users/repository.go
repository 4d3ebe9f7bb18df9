// Package users declares the server-side repository contract for the user
// ledger.
package users

import (
	"context"

	"github.com/dmitrijs2005/goalkeeper/internal/server/models"
)

// Repository defines persistence operations on user ledger rows.
//
// Debit and Credit are the only budget mutators: Debit is conditional on the
// current balance inside a single statement, so the no-negative-balance
// invariant holds even under concurrent callers.
type Repository interface {
	// Create inserts a new user row. The caller sets the initial budget.
	Create(ctx context.Context, user *models.User) (*models.User, error)

	// GetByUserID returns the user owning the given principal identity,
	// or common.ErrorNotFound.
	GetByUserID(ctx context.Context, userID string) (*models.User, error)

	// GetByEmail returns the user with the given email, or common.ErrorNotFound.
	GetByEmail(ctx context.Context, email string) (*models.User, error)

	// GetMany returns the users matching the given identities. Missing ids
	// are silently absent from the result.
	GetMany(ctx context.Context, userIDs []string) ([]*models.User, error)

	// UpdateProfile patches name and email, leaving balances untouched.
	UpdateProfile(ctx context.Context, userID, name, email string) error

	// List returns all users except the one identified by excludeUserID.
	List(ctx context.Context, excludeUserID string) ([]*models.User, error)

	// Debit subtracts amount from the user's budget. It fails with
	// common.ErrorInsufficientBudget when the balance is smaller than
	// amount, writing nothing.
	Debit(ctx context.Context, userID string, amount int64) error

	// Credit adds budgetDelta to budget and scoreDelta to score.
	Credit(ctx context.Context, userID string, budgetDelta, scoreDelta int64) error
}
