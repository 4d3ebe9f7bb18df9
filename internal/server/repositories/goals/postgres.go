package goals

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/goalkeeper/internal/common"
	"github.com/dmitrijs2005/goalkeeper/internal/dbx"
	"github.com/dmitrijs2005/goalkeeper/internal/server/models"
)

// PostgresRepository implements goal storage over dbx.DBTX
// (satisfied by *sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const goalColumns = `id, user_id, title, content, summary, deadline, verifier_id, status, budget, created_at`

func scanGoal(row interface{ Scan(...any) error }) (*models.Goal, error) {
	g := &models.Goal{}
	err := row.Scan(&g.ID, &g.UserID, &g.Title, &g.Content, &g.Summary,
		&g.Deadline, &g.VerifierID, &g.Status, &g.Budget, &g.CreatedAt)
	if err != nil {
		return nil, err
	}
	return g, nil
}

// Create inserts a new goal row.
func (r *PostgresRepository) Create(ctx context.Context, goal *models.Goal) (*models.Goal, error) {
	query := `
		INSERT INTO goals (user_id, title, content, deadline, verifier_id, status, budget)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`
	err := r.db.QueryRowContext(ctx, query,
		goal.UserID, goal.Title, goal.Content, goal.Deadline, goal.VerifierID, goal.Status, goal.Budget).
		Scan(&goal.ID, &goal.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return goal, nil
}

// Get returns a goal by id.
func (r *PostgresRepository) Get(ctx context.Context, id string) (*models.Goal, error) {
	query := `SELECT ` + goalColumns + ` FROM goals WHERE id = $1`

	g, err := scanGoal(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return g, nil
}

// GetForUpdate returns a goal by id, locking its row for the rest of the
// transaction. A blocked caller re-reads the latest committed version once
// the lock is released, so status checks made on the result stay valid until
// commit.
func (r *PostgresRepository) GetForUpdate(ctx context.Context, id string) (*models.Goal, error) {
	query := `SELECT ` + goalColumns + ` FROM goals WHERE id = $1 FOR UPDATE`

	g, err := scanGoal(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return g, nil
}

// ListByOwner returns all goals owned by userID, newest first.
func (r *PostgresRepository) ListByOwner(ctx context.Context, userID string) ([]*models.Goal, error) {
	query := `SELECT ` + goalColumns + ` FROM goals WHERE user_id = $1 ORDER BY created_at DESC`
	return r.list(ctx, query, userID)
}

// ListByVerifier returns goals with the given verifier and status.
func (r *PostgresRepository) ListByVerifier(ctx context.Context, verifierID string, status models.GoalStatus) ([]*models.Goal, error) {
	query := `SELECT ` + goalColumns + ` FROM goals WHERE verifier_id = $1 AND status = $2 ORDER BY created_at DESC`
	return r.list(ctx, query, verifierID, status)
}

func (r *PostgresRepository) list(ctx context.Context, query string, args ...any) ([]*models.Goal, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Goal
	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, g)
	}
	return result, rows.Err()
}

// Update rewrites the mutable fields of a goal row.
func (r *PostgresRepository) Update(ctx context.Context, goal *models.Goal) error {
	query := `
		UPDATE goals
		SET title = $1, content = $2, deadline = $3, verifier_id = $4, budget = $5
		WHERE id = $6
	`
	return r.exec(ctx, query, goal.Title, goal.Content, goal.Deadline, goal.VerifierID, goal.Budget, goal.ID)
}

// UpdateStatus sets the lifecycle status of a goal.
func (r *PostgresRepository) UpdateStatus(ctx context.Context, id string, status models.GoalStatus) error {
	query := `UPDATE goals SET status = $1 WHERE id = $2`
	return r.exec(ctx, query, status, id)
}

// UpdateSummary stores the summary text on a goal.
func (r *PostgresRepository) UpdateSummary(ctx context.Context, id string, summary string) error {
	query := `UPDATE goals SET summary = $1 WHERE id = $2`
	return r.exec(ctx, query, summary, id)
}

// Delete removes a goal row.
func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM goals WHERE id = $1`
	return r.exec(ctx, query, id)
}

func (r *PostgresRepository) exec(ctx context.Context, query string, args ...any) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

// SumReserved returns the total stake held across the user's non-terminal goals.
func (r *PostgresRepository) SumReserved(ctx context.Context, userID string) (int64, error) {
	query := `
		SELECT COALESCE(SUM(budget), 0) FROM goals
		WHERE user_id = $1 AND status IN ($2, $3)
	`
	var total int64
	err := r.db.QueryRowContext(ctx, query, userID,
		models.GoalStatusUnfinished, models.GoalStatusPending).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return total, nil
}
