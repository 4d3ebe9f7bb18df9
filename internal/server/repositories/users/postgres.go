package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/goalkeeper/internal/common"
	"github.com/dmitrijs2005/goalkeeper/internal/dbx"
	"github.com/dmitrijs2005/goalkeeper/internal/server/models"
	"github.com/jackc/pgx/v5/pgconn"
)

// PostgresRepository implements user ledger storage over dbx.DBTX
// (satisfied by *sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const userColumns = `id, user_id, name, email, password_hash, budget, score, created_at`

func scanUser(row interface{ Scan(...any) error }) (*models.User, error) {
	u := &models.User{}
	err := row.Scan(&u.ID, &u.UserID, &u.Name, &u.Email, &u.PasswordHash, &u.Budget, &u.Score, &u.CreatedAt)
	if err != nil {
		return nil, err
	}
	return u, nil
}

// Create inserts a new user row. A duplicate identity or email surfaces as
// common.ErrorAlreadyExists.
func (r *PostgresRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	query := `
		INSERT INTO users (user_id, name, email, password_hash, budget, score)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`
	err := r.db.QueryRowContext(ctx, query,
		user.UserID, user.Name, user.Email, user.PasswordHash, user.Budget, user.Score).
		Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return user, nil
}

// GetByUserID returns the ledger row for the given principal identity.
func (r *PostgresRepository) GetByUserID(ctx context.Context, userID string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE user_id = $1`

	u, err := scanUser(r.db.QueryRowContext(ctx, query, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return u, nil
}

// GetByEmail returns the ledger row with the given email.
func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`

	u, err := scanUser(r.db.QueryRowContext(ctx, query, email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return u, nil
}

// GetMany returns the users matching the given identities.
func (r *PostgresRepository) GetMany(ctx context.Context, userIDs []string) ([]*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE user_id = ANY($1)`

	rows, err := r.db.QueryContext(ctx, query, userIDs)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, u)
	}
	return result, rows.Err()
}

// UpdateProfile patches name and email for the given identity.
func (r *PostgresRepository) UpdateProfile(ctx context.Context, userID, name, email string) error {
	query := `UPDATE users SET name = $1, email = $2 WHERE user_id = $3`

	res, err := r.db.ExecContext(ctx, query, name, email, userID)
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

// List returns all users except excludeUserID.
func (r *PostgresRepository) List(ctx context.Context, excludeUserID string) ([]*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE user_id <> $1 ORDER BY name`

	rows, err := r.db.QueryContext(ctx, query, excludeUserID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, u)
	}
	return result, rows.Err()
}

// Debit subtracts amount from the user's budget in one conditional statement.
// Zero rows affected means either the user is absent or the balance is short;
// the two cases are told apart with a follow-up existence check.
func (r *PostgresRepository) Debit(ctx context.Context, userID string, amount int64) error {
	query := `
		UPDATE users SET budget = budget - $1
		WHERE user_id = $2 AND budget >= $1
	`
	res, err := r.db.ExecContext(ctx, query, amount, userID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 1 {
		return nil
	}

	if _, err := r.GetByUserID(ctx, userID); err != nil {
		return err
	}
	return common.ErrorInsufficientBudget
}

// Credit adds budgetDelta to budget and scoreDelta to score.
func (r *PostgresRepository) Credit(ctx context.Context, userID string, budgetDelta, scoreDelta int64) error {
	query := `
		UPDATE users SET budget = budget + $1, score = score + $2
		WHERE user_id = $3
	`
	res, err := r.db.ExecContext(ctx, query, budgetDelta, scoreDelta, userID)
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
