package friends

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

// PostgresRepository implements friend request storage over dbx.DBTX
// (satisfied by *sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const friendColumns = `id, user_id, friend_id, status, created_at`

func scanRequest(row interface{ Scan(...any) error }) (*models.FriendRequest, error) {
	f := &models.FriendRequest{}
	err := row.Scan(&f.ID, &f.UserID, &f.FriendID, &f.Status, &f.CreatedAt)
	if err != nil {
		return nil, err
	}
	return f, nil
}

// Create inserts a pending request. The unique index on the unordered pair
// turns duplicates into common.ErrorAlreadyExists.
func (r *PostgresRepository) Create(ctx context.Context, req *models.FriendRequest) (*models.FriendRequest, error) {
	query := `
		INSERT INTO friends (user_id, friend_id, status)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`
	err := r.db.QueryRowContext(ctx, query, req.UserID, req.FriendID, req.Status).
		Scan(&req.ID, &req.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return req, nil
}

// GetByPair returns the request involving both users regardless of direction.
func (r *PostgresRepository) GetByPair(ctx context.Context, userA, userB string) (*models.FriendRequest, error) {
	query := `
		SELECT ` + friendColumns + ` FROM friends
		WHERE (user_id = $1 AND friend_id = $2) OR (user_id = $2 AND friend_id = $1)
	`
	f, err := scanRequest(r.db.QueryRowContext(ctx, query, userA, userB))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return f, nil
}

// ListInvolving returns all requests with the user on either side.
func (r *PostgresRepository) ListInvolving(ctx context.Context, userID string) ([]*models.FriendRequest, error) {
	query := `
		SELECT ` + friendColumns + ` FROM friends
		WHERE user_id = $1 OR friend_id = $1
		ORDER BY created_at
	`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.FriendRequest
	for rows.Next() {
		f, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, f)
	}
	return result, rows.Err()
}

// UpdateStatus sets the status of a request.
func (r *PostgresRepository) UpdateStatus(ctx context.Context, id string, status models.FriendRequestStatus) error {
	query := `UPDATE friends SET status = $1 WHERE id = $2`

	res, err := r.db.ExecContext(ctx, query, status, id)
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

// Delete removes a request row.
func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM friends WHERE id = $1`

	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
