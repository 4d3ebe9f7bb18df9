package invitations

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/goalkeeper/internal/dbx"
	"github.com/dmitrijs2005/goalkeeper/internal/server/models"
)

// PostgresRepository implements invitation storage over dbx.DBTX.
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a pending invitation.
func (r *PostgresRepository) Create(ctx context.Context, inv *models.Invitation) (*models.Invitation, error) {
	query := `
		INSERT INTO invitations (inviter_id, invitee_email, status)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`
	err := r.db.QueryRowContext(ctx, query, inv.InviterID, inv.InviteeEmail, inv.Status).
		Scan(&inv.ID, &inv.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return inv, nil
}

// ListByInviter returns invitations sent by the given user.
func (r *PostgresRepository) ListByInviter(ctx context.Context, inviterID string) ([]*models.Invitation, error) {
	query := `
		SELECT id, inviter_id, invitee_email, status, created_at
		FROM invitations
		WHERE inviter_id = $1
		ORDER BY created_at
	`
	rows, err := r.db.QueryContext(ctx, query, inviterID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Invitation
	for rows.Next() {
		inv := &models.Invitation{}
		if err := rows.Scan(&inv.ID, &inv.InviterID, &inv.InviteeEmail, &inv.Status, &inv.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, inv)
	}
	return result, rows.Err()
}
