// Package invitations declares the repository contract for out-of-band
// member invitations.
package invitations

import (
	"context"

	"github.com/dmitrijs2005/goalkeeper/internal/server/models"
)

// Repository stores invitation rows. Delivery of the invite is outside the
// core; only the record is kept here.
type Repository interface {
	// Create inserts a pending invitation.
	Create(ctx context.Context, inv *models.Invitation) (*models.Invitation, error)

	// ListByInviter returns invitations sent by the given user.
	ListByInviter(ctx context.Context, inviterID string) ([]*models.Invitation, error)
}
