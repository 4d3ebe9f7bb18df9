// Package friends declares the server-side repository contract for friend
// request rows.
package friends

import (
	"context"

	"github.com/dmitrijs2005/goalkeeper/internal/server/models"
)

// Repository defines persistence operations on the friendship graph. A row is
// directed (UserID sent the request to FriendID) but the pair is unique in
// either direction.
type Repository interface {
	// Create inserts a pending request. A second request for the same
	// unordered pair fails with common.ErrorAlreadyExists.
	Create(ctx context.Context, req *models.FriendRequest) (*models.FriendRequest, error)

	// GetByPair returns the request involving both users regardless of
	// direction, or common.ErrorNotFound.
	GetByPair(ctx context.Context, userA, userB string) (*models.FriendRequest, error)

	// ListInvolving returns all requests where the user is on either side.
	ListInvolving(ctx context.Context, userID string) ([]*models.FriendRequest, error)

	// UpdateStatus sets the status of a request.
	UpdateStatus(ctx context.Context, id string, status models.FriendRequestStatus) error

	// Delete removes a request row.
	Delete(ctx context.Context, id string) error
}
