package services

import (
	"context"
	"database/sql"
	"errors"
	"net/mail"
	"strings"

	"github.com/dmitrijs2005/goalkeeper/internal/common"
	"github.com/dmitrijs2005/goalkeeper/internal/logging"
	"github.com/dmitrijs2005/goalkeeper/internal/server/models"
	"github.com/dmitrijs2005/goalkeeper/internal/server/repositories/repomanager"
)

// FriendService manages the friendship graph: sending, accepting and
// rejecting requests, plus member search and non-member invitations.
type FriendService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	logger      logging.Logger
}

func NewFriendService(db *sql.DB, m repomanager.RepositoryManager, l logging.Logger) *FriendService {
	return &FriendService{
		db:          db,
		repomanager: m,
		logger:      l.With("module", "friend_service"),
	}
}

// List returns the caller's relationships annotated from the caller's side:
// the counterpart's identity, whether the caller sent the request, and the
// counterpart's email only once the request is accepted.
func (s *FriendService) List(ctx context.Context, callerID string) ([]*models.Friend, error) {
	if callerID == "" {
		return nil, common.ErrorUnauthenticated
	}

	reqs, err := s.repomanager.Friends(s.db).ListInvolving(ctx, callerID)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(reqs))
	for _, r := range reqs {
		ids = append(ids, counterpart(r, callerID))
	}
	users, err := s.repomanager.Users(s.db).GetMany(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]*models.User, len(users))
	for _, u := range users {
		byID[u.UserID] = u
	}

	result := make([]*models.Friend, 0, len(reqs))
	for _, r := range reqs {
		other := counterpart(r, callerID)
		f := &models.Friend{
			ID:       r.ID,
			FriendID: other,
			Status:   r.Status,
			IsSender: r.UserID == callerID,
		}
		if u, ok := byID[other]; ok {
			f.FriendName = u.Name
			if r.Status == models.FriendStatusAccepted {
				email := u.Email
				f.FriendEmail = &email
			}
		}
		result = append(result, f)
	}
	return result, nil
}

// Search returns registered users the caller could still send a request to,
// for the add-friend picker: the caller and every counterpart of an existing
// relationship row (pending or accepted) are excluded. A non-empty query
// filters by name or email substring.
func (s *FriendService) Search(ctx context.Context, callerID, query string) ([]*models.User, error) {
	if callerID == "" {
		return nil, common.ErrorUnauthenticated
	}

	users, err := s.repomanager.Users(s.db).List(ctx, callerID)
	if err != nil {
		return nil, err
	}

	reqs, err := s.repomanager.Friends(s.db).ListInvolving(ctx, callerID)
	if err != nil {
		return nil, err
	}
	related := make(map[string]bool, len(reqs))
	for _, r := range reqs {
		related[counterpart(r, callerID)] = true
	}

	query = strings.ToLower(strings.TrimSpace(query))
	result := make([]*models.User, 0, len(users))
	for _, u := range users {
		if related[u.UserID] {
			continue
		}
		if query != "" &&
			!strings.Contains(strings.ToLower(u.Name), query) &&
			!strings.Contains(strings.ToLower(u.Email), query) {
			continue
		}
		result = append(result, u)
	}
	return result, nil
}

// Add sends a friend request to the given user. A request to oneself, to an
// unknown user, or to a pair that already has a row in either direction is
// rejected.
func (s *FriendService) Add(ctx context.Context, callerID, friendID string) (*models.FriendRequest, error) {
	if callerID == "" {
		return nil, common.ErrorUnauthenticated
	}
	if friendID == "" || friendID == callerID {
		return nil, common.ErrorValidation
	}
	if _, err := s.repomanager.Users(s.db).GetByUserID(ctx, friendID); err != nil {
		return nil, err
	}

	return s.repomanager.Friends(s.db).Create(ctx, &models.FriendRequest{
		UserID:   callerID,
		FriendID: friendID,
		Status:   models.FriendStatusPending,
	})
}

// AddByEmail resolves the email to a member and sends a friend request. An
// unknown email falls through to an invitation suggestion via
// common.ErrorNotFound.
func (s *FriendService) AddByEmail(ctx context.Context, callerID, email string) (*models.FriendRequest, error) {
	if callerID == "" {
		return nil, common.ErrorUnauthenticated
	}
	email = strings.ToLower(strings.TrimSpace(email))
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, common.ErrorValidation
	}

	user, err := s.repomanager.Users(s.db).GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	return s.Add(ctx, callerID, user.UserID)
}

// Accept marks a pending request accepted. Only the recipient may accept.
func (s *FriendService) Accept(ctx context.Context, callerID, requestID string) error {
	return s.resolve(ctx, callerID, requestID, true)
}

// Reject removes a pending request. Only the recipient may reject.
func (s *FriendService) Reject(ctx context.Context, callerID, requestID string) error {
	return s.resolve(ctx, callerID, requestID, false)
}

func (s *FriendService) resolve(ctx context.Context, callerID, requestID string, accept bool) error {
	if callerID == "" {
		return common.ErrorUnauthenticated
	}

	repo := s.repomanager.Friends(s.db)
	reqs, err := repo.ListInvolving(ctx, callerID)
	if err != nil {
		return err
	}
	var req *models.FriendRequest
	for _, r := range reqs {
		if r.ID == requestID {
			req = r
			break
		}
	}
	if req == nil {
		return common.ErrorNotFound
	}
	if req.FriendID != callerID {
		return common.ErrorForbidden
	}
	if req.Status != models.FriendStatusPending {
		return common.ErrorValidation
	}

	if accept {
		return repo.UpdateStatus(ctx, requestID, models.FriendStatusAccepted)
	}
	return repo.Delete(ctx, requestID)
}

// Remove deletes an existing relationship from either side.
func (s *FriendService) Remove(ctx context.Context, callerID, requestID string) error {
	if callerID == "" {
		return common.ErrorUnauthenticated
	}

	repo := s.repomanager.Friends(s.db)
	reqs, err := repo.ListInvolving(ctx, callerID)
	if err != nil {
		return err
	}
	for _, r := range reqs {
		if r.ID == requestID {
			return repo.Delete(ctx, requestID)
		}
	}
	return common.ErrorNotFound
}

// Invite records an invitation for an email that is not yet a member. An
// email already belonging to a member is rejected so the caller can send a
// friend request instead.
func (s *FriendService) Invite(ctx context.Context, callerID, email string) (*models.Invitation, error) {
	if callerID == "" {
		return nil, common.ErrorUnauthenticated
	}
	email = strings.ToLower(strings.TrimSpace(email))
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, common.ErrorValidation
	}

	_, err := s.repomanager.Users(s.db).GetByEmail(ctx, email)
	if err == nil {
		return nil, common.ErrorAlreadyExists
	}
	if !errors.Is(err, common.ErrorNotFound) {
		return nil, err
	}

	return s.repomanager.Invitations(s.db).Create(ctx, &models.Invitation{
		InviterID:    callerID,
		InviteeEmail: email,
		Status:       "pending",
	})
}

// ListInvitations returns the invitations the caller has sent.
func (s *FriendService) ListInvitations(ctx context.Context, callerID string) ([]*models.Invitation, error) {
	if callerID == "" {
		return nil, common.ErrorUnauthenticated
	}
	return s.repomanager.Invitations(s.db).ListByInviter(ctx, callerID)
}

func counterpart(r *models.FriendRequest, viewerID string) string {
	if r.UserID == viewerID {
		return r.FriendID
	}
	return r.UserID
}
