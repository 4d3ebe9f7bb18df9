package services

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/dmitrijs2005/goalkeeper/internal/common"
	"github.com/dmitrijs2005/goalkeeper/internal/dbx"
	"github.com/dmitrijs2005/goalkeeper/internal/server/config"
	"github.com/dmitrijs2005/goalkeeper/internal/server/models"
	"github.com/dmitrijs2005/goalkeeper/internal/server/repositories/repomanager"
)

// UserService owns the user ledger: profile upserts, lookups, and the
// budget top-up. It never moves money between two distinct users; all stake
// movement happens between a user's free balance and their own goals, and is
// driven by GoalService.
type UserService struct {
	db                   *sql.DB
	repomanager          repomanager.RepositoryManager
	initialBudget        int64
	budgetTopUpAmount    int64
	budgetTopUpThreshold int64
}

// NewUserService constructs a UserService using repositories and server config.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *UserService {
	return &UserService{
		db:                   db,
		repomanager:          m,
		initialBudget:        cfg.InitialBudget,
		budgetTopUpAmount:    cfg.BudgetTopUpAmount,
		budgetTopUpThreshold: cfg.BudgetTopUpThreshold,
	}
}

// Get returns the ledger row for the given principal identity.
func (s *UserService) Get(ctx context.Context, userID string) (*models.User, error) {
	if userID == "" {
		return nil, common.ErrorUnauthenticated
	}
	return s.repomanager.Users(s.db).GetByUserID(ctx, userID)
}

// GetMany resolves a set of identities to their users. Unknown ids are
// absent from the result map.
func (s *UserService) GetMany(ctx context.Context, userIDs []string) (map[string]*models.User, error) {
	found, err := s.repomanager.Users(s.db).GetMany(ctx, userIDs)
	if err != nil {
		return nil, err
	}
	result := make(map[string]*models.User, len(found))
	for _, u := range found {
		result[u.UserID] = u
	}
	return result, nil
}

// CreateOrUpdate is an idempotent profile upsert keyed by the caller's
// identity. An existing user keeps budget and score untouched; a new row is
// granted the configured initial budget. Returns the user's identity.
func (s *UserService) CreateOrUpdate(ctx context.Context, userID, name, email string) (string, error) {
	if userID == "" {
		return "", common.ErrorUnauthenticated
	}
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))
	if name == "" || !strings.Contains(email, "@") {
		return "", common.ErrorValidation
	}

	repo := s.repomanager.Users(s.db)

	_, err := repo.GetByUserID(ctx, userID)
	switch {
	case err == nil:
		if err := repo.UpdateProfile(ctx, userID, name, email); err != nil {
			return "", err
		}
		return userID, nil
	case errors.Is(err, common.ErrorNotFound):
		_, err := repo.Create(ctx, &models.User{
			UserID: userID,
			Name:   name,
			Email:  email,
			Budget: s.initialBudget,
		})
		if err != nil {
			return "", err
		}
		return userID, nil
	default:
		return "", err
	}
}

// AddBudget credits the configured top-up amount to the caller's free
// balance. The top-up is refused while the user's total holdings (free
// balance plus stake reserved in active goals) have not dropped below the
// configured threshold, so a misbehaving client cannot mint currency.
func (s *UserService) AddBudget(ctx context.Context, userID string) error {
	if userID == "" {
		return common.ErrorUnauthenticated
	}

	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		user, err := s.repomanager.Users(tx).GetByUserID(ctx, userID)
		if err != nil {
			return err
		}

		reserved, err := s.repomanager.Goals(tx).SumReserved(ctx, userID)
		if err != nil {
			return err
		}

		if user.Budget+reserved >= s.budgetTopUpThreshold {
			return common.ErrorBudgetLimitReached
		}

		return s.repomanager.Users(tx).Credit(ctx, userID, s.budgetTopUpAmount, 0)
	})
}
