package services

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/dmitrijs2005/goalkeeper/internal/common"
	"github.com/dmitrijs2005/goalkeeper/internal/dbx"
	"github.com/dmitrijs2005/goalkeeper/internal/logging"
	"github.com/dmitrijs2005/goalkeeper/internal/server/models"
	"github.com/dmitrijs2005/goalkeeper/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/goalkeeper/internal/server/summary"
)

// VerifyDecision is the verifier's verdict on a pending goal.
type VerifyDecision string

const (
	VerifyPassed VerifyDecision = "passed"
	VerifyFailed VerifyDecision = "failed"
)

// verifiedScoreMultiplier rewards verified achievement more than
// self-reported completion.
const verifiedScoreMultiplier = 2

// CreateGoalInput carries the caller-supplied fields of a new goal.
type CreateGoalInput struct {
	Title       string
	Content     string
	Budget      int64
	Deadline    *time.Time
	VerifierID  *string
	WithSummary bool
}

// GoalService implements the goal lifecycle state machine. It is the only
// component that moves budget, and every transition that touches both a goal
// row and the owner's ledger runs inside a single transaction, so the
// conservation invariant (free balance + stake reserved in active goals is
// constant outside explicit top-ups and forfeitures) holds even when the
// process dies mid-operation.
type GoalService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	publisher   summary.Publisher
	logger      logging.Logger
}

// NewGoalService constructs a GoalService. publisher may be nil when the
// summary collaborator is disabled.
func NewGoalService(db *sql.DB, m repomanager.RepositoryManager, p summary.Publisher, l logging.Logger) *GoalService {
	return &GoalService{
		db:          db,
		repomanager: m,
		publisher:   p,
		logger:      l.With("module", "goal_service"),
	}
}

// List returns all goals owned by the caller.
func (s *GoalService) List(ctx context.Context, callerID string) ([]*models.Goal, error) {
	if callerID == "" {
		return nil, common.ErrorUnauthenticated
	}
	return s.repomanager.Goals(s.db).ListByOwner(ctx, callerID)
}

// Get returns one goal. Only the owner and the assigned verifier may see it.
func (s *GoalService) Get(ctx context.Context, callerID, goalID string) (*models.Goal, error) {
	if callerID == "" {
		return nil, common.ErrorUnauthenticated
	}
	goal, err := s.repomanager.Goals(s.db).Get(ctx, goalID)
	if err != nil {
		return nil, err
	}
	if goal.UserID != callerID && (goal.VerifierID == nil || *goal.VerifierID != callerID) {
		return nil, common.ErrorForbidden
	}
	return goal, nil
}

// Create reserves the stake from the owner's free balance and inserts the
// goal in one transaction. When the stake exceeds the balance the call fails
// with ErrorInsufficientBudget and writes nothing. A requested summary is
// handed to the collaborator after commit; its failure never rolls the goal
// back.
func (s *GoalService) Create(ctx context.Context, callerID string, in CreateGoalInput) (*models.Goal, error) {
	if callerID == "" {
		return nil, common.ErrorUnauthenticated
	}
	if strings.TrimSpace(in.Title) == "" || in.Budget < 0 {
		return nil, common.ErrorValidation
	}
	if in.VerifierID != nil {
		if err := s.checkVerifier(ctx, callerID, *in.VerifierID); err != nil {
			return nil, err
		}
	}

	goal := &models.Goal{
		UserID:     callerID,
		Title:      strings.TrimSpace(in.Title),
		Content:    in.Content,
		Deadline:   in.Deadline,
		VerifierID: in.VerifierID,
		Status:     models.GoalStatusUnfinished,
		Budget:     in.Budget,
	}

	if err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if goal.Budget > 0 {
			if err := s.repomanager.Users(tx).Debit(ctx, callerID, goal.Budget); err != nil {
				return err
			}
		}
		_, err := s.repomanager.Goals(tx).Create(ctx, goal)
		return err
	}); err != nil {
		return nil, err
	}

	if in.WithSummary {
		s.requestSummary(ctx, goal)
	}

	return goal, nil
}

// requestSummary hands the goal to the collaborator. A full or missing queue
// is recorded on the goal as an error text, matching how collaborator
// failures surface.
func (s *GoalService) requestSummary(ctx context.Context, goal *models.Goal) {
	var err error
	if s.publisher == nil {
		err = errors.New("summary collaborator is not configured")
	} else {
		err = s.publisher.Publish(summary.Request{
			GoalID:  goal.ID,
			Title:   goal.Title,
			Content: goal.Content,
		})
	}
	if err == nil {
		return
	}

	s.logger.Warn(ctx, "summary request dropped", "goal_id", goal.ID, "error", err.Error())
	text := summary.FailureText(err)
	if saveErr := s.repomanager.Goals(s.db).UpdateSummary(ctx, goal.ID, text); saveErr != nil {
		s.logger.Error(ctx, "saving summary failure text failed", "goal_id", goal.ID, "error", saveErr.Error())
	}
}

// Update patches a goal. A budget change is applied as a delta against the
// owner's free balance read within the same transaction: an increase debits
// (failing with ErrorInsufficientBudget when short), a decrease refunds.
// Terminal goals hold no stake and reject budget changes.
func (s *GoalService) Update(ctx context.Context, callerID, goalID string, patch models.GoalPatch) (*models.Goal, error) {
	if callerID == "" {
		return nil, common.ErrorUnauthenticated
	}

	var updated *models.Goal
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		goal, err := s.repomanager.Goals(tx).GetForUpdate(ctx, goalID)
		if err != nil {
			return err
		}
		if goal.UserID != callerID {
			return common.ErrorForbidden
		}

		if patch.Title != nil {
			title := strings.TrimSpace(*patch.Title)
			if title == "" {
				return common.ErrorValidation
			}
			goal.Title = title
		}
		if patch.ClearDeadline {
			goal.Deadline = nil
		} else if patch.Deadline != nil {
			goal.Deadline = patch.Deadline
		}
		if patch.ClearVerifier {
			goal.VerifierID = nil
		} else if patch.VerifierID != nil {
			if err := s.checkVerifier(ctx, callerID, *patch.VerifierID); err != nil {
				return err
			}
			goal.VerifierID = patch.VerifierID
		}

		if patch.Budget != nil {
			newBudget := *patch.Budget
			if newBudget < 0 {
				return common.ErrorValidation
			}
			if goal.Status.Terminal() && newBudget != goal.Budget {
				return common.ErrorValidation
			}
			delta := newBudget - goal.Budget
			if delta > 0 {
				if err := s.repomanager.Users(tx).Debit(ctx, callerID, delta); err != nil {
					return err
				}
			} else if delta < 0 {
				if err := s.repomanager.Users(tx).Credit(ctx, callerID, -delta, 0); err != nil {
					return err
				}
			}
			goal.Budget = newBudget
		}

		if err := s.repomanager.Goals(tx).Update(ctx, goal); err != nil {
			return err
		}
		updated = goal
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete refunds the reserved stake of a non-terminal goal to the owner's
// free balance and removes the row, atomically. Terminal goals hold no
// stake, so deleting them moves no money.
func (s *GoalService) Delete(ctx context.Context, callerID, goalID string) error {
	if callerID == "" {
		return common.ErrorUnauthenticated
	}

	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		goal, err := s.repomanager.Goals(tx).GetForUpdate(ctx, goalID)
		if err != nil {
			return err
		}
		if goal.UserID != callerID {
			return common.ErrorForbidden
		}

		if !goal.Status.Terminal() && goal.Budget > 0 {
			if err := s.repomanager.Users(tx).Credit(ctx, callerID, goal.Budget, 0); err != nil {
				return err
			}
		}
		return s.repomanager.Goals(tx).Delete(ctx, goalID)
	})
}

// Complete is the owner's achievement report. With no verifier the goal goes
// straight to completed and the owner is credited stake back plus the same
// amount of score. With a verifier the goal parks in pending and the reward
// waits for the verifier's decision.
func (s *GoalService) Complete(ctx context.Context, callerID, goalID string) error {
	if callerID == "" {
		return common.ErrorUnauthenticated
	}

	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		goal, err := s.repomanager.Goals(tx).GetForUpdate(ctx, goalID)
		if err != nil {
			return err
		}
		if goal.UserID != callerID {
			return common.ErrorForbidden
		}
		if goal.Status != models.GoalStatusUnfinished {
			return common.ErrorValidation
		}

		if goal.VerifierID != nil {
			return s.repomanager.Goals(tx).UpdateStatus(ctx, goalID, models.GoalStatusPending)
		}

		if err := s.repomanager.Goals(tx).UpdateStatus(ctx, goalID, models.GoalStatusCompleted); err != nil {
			return err
		}
		return s.repomanager.Users(tx).Credit(ctx, callerID, goal.Budget, goal.Budget)
	})
}

// SetNotAchieved is the owner's self-reported failure. The goal becomes
// terminal failed and the reserved stake is forfeited.
func (s *GoalService) SetNotAchieved(ctx context.Context, callerID, goalID string) error {
	if callerID == "" {
		return common.ErrorUnauthenticated
	}

	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		goal, err := s.repomanager.Goals(tx).GetForUpdate(ctx, goalID)
		if err != nil {
			return err
		}
		if goal.UserID != callerID {
			return common.ErrorForbidden
		}
		if goal.Status.Terminal() {
			return common.ErrorValidation
		}
		return s.repomanager.Goals(tx).UpdateStatus(ctx, goalID, models.GoalStatusFailed)
	})
}

// ListToVerify returns the goals waiting for the caller's verdict.
func (s *GoalService) ListToVerify(ctx context.Context, callerID string) ([]*models.Goal, error) {
	if callerID == "" {
		return nil, common.ErrorUnauthenticated
	}
	return s.repomanager.Goals(s.db).ListByVerifier(ctx, callerID, models.GoalStatusPending)
}

// Verify applies the verifier's decision to a pending goal. Passed completes
// the goal and credits the owner stake back plus double score; failed
// forfeits the stake with no credit.
func (s *GoalService) Verify(ctx context.Context, callerID, goalID string, decision VerifyDecision) error {
	if callerID == "" {
		return common.ErrorUnauthenticated
	}
	if decision != VerifyPassed && decision != VerifyFailed {
		return common.ErrorValidation
	}

	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		goal, err := s.repomanager.Goals(tx).GetForUpdate(ctx, goalID)
		if err != nil {
			return err
		}
		if goal.VerifierID == nil || *goal.VerifierID != callerID {
			return common.ErrorForbidden
		}
		if goal.Status != models.GoalStatusPending {
			return common.ErrorValidation
		}

		if decision == VerifyFailed {
			return s.repomanager.Goals(tx).UpdateStatus(ctx, goalID, models.GoalStatusFailed)
		}

		if err := s.repomanager.Goals(tx).UpdateStatus(ctx, goalID, models.GoalStatusCompleted); err != nil {
			return err
		}
		return s.repomanager.Users(tx).Credit(ctx, goal.UserID, goal.Budget, goal.Budget*verifiedScoreMultiplier)
	})
}

// ListFriendGoals returns a friend's goals, visible only once the friendship
// is accepted (in either direction). Anything short of an accepted pair is
// reported as not found so the endpoint does not leak who is friends with
// whom.
func (s *GoalService) ListFriendGoals(ctx context.Context, callerID, friendID string) ([]*models.Goal, error) {
	if callerID == "" {
		return nil, common.ErrorUnauthenticated
	}

	req, err := s.repomanager.Friends(s.db).GetByPair(ctx, callerID, friendID)
	if err != nil {
		return nil, err
	}
	if req.Status != models.FriendStatusAccepted {
		return nil, common.ErrorNotFound
	}

	return s.repomanager.Goals(s.db).ListByOwner(ctx, friendID)
}

// checkVerifier validates a verifier assignment: a real, distinct user.
func (s *GoalService) checkVerifier(ctx context.Context, ownerID, verifierID string) error {
	if verifierID == "" || verifierID == ownerID {
		return common.ErrorValidation
	}
	if _, err := s.repomanager.Users(s.db).GetByUserID(ctx, verifierID); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorValidation
		}
		return err
	}
	return nil
}
