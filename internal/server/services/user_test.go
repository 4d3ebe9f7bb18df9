package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dmitrijs2005/goalkeeper/internal/common"
	"github.com/dmitrijs2005/goalkeeper/internal/server/config"
	"github.com/dmitrijs2005/goalkeeper/internal/server/models"
)

func newTestConfig() *config.Config {
	return &config.Config{
		SecretKey:                    "k",
		AccessTokenValidityDuration:  time.Hour,
		RefreshTokenValidityDuration: 2 * time.Hour,
		InitialBudget:                100,
		BudgetTopUpAmount:            10,
		BudgetTopUpThreshold:         100,
	}
}

func TestUserCreateOrUpdate_Idempotent(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	rm := newFakeRepoManager()
	s := NewUserService(db, rm, newTestConfig())

	id, err := s.CreateOrUpdate(context.Background(), "u1", "Alice", "Alice@Example.com")
	if err != nil || id != "u1" {
		t.Fatalf("first upsert: id=%q err=%v", id, err)
	}
	u := rm.u.users["u1"]
	if u.Budget != 100 || u.Email != "alice@example.com" {
		t.Fatalf("new user: %+v", u)
	}

	// the second call updates the profile and must not touch balances
	u.Budget = 40
	u.Score = 7
	id, err = s.CreateOrUpdate(context.Background(), "u1", "Alice B", "aliceb@example.com")
	if err != nil || id != "u1" {
		t.Fatalf("second upsert: id=%q err=%v", id, err)
	}
	u = rm.u.users["u1"]
	if u.Name != "Alice B" || u.Email != "aliceb@example.com" {
		t.Fatalf("profile not updated: %+v", u)
	}
	if u.Budget != 40 || u.Score != 7 {
		t.Fatalf("balances must survive the upsert: %+v", u)
	}
}

func TestUserCreateOrUpdate_Validation(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	s := NewUserService(db, newFakeRepoManager(), newTestConfig())

	if _, err := s.CreateOrUpdate(context.Background(), "", "Alice", "a@b.c"); !errors.Is(err, common.ErrorUnauthenticated) {
		t.Fatalf("empty identity: want ErrorUnauthenticated, got %v", err)
	}
	if _, err := s.CreateOrUpdate(context.Background(), "u1", "", "a@b.c"); !errors.Is(err, common.ErrorValidation) {
		t.Fatalf("empty name: want ErrorValidation, got %v", err)
	}
	if _, err := s.CreateOrUpdate(context.Background(), "u1", "Alice", "nope"); !errors.Is(err, common.ErrorValidation) {
		t.Fatalf("bad email: want ErrorValidation, got %v", err)
	}
}

func TestUserAddBudget_BelowThreshold(t *testing.T) {
	db, mock := newSQLMockDB(t)
	defer db.Close()
	mock.ExpectBegin()
	mock.ExpectCommit()

	rm := newFakeRepoManager()
	rm.u = newFakeUsersRepo(&models.User{UserID: "u1", Budget: 20})
	rm.g = newFakeGoalsRepo(&models.Goal{ID: "g1", UserID: "u1", Status: models.GoalStatusUnfinished, Budget: 30})
	s := NewUserService(db, rm, newTestConfig())

	if err := s.AddBudget(context.Background(), "u1"); err != nil {
		t.Fatalf("AddBudget error: %v", err)
	}
	if got := rm.u.users["u1"].Budget; got != 30 {
		t.Fatalf("budget after top-up: want 30, got %d", got)
	}
}

func TestUserAddBudget_ReservedStakeCountsTowardLimit(t *testing.T) {
	db, mock := newSQLMockDB(t)
	defer db.Close()
	mock.ExpectBegin()
	mock.ExpectRollback()

	rm := newFakeRepoManager()
	// free balance 20 but 80 reserved in active goals: holdings at the limit
	rm.u = newFakeUsersRepo(&models.User{UserID: "u1", Budget: 20})
	rm.g = newFakeGoalsRepo(
		&models.Goal{ID: "g1", UserID: "u1", Status: models.GoalStatusUnfinished, Budget: 50},
		&models.Goal{ID: "g2", UserID: "u1", Status: models.GoalStatusPending, Budget: 30},
		&models.Goal{ID: "g3", UserID: "u1", Status: models.GoalStatusFailed, Budget: 500},
	)
	s := NewUserService(db, rm, newTestConfig())

	if err := s.AddBudget(context.Background(), "u1"); !errors.Is(err, common.ErrorBudgetLimitReached) {
		t.Fatalf("want ErrorBudgetLimitReached, got %v", err)
	}
	if got := rm.u.users["u1"].Budget; got != 20 {
		t.Fatalf("budget must be unchanged: %d", got)
	}
}

func TestUserGetMany(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	rm := newFakeRepoManager()
	rm.u = newFakeUsersRepo(&models.User{UserID: "u1"}, &models.User{UserID: "u2"})
	s := NewUserService(db, rm, newTestConfig())

	got, err := s.GetMany(context.Background(), []string{"u1", "ghost", "u2"})
	if err != nil {
		t.Fatalf("GetMany error: %v", err)
	}
	if len(got) != 2 || got["u1"] == nil || got["u2"] == nil {
		t.Fatalf("result: %+v", got)
	}
	if _, ok := got["ghost"]; ok {
		t.Fatal("unknown id must be absent, not nil-valued")
	}
}
