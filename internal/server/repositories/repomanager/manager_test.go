package repomanager

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/pressly/goose/v3"
)

func TestNewPostgresRepositoryManager(t *testing.T) {
	m, err := NewPostgresRepositoryManager()
	if err != nil {
		t.Fatalf("NewPostgresRepositoryManager error: %v", err)
	}

	var db *sql.DB
	if m.Users(db) == nil {
		t.Error("Users returned nil")
	}
	if m.Goals(db) == nil {
		t.Error("Goals returned nil")
	}
	if m.Friends(db) == nil {
		t.Error("Friends returned nil")
	}
	if m.Invitations(db) == nil {
		t.Error("Invitations returned nil")
	}
	if m.RefreshTokens(db) == nil {
		t.Error("RefreshTokens returned nil")
	}
}

func TestRunMigrations(t *testing.T) {
	orig := gooseUpContext
	defer func() { gooseUpContext = orig }()

	var called bool
	gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		called = true
		if dir != "." {
			t.Errorf("unexpected migrations dir %q", dir)
		}
		return nil
	}

	m := &PostgresRepositoryManager{}
	if err := m.RunMigrations(context.Background(), nil); err != nil {
		t.Fatalf("RunMigrations error: %v", err)
	}
	if !called {
		t.Error("goose up was not invoked")
	}
}

func TestRunMigrations_Error(t *testing.T) {
	orig := gooseUpContext
	defer func() { gooseUpContext = orig }()

	boom := errors.New("migration failed")
	gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		return boom
	}

	m := &PostgresRepositoryManager{}
	if err := m.RunMigrations(context.Background(), nil); !errors.Is(err, boom) {
		t.Fatalf("want migration error, got %v", err)
	}
}
