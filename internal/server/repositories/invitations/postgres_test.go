package invitations

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/goalkeeper/internal/server/models"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

func TestCreate(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^\s*INSERT\s+INTO\s+invitations\s*\(inviter_id,\s*invitee_email,\s*status\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3\)\s*RETURNING\s+id,\s*created_at\s*$`

	rows := sqlmock.NewRows([]string{"id", "created_at"}).AddRow("i1", time.Now())
	mock.ExpectQuery(q).
		WithArgs("u1", "new@example.com", "pending").
		WillReturnRows(rows)

	inv := &models.Invitation{InviterID: "u1", InviteeEmail: "new@example.com", Status: "pending"}
	got, err := repo.Create(context.Background(), inv)
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if got.ID != "i1" {
		t.Fatalf("unexpected invitation: %+v", got)
	}
}

func TestCreate_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`INSERT\s+INTO\s+invitations`).
		WillReturnError(errors.New("db down"))

	_, err := repo.Create(context.Background(), &models.Invitation{InviterID: "u1"})
	if err == nil || !regexp.MustCompile(`db error: .*db down`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}

func TestListByInviter(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"id", "inviter_id", "invitee_email", "status", "created_at"}).
		AddRow("i1", "u1", "a@example.com", "pending", time.Now()).
		AddRow("i2", "u1", "b@example.com", "pending", time.Now())

	mock.ExpectQuery(`(?s)SELECT\s+.*\s+FROM\s+invitations\s+WHERE\s+inviter_id\s*=\s*\$1\s+ORDER\s+BY\s+created_at`).
		WithArgs("u1").
		WillReturnRows(rows)

	got, err := repo.ListByInviter(context.Background(), "u1")
	if err != nil {
		t.Fatalf("ListByInviter error: %v", err)
	}
	if len(got) != 2 || got[0].InviteeEmail != "a@example.com" {
		t.Fatalf("unexpected invitations: %+v", got)
	}
}
