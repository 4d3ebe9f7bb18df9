package services

import (
	"context"
	"errors"
	"testing"

	"github.com/dmitrijs2005/goalkeeper/internal/common"
	"github.com/dmitrijs2005/goalkeeper/internal/server/models"
)

func TestFriendAdd_Flows(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	rm := newFakeRepoManager()
	rm.u = newFakeUsersRepo(
		&models.User{UserID: "u1", Name: "Alice", Email: "alice@example.com"},
		&models.User{UserID: "u2", Name: "Bob", Email: "bob@example.com"},
	)
	s := NewFriendService(db, rm, testLogger())

	req, err := s.Add(context.Background(), "u1", "u2")
	if err != nil {
		t.Fatalf("Add error: %v", err)
	}
	if req.Status != models.FriendStatusPending || req.UserID != "u1" || req.FriendID != "u2" {
		t.Fatalf("request: %+v", req)
	}

	// a second request for the same pair is rejected in either direction
	if _, err := s.Add(context.Background(), "u1", "u2"); !errors.Is(err, common.ErrorAlreadyExists) {
		t.Fatalf("duplicate: want ErrorAlreadyExists, got %v", err)
	}
	if _, err := s.Add(context.Background(), "u2", "u1"); !errors.Is(err, common.ErrorAlreadyExists) {
		t.Fatalf("reverse duplicate: want ErrorAlreadyExists, got %v", err)
	}

	if _, err := s.Add(context.Background(), "u1", "u1"); !errors.Is(err, common.ErrorValidation) {
		t.Fatalf("self request: want ErrorValidation, got %v", err)
	}
	if _, err := s.Add(context.Background(), "u1", "ghost"); !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("unknown user: want ErrorNotFound, got %v", err)
	}
}

func TestFriendAddByEmail(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	rm := newFakeRepoManager()
	rm.u = newFakeUsersRepo(
		&models.User{UserID: "u1", Email: "alice@example.com"},
		&models.User{UserID: "u2", Email: "bob@example.com"},
	)
	s := NewFriendService(db, rm, testLogger())

	req, err := s.AddByEmail(context.Background(), "u1", " Bob@Example.com ")
	if err != nil {
		t.Fatalf("AddByEmail error: %v", err)
	}
	if req.FriendID != "u2" {
		t.Fatalf("request: %+v", req)
	}

	if _, err := s.AddByEmail(context.Background(), "u1", "not-an-email"); !errors.Is(err, common.ErrorValidation) {
		t.Fatalf("bad email: want ErrorValidation, got %v", err)
	}
	if _, err := s.AddByEmail(context.Background(), "u1", "ghost@example.com"); !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("unknown email: want ErrorNotFound, got %v", err)
	}
}

func TestFriendAcceptReject(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	rm := newFakeRepoManager()
	rm.f = newFakeFriendsRepo(
		&models.FriendRequest{ID: "f1", UserID: "u1", FriendID: "u2", Status: models.FriendStatusPending},
		&models.FriendRequest{ID: "f2", UserID: "u3", FriendID: "u2", Status: models.FriendStatusPending},
	)
	s := NewFriendService(db, rm, testLogger())

	// only the recipient may resolve
	if err := s.Accept(context.Background(), "u1", "f1"); !errors.Is(err, common.ErrorForbidden) {
		t.Fatalf("sender accept: want ErrorForbidden, got %v", err)
	}
	if err := s.Accept(context.Background(), "u2", "f1"); err != nil {
		t.Fatalf("Accept error: %v", err)
	}
	if rm.f.reqs["f1"].Status != models.FriendStatusAccepted {
		t.Fatalf("status: %s", rm.f.reqs["f1"].Status)
	}

	// accepting twice is invalid
	if err := s.Accept(context.Background(), "u2", "f1"); !errors.Is(err, common.ErrorValidation) {
		t.Fatalf("re-accept: want ErrorValidation, got %v", err)
	}

	if err := s.Reject(context.Background(), "u2", "f2"); err != nil {
		t.Fatalf("Reject error: %v", err)
	}
	if _, ok := rm.f.reqs["f2"]; ok {
		t.Fatal("rejected request must be gone")
	}

	if err := s.Accept(context.Background(), "u2", "nope"); !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("missing request: want ErrorNotFound, got %v", err)
	}
}

func TestFriendList_EmailOnlyWhenAccepted(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	rm := newFakeRepoManager()
	rm.u = newFakeUsersRepo(
		&models.User{UserID: "u1", Name: "Alice", Email: "alice@example.com"},
		&models.User{UserID: "u2", Name: "Bob", Email: "bob@example.com"},
		&models.User{UserID: "u3", Name: "Cara", Email: "cara@example.com"},
	)
	rm.f = newFakeFriendsRepo(
		&models.FriendRequest{ID: "f1", UserID: "u1", FriendID: "u2", Status: models.FriendStatusAccepted},
		&models.FriendRequest{ID: "f2", UserID: "u3", FriendID: "u1", Status: models.FriendStatusPending},
	)
	s := NewFriendService(db, rm, testLogger())

	list, err := s.List(context.Background(), "u1")
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("len=%d", len(list))
	}

	byID := map[string]*models.Friend{}
	for _, f := range list {
		byID[f.ID] = f
	}

	accepted := byID["f1"]
	if accepted.FriendID != "u2" || accepted.FriendName != "Bob" || !accepted.IsSender {
		t.Fatalf("accepted entry: %+v", accepted)
	}
	if accepted.FriendEmail == nil || *accepted.FriendEmail != "bob@example.com" {
		t.Fatalf("accepted email must be revealed: %+v", accepted.FriendEmail)
	}

	pending := byID["f2"]
	if pending.FriendID != "u3" || pending.IsSender {
		t.Fatalf("pending entry: %+v", pending)
	}
	if pending.FriendEmail != nil {
		t.Fatalf("pending email must be hidden: %q", *pending.FriendEmail)
	}
}

func TestFriendSearch_ExcludesCaller(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	rm := newFakeRepoManager()
	rm.u = newFakeUsersRepo(
		&models.User{UserID: "u1", Name: "Alice", Email: "alice@example.com"},
		&models.User{UserID: "u2", Name: "Bob", Email: "bob@example.com"},
		&models.User{UserID: "u3", Name: "Bonnie", Email: "bonnie@example.com"},
	)
	s := NewFriendService(db, rm, testLogger())

	users, err := s.Search(context.Background(), "u1", "")
	if err != nil {
		t.Fatalf("Search error: %v", err)
	}
	if len(users) != 2 {
		t.Fatalf("users: %+v", users)
	}
	for _, u := range users {
		if u.UserID == "u1" {
			t.Fatal("caller must be excluded")
		}
	}

	users, err = s.Search(context.Background(), "u1", "bob")
	if err != nil || len(users) != 1 || users[0].UserID != "u2" {
		t.Fatalf("filtered search: %v, %+v", err, users)
	}
}

func TestFriendSearch_ExcludesExistingRelationships(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	rm := newFakeRepoManager()
	rm.u = newFakeUsersRepo(
		&models.User{UserID: "u1", Name: "Alice", Email: "alice@example.com"},
		&models.User{UserID: "u2", Name: "Bob", Email: "bob@example.com"},
		&models.User{UserID: "u3", Name: "Bonnie", Email: "bonnie@example.com"},
		&models.User{UserID: "u4", Name: "Carol", Email: "carol@example.com"},
	)
	// u2 is already accepted, u3 has a pending request sent to the caller;
	// only u4 is still addable.
	rm.f = newFakeFriendsRepo(
		&models.FriendRequest{ID: "f1", UserID: "u1", FriendID: "u2", Status: models.FriendStatusAccepted},
		&models.FriendRequest{ID: "f2", UserID: "u3", FriendID: "u1", Status: models.FriendStatusPending},
	)
	s := NewFriendService(db, rm, testLogger())

	users, err := s.Search(context.Background(), "u1", "")
	if err != nil {
		t.Fatalf("Search error: %v", err)
	}
	if len(users) != 1 || users[0].UserID != "u4" {
		t.Fatalf("users: %+v", users)
	}

	// the query filter applies on top of the exclusion
	users, err = s.Search(context.Background(), "u1", "bo")
	if err != nil {
		t.Fatalf("Search error: %v", err)
	}
	if len(users) != 0 {
		t.Fatalf("related users must stay excluded: %+v", users)
	}
}

func TestFriendInvite(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	rm := newFakeRepoManager()
	rm.u = newFakeUsersRepo(&models.User{UserID: "u1", Email: "alice@example.com"})
	s := NewFriendService(db, rm, testLogger())

	inv, err := s.Invite(context.Background(), "u1", "new@example.com")
	if err != nil {
		t.Fatalf("Invite error: %v", err)
	}
	if inv.InviteeEmail != "new@example.com" || inv.InviterID != "u1" {
		t.Fatalf("invitation: %+v", inv)
	}

	// a member email should go through Add instead
	if _, err := s.Invite(context.Background(), "u1", "alice@example.com"); !errors.Is(err, common.ErrorAlreadyExists) {
		t.Fatalf("member email: want ErrorAlreadyExists, got %v", err)
	}
	if _, err := s.Invite(context.Background(), "u1", "nope"); !errors.Is(err, common.ErrorValidation) {
		t.Fatalf("bad email: want ErrorValidation, got %v", err)
	}

	got, err := s.ListInvitations(context.Background(), "u1")
	if err != nil || len(got) != 1 {
		t.Fatalf("ListInvitations: %v, %+v", err, got)
	}
}

func TestFriendRemove(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	rm := newFakeRepoManager()
	rm.f = newFakeFriendsRepo(&models.FriendRequest{ID: "f1", UserID: "u1", FriendID: "u2", Status: models.FriendStatusAccepted})
	s := NewFriendService(db, rm, testLogger())

	if err := s.Remove(context.Background(), "u3", "f1"); !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("outsider remove: want ErrorNotFound, got %v", err)
	}
	if err := s.Remove(context.Background(), "u2", "f1"); err != nil {
		t.Fatalf("Remove error: %v", err)
	}
	if len(rm.f.reqs) != 0 {
		t.Fatalf("requests left: %d", len(rm.f.reqs))
	}
}
