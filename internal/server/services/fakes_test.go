package services

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/goalkeeper/internal/common"
	"github.com/dmitrijs2005/goalkeeper/internal/dbx"
	"github.com/dmitrijs2005/goalkeeper/internal/server/models"
	friendsrepo "github.com/dmitrijs2005/goalkeeper/internal/server/repositories/friends"
	goalsrepo "github.com/dmitrijs2005/goalkeeper/internal/server/repositories/goals"
	invitationsrepo "github.com/dmitrijs2005/goalkeeper/internal/server/repositories/invitations"
	refreshtokensrepo "github.com/dmitrijs2005/goalkeeper/internal/server/repositories/refreshtokens"
	usersrepo "github.com/dmitrijs2005/goalkeeper/internal/server/repositories/users"
)

// --- helpers ---

type errBoom struct{}

func (errBoom) Error() string { return "boom" }

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return db, mock
}

// --- in-memory repositories ---
//
// The fakes are stateful so money-moving tests can check the conservation
// invariant on real balances instead of asserting call sequences.

type fakeUsersRepo struct {
	users map[string]*models.User

	createErr error
	getErr    error
	debitErr  error
	creditErr error
}

func newFakeUsersRepo(users ...*models.User) *fakeUsersRepo {
	m := make(map[string]*models.User, len(users))
	for _, u := range users {
		m[u.UserID] = u
	}
	return &fakeUsersRepo{users: m}
}

func (f *fakeUsersRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	for _, existing := range f.users {
		if existing.Email == u.Email {
			return nil, common.ErrorAlreadyExists
		}
	}
	u.ID = fmt.Sprintf("row-%d", len(f.users)+1)
	f.users[u.UserID] = u
	return u, nil
}

func (f *fakeUsersRepo) GetByUserID(ctx context.Context, userID string) (*models.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	u, ok := f.users[userID]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return u, nil
}

func (f *fakeUsersRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeUsersRepo) GetMany(ctx context.Context, userIDs []string) ([]*models.User, error) {
	var result []*models.User
	for _, id := range userIDs {
		if u, ok := f.users[id]; ok {
			result = append(result, u)
		}
	}
	return result, nil
}

func (f *fakeUsersRepo) UpdateProfile(ctx context.Context, userID, name, email string) error {
	u, ok := f.users[userID]
	if !ok {
		return common.ErrorNotFound
	}
	u.Name = name
	u.Email = email
	return nil
}

func (f *fakeUsersRepo) List(ctx context.Context, excludeUserID string) ([]*models.User, error) {
	var result []*models.User
	for _, u := range f.users {
		if u.UserID != excludeUserID {
			result = append(result, u)
		}
	}
	return result, nil
}

func (f *fakeUsersRepo) Debit(ctx context.Context, userID string, amount int64) error {
	if f.debitErr != nil {
		return f.debitErr
	}
	u, ok := f.users[userID]
	if !ok {
		return common.ErrorNotFound
	}
	if u.Budget < amount {
		return common.ErrorInsufficientBudget
	}
	u.Budget -= amount
	return nil
}

func (f *fakeUsersRepo) Credit(ctx context.Context, userID string, budgetDelta, scoreDelta int64) error {
	if f.creditErr != nil {
		return f.creditErr
	}
	u, ok := f.users[userID]
	if !ok {
		return common.ErrorNotFound
	}
	u.Budget += budgetDelta
	u.Score += scoreDelta
	return nil
}

type fakeGoalsRepo struct {
	goals map[string]*models.Goal
	seq   int

	createErr error
	updateErr error

	// last summary text stored via UpdateSummary
	summaries map[string]string

	// number of reads taken through GetForUpdate
	lockedReads int
}

func newFakeGoalsRepo(goals ...*models.Goal) *fakeGoalsRepo {
	m := make(map[string]*models.Goal, len(goals))
	for _, g := range goals {
		m[g.ID] = g
	}
	return &fakeGoalsRepo{goals: m, seq: len(goals), summaries: map[string]string{}}
}

func (f *fakeGoalsRepo) Create(ctx context.Context, g *models.Goal) (*models.Goal, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.seq++
	g.ID = fmt.Sprintf("g%d", f.seq)
	g.CreatedAt = time.Now()
	f.goals[g.ID] = g
	return g, nil
}

func (f *fakeGoalsRepo) Get(ctx context.Context, id string) (*models.Goal, error) {
	g, ok := f.goals[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *g
	return &cp, nil
}

func (f *fakeGoalsRepo) GetForUpdate(ctx context.Context, id string) (*models.Goal, error) {
	f.lockedReads++
	return f.Get(ctx, id)
}

func (f *fakeGoalsRepo) ListByOwner(ctx context.Context, userID string) ([]*models.Goal, error) {
	var result []*models.Goal
	for _, g := range f.goals {
		if g.UserID == userID {
			result = append(result, g)
		}
	}
	return result, nil
}

func (f *fakeGoalsRepo) ListByVerifier(ctx context.Context, verifierID string, status models.GoalStatus) ([]*models.Goal, error) {
	var result []*models.Goal
	for _, g := range f.goals {
		if g.VerifierID != nil && *g.VerifierID == verifierID && g.Status == status {
			result = append(result, g)
		}
	}
	return result, nil
}

func (f *fakeGoalsRepo) Update(ctx context.Context, g *models.Goal) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	if _, ok := f.goals[g.ID]; !ok {
		return common.ErrorNotFound
	}
	cp := *g
	f.goals[g.ID] = &cp
	return nil
}

func (f *fakeGoalsRepo) UpdateStatus(ctx context.Context, id string, status models.GoalStatus) error {
	g, ok := f.goals[id]
	if !ok {
		return common.ErrorNotFound
	}
	g.Status = status
	return nil
}

func (f *fakeGoalsRepo) UpdateSummary(ctx context.Context, id string, summary string) error {
	g, ok := f.goals[id]
	if !ok {
		return common.ErrorNotFound
	}
	g.Summary = &summary
	f.summaries[id] = summary
	return nil
}

func (f *fakeGoalsRepo) Delete(ctx context.Context, id string) error {
	if _, ok := f.goals[id]; !ok {
		return common.ErrorNotFound
	}
	delete(f.goals, id)
	return nil
}

func (f *fakeGoalsRepo) SumReserved(ctx context.Context, userID string) (int64, error) {
	var total int64
	for _, g := range f.goals {
		if g.UserID == userID && !g.Status.Terminal() {
			total += g.Budget
		}
	}
	return total, nil
}

type fakeFriendsRepo struct {
	reqs map[string]*models.FriendRequest
	seq  int
}

func newFakeFriendsRepo(reqs ...*models.FriendRequest) *fakeFriendsRepo {
	m := make(map[string]*models.FriendRequest, len(reqs))
	for _, r := range reqs {
		m[r.ID] = r
	}
	return &fakeFriendsRepo{reqs: m, seq: len(reqs)}
}

func (f *fakeFriendsRepo) Create(ctx context.Context, req *models.FriendRequest) (*models.FriendRequest, error) {
	for _, r := range f.reqs {
		if (r.UserID == req.UserID && r.FriendID == req.FriendID) ||
			(r.UserID == req.FriendID && r.FriendID == req.UserID) {
			return nil, common.ErrorAlreadyExists
		}
	}
	f.seq++
	req.ID = fmt.Sprintf("f%d", f.seq)
	req.CreatedAt = time.Now()
	f.reqs[req.ID] = req
	return req, nil
}

func (f *fakeFriendsRepo) GetByPair(ctx context.Context, userA, userB string) (*models.FriendRequest, error) {
	for _, r := range f.reqs {
		if (r.UserID == userA && r.FriendID == userB) ||
			(r.UserID == userB && r.FriendID == userA) {
			return r, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeFriendsRepo) ListInvolving(ctx context.Context, userID string) ([]*models.FriendRequest, error) {
	var result []*models.FriendRequest
	for _, r := range f.reqs {
		if r.UserID == userID || r.FriendID == userID {
			result = append(result, r)
		}
	}
	return result, nil
}

func (f *fakeFriendsRepo) UpdateStatus(ctx context.Context, id string, status models.FriendRequestStatus) error {
	r, ok := f.reqs[id]
	if !ok {
		return common.ErrorNotFound
	}
	r.Status = status
	return nil
}

func (f *fakeFriendsRepo) Delete(ctx context.Context, id string) error {
	if _, ok := f.reqs[id]; !ok {
		return common.ErrorNotFound
	}
	delete(f.reqs, id)
	return nil
}

type fakeInvitationsRepo struct {
	invs []*models.Invitation
}

func (f *fakeInvitationsRepo) Create(ctx context.Context, inv *models.Invitation) (*models.Invitation, error) {
	inv.ID = fmt.Sprintf("i%d", len(f.invs)+1)
	inv.CreatedAt = time.Now()
	f.invs = append(f.invs, inv)
	return inv, nil
}

func (f *fakeInvitationsRepo) ListByInviter(ctx context.Context, inviterID string) ([]*models.Invitation, error) {
	var result []*models.Invitation
	for _, inv := range f.invs {
		if inv.InviterID == inviterID {
			result = append(result, inv)
		}
	}
	return result, nil
}

type fakeRefreshRepo struct {
	tokens map[string]*models.RefreshToken

	findOut *models.RefreshToken
	findErr error

	createErr error
	delErr    error
}

func newFakeRefreshRepo() *fakeRefreshRepo {
	return &fakeRefreshRepo{tokens: map[string]*models.RefreshToken{}}
}

func (f *fakeRefreshRepo) Create(ctx context.Context, userID string, token string, validity time.Duration) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.tokens[token] = &models.RefreshToken{UserID: userID, Token: token, Expires: time.Now().Add(validity)}
	return nil
}

func (f *fakeRefreshRepo) Find(ctx context.Context, token string) (*models.RefreshToken, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	if f.findOut != nil {
		return f.findOut, nil
	}
	t, ok := f.tokens[token]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return t, nil
}

func (f *fakeRefreshRepo) Delete(ctx context.Context, token string) error {
	if f.delErr != nil {
		return f.delErr
	}
	delete(f.tokens, token)
	return nil
}

type fakeRepoManager struct {
	u *fakeUsersRepo
	g *fakeGoalsRepo
	f *fakeFriendsRepo
	i *fakeInvitationsRepo
	r *fakeRefreshRepo
}

func newFakeRepoManager() *fakeRepoManager {
	return &fakeRepoManager{
		u: newFakeUsersRepo(),
		g: newFakeGoalsRepo(),
		f: newFakeFriendsRepo(),
		i: &fakeInvitationsRepo{},
		r: newFakeRefreshRepo(),
	}
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error           { return nil }
func (m *fakeRepoManager) Users(db dbx.DBTX) usersrepo.Repository                 { return m.u }
func (m *fakeRepoManager) Goals(db dbx.DBTX) goalsrepo.Repository                 { return m.g }
func (m *fakeRepoManager) Friends(db dbx.DBTX) friendsrepo.Repository             { return m.f }
func (m *fakeRepoManager) Invitations(db dbx.DBTX) invitationsrepo.Repository     { return m.i }
func (m *fakeRepoManager) RefreshTokens(db dbx.DBTX) refreshtokensrepo.Repository { return m.r }
