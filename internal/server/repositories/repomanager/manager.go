package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/goalkeeper/internal/dbx"
	"github.com/dmitrijs2005/goalkeeper/internal/server/repositories/friends"
	"github.com/dmitrijs2005/goalkeeper/internal/server/repositories/goals"
	"github.com/dmitrijs2005/goalkeeper/internal/server/repositories/invitations"
	"github.com/dmitrijs2005/goalkeeper/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/goalkeeper/internal/server/repositories/users"
)

// RepositoryManager vends repositories bound to a DBTX so services can use
// the same repository code inside and outside transactions.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Goals(db dbx.DBTX) goals.Repository
	Friends(db dbx.DBTX) friends.Repository
	Invitations(db dbx.DBTX) invitations.Repository
	RefreshTokens(db dbx.DBTX) refreshtokens.Repository
}
