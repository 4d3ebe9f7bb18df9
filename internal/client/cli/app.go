// Package cli implements the interactive GoalKeeper client: a small REPL
// over the HTTP API for managing goals, friends, and the budget.
package cli

import (
	"bufio"
	"context"
	"os"

	"github.com/dmitrijs2005/goalkeeper/internal/client/api"
	"github.com/dmitrijs2005/goalkeeper/internal/client/config"
)

type App struct {
	config *config.Config
	api    *api.Client
	reader *bufio.Reader
}

func NewApp(c *config.Config) (*App, error) {
	return &App{
		config: c,
		api:    api.NewClient(c),
		reader: bufio.NewReader(os.Stdin),
	}, nil
}

func (a *App) isLoggedIn() bool {
	return a.api.LoggedIn()
}

func (a *App) Run(ctx context.Context) {
	scanner := bufio.NewScanner(os.Stdin)
	runREPL(ctx, a, a.status, scanner)
}

func (a *App) status() string {
	if a.isLoggedIn() {
		return "logged in"
	}
	return "logged out"
}
