package cli

import (
	"context"
	"fmt"
	"os"
)

// getSimpleText, getPassword and getInt are indirections used to facilitate
// testing. They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword
var getInt = GetInt

// Register prompts for a name, email and password and creates an account.
// On success the returned token pair is stored and the session is logged in.
func (a *App) Register(ctx context.Context) error {
	name, err := getSimpleText(a.reader, "Enter name", os.Stdout)
	if err != nil {
		return err
	}
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}
	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}

	if err := a.api.Register(ctx, name, email, password); err != nil {
		printlnFn("Registration failed:", err.Error())
		return err
	}

	printlnFn("Success!")
	return nil
}

// Login prompts for credentials and authenticates against the server.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}
	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}

	if err := a.api.Login(ctx, email, password); err != nil {
		printlnFn("Login failed:", err.Error())
		return err
	}

	printlnFn("Success!")
	return nil
}

// Logout drops the stored token pair.
func (a *App) Logout(ctx context.Context) error {
	a.api.Logout()
	printlnFn("Logged out")
	return nil
}

// Me shows the caller's profile and ledger.
func (a *App) Me(ctx context.Context) error {
	user, err := a.api.Me(ctx)
	if err != nil {
		printlnFn("Error:", err.Error())
		return err
	}
	printlnFn(fmt.Sprintf("%s <%s>  budget: %d  score: %d", user.Name, user.Email, user.Budget, user.Score))
	return nil
}

// TopUp requests a budget top-up and shows the new balance.
func (a *App) TopUp(ctx context.Context) error {
	user, err := a.api.TopUpBudget(ctx)
	if err != nil {
		printlnFn("Error:", err.Error())
		return err
	}
	printlnFn(fmt.Sprintf("New budget: %d", user.Budget))
	return nil
}
