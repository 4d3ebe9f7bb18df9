package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Me(ctx context.Context) error
	TopUp(ctx context.Context) error
	ListGoals(ctx context.Context) error
	AddGoal(ctx context.Context) error
	CompleteGoal(ctx context.Context) error
	FailGoal(ctx context.Context) error
	DeleteGoal(ctx context.Context) error
	GoalsToVerify(ctx context.Context) error
	VerifyGoal(ctx context.Context) error
	ListFriends(ctx context.Context) error
	AddFriend(ctx context.Context) error
	AcceptFriend(ctx context.Context) error
	RejectFriend(ctx context.Context) error
	FriendGoals(ctx context.Context) error
	Invite(ctx context.Context) error
}

// runREPL starts a simple read-eval-print loop for the GoalKeeper CLI.
//
// It reads a line from the provided scanner, parses the first token as the
// command, and dispatches to methods on 'a'. Unknown commands are reported
// back to the user. The loop exits on scanner EOF or when the user types
// "exit" or "quit".
//
// Errors returned by command handlers are ignored here; handlers print their
// own errors. This keeps the loop focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("gk> %s > ", statusFn()))
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: me, (g)oals, add, complete, fail, delete, toverify, verify, friends, addfriend, accept, reject, friendgoals, invite, topup, logout, exit")
			} else {
				printlnFn("Available commands: register, login, exit")
			}

		case "register":
			_ = a.Register(ctx)

		case "login":
			_ = a.Login(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "me":
			_ = a.Me(ctx)

		case "topup":
			_ = a.TopUp(ctx)

		case "g", "goals":
			_ = a.ListGoals(ctx)

		case "add":
			_ = a.AddGoal(ctx)

		case "complete":
			_ = a.CompleteGoal(ctx)

		case "fail":
			_ = a.FailGoal(ctx)

		case "delete":
			_ = a.DeleteGoal(ctx)

		case "toverify":
			_ = a.GoalsToVerify(ctx)

		case "verify":
			_ = a.VerifyGoal(ctx)

		case "friends":
			_ = a.ListFriends(ctx)

		case "addfriend":
			_ = a.AddFriend(ctx)

		case "accept":
			_ = a.AcceptFriend(ctx)

		case "reject":
			_ = a.RejectFriend(ctx)

		case "friendgoals":
			_ = a.FriendGoals(ctx)

		case "invite":
			_ = a.Invite(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
