package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/dmitrijs2005/goalkeeper/internal/common"
)

// ListFriends shows the caller's relationships, marking the pending ones.
func (a *App) ListFriends(ctx context.Context) error {
	friends, err := a.api.ListFriends(ctx)
	if err != nil {
		printlnFn("Error:", err.Error())
		return err
	}
	if len(friends) == 0 {
		printlnFn("No friends yet")
		return nil
	}
	for _, f := range friends {
		line := fmt.Sprintf("[%s] %s (%s)", f.ID, f.FriendName, f.Status)
		if f.FriendEmail != nil {
			line += "  <" + *f.FriendEmail + ">"
		}
		if f.Status == "pending" && !f.IsSender {
			line += "  (awaiting your decision)"
		}
		printlnFn(line)
	}
	return nil
}

// AddFriend sends a friend request by email. If the email is not a member
// yet, the user is offered an invitation instead.
func (a *App) AddFriend(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Friend's email", os.Stdout)
	if err != nil {
		return err
	}

	req, err := a.api.AddFriendByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			printlnFn("No such member. Use 'invite' to send an invitation.")
			return err
		}
		printlnFn("Error:", err.Error())
		return err
	}
	printlnFn("Request sent:", req.ID)
	return nil
}

// AcceptFriend accepts a received friend request.
func (a *App) AcceptFriend(ctx context.Context) error {
	id, err := getSimpleText(a.reader, "Request id", os.Stdout)
	if err != nil {
		return err
	}
	if err := a.api.AcceptFriend(ctx, id); err != nil {
		printlnFn("Error:", err.Error())
		return err
	}
	printlnFn("Accepted")
	return nil
}

// RejectFriend rejects a received friend request.
func (a *App) RejectFriend(ctx context.Context) error {
	id, err := getSimpleText(a.reader, "Request id", os.Stdout)
	if err != nil {
		return err
	}
	if err := a.api.RejectFriend(ctx, id); err != nil {
		printlnFn("Error:", err.Error())
		return err
	}
	printlnFn("Rejected")
	return nil
}

// FriendGoals lists an accepted friend's goals.
func (a *App) FriendGoals(ctx context.Context) error {
	id, err := getSimpleText(a.reader, "Friend's user id", os.Stdout)
	if err != nil {
		return err
	}
	goals, err := a.api.FriendGoals(ctx, id)
	if err != nil {
		printlnFn("Error:", err.Error())
		return err
	}
	if len(goals) == 0 {
		printlnFn("No goals")
		return nil
	}
	for i := range goals {
		printGoal(&goals[i])
	}
	return nil
}

// Invite records an invitation for an email that is not a member yet.
func (a *App) Invite(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Email to invite", os.Stdout)
	if err != nil {
		return err
	}
	inv, err := a.api.Invite(ctx, email)
	if err != nil {
		printlnFn("Error:", err.Error())
		return err
	}
	printlnFn("Invitation recorded:", inv.ID)
	return nil
}
