package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/dmitrijs2005/goalkeeper/internal/client/api"
	"github.com/dmitrijs2005/goalkeeper/internal/client/models"
)

func printGoal(g *models.Goal) {
	line := fmt.Sprintf("[%s] %s  status: %s  stake: %d", g.ID, g.Title, g.Status, g.Budget)
	if g.Deadline != nil {
		line += "  deadline: " + g.Deadline.Format("2006-01-02")
	}
	printlnFn(line)
	if g.Summary != nil {
		printlnFn("    summary: " + *g.Summary)
	}
}

// ListGoals shows the caller's goals.
func (a *App) ListGoals(ctx context.Context) error {
	goals, err := a.api.ListGoals(ctx)
	if err != nil {
		printlnFn("Error:", err.Error())
		return err
	}
	if len(goals) == 0 {
		printlnFn("No goals yet")
		return nil
	}
	for i := range goals {
		printGoal(&goals[i])
	}
	return nil
}

// AddGoal prompts for the goal fields and creates it. The stake is reserved
// from the free budget immediately.
func (a *App) AddGoal(ctx context.Context) error {
	title, err := getSimpleText(a.reader, "Enter title", os.Stdout)
	if err != nil {
		return err
	}
	content, err := getSimpleText(a.reader, "Describe the goal", os.Stdout)
	if err != nil {
		return err
	}
	budget, err := getInt(a.reader, "Stake (budget to reserve)", os.Stdout)
	if err != nil {
		printlnFn("Error:", err.Error())
		return err
	}
	verifier, err := getSimpleText(a.reader, "Verifier user id (empty for none)", os.Stdout)
	if err != nil {
		return err
	}
	summaryAnswer, err := getSimpleText(a.reader, "Generate summary? (y/N)", os.Stdout)
	if err != nil {
		return err
	}

	req := api.CreateGoalRequest{
		Title:     title,
		Content:   content,
		Budget:    budget,
		IsSummary: summaryAnswer == "y" || summaryAnswer == "yes",
	}
	if verifier != "" {
		req.VerifierID = &verifier
	}

	goal, err := a.api.CreateGoal(ctx, req)
	if err != nil {
		printlnFn("Error:", err.Error())
		return err
	}
	printlnFn("Created goal", goal.ID)
	return nil
}

// CompleteGoal reports a goal as achieved.
func (a *App) CompleteGoal(ctx context.Context) error {
	id, err := getSimpleText(a.reader, "Goal id", os.Stdout)
	if err != nil {
		return err
	}
	if err := a.api.CompleteGoal(ctx, id); err != nil {
		printlnFn("Error:", err.Error())
		return err
	}
	printlnFn("Done")
	return nil
}

// FailGoal reports a goal as not achieved; the stake is forfeited.
func (a *App) FailGoal(ctx context.Context) error {
	id, err := getSimpleText(a.reader, "Goal id", os.Stdout)
	if err != nil {
		return err
	}
	if err := a.api.SetGoalNotAchieved(ctx, id); err != nil {
		printlnFn("Error:", err.Error())
		return err
	}
	printlnFn("Done")
	return nil
}

// DeleteGoal removes a goal; an active stake is refunded.
func (a *App) DeleteGoal(ctx context.Context) error {
	id, err := getSimpleText(a.reader, "Goal id", os.Stdout)
	if err != nil {
		return err
	}
	if err := a.api.DeleteGoal(ctx, id); err != nil {
		printlnFn("Error:", err.Error())
		return err
	}
	printlnFn("Deleted")
	return nil
}

// GoalsToVerify lists goals awaiting the caller's verdict.
func (a *App) GoalsToVerify(ctx context.Context) error {
	goals, err := a.api.GoalsToVerify(ctx)
	if err != nil {
		printlnFn("Error:", err.Error())
		return err
	}
	if len(goals) == 0 {
		printlnFn("Nothing to verify")
		return nil
	}
	for i := range goals {
		printGoal(&goals[i])
	}
	return nil
}

// VerifyGoal records the caller's verdict on a pending goal.
func (a *App) VerifyGoal(ctx context.Context) error {
	id, err := getSimpleText(a.reader, "Goal id", os.Stdout)
	if err != nil {
		return err
	}
	decision, err := getSimpleText(a.reader, "Decision (passed/failed)", os.Stdout)
	if err != nil {
		return err
	}
	if err := a.api.VerifyGoal(ctx, id, decision); err != nil {
		printlnFn("Error:", err.Error())
		return err
	}
	printlnFn("Done")
	return nil
}
