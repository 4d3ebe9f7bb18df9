package models

import "time"

// GoalStatus is the lifecycle state of a goal.
type GoalStatus string

const (
	// GoalStatusUnfinished is the initial state; the stake is reserved.
	GoalStatusUnfinished GoalStatus = "unfinished"
	// GoalStatusPending means the owner reported completion and a verifier
	// decision is outstanding.
	GoalStatusPending GoalStatus = "pending"
	// GoalStatusCompleted is terminal; the stake has been returned.
	GoalStatusCompleted GoalStatus = "completed"
	// GoalStatusFailed is terminal; the stake is forfeited.
	GoalStatusFailed GoalStatus = "failed"
)

// Terminal reports whether no further budget movement may happen on a goal
// in this status.
func (s GoalStatus) Terminal() bool {
	return s == GoalStatusCompleted || s == GoalStatusFailed
}

// Goal holds one goal row. Budget is the stake reserved from the owner's
// ledger at creation time. Summary is filled in asynchronously by the
// summary worker. Deadline and VerifierID are optional.
type Goal struct {
	ID         string     `json:"id"`
	UserID     string     `json:"userId"`
	Title      string     `json:"title"`
	Content    string     `json:"content"`
	Summary    *string    `json:"summary,omitempty"`
	Deadline   *time.Time `json:"deadline,omitempty"`
	VerifierID *string    `json:"verifierId,omitempty"`
	Status     GoalStatus `json:"status"`
	Budget     int64      `json:"budget"`
	CreatedAt  time.Time  `json:"createdAt"`
}

// GoalPatch is an explicit update set for a goal: a nil field means
// "leave unchanged". Clearing an optional field is expressed by the
// dedicated Clear* flags so absence is never ambiguous.
type GoalPatch struct {
	Title         *string    `json:"title,omitempty"`
	Deadline      *time.Time `json:"deadline,omitempty"`
	ClearDeadline bool       `json:"clearDeadline,omitempty"`
	VerifierID    *string    `json:"verifierId,omitempty"`
	ClearVerifier bool       `json:"clearVerifier,omitempty"`
	Budget        *int64     `json:"budget,omitempty"`
}
