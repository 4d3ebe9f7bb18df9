package models

import "time"

// FriendRequestStatus is the state of a friend relationship.
type FriendRequestStatus string

const (
	FriendStatusPending  FriendRequestStatus = "pending"
	FriendStatusAccepted FriendRequestStatus = "accepted"
)

// FriendRequest is one directed request row: UserID sent the request to
// FriendID. At most one row may exist per unordered pair.
type FriendRequest struct {
	ID        string              `json:"id"`
	UserID    string              `json:"userId"`
	FriendID  string              `json:"friendId"`
	Status    FriendRequestStatus `json:"status"`
	CreatedAt time.Time           `json:"createdAt"`
}

// Friend is a FriendRequest annotated for one side of the pair: FriendID is
// always the counterpart of the viewer, IsSender tells whether the viewer
// sent the original request, and FriendEmail is only revealed once accepted.
type Friend struct {
	ID          string              `json:"id"`
	FriendID    string              `json:"friendId"`
	FriendName  string              `json:"friendName"`
	FriendEmail *string             `json:"friendEmail,omitempty"`
	Status      FriendRequestStatus `json:"status"`
	IsSender    bool                `json:"isSender"`
}
