package models

import "time"

// Invitation records an out-of-band invite sent to a non-member email.
type Invitation struct {
	ID           string    `json:"id"`
	InviterID    string    `json:"inviterId"`
	InviteeEmail string    `json:"inviteeEmail"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"createdAt"`
}
