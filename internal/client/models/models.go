// Package models contains the client-side DTOs mirroring the server's JSON
// payloads.
package models

import "time"

type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

type User struct {
	UserID string `json:"userId"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Budget int64  `json:"budget"`
	Score  int64  `json:"score"`
}

type Goal struct {
	ID         string     `json:"id"`
	UserID     string     `json:"userId"`
	Title      string     `json:"title"`
	Content    string     `json:"content"`
	Summary    *string    `json:"summary,omitempty"`
	Deadline   *time.Time `json:"deadline,omitempty"`
	VerifierID *string    `json:"verifierId,omitempty"`
	Status     string     `json:"status"`
	Budget     int64      `json:"budget"`
}

type Friend struct {
	ID          string  `json:"id"`
	FriendID    string  `json:"friendId"`
	FriendName  string  `json:"friendName"`
	FriendEmail *string `json:"friendEmail,omitempty"`
	Status      string  `json:"status"`
	IsSender    bool    `json:"isSender"`
}

type FriendRequest struct {
	ID       string `json:"id"`
	UserID   string `json:"userId"`
	FriendID string `json:"friendId"`
	Status   string `json:"status"`
}

type Invitation struct {
	ID           string `json:"id"`
	InviterID    string `json:"inviterId"`
	InviteeEmail string `json:"inviteeEmail"`
	Status       string `json:"status"`
}
