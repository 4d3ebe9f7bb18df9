package models

import "time"

// User is one ledger row. UserID is the opaque principal identity carried in
// the JWT subject; Budget is spendable currency, Score is the cumulative
// reward total. Budget never goes negative.
type User struct {
	ID           string    `json:"id"`
	UserID       string    `json:"userId"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Budget       int64     `json:"budget"`
	Score        int64     `json:"score"`
	CreatedAt    time.Time `json:"createdAt"`
}
