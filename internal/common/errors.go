// Package common defines shared constants and sentinel errors used across
// client and server layers of GoalKeeper. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Service-level errors (generic/internal flow control).
	ErrorInternal        = errors.New("internal error")
	ErrorUnauthenticated = errors.New("unauthenticated")
	ErrorForbidden       = errors.New("forbidden")
	ErrorValidation      = errors.New("validation error")

	// Ledger errors. A debit that would drive the balance negative is
	// rejected with ErrorInsufficientBudget and performs no write.
	ErrorInsufficientBudget = errors.New("insufficient budget")
	ErrorBudgetLimitReached = errors.New("budget limit reached")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")

	// Token lifecycle errors.
	ErrTokenExpired        = errors.New("token expired")
	ErrRefreshTokenExpired = errors.New("refresh token expired")
)
