package domain

import "time"

// FailureReason enumerates why a login attempt failed.
type FailureReason string

const (
	FailureUsernameNotFound FailureReason = "Username not found"
	FailureInvalidPassword  FailureReason = "Invalid password"
	FailureAccountDisabled  FailureReason = "Account is disabled"
	FailureAccountLocked    FailureReason = "Account is locked"
	FailureTooManyAttempts  FailureReason = "Too many login attempts"
	FailureInvalidCreds     FailureReason = "Invalid credentials"
	FailureValidationError  FailureReason = "Validation error"
)

// LoginHistory is an append-only audit record of a single login attempt.
// UserID is nil when the attempted username did not resolve to an account.
// LoginTime is set at creation and never changes.
type LoginHistory struct {
	ID            int64
	UserID        *int64
	Username      string
	IPAddress     string
	UserAgent     string
	IsSuccess     bool
	FailureReason FailureReason
	LoginTime     time.Time
}

// NewSuccessHistory records a successful attempt for user.
func NewSuccessHistory(user *User, ip, userAgent string) LoginHistory {
	id := user.ID
	return LoginHistory{
		UserID:    &id,
		Username:  user.Username,
		IPAddress: ip,
		UserAgent: userAgent,
		IsSuccess: true,
	}
}

// NewFailureHistory records a failed attempt. userID may be nil.
func NewFailureHistory(userID *int64, username, ip, userAgent string, reason FailureReason) LoginHistory {
	return LoginHistory{
		UserID:        userID,
		Username:      username,
		IPAddress:     ip,
		UserAgent:     userAgent,
		IsSuccess:     false,
		FailureReason: reason,
	}
}
