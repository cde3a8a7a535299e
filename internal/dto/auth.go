package dto

import "time"

// LoginRequest is the JSON body for POST /auth/login.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse carries a human-readable message and, on success, a session
// token. Token is null on failure.
type LoginResponse struct {
	Message string  `json:"message"`
	Token   *string `json:"token"`
}

// RegisterRequest is the JSON body for POST /auth/register.
type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=50"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	FullName string `json:"fullName" binding:"max=100"`
}

// UserResponse is returned when user info is needed (e.g. after register).
type UserResponse struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	FullName string `json:"fullName"`
	Role     string `json:"role"`
}

// LoginHistoryResponse is one audit record of a login attempt.
type LoginHistoryResponse struct {
	ID            int64     `json:"id"`
	UserID        *int64    `json:"userId"`
	Username      string    `json:"username"`
	IPAddress     string    `json:"ipAddress"`
	UserAgent     string    `json:"userAgent"`
	IsSuccess     bool      `json:"isSuccess"`
	FailureReason string    `json:"failureReason,omitempty"`
	LoginTime     time.Time `json:"loginTime"`
}

// LoginHistoryPageResponse is one page of audit records.
type LoginHistoryPageResponse struct {
	Items      []LoginHistoryResponse `json:"items"`
	Page       int                    `json:"page"`
	Size       int                    `json:"size"`
	TotalItems int64                  `json:"totalItems"`
	TotalPages int                    `json:"totalPages"`
}
