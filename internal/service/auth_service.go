package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"

	"inventory/internal/auth"
	dom "inventory/internal/domain"
	"inventory/internal/errs"
	"inventory/internal/repo"
	"inventory/internal/utils"
)

// LoginMeta carries request metadata recorded in the audit log.
type LoginMeta struct {
	IPAddress string
	UserAgent string
}

// LoginResult is the outcome of a successful authentication.
type LoginResult struct {
	Message string
	Token   string
	User    dom.User
}

// RegisterInput carries the fields for a new account.
type RegisterInput struct {
	Username string
	Email    string
	Password string
	FullName string
}

// AuthService verifies credentials and appends one audit record per attempt.
type AuthService struct {
	users       repo.UserRepo
	history     repo.LoginHistoryRepo
	tokens      *auth.TokenIssuer
	maxFailures int64
	window      time.Duration
}

// NewAuthService returns a new AuthService. After maxFailures failed attempts
// inside window, further attempts for that username are rejected.
func NewAuthService(users repo.UserRepo, history repo.LoginHistoryRepo, tokens *auth.TokenIssuer, maxFailures int, window time.Duration) *AuthService {
	return &AuthService{
		users:       users,
		history:     history,
		tokens:      tokens,
		maxFailures: int64(maxFailures),
		window:      window,
	}
}

// Authenticate checks the credentials and returns a signed session token.
// Unknown-username and wrong-password failures return the same error value so
// the caller cannot tell which field was wrong. Every attempt, success or
// failure, is appended to the login history.
func (s *AuthService) Authenticate(ctx context.Context, username, password string, meta LoginMeta) (LoginResult, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		s.recordFailure(ctx, nil, username, meta, dom.FailureValidationError)
		return LoginResult{}, errs.ErrInvalidCredentials
	}

	failed, err := s.history.CountFailedSince(ctx, username, time.Now().Add(-s.window))
	if err != nil {
		return LoginResult{}, err
	}
	if failed >= s.maxFailures {
		s.recordFailure(ctx, nil, username, meta, dom.FailureTooManyAttempts)
		return LoginResult{}, errs.ErrTooManyAttempts
	}

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			s.recordFailure(ctx, nil, username, meta, dom.FailureUsernameNotFound)
			return LoginResult{}, errs.ErrInvalidCredentials
		}
		return LoginResult{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.recordFailure(ctx, &user.ID, username, meta, dom.FailureInvalidPassword)
		return LoginResult{}, errs.ErrInvalidCredentials
	}

	if !user.IsActive {
		s.recordFailure(ctx, &user.ID, username, meta, dom.FailureAccountDisabled)
		return LoginResult{}, errs.ErrAccountDisabled
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return LoginResult{}, err
	}

	if _, err := s.history.Append(ctx, dom.NewSuccessHistory(&user, meta.IPAddress, meta.UserAgent)); err != nil {
		return LoginResult{}, err
	}

	return LoginResult{Message: "Login successful", Token: token, User: user}, nil
}

// Register creates a new active account with the regular-user role.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (dom.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)
	if in.Username == "" || in.Email == "" {
		return dom.User{}, errs.Validation("Username and email are required")
	}
	if len(in.Password) < 6 {
		return dom.User{}, errs.Validation("Password must be at least 6 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return dom.User{}, err
	}

	user, err := s.users.Create(ctx, dom.User{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: string(hash),
		FullName:     in.FullName,
		Role:         dom.RoleUser,
		IsActive:     true,
	})
	if err != nil {
		if utils.IsPGUniqueViolation(err) {
			return dom.User{}, errs.Conflict("Username or email already in use")
		}
		return dom.User{}, err
	}
	return user, nil
}

// History returns a page of login attempts recorded for username.
func (s *AuthService) History(ctx context.Context, username string, page dom.PageRequest) (dom.Page[dom.LoginHistory], error) {
	return s.history.ListByUsername(ctx, username, page)
}

// Audit failures are best-effort; a full history table must not block login.
func (s *AuthService) recordFailure(ctx context.Context, userID *int64, username string, meta LoginMeta, reason dom.FailureReason) {
	_, _ = s.history.Append(ctx, dom.NewFailureHistory(userID, username, meta.IPAddress, meta.UserAgent, reason))
}
