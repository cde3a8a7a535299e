package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"inventory/internal/auth"
	dom "inventory/internal/domain"
	"inventory/internal/errs"
	"inventory/internal/service"
)

// fakeHistoryRepo is an in-memory append-only login audit log.
type fakeHistoryRepo struct {
	rows []dom.LoginHistory
}

func (f *fakeHistoryRepo) Append(_ context.Context, h dom.LoginHistory) (dom.LoginHistory, error) {
	h.ID = int64(len(f.rows) + 1)
	h.LoginTime = time.Now()
	f.rows = append(f.rows, h)
	return h, nil
}

func (f *fakeHistoryRepo) CountFailedSince(_ context.Context, username string, since time.Time) (int64, error) {
	var n int64
	for _, h := range f.rows {
		if h.Username == username && !h.IsSuccess && !h.LoginTime.Before(since) {
			n++
		}
	}
	return n, nil
}

func (f *fakeHistoryRepo) ListByUsername(_ context.Context, username string, page dom.PageRequest) (dom.Page[dom.LoginHistory], error) {
	page = page.Normalize()
	var matched []dom.LoginHistory
	for i := len(f.rows) - 1; i >= 0; i-- {
		if f.rows[i].Username == username {
			matched = append(matched, f.rows[i])
		}
	}
	total := int64(len(matched))
	start := page.Offset()
	if start > len(matched) {
		start = len(matched)
	}
	end := start + page.Size
	if end > len(matched) {
		end = len(matched)
	}
	return dom.NewPage(matched[start:end], page, total), nil
}

func (f *fakeHistoryRepo) last() dom.LoginHistory {
	return f.rows[len(f.rows)-1]
}

const (
	testPassword    = "correct horse"
	lockoutMax      = 3
	lockoutDuration = 15 * time.Minute
)

func newAuthService(t *testing.T) (*service.AuthService, *fakeUserRepo, *fakeHistoryRepo) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	require.NoError(t, err)

	users := &fakeUserRepo{byID: map[int64]dom.User{
		1: {ID: 1, Username: "alice", Email: "alice@example.com", PasswordHash: string(hash), Role: dom.RoleUser, IsActive: true},
		2: {ID: 2, Username: "mallory", Email: "mallory@example.com", PasswordHash: string(hash), Role: dom.RoleUser, IsActive: false},
	}}
	history := &fakeHistoryRepo{}
	tokens := auth.NewTokenIssuer("test-secret", time.Hour)
	return service.NewAuthService(users, history, tokens, lockoutMax, lockoutDuration), users, history
}

func meta() service.LoginMeta {
	return service.LoginMeta{IPAddress: "10.0.0.1", UserAgent: "go-test"}
}

func TestAuthenticate_Success(t *testing.T) {
	s, _, history := newAuthService(t)

	res, err := s.Authenticate(context.Background(), "alice", testPassword, meta())
	require.NoError(t, err)
	assert.Equal(t, "Login successful", res.Message)
	assert.NotEmpty(t, res.Token)
	assert.Equal(t, "alice", res.User.Username)

	require.Len(t, history.rows, 1)
	row := history.last()
	assert.True(t, row.IsSuccess)
	require.NotNil(t, row.UserID)
	assert.Equal(t, int64(1), *row.UserID)
	assert.Equal(t, "10.0.0.1", row.IPAddress)
	assert.Empty(t, row.FailureReason)
}

func TestAuthenticate_UnknownUserAndWrongPassword(t *testing.T) {
	s, _, history := newAuthService(t)
	ctx := context.Background()

	_, ghostErr := s.Authenticate(ctx, "ghost", testPassword, meta())
	_, passErr := s.Authenticate(ctx, "alice", "wrong", meta())

	require.Error(t, ghostErr)
	require.Error(t, passErr)

	// The two failure modes must be indistinguishable to the caller.
	assert.Equal(t, ghostErr, passErr)
	assert.Equal(t, "Incorrect username or password", ghostErr.Error())
	assert.Equal(t, errs.KindInvalidCredentials, errs.KindOf(ghostErr))

	// The audit log still records which one it was.
	require.Len(t, history.rows, 2)
	assert.Equal(t, dom.FailureUsernameNotFound, history.rows[0].FailureReason)
	assert.Nil(t, history.rows[0].UserID)
	assert.Equal(t, dom.FailureInvalidPassword, history.rows[1].FailureReason)
	require.NotNil(t, history.rows[1].UserID)
	assert.Equal(t, int64(1), *history.rows[1].UserID)
}

func TestAuthenticate_DisabledAccount(t *testing.T) {
	s, _, history := newAuthService(t)

	_, err := s.Authenticate(context.Background(), "mallory", testPassword, meta())
	require.Error(t, err)
	assert.Equal(t, errs.ErrAccountDisabled, err)
	assert.Equal(t, errs.KindAccountDisabled, errs.KindOf(err))

	require.Len(t, history.rows, 1)
	assert.Equal(t, dom.FailureAccountDisabled, history.last().FailureReason)
}

func TestAuthenticate_BlankCredentials(t *testing.T) {
	s, _, history := newAuthService(t)
	ctx := context.Background()

	_, err := s.Authenticate(ctx, "  ", "pw", meta())
	assert.Equal(t, errs.ErrInvalidCredentials, err)

	_, err = s.Authenticate(ctx, "alice", "", meta())
	assert.Equal(t, errs.ErrInvalidCredentials, err)

	require.Len(t, history.rows, 2)
	for _, row := range history.rows {
		assert.Equal(t, dom.FailureValidationError, row.FailureReason)
	}
}

func TestAuthenticate_Lockout(t *testing.T) {
	s, _, history := newAuthService(t)
	ctx := context.Background()

	for i := 0; i < lockoutMax; i++ {
		_, err := s.Authenticate(ctx, "alice", "wrong", meta())
		assert.Equal(t, errs.ErrInvalidCredentials, err)
	}

	// Correct password no longer helps inside the window.
	_, err := s.Authenticate(ctx, "alice", testPassword, meta())
	require.Error(t, err)
	assert.Equal(t, errs.ErrTooManyAttempts, err)
	assert.Equal(t, errs.KindTooManyAttempts, errs.KindOf(err))
	assert.Equal(t, dom.FailureTooManyAttempts, history.last().FailureReason)

	// Other usernames are unaffected.
	res, err := s.Authenticate(ctx, "ghost", "whatever", meta())
	assert.Equal(t, errs.ErrInvalidCredentials, err)
	assert.Empty(t, res.Token)
}

func TestAuthenticate_OldFailuresExpire(t *testing.T) {
	s, _, history := newAuthService(t)
	ctx := context.Background()

	for i := 0; i < lockoutMax; i++ {
		_, _ = s.Authenticate(ctx, "alice", "wrong", meta())
	}
	// Age the failures past the window.
	for i := range history.rows {
		history.rows[i].LoginTime = time.Now().Add(-lockoutDuration - time.Minute)
	}

	_, err := s.Authenticate(ctx, "alice", testPassword, meta())
	assert.NoError(t, err)
}

func TestRegister(t *testing.T) {
	s, users, _ := newAuthService(t)
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		user, err := s.Register(ctx, service.RegisterInput{
			Username: "bob",
			Email:    "bob@example.com",
			Password: "hunter22",
			FullName: "Bob Example",
		})
		require.NoError(t, err)
		assert.Equal(t, dom.RoleUser, user.Role)
		assert.True(t, user.IsActive)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("hunter22")))
		assert.NotEqual(t, "hunter22", user.PasswordHash)
	})

	t.Run("short password", func(t *testing.T) {
		_, err := s.Register(ctx, service.RegisterInput{
			Username: "carol",
			Email:    "carol@example.com",
			Password: "12345",
		})
		require.Error(t, err)
		assert.Equal(t, errs.KindValidation, errs.KindOf(err))
	})

	t.Run("duplicate username maps to a conflict", func(t *testing.T) {
		_, err := s.Register(ctx, service.RegisterInput{
			Username: "alice",
			Email:    "other@example.com",
			Password: "hunter22",
		})
		require.Error(t, err)
		assert.Equal(t, errs.KindConflict, errs.KindOf(err))
		assert.Equal(t, "Username or email already in use", err.Error())
	})

	assert.Len(t, users.byID, 3, "only the successful register persists")
}

func TestHistoryPaging(t *testing.T) {
	s, _, _ := newAuthService(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, _ = s.Authenticate(ctx, "ghost", "nope", meta())
	}

	page, err := s.History(ctx, "ghost", dom.PageRequest{Page: 0, Size: 2})
	require.NoError(t, err)
	assert.Len(t, page.Items, 2)
	assert.Equal(t, int64(5), page.TotalItems)
	assert.Equal(t, 3, page.TotalPages)
	for _, row := range page.Items {
		assert.Equal(t, "ghost", row.Username)
		assert.False(t, row.IsSuccess)
	}
}
