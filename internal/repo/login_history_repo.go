package repo

import (
	"context"
	"time"

	dom "inventory/internal/domain"
)

// LoginHistoryRepo is the append-only audit log of login attempts. Rows are
// never updated or deleted.
type LoginHistoryRepo interface {
	Append(ctx context.Context, h dom.LoginHistory) (dom.LoginHistory, error)
	CountFailedSince(ctx context.Context, username string, since time.Time) (int64, error)
	ListByUsername(ctx context.Context, username string, page dom.PageRequest) (dom.Page[dom.LoginHistory], error)
}

const loginHistoryColumns = `id, user_id, username, ip_address, user_agent, is_success, failure_reason, login_time`

// PGLoginHistoryRepo implements LoginHistoryRepo with Postgres.
type PGLoginHistoryRepo struct {
	db DB
}

// NewPGLoginHistoryRepo returns a new PGLoginHistoryRepo.
func NewPGLoginHistoryRepo(db DB) *PGLoginHistoryRepo {
	return &PGLoginHistoryRepo{db: db}
}

func (r *PGLoginHistoryRepo) Append(ctx context.Context, h dom.LoginHistory) (dom.LoginHistory, error) {
	query := `
		INSERT INTO login_history (user_id, username, ip_address, user_agent, is_success, failure_reason)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + loginHistoryColumns
	row := r.db.QueryRow(ctx, query,
		h.UserID, h.Username, h.IPAddress, h.UserAgent, h.IsSuccess, nullIfEmpty(string(h.FailureReason)),
	)
	return scanLoginHistory(row)
}

func (r *PGLoginHistoryRepo) CountFailedSince(ctx context.Context, username string, since time.Time) (int64, error) {
	var n int64
	err := r.db.QueryRow(ctx, `
		SELECT COUNT(*) FROM login_history
		WHERE username = $1 AND is_success = FALSE AND login_time >= $2`,
		username, since,
	).Scan(&n)
	return n, err
}

func (r *PGLoginHistoryRepo) ListByUsername(ctx context.Context, username string, page dom.PageRequest) (dom.Page[dom.LoginHistory], error) {
	page = page.Normalize()

	var total int64
	if err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM login_history WHERE username = $1`, username,
	).Scan(&total); err != nil {
		return dom.Page[dom.LoginHistory]{}, err
	}

	rows, err := r.db.Query(ctx, `
		SELECT `+loginHistoryColumns+` FROM login_history
		WHERE username = $1 ORDER BY login_time DESC LIMIT $2 OFFSET $3`,
		username, page.Size, page.Offset())
	if err != nil {
		return dom.Page[dom.LoginHistory]{}, err
	}
	defer rows.Close()

	var list []dom.LoginHistory
	for rows.Next() {
		h, err := scanLoginHistory(rows)
		if err != nil {
			return dom.Page[dom.LoginHistory]{}, err
		}
		list = append(list, h)
	}
	if err := rows.Err(); err != nil {
		return dom.Page[dom.LoginHistory]{}, err
	}
	return dom.NewPage(list, page, total), nil
}

func scanLoginHistory(row interface{ Scan(dest ...any) error }) (dom.LoginHistory, error) {
	var (
		h      dom.LoginHistory
		reason *string
	)
	err := row.Scan(&h.ID, &h.UserID, &h.Username, &h.IPAddress, &h.UserAgent,
		&h.IsSuccess, &reason, &h.LoginTime)
	if err != nil {
		return dom.LoginHistory{}, err
	}
	if reason != nil {
		h.FailureReason = dom.FailureReason(*reason)
	}
	return h, nil
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
