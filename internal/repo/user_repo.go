package repo

import (
	"context"

	dom "inventory/internal/domain"
)

// UserRepo provides user persistence.
type UserRepo interface {
	GetByID(ctx context.Context, id int64) (dom.User, error)
	GetByUsername(ctx context.Context, username string) (dom.User, error)
	Create(ctx context.Context, u dom.User) (dom.User, error)
}

const userColumns = `id, username, email, password_hash, full_name, role, is_active, created_at, updated_at`

// PGUserRepo implements UserRepo with Postgres.
type PGUserRepo struct {
	db DB
}

// NewPGUserRepo returns a new PGUserRepo.
func NewPGUserRepo(db DB) *PGUserRepo {
	return &PGUserRepo{db: db}
}

func (r *PGUserRepo) GetByID(ctx context.Context, id int64) (dom.User, error) {
	var u dom.User
	err := r.db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`,
		id,
	).Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.FullName, &u.Role, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

func (r *PGUserRepo) GetByUsername(ctx context.Context, username string) (dom.User, error) {
	var u dom.User
	err := r.db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE username = $1`,
		username,
	).Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.FullName, &u.Role, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

func (r *PGUserRepo) Create(ctx context.Context, u dom.User) (dom.User, error) {
	query := `
		INSERT INTO users (username, email, password_hash, full_name, role, is_active)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + userColumns
	var out dom.User
	err := r.db.QueryRow(ctx, query,
		u.Username, u.Email, u.PasswordHash, u.FullName, u.Role, u.IsActive,
	).Scan(&out.ID, &out.Username, &out.Email, &out.PasswordHash, &out.FullName, &out.Role, &out.IsActive, &out.CreatedAt, &out.UpdatedAt)
	return out, err
}
