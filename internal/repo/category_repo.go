package repo

import (
	"context"

	dom "inventory/internal/domain"
)

// CategoryRepo provides category persistence.
type CategoryRepo interface {
	List(ctx context.Context) ([]dom.Category, error)
	GetByID(ctx context.Context, id int64) (dom.Category, error)
	Create(ctx context.Context, c dom.Category) (dom.Category, error)
}

// PGCategoryRepo implements CategoryRepo with Postgres.
type PGCategoryRepo struct {
	db DB
}

// NewPGCategoryRepo returns a new PGCategoryRepo.
func NewPGCategoryRepo(db DB) *PGCategoryRepo {
	return &PGCategoryRepo{db: db}
}

func (r *PGCategoryRepo) List(ctx context.Context) ([]dom.Category, error) {
	query := `
		SELECT id, name, description, is_active, created_at
		FROM categories ORDER BY name ASC`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []dom.Category
	for rows.Next() {
		var c dom.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.IsActive, &c.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

func (r *PGCategoryRepo) GetByID(ctx context.Context, id int64) (dom.Category, error) {
	var c dom.Category
	err := r.db.QueryRow(ctx,
		`SELECT id, name, description, is_active, created_at FROM categories WHERE id = $1`,
		id,
	).Scan(&c.ID, &c.Name, &c.Description, &c.IsActive, &c.CreatedAt)
	return c, err
}

func (r *PGCategoryRepo) Create(ctx context.Context, c dom.Category) (dom.Category, error) {
	query := `
		INSERT INTO categories (name, description, is_active)
		VALUES ($1, $2, $3)
		RETURNING id, name, description, is_active, created_at`
	var out dom.Category
	err := r.db.QueryRow(ctx, query, c.Name, c.Description, c.IsActive).Scan(
		&out.ID, &out.Name, &out.Description, &out.IsActive, &out.CreatedAt,
	)
	return out, err
}
