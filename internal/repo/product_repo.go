package repo

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	dom "inventory/internal/domain"
)

// ProductRepo provides product persistence, including the dynamic
// filter/pagination search.
type ProductRepo interface {
	Create(ctx context.Context, p dom.Product) (dom.Product, error)
	GetByID(ctx context.Context, id int64) (dom.Product, error)
	List(ctx context.Context) ([]dom.Product, error)
	Update(ctx context.Context, p dom.Product) (dom.Product, error)
	Delete(ctx context.Context, id int64) (bool, error)
	Search(ctx context.Context, f dom.ProductFilter, page dom.PageRequest) (dom.Page[dom.Product], error)
	ListLowStock(ctx context.Context) ([]dom.Product, error)
	Stats(ctx context.Context) (int64, decimal.Decimal, error)
}

const productColumns = `id, name, price, quantity, description, category_id, created_by, created_at, updated_at`

// Columns accepted as a sort key by Search. Anything else falls back to the
// default ordering.
var productSortColumns = map[string]string{
	"name":       "name ASC",
	"price":      "price ASC",
	"price_desc": "price DESC",
	"quantity":   "quantity ASC",
	"created_at": "created_at DESC",
}

// PGProductRepo implements ProductRepo with Postgres.
type PGProductRepo struct {
	db DB
}

// NewPGProductRepo returns a new PGProductRepo.
func NewPGProductRepo(db DB) *PGProductRepo {
	return &PGProductRepo{db: db}
}

func (r *PGProductRepo) Create(ctx context.Context, p dom.Product) (dom.Product, error) {
	query := `
		INSERT INTO products (name, price, quantity, description, category_id, created_by)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + productColumns
	row := r.db.QueryRow(ctx, query,
		p.Name, p.Price, p.Quantity, p.Description, p.CategoryID, p.CreatedByID,
	)
	return scanProduct(row)
}

func (r *PGProductRepo) GetByID(ctx context.Context, id int64) (dom.Product, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+productColumns+` FROM products WHERE id = $1`, id)
	return scanProduct(row)
}

func (r *PGProductRepo) List(ctx context.Context) ([]dom.Product, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+productColumns+` FROM products ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectProducts(rows)
}

func (r *PGProductRepo) Update(ctx context.Context, p dom.Product) (dom.Product, error) {
	query := `
		UPDATE products
		SET name = $2, price = $3, quantity = $4, description = $5, category_id = $6, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + productColumns
	row := r.db.QueryRow(ctx, query,
		p.ID, p.Name, p.Price, p.Quantity, p.Description, p.CategoryID,
	)
	return scanProduct(row)
}

// Delete removes the row and reports whether one existed.
func (r *PGProductRepo) Delete(ctx context.Context, id int64) (bool, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// Search composes every supplied filter into one conjunctive WHERE clause; an
// absent filter adds nothing. Pagination runs in SQL with a separate COUNT.
func (r *PGProductRepo) Search(ctx context.Context, f dom.ProductFilter, page dom.PageRequest) (dom.Page[dom.Product], error) {
	page = page.Normalize()

	var (
		where []string
		args  []any
	)
	if strings.TrimSpace(f.Name) != "" {
		args = append(args, "%"+strings.TrimSpace(f.Name)+"%")
		where = append(where, fmt.Sprintf("name ILIKE $%d", len(args)))
	}
	if f.CategoryID != nil {
		args = append(args, *f.CategoryID)
		where = append(where, fmt.Sprintf("category_id = $%d", len(args)))
	}
	if f.MinPrice != nil {
		args = append(args, *f.MinPrice)
		where = append(where, fmt.Sprintf("price >= $%d", len(args)))
	}
	if f.MaxPrice != nil {
		args = append(args, *f.MaxPrice)
		where = append(where, fmt.Sprintf("price <= $%d", len(args)))
	}

	clause := ""
	if len(where) > 0 {
		clause = " WHERE " + strings.Join(where, " AND ")
	}

	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM products`+clause, args...).Scan(&total); err != nil {
		return dom.Page[dom.Product]{}, err
	}

	order, ok := productSortColumns[page.Sort]
	if !ok {
		order = "created_at DESC"
	}

	args = append(args, page.Size, page.Offset())
	query := fmt.Sprintf(`SELECT %s FROM products%s ORDER BY %s LIMIT $%d OFFSET $%d`,
		productColumns, clause, order, len(args)-1, len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return dom.Page[dom.Product]{}, err
	}
	defer rows.Close()

	items, err := collectProducts(rows)
	if err != nil {
		return dom.Page[dom.Product]{}, err
	}
	return dom.NewPage(items, page, total), nil
}

func (r *PGProductRepo) ListLowStock(ctx context.Context) ([]dom.Product, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+productColumns+` FROM products WHERE quantity > 0 AND quantity < $1 ORDER BY quantity ASC`,
		dom.LowStockThreshold)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectProducts(rows)
}

// Stats returns the product count and the total inventory value
// (sum of price*quantity).
func (r *PGProductRepo) Stats(ctx context.Context) (int64, decimal.Decimal, error) {
	var (
		count int64
		value decimal.Decimal
	)
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*), COALESCE(SUM(price * quantity), 0) FROM products`,
	).Scan(&count, &value)
	return count, value, err
}

func scanProduct(row interface{ Scan(dest ...any) error }) (dom.Product, error) {
	var p dom.Product
	err := row.Scan(
		&p.ID, &p.Name, &p.Price, &p.Quantity, &p.Description,
		&p.CategoryID, &p.CreatedByID, &p.CreatedAt, &p.UpdatedAt,
	)
	return p, err
}

func collectProducts(rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}) ([]dom.Product, error) {
	var list []dom.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, p)
	}
	return list, rows.Err()
}
