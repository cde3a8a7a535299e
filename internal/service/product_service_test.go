package service_test

import (
	"context"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dom "inventory/internal/domain"
	"inventory/internal/errs"
	"inventory/internal/service"
)

// fakeProductRepo keeps products in memory and mirrors the Postgres
// repository's contract, including pgx.ErrNoRows for missing rows.
type fakeProductRepo struct {
	byID   map[int64]dom.Product
	nextID int64
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{byID: make(map[int64]dom.Product), nextID: 1}
}

func (f *fakeProductRepo) Create(_ context.Context, p dom.Product) (dom.Product, error) {
	p.ID = f.nextID
	f.nextID++
	p.CreatedAt = time.Now()
	p.UpdatedAt = p.CreatedAt
	f.byID[p.ID] = p
	return p, nil
}

func (f *fakeProductRepo) GetByID(_ context.Context, id int64) (dom.Product, error) {
	p, ok := f.byID[id]
	if !ok {
		return dom.Product{}, pgx.ErrNoRows
	}
	return p, nil
}

func (f *fakeProductRepo) List(_ context.Context) ([]dom.Product, error) {
	return f.all(), nil
}

func (f *fakeProductRepo) Update(_ context.Context, p dom.Product) (dom.Product, error) {
	if _, ok := f.byID[p.ID]; !ok {
		return dom.Product{}, pgx.ErrNoRows
	}
	p.UpdatedAt = time.Now()
	f.byID[p.ID] = p
	return p, nil
}

func (f *fakeProductRepo) Delete(_ context.Context, id int64) (bool, error) {
	if _, ok := f.byID[id]; !ok {
		return false, nil
	}
	delete(f.byID, id)
	return true, nil
}

func (f *fakeProductRepo) Search(_ context.Context, filter dom.ProductFilter, page dom.PageRequest) (dom.Page[dom.Product], error) {
	page = page.Normalize()
	var matched []dom.Product
	for _, p := range f.all() {
		if filter.Name != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(filter.Name)) {
			continue
		}
		if filter.CategoryID != nil && p.CategoryID != *filter.CategoryID {
			continue
		}
		if filter.MinPrice != nil && p.Price.LessThan(*filter.MinPrice) {
			continue
		}
		if filter.MaxPrice != nil && p.Price.GreaterThan(*filter.MaxPrice) {
			continue
		}
		matched = append(matched, p)
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

func (f *fakeProductRepo) ListLowStock(_ context.Context) ([]dom.Product, error) {
	var out []dom.Product
	for _, p := range f.all() {
		if p.LowStock() {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeProductRepo) Stats(_ context.Context) (int64, decimal.Decimal, error) {
	value := decimal.Zero
	for _, p := range f.byID {
		value = value.Add(p.Price.Mul(decimal.NewFromInt(int64(p.Quantity))))
	}
	return int64(len(f.byID)), value, nil
}

func (f *fakeProductRepo) all() []dom.Product {
	out := make([]dom.Product, 0, len(f.byID))
	for _, p := range f.byID {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

type fakeCategoryRepo struct {
	byID map[int64]dom.Category
}

func (f *fakeCategoryRepo) List(_ context.Context) ([]dom.Category, error) {
	out := make([]dom.Category, 0, len(f.byID))
	for _, c := range f.byID {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeCategoryRepo) GetByID(_ context.Context, id int64) (dom.Category, error) {
	c, ok := f.byID[id]
	if !ok {
		return dom.Category{}, pgx.ErrNoRows
	}
	return c, nil
}

func (f *fakeCategoryRepo) Create(_ context.Context, c dom.Category) (dom.Category, error) {
	c.ID = int64(len(f.byID) + 1)
	f.byID[c.ID] = c
	return c, nil
}

type fakeUserRepo struct {
	byID map[int64]dom.User
}

func (f *fakeUserRepo) GetByID(_ context.Context, id int64) (dom.User, error) {
	u, ok := f.byID[id]
	if !ok {
		return dom.User{}, pgx.ErrNoRows
	}
	return u, nil
}

func (f *fakeUserRepo) GetByUsername(_ context.Context, username string) (dom.User, error) {
	for _, u := range f.byID {
		if u.Username == username {
			return u, nil
		}
	}
	return dom.User{}, pgx.ErrNoRows
}

func (f *fakeUserRepo) Create(_ context.Context, u dom.User) (dom.User, error) {
	for _, existing := range f.byID {
		if existing.Username == u.Username || existing.Email == u.Email {
			return dom.User{}, &pgconn.PgError{Code: "23505", ConstraintName: "users_username_key"}
		}
	}
	u.ID = int64(len(f.byID) + 1)
	f.byID[u.ID] = u
	return u, nil
}

func newProductService() (*service.ProductService, *fakeProductRepo) {
	products := newFakeProductRepo()
	categories := &fakeCategoryRepo{byID: map[int64]dom.Category{
		1: {ID: 1, Name: "Electronics", IsActive: true},
		2: {ID: 2, Name: "Office Supplies", IsActive: true},
	}}
	users := &fakeUserRepo{byID: map[int64]dom.User{
		1: {ID: 1, Username: "admin", Role: dom.RoleAdmin, IsActive: true},
	}}
	return service.NewProductService(products, categories, users, nil), products
}

func createInput(name, price string) service.CreateProductInput {
	return service.CreateProductInput{
		Name:        name,
		Price:       decimal.RequireFromString(price),
		Quantity:    20,
		Description: "test item",
		CategoryID:  1,
		CreatedByID: 1,
	}
}

func TestProductService_CreateAndGet(t *testing.T) {
	s, _ := newProductService()
	ctx := context.Background()

	created, err := s.Create(ctx, createInput("Wireless Mouse", "19.99"))
	require.NoError(t, err)
	assert.NotZero(t, created.ID)

	got, err := s.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Wireless Mouse", got.Name)
	assert.True(t, got.Price.Equal(decimal.RequireFromString("19.99")))
	assert.Equal(t, int64(1), got.CategoryID)
	assert.Equal(t, int64(1), got.CreatedByID)
}

func TestProductService_GetByID_NotFound(t *testing.T) {
	s, _ := newProductService()

	_, err := s.GetByID(context.Background(), 42)
	require.Error(t, err)
	assert.Equal(t, errs.KindNotFound, errs.KindOf(err))
	assert.Equal(t, "Product 42 not found", err.Error())
}

func TestProductService_Create_UnknownReferences(t *testing.T) {
	s, products := newProductService()
	ctx := context.Background()

	t.Run("unknown category", func(t *testing.T) {
		in := createInput("Webcam", "59.00")
		in.CategoryID = 999
		_, err := s.Create(ctx, in)
		require.Error(t, err)
		assert.Equal(t, errs.KindNotFound, errs.KindOf(err))
		assert.Equal(t, "Category 999 not found", err.Error())
	})

	t.Run("unknown creator", func(t *testing.T) {
		in := createInput("Webcam", "59.00")
		in.CreatedByID = 7
		_, err := s.Create(ctx, in)
		require.Error(t, err)
		assert.Equal(t, "User 7 not found", err.Error())
	})

	assert.Empty(t, products.byID, "failed creates must not persist")
}

func TestProductService_Create_Invalid(t *testing.T) {
	s, products := newProductService()

	in := createInput("ab", "19.99")
	_, err := s.Create(context.Background(), in)
	require.Error(t, err)
	assert.Equal(t, errs.KindValidation, errs.KindOf(err))
	assert.Empty(t, products.byID)
}

func TestProductService_Update(t *testing.T) {
	s, _ := newProductService()
	ctx := context.Background()

	created, err := s.Create(ctx, createInput("Desk Lamp", "24.50"))
	require.NoError(t, err)

	t.Run("overwrites name, price and quantity", func(t *testing.T) {
		updated, err := s.Update(ctx, created.ID, service.UpdateProductInput{
			Name:     "Desk Lamp v2",
			Price:    decimal.RequireFromString("29.00"),
			Quantity: 5,
		})
		require.NoError(t, err)
		assert.Equal(t, "Desk Lamp v2", updated.Name)
		assert.Equal(t, 5, updated.Quantity)
		assert.Equal(t, created.CategoryID, updated.CategoryID, "nil category input keeps the category")
		assert.Equal(t, created.CreatedByID, updated.CreatedByID)
	})

	t.Run("reassigns category when supplied", func(t *testing.T) {
		cat := int64(2)
		updated, err := s.Update(ctx, created.ID, service.UpdateProductInput{
			Name:       "Desk Lamp v2",
			Price:      decimal.RequireFromString("29.00"),
			Quantity:   5,
			CategoryID: &cat,
		})
		require.NoError(t, err)
		assert.Equal(t, int64(2), updated.CategoryID)
	})

	t.Run("unknown category leaves the product unchanged", func(t *testing.T) {
		before, err := s.GetByID(ctx, created.ID)
		require.NoError(t, err)

		cat := int64(999)
		_, err = s.Update(ctx, created.ID, service.UpdateProductInput{
			Name:       "Renamed",
			Price:      decimal.RequireFromString("1.00"),
			Quantity:   1,
			CategoryID: &cat,
		})
		require.Error(t, err)
		assert.Equal(t, "Category 999 not found", err.Error())

		after, err := s.GetByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, before, after)
	})

	t.Run("missing product", func(t *testing.T) {
		_, err := s.Update(ctx, 999, service.UpdateProductInput{
			Name:  "Ghost",
			Price: decimal.RequireFromString("1.00"),
		})
		require.Error(t, err)
		assert.Equal(t, errs.KindNotFound, errs.KindOf(err))
	})
}

func TestProductService_Delete(t *testing.T) {
	s, _ := newProductService()
	ctx := context.Background()

	created, err := s.Create(ctx, createInput("Notebook", "3.20"))
	require.NoError(t, err)

	require.NoError(t, s.Delete(ctx, created.ID))

	_, err = s.GetByID(ctx, created.ID)
	assert.Equal(t, errs.KindNotFound, errs.KindOf(err))

	err = s.Delete(ctx, 999)
	require.Error(t, err)
	assert.Equal(t, errs.KindNotFound, errs.KindOf(err))
	assert.Equal(t, "Product 999 not found", err.Error())
}

func TestProductService_Search(t *testing.T) {
	s, _ := newProductService()
	ctx := context.Background()

	seed := []struct {
		name     string
		price    string
		category int64
	}{
		{"USB Cable", "4.99", 1},
		{"USB Hub", "24.99", 1},
		{"HDMI Cable", "9.99", 1},
		{"Stapler", "7.50", 2},
		{"USB Desk Fan", "12.00", 2},
	}
	for _, p := range seed {
		in := createInput(p.name, p.price)
		in.CategoryID = p.category
		_, err := s.Create(ctx, in)
		require.NoError(t, err)
	}

	names := func(page dom.Page[dom.Product]) []string {
		out := make([]string, 0, len(page.Items))
		for _, p := range page.Items {
			out = append(out, p.Name)
		}
		return out
	}

	t.Run("empty filter returns everything", func(t *testing.T) {
		page, err := s.Search(ctx, dom.ProductFilter{}, dom.PageRequest{})
		require.NoError(t, err)
		assert.Equal(t, int64(5), page.TotalItems)
	})

	t.Run("name match is case-insensitive substring", func(t *testing.T) {
		page, err := s.Search(ctx, dom.ProductFilter{Name: "usb"}, dom.PageRequest{})
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"USB Cable", "USB Hub", "USB Desk Fan"}, names(page))
	})

	t.Run("filters combine conjunctively", func(t *testing.T) {
		cat := int64(1)
		min := decimal.RequireFromString("5.00")
		page, err := s.Search(ctx, dom.ProductFilter{Name: "usb", CategoryID: &cat, MinPrice: &min}, dom.PageRequest{})
		require.NoError(t, err)
		assert.Equal(t, []string{"USB Hub"}, names(page))
	})

	t.Run("narrower filter returns a subset", func(t *testing.T) {
		broad, err := s.Search(ctx, dom.ProductFilter{Name: "usb"}, dom.PageRequest{})
		require.NoError(t, err)
		cat := int64(1)
		narrow, err := s.Search(ctx, dom.ProductFilter{Name: "usb", CategoryID: &cat}, dom.PageRequest{})
		require.NoError(t, err)
		assert.Subset(t, names(broad), names(narrow))
		assert.Less(t, narrow.TotalItems, broad.TotalItems)
	})

	t.Run("price range", func(t *testing.T) {
		min := decimal.RequireFromString("7.00")
		max := decimal.RequireFromString("13.00")
		page, err := s.Search(ctx, dom.ProductFilter{MinPrice: &min, MaxPrice: &max}, dom.PageRequest{})
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"HDMI Cable", "Stapler", "USB Desk Fan"}, names(page))
	})

	t.Run("pagination", func(t *testing.T) {
		first, err := s.Search(ctx, dom.ProductFilter{}, dom.PageRequest{Page: 0, Size: 2})
		require.NoError(t, err)
		assert.Len(t, first.Items, 2)
		assert.Equal(t, int64(5), first.TotalItems)
		assert.Equal(t, 3, first.TotalPages)

		last, err := s.Search(ctx, dom.ProductFilter{}, dom.PageRequest{Page: 2, Size: 2})
		require.NoError(t, err)
		assert.Len(t, last.Items, 1)
	})

	t.Run("no match yields an empty page", func(t *testing.T) {
		page, err := s.Search(ctx, dom.ProductFilter{Name: "projector"}, dom.PageRequest{})
		require.NoError(t, err)
		assert.Empty(t, page.Items)
		assert.Equal(t, int64(0), page.TotalItems)
	})
}

func TestProductService_StockOperations(t *testing.T) {
	s, _ := newProductService()
	ctx := context.Background()

	created, err := s.Create(ctx, createInput("Monitor Stand", "35.00"))
	require.NoError(t, err)
	require.Equal(t, 20, created.Quantity)

	t.Run("increase", func(t *testing.T) {
		p, err := s.IncreaseStock(ctx, created.ID, 10)
		require.NoError(t, err)
		assert.Equal(t, 30, p.Quantity)
	})

	t.Run("decrease beyond available fails and persists nothing", func(t *testing.T) {
		_, err := s.DecreaseStock(ctx, created.ID, 31)
		require.Error(t, err)
		assert.Equal(t, errs.KindInvalidArgument, errs.KindOf(err))

		p, err := s.GetByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, 30, p.Quantity)
	})

	t.Run("decrease", func(t *testing.T) {
		p, err := s.DecreaseStock(ctx, created.ID, 30)
		require.NoError(t, err)
		assert.Equal(t, 0, p.Quantity)
	})

	t.Run("set", func(t *testing.T) {
		p, err := s.SetStock(ctx, created.ID, 7)
		require.NoError(t, err)
		assert.Equal(t, 7, p.Quantity)
	})

	t.Run("unknown product", func(t *testing.T) {
		_, err := s.IncreaseStock(ctx, 999, 1)
		assert.Equal(t, errs.KindNotFound, errs.KindOf(err))
	})
}

func TestProductService_LowStockAndStats(t *testing.T) {
	s, _ := newProductService()
	ctx := context.Background()

	quantities := map[string]int{"Full Box": 50, "Last Few": 3, "Gone": 0}
	for name, q := range quantities {
		in := createInput(name, "10.00")
		in.Quantity = q
		_, err := s.Create(ctx, in)
		require.NoError(t, err)
	}

	low, err := s.LowStock(ctx)
	require.NoError(t, err)
	require.Len(t, low, 1)
	assert.Equal(t, "Last Few", low[0].Name)

	count, value, err := s.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
	assert.True(t, value.Equal(decimal.RequireFromString("530.00")), "got %s", value)
}
