package domain

import (
	"strings"
	"time"
	"unicode/utf8"

	"inventory/internal/errs"
)

const CategoryNameMaxLen = 100

// Category groups products. Name is unique at the persistence layer.
type Category struct {
	ID          int64
	Name        string
	Description string
	IsActive    bool
	CreatedAt   time.Time
}

// Validate checks the name invariants.
func (c *Category) Validate() error {
	name := strings.TrimSpace(c.Name)
	if name == "" {
		return errs.Validation("Category name is required")
	}
	if utf8.RuneCountInString(name) > CategoryNameMaxLen {
		return errs.Validation("Category name must not exceed %d characters", CategoryNameMaxLen)
	}
	return nil
}
