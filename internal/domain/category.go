package domain

import "time"

// RootCategoryID is the sentinel parent id for top-level categories. It is
// never a stored category itself.
const RootCategoryID int64 = 0

// Category is a node in the product category forest. Categories are never
// deleted, only deactivated via Status.
type Category struct {
	ID        int64
	ParentID  int64
	Name      string
	Status    bool
	SortOrder int
	CreatedAt time.Time
	UpdatedAt time.Time
}
