package dto

import (
	"time"

	"github.com/spec-kit/mall-service/internal/domain"
)

// AddCategoryRequest payload for category creation.
type AddCategoryRequest struct {
	Name     string `json:"name"`
	ParentID int64  `json:"parent_id"`
}

// RenameCategoryRequest payload for renaming.
type RenameCategoryRequest struct {
	CategoryID int64  `json:"category_id"`
	Name       string `json:"name"`
}

// CategoryResponse is the outward category representation.
type CategoryResponse struct {
	ID        int64     `json:"id"`
	ParentID  int64     `json:"parent_id"`
	Name      string    `json:"name"`
	Status    bool      `json:"status"`
	SortOrder int       `json:"sort_order"`
	CreatedAt time.Time `json:"created_at"`
}

// NewCategoryResponse maps a domain category.
func NewCategoryResponse(category *domain.Category) CategoryResponse {
	return CategoryResponse{
		ID:        category.ID,
		ParentID:  category.ParentID,
		Name:      category.Name,
		Status:    category.Status,
		SortOrder: category.SortOrder,
		CreatedAt: category.CreatedAt,
	}
}

// NewCategoryListResponse maps a slice of categories.
func NewCategoryListResponse(categories []domain.Category) []CategoryResponse {
	out := make([]CategoryResponse, 0, len(categories))
	for i := range categories {
		out = append(out, NewCategoryResponse(&categories[i]))
	}
	return out
}
