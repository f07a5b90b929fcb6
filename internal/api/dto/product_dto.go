package dto

import (
	"time"

	"github.com/spec-kit/mall-service/internal/domain"
)

// SaveProductRequest inserts or, when ID is set, updates a product.
type SaveProductRequest struct {
	ID         int64   `json:"id"`
	CategoryID int64   `json:"category_id"`
	Name       string  `json:"name"`
	Subtitle   string  `json:"subtitle"`
	MainImage  string  `json:"main_image"`
	Detail     string  `json:"detail"`
	Price      float64 `json:"price"`
	Stock      int     `json:"stock"`
	Status     int     `json:"status"`
}

// ToDomain maps the request onto a domain product.
func (r SaveProductRequest) ToDomain() *domain.Product {
	return &domain.Product{
		ID:         r.ID,
		CategoryID: r.CategoryID,
		Name:       r.Name,
		Subtitle:   r.Subtitle,
		MainImage:  r.MainImage,
		Detail:     r.Detail,
		Price:      r.Price,
		Stock:      r.Stock,
		Status:     domain.ProductStatus(r.Status),
	}
}

// SetSaleStatusRequest toggles a product's sale state.
type SetSaleStatusRequest struct {
	ProductID int64 `json:"product_id"`
	Status    int   `json:"status"`
}

// ProductResponse is the outward product representation.
type ProductResponse struct {
	ID         int64     `json:"id"`
	CategoryID int64     `json:"category_id"`
	Name       string    `json:"name"`
	Subtitle   string    `json:"subtitle"`
	MainImage  string    `json:"main_image"`
	Detail     string    `json:"detail"`
	Price      float64   `json:"price"`
	Stock      int       `json:"stock"`
	Status     int       `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
}

// NewProductResponse maps a domain product.
func NewProductResponse(product *domain.Product) ProductResponse {
	return ProductResponse{
		ID:         product.ID,
		CategoryID: product.CategoryID,
		Name:       product.Name,
		Subtitle:   product.Subtitle,
		MainImage:  product.MainImage,
		Detail:     product.Detail,
		Price:      product.Price,
		Stock:      product.Stock,
		Status:     int(product.Status),
		CreatedAt:  product.CreatedAt,
	}
}
