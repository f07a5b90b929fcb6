package service

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/mall-service/internal/domain"
	"github.com/spec-kit/mall-service/internal/events"
	"github.com/spec-kit/mall-service/internal/repository"
	apperrors "github.com/spec-kit/mall-service/pkg/util"
)

// ProductService manages catalog items for the back office.
type ProductService struct {
	products   repository.ProductRepository
	dispatcher events.Dispatcher
}

// NewProductService builds the service.
func NewProductService(products repository.ProductRepository, dispatcher events.Dispatcher) *ProductService {
	return &ProductService{products: products, dispatcher: dispatcher}
}

// SaveProduct inserts a new product or, when an id is present, updates the
// existing row.
func (s *ProductService) SaveProduct(ctx context.Context, product *domain.Product, actor events.Actor) (*domain.Product, error) {
	if product == nil || strings.TrimSpace(product.Name) == "" {
		return nil, apperrors.NewValidationError("product name required", nil)
	}
	if product.Status == 0 {
		product.Status = domain.ProductStatusOnSale
	}
	if !product.Status.Valid() {
		return nil, apperrors.NewValidationError("invalid product status", nil)
	}

	created := product.ID == 0
	if created {
		if err := s.products.Create(ctx, product); err != nil {
			return nil, apperrors.NewOperationFailed("failed to save product")
		}
	} else {
		if err := s.products.Update(ctx, product); err != nil {
			if err == pgx.ErrNoRows {
				return nil, apperrors.NewOperationFailed("failed to update product")
			}
			return nil, err
		}
	}

	s.publish(ctx, events.NewEvent(events.EventProductSaved, actor,
		events.ProductSavedPayload{ProductID: product.ID, CategoryID: product.CategoryID, Name: product.Name, Created: created}))

	return product, nil
}

// SetSaleStatus toggles a product's sale state.
func (s *ProductService) SetSaleStatus(ctx context.Context, productID int64, status domain.ProductStatus, actor events.Actor) error {
	if productID <= 0 || !status.Valid() {
		return apperrors.NewValidationError("product id and a valid status required", nil)
	}

	if err := s.products.SetSaleStatus(ctx, productID, status); err != nil {
		if err == pgx.ErrNoRows {
			return apperrors.NewOperationFailed("failed to update sale status")
		}
		return err
	}

	s.publish(ctx, events.NewEvent(events.EventProductStatusChanged, actor,
		events.ProductStatusChangedPayload{ProductID: productID, Status: int(status)}))

	return nil
}

// GetProduct loads product detail for the admin console.
func (s *ProductService) GetProduct(ctx context.Context, productID int64) (*domain.Product, error) {
	if productID <= 0 {
		return nil, apperrors.NewValidationError("product id required", nil)
	}
	product, err := s.products.GetByID(ctx, productID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("product", nil)
		}
		return nil, err
	}
	return product, nil
}

func (s *ProductService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, event)
}
