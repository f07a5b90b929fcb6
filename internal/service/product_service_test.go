package service

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/mall-service/internal/domain"
)

type stubProductRepo struct {
	nextID   int64
	products map[int64]*domain.Product
}

func newStubProductRepo() *stubProductRepo {
	return &stubProductRepo{nextID: 1, products: make(map[int64]*domain.Product)}
}

func (r *stubProductRepo) Create(_ context.Context, product *domain.Product) error {
	product.ID = r.nextID
	r.nextID++
	clone := *product
	r.products[product.ID] = &clone
	return nil
}

func (r *stubProductRepo) Update(_ context.Context, product *domain.Product) error {
	if _, ok := r.products[product.ID]; !ok {
		return pgx.ErrNoRows
	}
	clone := *product
	r.products[product.ID] = &clone
	return nil
}

func (r *stubProductRepo) SetSaleStatus(_ context.Context, id int64, status domain.ProductStatus) error {
	product, ok := r.products[id]
	if !ok {
		return pgx.ErrNoRows
	}
	product.Status = status
	return nil
}

func (r *stubProductRepo) GetByID(_ context.Context, id int64) (*domain.Product, error) {
	product, ok := r.products[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *product
	return &clone, nil
}

func TestSaveProductCreates(t *testing.T) {
	repo := newStubProductRepo()
	svc := NewProductService(repo, nil)

	saved, err := svc.SaveProduct(context.Background(), &domain.Product{
		CategoryID: 3,
		Name:       "phone",
		Price:      1999.00,
	}, actor())
	require.NoError(t, err)
	assert.NotZero(t, saved.ID)
	assert.Equal(t, domain.ProductStatusOnSale, saved.Status, "unset status defaults to on sale")
}

func TestSaveProductUpdates(t *testing.T) {
	repo := newStubProductRepo()
	svc := NewProductService(repo, nil)

	saved, err := svc.SaveProduct(context.Background(), &domain.Product{CategoryID: 3, Name: "phone"}, actor())
	require.NoError(t, err)

	saved.Name = "phone v2"
	_, err = svc.SaveProduct(context.Background(), saved, actor())
	require.NoError(t, err)
	assert.Equal(t, "phone v2", repo.products[saved.ID].Name)

	_, err = svc.SaveProduct(context.Background(), &domain.Product{ID: 99, Name: "ghost"}, actor())
	assert.Error(t, err, "updating a missing product affects zero rows and must fail")
}

func TestSaveProductValidation(t *testing.T) {
	svc := NewProductService(newStubProductRepo(), nil)

	_, err := svc.SaveProduct(context.Background(), nil, actor())
	assert.Error(t, err)

	_, err = svc.SaveProduct(context.Background(), &domain.Product{Name: "  "}, actor())
	assert.Error(t, err)

	_, err = svc.SaveProduct(context.Background(), &domain.Product{Name: "x", Status: 9}, actor())
	assert.Error(t, err, "status outside the known set must be rejected")
}

func TestSetSaleStatus(t *testing.T) {
	repo := newStubProductRepo()
	svc := NewProductService(repo, nil)

	saved, err := svc.SaveProduct(context.Background(), &domain.Product{Name: "phone"}, actor())
	require.NoError(t, err)

	require.NoError(t, svc.SetSaleStatus(context.Background(), saved.ID, domain.ProductStatusOffSale, actor()))
	assert.Equal(t, domain.ProductStatusOffSale, repo.products[saved.ID].Status)

	assert.Error(t, svc.SetSaleStatus(context.Background(), 0, domain.ProductStatusOnSale, actor()))
	assert.Error(t, svc.SetSaleStatus(context.Background(), saved.ID, 9, actor()))
	assert.Error(t, svc.SetSaleStatus(context.Background(), 99, domain.ProductStatusOnSale, actor()))
}

func TestGetProduct(t *testing.T) {
	repo := newStubProductRepo()
	svc := NewProductService(repo, nil)

	saved, err := svc.SaveProduct(context.Background(), &domain.Product{Name: "phone"}, actor())
	require.NoError(t, err)

	got, err := svc.GetProduct(context.Background(), saved.ID)
	require.NoError(t, err)
	assert.Equal(t, "phone", got.Name)

	_, err = svc.GetProduct(context.Background(), 99)
	assert.Error(t, err)

	_, err = svc.GetProduct(context.Background(), 0)
	assert.Error(t, err)
}
