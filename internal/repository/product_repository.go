package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/mall-service/internal/domain"
)

// ProductRepository defines persistence access for catalog items.
type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) error
	Update(ctx context.Context, product *domain.Product) error
	SetSaleStatus(ctx context.Context, id int64, status domain.ProductStatus) error
	GetByID(ctx context.Context, id int64) (*domain.Product, error)
}

type productRepository struct {
	pool *pgxpool.Pool
}

// NewProductRepository returns a Postgres-backed implementation.
func NewProductRepository(pool *pgxpool.Pool) ProductRepository {
	return &productRepository{pool: pool}
}

func (r *productRepository) Create(ctx context.Context, product *domain.Product) error {
	const query = `
        INSERT INTO products (category_id, name, subtitle, main_image, detail, price, stock, status)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
        RETURNING id, created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		product.CategoryID,
		product.Name,
		product.Subtitle,
		product.MainImage,
		product.Detail,
		product.Price,
		product.Stock,
		product.Status,
	).Scan(&product.ID, &product.CreatedAt, &product.UpdatedAt)
}

func (r *productRepository) Update(ctx context.Context, product *domain.Product) error {
	const query = `
        UPDATE products
        SET category_id=$1, name=$2, subtitle=$3, main_image=$4, detail=$5, price=$6, stock=$7, status=$8, updated_at=NOW()
        WHERE id=$9`

	cmd, err := r.pool.Exec(ctx, query,
		product.CategoryID,
		product.Name,
		product.Subtitle,
		product.MainImage,
		product.Detail,
		product.Price,
		product.Stock,
		product.Status,
		product.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *productRepository) SetSaleStatus(ctx context.Context, id int64, status domain.ProductStatus) error {
	const query = `UPDATE products SET status=$1, updated_at=NOW() WHERE id=$2`

	cmd, err := r.pool.Exec(ctx, query, status, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *productRepository) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	const query = `
        SELECT id, category_id, name, subtitle, main_image, detail, price, stock, status, created_at, updated_at
        FROM products WHERE id=$1`

	var product domain.Product
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&product.ID,
		&product.CategoryID,
		&product.Name,
		&product.Subtitle,
		&product.MainImage,
		&product.Detail,
		&product.Price,
		&product.Stock,
		&product.Status,
		&product.CreatedAt,
		&product.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &product, nil
}
