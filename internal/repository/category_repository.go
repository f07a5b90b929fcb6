package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/mall-service/internal/domain"
)

// CategoryRepository defines persistence access for the category forest.
type CategoryRepository interface {
	Create(ctx context.Context, category *domain.Category) error
	Rename(ctx context.Context, id int64, name string) error
	GetByID(ctx context.Context, id int64) (*domain.Category, error)
	ListByParent(ctx context.Context, parentID int64) ([]domain.Category, error)
}

type categoryRepository struct {
	pool *pgxpool.Pool
}

// NewCategoryRepository returns a Postgres-backed implementation.
func NewCategoryRepository(pool *pgxpool.Pool) CategoryRepository {
	return &categoryRepository{pool: pool}
}

func (r *categoryRepository) Create(ctx context.Context, category *domain.Category) error {
	const query = `
        INSERT INTO categories (parent_id, name, status, sort_order)
        VALUES ($1, $2, $3, $4)
        RETURNING id, created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		category.ParentID,
		category.Name,
		category.Status,
		category.SortOrder,
	).Scan(&category.ID, &category.CreatedAt, &category.UpdatedAt)
}

func (r *categoryRepository) Rename(ctx context.Context, id int64, name string) error {
	const query = `UPDATE categories SET name=$1, updated_at=NOW() WHERE id=$2`

	cmd, err := r.pool.Exec(ctx, query, name, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *categoryRepository) GetByID(ctx context.Context, id int64) (*domain.Category, error) {
	const query = `
        SELECT id, parent_id, name, status, sort_order, created_at, updated_at
        FROM categories WHERE id=$1`

	var category domain.Category
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&category.ID,
		&category.ParentID,
		&category.Name,
		&category.Status,
		&category.SortOrder,
		&category.CreatedAt,
		&category.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *categoryRepository) ListByParent(ctx context.Context, parentID int64) ([]domain.Category, error) {
	const query = `
        SELECT id, parent_id, name, status, sort_order, created_at, updated_at
        FROM categories WHERE parent_id=$1
        ORDER BY sort_order, id`

	rows, err := r.pool.Query(ctx, query, parentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []domain.Category
	for rows.Next() {
		var category domain.Category
		if err := rows.Scan(
			&category.ID,
			&category.ParentID,
			&category.Name,
			&category.Status,
			&category.SortOrder,
			&category.CreatedAt,
			&category.UpdatedAt,
		); err != nil {
			return nil, err
		}
		categories = append(categories, category)
	}
	return categories, rows.Err()
}
