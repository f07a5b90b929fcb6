package service

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/mall-service/internal/domain"
	"github.com/spec-kit/mall-service/internal/events"
	"github.com/spec-kit/mall-service/internal/repository"
	apperrors "github.com/spec-kit/mall-service/pkg/util"
)

// CategoryService manages the category forest.
type CategoryService struct {
	categories repository.CategoryRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewCategoryService builds the service.
func NewCategoryService(categories repository.CategoryRepository, dispatcher events.Dispatcher, logger *zap.Logger) *CategoryService {
	return &CategoryService{categories: categories, dispatcher: dispatcher, logger: logger}
}

// AddCategory inserts a new active category under parentID.
func (s *CategoryService) AddCategory(ctx context.Context, name string, parentID int64, actor events.Actor) (*domain.Category, error) {
	if strings.TrimSpace(name) == "" || parentID < 0 {
		return nil, apperrors.NewValidationError("category name and parent id required", nil)
	}

	category := &domain.Category{
		ParentID: parentID,
		Name:     name,
		Status:   true,
	}
	if err := s.categories.Create(ctx, category); err != nil {
		return nil, apperrors.NewOperationFailed("failed to add category")
	}

	s.publish(ctx, events.NewEvent(events.EventCategoryCreated, actor,
		events.CategoryCreatedPayload{CategoryID: category.ID, ParentID: category.ParentID, Name: category.Name}))

	return category, nil
}

// UpdateCategoryName renames a category; only the name field changes.
func (s *CategoryService) UpdateCategoryName(ctx context.Context, id int64, name string, actor events.Actor) error {
	if id <= 0 || strings.TrimSpace(name) == "" {
		return apperrors.NewValidationError("category id and name required", nil)
	}

	if err := s.categories.Rename(ctx, id, name); err != nil {
		if err == pgx.ErrNoRows {
			return apperrors.NewOperationFailed("failed to update category name")
		}
		return err
	}

	s.publish(ctx, events.NewEvent(events.EventCategoryRenamed, actor,
		events.CategoryRenamedPayload{CategoryID: id, Name: name}))

	return nil
}

// GetChildren lists the direct children of parentID. An empty list is a
// normal outcome.
func (s *CategoryService) GetChildren(ctx context.Context, parentID int64) ([]domain.Category, error) {
	categories, err := s.categories.ListByParent(ctx, parentID)
	if err != nil {
		return nil, err
	}
	if len(categories) == 0 {
		s.logger.Info("no categories under parent", zap.Int64("parent_id", parentID))
	}
	return categories, nil
}

// DeepCategoryIDs collects the ids of the subtree rooted at parentID: the node
// itself, if stored, plus every descendant. The walk uses an explicit stack so
// pathological depth cannot exhaust the goroutine stack, and the visited set
// both deduplicates and terminates malformed cyclic data.
func (s *CategoryService) DeepCategoryIDs(ctx context.Context, parentID int64) ([]int64, error) {
	visited := make(map[int64]struct{})
	ids := make([]int64, 0)
	stack := []int64{parentID}

	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if _, seen := visited[id]; seen {
			continue
		}
		visited[id] = struct{}{}

		category, err := s.categories.GetByID(ctx, id)
		if err != nil && err != pgx.ErrNoRows {
			return nil, err
		}
		if err == nil {
			// the root sentinel is not a stored category and never lands here
			ids = append(ids, category.ID)
		}

		children, err := s.categories.ListByParent(ctx, id)
		if err != nil {
			return nil, err
		}
		for _, child := range children {
			if _, seen := visited[child.ID]; !seen {
				stack = append(stack, child.ID)
			}
		}
	}

	return ids, nil
}

func (s *CategoryService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, event)
}
