package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/mall-service/internal/api/dto"
	"github.com/spec-kit/mall-service/internal/auth"
	"github.com/spec-kit/mall-service/internal/domain"
	"github.com/spec-kit/mall-service/internal/events"
	"github.com/spec-kit/mall-service/internal/service"
)

// CategoryHandler exposes the admin category endpoints. The router guards
// every route here with the login and admin gates.
type CategoryHandler struct {
	categories *service.CategoryService
}

// NewCategoryHandler constructs handler.
func NewCategoryHandler(categoryService *service.CategoryService) *CategoryHandler {
	return &CategoryHandler{categories: categoryService}
}

// Add handles POST /manage/category.
func (h *CategoryHandler) Add(c *fiber.Ctx) error {
	var req dto.AddCategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	category, err := h.categories.AddCategory(c.UserContext(), req.Name, req.ParentID, actorFromContext(c))
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"data": dto.NewCategoryResponse(category),
	})
}

// Rename handles PUT /manage/category/name.
func (h *CategoryHandler) Rename(c *fiber.Ctx) error {
	var req dto.RenameCategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	if err := h.categories.UpdateCategoryName(c.UserContext(), req.CategoryID, req.Name, actorFromContext(c)); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"status": "renamed"}})
}

// Children handles GET /manage/category/children?parent_id=N (default root).
func (h *CategoryHandler) Children(c *fiber.Ctx) error {
	parentID := int64(c.QueryInt("parent_id", int(domain.RootCategoryID)))

	categories, err := h.categories.GetChildren(c.UserContext(), parentID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewCategoryListResponse(categories)})
}

// Deep handles GET /manage/category/deep?parent_id=N (default root), returning
// every category id in the subtree.
func (h *CategoryHandler) Deep(c *fiber.Ctx) error {
	parentID := int64(c.QueryInt("parent_id", int(domain.RootCategoryID)))

	ids, err := h.categories.DeepCategoryIDs(c.UserContext(), parentID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ids})
}

func actorFromContext(c *fiber.Ctx) events.Actor {
	if user, ok := auth.CurrentUser(c); ok {
		return events.Actor{UserID: user.ID, Username: user.Username}
	}
	return events.Actor{}
}
