package handlers

import (
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/mall-service/internal/api/dto"
	"github.com/spec-kit/mall-service/internal/domain"
	"github.com/spec-kit/mall-service/internal/service"
)

// ProductHandler exposes the admin product endpoints.
type ProductHandler struct {
	products *service.ProductService
}

// NewProductHandler constructs handler.
func NewProductHandler(productService *service.ProductService) *ProductHandler {
	return &ProductHandler{products: productService}
}

// Save handles POST /manage/product/save.
func (h *ProductHandler) Save(c *fiber.Ctx) error {
	var req dto.SaveProductRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	product, err := h.products.SaveProduct(c.UserContext(), req.ToDomain(), actorFromContext(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewProductResponse(product)})
}

// SetSaleStatus handles PUT /manage/product/sale-status.
func (h *ProductHandler) SetSaleStatus(c *fiber.Ctx) error {
	var req dto.SetSaleStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	if err := h.products.SetSaleStatus(c.UserContext(), req.ProductID, domain.ProductStatus(req.Status), actorFromContext(c)); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"status": "updated"}})
}

// Detail handles GET /manage/product/:id.
func (h *ProductHandler) Detail(c *fiber.Ctx) error {
	productID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid product id")
	}

	product, err := h.products.GetProduct(c.UserContext(), productID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewProductResponse(product)})
}
