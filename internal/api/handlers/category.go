/**
 * @description
 * HTTP handlers for transaction categories.
 *
 * @dependencies
 * - github.com/gofiber/fiber/v2
 * - backend/internal/services
 */

package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/halodompet/backend/internal/models"
	"github.com/halodompet/backend/internal/services"
)

type CategoryHandler struct {
	Categories *services.CategoryService
	Users      *services.UserService
}

func NewCategoryHandler(categories *services.CategoryService, users *services.UserService) *CategoryHandler {
	return &CategoryHandler{Categories: categories, Users: users}
}

// ListCategories returns shared defaults plus the user's custom categories.
// GET /api/categories?type=expense
func (h *CategoryHandler) ListCategories(c *fiber.Ctx) error {
	user, err := requireUser(c, h.Users)
	if err != nil {
		return serviceError(c, err)
	}

	categoryType := models.CategoryType(c.Query("type"))
	if categoryType != "" && categoryType != models.CategoryTypeIncome && categoryType != models.CategoryTypeExpense {
		return badRequest(c, "Tipe kategori tidak valid.")
	}

	categories, err := h.Categories.List(c.Context(), user.ID, categoryType)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    categories,
	})
}

type createCategoryRequest struct {
	Name string              `json:"name"`
	Type models.CategoryType `json:"type"`
}

// CreateCategory adds a custom category for the user.
// POST /api/categories
func (h *CategoryHandler) CreateCategory(c *fiber.Ctx) error {
	var req createCategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Format permintaan tidak valid.")
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return badRequest(c, "Nama kategori wajib diisi.")
	}
	if req.Type != models.CategoryTypeIncome && req.Type != models.CategoryTypeExpense {
		return badRequest(c, "Tipe kategori tidak valid.")
	}

	user, err := requireUser(c, h.Users)
	if err != nil {
		return serviceError(c, err)
	}

	category, err := h.Categories.Create(c.Context(), user.ID, req.Name, req.Type)
	if err != nil {
		return serviceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    category,
	})
}

type deleteCategoryRequest struct {
	ID uuid.UUID `json:"id"`
}

// DeleteCategory removes a user-owned category. Shared defaults are untouchable.
// DELETE /api/categories
func (h *CategoryHandler) DeleteCategory(c *fiber.Ctx) error {
	var req deleteCategoryRequest
	if err := c.BodyParser(&req); err != nil || req.ID == uuid.Nil {
		return badRequest(c, "ID kategori wajib diisi.")
	}

	user, err := requireUser(c, h.Users)
	if err != nil {
		return serviceError(c, err)
	}

	if err := h.Categories.Delete(c.Context(), user.ID, req.ID); err != nil {
		return serviceError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Kategori berhasil dihapus.",
	})
}
