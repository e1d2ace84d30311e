/**
 * @description
 * HTTP handlers for monthly category budgets.
 *
 * @dependencies
 * - github.com/gofiber/fiber/v2
 * - backend/internal/services
 */

package handlers

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/halodompet/backend/internal/services"
	"github.com/shopspring/decimal"
)

type BudgetHandler struct {
	Budgets *services.BudgetService
	Users   *services.UserService
}

func NewBudgetHandler(budgets *services.BudgetService, users *services.UserService) *BudgetHandler {
	return &BudgetHandler{Budgets: budgets, Users: users}
}

// ListBudgets returns the month's budgets with spent/remaining amounts.
// GET /api/budget?month=2025-09
func (h *BudgetHandler) ListBudgets(c *fiber.Ctx) error {
	user, err := requireUser(c, h.Users)
	if err != nil {
		return serviceError(c, err)
	}

	month := time.Now()
	if raw := c.Query("month"); raw != "" {
		parsed, err := time.Parse("2006-01", raw)
		if err != nil {
			return badRequest(c, "Format bulan tidak valid. Gunakan YYYY-MM.")
		}
		month = parsed
	}

	statuses, err := h.Budgets.List(c.Context(), user.ID, month)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    statuses,
	})
}

type upsertBudgetRequest struct {
	Category string          `json:"category"`
	Amount   decimal.Decimal `json:"amount"`
	Month    string          `json:"month"` // YYYY-MM, defaults to current month
}

// UpsertBudget creates or replaces the budget for (category, month).
// POST /api/budget
func (h *BudgetHandler) UpsertBudget(c *fiber.Ctx) error {
	var req upsertBudgetRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Format permintaan tidak valid.")
	}
	req.Category = strings.TrimSpace(req.Category)
	if req.Category == "" {
		return badRequest(c, "Kategori wajib diisi.")
	}
	if !req.Amount.IsPositive() {
		return badRequest(c, "Jumlah harus lebih besar dari nol.")
	}

	month := time.Now()
	if req.Month != "" {
		parsed, err := time.Parse("2006-01", req.Month)
		if err != nil {
			return badRequest(c, "Format bulan tidak valid. Gunakan YYYY-MM.")
		}
		month = parsed
	}

	user, err := requireUser(c, h.Users)
	if err != nil {
		return serviceError(c, err)
	}

	budget, err := h.Budgets.Upsert(c.Context(), user.ID, req.Category, req.Amount, month)
	if err != nil {
		return serviceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    budget,
	})
}

// DeleteBudget removes a budget.
// DELETE /api/budget/:id
func (h *BudgetHandler) DeleteBudget(c *fiber.Ctx) error {
	budgetID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "ID anggaran tidak valid.")
	}

	user, err := requireUser(c, h.Users)
	if err != nil {
		return serviceError(c, err)
	}

	if err := h.Budgets.Delete(c.Context(), user.ID, budgetID); err != nil {
		return serviceError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Anggaran berhasil dihapus.",
	})
}
