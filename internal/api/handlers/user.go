/**
 * @description
 * HTTP handlers for user profile, onboarding, initial-balance recalculation,
 * and the full financial reset.
 *
 * @dependencies
 * - github.com/gofiber/fiber/v2
 * - backend/internal/services
 */

package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/halodompet/backend/internal/api/middleware"
	"github.com/halodompet/backend/internal/logger"
	"github.com/halodompet/backend/internal/models"
	"github.com/halodompet/backend/internal/services"
	"github.com/shopspring/decimal"
)

type UserHandler struct {
	Users   *services.UserService
	Ledger  *services.LedgerService
	Wallets *services.WalletService
}

func NewUserHandler(users *services.UserService, ledger *services.LedgerService, wallets *services.WalletService) *UserHandler {
	return &UserHandler{Users: users, Ledger: ledger, Wallets: wallets}
}

// GetProfile returns the profile plus trial status.
// GET /api/user
func (h *UserHandler) GetProfile(c *fiber.Ctx) error {
	authID, err := middleware.GetAuthID(c)
	if err != nil {
		return unauthorized(c)
	}

	user, err := h.Users.GetByAuthID(c.Context(), authID)
	if err != nil {
		return serviceError(c, err)
	}

	trial := fiber.Map{
		"expired":      services.IsTrialExpired(user),
		"show_warning": services.ShouldShowWarning(user),
	}
	if user.TrialEndsAt != nil {
		trial["days_left"] = services.DaysLeft(*user.TrialEndsAt)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"user":    user,
		"trial":   trial,
	})
}

type onboardRequest struct {
	Email          string          `json:"email"`
	Name           string          `json:"name"`
	Mode           models.UserMode `json:"mode"`
	InitialBalance decimal.Decimal `json:"initial_balance"`
	WalletName     string          `json:"wallet_name"`
}

// Onboard creates the profile row and the default wallet.
// POST /api/user
func (h *UserHandler) Onboard(c *fiber.Ctx) error {
	authID, err := middleware.GetAuthID(c)
	if err != nil {
		return unauthorized(c)
	}

	var req onboardRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Format permintaan tidak valid.")
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return badRequest(c, "Nama wajib diisi.")
	}
	if req.InitialBalance.IsNegative() {
		return badRequest(c, "Saldo awal tidak boleh negatif.")
	}
	if req.Mode != "" && req.Mode != models.UserModeSimple && req.Mode != models.UserModeWebhook {
		return badRequest(c, "Mode tidak valid.")
	}

	user, wallet, err := h.Users.Onboard(c.Context(), authID, services.OnboardInput{
		Email:          req.Email,
		Name:           req.Name,
		Mode:           req.Mode,
		InitialBalance: req.InitialBalance,
		WalletName:     req.WalletName,
	})
	if err != nil {
		logger.Error("Onboard: failed for subject %s: %v", authID, err)
		return serviceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"user":    user,
		"wallet":  wallet,
	})
}

// UpdateProfile patches name/mode.
// PUT /api/user
func (h *UserHandler) UpdateProfile(c *fiber.Ctx) error {
	authID, err := middleware.GetAuthID(c)
	if err != nil {
		return unauthorized(c)
	}

	var patch services.ProfilePatch
	if err := c.BodyParser(&patch); err != nil {
		return badRequest(c, "Format permintaan tidak valid.")
	}
	if patch.Mode != nil && *patch.Mode != models.UserModeSimple && *patch.Mode != models.UserModeWebhook {
		return badRequest(c, "Mode tidak valid.")
	}

	user, err := h.Users.UpdateProfile(c.Context(), authID, patch)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"user":    user,
	})
}

type saldoAwalRequest struct {
	InitialBalance decimal.Decimal `json:"initial_balance"`
}

// UpdateSaldoAwal sets the initial balance and recomputes the cached balance.
// PATCH /api/user/update-saldo-awal
func (h *UserHandler) UpdateSaldoAwal(c *fiber.Ctx) error {
	authID, err := middleware.GetAuthID(c)
	if err != nil {
		return unauthorized(c)
	}

	var req saldoAwalRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Format permintaan tidak valid.")
	}
	if req.InitialBalance.IsNegative() {
		return badRequest(c, "Saldo awal tidak boleh negatif.")
	}

	result, err := h.Users.UpdateSaldoAwal(c.Context(), authID, req.InitialBalance)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(fiber.Map{
		"success":         true,
		"initial_balance": result.InitialBalance,
		"current_balance": result.CurrentBalance,
		"calculation": fiber.Map{
			"total_income":  result.TotalIncome,
			"total_expense": result.TotalExpense,
		},
	})
}

// Reset wipes the user's financial history.
// DELETE /api/user/reset
func (h *UserHandler) Reset(c *fiber.Ctx) error {
	user, err := requireUser(c, h.Users)
	if err != nil {
		return serviceError(c, err)
	}

	result, err := h.Ledger.Reset(c.Context(), user.ID)
	if err != nil {
		logger.Error("Reset: failed for user %s: %v", user.ID, err)
		return serviceError(c, err)
	}

	h.Wallets.InvalidateSummary(c.Context(), user.ID)
	return c.JSON(fiber.Map{
		"success": true,
		"data":    result,
	})
}
