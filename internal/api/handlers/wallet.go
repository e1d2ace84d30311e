/**
 * @description
 * HTTP handlers for wallet management.
 * GET returns the cached dashboard summary; mutations go through the wallet
 * service, which owns the default-wallet invariant and cache invalidation.
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
	"github.com/halodompet/backend/internal/logger"
	"github.com/halodompet/backend/internal/services"
)

type WalletHandler struct {
	Wallets *services.WalletService
	Users   *services.UserService
}

func NewWalletHandler(wallets *services.WalletService, users *services.UserService) *WalletHandler {
	return &WalletHandler{Wallets: wallets, Users: users}
}

// GetWallets returns all wallets plus total balance and monthly growth.
// GET /api/wallet
func (h *WalletHandler) GetWallets(c *fiber.Ctx) error {
	user, err := requireUser(c, h.Users)
	if err != nil {
		return serviceError(c, err)
	}

	summary, err := h.Wallets.Summary(c.Context(), user.ID)
	if err != nil {
		logger.Error("GetWallets: summary failed for user %s: %v", user.ID, err)
		return serviceError(c, err)
	}

	return c.JSON(fiber.Map{
		"success":          true,
		"wallets":          summary.Wallets,
		"totalBalance":     summary.TotalBalance,
		"growthPercentage": summary.GrowthPercentage,
	})
}

// CreateWallet adds a wallet.
// POST /api/wallet
func (h *WalletHandler) CreateWallet(c *fiber.Ctx) error {
	user, err := requireUser(c, h.Users)
	if err != nil {
		return serviceError(c, err)
	}

	var input services.WalletInput
	if err := c.BodyParser(&input); err != nil {
		return badRequest(c, "Format permintaan tidak valid.")
	}
	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" {
		return badRequest(c, "Nama dompet wajib diisi.")
	}
	if input.Balance.IsNegative() {
		return badRequest(c, "Saldo awal tidak boleh negatif.")
	}

	wallet, err := h.Wallets.Create(c.Context(), user.ID, input)
	if err != nil {
		logger.Error("CreateWallet: failed for user %s: %v", user.ID, err)
		return serviceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"wallet":  wallet,
	})
}

// UpdateWallet patches a wallet.
// PUT /api/wallet/:id
func (h *WalletHandler) UpdateWallet(c *fiber.Ctx) error {
	user, err := requireUser(c, h.Users)
	if err != nil {
		return serviceError(c, err)
	}

	walletID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "ID dompet tidak valid.")
	}

	var patch services.WalletPatch
	if err := c.BodyParser(&patch); err != nil {
		return badRequest(c, "Format permintaan tidak valid.")
	}

	wallet, err := h.Wallets.Update(c.Context(), user.ID, walletID, patch)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"wallet":  wallet,
	})
}

// DeleteWallet removes a non-default wallet.
// DELETE /api/wallet/:id
func (h *WalletHandler) DeleteWallet(c *fiber.Ctx) error {
	user, err := requireUser(c, h.Users)
	if err != nil {
		return serviceError(c, err)
	}

	walletID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "ID dompet tidak valid.")
	}

	if err := h.Wallets.Delete(c.Context(), user.ID, walletID); err != nil {
		return serviceError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Dompet berhasil dihapus.",
	})
}
