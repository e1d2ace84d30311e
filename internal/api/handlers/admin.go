/**
 * @description
 * HTTP handlers for admin account management: activating paid accounts,
 * blocking abusive ones, and extending trials. Every action is written to
 * the audit log.
 *
 * @dependencies
 * - github.com/gofiber/fiber/v2
 * - backend/internal/services
 */

package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/halodompet/backend/internal/api/middleware"
	"github.com/halodompet/backend/internal/services"
)

type AdminHandler struct {
	Users *services.UserService
	Audit *services.AuditService
}

func NewAdminHandler(users *services.UserService, audit *services.AuditService) *AdminHandler {
	return &AdminHandler{Users: users, Audit: audit}
}

type adminTargetRequest struct {
	UserID uuid.UUID `json:"userId"`
}

// ActivateUser marks the target account as fully paid.
// POST /api/admin/activate-user
func (h *AdminHandler) ActivateUser(c *fiber.Ctx) error {
	admin, ok := middleware.GetAdminUser(c)
	if !ok {
		return unauthorized(c)
	}

	var req adminTargetRequest
	if err := c.BodyParser(&req); err != nil || req.UserID == uuid.Nil {
		return badRequest(c, "ID pengguna wajib diisi.")
	}

	user, err := h.Users.Activate(c.Context(), req.UserID)
	if err != nil {
		return serviceError(c, err)
	}

	h.Audit.Record(c.Context(), admin.ID, "activate_user", user.ID, "account activated")
	return c.JSON(fiber.Map{
		"success": true,
		"user":    user,
	})
}

// BlockUser locks the target account out of the app.
// POST /api/admin/block-user
func (h *AdminHandler) BlockUser(c *fiber.Ctx) error {
	admin, ok := middleware.GetAdminUser(c)
	if !ok {
		return unauthorized(c)
	}

	var req adminTargetRequest
	if err := c.BodyParser(&req); err != nil || req.UserID == uuid.Nil {
		return badRequest(c, "ID pengguna wajib diisi.")
	}

	user, err := h.Users.Block(c.Context(), req.UserID)
	if err != nil {
		return serviceError(c, err)
	}

	h.Audit.Record(c.Context(), admin.ID, "block_user", user.ID, "account blocked")
	return c.JSON(fiber.Map{
		"success": true,
		"user":    user,
	})
}

// defaultTrialExtensionDays applies when the request omits "days".
const defaultTrialExtensionDays = 7

type extendTrialRequest struct {
	UserID uuid.UUID `json:"userId"`
	Days   int       `json:"days"`
}

// ExtendTrial pushes the target's trial end date forward.
// POST /api/admin/extend-trial
func (h *AdminHandler) ExtendTrial(c *fiber.Ctx) error {
	admin, ok := middleware.GetAdminUser(c)
	if !ok {
		return unauthorized(c)
	}

	var req extendTrialRequest
	if err := c.BodyParser(&req); err != nil || req.UserID == uuid.Nil {
		return badRequest(c, "ID pengguna wajib diisi.")
	}
	if req.Days < 0 {
		return badRequest(c, "Jumlah hari tidak boleh negatif.")
	}
	if req.Days == 0 {
		req.Days = defaultTrialExtensionDays
	}

	user, err := h.Users.ExtendTrial(c.Context(), req.UserID, req.Days)
	if err != nil {
		return serviceError(c, err)
	}

	h.Audit.Record(c.Context(), admin.ID, "extend_trial", user.ID, fmt.Sprintf("trial extended by %d days", req.Days))
	return c.JSON(fiber.Map{
		"success": true,
		"user":    user,
	})
}
