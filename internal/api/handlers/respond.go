/**
 * @description
 * Shared response plumbing for handlers: the single place where service-layer
 * sentinel errors become HTTP status codes and localized messages.
 */

package handlers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/halodompet/backend/internal/api/middleware"
	"github.com/halodompet/backend/internal/models"
	"github.com/halodompet/backend/internal/services"
)

// localized pairs the HTTP status with the consumer-facing Indonesian message.
type localized struct {
	status  int
	message string
}

var serviceErrorMap = []struct {
	err error
	localized
}{
	{services.ErrNotFound, localized{fiber.StatusNotFound, "Data tidak ditemukan."}},
	{services.ErrForbidden, localized{fiber.StatusForbidden, "Anda tidak memiliki akses ke data ini."}},
	{services.ErrDefaultWallet, localized{fiber.StatusBadRequest, "Dompet utama tidak dapat dihapus."}},
	{services.ErrSameWallet, localized{fiber.StatusBadRequest, "Dompet sumber dan tujuan tidak boleh sama."}},
	{services.ErrNonPositiveAmount, localized{fiber.StatusBadRequest, "Jumlah harus lebih besar dari nol."}},
	{services.ErrNoAdjustment, localized{fiber.StatusBadRequest, "Saldo sudah sesuai, tidak ada penyesuaian yang diperlukan."}},
	{services.ErrDuplicateCategory, localized{fiber.StatusBadRequest, "Kategori dengan nama tersebut sudah ada."}},
	{services.ErrImmutableAmount, localized{fiber.StatusBadRequest, "Jumlah transaksi transfer atau penyesuaian tidak dapat diubah."}},
}

// serviceError converts a service-layer error into the JSON error response.
// Unknown errors become a generic 500 with the raw message in details.
func serviceError(c *fiber.Ctx, err error) error {
	for _, entry := range serviceErrorMap {
		if errors.Is(err, entry.err) {
			return c.Status(entry.status).JSON(fiber.Map{
				"success": false,
				"error":   entry.message,
			})
		}
	}
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"success": false,
		"error":   "Terjadi kesalahan pada server. Silakan coba lagi.",
		"details": err.Error(),
	})
}

// badRequest answers a validation failure.
func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"success": false,
		"error":   message,
	})
}

// unauthorized answers a missing/invalid session.
func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"success": false,
		"error":   "Sesi tidak ditemukan. Silakan masuk kembali.",
	})
}

// requireUser resolves the requester's profile: from the trial-gate context
// when available, otherwise by auth subject lookup.
func requireUser(c *fiber.Ctx, users *services.UserService) (*models.User, error) {
	if user, ok := middleware.GetCurrentUser(c); ok {
		return user, nil
	}
	authID, err := middleware.GetAuthID(c)
	if err != nil {
		return nil, err
	}
	return users.GetByAuthID(c.Context(), authID)
}

// parseDate accepts RFC3339 timestamps or bare "2006-01-02" dates.
func parseDate(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return &t, nil
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
