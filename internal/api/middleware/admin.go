/**
 * @description
 * Admin gate. Re-reads the user's role from the database on each request so a
 * demoted admin loses access immediately, not at token expiry.
 *
 * @dependencies
 * - github.com/gofiber/fiber/v2
 * - gorm.io/gorm
 */

package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/halodompet/backend/internal/models"
	"gorm.io/gorm"
)

// RequireAdmin allows only users whose role is "admin".
func RequireAdmin(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authID, err := GetAuthID(c)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"success": false, "error": "Sesi tidak ditemukan. Silakan masuk kembali."})
		}

		var user models.User
		if err := db.Where("auth_id = ?", authID).First(&user).Error; err != nil {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"success": false, "error": "Akses admin diperlukan."})
		}
		if user.Role != "admin" {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"success": false, "error": "Akses admin diperlukan."})
		}

		c.Locals("admin_user", &user)
		return c.Next()
	}
}

// GetAdminUser returns the admin's profile loaded by RequireAdmin.
func GetAdminUser(c *fiber.Ctx) (*models.User, bool) {
	user, ok := c.Locals("admin_user").(*models.User)
	return user, ok
}
