/**
 * @description
 * Dashboard access gate. Loads the requester's profile and refuses expired or
 * blocked accounts. The loaded profile is stashed in context so handlers don't
 * re-query it.
 *
 * @dependencies
 * - github.com/gofiber/fiber/v2
 * - gorm.io/gorm
 */

package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/halodompet/backend/internal/models"
	"github.com/halodompet/backend/internal/services"
	"gorm.io/gorm"
)

// RequireActiveAccess refuses dashboard requests from expired or blocked
// accounts. Accounts without a profile row pass through: onboarding creates the
// row and the gate must not dead-lock a brand-new user.
func RequireActiveAccess(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authID, err := GetAuthID(c)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"success": false, "error": "Sesi tidak ditemukan. Silakan masuk kembali."})
		}

		var user models.User
		if err := db.Where("auth_id = ?", authID).First(&user).Error; err != nil {
			return c.Next()
		}

		if services.IsTrialExpired(&user) {
			message := "Masa uji coba Anda telah berakhir. Aktifkan akun untuk melanjutkan."
			if user.AccountStatus == models.AccountStatusBlocked {
				message = "Akun Anda diblokir. Hubungi administrator."
			}
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"success": false, "error": message})
		}

		c.Locals("current_user", &user)
		return c.Next()
	}
}

// GetCurrentUser returns the profile loaded by RequireActiveAccess, if any.
func GetCurrentUser(c *fiber.Ctx) (*models.User, bool) {
	user, ok := c.Locals("current_user").(*models.User)
	return user, ok
}
