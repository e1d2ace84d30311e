/**
 * @description
 * Authentication middleware for Supabase-issued JWTs.
 * Validates Bearer tokens against the project JWKS (RS256) or, when a shared
 * secret is configured instead, verifies HS256 signatures directly.
 *
 * @dependencies
 * - github.com/gofiber/fiber/v2: HTTP Context
 * - github.com/golang-jwt/jwt/v5: JWT parsing
 * - github.com/MicahParks/keyfunc/v2: JWKS fetching and caching
 *
 * @notes
 * - Requires SUPABASE_JWKS_URL or SUPABASE_JWT_SECRET in configuration.
 * - Caches JWKS keys to prevent excessive network calls.
 */

package middleware

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/MicahParks/keyfunc/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/halodompet/backend/internal/config"
	"github.com/halodompet/backend/internal/logger"
)

// AuthMiddlewareConfig holds the token verification material
type AuthMiddlewareConfig struct {
	JWKS   *keyfunc.JWKS
	Secret []byte
}

var mwConfig *AuthMiddlewareConfig

// InitAuthMiddleware initializes the JWKS cache or the HS256 secret.
// Should be called at startup.
func InitAuthMiddleware(cfg *config.Config) error {
	mwConfig = &AuthMiddlewareConfig{}

	if cfg.Auth.JWTSecret != "" {
		mwConfig.Secret = []byte(cfg.Auth.JWTSecret)
	}

	if cfg.Auth.JWKSURL == "" {
		if mwConfig.Secret == nil {
			logger.Info("⚠️ Warning: no SUPABASE_JWKS_URL or SUPABASE_JWT_SECRET. Auth validation will fail if not mocked.")
		}
		return nil
	}

	// Create the JWKS from the resource at the given URL.
	// Refresh the JWKS every hour.
	jwks, err := keyfunc.Get(cfg.Auth.JWKSURL, keyfunc.Options{
		RefreshInterval: time.Hour,
		RefreshErrorHandler: func(err error) {
			logger.Error("There was an error with the JWKS refresh: %v", err)
		},
	})
	if err != nil {
		return err
	}

	mwConfig.JWKS = jwks
	logger.Info("✅ Auth Middleware Initialized with JWKS")
	return nil
}

// SetTestConfig installs verification material directly. Test hook only.
func SetTestConfig(secret []byte) {
	mwConfig = &AuthMiddlewareConfig{Secret: secret}
}

func keyFunc(token *jwt.Token) (interface{}, error) {
	if mwConfig.JWKS != nil {
		return mwConfig.JWKS.Keyfunc(token)
	}
	if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
	}
	return mwConfig.Secret, nil
}

// Protected protects routes requiring authentication
func Protected() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if mwConfig == nil || (mwConfig.JWKS == nil && mwConfig.Secret == nil) {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"success": false,
				"error":   "Auth configuration not initialized",
			})
		}

		// 1. Get Token from Header
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"success": false, "error": "Sesi tidak ditemukan. Silakan masuk kembali."})
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"success": false, "error": "Format token tidak valid."})
		}

		// 2. Parse and Validate Token
		token, err := jwt.Parse(tokenString, keyFunc)
		if err != nil || !token.Valid {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"success": false, "error": "Sesi tidak valid atau telah berakhir."})
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"success": false, "error": "Sesi tidak valid atau telah berakhir."})
		}

		// 3. Extract Subject
		sub, ok := claims["sub"].(string)
		if !ok || sub == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"success": false, "error": "Sesi tidak valid atau telah berakhir."})
		}

		// 4. Set Auth ID in Context
		c.Locals("auth_id", sub)

		return c.Next()
	}
}

// GetAuthID returns the authenticated subject from context
func GetAuthID(c *fiber.Ctx) (string, error) {
	id, ok := c.Locals("auth_id").(string)
	if !ok || id == "" {
		return "", errors.New("auth id not found in context")
	}
	return id, nil
}
