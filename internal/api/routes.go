/**
 * @description
 * API Route definitions.
 * Sets up the router groups, wires services into handlers, and assigns
 * middleware: Protected() for authenticated routes, RequireActiveAccess
 * for routes gated by trial status, RequireAdmin for the admin group.
 *
 * @dependencies
 * - github.com/gofiber/fiber/v2
 * - backend/internal/api/handlers
 * - backend/internal/api/middleware
 * - backend/internal/services
 * - backend/internal/integrations/gemini
 */

package api

import (
	"context"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/halodompet/backend/internal/api/handlers"
	"github.com/halodompet/backend/internal/api/middleware"
	"github.com/halodompet/backend/internal/config"
	"github.com/halodompet/backend/internal/integrations/gemini"
	"github.com/halodompet/backend/internal/services"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// SetupRoutes configures all API routes
func SetupRoutes(app *fiber.App, db *gorm.DB, rdb *redis.Client, cfg *config.Config) {
	// 1. Initialize Middleware
	if err := middleware.InitAuthMiddleware(cfg); err != nil {
		log.Printf("Failed to init auth middleware: %v", err)
		// We don't panic here to allow app to start in dev modes without valid keys,
		// but protected routes will fail.
	}

	// 2. Initialize Services
	geminiClient := gemini.NewClient(cfg)
	userService := services.NewUserService(db, cfg.Services.TrialDays)
	walletService := services.NewWalletService(db, rdb)
	ledgerService := services.NewLedgerService(db)
	transactionService := services.NewTransactionService(db)
	categoryService := services.NewCategoryService(db)
	budgetService := services.NewBudgetService(db)
	auditService := services.NewAuditService(db)

	if err := categoryService.SeedDefaults(context.Background()); err != nil {
		log.Printf("Failed to seed default categories: %v", err)
	}

	// 3. Initialize Handlers
	userHandler := handlers.NewUserHandler(userService, ledgerService, walletService)
	walletHandler := handlers.NewWalletHandler(walletService, userService)
	transactionHandler := handlers.NewTransactionHandler(ledgerService, transactionService, walletService, userService, geminiClient)
	categoryHandler := handlers.NewCategoryHandler(categoryService, userService)
	budgetHandler := handlers.NewBudgetHandler(budgetService, userService)
	adminHandler := handlers.NewAdminHandler(userService, auditService)
	sttHandler := handlers.NewSTTHandler(geminiClient)

	// 4. Define Routes
	api := app.Group("/api")

	// Public Routes
	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	api.Post("/demo/stt", sttHandler.Transcribe)

	// User Routes (Protected, not trial-gated so onboarding and the
	// expiry screen keep working)
	user := api.Group("/user", middleware.Protected())
	user.Get("/", userHandler.GetProfile)
	user.Post("/", userHandler.Onboard)
	user.Put("/", userHandler.UpdateProfile)
	user.Patch("/update-saldo-awal", userHandler.UpdateSaldoAwal)
	user.Delete("/reset", userHandler.Reset)

	// STT (Protected)
	api.Post("/stt", middleware.Protected(), sttHandler.Transcribe)

	// Wallet Routes (Protected + trial gate)
	wallet := api.Group("/wallet", middleware.Protected(), middleware.RequireActiveAccess(db))
	wallet.Get("/", walletHandler.GetWallets)
	wallet.Post("/", walletHandler.CreateWallet)
	wallet.Put("/:id", walletHandler.UpdateWallet)
	wallet.Delete("/:id", walletHandler.DeleteWallet)

	// Transaction Routes (Protected + trial gate)
	transaction := api.Group("/transaction", middleware.Protected(), middleware.RequireActiveAccess(db))
	transaction.Get("/", transactionHandler.ListTransactions)
	transaction.Post("/income", transactionHandler.CreateIncome)
	transaction.Post("/expense", transactionHandler.CreateExpense)
	transaction.Post("/transfer", transactionHandler.Transfer)
	transaction.Post("/adjustment", transactionHandler.Adjustment)
	transaction.Post("/voice", transactionHandler.CreateFromVoice)
	transaction.Get("/:id", transactionHandler.GetTransaction)
	transaction.Put("/:id", transactionHandler.UpdateTransaction)
	transaction.Delete("/:id", transactionHandler.DeleteTransaction)

	// Category Routes (Protected + trial gate)
	categories := api.Group("/categories", middleware.Protected(), middleware.RequireActiveAccess(db))
	categories.Get("/", categoryHandler.ListCategories)
	categories.Post("/", categoryHandler.CreateCategory)
	categories.Delete("/", categoryHandler.DeleteCategory)

	// Budget Routes (Protected + trial gate)
	budget := api.Group("/budget", middleware.Protected(), middleware.RequireActiveAccess(db))
	budget.Get("/", budgetHandler.ListBudgets)
	budget.Post("/", budgetHandler.UpsertBudget)
	budget.Delete("/:id", budgetHandler.DeleteBudget)

	// Admin Routes (Protected + role check)
	admin := api.Group("/admin", middleware.Protected(), middleware.RequireAdmin(db))
	admin.Post("/activate-user", adminHandler.ActivateUser)
	admin.Post("/block-user", adminHandler.BlockUser)
	admin.Post("/extend-trial", adminHandler.ExtendTrial)
}
