package main

import (
	"context"
	"log"

	"github.com/halodompet/backend/internal/config"
	"github.com/halodompet/backend/internal/db"
	"github.com/halodompet/backend/internal/models"
	"github.com/halodompet/backend/internal/services"
)

func main() {
	log.Println("Running database migrations...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	pgDB, err := db.ConnectPostgres(cfg)
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}

	if err := pgDB.AutoMigrate(
		&models.User{},
		&models.Wallet{},
		&models.Transaction{},
		&models.Category{},
		&models.Budget{},
		&models.AdminAuditLog{},
	); err != nil {
		log.Fatalf("migration failed: %v", err)
	}

	if err := services.NewCategoryService(pgDB).SeedDefaults(context.Background()); err != nil {
		log.Fatalf("failed to seed default categories: %v", err)
	}

	log.Println("Migrations completed successfully.")
}
