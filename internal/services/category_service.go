/**
 * @description
 * Service layer for transaction categories.
 * Listing merges the shared defaults (nil user_id) with the user's custom set.
 * Duplicate names surface as a typed error via the Postgres unique violation.
 *
 * @dependencies
 * - gorm.io/gorm
 * - github.com/jackc/pgconn
 */

package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/halodompet/backend/internal/logger"
	"github.com/halodompet/backend/internal/models"
	"github.com/jackc/pgconn"
	"gorm.io/gorm"
)

const pgUniqueViolation = "23505"

// DefaultCategories is seeded once at startup and shared by every user.
var DefaultCategories = []models.Category{
	{Name: "Makanan & Minuman", Type: models.CategoryTypeExpense},
	{Name: "Transportasi", Type: models.CategoryTypeExpense},
	{Name: "Belanja", Type: models.CategoryTypeExpense},
	{Name: "Tagihan", Type: models.CategoryTypeExpense},
	{Name: "Hiburan", Type: models.CategoryTypeExpense},
	{Name: "Kesehatan", Type: models.CategoryTypeExpense},
	{Name: "Pendidikan", Type: models.CategoryTypeExpense},
	{Name: "Lainnya", Type: models.CategoryTypeExpense},
	{Name: "Gaji", Type: models.CategoryTypeIncome},
	{Name: "Bonus", Type: models.CategoryTypeIncome},
	{Name: "Usaha", Type: models.CategoryTypeIncome},
	{Name: "Investasi", Type: models.CategoryTypeIncome},
	{Name: "Lainnya", Type: models.CategoryTypeIncome},
}

type CategoryService struct {
	DB *gorm.DB
}

func NewCategoryService(db *gorm.DB) *CategoryService {
	return &CategoryService{DB: db}
}

// SeedDefaults inserts the shared default categories if missing. Idempotent.
func (s *CategoryService) SeedDefaults(ctx context.Context) error {
	for _, category := range DefaultCategories {
		c := category
		err := s.DB.WithContext(ctx).
			Where("user_id IS NULL AND name = ? AND type = ?", c.Name, c.Type).
			FirstOrCreate(&c).Error
		if err != nil {
			return err
		}
	}
	logger.Info("Default categories seeded")
	return nil
}

// List returns shared defaults plus the user's custom categories, optionally
// filtered by type.
func (s *CategoryService) List(ctx context.Context, userID uuid.UUID, categoryType models.CategoryType) ([]models.Category, error) {
	query := s.DB.WithContext(ctx).
		Where("user_id IS NULL OR user_id = ?", userID)
	if categoryType != "" {
		query = query.Where("type = ?", categoryType)
	}

	var categories []models.Category
	err := query.Order("name ASC").Find(&categories).Error
	return categories, err
}

// Create inserts a custom category for the user. A name/type collision with an
// existing row returns ErrDuplicateCategory.
func (s *CategoryService) Create(ctx context.Context, userID uuid.UUID, name string, categoryType models.CategoryType) (*models.Category, error) {
	category := &models.Category{
		UserID: &userID,
		Name:   name,
		Type:   categoryType,
	}

	if err := s.DB.WithContext(ctx).Create(category).Error; err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return nil, ErrDuplicateCategory
		}
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateCategory
		}
		return nil, err
	}
	return category, nil
}

// Delete removes a category owned by the user. Shared defaults and other
// users' categories are invisible here and report ErrNotFound.
func (s *CategoryService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	result := s.DB.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&models.Category{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
