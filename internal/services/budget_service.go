/**
 * @description
 * Service layer for monthly category budgets.
 * A budget is keyed (user, category, month); listing joins each limit with the
 * month's actual expense total.
 *
 * @dependencies
 * - gorm.io/gorm
 * - github.com/shopspring/decimal
 */

package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/halodompet/backend/internal/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// BudgetStatus pairs a budget with the month's spending against it.
type BudgetStatus struct {
	models.Budget
	Spent     decimal.Decimal `json:"spent"`
	Remaining decimal.Decimal `json:"remaining"`
}

type BudgetService struct {
	DB *gorm.DB
}

func NewBudgetService(db *gorm.DB) *BudgetService {
	return &BudgetService{DB: db}
}

// MonthOf normalizes any instant to the first day of its month.
func MonthOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// Upsert creates or replaces the budget for (user, category, month).
func (s *BudgetService) Upsert(ctx context.Context, userID uuid.UUID, category string, amount decimal.Decimal, month time.Time) (*models.Budget, error) {
	if !amount.IsPositive() {
		return nil, ErrNonPositiveAmount
	}

	budget := &models.Budget{
		UserID:   userID,
		Category: category,
		Amount:   amount,
		Month:    MonthOf(month),
	}

	err := s.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "category"}, {Name: "month"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"amount":     amount,
			"updated_at": time.Now(),
		}),
	}).Create(budget).Error
	if err != nil {
		return nil, err
	}

	// Re-read so the caller sees the surviving row on the conflict path.
	var saved models.Budget
	err = s.DB.WithContext(ctx).
		Where("user_id = ? AND category = ? AND month = ?", userID, category, MonthOf(month)).
		First(&saved).Error
	if err != nil {
		return nil, err
	}
	return &saved, nil
}

// List returns the user's budgets for a month with spent/remaining amounts.
// Only expense rows count; adjustments and transfers never touch a budget.
func (s *BudgetService) List(ctx context.Context, userID uuid.UUID, month time.Time) ([]BudgetStatus, error) {
	monthStart := MonthOf(month)
	monthEnd := monthStart.AddDate(0, 1, 0)

	var budgets []models.Budget
	err := s.DB.WithContext(ctx).
		Where("user_id = ? AND month = ?", userID, monthStart).
		Order("category ASC").
		Find(&budgets).Error
	if err != nil {
		return nil, err
	}

	type categorySum struct {
		Category string
		Total    decimal.Decimal
	}
	var sums []categorySum
	err = s.DB.WithContext(ctx).
		Model(&models.Transaction{}).
		Select("category, COALESCE(SUM(amount), 0) AS total").
		Where("user_id = ? AND type = ? AND date >= ? AND date < ?",
			userID, models.TransactionTypeExpense, monthStart, monthEnd).
		Group("category").
		Scan(&sums).Error
	if err != nil {
		return nil, err
	}

	spentByCategory := make(map[string]decimal.Decimal, len(sums))
	for _, sum := range sums {
		spentByCategory[sum.Category] = sum.Total
	}

	statuses := make([]BudgetStatus, 0, len(budgets))
	for _, budget := range budgets {
		spent := spentByCategory[budget.Category]
		statuses = append(statuses, BudgetStatus{
			Budget:    budget,
			Spent:     spent,
			Remaining: budget.Amount.Sub(spent),
		})
	}
	return statuses, nil
}

// Delete removes a budget owned by the user.
func (s *BudgetService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	result := s.DB.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&models.Budget{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
