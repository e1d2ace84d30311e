/**
 * @description
 * Service layer for user profiles and account lifecycle.
 * Profiles are created on onboarding (first sign-in already happened in the
 * managed auth service), admin actions flip the account status, and the legacy
 * cached balance can be recomputed from initial balance plus net ledger flow.
 *
 * @dependencies
 * - gorm.io/gorm
 * - github.com/shopspring/decimal
 */

package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/halodompet/backend/internal/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// OnboardInput carries the first-run profile setup.
type OnboardInput struct {
	Email          string
	Name           string
	Mode           models.UserMode
	InitialBalance decimal.Decimal
	WalletName     string
}

// ProfilePatch carries partial profile updates.
type ProfilePatch struct {
	Name *string          `json:"name"`
	Mode *models.UserMode `json:"mode"`
}

// SaldoAwalResult reports the recomputation for the response body.
type SaldoAwalResult struct {
	InitialBalance decimal.Decimal `json:"initial_balance"`
	CurrentBalance decimal.Decimal `json:"current_balance"`
	TotalIncome    decimal.Decimal `json:"total_income"`
	TotalExpense   decimal.Decimal `json:"total_expense"`
}

type UserService struct {
	DB        *gorm.DB
	TrialDays int
}

func NewUserService(db *gorm.DB, trialDays int) *UserService {
	return &UserService{DB: db, TrialDays: trialDays}
}

// GetByAuthID loads the profile row for an authenticated subject.
func (s *UserService) GetByAuthID(ctx context.Context, authID string) (*models.User, error) {
	var user models.User
	err := s.DB.WithContext(ctx).Where("auth_id = ?", authID).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByID loads a profile row by primary key.
func (s *UserService) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	err := s.DB.WithContext(ctx).Where("id = ?", id).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Onboard creates the profile row plus a default wallet holding the initial
// balance. Re-running it for an existing subject only refreshes the email.
func (s *UserService) Onboard(ctx context.Context, authID string, in OnboardInput) (*models.User, *models.Wallet, error) {
	if in.InitialBalance.IsNegative() {
		return nil, nil, ErrNonPositiveAmount
	}

	trialEndsAt := time.Now().AddDate(0, 0, s.TrialDays)
	mode := in.Mode
	if mode == "" {
		mode = models.UserModeSimple
	}
	walletName := in.WalletName
	if walletName == "" {
		walletName = "Dompet Utama"
	}

	user := &models.User{
		AuthID:         authID,
		Email:          in.Email,
		Name:           in.Name,
		Mode:           mode,
		AccountStatus:  models.AccountStatusTrial,
		TrialEndsAt:    &trialEndsAt,
		InitialBalance: in.InitialBalance,
		CurrentBalance: in.InitialBalance,
	}

	var wallet *models.Wallet
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "auth_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"email":      in.Email,
				"updated_at": time.Now(),
			}),
		}).Create(user).Error; err != nil {
			return err
		}

		// Re-read: on the conflict path the struct keeps its pre-insert zero ID.
		if err := tx.Where("auth_id = ?", authID).First(user).Error; err != nil {
			return err
		}

		var count int64
		if err := tx.Model(&models.Wallet{}).Where("user_id = ?", user.ID).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return nil
		}

		wallet = &models.Wallet{
			UserID:    user.ID,
			Name:      walletName,
			Balance:   in.InitialBalance,
			IsDefault: true,
		}
		return tx.Create(wallet).Error
	})
	if err != nil {
		return nil, nil, err
	}
	return user, wallet, nil
}

// UpdateProfile applies a partial patch to the profile.
func (s *UserService) UpdateProfile(ctx context.Context, authID string, patch ProfilePatch) (*models.User, error) {
	user, err := s.GetByAuthID(ctx, authID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if patch.Name != nil {
		updates["name"] = *patch.Name
	}
	if patch.Mode != nil {
		updates["mode"] = *patch.Mode
	}
	if len(updates) == 0 {
		return user, nil
	}

	if err := s.DB.WithContext(ctx).Model(user).Updates(updates).Error; err != nil {
		return nil, err
	}
	return s.GetByAuthID(ctx, authID)
}

// UpdateSaldoAwal sets the initial balance and recomputes the legacy cached
// balance as initial + total income - total expense.
func (s *UserService) UpdateSaldoAwal(ctx context.Context, authID string, initialBalance decimal.Decimal) (*SaldoAwalResult, error) {
	if initialBalance.IsNegative() {
		return nil, ErrNonPositiveAmount
	}

	user, err := s.GetByAuthID(ctx, authID)
	if err != nil {
		return nil, err
	}

	totalIncome, err := s.sumByType(ctx, user.ID, models.TransactionTypeIncome)
	if err != nil {
		return nil, err
	}
	totalExpense, err := s.sumByType(ctx, user.ID, models.TransactionTypeExpense)
	if err != nil {
		return nil, err
	}

	currentBalance := initialBalance.Add(totalIncome).Sub(totalExpense)
	err = s.DB.WithContext(ctx).Model(user).Updates(map[string]interface{}{
		"initial_balance": initialBalance,
		"current_balance": currentBalance,
	}).Error
	if err != nil {
		return nil, err
	}

	return &SaldoAwalResult{
		InitialBalance: initialBalance,
		CurrentBalance: currentBalance,
		TotalIncome:    totalIncome,
		TotalExpense:   totalExpense,
	}, nil
}

func (s *UserService) sumByType(ctx context.Context, userID uuid.UUID, typ models.TransactionType) (decimal.Decimal, error) {
	var total decimal.NullDecimal
	err := s.DB.WithContext(ctx).
		Model(&models.Transaction{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("user_id = ? AND type = ?", userID, typ).
		Scan(&total).Error
	if err != nil {
		return decimal.Zero, err
	}
	if !total.Valid {
		return decimal.Zero, nil
	}
	return total.Decimal, nil
}

// Activate flips an account to active and clears the trial window.
func (s *UserService) Activate(ctx context.Context, targetID uuid.UUID) (*models.User, error) {
	return s.setStatus(ctx, targetID, map[string]interface{}{
		"account_status": models.AccountStatusActive,
		"trial_ends_at":  gorm.Expr("NULL"),
	})
}

// Block locks an account out.
func (s *UserService) Block(ctx context.Context, targetID uuid.UUID) (*models.User, error) {
	return s.setStatus(ctx, targetID, map[string]interface{}{
		"account_status": models.AccountStatusBlocked,
	})
}

// ExtendTrial pushes the trial end out by days, anchored at whichever is later:
// now or the current end. A blocked or expired account returns to trial.
func (s *UserService) ExtendTrial(ctx context.Context, targetID uuid.UUID, days int) (*models.User, error) {
	user, err := s.GetByID(ctx, targetID)
	if err != nil {
		return nil, err
	}

	anchor := time.Now()
	if user.TrialEndsAt != nil && user.TrialEndsAt.After(anchor) {
		anchor = *user.TrialEndsAt
	}
	newEnd := anchor.AddDate(0, 0, days)

	return s.setStatus(ctx, targetID, map[string]interface{}{
		"account_status": models.AccountStatusTrial,
		"trial_ends_at":  newEnd,
	})
}

func (s *UserService) setStatus(ctx context.Context, targetID uuid.UUID, updates map[string]interface{}) (*models.User, error) {
	result := s.DB.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", targetID).
		Updates(updates)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return s.GetByID(ctx, targetID)
}
