/**
 * @description
 * Service layer for transaction CRUD.
 * Ownership is checked here, once, for every caller: a row that exists but is
 * not owned by the requester surfaces as ErrForbidden, an absent row as
 * ErrNotFound. Edits and deletions that change a wallet's history also rewrite
 * the wallet balance inside the same database transaction.
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
)

// ListOptions filters and limits a transaction listing.
type ListOptions struct {
	Limit    int
	WalletID *uuid.UUID
	Type     models.TransactionType
}

// TransactionPatch carries partial updates; nil fields are left untouched.
type TransactionPatch struct {
	Item          *string          `json:"item"`
	Amount        *decimal.Decimal `json:"amount"`
	Category      *string          `json:"category"`
	Date          *time.Time       `json:"date"`
	Notes         *string          `json:"notes"`
	Location      *string          `json:"location"`
	PaymentMethod *string          `json:"payment_method"`
}

type TransactionService struct {
	DB *gorm.DB
}

func NewTransactionService(db *gorm.DB) *TransactionService {
	return &TransactionService{DB: db}
}

// Get returns a transaction after verifying ownership.
func (s *TransactionService) Get(ctx context.Context, userID, id uuid.UUID) (*models.Transaction, error) {
	return s.getOwned(s.DB.WithContext(ctx), userID, id)
}

func (s *TransactionService) getOwned(tx *gorm.DB, userID, id uuid.UUID) (*models.Transaction, error) {
	var transaction models.Transaction
	if err := tx.Where("id = ?", id).First(&transaction).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if transaction.UserID != userID {
		return nil, ErrForbidden
	}
	return &transaction, nil
}

// List returns the user's transactions, newest first.
func (s *TransactionService) List(ctx context.Context, userID uuid.UUID, opts ListOptions) ([]models.Transaction, error) {
	query := s.DB.WithContext(ctx).Where("user_id = ?", userID)
	if opts.WalletID != nil {
		query = query.Where("wallet_id = ?", *opts.WalletID)
	}
	if opts.Type != "" {
		query = query.Where("type = ?", opts.Type)
	}
	limit := opts.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	var transactions []models.Transaction
	err := query.Order("date DESC, created_at DESC").Limit(limit).Find(&transactions).Error
	return transactions, err
}

// Update patches an owned transaction. Changing the amount of an income or
// expense row shifts the wallet balance by the signed difference; transfer and
// adjustment amounts are immutable (their counterparts would go stale).
func (s *TransactionService) Update(ctx context.Context, userID, id uuid.UUID, patch TransactionPatch) (*models.Transaction, error) {
	var updated *models.Transaction

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		transaction, err := s.getOwned(tx, userID, id)
		if err != nil {
			return err
		}

		updates := map[string]interface{}{}
		if patch.Item != nil {
			updates["item"] = *patch.Item
		}
		if patch.Category != nil {
			updates["category"] = *patch.Category
		}
		if patch.Date != nil {
			updates["date"] = *patch.Date
		}
		if patch.Notes != nil {
			updates["notes"] = *patch.Notes
		}
		if patch.Location != nil {
			updates["location"] = *patch.Location
		}
		if patch.PaymentMethod != nil {
			updates["payment_method"] = *patch.PaymentMethod
		}

		if patch.Amount != nil && !patch.Amount.Equal(transaction.Amount) {
			switch transaction.Type {
			case models.TransactionTypeIncome, models.TransactionTypeExpense:
				if !patch.Amount.IsPositive() {
					return ErrNonPositiveAmount
				}
			default:
				return ErrImmutableAmount
			}

			old := *transaction
			replacement := *transaction
			replacement.Amount = *patch.Amount
			// Reverse the old effect, apply the new one.
			shift := replacement.BalanceDelta().Sub(old.BalanceDelta())
			if err := tx.Model(&models.Wallet{}).
				Where("id = ?", transaction.WalletID).
				Update("balance", gorm.Expr("balance + ?", shift)).Error; err != nil {
				return err
			}
			updates["amount"] = *patch.Amount
		}

		if len(updates) > 0 {
			if err := tx.Model(transaction).Updates(updates).Error; err != nil {
				return err
			}
		}

		updated, err = s.getOwned(tx, userID, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes an owned transaction and reverses its balance effect. Deleting
// one leg of a transfer removes both legs and reverses both wallets. Adjustment
// rows are reconciliation markers; removing one leaves the balance untouched.
func (s *TransactionService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		transaction, err := s.getOwned(tx, userID, id)
		if err != nil {
			return err
		}

		legs := []models.Transaction{*transaction}
		if transaction.RelatedTransactionID != nil {
			other, err := s.getOwned(tx, userID, *transaction.RelatedTransactionID)
			if err == nil {
				legs = append(legs, *other)
			} else if !errors.Is(err, ErrNotFound) {
				return err
			}
		}

		for i := range legs {
			leg := &legs[i]
			delta := leg.BalanceDelta()
			if !delta.IsZero() {
				if err := tx.Model(&models.Wallet{}).
					Where("id = ?", leg.WalletID).
					Update("balance", gorm.Expr("balance - ?", delta)).Error; err != nil {
					return err
				}
			}
			if err := tx.Delete(&models.Transaction{}, "id = ?", leg.ID).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
