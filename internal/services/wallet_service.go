/**
 * @description
 * Service layer for wallet management.
 * Owns the "exactly one default wallet per user" invariant, the dashboard
 * summary (total balance + asset growth) and its Redis cache.
 *
 * @dependencies
 * - gorm.io/gorm
 * - github.com/redis/go-redis/v9
 * - github.com/shopspring/decimal
 */

package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/halodompet/backend/internal/logger"
	"github.com/halodompet/backend/internal/models"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	walletSummaryCacheKey = "wallets:summary:%s"
	walletSummaryCacheTTL = 2 * time.Minute
)

var oneHundred = decimal.NewFromInt(100)

// WalletSummary is the dashboard payload for GET /api/wallet.
type WalletSummary struct {
	Wallets          []models.Wallet `json:"wallets"`
	TotalBalance     decimal.Decimal `json:"totalBalance"`
	GrowthPercentage decimal.Decimal `json:"growthPercentage"`
}

// WalletInput carries attributes for creating a wallet.
type WalletInput struct {
	Name      string          `json:"name"`
	Balance   decimal.Decimal `json:"balance"`
	Icon      string          `json:"icon"`
	Color     string          `json:"color"`
	IsDefault bool            `json:"is_default"`
}

// WalletPatch carries partial updates; nil fields are left untouched.
type WalletPatch struct {
	Name      *string `json:"name"`
	Icon      *string `json:"icon"`
	Color     *string `json:"color"`
	IsDefault *bool   `json:"is_default"`
}

type WalletService struct {
	DB    *gorm.DB
	Redis *redis.Client
}

func NewWalletService(db *gorm.DB, rdb *redis.Client) *WalletService {
	return &WalletService{DB: db, Redis: rdb}
}

// List returns all wallets of a user, default wallet first.
func (s *WalletService) List(ctx context.Context, userID uuid.UUID) ([]models.Wallet, error) {
	var wallets []models.Wallet
	err := s.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("is_default DESC, created_at ASC").
		Find(&wallets).Error
	return wallets, err
}

// Summary returns the cached dashboard summary, rebuilding it on a cache miss.
func (s *WalletService) Summary(ctx context.Context, userID uuid.UUID) (*WalletSummary, error) {
	key := fmt.Sprintf(walletSummaryCacheKey, userID)

	if s.Redis != nil {
		if cached, err := s.Redis.Get(ctx, key).Result(); err == nil {
			var summary WalletSummary
			if jsonErr := json.Unmarshal([]byte(cached), &summary); jsonErr == nil {
				return &summary, nil
			}
			// A corrupt cache entry falls through to a rebuild.
		} else if err != redis.Nil {
			logger.Error("WalletService: Redis read failed for %s: %v", key, err)
		}
	}

	wallets, err := s.List(ctx, userID)
	if err != nil {
		return nil, err
	}

	total := decimal.Zero
	for _, w := range wallets {
		total = total.Add(w.Balance)
	}

	growth, err := s.assetGrowth(ctx, userID, total)
	if err != nil {
		return nil, err
	}

	summary := &WalletSummary{
		Wallets:          wallets,
		TotalBalance:     total,
		GrowthPercentage: growth,
	}

	if s.Redis != nil {
		if payload, jsonErr := json.Marshal(summary); jsonErr == nil {
			if err := s.Redis.Set(ctx, key, payload, walletSummaryCacheTTL).Err(); err != nil {
				logger.Error("WalletService: Redis write failed for %s: %v", key, err)
			}
		}
	}

	return summary, nil
}

// InvalidateSummary drops the cached summary after any balance-affecting mutation.
func (s *WalletService) InvalidateSummary(ctx context.Context, userID uuid.UUID) {
	if s.Redis == nil {
		return
	}
	key := fmt.Sprintf(walletSummaryCacheKey, userID)
	if err := s.Redis.Del(ctx, key).Err(); err != nil {
		logger.Error("WalletService: Redis invalidate failed for %s: %v", key, err)
	}
}

// assetGrowth computes the percentage change of total assets over the current
// month: the balance at the start of the month is reconstructed by removing this
// month's net flow. Adjustment rows carry no flow and are naturally excluded.
func (s *WalletService) assetGrowth(ctx context.Context, userID uuid.UUID, total decimal.Decimal) (decimal.Decimal, error) {
	now := time.Now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	var transactions []models.Transaction
	err := s.DB.WithContext(ctx).
		Select("type", "amount").
		Where("user_id = ? AND date >= ?", userID, monthStart).
		Find(&transactions).Error
	if err != nil {
		return decimal.Zero, err
	}

	netFlow := decimal.Zero
	for i := range transactions {
		netFlow = netFlow.Add(transactions[i].BalanceDelta())
	}

	return growthPercentage(total, netFlow), nil
}

// growthPercentage returns the month-over-month change, 0 when the starting
// balance is zero or negative (percentage growth is undefined there).
func growthPercentage(total, netFlow decimal.Decimal) decimal.Decimal {
	start := total.Sub(netFlow)
	if start.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	return total.Sub(start).Div(start).Mul(oneHundred).Round(2)
}

// GetByID returns a wallet owned by the user, ErrNotFound otherwise.
func (s *WalletService) GetByID(ctx context.Context, userID, walletID uuid.UUID) (*models.Wallet, error) {
	var wallet models.Wallet
	err := s.DB.WithContext(ctx).
		Where("id = ? AND user_id = ?", walletID, userID).
		First(&wallet).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &wallet, nil
}

// GetDefault returns the user's default wallet.
func (s *WalletService) GetDefault(ctx context.Context, userID uuid.UUID) (*models.Wallet, error) {
	var wallet models.Wallet
	err := s.DB.WithContext(ctx).
		Where("user_id = ? AND is_default = true", userID).
		First(&wallet).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &wallet, nil
}

// Create inserts a wallet. The user's first wallet always becomes the default;
// requesting is_default on a later wallet repoints the flag atomically.
func (s *WalletService) Create(ctx context.Context, userID uuid.UUID, input WalletInput) (*models.Wallet, error) {
	if input.Balance.IsNegative() {
		return nil, ErrNonPositiveAmount
	}

	wallet := &models.Wallet{
		UserID:    userID,
		Name:      input.Name,
		Balance:   input.Balance,
		Icon:      input.Icon,
		Color:     input.Color,
		IsDefault: input.IsDefault,
	}

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Wallet{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			wallet.IsDefault = true
		} else if wallet.IsDefault {
			if err := tx.Model(&models.Wallet{}).
				Where("user_id = ?", userID).
				Update("is_default", false).Error; err != nil {
				return err
			}
		}
		return tx.Create(wallet).Error
	})
	if err != nil {
		return nil, err
	}

	s.InvalidateSummary(ctx, userID)
	return wallet, nil
}

// Update applies a partial patch to a wallet owned by the user.
// Setting is_default=false is ignored: the flag moves by electing another
// wallet, never by leaving the user without a default.
func (s *WalletService) Update(ctx context.Context, userID, walletID uuid.UUID, patch WalletPatch) (*models.Wallet, error) {
	wallet, err := s.GetByID(ctx, userID, walletID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if patch.Name != nil {
		updates["name"] = *patch.Name
	}
	if patch.Icon != nil {
		updates["icon"] = *patch.Icon
	}
	if patch.Color != nil {
		updates["color"] = *patch.Color
	}
	makeDefault := patch.IsDefault != nil && *patch.IsDefault && !wallet.IsDefault

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if makeDefault {
			if err := tx.Model(&models.Wallet{}).
				Where("user_id = ?", userID).
				Update("is_default", false).Error; err != nil {
				return err
			}
			updates["is_default"] = true
		}
		if len(updates) == 0 {
			return nil
		}
		return tx.Model(wallet).Updates(updates).Error
	})
	if err != nil {
		return nil, err
	}

	s.InvalidateSummary(ctx, userID)
	return s.GetByID(ctx, userID, walletID)
}

// Delete removes a wallet and its transactions. The default wallet is refused
// before any mutation happens.
func (s *WalletService) Delete(ctx context.Context, userID, walletID uuid.UUID) error {
	wallet, err := s.GetByID(ctx, userID, walletID)
	if err != nil {
		return err
	}
	if wallet.IsDefault {
		return ErrDefaultWallet
	}

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("wallet_id = ? AND user_id = ?", walletID, userID).
			Delete(&models.Transaction{}).Error; err != nil {
			return err
		}
		return tx.Delete(wallet).Error
	})
	if err != nil {
		return err
	}

	s.InvalidateSummary(ctx, userID)
	return nil
}

// TotalBalance sums the balances of all wallets of a user.
func (s *WalletService) TotalBalance(ctx context.Context, userID uuid.UUID) (decimal.Decimal, error) {
	wallets, err := s.List(ctx, userID)
	if err != nil {
		return decimal.Zero, err
	}
	total := decimal.Zero
	for _, w := range wallets {
		total = total.Add(w.Balance)
	}
	return total, nil
}
