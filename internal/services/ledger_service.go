/**
 * @description
 * Ledger service: the one place that mutates wallet balances.
 * Income, expense, transfer (paired legs), balance adjustment, and full reset
 * all run inside a single database transaction, so a wallet balance and the
 * transaction row justifying it always change together.
 *
 * @dependencies
 * - gorm.io/gorm
 * - github.com/shopspring/decimal
 * - github.com/google/uuid
 *
 * @notes
 * - Transfer legs are inserted mutually linked or not at all.
 * - Adjustment assigns the exact target balance instead of applying a delta, so
 *   the wallet lands precisely where the user declared regardless of history.
 */

package services

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/halodompet/backend/internal/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// EntryInput carries attributes for a new income or expense entry.
type EntryInput struct {
	WalletID      *uuid.UUID
	Item          string
	Amount        decimal.Decimal
	Category      string
	Date          *time.Time
	Notes         string
	VoiceText     string
	Location      string
	PaymentMethod string
	Source        models.TransactionSource
}

// BalanceChange reports the in-process balance movement for the response body.
type BalanceChange struct {
	PreviousBalance decimal.Decimal `json:"previous_balance"`
	NewBalance      decimal.Decimal `json:"new_balance"`
	Delta           decimal.Decimal `json:"added"`
}

// TransferInput carries attributes for a wallet-to-wallet transfer.
type TransferInput struct {
	SourceWalletID uuid.UUID
	TargetWalletID uuid.UUID
	Amount         decimal.Decimal
	Date           *time.Time
	Notes          string
}

// TransferResult holds both legs of a completed transfer.
type TransferResult struct {
	TransferOut models.Transaction `json:"transferOut"`
	TransferIn  models.Transaction `json:"transferIn"`
}

// AdjustInput carries attributes for a balance adjustment.
type AdjustInput struct {
	WalletID      *uuid.UUID
	TargetBalance decimal.Decimal
	Notes         string
}

// AdjustmentResult reports the reconciliation for the response body.
type AdjustmentResult struct {
	PreviousBalance decimal.Decimal `json:"previous_balance"`
	NewBalance      decimal.Decimal `json:"new_balance"`
	Difference      decimal.Decimal `json:"difference"`
}

// ResetResult reports what a full financial reset touched.
type ResetResult struct {
	TransactionsDeleted int64 `json:"transactionsDeleted"`
	WalletsReset        int64 `json:"walletsReset"`
	UserBalanceReset    bool  `json:"userBalanceReset"`
}

type LedgerService struct {
	DB *gorm.DB
}

func NewLedgerService(db *gorm.DB) *LedgerService {
	return &LedgerService{DB: db}
}

// RecordIncome inserts an income entry and credits the wallet.
func (s *LedgerService) RecordIncome(ctx context.Context, userID uuid.UUID, in EntryInput) (*models.Transaction, *BalanceChange, error) {
	return s.record(ctx, userID, models.TransactionTypeIncome, in)
}

// RecordExpense inserts an expense entry and debits the wallet.
func (s *LedgerService) RecordExpense(ctx context.Context, userID uuid.UUID, in EntryInput) (*models.Transaction, *BalanceChange, error) {
	return s.record(ctx, userID, models.TransactionTypeExpense, in)
}

func (s *LedgerService) record(ctx context.Context, userID uuid.UUID, typ models.TransactionType, in EntryInput) (*models.Transaction, *BalanceChange, error) {
	if !in.Amount.IsPositive() {
		return nil, nil, ErrNonPositiveAmount
	}

	entry := &models.Transaction{
		UserID:        userID,
		Type:          typ,
		Amount:        in.Amount,
		Item:          in.Item,
		Category:      in.Category,
		Date:          entryDate(in.Date),
		Notes:         in.Notes,
		VoiceText:     in.VoiceText,
		Location:      in.Location,
		PaymentMethod: in.PaymentMethod,
		Source:        entrySource(in.Source),
	}

	var change BalanceChange
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		wallet, err := s.lockWallet(tx, userID, in.WalletID)
		if err != nil {
			return err
		}

		entry.WalletID = wallet.ID
		if err := tx.Create(entry).Error; err != nil {
			return err
		}

		delta := entry.BalanceDelta()
		previous := wallet.Balance
		newBalance := previous.Add(delta)
		if err := tx.Model(wallet).Update("balance", newBalance).Error; err != nil {
			return err
		}

		change = BalanceChange{
			PreviousBalance: previous,
			NewBalance:      newBalance,
			Delta:           delta,
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return entry, &change, nil
}

// Transfer moves money between two wallets of the same user. Both legs and both
// balance updates commit together.
func (s *LedgerService) Transfer(ctx context.Context, userID uuid.UUID, in TransferInput) (*TransferResult, error) {
	if in.SourceWalletID == in.TargetWalletID {
		return nil, ErrSameWallet
	}
	if !in.Amount.IsPositive() {
		return nil, ErrNonPositiveAmount
	}

	date := entryDate(in.Date)
	var result TransferResult

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		source, target, err := s.lockWalletPair(tx, userID, in.SourceWalletID, in.TargetWalletID)
		if err != nil {
			return err
		}

		out := models.Transaction{
			UserID:   userID,
			WalletID: source.ID,
			Type:     models.TransactionTypeTransferOut,
			Amount:   in.Amount,
			Item:     "Transfer ke " + target.Name,
			Date:     date,
			Notes:    in.Notes,
			Source:   models.TransactionSourceTransfer,
		}
		if err := tx.Create(&out).Error; err != nil {
			return err
		}

		inLeg := models.Transaction{
			UserID:               userID,
			WalletID:             target.ID,
			Type:                 models.TransactionTypeTransferIn,
			Amount:               in.Amount,
			Item:                 "Transfer dari " + source.Name,
			Date:                 date,
			Notes:                in.Notes,
			Source:               models.TransactionSourceTransfer,
			RelatedTransactionID: &out.ID,
		}
		if err := tx.Create(&inLeg).Error; err != nil {
			return err
		}

		// Back-link the outgoing leg so the pair is bidirectional.
		if err := tx.Model(&out).Update("related_transaction_id", inLeg.ID).Error; err != nil {
			return err
		}
		out.RelatedTransactionID = &inLeg.ID

		if err := tx.Model(source).Update("balance", source.Balance.Sub(in.Amount)).Error; err != nil {
			return err
		}
		if err := tx.Model(target).Update("balance", target.Balance.Add(in.Amount)).Error; err != nil {
			return err
		}

		result = TransferResult{TransferOut: out, TransferIn: inLeg}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// Adjust reconciles a wallet balance to a user-declared target. One adjustment
// row of amount |target - current| is inserted and the balance is assigned the
// exact target value.
func (s *LedgerService) Adjust(ctx context.Context, userID uuid.UUID, in AdjustInput) (*models.Transaction, *AdjustmentResult, error) {
	var (
		entry  models.Transaction
		result AdjustmentResult
	)

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		wallet, err := s.lockWallet(tx, userID, in.WalletID)
		if err != nil {
			return err
		}

		previous := wallet.Balance
		difference, err := adjustmentDifference(previous, in.TargetBalance)
		if err != nil {
			return err
		}

		entry = models.Transaction{
			UserID:   userID,
			WalletID: wallet.ID,
			Type:     models.TransactionTypeAdjustment,
			Amount:   difference.Abs(),
			Item:     "Penyesuaian Saldo",
			Date:     time.Now(),
			Notes:    adjustmentNote(previous, in.TargetBalance, in.Notes),
			Source:   models.TransactionSourceAdjustment,
		}
		if err := tx.Create(&entry).Error; err != nil {
			return err
		}

		if err := tx.Model(wallet).Update("balance", in.TargetBalance).Error; err != nil {
			return err
		}

		result = AdjustmentResult{
			PreviousBalance: previous,
			NewBalance:      in.TargetBalance,
			Difference:      difference,
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return &entry, &result, nil
}

// Reset wipes the user's financial history: every transaction is deleted, every
// wallet balance and the legacy cached user balance are zeroed, atomically.
func (s *LedgerService) Reset(ctx context.Context, userID uuid.UUID) (*ResetResult, error) {
	var result ResetResult

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		deleted := tx.Where("user_id = ?", userID).Delete(&models.Transaction{})
		if deleted.Error != nil {
			return deleted.Error
		}
		result.TransactionsDeleted = deleted.RowsAffected

		zeroed := tx.Model(&models.Wallet{}).
			Where("user_id = ?", userID).
			Update("balance", decimal.Zero)
		if zeroed.Error != nil {
			return zeroed.Error
		}
		result.WalletsReset = zeroed.RowsAffected

		if err := tx.Model(&models.User{}).
			Where("id = ?", userID).
			Update("current_balance", decimal.Zero).Error; err != nil {
			return err
		}
		result.UserBalanceReset = true
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// lockWallet loads a wallet FOR UPDATE inside a transaction. A nil walletID
// resolves to the user's default wallet.
func (s *LedgerService) lockWallet(tx *gorm.DB, userID uuid.UUID, walletID *uuid.UUID) (*models.Wallet, error) {
	var wallet models.Wallet
	query := tx.Where("user_id = ?", userID)
	if tx.Dialector.Name() == "postgres" {
		// SQLite has no row locks; its writes serialize on the file.
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	if walletID != nil {
		query = query.Where("id = ?", *walletID)
	} else {
		query = query.Where("is_default = true")
	}
	if err := query.First(&wallet).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &wallet, nil
}

// lockWalletPair locks two wallets in ID order, so concurrent opposite-direction
// transfers between the same pair cannot deadlock on each other's row locks.
func (s *LedgerService) lockWalletPair(tx *gorm.DB, userID uuid.UUID, sourceID, targetID uuid.UUID) (*models.Wallet, *models.Wallet, error) {
	first, second := orderedPair(sourceID, targetID)

	a, err := s.lockWallet(tx, userID, &first)
	if err != nil {
		return nil, nil, err
	}
	b, err := s.lockWallet(tx, userID, &second)
	if err != nil {
		return nil, nil, err
	}

	if a.ID == sourceID {
		return a, b, nil
	}
	return b, a, nil
}

// orderedPair returns the two IDs in ascending byte order.
func orderedPair(a, b uuid.UUID) (uuid.UUID, uuid.UUID) {
	if bytes.Compare(a[:], b[:]) > 0 {
		return b, a
	}
	return a, b
}

// adjustmentDifference returns target - current, rejecting the no-op case.
func adjustmentDifference(current, target decimal.Decimal) (decimal.Decimal, error) {
	difference := target.Sub(current)
	if difference.IsZero() {
		return decimal.Zero, ErrNoAdjustment
	}
	return difference, nil
}

// adjustmentNote encodes the before/after values and direction, e.g.
// "Penyesuaian saldo dari 100.000 menjadi 75.000 (-25.000)".
func adjustmentNote(current, target decimal.Decimal, userNotes string) string {
	difference := target.Sub(current)
	sign := "+"
	if difference.IsNegative() {
		sign = "-"
	}
	note := fmt.Sprintf("Penyesuaian saldo dari %s menjadi %s (%s%s)",
		formatAmount(current), formatAmount(target), sign, formatAmount(difference))
	if userNotes != "" {
		note += ". " + userNotes
	}
	return note
}

// formatAmount renders an absolute amount with Indonesian digit grouping:
// 25000 -> "25.000", 1250000.50 -> "1.250.000,50".
func formatAmount(d decimal.Decimal) string {
	fixed := d.Abs().StringFixed(2)
	parts := strings.SplitN(fixed, ".", 2)
	intPart, fracPart := parts[0], parts[1]

	var grouped strings.Builder
	for i, digit := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			grouped.WriteByte('.')
		}
		grouped.WriteRune(digit)
	}

	if fracPart == "00" {
		return grouped.String()
	}
	return grouped.String() + "," + fracPart
}

func entryDate(date *time.Time) time.Time {
	if date != nil {
		return *date
	}
	return time.Now()
}

func entrySource(source models.TransactionSource) models.TransactionSource {
	if source == "" {
		return models.TransactionSourceManual
	}
	return source
}
