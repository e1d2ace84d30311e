/**
 * @description
 * Transaction database model.
 * A dated monetary record affecting exactly one wallet.
 *
 * @dependencies
 * - gorm.io/gorm
 * - github.com/google/uuid
 * - github.com/shopspring/decimal
 */

package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type TransactionType string

const (
	TransactionTypeIncome      TransactionType = "income"
	TransactionTypeExpense     TransactionType = "expense"
	TransactionTypeAdjustment  TransactionType = "adjustment"
	TransactionTypeTransferIn  TransactionType = "transfer_in"
	TransactionTypeTransferOut TransactionType = "transfer_out"
)

type TransactionSource string

const (
	TransactionSourceManual     TransactionSource = "manual"
	TransactionSourceVoice      TransactionSource = "voice"
	TransactionSourceScan       TransactionSource = "scan"
	TransactionSourceTransfer   TransactionSource = "transfer"
	TransactionSourceAdjustment TransactionSource = "adjustment"
)

// Transaction amounts are always positive; the type determines the sign of the
// balance effect. Adjustment rows re-anchor a wallet balance and are excluded
// from income/expense reporting.
type Transaction struct {
	ID       uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	UserID   uuid.UUID       `gorm:"type:uuid;index;not null" json:"user_id"`
	WalletID uuid.UUID       `gorm:"type:uuid;index;not null" json:"wallet_id"`
	Type     TransactionType `gorm:"not null" json:"type"`
	Amount   decimal.Decimal `gorm:"type:numeric(18,2);not null" json:"amount"`

	Item     string    `gorm:"not null" json:"item"`
	Category string    `json:"category"`
	Date     time.Time `gorm:"index;not null" json:"date"`

	Notes         string            `json:"notes,omitempty"`
	VoiceText     string            `json:"voice_text,omitempty"`
	Location      string            `json:"location,omitempty"`
	PaymentMethod string            `json:"payment_method,omitempty"`
	Source        TransactionSource `gorm:"default:manual" json:"source"`

	// Links the two legs of a transfer to each other.
	RelatedTransactionID *uuid.UUID `gorm:"type:uuid" json:"related_transaction_id,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Transaction) TableName() string {
	return "transactions"
}

func (t *Transaction) BeforeCreate(tx *gorm.DB) (err error) {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return
}

// BalanceDelta returns the signed effect of this transaction on its wallet.
// Adjustment rows re-anchor the balance instead of shifting it, so their delta is zero.
func (t *Transaction) BalanceDelta() decimal.Decimal {
	switch t.Type {
	case TransactionTypeIncome, TransactionTypeTransferIn:
		return t.Amount
	case TransactionTypeExpense, TransactionTypeTransferOut:
		return t.Amount.Neg()
	default:
		return decimal.Zero
	}
}
