/**
 * @description
 * Wallet database model.
 * A named balance-holding account belonging to a user (cash, bank, e-wallet).
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

// Wallet belongs to exactly one user. Balance is only mutated by the ledger
// service, inside the same DB transaction as the transaction row justifying it.
type Wallet struct {
	ID      uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	UserID  uuid.UUID       `gorm:"type:uuid;index;not null" json:"user_id"`
	Name    string          `gorm:"not null" json:"name"`
	Balance decimal.Decimal `gorm:"type:numeric(18,2);not null;default:0" json:"balance"`

	// Exactly one wallet per user carries the default flag.
	IsDefault bool   `gorm:"not null;default:false" json:"is_default"`
	Icon      string `json:"icon"`
	Color     string `json:"color"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Wallet) TableName() string {
	return "wallets"
}

func (w *Wallet) BeforeCreate(tx *gorm.DB) (err error) {
	if w.ID == uuid.Nil {
		w.ID = uuid.New()
	}
	return
}
