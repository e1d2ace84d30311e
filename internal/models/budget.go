/**
 * @description
 * Budget database model.
 * A per-user, per-category spending limit for one calendar month.
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

type Budget struct {
	ID       uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	UserID   uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_budgets_user_category_month" json:"user_id"`
	Category string          `gorm:"not null;uniqueIndex:idx_budgets_user_category_month" json:"category"`
	Amount   decimal.Decimal `gorm:"type:numeric(18,2);not null" json:"amount"`

	// First day of the month this budget applies to.
	Month time.Time `gorm:"not null;uniqueIndex:idx_budgets_user_category_month" json:"month"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Budget) TableName() string {
	return "budgets"
}

func (b *Budget) BeforeCreate(tx *gorm.DB) (err error) {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return
}
