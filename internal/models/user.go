/**
 * @description
 * User database model.
 * Maps to the 'users' table in PostgreSQL.
 *
 * @dependencies
 * - gorm.io/gorm
 * - github.com/google/uuid
 */

package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type AccountStatus string

const (
	AccountStatusTrial   AccountStatus = "trial"
	AccountStatusActive  AccountStatus = "active"
	AccountStatusExpired AccountStatus = "expired"
	AccountStatusBlocked AccountStatus = "blocked"
)

type UserMode string

const (
	UserModeSimple  UserMode = "simple"
	UserModeWebhook UserMode = "webhook"
)

// User represents a registered user in the system.
// The row is created on first onboarding; authentication itself lives in Supabase.
type User struct {
	ID     uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	AuthID string    `gorm:"uniqueIndex;not null" json:"auth_id"`
	Email  string    `json:"email"`
	Name   string    `json:"name"`

	Mode          UserMode      `gorm:"default:simple" json:"mode"`
	Role          string        `gorm:"default:user" json:"role"` // "user" or "admin"
	AccountStatus AccountStatus `gorm:"default:trial" json:"account_status"`
	TrialEndsAt   *time.Time    `json:"trial_ends_at"`

	InitialBalance decimal.Decimal `gorm:"type:numeric(18,2);not null;default:0" json:"initial_balance"`
	// CurrentBalance is a legacy cached field kept for the web client; the wallet
	// balances are the source of truth.
	CurrentBalance decimal.Decimal `gorm:"type:numeric(18,2);not null;default:0" json:"current_balance"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName overrides the table name used by User to `users`
func (User) TableName() string {
	return "users"
}

// BeforeCreate ensures a UUID is assigned before insert
func (u *User) BeforeCreate(tx *gorm.DB) (err error) {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return
}
