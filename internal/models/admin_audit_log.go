/**
 * @description
 * Audit trail for admin actions (activate, block, extend trial).
 *
 * @dependencies
 * - gorm.io/gorm
 * - github.com/google/uuid
 */

package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AdminAuditLog struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	AdminID      uuid.UUID `gorm:"type:uuid;index;not null" json:"admin_id"`
	Action       string    `gorm:"not null" json:"action"`
	TargetUserID uuid.UUID `gorm:"type:uuid;index;not null" json:"target_user_id"`
	Detail       string    `json:"detail"`

	CreatedAt time.Time `json:"created_at"`
}

func (AdminAuditLog) TableName() string {
	return "admin_audit_logs"
}

func (l *AdminAuditLog) BeforeCreate(tx *gorm.DB) (err error) {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return
}
