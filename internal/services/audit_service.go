/**
 * @description
 * Audit trail for admin actions. Failures here are logged, never fatal: an
 * admin action must not roll back because its audit row could not be written.
 *
 * @dependencies
 * - gorm.io/gorm
 */

package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/halodompet/backend/internal/logger"
	"github.com/halodompet/backend/internal/models"
	"gorm.io/gorm"
)

type AuditService struct {
	DB *gorm.DB
}

func NewAuditService(db *gorm.DB) *AuditService {
	return &AuditService{DB: db}
}

// Record writes one audit row for an admin action.
func (s *AuditService) Record(ctx context.Context, adminID uuid.UUID, action string, targetUserID uuid.UUID, detail string) {
	entry := &models.AdminAuditLog{
		AdminID:      adminID,
		Action:       action,
		TargetUserID: targetUserID,
		Detail:       detail,
	}
	if err := s.DB.WithContext(ctx).Create(entry).Error; err != nil {
		logger.Error("AuditService: failed to record %s by %s: %v", action, adminID, err)
	}
}

// ListForUser returns the audit entries targeting one user, newest first.
func (s *AuditService) ListForUser(ctx context.Context, targetUserID uuid.UUID, limit int) ([]models.AdminAuditLog, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	var entries []models.AdminAuditLog
	err := s.DB.WithContext(ctx).
		Where("target_user_id = ?", targetUserID).
		Order("created_at DESC").
		Limit(limit).
		Find(&entries).Error
	return entries, err
}
