/**
 * @description
 * Category database model.
 * Rows with a nil user_id are shared defaults visible to every user.
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

type CategoryType string

const (
	CategoryTypeIncome  CategoryType = "income"
	CategoryTypeExpense CategoryType = "expense"
)

type Category struct {
	ID     uuid.UUID    `gorm:"type:uuid;primary_key" json:"id"`
	UserID *uuid.UUID   `gorm:"type:uuid;index;uniqueIndex:idx_categories_owner_name_type" json:"user_id,omitempty"`
	Name   string       `gorm:"not null;uniqueIndex:idx_categories_owner_name_type" json:"name"`
	Type   CategoryType `gorm:"not null;uniqueIndex:idx_categories_owner_name_type" json:"type"`

	CreatedAt time.Time `json:"created_at"`
}

func (Category) TableName() string {
	return "categories"
}

func (c *Category) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return
}

// IsShared reports whether this is a shared default category.
func (c *Category) IsShared() bool {
	return c.UserID == nil
}
