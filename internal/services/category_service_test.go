package services

import (
	"testing"

	"github.com/halodompet/backend/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestDefaultCategories(t *testing.T) {
	seen := map[string]bool{}
	var income, expense int

	for _, category := range DefaultCategories {
		assert.Nil(t, category.UserID, "defaults must be shared, not user-owned")
		assert.NotEmpty(t, category.Name)

		key := category.Name + "/" + string(category.Type)
		assert.False(t, seen[key], "duplicate default category %s", key)
		seen[key] = true

		switch category.Type {
		case models.CategoryTypeIncome:
			income++
		case models.CategoryTypeExpense:
			expense++
		default:
			t.Fatalf("unexpected category type %q", category.Type)
		}
	}

	assert.Greater(t, income, 0)
	assert.Greater(t, expense, 0)
}
