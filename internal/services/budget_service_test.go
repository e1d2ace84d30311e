package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMonthOf(t *testing.T) {
	midMonth := time.Date(2025, 6, 15, 18, 45, 12, 0, time.UTC)
	assert.Equal(t, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), MonthOf(midMonth))

	firstDay := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, firstDay, MonthOf(firstDay))

	// Normalization is idempotent across time zones.
	jakarta := time.FixedZone("WIB", 7*60*60)
	local := time.Date(2025, 6, 30, 23, 0, 0, 0, jakarta)
	assert.Equal(t, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), MonthOf(local))
}
