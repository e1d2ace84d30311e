package services

import (
	"testing"
	"time"

	"github.com/halodompet/backend/internal/models"
	"github.com/stretchr/testify/assert"
)

func trialUser(status models.AccountStatus, trialEndsAt *time.Time) *models.User {
	return &models.User{AccountStatus: status, TrialEndsAt: trialEndsAt}
}

func TestIsTrialExpired(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	past := now.Add(-24 * time.Hour)
	future := now.Add(72 * time.Hour)

	tests := []struct {
		name string
		user *models.User
		want bool
	}{
		{"nil user", nil, false},
		{"blocked", trialUser(models.AccountStatusBlocked, &future), true},
		{"expired status", trialUser(models.AccountStatusExpired, nil), true},
		{"active ignores past trial date", trialUser(models.AccountStatusActive, &past), false},
		{"trial without end date", trialUser(models.AccountStatusTrial, nil), false},
		{"trial still running", trialUser(models.AccountStatusTrial, &future), false},
		{"trial lapsed", trialUser(models.AccountStatusTrial, &past), true},
		{"trial ends exactly now", trialUser(models.AccountStatusTrial, &now), false},
		{"unknown status fails open", trialUser(models.AccountStatus("mystery"), &past), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isTrialExpiredAt(tt.user, now))
		})
	}
}

func TestDaysLeft(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		end  time.Time
		want int
	}{
		{"exactly three days", now.Add(72 * time.Hour), 3},
		{"partial day rounds up", now.Add(25 * time.Hour), 2},
		{"under a day rounds up to one", now.Add(30 * time.Minute), 1},
		{"already over", now.Add(-36 * time.Hour), -1},
		{"zero at the boundary", now, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, daysLeftAt(tt.end, now))
		})
	}
}

func TestShouldShowWarning(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	inThree := now.Add(72 * time.Hour)
	inTen := now.Add(10 * 24 * time.Hour)
	past := now.Add(-24 * time.Hour)

	tests := []struct {
		name string
		user *models.User
		want bool
	}{
		{"nil user", nil, false},
		{"active account", trialUser(models.AccountStatusActive, &inThree), false},
		{"trial without end date", trialUser(models.AccountStatusTrial, nil), false},
		{"trial ending soon", trialUser(models.AccountStatusTrial, &inThree), true},
		{"trial far out", trialUser(models.AccountStatusTrial, &inTen), false},
		{"trial already lapsed", trialUser(models.AccountStatusTrial, &past), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, shouldShowWarningAt(tt.user, now))
		})
	}
}

func TestWarningBoundarySevenDays(t *testing.T) {
	now := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)

	atSeven := now.Add(7 * 24 * time.Hour)
	assert.True(t, shouldShowWarningAt(trialUser(models.AccountStatusTrial, &atSeven), now))

	overSeven := now.Add(7*24*time.Hour + time.Hour)
	assert.False(t, shouldShowWarningAt(trialUser(models.AccountStatusTrial, &overSeven), now))
}
