/**
 * @description
 * Trial/access gate.
 * Pure functions deciding whether an account's status and trial window still
 * permit dashboard access.
 *
 * @notes
 * - The gate fails open: missing or unrecognized data never locks a user out.
 *   Deny decisions are explicit (blocked/expired status or a lapsed trial date);
 *   admins block accounts deliberately, data gaps must not.
 */

package services

import (
	"math"
	"time"

	"github.com/halodompet/backend/internal/models"
)

// IsTrialExpired reports whether the account may no longer access the dashboard.
func IsTrialExpired(user *models.User) bool {
	return isTrialExpiredAt(user, time.Now())
}

func isTrialExpiredAt(user *models.User, now time.Time) bool {
	if user == nil {
		return false
	}
	switch user.AccountStatus {
	case models.AccountStatusBlocked, models.AccountStatusExpired:
		return true
	case models.AccountStatusActive:
		return false
	case models.AccountStatusTrial:
		if user.TrialEndsAt == nil {
			return false
		}
		return user.TrialEndsAt.Before(now)
	default:
		return false
	}
}

// DaysLeft returns the number of days until the trial ends, rounded up.
// Negative for dates in the past.
func DaysLeft(trialEndsAt time.Time) int {
	return daysLeftAt(trialEndsAt, time.Now())
}

func daysLeftAt(trialEndsAt, now time.Time) int {
	diff := trialEndsAt.Sub(now).Hours() / 24
	return int(math.Ceil(diff))
}

// ShouldShowWarning reports whether the client should surface a trial-ending
// banner: on trial, with an end date, and at most 7 days remaining.
func ShouldShowWarning(user *models.User) bool {
	return shouldShowWarningAt(user, time.Now())
}

func shouldShowWarningAt(user *models.User, now time.Time) bool {
	if user == nil || user.AccountStatus != models.AccountStatusTrial || user.TrialEndsAt == nil {
		return false
	}
	days := daysLeftAt(*user.TrialEndsAt, now)
	return days > 0 && days <= 7
}
