package services

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGrowthPercentage(t *testing.T) {
	tests := []struct {
		name    string
		total   string
		netFlow string
		want    string
	}{
		{"ten percent up", "1100000", "100000", "10"},
		{"decline", "900000", "-100000", "-10"},
		{"no flow", "500000", "0", "0"},
		{"started from zero", "250000", "250000", "0"},
		{"negative start", "100000", "200000", "0"},
		{"rounded to two places", "1000", "333", "49.93"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := growthPercentage(dec(tt.total), dec(tt.netFlow))
			assert.True(t, got.Equal(dec(tt.want)), "got %s want %s", got, tt.want)
		})
	}
}

func newTestRedis(t *testing.T) *redis.Client {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return client
}

// A populated cache entry must be served without touching the database: the
// service runs with a nil DB here, so any query would panic the test.
func TestSummaryCacheHit(t *testing.T) {
	client := newTestRedis(t)
	service := NewWalletService(nil, client)
	userID := uuid.New()

	cached := WalletSummary{
		TotalBalance:     decimal.NewFromInt(750000),
		GrowthPercentage: decimal.NewFromFloat(12.5),
	}
	payload, err := json.Marshal(cached)
	require.NoError(t, err)

	key := fmt.Sprintf(walletSummaryCacheKey, userID)
	require.NoError(t, client.Set(context.Background(), key, payload, walletSummaryCacheTTL).Err())

	summary, err := service.Summary(context.Background(), userID)
	require.NoError(t, err)
	assert.True(t, summary.TotalBalance.Equal(cached.TotalBalance))
	assert.True(t, summary.GrowthPercentage.Equal(cached.GrowthPercentage))
}

func TestInvalidateSummary(t *testing.T) {
	client := newTestRedis(t)
	service := NewWalletService(nil, client)
	userID := uuid.New()

	key := fmt.Sprintf(walletSummaryCacheKey, userID)
	require.NoError(t, client.Set(context.Background(), key, "{}", 0).Err())

	service.InvalidateSummary(context.Background(), userID)

	err := client.Get(context.Background(), key).Err()
	assert.ErrorIs(t, err, redis.Nil)
}
