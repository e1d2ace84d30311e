package services

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"0", "0"},
		{"500", "500"},
		{"25000", "25.000"},
		{"100000", "100.000"},
		{"1250000", "1.250.000"},
		{"1250000.50", "1.250.000,50"},
		{"999.99", "999,99"},
		{"-25000", "25.000"}, // rendered absolute, sign handled by the caller
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, formatAmount(dec(tt.in)))
		})
	}
}

func TestAdjustmentNote(t *testing.T) {
	t.Run("decrease", func(t *testing.T) {
		note := adjustmentNote(dec("100000"), dec("75000"), "")
		assert.Equal(t, "Penyesuaian saldo dari 100.000 menjadi 75.000 (-25.000)", note)
	})

	t.Run("increase", func(t *testing.T) {
		note := adjustmentNote(dec("50000"), dec("62500"), "")
		assert.Equal(t, "Penyesuaian saldo dari 50.000 menjadi 62.500 (+12.500)", note)
	})

	t.Run("user notes appended", func(t *testing.T) {
		note := adjustmentNote(dec("10000"), dec("20000"), "uang kembalian")
		assert.Equal(t, "Penyesuaian saldo dari 10.000 menjadi 20.000 (+10.000). uang kembalian", note)
	})
}

func TestAdjustmentDifference(t *testing.T) {
	diff, err := adjustmentDifference(dec("100000"), dec("75000"))
	require.NoError(t, err)
	assert.True(t, diff.Equal(dec("-25000")))

	diff, err = adjustmentDifference(dec("100"), dec("350"))
	require.NoError(t, err)
	assert.True(t, diff.Equal(dec("250")))

	_, err = adjustmentDifference(dec("500"), dec("500"))
	assert.ErrorIs(t, err, ErrNoAdjustment)
}

func TestEntrySource(t *testing.T) {
	assert.Equal(t, "manual", string(entrySource("")))
	assert.Equal(t, "voice", string(entrySource("voice")))
}
