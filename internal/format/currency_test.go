package format

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAmount(t *testing.T) {
	tests := []struct {
		amount   string
		currency string
		want     string
	}{
		{"1200", "THB", "฿1,200"},
		{"1200.5", "THB", "฿1,200.50"},
		{"33.33", "USD", "$33.33"},
		{"0", "EUR", "€0"},
		{"1234567.89", "GBP", "£1,234,567.89"},
		{"500", "JPY", "¥500"},
		{"10.10", "SGD", "SGD10.10"},
	}

	for _, tt := range tests {
		t.Run(tt.currency+" "+tt.amount, func(t *testing.T) {
			got := Amount(decimal.RequireFromString(tt.amount), tt.currency)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizeCurrency(t *testing.T) {
	code, err := NormalizeCurrency(" usd ")
	require.NoError(t, err)
	assert.Equal(t, "USD", code)

	_, err = NormalizeCurrency("XYZQ")
	assert.Error(t, err)

	_, err = NormalizeCurrency("")
	assert.Error(t, err)
}

func TestProgressBar(t *testing.T) {
	assert.Equal(t, "░░░░░░░░░░░░░░░░░░░░ 0%", ProgressBar(0, 3))
	assert.Equal(t, "██████████░░░░░░░░░░ 50%", ProgressBar(1, 2))
	assert.Equal(t, "████████████████████ 100%", ProgressBar(3, 3))
	assert.Equal(t, "░░░░░░░░░░░░░░░░░░░░ 0%", ProgressBar(0, 0))
}
