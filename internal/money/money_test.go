package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", "123.45", "123.45"},
		{"euro symbol", "€1,234.56", "1234.56"},
		{"pound with space", "£ 99.10", "99.1"},
		{"dollar", "$20.00", "20"},
		{"code suffix", "45.00 EUR", "45"},
		{"trailing dot", "12.", "12"},
		{"leading minus", "-12.50", "-12.5"},
		{"trailing minus", "12.50-", "-12.5"},
		{"parentheses", "(7.00)", "-7"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseAmount(tt.input)
			require.NoError(t, err)
			assert.True(t, decimal.RequireFromString(tt.want).Equal(got), "got %s", got)
		})
	}
}

func TestParseAmount_Errors(t *testing.T) {
	_, err := ParseAmount("   ")
	assert.ErrorIs(t, err, ErrEmptyAmount)

	_, err = ParseAmount("12,3a")
	assert.Error(t, err)

	_, ok := Parse("abc")
	assert.False(t, ok)
}

func TestFixed(t *testing.T) {
	assert.Equal(t, "123.40", Fixed(decimal.RequireFromString("123.4")))
	assert.Equal(t, "0.00", FixedString("Not found"))
	assert.Equal(t, "1234.50", FixedString("€1,234.5"))
}

func TestFormat(t *testing.T) {
	tests := []struct {
		name     string
		amount   string
		currency string
		want     string
	}{
		{"euro thousands", "60000", EUR, "€60,000.00"},
		{"euro negative", "-12.5", EUR, "-€12.50"},
		{"pound", "9.99", GBP, "£9.99"},
		{"unknown currency falls back", "1", "???", "€1.00"},
		{"rounds to cents", "0.005", EUR, "€0.01"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Format(decimal.RequireFromString(tt.amount), tt.currency))
		})
	}
}

func TestMax(t *testing.T) {
	_, ok := Max(nil)
	assert.False(t, ok)

	got, ok := Max([]decimal.Decimal{
		decimal.RequireFromString("3.10"),
		decimal.RequireFromString("41.00"),
		decimal.RequireFromString("7"),
	})
	require.True(t, ok)
	assert.Equal(t, "41.00", Fixed(got))
}
