package valueobject

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMoney(t *testing.T) {
	t.Run("valid money", func(t *testing.T) {
		m, err := NewMoney(decimal.NewFromInt(100), NGN)
		require.NoError(t, err)
		assert.True(t, m.Amount().Equal(decimal.NewFromInt(100)))
		assert.Equal(t, NGN, m.Currency())
	})

	t.Run("empty currency", func(t *testing.T) {
		_, err := NewMoney(decimal.NewFromInt(100), "")
		assert.Error(t, err)
	})

	t.Run("from string", func(t *testing.T) {
		m, err := NewMoneyFromString("1234.56", USD)
		require.NoError(t, err)
		assert.Equal(t, "USD 1234.56", m.String())
	})

	t.Run("invalid string", func(t *testing.T) {
		_, err := NewMoneyFromString("not-a-number", USD)
		assert.Error(t, err)
	})
}

func TestMoneyArithmetic(t *testing.T) {
	a := NewMoneyNGNFromFloat(1500.50)
	b := NewMoneyNGNFromFloat(499.50)

	t.Run("add", func(t *testing.T) {
		sum, err := a.Add(b)
		require.NoError(t, err)
		assert.True(t, sum.Amount().Equal(decimal.NewFromInt(2000)))
	})

	t.Run("subtract", func(t *testing.T) {
		diff, err := a.Subtract(b)
		require.NoError(t, err)
		assert.True(t, diff.Amount().Equal(decimal.NewFromFloat(1001)))
	})

	t.Run("multiply by int", func(t *testing.T) {
		m := NewMoneyNGNFromFloat(250).MultiplyInt(4)
		assert.True(t, m.Amount().Equal(decimal.NewFromInt(1000)))
	})

	t.Run("currency mismatch", func(t *testing.T) {
		usd, _ := NewMoneyFromFloat(10, USD)
		_, err := a.Add(usd)
		assert.Error(t, err)

		_, err = a.Subtract(usd)
		assert.Error(t, err)
	})
}

func TestMoneyComparison(t *testing.T) {
	a := NewMoneyNGNFromFloat(100)
	b := NewMoneyNGNFromFloat(200)

	gt, err := b.GreaterThan(a)
	require.NoError(t, err)
	assert.True(t, gt)

	lt, err := a.LessThan(b)
	require.NoError(t, err)
	assert.True(t, lt)

	assert.True(t, a.Equals(NewMoneyNGNFromFloat(100)))
	assert.False(t, a.Equals(b))

	usd, _ := NewMoneyFromFloat(100, USD)
	assert.False(t, a.Equals(usd))
	_, err = a.GreaterThan(usd)
	assert.Error(t, err)
}

func TestMoneyFormat(t *testing.T) {
	cases := []struct {
		amount   float64
		expected string
	}{
		{25000, "NGN25,000.00"},
		{1234567.89, "NGN1,234,567.89"},
		{999, "NGN999.00"},
		{0, "NGN0.00"},
		{-4500.5, "NGN-4,500.50"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.expected, NewMoneyNGNFromFloat(tc.amount).Format())
	}
}

func TestMoneyJSON(t *testing.T) {
	m := NewMoneyNGNFromFloat(750.25)

	data, err := json.Marshal(m)
	require.NoError(t, err)

	var decoded Money
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.True(t, m.Equals(decoded))
}

func TestMoneyZero(t *testing.T) {
	z := ZeroNGN()
	assert.True(t, z.IsZero())
	assert.False(t, z.IsPositive())
	assert.False(t, z.IsNegative())

	neg := NewMoneyNGNFromFloat(-1).Abs()
	assert.True(t, neg.IsPositive())
}
