package money_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coopandina/teller/internal/domain/money"
)

func TestNewCurrency(t *testing.T) {
	t.Run("accepts a valid ISO code", func(t *testing.T) {
		c, err := money.NewCurrency("PEN")
		require.NoError(t, err)
		assert.Equal(t, "PEN", c.Code())
	})

	t.Run("rejects lowercase and wrong lengths", func(t *testing.T) {
		for _, code := range []string{"pen", "PE", "PENS", "", "P3N"} {
			_, err := money.NewCurrency(code)
			assert.Error(t, err, "code %q", code)
		}
	})
}

func TestMoneyArithmetic(t *testing.T) {
	t.Run("adds amounts of the same currency", func(t *testing.T) {
		a, err := money.NewFromString("10.50", "PEN")
		require.NoError(t, err)
		b, err := money.NewFromString("4.25", "PEN")
		require.NoError(t, err)

		sum, err := a.Add(b)
		require.NoError(t, err)
		assert.Equal(t, "14.75 PEN", sum.String())
	})

	t.Run("rejects mixed-currency operations", func(t *testing.T) {
		pen := money.New(decimal.NewFromInt(10), money.PEN)
		usd := money.New(decimal.NewFromInt(10), money.MustCurrency("USD"))

		_, err := pen.Add(usd)
		assert.Error(t, err)
		_, err = pen.Subtract(usd)
		assert.Error(t, err)
		_, err = pen.GreaterThan(usd)
		assert.Error(t, err)
	})

	t.Run("subtract can go negative", func(t *testing.T) {
		a := money.New(decimal.NewFromInt(5), money.PEN)
		b := money.New(decimal.NewFromInt(8), money.PEN)

		diff, err := a.Subtract(b)
		require.NoError(t, err)
		assert.True(t, diff.IsNegative())
	})

	t.Run("sign predicates", func(t *testing.T) {
		zero := money.Zero(money.PEN)
		assert.True(t, zero.IsZero())
		assert.False(t, zero.IsPositive())
		assert.False(t, zero.IsNegative())

		one := money.New(decimal.NewFromInt(1), money.PEN)
		assert.True(t, one.IsPositive())
	})

	t.Run("equal compares amount and currency", func(t *testing.T) {
		a := money.New(decimal.RequireFromString("7.00"), money.PEN)
		b := money.New(decimal.NewFromInt(7), money.PEN)
		assert.True(t, a.Equal(b))

		c := money.New(decimal.NewFromInt(7), money.MustCurrency("USD"))
		assert.False(t, a.Equal(c))
	})
}
