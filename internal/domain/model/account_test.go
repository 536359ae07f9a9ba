package model_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coopandina/teller/internal/domain/model"
	"github.com/coopandina/teller/internal/domain/money"
	"github.com/coopandina/teller/internal/domain/valueobject"
)

func mustAccountNumber(t *testing.T, s string) valueobject.AccountNumber {
	t.Helper()
	n, err := valueobject.AccountNumberFromString(s)
	require.NoError(t, err)
	return n
}

func newBasicAccount(t *testing.T) model.Account {
	t.Helper()
	account, err := model.NewAccount(
		uuid.New(), mustAccountNumber(t, "CAC-00000001"), uuid.New(),
		valueobject.AccountVariantBasic, model.AccountSpec{}, time.Now().UTC(),
	)
	require.NoError(t, err)
	return account
}

func TestNewAccount(t *testing.T) {
	now := time.Now().UTC()

	t.Run("basic account starts active with zero balance", func(t *testing.T) {
		account := newBasicAccount(t)
		assert.Equal(t, model.AccountStatusActive, account.Status())
		assert.True(t, account.Balance().IsZero())
		assert.Equal(t, 1, account.Version())
		assert.False(t, account.Synced())
	})

	t.Run("minor account requires both member references", func(t *testing.T) {
		_, err := model.NewAccount(
			uuid.New(), mustAccountNumber(t, "CAC-00000002"), uuid.New(),
			valueobject.AccountVariantMinor,
			model.AccountSpec{MinorMemberID: uuid.New()}, now,
		)
		assert.ErrorContains(t, err, "guardian member ID")

		_, err = model.NewAccount(
			uuid.New(), mustAccountNumber(t, "CAC-00000002"), uuid.New(),
			valueobject.AccountVariantMinor,
			model.AccountSpec{GuardianMemberID: uuid.New()}, now,
		)
		assert.ErrorContains(t, err, "minor member ID")
	})

	t.Run("future savings sets maturity from term", func(t *testing.T) {
		account, err := model.NewAccount(
			uuid.New(), mustAccountNumber(t, "CAC-00000003"), uuid.New(),
			valueobject.AccountVariantFutureSavings,
			model.AccountSpec{TermDays: 60}, now,
		)
		require.NoError(t, err)
		assert.Equal(t, 60, account.Term().Days())
		assert.Equal(t, now.AddDate(0, 0, 60), account.MaturityDate())
	})

	t.Run("future savings rejects unknown terms", func(t *testing.T) {
		_, err := model.NewAccount(
			uuid.New(), mustAccountNumber(t, "CAC-00000004"), uuid.New(),
			valueobject.AccountVariantFutureSavings,
			model.AccountSpec{TermDays: 45}, now,
		)
		assert.Error(t, err)
	})

	t.Run("future savings rejects a non-positive target", func(t *testing.T) {
		target := money.Zero(money.PEN)
		_, err := model.NewAccount(
			uuid.New(), mustAccountNumber(t, "CAC-00000005"), uuid.New(),
			valueobject.AccountVariantFutureSavings,
			model.AccountSpec{TermDays: 30, TargetAmount: &target}, now,
		)
		assert.Error(t, err)
	})
}

func TestAccountCredit(t *testing.T) {
	now := time.Now().UTC()

	t.Run("credit increases balance and bumps version", func(t *testing.T) {
		account := newBasicAccount(t)

		credited, err := account.Credit(money.New(decimal.RequireFromString("100.00"), money.PEN), now)
		require.NoError(t, err)

		assert.Equal(t, "100.00 PEN", credited.Balance().String())
		assert.Equal(t, account.Version()+1, credited.Version())
		assert.False(t, credited.Synced())
		// Original is untouched.
		assert.True(t, account.Balance().IsZero())
	})

	t.Run("credit rejects non-positive amounts", func(t *testing.T) {
		account := newBasicAccount(t)
		_, err := account.Credit(money.Zero(money.PEN), now)
		assert.ErrorIs(t, err, model.ErrInvalidAmount)
	})

	t.Run("credit rejects inactive accounts", func(t *testing.T) {
		account := newBasicAccount(t)
		blocked, err := account.Block()
		require.NoError(t, err)

		_, err = blocked.Credit(money.New(decimal.NewFromInt(10), money.PEN), now)
		assert.ErrorIs(t, err, model.ErrAccountInactive)
	})
}

func TestAccountStatusTransitions(t *testing.T) {
	t.Run("deactivate then reactivate", func(t *testing.T) {
		account := newBasicAccount(t)

		inactive, err := account.Deactivate()
		require.NoError(t, err)
		assert.Equal(t, model.AccountStatusInactive, inactive.Status())

		active, err := inactive.Reactivate()
		require.NoError(t, err)
		assert.Equal(t, model.AccountStatusActive, active.Status())
	})

	t.Run("invalid transitions are rejected", func(t *testing.T) {
		account := newBasicAccount(t)

		_, err := account.Reactivate()
		assert.ErrorIs(t, err, valueobject.ErrInvalidStatusTransition)

		inactive, err := account.Deactivate()
		require.NoError(t, err)
		_, err = inactive.Deactivate()
		assert.ErrorIs(t, err, valueobject.ErrInvalidStatusTransition)
	})

	t.Run("status change emits a domain event", func(t *testing.T) {
		account := newBasicAccount(t)

		blocked, err := account.Block()
		require.NoError(t, err)

		events := blocked.DomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, "account.status_changed", events[0].EventType())
		assert.Equal(t, account.ID(), events[0].AggregateID())
	})
}
