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

func pen(s string) money.Money {
	return money.New(decimal.RequireFromString(s), money.PEN)
}

func TestNewTransaction(t *testing.T) {
	now := time.Now().UTC()
	accountID := uuid.New()

	t.Run("creates a completed deposit", func(t *testing.T) {
		txn, err := model.NewTransaction(
			uuid.New(), &accountID, model.TransactionKindDeposit,
			pen("50.00"), uuid.New(), "REC-001", "", nil, now,
		)
		require.NoError(t, err)
		assert.Equal(t, model.TransactionStatusCompleted, txn.Status())
		assert.Equal(t, accountID, *txn.AccountID())
	})

	t.Run("rejects non-positive amounts", func(t *testing.T) {
		_, err := model.NewTransaction(
			uuid.New(), &accountID, model.TransactionKindDeposit,
			pen("0"), uuid.New(), "REC-002", "", nil, now,
		)
		assert.ErrorIs(t, err, model.ErrInvalidAmount)
	})

	t.Run("requires an account except for collections", func(t *testing.T) {
		_, err := model.NewTransaction(
			uuid.New(), nil, model.TransactionKindDeposit,
			pen("10.00"), uuid.New(), "REC-003", "", nil, now,
		)
		assert.Error(t, err)

		itemID := uuid.New()
		txn, err := model.NewTransaction(
			uuid.New(), nil, model.TransactionKindCollection,
			pen("10.00"), uuid.New(), "REC-004", "", &itemID, now,
		)
		require.NoError(t, err)
		assert.Nil(t, txn.AccountID())
		assert.Equal(t, itemID, *txn.CollectionItemID())
	})

	t.Run("requires teller and receipt number", func(t *testing.T) {
		_, err := model.NewTransaction(
			uuid.New(), &accountID, model.TransactionKindDeposit,
			pen("10.00"), uuid.Nil, "REC-005", "", nil, now,
		)
		assert.Error(t, err)

		_, err = model.NewTransaction(
			uuid.New(), &accountID, model.TransactionKindDeposit,
			pen("10.00"), uuid.New(), "", "", nil, now,
		)
		assert.Error(t, err)
	})
}

func TestTransactionTransitions(t *testing.T) {
	now := time.Now().UTC()
	accountID := uuid.New()

	completed, err := model.NewTransaction(
		uuid.New(), &accountID, model.TransactionKindDeposit,
		pen("25.00"), uuid.New(), "REC-010", "", nil, now,
	)
	require.NoError(t, err)

	t.Run("completed to synced", func(t *testing.T) {
		synced, err := completed.MarkSynced()
		require.NoError(t, err)
		assert.Equal(t, model.TransactionStatusSynced, synced.Status())
	})

	t.Run("synced cannot be marked again", func(t *testing.T) {
		synced, err := completed.MarkSynced()
		require.NoError(t, err)
		_, err = synced.MarkSynced()
		assert.ErrorIs(t, err, valueobject.ErrInvalidStatusTransition)
	})

	t.Run("completed cannot be cancelled", func(t *testing.T) {
		_, err := completed.Cancel()
		assert.ErrorIs(t, err, valueobject.ErrInvalidStatusTransition)
	})

	t.Run("pending can be cancelled", func(t *testing.T) {
		pending := model.ReconstructTransaction(
			uuid.New(), &accountID, model.TransactionKindDeposit,
			pen("25.00"), model.TransactionStatusPending, uuid.New(), now,
			"REC-011", "", nil,
		)
		cancelled, err := pending.Cancel()
		require.NoError(t, err)
		assert.Equal(t, model.TransactionStatusCancelled, cancelled.Status())
	})
}
