package model_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coopandina/teller/internal/domain/model"
	"github.com/coopandina/teller/internal/domain/valueobject"
)

func newPendingItem(t *testing.T, original string, dueDate time.Time) model.CollectionItem {
	t.Helper()
	item, err := model.NewCollectionItem(
		uuid.New(), uuid.New(), nil, nil, nil,
		pen(original), dueDate, valueobject.CollectionKindInstallment,
		"cuota de préstamo", nil,
	)
	require.NoError(t, err)
	return item
}

func TestApplyPayment(t *testing.T) {
	due := time.Now().UTC().AddDate(0, 0, 7)

	t.Run("partial payments reduce outstanding until settled", func(t *testing.T) {
		item := newPendingItem(t, "200.00", due)

		item, err := item.ApplyPayment(pen("80.00"))
		require.NoError(t, err)
		assert.Equal(t, "120.00 PEN", item.Outstanding().String())
		assert.Equal(t, model.CollectionStatusPending, item.Status())
		assert.Equal(t, 2, item.Version())
		assert.False(t, item.Synced())

		item, err = item.ApplyPayment(pen("120.00"))
		require.NoError(t, err)
		assert.True(t, item.Outstanding().IsZero())
		assert.Equal(t, model.CollectionStatusPaid, item.Status())
		assert.Equal(t, 3, item.Version())
	})

	t.Run("rejects overpayment without mutating", func(t *testing.T) {
		item := newPendingItem(t, "50.00", due)

		_, err := item.ApplyPayment(pen("50.01"))
		assert.ErrorIs(t, err, model.ErrAmountExceedsOutstanding)
		assert.Equal(t, "50.00 PEN", item.Outstanding().String())
		assert.Equal(t, 1, item.Version())
	})

	t.Run("rejects non-positive amounts", func(t *testing.T) {
		item := newPendingItem(t, "50.00", due)
		_, err := item.ApplyPayment(pen("0"))
		assert.ErrorIs(t, err, model.ErrInvalidAmount)
	})

	t.Run("rejects payments on settled items", func(t *testing.T) {
		item := newPendingItem(t, "10.00", due)
		item, err := item.ApplyPayment(pen("10.00"))
		require.NoError(t, err)

		_, err = item.ApplyPayment(pen("1.00"))
		assert.ErrorIs(t, err, model.ErrCollectionPaid)
	})

	t.Run("rejects payments on cancelled items", func(t *testing.T) {
		item := newPendingItem(t, "10.00", due)
		item, err := item.Cancel()
		require.NoError(t, err)

		_, err = item.ApplyPayment(pen("1.00"))
		assert.ErrorIs(t, err, model.ErrCollectionCancelled)
	})
}

func TestEffectiveStatus(t *testing.T) {
	now := time.Now().UTC()

	t.Run("pending past due reads as overdue", func(t *testing.T) {
		item := newPendingItem(t, "100.00", now.AddDate(0, 0, -3))
		assert.Equal(t, model.CollectionStatusOverdue, item.EffectiveStatus(now))
		// Stored status never holds OVERDUE.
		assert.Equal(t, model.CollectionStatusPending, item.Status())
		assert.Equal(t, 3, item.DaysOverdue(now))
	})

	t.Run("pending before due stays pending", func(t *testing.T) {
		item := newPendingItem(t, "100.00", now.AddDate(0, 0, 3))
		assert.Equal(t, model.CollectionStatusPending, item.EffectiveStatus(now))
		assert.Equal(t, 0, item.DaysOverdue(now))
	})

	t.Run("paid items never read as overdue", func(t *testing.T) {
		item := newPendingItem(t, "100.00", now.AddDate(0, 0, -30))
		item, err := item.ApplyPayment(pen("100.00"))
		require.NoError(t, err)

		assert.Equal(t, model.CollectionStatusPaid, item.EffectiveStatus(now))
		assert.Equal(t, 0, item.DaysOverdue(now))
	})
}
