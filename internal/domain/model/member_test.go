package model_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coopandina/teller/internal/domain/model"
)

func newMember(t *testing.T) model.Member {
	t.Helper()
	member, err := model.NewMember(
		uuid.New(), "44556677", "Rosa", "Quispe",
		time.Date(1985, 6, 12, 0, 0, 0, 0, time.UTC),
		"Av. Los Andes 123", "987654321", "rosa@example.com",
		time.Now().UTC(),
	)
	require.NoError(t, err)
	return member
}

func TestNewMember(t *testing.T) {
	now := time.Now().UTC()

	t.Run("requires identity fields", func(t *testing.T) {
		_, err := model.NewMember(
			uuid.New(), "", "Rosa", "Quispe",
			time.Date(1985, 6, 12, 0, 0, 0, 0, time.UTC),
			"", "", "", now,
		)
		assert.ErrorContains(t, err, "document number")

		_, err = model.NewMember(
			uuid.New(), "44556677", "", "Quispe",
			time.Date(1985, 6, 12, 0, 0, 0, 0, time.UTC),
			"", "", "", now,
		)
		assert.ErrorContains(t, err, "name")
	})

	t.Run("rejects a birth date in the future", func(t *testing.T) {
		_, err := model.NewMember(
			uuid.New(), "44556677", "Rosa", "Quispe",
			now.AddDate(1, 0, 0), "", "", "", now,
		)
		assert.ErrorContains(t, err, "birth date")
	})
}

func TestMemberSyncEligibility(t *testing.T) {
	t.Run("new members start unsynced", func(t *testing.T) {
		assert.False(t, newMember(t).Synced())
	})

	t.Run("coordinate capture makes a synced member eligible again", func(t *testing.T) {
		member := newMember(t).MarkSynced()
		require.True(t, member.Synced())

		located := member.WithCoordinates(model.Coordinates{Latitude: -12.05, Longitude: -77.04})
		assert.False(t, located.Synced())
		require.NotNil(t, located.Coordinates())
		// Original is untouched.
		assert.True(t, member.Synced())
	})

	t.Run("contact correction makes a synced member eligible again", func(t *testing.T) {
		member := newMember(t).MarkSynced()

		updated := member.UpdateContact("Jr. Puno 45", "912345678", "rosa.q@example.com")
		assert.False(t, updated.Synced())
		assert.Equal(t, "Jr. Puno 45", updated.Address())
	})
}
