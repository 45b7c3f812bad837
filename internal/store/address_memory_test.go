package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"papyrus_back_end/internal/apperr"
	"papyrus_back_end/internal/models"
)

func newAddr(userID, label string) models.Address {
	return models.Address{
		UserID:   userID,
		Label:    label,
		Receiver: "Jean Dupont",
		Province: "bruxelles",
		Detail:   "12 rue des Libraires",
	}
}

func countDefaults(t *testing.T, s AddressStore, userID string) int {
	t.Helper()
	list, err := s.List(context.Background(), userID)
	require.NoError(t, err)

	n := 0
	for _, a := range list {
		if a.IsDefault {
			n++
		}
	}
	return n
}

func TestFirstAddressBecomesDefault(t *testing.T) {
	s := NewMemoryAddressStore()
	ctx := context.Background()

	created, err := s.Create(ctx, newAddr("u1", "maison"))
	require.NoError(t, err)

	assert.True(t, created.IsDefault)
	assert.NotZero(t, created.ID)
}

func TestCreateDefaultDemotesPrevious(t *testing.T) {
	s := NewMemoryAddressStore()
	ctx := context.Background()

	first, err := s.Create(ctx, newAddr("u1", "maison"))
	require.NoError(t, err)

	second := newAddr("u1", "bureau")
	second.IsDefault = true
	created, err := s.Create(ctx, second)
	require.NoError(t, err)

	assert.True(t, created.IsDefault)
	assert.Equal(t, 1, countDefaults(t, s, "u1"))

	got, err := s.Get(ctx, "u1", first.ID.String())
	require.NoError(t, err)
	assert.False(t, got.IsDefault)
}

func TestSecondAddressNotDefaultByDefault(t *testing.T) {
	s := NewMemoryAddressStore()
	ctx := context.Background()

	_, err := s.Create(ctx, newAddr("u1", "maison"))
	require.NoError(t, err)
	second, err := s.Create(ctx, newAddr("u1", "bureau"))
	require.NoError(t, err)

	assert.False(t, second.IsDefault)
	assert.Equal(t, 1, countDefaults(t, s, "u1"))
}

func TestSetDefaultMovesTheFlag(t *testing.T) {
	s := NewMemoryAddressStore()
	ctx := context.Background()

	first, _ := s.Create(ctx, newAddr("u1", "maison"))
	second, _ := s.Create(ctx, newAddr("u1", "bureau"))

	require.NoError(t, s.SetDefault(ctx, "u1", second.ID.String()))

	assert.Equal(t, 1, countDefaults(t, s, "u1"))
	got, _ := s.Get(ctx, "u1", second.ID.String())
	assert.True(t, got.IsDefault)
	got, _ = s.Get(ctx, "u1", first.ID.String())
	assert.False(t, got.IsDefault)
}

func TestUpdatePromoteViaPatch(t *testing.T) {
	s := NewMemoryAddressStore()
	ctx := context.Background()

	first, _ := s.Create(ctx, newAddr("u1", "maison"))
	second, _ := s.Create(ctx, newAddr("u1", "bureau"))

	yes := true
	updated, err := s.Update(ctx, "u1", second.ID.String(), AddressPatch{IsDefault: &yes})
	require.NoError(t, err)

	assert.True(t, updated.IsDefault)
	assert.Equal(t, 1, countDefaults(t, s, "u1"))
	got, _ := s.Get(ctx, "u1", first.ID.String())
	assert.False(t, got.IsDefault)
}

func TestUpdateCannotLeaveZeroDefaults(t *testing.T) {
	s := NewMemoryAddressStore()
	ctx := context.Background()

	only, _ := s.Create(ctx, newAddr("u1", "maison"))

	no := false
	updated, err := s.Update(ctx, "u1", only.ID.String(), AddressPatch{IsDefault: &no})
	require.NoError(t, err)

	assert.True(t, updated.IsDefault)
	assert.Equal(t, 1, countDefaults(t, s, "u1"))
}

func TestDeleteDefaultPromotesMostRecentlyUpdated(t *testing.T) {
	s := NewMemoryAddressStore()
	ctx := context.Background()

	first, _ := s.Create(ctx, newAddr("u1", "maison"))
	second, _ := s.Create(ctx, newAddr("u1", "bureau"))
	third, _ := s.Create(ctx, newAddr("u1", "vacances"))

	// second devient la plus récemment modifiée
	label := "bureau 2"
	_, err := s.Update(ctx, "u1", second.ID.String(), AddressPatch{Label: &label})
	require.NoError(t, err)

	require.NoError(t, s.Delete(ctx, "u1", first.ID.String()))

	assert.Equal(t, 1, countDefaults(t, s, "u1"))
	got, err := s.Get(ctx, "u1", second.ID.String())
	require.NoError(t, err)
	assert.True(t, got.IsDefault)
	got, _ = s.Get(ctx, "u1", third.ID.String())
	assert.False(t, got.IsDefault)
}

func TestDeleteNonDefaultKeepsDefault(t *testing.T) {
	s := NewMemoryAddressStore()
	ctx := context.Background()

	first, _ := s.Create(ctx, newAddr("u1", "maison"))
	second, _ := s.Create(ctx, newAddr("u1", "bureau"))

	require.NoError(t, s.Delete(ctx, "u1", second.ID.String()))

	got, err := s.Get(ctx, "u1", first.ID.String())
	require.NoError(t, err)
	assert.True(t, got.IsDefault)
}

func TestDeleteLastAddressLeavesNone(t *testing.T) {
	s := NewMemoryAddressStore()
	ctx := context.Background()

	only, _ := s.Create(ctx, newAddr("u1", "maison"))
	require.NoError(t, s.Delete(ctx, "u1", only.ID.String()))

	list, err := s.List(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestCrossUserAccessIsNotFound(t *testing.T) {
	s := NewMemoryAddressStore()
	ctx := context.Background()

	addr, _ := s.Create(ctx, newAddr("u1", "maison"))

	_, err := s.Get(ctx, "u2", addr.ID.String())
	assert.True(t, apperr.IsNotFound(err))

	_, err = s.Update(ctx, "u2", addr.ID.String(), AddressPatch{})
	assert.True(t, apperr.IsNotFound(err))

	err = s.Delete(ctx, "u2", addr.ID.String())
	assert.True(t, apperr.IsNotFound(err))

	err = s.SetDefault(ctx, "u2", addr.ID.String())
	assert.True(t, apperr.IsNotFound(err))

	// L'adresse du propriétaire n'a pas bougé
	got, err := s.Get(ctx, "u1", addr.ID.String())
	require.NoError(t, err)
	assert.True(t, got.IsDefault)
}

func TestUpdateUnknownAddress(t *testing.T) {
	s := NewMemoryAddressStore()

	_, err := s.Update(context.Background(), "u1", "00000000-0000-0000-0000-000000000000", AddressPatch{})
	assert.True(t, apperr.IsNotFound(err))
}
