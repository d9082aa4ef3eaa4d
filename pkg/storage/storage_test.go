package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) (*DB, string) {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "test.sqlite"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	u, err := db.CreateUser(context.Background(), "tester")
	require.NoError(t, err)
	return db, u.ID
}

func TestTokenRoundTrip(t *testing.T) {
	db, userID := newTestDB(t)
	ctx := context.Background()

	token, err := db.CreateToken(ctx, userID)
	require.NoError(t, err)

	got, err := db.UserForToken(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, userID, got)

	_, err = db.UserForToken(ctx, "bogus")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreateTokenUnknownUser(t *testing.T) {
	db, _ := newTestDB(t)
	_, err := db.CreateToken(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDietSettingsUpsert(t *testing.T) {
	db, userID := newTestDB(t)
	ctx := context.Background()

	ds, err := db.GetDietSettings(ctx, userID)
	require.NoError(t, err)
	assert.Nil(t, ds, "no diet row until the user sets one")

	protein := 150.0
	require.NoError(t, db.UpsertDietSettings(ctx, &DietSettings{
		UserID:        userID,
		DietType:      "keto",
		TargetProtein: &protein,
	}))

	ds, err = db.GetDietSettings(ctx, userID)
	require.NoError(t, err)
	require.NotNil(t, ds)
	assert.Equal(t, "keto", ds.DietType)
	require.NotNil(t, ds.TargetProtein)
	assert.Equal(t, 150.0, *ds.TargetProtein)
	assert.Nil(t, ds.TargetCarbs)

	// Second upsert replaces, does not duplicate.
	require.NoError(t, db.UpsertDietSettings(ctx, &DietSettings{UserID: userID, DietType: "paleo"}))
	ds, err = db.GetDietSettings(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, "paleo", ds.DietType)
	assert.Nil(t, ds.TargetProtein)
}

func TestSupplementCRUD(t *testing.T) {
	db, userID := newTestDB(t)
	ctx := context.Background()

	s := &Supplement{
		UserID:   userID,
		Name:     "Magnesium Glycinate",
		Category: "mineral",
		Timings:  []string{"pm"},
		IsActive: true,
	}
	require.NoError(t, db.CreateSupplement(ctx, s))
	assert.NotEmpty(t, s.ID)
	assert.Equal(t, "daily", s.Frequency, "frequency defaults per family")

	got, err := db.GetSupplement(ctx, userID, s.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"pm"}, got.Timings)

	got.Timings = []string{"am", "pm"}
	require.NoError(t, db.UpdateSupplement(ctx, got))
	got, err = db.GetSupplement(ctx, userID, s.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"am", "pm"}, got.Timings)

	require.NoError(t, db.DeleteSupplement(ctx, userID, s.ID))
	_, err = db.GetSupplement(ctx, userID, s.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSupplementUserScoping(t *testing.T) {
	db, userID := newTestDB(t)
	ctx := context.Background()

	other, err := db.CreateUser(ctx, "other")
	require.NoError(t, err)

	s := &Supplement{UserID: userID, Name: "Creatine", Timings: []string{"am"}, IsActive: true}
	require.NoError(t, db.CreateSupplement(ctx, s))

	_, err = db.GetSupplement(ctx, other.ID, s.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, db.DeleteSupplement(ctx, other.ID, s.ID), ErrNotFound)
}

func TestEquipmentDuplicateDetection(t *testing.T) {
	db, userID := newTestDB(t)
	ctx := context.Background()

	first := &Equipment{UserID: userID, Name: "Sauna Blanket", UsageTiming: "evening", IsActive: true}
	require.NoError(t, db.CreateEquipment(ctx, first, false))

	dup := &Equipment{UserID: userID, Name: "sauna  blanket", UsageTiming: "evening", IsActive: true}
	assert.ErrorIs(t, db.CreateEquipment(ctx, dup, false), ErrDuplicate)

	// force bypasses the similarity gate.
	require.NoError(t, db.CreateEquipment(ctx, dup, true))

	distinct := &Equipment{UserID: userID, Name: "Treadmill", IsActive: true}
	require.NoError(t, db.CreateEquipment(ctx, distinct, false))
}
