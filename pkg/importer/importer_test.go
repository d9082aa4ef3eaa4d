package importer

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/regimenhq/regimen/pkg/storage"
)

const sampleExport = `{
	"diet": {
		"diet_type": "keto",
		"target_protein_g": 140
	},
	"supplements": [
		{"id": "sup-1", "name": "Magnesium", "timings": ["pm"], "frequency": "daily"},
		{"name": "Omega 3", "timings": ["am"], "is_active": false},
		{"timings": ["am"]}
	],
	"equipment": [
		{"id": "eq-1", "name": "Sauna", "usage_timing": "evening", "duration_minutes": 20}
	],
	"schedule_items": [
		{"id": "si-1", "name": "Zone 2 Run", "item_type": "exercise", "timing": "07:00"},
		{"name": "Brunch", "item_type": "snacktime"}
	]
}`

func writeExport(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "export.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func newTestDB(t *testing.T) (*storage.DB, string) {
	t.Helper()
	db, err := storage.Open(filepath.Join(t.TempDir(), "test.sqlite"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	u, err := db.CreateUser(context.Background(), "tester")
	require.NoError(t, err)
	return db, u.ID
}

func TestImportFile(t *testing.T) {
	db, userID := newTestDB(t)
	ctx := context.Background()
	path := writeExport(t, sampleExport)

	summary, err := ImportFile(ctx, db, userID, path)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Supplements, "nameless supplement is skipped")
	assert.Equal(t, 1, summary.Equipment)
	assert.Equal(t, 1, summary.ScheduleItems, "unknown item_type is skipped")
	assert.Equal(t, 2, summary.Skipped)
	assert.True(t, summary.DietApplied)

	ds, err := db.GetDietSettings(ctx, userID)
	require.NoError(t, err)
	require.NotNil(t, ds)
	assert.Equal(t, "keto", ds.DietType)
	require.NotNil(t, ds.TargetProtein)
	assert.Equal(t, 140.0, *ds.TargetProtein)

	sup, err := db.GetSupplement(ctx, userID, "sup-1")
	require.NoError(t, err)
	assert.Equal(t, "Magnesium", sup.Name)
	assert.Equal(t, []string{"pm"}, sup.Timings)
	assert.True(t, sup.IsActive, "is_active defaults to true when absent")

	eq, err := db.GetEquipment(ctx, userID, "eq-1")
	require.NoError(t, err)
	require.NotNil(t, eq.DurationMinutes)
	assert.Equal(t, 20, *eq.DurationMinutes)
}

func TestImportFileIdempotent(t *testing.T) {
	db, userID := newTestDB(t)
	ctx := context.Background()
	path := writeExport(t, sampleExport)

	_, err := ImportFile(ctx, db, userID, path)
	require.NoError(t, err)

	// Records with ids are recognized and skipped on re-import. Records
	// without ids get fresh uuids, so they import again.
	summary, err := ImportFile(ctx, db, userID, path)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Supplements)
	assert.Equal(t, 0, summary.Equipment)
	assert.Equal(t, 0, summary.ScheduleItems)
	assert.Equal(t, 5, summary.Skipped)

	sups, err := db.ListSupplements(ctx, userID)
	require.NoError(t, err)
	assert.Len(t, sups, 3)
}

func TestImportFileNotAnObject(t *testing.T) {
	db, userID := newTestDB(t)
	path := writeExport(t, `[1, 2, 3]`)

	_, err := ImportFile(context.Background(), db, userID, path)
	assert.Error(t, err)
}

func TestImportFileMissing(t *testing.T) {
	db, userID := newTestDB(t)

	_, err := ImportFile(context.Background(), db, userID, filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}
