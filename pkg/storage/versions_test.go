package storage

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLatestVersionNone(t *testing.T) {
	db, userID := newTestDB(t)

	v, err := db.LatestVersion(context.Background(), userID)
	require.NoError(t, err)
	assert.Nil(t, v, "no versions yet is not an error")
}

func TestCreateVersionEmptyProtocol(t *testing.T) {
	db, userID := newTestDB(t)

	// Nothing scheduled, untracked diet: the first diff is empty too.
	_, err := db.CreateVersion(context.Background(), userID, "")
	assert.ErrorIs(t, err, ErrNoChanges)
}

func TestCreateVersionLifecycle(t *testing.T) {
	db, userID := newTestDB(t)
	ctx := context.Background()

	s := &Supplement{UserID: userID, Name: "Magnesium", Timings: []string{"pm"}, IsActive: true}
	require.NoError(t, db.CreateSupplement(ctx, s))

	v1, err := db.CreateVersion(ctx, userID, "starting out")
	require.NoError(t, err)
	assert.Equal(t, 1, v1.VersionNumber)
	assert.Equal(t, "starting out", v1.Reason)
	require.Len(t, v1.Changes.Started, 1)
	assert.Equal(t, "supplement-"+s.ID, v1.Changes.Started[0].ID)
	assert.Empty(t, v1.Changes.Stopped)

	// No drift: saving again is rejected, number not consumed.
	_, err = db.CreateVersion(ctx, userID, "")
	assert.ErrorIs(t, err, ErrNoChanges)
	latest, err := db.LatestVersion(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, 1, latest.VersionNumber)

	// Deactivate: the supplement drops out of the snapshot.
	s.IsActive = false
	require.NoError(t, db.UpdateSupplement(ctx, s))

	v2, err := db.CreateVersion(ctx, userID, "")
	require.NoError(t, err)
	assert.Equal(t, 2, v2.VersionNumber)
	assert.Empty(t, v2.Changes.Started)
	require.Len(t, v2.Changes.Stopped, 1)
	assert.Equal(t, "supplement-"+s.ID, v2.Changes.Stopped[0].ID)
}

func TestCreateVersionSequentialNumbers(t *testing.T) {
	db, userID := newTestDB(t)
	ctx := context.Background()

	for i, name := range []string{"Creatine", "Zinc", "Omega 3"} {
		sup := &Supplement{UserID: userID, Name: name, Timings: []string{"am"}, IsActive: true}
		require.NoError(t, db.CreateSupplement(ctx, sup))

		v, err := db.CreateVersion(ctx, userID, "")
		require.NoError(t, err)
		assert.Equal(t, i+1, v.VersionNumber, "numbers are gapless under serial use")
	}
}

func TestVersionNumberUniqueIndex(t *testing.T) {
	db, userID := newTestDB(t)
	ctx := context.Background()

	insert := func() error {
		_, err := db.sql.ExecContext(ctx,
			`INSERT INTO routine_versions(id, user_id, version_number, snapshot, changes, created_at)
			 VALUES(?, ?, 1, '{}', '{}', CURRENT_TIMESTAMP)`, uuid.NewString(), userID)
		return err
	}
	require.NoError(t, insert())

	err := insert()
	require.Error(t, err, "second row with the same (user_id, version_number) must be rejected")
	assert.True(t, isUniqueViolation(err), "driver error must be recognized so CreateVersion retries")
}

func TestCreateVersionConcurrent(t *testing.T) {
	db, userID := newTestDB(t)
	ctx := context.Background()

	sup := &Supplement{UserID: userID, Name: "Creatine", Timings: []string{"am"}, IsActive: true}
	require.NoError(t, db.CreateSupplement(ctx, sup))

	// Racers snapshot the same protocol: exactly one may win version 1,
	// every loser must re-diff against the winner and come back empty.
	const racers = 4
	results := make(chan error, racers)
	var start sync.WaitGroup
	start.Add(1)
	for i := 0; i < racers; i++ {
		go func() {
			start.Wait()
			_, err := db.CreateVersion(ctx, userID, "")
			results <- err
		}()
	}
	start.Done()

	var wins, noChanges int
	for i := 0; i < racers; i++ {
		switch err := <-results; {
		case err == nil:
			wins++
		case errors.Is(err, ErrNoChanges):
			noChanges++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, wins)
	assert.Equal(t, racers-1, noChanges)

	v, err := db.LatestVersion(ctx, userID)
	require.NoError(t, err)
	require.NotNil(t, v)
	assert.Equal(t, 1, v.VersionNumber)

	all, err := db.ListVersions(ctx, userID, 10, 0)
	require.NoError(t, err)
	assert.Len(t, all, 1, "identical racing saves must not pile up versions")
}

func TestCreateVersionModifiedField(t *testing.T) {
	db, userID := newTestDB(t)
	ctx := context.Background()

	s := &Supplement{UserID: userID, Name: "Magnesium", Timings: []string{"pm"}, IsActive: true}
	require.NoError(t, db.CreateSupplement(ctx, s))
	_, err := db.CreateVersion(ctx, userID, "")
	require.NoError(t, err)

	s.Timings = []string{"am", "pm"}
	require.NoError(t, db.UpdateSupplement(ctx, s))

	v, err := db.CreateVersion(ctx, userID, "")
	require.NoError(t, err)
	assert.Empty(t, v.Changes.Started)
	assert.Empty(t, v.Changes.Stopped)
	require.Len(t, v.Changes.Modified, 1)
	require.Len(t, v.Changes.Modified[0].Changes, 1)
	assert.Equal(t, "timings", v.Changes.Modified[0].Changes[0].Field)
}

func TestCreateVersionDietOnly(t *testing.T) {
	db, userID := newTestDB(t)
	ctx := context.Background()

	require.NoError(t, db.UpsertDietSettings(ctx, &DietSettings{UserID: userID, DietType: "keto"}))

	v, err := db.CreateVersion(ctx, userID, "")
	require.NoError(t, err)
	require.NotNil(t, v.Changes.DietChanged)
	assert.Equal(t, "untracked", v.Changes.DietChanged.From)
	assert.Equal(t, "keto", v.Changes.DietChanged.To)
	assert.Empty(t, v.Changes.Started)
}

func TestVersionRoundTripAndListing(t *testing.T) {
	db, userID := newTestDB(t)
	ctx := context.Background()

	for _, name := range []string{"A", "B", "C"} {
		sup := &Supplement{UserID: userID, Name: name, Timings: []string{"am"}, IsActive: true}
		require.NoError(t, db.CreateSupplement(ctx, sup))
		_, err := db.CreateVersion(ctx, userID, "")
		require.NoError(t, err)
	}

	versions, err := db.ListVersions(ctx, userID, 10, 0)
	require.NoError(t, err)
	require.Len(t, versions, 3)
	assert.Equal(t, 3, versions[0].VersionNumber, "newest first")
	assert.Equal(t, 1, versions[2].VersionNumber)
	assert.Len(t, versions[0].Snapshot.Items, 3, "snapshot survives the JSON round trip")

	page, err := db.ListVersions(ctx, userID, 1, 1)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, 2, page[0].VersionNumber)

	got, err := db.GetVersion(ctx, userID, versions[0].ID)
	require.NoError(t, err)
	assert.Equal(t, versions[0].VersionNumber, got.VersionNumber)
}

func TestGetVersionScopedToOwner(t *testing.T) {
	db, userID := newTestDB(t)
	ctx := context.Background()

	sup := &Supplement{UserID: userID, Name: "Zinc", Timings: []string{"am"}, IsActive: true}
	require.NoError(t, db.CreateSupplement(ctx, sup))
	v, err := db.CreateVersion(ctx, userID, "")
	require.NoError(t, err)

	other, err := db.CreateUser(ctx, "other")
	require.NoError(t, err)
	_, err = db.GetVersion(ctx, other.ID, v.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
