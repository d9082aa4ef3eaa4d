package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/regimenhq/regimen/pkg/protocol"
)

// createRetries bounds how often CreateVersion re-reads the latest
// version after losing a version-number race to a concurrent create.
const createRetries = 3

func scanVersion(row interface{ Scan(...any) error }) (*RoutineVersion, error) {
	var v RoutineVersion
	var snapshotRaw, changesRaw string
	var reason sql.NullString
	err := row.Scan(&v.ID, &v.UserID, &v.VersionNumber, &snapshotRaw, &changesRaw, &reason, &v.CreatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(snapshotRaw), &v.Snapshot); err != nil {
		return nil, fmt.Errorf("decode snapshot of version %s: %w", v.ID, err)
	}
	if err := json.Unmarshal([]byte(changesRaw), &v.Changes); err != nil {
		return nil, fmt.Errorf("decode changes of version %s: %w", v.ID, err)
	}
	v.Reason = reason.String
	return &v, nil
}

const versionColumns = `id, user_id, version_number, snapshot, changes, reason, created_at`

// LatestVersion returns the highest-numbered version for the user, or
// (nil, nil) when no version exists yet.
func (d *DB) LatestVersion(ctx context.Context, userID string) (*RoutineVersion, error) {
	row := d.sql.QueryRowContext(ctx,
		`SELECT `+versionColumns+` FROM routine_versions
		 WHERE user_id = ? ORDER BY version_number DESC LIMIT 1`, userID)
	v, err := scanVersion(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return v, err
}

// ListVersions returns the user's versions ordered newest first.
func (d *DB) ListVersions(ctx context.Context, userID string, limit, offset int) ([]RoutineVersion, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	rows, err := d.sql.QueryContext(ctx,
		`SELECT `+versionColumns+` FROM routine_versions
		 WHERE user_id = ? ORDER BY version_number DESC LIMIT ? OFFSET ?`, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []RoutineVersion
	for rows.Next() {
		v, err := scanVersion(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *v)
	}
	return out, rows.Err()
}

// GetVersion fetches one version by id, scoped to the user.
func (d *DB) GetVersion(ctx context.Context, userID, id string) (*RoutineVersion, error) {
	row := d.sql.QueryRowContext(ctx,
		`SELECT `+versionColumns+` FROM routine_versions WHERE id = ? AND user_id = ?`, id, userID)
	v, err := scanVersion(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return v, err
}

// CreateVersion snapshots the user's current protocol, diffs it
// against the latest saved version and persists the result as the next
// version. Returns ErrNoChanges when the diff is empty, which keeps
// repeated saves from piling up identical versions.
//
// Version numbers are previous+1; the UNIQUE(user_id, version_number)
// index turns a concurrent-create race into a constraint violation,
// which we resolve by re-reading the latest version and diffing again.
func (d *DB) CreateVersion(ctx context.Context, userID, reason string) (*RoutineVersion, error) {
	current, err := d.BuildSnapshot(ctx, userID)
	if err != nil {
		return nil, err
	}

	for attempt := 0; attempt < createRetries; attempt++ {
		previous, err := d.LatestVersion(ctx, userID)
		if err != nil {
			return nil, err
		}

		var prevSnapshot *protocol.RoutineSnapshot
		nextNumber := 1
		if previous != nil {
			prevSnapshot = &previous.Snapshot
			nextNumber = previous.VersionNumber + 1
		}

		changes := protocol.Diff(prevSnapshot, current)
		if changes.Empty() {
			return nil, ErrNoChanges
		}

		v := &RoutineVersion{
			ID:            uuid.NewString(),
			UserID:        userID,
			VersionNumber: nextNumber,
			Snapshot:      current,
			Changes:       changes,
			Reason:        reason,
			CreatedAt:     time.Now().UTC(),
		}
		snapshotRaw, err := json.Marshal(v.Snapshot)
		if err != nil {
			return nil, err
		}
		changesRaw, err := json.Marshal(v.Changes)
		if err != nil {
			return nil, err
		}

		_, err = d.sql.ExecContext(ctx,
			`INSERT INTO routine_versions(`+versionColumns+`) VALUES(?,?,?,?,?,?,?)`,
			v.ID, v.UserID, v.VersionNumber, string(snapshotRaw), string(changesRaw),
			nullIfEmpty(v.Reason), v.CreatedAt)
		if isUniqueViolation(err) {
			// Lost the race: someone else took this version number.
			continue
		}
		if err != nil {
			return nil, err
		}
		return v, nil
	}

	return nil, fmt.Errorf("version number contention for user %s, giving up after %d attempts", userID, createRetries)
}
