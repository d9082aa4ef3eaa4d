package storage

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// CreateBiomarker inserts a measurement for the user.
func (d *DB) CreateBiomarker(ctx context.Context, b *Biomarker) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	b.CreatedAt = time.Now().UTC()
	_, err := d.sql.ExecContext(ctx,
		`INSERT INTO biomarkers(id, user_id, marker_type, value, unit, measured_at, notes, created_at)
		 VALUES(?,?,?,?,?,?,?,?)`,
		b.ID, b.UserID, b.MarkerType, b.Value, b.Unit, b.MeasuredAt.UTC(), nullIfEmpty(b.Notes), b.CreatedAt)
	return err
}

// ListBiomarkers returns the user's measurements, newest first,
// optionally filtered by marker type.
func (d *DB) ListBiomarkers(ctx context.Context, userID, markerType string) ([]Biomarker, error) {
	q := `SELECT id, user_id, marker_type, value, unit, measured_at, notes, created_at
	      FROM biomarkers WHERE user_id = ?`
	args := []any{userID}
	if markerType != "" {
		q += ` AND marker_type = ?`
		args = append(args, markerType)
	}
	q += ` ORDER BY measured_at DESC, id`

	rows, err := d.sql.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Biomarker
	for rows.Next() {
		var b Biomarker
		var notes sql.NullString
		if err := rows.Scan(&b.ID, &b.UserID, &b.MarkerType, &b.Value, &b.Unit, &b.MeasuredAt, &notes, &b.CreatedAt); err != nil {
			return nil, err
		}
		b.Notes = notes.String
		out = append(out, b)
	}
	return out, rows.Err()
}

// DeleteBiomarker removes a measurement scoped to the user.
func (d *DB) DeleteBiomarker(ctx context.Context, userID, id string) error {
	res, err := d.sql.ExecContext(ctx,
		`DELETE FROM biomarkers WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
