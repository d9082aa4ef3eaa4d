package storage

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
)

const supplementColumns = `id, user_id, name, category, intake_quantity, intake_form, timings, frequency, frequency_days, is_active, created_at, updated_at`

func scanSupplement(row interface{ Scan(...any) error }) (*Supplement, error) {
	var s Supplement
	var category, qty, form, timings, days sql.NullString
	var active int
	err := row.Scan(&s.ID, &s.UserID, &s.Name, &category, &qty, &form, &timings, &s.Frequency, &days, &active, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	s.Category = category.String
	s.IntakeQuantity = qty.String
	s.IntakeForm = form.String
	s.Timings = decodeStrings(timings)
	s.FrequencyDays = decodeStrings(days)
	s.IsActive = active == 1
	return &s, nil
}

// CreateSupplement inserts a supplement for the user.
func (d *DB) CreateSupplement(ctx context.Context, s *Supplement) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	if s.Frequency == "" {
		s.Frequency = "daily"
	}
	now := time.Now().UTC()
	s.CreatedAt, s.UpdatedAt = now, now
	_, err := d.sql.ExecContext(ctx,
		`INSERT INTO supplements(`+supplementColumns+`) VALUES(?,?,?,?,?,?,?,?,?,?,?,?)`,
		s.ID, s.UserID, s.Name, nullIfEmpty(s.Category), nullIfEmpty(s.IntakeQuantity), nullIfEmpty(s.IntakeForm),
		encodeStrings(s.Timings), s.Frequency, encodeStrings(s.FrequencyDays), boolToInt(s.IsActive), s.CreatedAt, s.UpdatedAt)
	return err
}

// GetSupplement fetches one supplement scoped to the user.
func (d *DB) GetSupplement(ctx context.Context, userID, id string) (*Supplement, error) {
	row := d.sql.QueryRowContext(ctx,
		`SELECT `+supplementColumns+` FROM supplements WHERE id = ? AND user_id = ?`, id, userID)
	s, err := scanSupplement(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return s, err
}

// ListSupplements returns all of the user's supplements, newest first.
func (d *DB) ListSupplements(ctx context.Context, userID string) ([]Supplement, error) {
	rows, err := d.sql.QueryContext(ctx,
		`SELECT `+supplementColumns+` FROM supplements WHERE user_id = ? ORDER BY created_at DESC, id`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Supplement
	for rows.Next() {
		s, err := scanSupplement(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *s)
	}
	return out, rows.Err()
}

// ListScheduledSupplements returns supplements that count as part of
// the current protocol: active with at least one timing.
func (d *DB) ListScheduledSupplements(ctx context.Context, userID string) ([]Supplement, error) {
	rows, err := d.sql.QueryContext(ctx,
		`SELECT `+supplementColumns+` FROM supplements
		 WHERE user_id = ? AND is_active = 1 AND timings IS NOT NULL AND timings != '[]'
		 ORDER BY created_at, id`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Supplement
	for rows.Next() {
		s, err := scanSupplement(rows)
		if err != nil {
			return nil, err
		}
		if len(s.Timings) == 0 {
			continue
		}
		out = append(out, *s)
	}
	return out, rows.Err()
}

// UpdateSupplement replaces the mutable fields of a supplement.
func (d *DB) UpdateSupplement(ctx context.Context, s *Supplement) error {
	s.UpdatedAt = time.Now().UTC()
	res, err := d.sql.ExecContext(ctx,
		`UPDATE supplements SET name = ?, category = ?, intake_quantity = ?, intake_form = ?,
		   timings = ?, frequency = ?, frequency_days = ?, is_active = ?, updated_at = ?
		 WHERE id = ? AND user_id = ?`,
		s.Name, nullIfEmpty(s.Category), nullIfEmpty(s.IntakeQuantity), nullIfEmpty(s.IntakeForm),
		encodeStrings(s.Timings), s.Frequency, encodeStrings(s.FrequencyDays), boolToInt(s.IsActive), s.UpdatedAt,
		s.ID, s.UserID)
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

// DeleteSupplement removes a supplement scoped to the user.
func (d *DB) DeleteSupplement(ctx context.Context, userID, id string) error {
	res, err := d.sql.ExecContext(ctx,
		`DELETE FROM supplements WHERE id = ? AND user_id = ?`, id, userID)
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
