package storage

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/regimenhq/regimen/internal/utils"
)

// duplicateThreshold is the bigram similarity above which two
// equipment names are treated as the same device.
const duplicateThreshold = 0.8

const equipmentColumns = `id, user_id, name, usage_timing, duration_minutes, frequency, frequency_days, is_active, created_at, updated_at`

func scanEquipment(row interface{ Scan(...any) error }) (*Equipment, error) {
	var e Equipment
	var timing, days sql.NullString
	var duration sql.NullInt64
	var active int
	err := row.Scan(&e.ID, &e.UserID, &e.Name, &timing, &duration, &e.Frequency, &days, &active, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}
	e.UsageTiming = timing.String
	if duration.Valid {
		v := int(duration.Int64)
		e.DurationMinutes = &v
	}
	e.FrequencyDays = decodeStrings(days)
	e.IsActive = active == 1
	return &e, nil
}

// CreateEquipment inserts a device for the user. Unless force is set,
// a name too similar to an existing device is rejected with
// ErrDuplicate so typo re-adds don't split usage history.
func (d *DB) CreateEquipment(ctx context.Context, e *Equipment, force bool) error {
	if !force {
		dup, err := d.findSimilarEquipment(ctx, e.UserID, e.Name)
		if err != nil {
			return err
		}
		if dup != nil {
			return ErrDuplicate
		}
	}
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.Frequency == "" {
		e.Frequency = "daily"
	}
	now := time.Now().UTC()
	e.CreatedAt, e.UpdatedAt = now, now
	_, err := d.sql.ExecContext(ctx,
		`INSERT INTO equipment(`+equipmentColumns+`) VALUES(?,?,?,?,?,?,?,?,?,?)`,
		e.ID, e.UserID, e.Name, nullIfEmpty(e.UsageTiming), e.DurationMinutes,
		e.Frequency, encodeStrings(e.FrequencyDays), boolToInt(e.IsActive), e.CreatedAt, e.UpdatedAt)
	return err
}

// findSimilarEquipment returns the first existing device whose name is
// close enough to the candidate, or nil.
func (d *DB) findSimilarEquipment(ctx context.Context, userID, name string) (*Equipment, error) {
	existing, err := d.ListEquipment(ctx, userID)
	if err != nil {
		return nil, err
	}
	for i := range existing {
		if utils.NameSimilarity(existing[i].Name, name) >= duplicateThreshold {
			return &existing[i], nil
		}
	}
	return nil, nil
}

// GetEquipment fetches one device scoped to the user.
func (d *DB) GetEquipment(ctx context.Context, userID, id string) (*Equipment, error) {
	row := d.sql.QueryRowContext(ctx,
		`SELECT `+equipmentColumns+` FROM equipment WHERE id = ? AND user_id = ?`, id, userID)
	e, err := scanEquipment(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return e, err
}

// ListEquipment returns all of the user's devices, newest first.
func (d *DB) ListEquipment(ctx context.Context, userID string) ([]Equipment, error) {
	rows, err := d.sql.QueryContext(ctx,
		`SELECT `+equipmentColumns+` FROM equipment WHERE user_id = ? ORDER BY created_at DESC, id`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Equipment
	for rows.Next() {
		e, err := scanEquipment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *e)
	}
	return out, rows.Err()
}

// ListScheduledEquipment returns devices that count as part of the
// current protocol: active with a usage timing set.
func (d *DB) ListScheduledEquipment(ctx context.Context, userID string) ([]Equipment, error) {
	rows, err := d.sql.QueryContext(ctx,
		`SELECT `+equipmentColumns+` FROM equipment
		 WHERE user_id = ? AND is_active = 1 AND usage_timing IS NOT NULL AND usage_timing != ''
		 ORDER BY created_at, id`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Equipment
	for rows.Next() {
		e, err := scanEquipment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *e)
	}
	return out, rows.Err()
}

// UpdateEquipment replaces the mutable fields of a device.
func (d *DB) UpdateEquipment(ctx context.Context, e *Equipment) error {
	e.UpdatedAt = time.Now().UTC()
	res, err := d.sql.ExecContext(ctx,
		`UPDATE equipment SET name = ?, usage_timing = ?, duration_minutes = ?,
		   frequency = ?, frequency_days = ?, is_active = ?, updated_at = ?
		 WHERE id = ? AND user_id = ?`,
		e.Name, nullIfEmpty(e.UsageTiming), e.DurationMinutes,
		e.Frequency, encodeStrings(e.FrequencyDays), boolToInt(e.IsActive), e.UpdatedAt,
		e.ID, e.UserID)
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

// DeleteEquipment removes a device scoped to the user.
func (d *DB) DeleteEquipment(ctx context.Context, userID, id string) error {
	res, err := d.sql.ExecContext(ctx,
		`DELETE FROM equipment WHERE id = ? AND user_id = ?`, id, userID)
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
