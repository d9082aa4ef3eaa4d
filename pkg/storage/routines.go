package storage

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
)

// CreateRoutine inserts a routine for the user.
func (d *DB) CreateRoutine(ctx context.Context, r *Routine) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	r.CreatedAt = time.Now().UTC()
	_, err := d.sql.ExecContext(ctx,
		`INSERT INTO routines(id, user_id, name, description, created_at) VALUES(?,?,?,?,?)`,
		r.ID, r.UserID, r.Name, nullIfEmpty(r.Description), r.CreatedAt)
	return err
}

// GetRoutine fetches one routine scoped to the user.
func (d *DB) GetRoutine(ctx context.Context, userID, id string) (*Routine, error) {
	var r Routine
	var desc sql.NullString
	err := d.sql.QueryRowContext(ctx,
		`SELECT id, user_id, name, description, created_at FROM routines WHERE id = ? AND user_id = ?`,
		id, userID).Scan(&r.ID, &r.UserID, &r.Name, &desc, &r.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	r.Description = desc.String
	return &r, nil
}

// ListRoutines returns all of the user's routines.
func (d *DB) ListRoutines(ctx context.Context, userID string) ([]Routine, error) {
	rows, err := d.sql.QueryContext(ctx,
		`SELECT id, user_id, name, description, created_at FROM routines WHERE user_id = ? ORDER BY created_at, id`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Routine
	for rows.Next() {
		var r Routine
		var desc sql.NullString
		if err := rows.Scan(&r.ID, &r.UserID, &r.Name, &desc, &r.CreatedAt); err != nil {
			return nil, err
		}
		r.Description = desc.String
		out = append(out, r)
	}
	return out, rows.Err()
}

// DeleteRoutine removes a routine and, via cascade, its items.
func (d *DB) DeleteRoutine(ctx context.Context, userID, id string) error {
	res, err := d.sql.ExecContext(ctx,
		`DELETE FROM routines WHERE id = ? AND user_id = ?`, id, userID)
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

func scanRoutineItem(row interface{ Scan(...any) error }) (*RoutineItem, error) {
	var it RoutineItem
	var timing, days sql.NullString
	var duration sql.NullInt64
	err := row.Scan(&it.ID, &it.RoutineID, &it.Name, &timing, &duration, &it.Frequency, &days, &it.Position, &it.CreatedAt)
	if err != nil {
		return nil, err
	}
	if timing.Valid {
		it.Timing = &timing.String
	}
	if duration.Valid {
		v := int(duration.Int64)
		it.DurationMinutes = &v
	}
	it.FrequencyDays = decodeStrings(days)
	return &it, nil
}

const routineItemColumns = `id, routine_id, name, timing, duration_minutes, frequency, frequency_days, position, created_at`

// AddRoutineItem appends an item to a routine owned by the user.
func (d *DB) AddRoutineItem(ctx context.Context, userID string, it *RoutineItem) error {
	if _, err := d.GetRoutine(ctx, userID, it.RoutineID); err != nil {
		return err
	}
	if it.ID == "" {
		it.ID = uuid.NewString()
	}
	if it.Frequency == "" {
		it.Frequency = "daily"
	}
	it.CreatedAt = time.Now().UTC()
	_, err := d.sql.ExecContext(ctx,
		`INSERT INTO routine_items(`+routineItemColumns+`) VALUES(?,?,?,?,?,?,?,?,?)`,
		it.ID, it.RoutineID, it.Name, it.Timing, it.DurationMinutes, it.Frequency,
		encodeStrings(it.FrequencyDays), it.Position, it.CreatedAt)
	return err
}

// ListRoutineItems returns the items of one routine owned by the user.
func (d *DB) ListRoutineItems(ctx context.Context, userID, routineID string) ([]RoutineItem, error) {
	if _, err := d.GetRoutine(ctx, userID, routineID); err != nil {
		return nil, err
	}
	rows, err := d.sql.QueryContext(ctx,
		`SELECT `+routineItemColumns+` FROM routine_items WHERE routine_id = ? ORDER BY position, created_at, id`, routineID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []RoutineItem
	for rows.Next() {
		it, err := scanRoutineItem(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *it)
	}
	return out, rows.Err()
}

// ListAllRoutineItems returns every item across all of the user's
// routines. No active or timing filter applies to this family.
func (d *DB) ListAllRoutineItems(ctx context.Context, userID string) ([]RoutineItem, error) {
	rows, err := d.sql.QueryContext(ctx,
		`SELECT ri.id, ri.routine_id, ri.name, ri.timing, ri.duration_minutes, ri.frequency, ri.frequency_days, ri.position, ri.created_at
		 FROM routine_items ri
		 JOIN routines r ON r.id = ri.routine_id
		 WHERE r.user_id = ?
		 ORDER BY r.created_at, ri.position, ri.created_at, ri.id`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []RoutineItem
	for rows.Next() {
		it, err := scanRoutineItem(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *it)
	}
	return out, rows.Err()
}

// DeleteRoutineItem removes one item from a routine owned by the user.
func (d *DB) DeleteRoutineItem(ctx context.Context, userID, routineID, itemID string) error {
	if _, err := d.GetRoutine(ctx, userID, routineID); err != nil {
		return err
	}
	res, err := d.sql.ExecContext(ctx,
		`DELETE FROM routine_items WHERE id = ? AND routine_id = ?`, itemID, routineID)
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
