package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const scheduleItemColumns = `id, user_id, name, item_type, exercise_type, meal_type, timing, duration_minutes, frequency, frequency_days, is_active, created_at, updated_at`

func scanScheduleItem(row interface{ Scan(...any) error }) (*ScheduleItem, error) {
	var s ScheduleItem
	var exType, mealType, timing, days sql.NullString
	var duration sql.NullInt64
	var active int
	err := row.Scan(&s.ID, &s.UserID, &s.Name, &s.ItemType, &exType, &mealType, &timing, &duration, &s.Frequency, &days, &active, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	s.ExerciseType = exType.String
	s.MealType = mealType.String
	if timing.Valid {
		s.Timing = &timing.String
	}
	if duration.Valid {
		v := int(duration.Int64)
		s.DurationMinutes = &v
	}
	s.FrequencyDays = decodeStrings(days)
	s.IsActive = active == 1
	return &s, nil
}

// CreateScheduleItem inserts an exercise or meal item for the user.
func (d *DB) CreateScheduleItem(ctx context.Context, s *ScheduleItem) error {
	if s.ItemType != ItemTypeExercise && s.ItemType != ItemTypeMeal {
		return fmt.Errorf("invalid item_type %q", s.ItemType)
	}
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	if s.Frequency == "" {
		s.Frequency = "daily"
	}
	now := time.Now().UTC()
	s.CreatedAt, s.UpdatedAt = now, now
	_, err := d.sql.ExecContext(ctx,
		`INSERT INTO schedule_items(`+scheduleItemColumns+`) VALUES(?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		s.ID, s.UserID, s.Name, s.ItemType, nullIfEmpty(s.ExerciseType), nullIfEmpty(s.MealType),
		s.Timing, s.DurationMinutes, s.Frequency, encodeStrings(s.FrequencyDays), boolToInt(s.IsActive),
		s.CreatedAt, s.UpdatedAt)
	return err
}

// GetScheduleItem fetches one item scoped to the user.
func (d *DB) GetScheduleItem(ctx context.Context, userID, id string) (*ScheduleItem, error) {
	row := d.sql.QueryRowContext(ctx,
		`SELECT `+scheduleItemColumns+` FROM schedule_items WHERE id = ? AND user_id = ?`, id, userID)
	s, err := scanScheduleItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return s, err
}

// ListScheduleItems returns all of the user's schedule items.
func (d *DB) ListScheduleItems(ctx context.Context, userID string) ([]ScheduleItem, error) {
	rows, err := d.sql.QueryContext(ctx,
		`SELECT `+scheduleItemColumns+` FROM schedule_items WHERE user_id = ? ORDER BY created_at DESC, id`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []ScheduleItem
	for rows.Next() {
		s, err := scanScheduleItem(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *s)
	}
	return out, rows.Err()
}

// ListScheduledScheduleItems returns items that count as part of the
// current protocol: active with a timing set.
func (d *DB) ListScheduledScheduleItems(ctx context.Context, userID string) ([]ScheduleItem, error) {
	rows, err := d.sql.QueryContext(ctx,
		`SELECT `+scheduleItemColumns+` FROM schedule_items
		 WHERE user_id = ? AND is_active = 1 AND timing IS NOT NULL
		 ORDER BY created_at, id`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []ScheduleItem
	for rows.Next() {
		s, err := scanScheduleItem(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *s)
	}
	return out, rows.Err()
}

// UpdateScheduleItem replaces the mutable fields of an item.
func (d *DB) UpdateScheduleItem(ctx context.Context, s *ScheduleItem) error {
	s.UpdatedAt = time.Now().UTC()
	res, err := d.sql.ExecContext(ctx,
		`UPDATE schedule_items SET name = ?, exercise_type = ?, meal_type = ?, timing = ?,
		   duration_minutes = ?, frequency = ?, frequency_days = ?, is_active = ?, updated_at = ?
		 WHERE id = ? AND user_id = ?`,
		s.Name, nullIfEmpty(s.ExerciseType), nullIfEmpty(s.MealType), s.Timing,
		s.DurationMinutes, s.Frequency, encodeStrings(s.FrequencyDays), boolToInt(s.IsActive), s.UpdatedAt,
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

// DeleteScheduleItem removes an item scoped to the user.
func (d *DB) DeleteScheduleItem(ctx context.Context, userID, id string) error {
	res, err := d.sql.ExecContext(ctx,
		`DELETE FROM schedule_items WHERE id = ? AND user_id = ?`, id, userID)
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
