package storage

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// GetDietSettings returns the user's diet row, or (nil, nil) when the
// user has never configured a diet. Absence is not an error here: the
// snapshot builder maps it to the untracked default.
func (d *DB) GetDietSettings(ctx context.Context, userID string) (*DietSettings, error) {
	var (
		ds    DietSettings
		other sql.NullString
	)
	err := d.sql.QueryRowContext(ctx,
		`SELECT user_id, diet_type, diet_type_other, target_protein_g, target_carbs_g, target_fat_g, updated_at
		 FROM diet_settings WHERE user_id = ?`, userID).
		Scan(&ds.UserID, &ds.DietType, &other, &ds.TargetProtein, &ds.TargetCarbs, &ds.TargetFat, &ds.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if other.Valid {
		ds.DietTypeOther = &other.String
	}
	return &ds, nil
}

// UpsertDietSettings creates or replaces the user's diet row.
func (d *DB) UpsertDietSettings(ctx context.Context, ds *DietSettings) error {
	ds.UpdatedAt = time.Now().UTC()
	_, err := d.sql.ExecContext(ctx,
		`INSERT INTO diet_settings(user_id, diet_type, diet_type_other, target_protein_g, target_carbs_g, target_fat_g, updated_at)
		 VALUES(?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(user_id) DO UPDATE SET
		   diet_type = excluded.diet_type,
		   diet_type_other = excluded.diet_type_other,
		   target_protein_g = excluded.target_protein_g,
		   target_carbs_g = excluded.target_carbs_g,
		   target_fat_g = excluded.target_fat_g,
		   updated_at = excluded.updated_at`,
		ds.UserID, ds.DietType, ds.DietTypeOther, ds.TargetProtein, ds.TargetCarbs, ds.TargetFat, ds.UpdatedAt)
	return err
}
