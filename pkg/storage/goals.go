package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

func validGoalStatus(status string) bool {
	return status == GoalActive || status == GoalAchieved || status == GoalAbandoned
}

func scanGoal(row interface{ Scan(...any) error }) (*Goal, error) {
	var g Goal
	var desc, target sql.NullString
	err := row.Scan(&g.ID, &g.UserID, &g.Title, &desc, &target, &g.Status, &g.CreatedAt, &g.UpdatedAt)
	if err != nil {
		return nil, err
	}
	g.Description = desc.String
	if target.Valid {
		g.TargetDate = &target.String
	}
	return &g, nil
}

// CreateGoal inserts a goal for the user.
func (d *DB) CreateGoal(ctx context.Context, g *Goal) error {
	if g.Status == "" {
		g.Status = GoalActive
	}
	if !validGoalStatus(g.Status) {
		return fmt.Errorf("invalid goal status %q", g.Status)
	}
	if g.ID == "" {
		g.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	g.CreatedAt, g.UpdatedAt = now, now
	_, err := d.sql.ExecContext(ctx,
		`INSERT INTO goals(id, user_id, title, description, target_date, status, created_at, updated_at)
		 VALUES(?,?,?,?,?,?,?,?)`,
		g.ID, g.UserID, g.Title, nullIfEmpty(g.Description), g.TargetDate, g.Status, g.CreatedAt, g.UpdatedAt)
	return err
}

// GetGoal fetches one goal scoped to the user.
func (d *DB) GetGoal(ctx context.Context, userID, id string) (*Goal, error) {
	row := d.sql.QueryRowContext(ctx,
		`SELECT id, user_id, title, description, target_date, status, created_at, updated_at
		 FROM goals WHERE id = ? AND user_id = ?`, id, userID)
	g, err := scanGoal(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return g, err
}

// ListGoals returns the user's goals, active first then by creation.
func (d *DB) ListGoals(ctx context.Context, userID string) ([]Goal, error) {
	rows, err := d.sql.QueryContext(ctx,
		`SELECT id, user_id, title, description, target_date, status, created_at, updated_at
		 FROM goals WHERE user_id = ?
		 ORDER BY CASE status WHEN 'active' THEN 0 ELSE 1 END, created_at DESC, id`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Goal
	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *g)
	}
	return out, rows.Err()
}

// UpdateGoal replaces the mutable fields of a goal.
func (d *DB) UpdateGoal(ctx context.Context, g *Goal) error {
	if !validGoalStatus(g.Status) {
		return fmt.Errorf("invalid goal status %q", g.Status)
	}
	g.UpdatedAt = time.Now().UTC()
	res, err := d.sql.ExecContext(ctx,
		`UPDATE goals SET title = ?, description = ?, target_date = ?, status = ?, updated_at = ?
		 WHERE id = ? AND user_id = ?`,
		g.Title, nullIfEmpty(g.Description), g.TargetDate, g.Status, g.UpdatedAt, g.ID, g.UserID)
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

// DeleteGoal removes a goal scoped to the user.
func (d *DB) DeleteGoal(ctx context.Context, userID, id string) error {
	res, err := d.sql.ExecContext(ctx,
		`DELETE FROM goals WHERE id = ? AND user_id = ?`, id, userID)
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
