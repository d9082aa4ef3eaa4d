package storage

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
)

func scanJournalEntry(row interface{ Scan(...any) error }) (*JournalEntry, error) {
	var e JournalEntry
	var title sql.NullString
	var mood, energy sql.NullInt64
	err := row.Scan(&e.ID, &e.UserID, &e.EntryDate, &title, &e.Content, &mood, &energy, &e.CreatedAt)
	if err != nil {
		return nil, err
	}
	e.Title = title.String
	if mood.Valid {
		v := int(mood.Int64)
		e.Mood = &v
	}
	if energy.Valid {
		v := int(energy.Int64)
		e.Energy = &v
	}
	return &e, nil
}

// CreateJournalEntry inserts an entry for the user.
func (d *DB) CreateJournalEntry(ctx context.Context, e *JournalEntry) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	e.CreatedAt = time.Now().UTC()
	_, err := d.sql.ExecContext(ctx,
		`INSERT INTO journal_entries(id, user_id, entry_date, title, content, mood, energy, created_at)
		 VALUES(?,?,?,?,?,?,?,?)`,
		e.ID, e.UserID, e.EntryDate, nullIfEmpty(e.Title), e.Content, e.Mood, e.Energy, e.CreatedAt)
	return err
}

// GetJournalEntry fetches one entry scoped to the user.
func (d *DB) GetJournalEntry(ctx context.Context, userID, id string) (*JournalEntry, error) {
	row := d.sql.QueryRowContext(ctx,
		`SELECT id, user_id, entry_date, title, content, mood, energy, created_at
		 FROM journal_entries WHERE id = ? AND user_id = ?`, id, userID)
	e, err := scanJournalEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return e, err
}

// ListJournalEntries returns the user's entries, newest date first.
func (d *DB) ListJournalEntries(ctx context.Context, userID string) ([]JournalEntry, error) {
	rows, err := d.sql.QueryContext(ctx,
		`SELECT id, user_id, entry_date, title, content, mood, energy, created_at
		 FROM journal_entries WHERE user_id = ? ORDER BY entry_date DESC, created_at DESC, id`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []JournalEntry
	for rows.Next() {
		e, err := scanJournalEntry(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *e)
	}
	return out, rows.Err()
}

// DeleteJournalEntry removes an entry scoped to the user.
func (d *DB) DeleteJournalEntry(ctx context.Context, userID, id string) error {
	res, err := d.sql.ExecContext(ctx,
		`DELETE FROM journal_entries WHERE id = ? AND user_id = ?`, id, userID)
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
