package storage

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
)

// CreateUser inserts a user and returns it.
func (d *DB) CreateUser(ctx context.Context, name string) (*User, error) {
	u := &User{
		ID:        uuid.NewString(),
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}
	_, err := d.sql.ExecContext(ctx,
		`INSERT INTO users(id, name, created_at) VALUES(?, ?, ?)`,
		u.ID, u.Name, u.CreatedAt)
	if err != nil {
		return nil, err
	}
	return u, nil
}

// GetUser returns a user by id.
func (d *DB) GetUser(ctx context.Context, id string) (*User, error) {
	var u User
	err := d.sql.QueryRowContext(ctx,
		`SELECT id, name, created_at FROM users WHERE id = ?`, id).
		Scan(&u.ID, &u.Name, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// CreateToken mints an API token for the user.
func (d *DB) CreateToken(ctx context.Context, userID string) (string, error) {
	if _, err := d.GetUser(ctx, userID); err != nil {
		return "", err
	}
	token := uuid.NewString()
	_, err := d.sql.ExecContext(ctx,
		`INSERT INTO api_tokens(token, user_id, created_at) VALUES(?, ?, ?)`,
		token, userID, time.Now().UTC())
	if err != nil {
		return "", err
	}
	return token, nil
}

// UserForToken resolves an API token to its user id. This is the
// authenticated-user lookup behind every request.
func (d *DB) UserForToken(ctx context.Context, token string) (string, error) {
	var userID string
	err := d.sql.QueryRowContext(ctx,
		`SELECT user_id FROM api_tokens WHERE token = ?`, token).Scan(&userID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return userID, nil
}
