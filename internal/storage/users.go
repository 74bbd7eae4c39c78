package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mattjoyce/usergate/internal/projection"
)

// UserStore is the SQLite-backed user projection store.
// It satisfies projection.UserStore.
type UserStore struct {
	db *sql.DB
}

// NewUserStore creates a UserStore over an opened database.
func NewUserStore(db *sql.DB) *UserStore {
	return &UserStore{db: db}
}

// UpsertByExternalID inserts or updates the record keyed by external id.
// A single ON CONFLICT statement keeps the operation atomic per key, which
// is what makes concurrent redeliveries of the same event safe.
func (s *UserStore) UpsertByExternalID(ctx context.Context, u projection.User) error {
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.db.ExecContext(ctx, `
INSERT INTO users (external_id, username, primary_email, first_name, last_name, image_url, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(external_id) DO UPDATE SET
  username      = excluded.username,
  primary_email = excluded.primary_email,
  first_name    = excluded.first_name,
  last_name     = excluded.last_name,
  image_url     = excluded.image_url,
  updated_at    = excluded.updated_at;`,
		u.ExternalID, u.Username, u.PrimaryEmail, u.FirstName, u.LastName, u.ImageURL, now, now)
	if err != nil {
		return fmt.Errorf("upsert user: %w", err)
	}
	return nil
}

// DeleteByExternalID removes the record. Deleting an absent id is not an
// error.
func (s *UserStore) DeleteByExternalID(ctx context.Context, externalID string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM users WHERE external_id = ?;`, externalID); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return nil
}

// GetByExternalID fetches a record, or nil if absent.
func (s *UserStore) GetByExternalID(ctx context.Context, externalID string) (*projection.User, error) {
	var u projection.User
	err := s.db.QueryRowContext(ctx, `
SELECT external_id, username, primary_email, first_name, last_name, image_url
FROM users WHERE external_id = ?;`, externalID).
		Scan(&u.ExternalID, &u.Username, &u.PrimaryEmail, &u.FirstName, &u.LastName, &u.ImageURL)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &u, nil
}
