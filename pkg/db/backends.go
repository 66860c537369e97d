package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

var ErrBackendNotFound = errors.New("backend config not found")

// Backend represents the backend service configuration.
type Backend struct {
	ID        int64
	ProfileID int64
	AjaxURL   string
	CreatedAt time.Time
}

// BackendStore provides backend config CRUD operations.
type BackendStore interface {
	Get(ctx context.Context, profileID int64) (*Backend, error)
	Create(ctx context.Context, b *Backend) error
	Update(ctx context.Context, b *Backend) error
	Delete(ctx context.Context, profileID int64) error
}

// Backends returns a BackendStore for this database.
func (db *DB) Backends() BackendStore {
	return &backendStore{db: db}
}

type backendStore struct {
	db *DB
}

func (s *backendStore) Get(ctx context.Context, profileID int64) (*Backend, error) {
	b := &Backend{}
	var createdAt string
	err := s.db.QueryRowContext(ctx, `
		SELECT id, profile_id, ajax_url, created_at
		FROM backends WHERE profile_id = ?
	`, profileID).Scan(&b.ID, &b.ProfileID, &b.AjaxURL, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBackendNotFound
	}
	if err != nil {
		return nil, err
	}
	b.CreatedAt, _ = time.Parse(time.DateTime, createdAt)
	return b, nil
}

func (s *backendStore) Create(ctx context.Context, b *Backend) error {
	result, err := s.db.ExecContext(ctx, `
		INSERT INTO backends (profile_id, ajax_url)
		VALUES (?, ?)
	`, b.ProfileID, b.AjaxURL)
	if err != nil {
		return fmt.Errorf("failed to create backend config: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = id
	return nil
}

func (s *backendStore) Update(ctx context.Context, b *Backend) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE backends SET ajax_url = ?
		WHERE profile_id = ?
	`, b.AjaxURL, b.ProfileID)
	return err
}

func (s *backendStore) Delete(ctx context.Context, profileID int64) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM backends WHERE profile_id = ?`, profileID)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrBackendNotFound
	}
	return nil
}
