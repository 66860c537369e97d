package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

var ErrConsoleNotFound = errors.New("console config not found")

// Console represents console server configuration.
type Console struct {
	ID        int64
	ProfileID int64
	Host      string
	Port      int
	IconBase  string
	CreatedAt time.Time
}

// Address returns the console listen address (host:port).
func (c *Console) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// ConsoleStore provides console config CRUD operations.
type ConsoleStore interface {
	Get(ctx context.Context, profileID int64) (*Console, error)
	Create(ctx context.Context, c *Console) error
	Update(ctx context.Context, c *Console) error
	Delete(ctx context.Context, profileID int64) error
}

// Consoles returns a ConsoleStore for this database.
func (db *DB) Consoles() ConsoleStore {
	return &consoleStore{db: db}
}

type consoleStore struct {
	db *DB
}

func (s *consoleStore) Get(ctx context.Context, profileID int64) (*Console, error) {
	c := &Console{}
	var createdAt string
	err := s.db.QueryRowContext(ctx, `
		SELECT id, profile_id, host, port, icon_base, created_at
		FROM consoles WHERE profile_id = ?
	`, profileID).Scan(&c.ID, &c.ProfileID, &c.Host, &c.Port, &c.IconBase, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrConsoleNotFound
	}
	if err != nil {
		return nil, err
	}
	c.CreatedAt, _ = time.Parse(time.DateTime, createdAt)
	return c, nil
}

func (s *consoleStore) Create(ctx context.Context, c *Console) error {
	result, err := s.db.ExecContext(ctx, `
		INSERT INTO consoles (profile_id, host, port, icon_base)
		VALUES (?, ?, ?, ?)
	`, c.ProfileID, c.Host, c.Port, c.IconBase)
	if err != nil {
		return fmt.Errorf("failed to create console config: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	c.ID = id
	return nil
}

func (s *consoleStore) Update(ctx context.Context, c *Console) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE consoles SET host = ?, port = ?, icon_base = ?
		WHERE profile_id = ?
	`, c.Host, c.Port, c.IconBase, c.ProfileID)
	return err
}

func (s *consoleStore) Delete(ctx context.Context, profileID int64) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM consoles WHERE profile_id = ?`, profileID)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrConsoleNotFound
	}
	return nil
}
