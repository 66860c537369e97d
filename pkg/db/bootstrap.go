package db

import (
	"context"
	"fmt"
	"os"
)

const defaultAjaxURL = "http://127.0.0.1:8000/ajax/"

// Bootstrap initializes the database with default data if it's empty.
// This is called after migrations and handles first-run setup. The
// backend endpoint defaults to BACNET_AJAX_URL when set.
func (db *DB) Bootstrap(ctx context.Context) error {
	var count int
	err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM profiles`).Scan(&count)
	if err != nil {
		return fmt.Errorf("failed to check profiles: %w", err)
	}

	if count > 0 {
		return nil // Already bootstrapped
	}

	result, err := db.ExecContext(ctx, `
		INSERT INTO profiles (name, is_active)
		VALUES ('default', 1)
	`)
	if err != nil {
		return fmt.Errorf("failed to create default profile: %w", err)
	}

	profileID, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get profile ID: %w", err)
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO consoles (profile_id, host, port, icon_base)
		VALUES (?, '0.0.0.0', 8080, '/static/icons')
	`, profileID)
	if err != nil {
		return fmt.Errorf("failed to create default console config: %w", err)
	}

	ajaxURL := os.Getenv("BACNET_AJAX_URL")
	if ajaxURL == "" {
		ajaxURL = defaultAjaxURL
	}
	_, err = db.ExecContext(ctx, `
		INSERT INTO backends (profile_id, ajax_url)
		VALUES (?, ?)
	`, profileID, ajaxURL)
	if err != nil {
		return fmt.Errorf("failed to create default backend config: %w", err)
	}

	return nil
}

// NeedsBootstrap returns true if the database needs initial setup.
func (db *DB) NeedsBootstrap(ctx context.Context) (bool, error) {
	var count int
	err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM profiles`).Scan(&count)
	if err != nil {
		return false, err
	}
	return count == 0, nil
}
