package db

import (
	"context"
	"errors"
	"fmt"
)

var ErrNoActiveProfile = errors.New("no active profile found")

// Config represents the complete runtime configuration loaded from the database.
type Config struct {
	Profile *Profile
	Console *Console
	Backend *Backend
}

// ListenAddress returns the console server listen address.
func (c *Config) ListenAddress() string {
	if c.Console == nil {
		return "0.0.0.0:8080"
	}
	return c.Console.Address()
}

// IconBase returns the URL prefix for capability icons.
func (c *Config) IconBase() string {
	if c.Console == nil {
		return "/static/icons"
	}
	return c.Console.IconBase
}

// AjaxURL returns the backend service endpoint, empty when unconfigured.
func (c *Config) AjaxURL() string {
	if c.Backend == nil {
		return ""
	}
	return c.Backend.AjaxURL
}

// ActiveConfig loads the complete configuration for the active profile.
func (db *DB) ActiveConfig(ctx context.Context) (*Config, error) {
	profile, err := db.Profiles().GetActive(ctx)
	if err != nil {
		if errors.Is(err, ErrProfileNotFound) {
			return nil, ErrNoActiveProfile
		}
		return nil, fmt.Errorf("failed to get active profile: %w", err)
	}

	config := &Config{Profile: profile}

	console, err := db.Consoles().Get(ctx, profile.ID)
	if err != nil && !errors.Is(err, ErrConsoleNotFound) {
		return nil, fmt.Errorf("failed to get console config: %w", err)
	}
	config.Console = console

	backendCfg, err := db.Backends().Get(ctx, profile.ID)
	if err != nil && !errors.Is(err, ErrBackendNotFound) {
		return nil, fmt.Errorf("failed to get backend config: %w", err)
	}
	config.Backend = backendCfg

	return config, nil
}
