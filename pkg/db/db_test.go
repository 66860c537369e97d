package db

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/neatc0der/bacnet/pkg/bacnet"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	database, err := Open(filepath.Join(t.TempDir(), "console.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = database.Close() })

	ctx := context.Background()
	if err := database.Migrate(ctx); err != nil {
		t.Fatal(err)
	}
	return database
}

func TestMigrate_SetsSchemaVersion(t *testing.T) {
	database := openTestDB(t)

	version, err := database.SchemaVersion(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if version != currentSchemaVersion {
		t.Errorf("expected schema version %d, got %d", currentSchemaVersion, version)
	}

	// Running migrations again is a no-op.
	if err := database.Migrate(context.Background()); err != nil {
		t.Errorf("re-running migrations should succeed, got: %v", err)
	}
}

func TestBootstrap_CreatesDefaults(t *testing.T) {
	database := openTestDB(t)
	ctx := context.Background()

	needs, err := database.NeedsBootstrap(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if !needs {
		t.Fatal("fresh database should need bootstrap")
	}

	if err := database.Bootstrap(ctx); err != nil {
		t.Fatal(err)
	}

	cfg, err := database.ActiveConfig(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Profile.Name != "default" {
		t.Errorf("expected default profile, got %q", cfg.Profile.Name)
	}
	if cfg.ListenAddress() != "0.0.0.0:8080" {
		t.Errorf("unexpected listen address %q", cfg.ListenAddress())
	}
	if cfg.AjaxURL() == "" {
		t.Error("expected a bootstrapped backend endpoint")
	}

	// Bootstrap is idempotent.
	if err := database.Bootstrap(ctx); err != nil {
		t.Errorf("second bootstrap should be a no-op, got: %v", err)
	}
}

func TestActiveConfig_NoProfile(t *testing.T) {
	database := openTestDB(t)

	_, err := database.ActiveConfig(context.Background())
	if err != ErrNoActiveProfile {
		t.Errorf("expected ErrNoActiveProfile, got %v", err)
	}
}

func TestProfiles_SetActive(t *testing.T) {
	database := openTestDB(t)
	ctx := context.Background()
	if err := database.Bootstrap(ctx); err != nil {
		t.Fatal(err)
	}

	second := &Profile{Name: "lab"}
	if err := database.Profiles().Create(ctx, second); err != nil {
		t.Fatal(err)
	}
	if err := database.Profiles().SetActive(ctx, second.ID); err != nil {
		t.Fatal(err)
	}

	active, err := database.Profiles().GetActive(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if active.Name != "lab" {
		t.Errorf("expected lab profile active, got %q", active.Name)
	}
}

func TestWriteLog_RecordAndRecent(t *testing.T) {
	database := openTestDB(t)
	ctx := context.Background()

	writes := database.Writes()
	target := bacnet.Target{Device: "device_1001", Object: "binaryOutput_3", Property: "presentValue"}
	if err := writes.RecordWrite(ctx, target, "active", 4, 4200*time.Millisecond); err != nil {
		t.Fatal(err)
	}
	if err := writes.RecordWrite(ctx, target, "inactive", 0, 600*time.Millisecond); err != nil {
		t.Fatal(err)
	}

	entries, err := writes.Recent(ctx, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	// Newest first
	if entries[0].Value != "inactive" || entries[1].Value != "active" {
		t.Errorf("unexpected order: %q then %q", entries[0].Value, entries[1].Value)
	}
	if entries[1].Polls != 4 || entries[1].Took != 4200*time.Millisecond {
		t.Errorf("unexpected entry %+v", entries[1])
	}
	if entries[0].Device != "device_1001" || entries[0].Object != "binaryOutput_3" {
		t.Errorf("unexpected target fields %+v", entries[0])
	}
	for _, e := range entries {
		if e.CreatedAt.IsZero() {
			t.Errorf("entry %d has no creation timestamp", e.ID)
		}
	}
}
