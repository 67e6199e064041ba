package planning

import (
	"flag"
	"testing"
)

func TestParseConfigDefaults(t *testing.T) {
	t.Setenv("FOLIES_PLANNING_SESSION_SECRET", "test-secret")
	t.Setenv("FOLIES_PLANNING_ADMIN_PASSWORD", "admin-password")

	fs := flag.NewFlagSet("planning", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, nil)
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.Port != 8080 {
		t.Fatalf("expected default port 8080, got %d", cfg.Port)
	}
	if cfg.DBPath != "planning.db" {
		t.Fatalf("expected default db path, got %q", cfg.DBPath)
	}
	if cfg.AdminUsername != "admin" {
		t.Fatalf("expected default admin username, got %q", cfg.AdminUsername)
	}
}

func TestParseConfigOverrides(t *testing.T) {
	t.Setenv("FOLIES_PLANNING_SESSION_SECRET", "test-secret")
	t.Setenv("FOLIES_PLANNING_ADMIN_PASSWORD", "admin-password")
	t.Setenv("FOLIES_PLANNING_OUTBOX_DB_PATH", "env-outbox.db")

	fs := flag.NewFlagSet("planning", flag.ContinueOnError)
	args := []string{"-port", "9000", "-db", "flag.db"}
	cfg, err := ParseConfig(fs, args)
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.Port != 9000 {
		t.Fatalf("expected port 9000, got %d", cfg.Port)
	}
	if cfg.DBPath != "flag.db" {
		t.Fatalf("expected flag db path, got %q", cfg.DBPath)
	}
	if cfg.OutboxDBPath != "env-outbox.db" {
		t.Fatalf("expected env outbox path, got %q", cfg.OutboxDBPath)
	}
}

func TestParseConfigRequiresSecrets(t *testing.T) {
	t.Setenv("FOLIES_PLANNING_SESSION_SECRET", "")
	t.Setenv("FOLIES_PLANNING_ADMIN_PASSWORD", "admin-password")

	fs := flag.NewFlagSet("planning", flag.ContinueOnError)
	if _, err := ParseConfig(fs, nil); err == nil {
		t.Fatal("expected error for missing session secret")
	}

	t.Setenv("FOLIES_PLANNING_SESSION_SECRET", "test-secret")
	t.Setenv("FOLIES_PLANNING_ADMIN_PASSWORD", "")

	fs = flag.NewFlagSet("planning", flag.ContinueOnError)
	if _, err := ParseConfig(fs, nil); err == nil {
		t.Fatal("expected error for missing admin password")
	}
}
