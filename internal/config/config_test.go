package config

import (
	"os"
	"testing"
)

func clearFlagctlEnv() {
	for _, key := range []string{
		"FLAGCTL_SNAPSHOT_PATH", "FLAGCTL_NAMESPACE", "FLAGCTL_FORMAT", "FLAGCTL_ROLLOUT_SALT",
		"SNAPSHOT_PATH", "OUTPUT_FORMAT",
	} {
		os.Unsetenv(key)
	}
}

func TestLoad_DefaultValues(t *testing.T) {
	clearFlagctlEnv()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.SnapshotPath != defaultSnapshotPath {
		t.Errorf("SnapshotPath = %q, want %q", cfg.SnapshotPath, defaultSnapshotPath)
	}
	if cfg.Namespace != defaultNamespace {
		t.Errorf("Namespace = %q, want %q", cfg.Namespace, defaultNamespace)
	}
	if cfg.Format != defaultFormat {
		t.Errorf("Format = %q, want %q", cfg.Format, defaultFormat)
	}
	if cfg.RolloutSalt != "" {
		t.Errorf("RolloutSalt = %q, want empty", cfg.RolloutSalt)
	}
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	clearFlagctlEnv()
	os.Setenv("FLAGCTL_SNAPSHOT_PATH", "/tmp/flags.json")
	os.Setenv("FLAGCTL_NAMESPACE", "staging")
	os.Setenv("FLAGCTL_FORMAT", "JSON")
	os.Setenv("FLAGCTL_ROLLOUT_SALT", "override-salt")
	defer clearFlagctlEnv()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.SnapshotPath != "/tmp/flags.json" {
		t.Errorf("SnapshotPath = %q, want /tmp/flags.json", cfg.SnapshotPath)
	}
	if cfg.Namespace != "staging" {
		t.Errorf("Namespace = %q, want staging", cfg.Namespace)
	}
	if cfg.Format != "json" {
		t.Errorf("Format = %q, want lower-cased json", cfg.Format)
	}
	if cfg.RolloutSalt != "override-salt" {
		t.Errorf("RolloutSalt = %q, want override-salt", cfg.RolloutSalt)
	}
}

func TestLoad_MissingEnvFileIsAcceptable(t *testing.T) {
	clearFlagctlEnv()
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() should not fail when .env is missing: %v", err)
	}
	if cfg == nil {
		t.Fatal("Config should not be nil")
	}
}

func TestLoad_RejectsUnsupportedFormat(t *testing.T) {
	clearFlagctlEnv()
	os.Setenv("FLAGCTL_FORMAT", "xml")
	defer clearFlagctlEnv()

	if _, err := Load(); err == nil {
		t.Error("expected an error for an unsupported format")
	}
}

func TestLoad_RejectsEmptyNamespace(t *testing.T) {
	clearFlagctlEnv()
	os.Setenv("FLAGCTL_NAMESPACE", "   ")
	defer clearFlagctlEnv()

	if _, err := Load(); err == nil {
		t.Error("expected an error for a blank namespace")
	}
}
