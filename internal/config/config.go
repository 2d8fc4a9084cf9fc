// Package config provides flagctl's configuration loading from
// environment variables and .env files. It uses viper for flexible
// configuration management with sensible defaults.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds flagctl's configuration, loaded from environment
// variables or a .env file. Configuration priority: environment
// variables > .env file > defaults. None of these settings are
// consulted by the core packages (identifier, feature, rules, registry,
// evalengine); they steer the reference CLI only.
type Config struct {
	SnapshotPath string // path to the JSON snapshot file commands read/write
	Namespace    string // label distinguishing multiple snapshot files
	Format       string // table, json, or yaml
	RolloutSalt  string // default for evaluate's --rollout-salt flag; overrides a definition's wire-configured salt
}

const (
	defaultSnapshotPath = "snapshot.json"
	defaultNamespace    = "default"
	defaultFormat       = "table"
)

// Load reads FLAGCTL_* environment variables and ./.env (if present),
// applying defaults for anything unset.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env") // optional; silently ignored if missing
	_ = v.ReadInConfig()
	bindEnvAliases(v)
	v.AutomaticEnv()

	setConfigDefaults(v)

	cfg := &Config{
		SnapshotPath: strings.TrimSpace(v.GetString("FLAGCTL_SNAPSHOT_PATH")),
		Namespace:    strings.TrimSpace(v.GetString("FLAGCTL_NAMESPACE")),
		Format:       strings.ToLower(strings.TrimSpace(v.GetString("FLAGCTL_FORMAT"))),
		RolloutSalt:  strings.TrimSpace(v.GetString("FLAGCTL_ROLLOUT_SALT")),
	}

	if err := validateConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setConfigDefaults(v *viper.Viper) {
	v.SetDefault("FLAGCTL_SNAPSHOT_PATH", defaultSnapshotPath)
	v.SetDefault("FLAGCTL_NAMESPACE", defaultNamespace)
	v.SetDefault("FLAGCTL_FORMAT", defaultFormat)
	v.SetDefault("FLAGCTL_ROLLOUT_SALT", "")
}

func bindEnvAliases(v *viper.Viper) {
	_ = v.BindEnv("FLAGCTL_SNAPSHOT_PATH", "FLAGCTL_SNAPSHOT_PATH", "SNAPSHOT_PATH")
	_ = v.BindEnv("FLAGCTL_FORMAT", "FLAGCTL_FORMAT", "OUTPUT_FORMAT")
}

func validateConfig(cfg *Config) error {
	if cfg.SnapshotPath == "" {
		return fmt.Errorf("config: FLAGCTL_SNAPSHOT_PATH must not be empty")
	}
	if cfg.Namespace == "" {
		return fmt.Errorf("config: FLAGCTL_NAMESPACE must not be empty")
	}
	switch cfg.Format {
	case "table", "json", "yaml":
	default:
		return fmt.Errorf("config: unsupported FLAGCTL_FORMAT %q (expected table, json, or yaml)", cfg.Format)
	}
	return nil
}
