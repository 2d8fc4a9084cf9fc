// Package commands implements flagctl's cobra command tree: a reference
// CLI that operates on a local JSON snapshot file rather than a remote
// service, exercising the registry and evalengine packages directly.
package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/flagcore/flagcore/internal/config"
)

var (
	snapshotPath       string
	namespace          string
	format             string
	quiet              bool
	defaultRolloutSalt string
)

var rootCmd = &cobra.Command{
	Use:   "flagctl",
	Short: "Inspect, evaluate, and patch feature flag snapshots",
	Long: `flagctl is a reference CLI for the flagcore feature flag engine.

It reads and writes a local JSON snapshot file (the same wire format
registry.Snapshot.ToJSON/FromJSON produce) rather than talking to a
remote service — useful for inspecting a snapshot pulled from a host
application, evaluating a flag against a synthetic context, and applying
a patch file offline before it is shipped.

Examples:
  flagctl show --snapshot flags.json
  flagctl show checkout.enabled --snapshot flags.json
  flagctl evaluate checkout.enabled --snapshot flags.json --platform IOS --stable-id user-42
  flagctl patch changes.json --snapshot flags.json`,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	defaults, err := config.Load()
	if err != nil {
		// Load only fails on a malformed FLAGCTL_FORMAT or a blank
		// FLAGCTL_NAMESPACE/FLAGCTL_SNAPSHOT_PATH override; fall back to the package defaults rather than
		// aborting command registration.
		defaults = &config.Config{SnapshotPath: "snapshot.json", Namespace: "default", Format: "table"}
	}

	rootCmd.PersistentFlags().StringVar(&snapshotPath, "snapshot", defaults.SnapshotPath, "Path to the JSON snapshot file")
	rootCmd.PersistentFlags().StringVar(&namespace, "namespace", defaults.Namespace, "Namespace label (diagnostic only; the snapshot file holds one namespace)")
	rootCmd.PersistentFlags().StringVar(&format, "format", defaults.Format, "Output format: table, json, or yaml")
	rootCmd.PersistentFlags().BoolVar(&quiet, "quiet", false, "Suppress non-error output")

	defaultRolloutSalt = defaults.RolloutSalt
}

func outputFormatFlag() (string, error) {
	switch format {
	case "table", "json", "yaml":
		return format, nil
	default:
		return "", fmt.Errorf("unsupported --format %q (expected table, json, or yaml)", format)
	}
}
