package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/flagcore/flagcore/internal/cli"
	"github.com/flagcore/flagcore/registry"
)

var showCmd = &cobra.Command{
	Use:   "show [key]",
	Short: "Show every flag in a snapshot, or one flag's detail",
	Long: `Show lists every feature definition a snapshot holds. Given a
feature key, it instead prints that one definition's full detail,
including its rules in their pre-sorted specificity order.

Examples:
  flagctl show --snapshot flags.json
  flagctl show checkout.enabled --snapshot flags.json --format json`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out, err := outputFormatFlag()
		if err != nil {
			return err
		}

		snap, err := loadSnapshot(snapshotPath)
		if err != nil {
			return err
		}

		if len(args) == 0 {
			if quiet {
				return nil
			}
			return cli.PrintSnapshot(snap, cli.OutputFormat(out))
		}

		key := args[0]
		def, ok := snap.Get(key)
		if !ok {
			return fmt.Errorf("flag %q not found in %s", key, snapshotPath)
		}
		if quiet {
			return nil
		}
		return cli.PrintDefinition(def, cli.OutputFormat(out))
	},
}

func init() {
	rootCmd.AddCommand(showCmd)
}

func loadSnapshot(path string) (*registry.Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading snapshot file %q: %w", path, err)
	}
	snap, perr := registry.FromJSON(data)
	if perr != nil {
		return nil, fmt.Errorf("parsing snapshot file %q: %w", path, perr)
	}
	return snap, nil
}
