package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/flagcore/flagcore/registry"
)

var (
	patchOutput string
	patchDryRun bool
)

var patchCmd = &cobra.Command{
	Use:   "patch <patch-file>",
	Short: "Apply a patch file to a snapshot",
	Long: `Patch reads a Patch JSON document (the wire schema
registry.PatchFromJSON/Patch.ToJSON use: {"flags": [...], "removeKeys":
[...]}) and applies it to the snapshot at --snapshot, writing the
resulting snapshot back out.

Examples:
  flagctl patch changes.json --snapshot flags.json
  flagctl patch changes.json --snapshot flags.json --output new-flags.json
  flagctl patch changes.json --snapshot flags.json --dry-run`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		patchData, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("reading patch file %q: %w", args[0], err)
		}
		patch, perr := registry.PatchFromJSON(patchData)
		if perr != nil {
			return fmt.Errorf("parsing patch file %q: %w", args[0], perr)
		}

		snap, err := loadSnapshot(snapshotPath)
		if err != nil {
			return err
		}

		next := snap.With(*patch)

		if patchDryRun {
			if !quiet {
				fmt.Printf("dry run: %d upsert(s), %d removal(s); resulting snapshot would hold %d flag(s)\n",
					len(patch.Upserts), len(patch.Removes), next.Len())
			}
			return nil
		}

		dest := patchOutput
		if dest == "" {
			dest = snapshotPath
		}
		if err := os.WriteFile(dest, next.ToJSON(), 0o644); err != nil {
			return fmt.Errorf("writing snapshot to %q: %w", dest, err)
		}
		if !quiet {
			fmt.Printf("applied %d upsert(s), %d removal(s); wrote %d flag(s) to %s\n",
				len(patch.Upserts), len(patch.Removes), next.Len(), dest)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(patchCmd)

	patchCmd.Flags().StringVarP(&patchOutput, "output", "o", "", "Output file (default: overwrite --snapshot)")
	patchCmd.Flags().BoolVar(&patchDryRun, "dry-run", false, "Validate and report without writing")
}
