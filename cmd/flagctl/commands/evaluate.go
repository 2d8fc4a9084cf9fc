package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/flagcore/flagcore/evalengine"
	"github.com/flagcore/flagcore/flagcontext"
	"github.com/flagcore/flagcore/identifier"
	"github.com/flagcore/flagcore/internal/cli"
)

var (
	evalPlatform    string
	evalLocale      string
	evalAppVersion  string
	evalStableID    string
	evalAxes        []string
	evalRolloutSalt string
)

var evaluateCmd = &cobra.Command{
	Use:   "evaluate <key>",
	Short: "Evaluate a flag against a synthetic context",
	Long: `Evaluate loads a snapshot and runs the same match loop the engine
uses at request time, against a context built from the given flags, and
prints the matched value.

Examples:
  flagctl evaluate checkout.enabled --snapshot flags.json --platform IOS --stable-id user-42
  flagctl evaluate checkout.color --snapshot flags.json --axis plan=premium --stable-id user-42`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out, err := outputFormatFlag()
		if err != nil {
			return err
		}

		snap, err := loadSnapshot(snapshotPath)
		if err != nil {
			return err
		}

		ctx, err := buildContext()
		if err != nil {
			return fmt.Errorf("building evaluation context: %w", err)
		}

		result := evalengine.EvaluateErasedWithSalt(snap, args[0], ctx, evalRolloutSalt)
		if quiet {
			return nil
		}
		return cli.PrintResult(result, cli.OutputFormat(out))
	},
}

func init() {
	rootCmd.AddCommand(evaluateCmd)

	evaluateCmd.Flags().StringVar(&evalPlatform, "platform", "", "Platform tag (e.g. IOS, ANDROID, WEB)")
	evaluateCmd.Flags().StringVar(&evalLocale, "locale", "", "Locale tag (e.g. en_US)")
	evaluateCmd.Flags().StringVar(&evalAppVersion, "app-version", "0.0.0", "App version (semver-like x.y.z)")
	evaluateCmd.Flags().StringVar(&evalStableID, "stable-id", "", "Stable bucketing identifier (required)")
	evaluateCmd.Flags().StringArrayVar(&evalAxes, "axis", nil, "Axis value as key=value; may be repeated")
	evaluateCmd.Flags().StringVar(&evalRolloutSalt, "rollout-salt", defaultRolloutSalt, "Override the definition's wire-configured ramp-up salt (also settable via FLAGCTL_ROLLOUT_SALT)")
	_ = evaluateCmd.MarkFlagRequired("stable-id")
}

func buildContext() (flagcontext.Base, error) {
	stableID, err := identifier.NewStableID(evalStableID)
	if err != nil {
		return flagcontext.Base{}, fmt.Errorf("--stable-id: %w", err)
	}

	version, err := identifier.ParseVersion(evalAppVersion)
	if err != nil {
		return flagcontext.Base{}, fmt.Errorf("--app-version: %w", err)
	}

	axes := make(map[string]string, len(evalAxes))
	for _, raw := range evalAxes {
		key, value, ok := strings.Cut(raw, "=")
		if !ok {
			return flagcontext.Base{}, fmt.Errorf("--axis %q: expected key=value", raw)
		}
		axes[key] = value
	}

	return flagcontext.Base{
		LocaleValue:     identifier.LocaleTag(evalLocale),
		PlatformValue:   identifier.PlatformTag(evalPlatform),
		AppVersionValue: version,
		StableIDValue:   stableID,
		Axes:            axes,
	}, nil
}
