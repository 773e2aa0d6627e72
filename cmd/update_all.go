package cmd

import (
	"fmt"

	"github.com/caedis/vsmod-updater/internal/config"
	"github.com/caedis/vsmod-updater/internal/logging"
	"github.com/caedis/vsmod-updater/internal/profile"
	"github.com/caedis/vsmod-updater/internal/updater"
	"github.com/spf13/cobra"
)

var dryRunAll bool

var updateAllCmd = &cobra.Command{
	Use:   "update-all <profile> [profile...]",
	Short: "Run an update pass for several profiles, one after another",
	Long: `Run one update pass per named profile, for example one for a client install
and one for a server. Each profile reads its own config-file when it sets one.`,
	Args: usageArgs(cobra.MinimumNArgs(1)),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		type profileResult struct {
			name   string
			result *updater.PassResult
			err    error
		}
		results := make([]profileResult, 0, len(args))

		var firstErr error
		for _, name := range args {
			res, err := runProfilePass(cmd, name)
			results = append(results, profileResult{name: name, result: res, err: err})
			if err != nil {
				logging.Errorf("  Error: %v\n", err)
				if firstErr == nil {
					firstErr = err
				}
			}
			if ctx.Err() != nil {
				break
			}
		}
		logging.SetVerbose(verbose)

		logging.Infoln("\n=== Summary ===")
		for _, r := range results {
			if r.err != nil {
				logging.Infof("  %-20s  ERROR  %v\n", r.name, r.err)
				continue
			}
			logging.Infof("  %-20s  OK     %d checked, %d updated, %d failed\n",
				r.name, r.result.Checked, r.result.Updated, r.result.Failed)
		}

		return firstErr
	},
}

func runProfilePass(cmd *cobra.Command, name string) (*updater.PassResult, error) {
	p, err := profile.Load(name)
	if err != nil {
		return nil, err
	}

	cfgPath := configFile
	if p.ConfigFile != nil && !cmd.Flags().Changed("config-file") {
		cfgPath = *p.ConfigFile
	}

	// Per-profile verbose setting; CLI wins.
	profileVerbose := verbose
	if p.Verbose != nil && !cmd.Flags().Changed("verbose") {
		profileVerbose = *p.Verbose
	}
	logging.SetVerbose(profileVerbose)

	logging.Infof("\n=== Profile %q (%s) ===\n", name, cfgPath)

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, err
	}
	opts, err := passOptions(cfg, p, dryRunAll)
	if err != nil {
		return nil, fmt.Errorf("profile %q: %w", name, err)
	}
	return updater.Run(cmd.Context(), opts)
}

func init() {
	updateAllCmd.Flags().BoolVar(&dryRunAll, "dry-run", false, "Show what would change without modifying anything")
	addPassFlags(updateAllCmd)
	rootCmd.AddCommand(updateAllCmd)
}
