package cmd

import (
	"github.com/caedis/vsmod-updater/internal/config"
	"github.com/spf13/cobra"
)

var dryRun bool

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Check every installed mod and install matching releases",
	Long: `Run one update pass: every mod archive in the mods folder is looked up on
the mod database, the release fitting the game version is selected, and
newer (or, with CanDowngrade, older) releases are installed. Replaced
archives are moved to an Old-<timestamp> folder inside the mods folder.`,
	Args: usageArgs(cobra.NoArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configFile)
		if err != nil {
			return err
		}
		return runPass(cmd.Context(), cfg, dryRun)
	},
}

func addPassFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&onlyQuery, "only", "", "Only check mods whose name or id fuzzily matches this query")
	cmd.Flags().StringVar(&overrideGameVersion, "game-version", "", "Game version to match for this run (config is not changed)")
	cmd.Flags().StringVarP(&overrideModsDir, "mods-dir", "d", "", "Mods folder to use for this run (config is not changed)")
	cmd.Flags().BoolVar(&noProgress, "no-progress", false, "Disable download progress bars")
}

func init() {
	updateCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show what would change without modifying anything")
	addPassFlags(updateCmd)
	rootCmd.AddCommand(updateCmd)
}
