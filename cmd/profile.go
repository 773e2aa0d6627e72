package cmd

import (
	"bytes"

	"github.com/BurntSushi/toml"
	"github.com/caedis/vsmod-updater/internal/logging"
	"github.com/caedis/vsmod-updater/internal/policy"
	"github.com/caedis/vsmod-updater/internal/profile"
	"github.com/spf13/cobra"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Manage saved option profiles",
	Long: `Profiles are named sets of overrides stored under $XDG_CONFIG_HOME/vsmd/profiles.
Use --profile <name> to apply one for a single invocation; vsmd.cfg is not changed.`,
}

// Flags for profile create
var (
	profConfigFile     *string
	profModPath        *string
	profGameVersion    *string
	profAlwaysUpdate   *bool
	profCanDowngrade   *bool
	profAlwaysDownload *bool
	profMissingVersion *string
	profMoveOlder      *bool
	profExcludeMods    *[]string
	profVerbose        *bool
	profLogFile        *string
)

var profileCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a new profile",
	Args:  usageArgs(cobra.ExactArgs(1)),
	RunE: func(cmd *cobra.Command, args []string) error {
		p := &profile.Profile{}

		if cmd.Flags().Changed("config-file") {
			p.ConfigFile = profConfigFile
		}
		if cmd.Flags().Changed("mod-path") {
			p.ModPath = profModPath
		}
		if cmd.Flags().Changed("game-version") {
			p.GameVersion = profGameVersion
		}
		if cmd.Flags().Changed("always-update") {
			p.AlwaysUpdate = profAlwaysUpdate
		}
		if cmd.Flags().Changed("can-downgrade") {
			p.CanDowngrade = profCanDowngrade
		}
		if cmd.Flags().Changed("always-download") {
			p.AlwaysDownload = profAlwaysDownload
		}
		if cmd.Flags().Changed("missing-version") {
			mv, err := policy.ParseMissingVersion(*profMissingVersion)
			if err != nil {
				return wrapUsageError(err)
			}
			label := mv.String()
			p.MissingVersion = &label
		}
		if cmd.Flags().Changed("move-older-to-subfolder") {
			p.MoveOlderToSubfolder = profMoveOlder
		}
		if cmd.Flags().Changed("exclude") {
			p.ExcludeMods = profExcludeMods
		}
		if cmd.Flags().Changed("verbose") {
			p.Verbose = profVerbose
		}
		if cmd.Flags().Changed("log-file") {
			p.LogFile = profLogFile
		}

		if err := profile.Save(args[0], p); err != nil {
			return err
		}
		logging.Infof("Profile %q saved to %s\n", args[0], profile.Dir())
		return nil
	},
}

var profileListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved profiles",
	Args:  usageArgs(cobra.NoArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		names, err := profile.List()
		if err != nil {
			return err
		}
		if len(names) == 0 {
			logging.Infoln("No profiles saved.")
			return nil
		}
		for _, n := range names {
			logging.Infoln(n)
		}
		return nil
	},
}

var profileShowCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Show a profile's contents",
	Args:  usageArgs(cobra.ExactArgs(1)),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := profile.Load(args[0])
		if err != nil {
			return err
		}
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(p); err != nil {
			return err
		}
		logging.Infof("%s", buf.String())
		return nil
	},
}

var profileDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete a saved profile",
	Args:  usageArgs(cobra.ExactArgs(1)),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := profile.Delete(args[0]); err != nil {
			return err
		}
		logging.Infof("Profile %q deleted.\n", args[0])
		return nil
	},
}

func init() {
	// Local flags so they only apply to this subcommand and don't collide
	// with the root/update flags.
	f := profileCreateCmd.Flags()
	profConfigFile = f.String("config-file", "", "Settings file this profile reads")
	profModPath = f.String("mod-path", "", "Mods folder")
	profGameVersion = f.String("game-version", "", "Game version to match")
	profAlwaysUpdate = f.Bool("always-update", true, "Prefer releases tagged for a newer game version")
	profCanDowngrade = f.Bool("can-downgrade", false, "Allow installing older releases")
	profAlwaysDownload = f.Bool("always-download", false, "Reinstall even when already current")
	profMissingVersion = f.String("missing-version", "", `"Use Latest", "Use One Version Below" or "Skip"`)
	profMoveOlder = f.Bool("move-older-to-subfolder", false, "Install releases for older game versions into a subfolder")
	profExcludeMods = f.StringSlice("exclude", nil, "Mod ids to exclude (replaces the configured list)")
	profVerbose = f.Bool("verbose", false, "Enable verbose logging")
	profLogFile = f.String("log-file", "", "Write command output to a log file")

	profileCmd.AddCommand(profileCreateCmd, profileListCmd, profileShowCmd, profileDeleteCmd)
	rootCmd.AddCommand(profileCmd)
}
