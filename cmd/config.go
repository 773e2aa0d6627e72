package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/caedis/vsmod-updater/internal/config"
	"github.com/caedis/vsmod-updater/internal/logging"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect and change vsmd.cfg settings",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print every setting",
	Args:  usageArgs(cobra.NoArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configFile)
		if err != nil {
			return err
		}
		for _, f := range config.Fields() {
			value, _ := cfg.Get(f.Key)
			logging.Infof("%-21s = %s\n", f.Key, value)
		}
		if activeProfile != nil {
			logging.Infof("\nProfile %q overrides some of these values when updating.\n", profileName)
		}
		return nil
	},
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Print one setting",
	Args:  usageArgs(cobra.ExactArgs(1)),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configFile)
		if err != nil {
			return err
		}
		value, err := cfg.Get(args[0])
		if err != nil {
			return wrapUsageError(err)
		}
		logging.Infoln(value)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change one setting and save the file",
	Long: fmt.Sprintf(`Change one setting and save the file.

Known keys: %s.
MissingVersion accepts "Use Latest", "Use One Version Below" or "Skip".`, strings.Join(config.Keys(), ", ")),
	Args: usageArgs(cobra.ExactArgs(2)),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configFile)
		if err != nil {
			return err
		}
		if err := cfg.Set(args[0], args[1]); err != nil {
			return err
		}
		field, _ := config.LookupField(args[0])
		value, _ := cfg.Get(field.Key)
		logging.Infof("%s = %s\n", field.Key, value)
		return nil
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the settings file location",
	Args:  usageArgs(cobra.NoArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		abs, err := filepath.Abs(configFile)
		if err != nil {
			return err
		}
		logging.Infoln(abs)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd, configGetCmd, configSetCmd, configPathCmd)
	rootCmd.AddCommand(configCmd)
}
