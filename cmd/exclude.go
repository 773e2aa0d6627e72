package cmd

import (
	"fmt"
	"strings"

	"github.com/caedis/vsmod-updater/internal/config"
	"github.com/caedis/vsmod-updater/internal/logging"
	"github.com/spf13/cobra"
)

var excludeCmd = &cobra.Command{
	Use:   "exclude",
	Short: "Manage excluded mods",
	Long:  "Add, remove, or list mod ids excluded from updates. Excluded mods are never looked up or replaced.",
}

var excludeAddCmd = &cobra.Command{
	Use:   "add [mod ids...]",
	Short: "Exclude mods from updates",
	Args:  usageArgs(cobra.MinimumNArgs(1)),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configFile)
		if err != nil {
			return err
		}

		added := cfg.AddExcludes(args...)
		for _, id := range added {
			logging.Infof("  %s — added to exclude list\n", id)
		}
		for _, id := range args {
			if !containsFold(added, id) {
				logging.Infof("  %s is already excluded\n", id)
			}
		}

		if len(added) == 0 {
			return nil
		}
		if err := cfg.Save(); err != nil {
			return fmt.Errorf("saving config: %w", err)
		}
		return nil
	},
}

var excludeRemoveCmd = &cobra.Command{
	Use:   "remove [mod ids...]",
	Short: "Stop excluding mods",
	Args:  usageArgs(cobra.MinimumNArgs(1)),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configFile)
		if err != nil {
			return err
		}

		removed := cfg.RemoveExcludes(args...)
		for _, id := range removed {
			logging.Infof("  %s — removed from exclude list\n", id)
		}
		for _, id := range args {
			if !containsFold(removed, id) {
				logging.Infof("  %s was not in the exclude list\n", id)
			}
		}

		if len(removed) == 0 {
			return nil
		}
		if err := cfg.Save(); err != nil {
			return fmt.Errorf("saving config: %w", err)
		}
		return nil
	},
}

var excludeListCmd = &cobra.Command{
	Use:   "list",
	Short: "List excluded mods",
	Args:  usageArgs(cobra.NoArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configFile)
		if err != nil {
			return err
		}

		if len(cfg.ExcludeMods) == 0 {
			logging.Infoln("No mods excluded.")
			return nil
		}

		logging.Infoln("Excluded mods:")
		for _, id := range cfg.ExcludeMods {
			logging.Infof("  - %s\n", id)
		}
		return nil
	},
}

func containsFold(list []string, s string) bool {
	for _, v := range list {
		if strings.EqualFold(v, strings.TrimSpace(s)) {
			return true
		}
	}
	return false
}

func init() {
	excludeCmd.AddCommand(excludeAddCmd)
	excludeCmd.AddCommand(excludeRemoveCmd)
	excludeCmd.AddCommand(excludeListCmd)
	rootCmd.AddCommand(excludeCmd)
}
