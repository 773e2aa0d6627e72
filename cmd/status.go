package cmd

import (
	"fmt"

	"github.com/caedis/vsmod-updater/internal/config"
	"github.com/caedis/vsmod-updater/internal/decision"
	"github.com/caedis/vsmod-updater/internal/logging"
	"github.com/caedis/vsmod-updater/internal/updater"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show which installed mods have a release to install",
	Long:  "Run a dry update pass and list every checked mod with the release that would be installed.",
	Args:  usageArgs(cobra.NoArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configFile)
		if err != nil {
			return err
		}
		opts, err := passOptions(cfg, activeProfile, true)
		if err != nil {
			return err
		}
		result, err := updater.Run(cmd.Context(), opts)
		if err != nil {
			return err
		}
		logging.Infoln(statusTable(result))
		return nil
	},
}

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
)

func statusTable(result *updater.PassResult) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("Mod", "Installed", "Target", "Released", "Match", "Status").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})

	for _, mr := range result.Mods {
		installed := mr.Mod.Version
		if installed == "" {
			installed = "-"
		}
		target, released, match := "-", "-", "-"
		if mr.Outcome.Kind == decision.Updated || mr.Outcome.Kind == decision.AlreadyCurrent {
			rel := mr.Resolution.Release
			target = fmt.Sprintf("%s (%s)", rel.Version, mr.Resolution.Tag)
			if d := rel.ReleaseDate(); d != "" {
				released = d
			}
			match = mr.Resolution.Match.String()
		}
		t.Row(mr.Mod.Label(), installed, target, released, match, statusText(mr))
	}
	return t.Render()
}

func statusText(mr updater.ModResult) string {
	switch mr.Outcome.Kind {
	case decision.Updated:
		return "update: " + mr.Outcome.Reason
	case decision.AlreadyCurrent:
		return "current"
	case decision.Skipped:
		return "skipped: " + mr.Outcome.Reason
	default:
		return "failed: " + updater.Classify(mr.Outcome.Err)
	}
}

func init() {
	addPassFlags(statusCmd)
	rootCmd.AddCommand(statusCmd)
}
