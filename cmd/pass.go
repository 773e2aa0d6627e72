package cmd

import (
	"context"
	"os"

	"github.com/caedis/vsmod-updater/internal/config"
	"github.com/caedis/vsmod-updater/internal/moddb"
	"github.com/caedis/vsmod-updater/internal/profile"
	"github.com/caedis/vsmod-updater/internal/terminal"
	"github.com/caedis/vsmod-updater/internal/updater"
)

// Per-invocation overrides set by the update flags. They are never saved.
var (
	overrideGameVersion string
	overrideModsDir     string
	onlyQuery           string
	noProgress          bool
)

// effectiveConfig returns a copy of cfg with the active profile and the
// update flags applied.
func effectiveConfig(cfg *config.Config, p *profile.Profile) (*config.Config, error) {
	eff := *cfg
	eff.ExcludeMods = append([]string(nil), cfg.ExcludeMods...)
	if p != nil {
		if err := p.Apply(&eff); err != nil {
			return nil, err
		}
	}
	if overrideGameVersion != "" {
		eff.GameVersion = overrideGameVersion
	}
	if overrideModsDir != "" {
		eff.ModPath = overrideModsDir
	}
	return &eff, nil
}

func passOptions(cfg *config.Config, p *profile.Profile, dryRun bool) (updater.Options, error) {
	eff, err := effectiveConfig(cfg, p)
	if err != nil {
		return updater.Options{}, err
	}
	modsDir, err := eff.ModsDir()
	if err != nil {
		return updater.Options{}, err
	}

	client := moddb.NewClient()
	if !noProgress && terminal.IsTerminal(os.Stderr) {
		client.Progress = os.Stderr
	}

	return updater.Options{
		ModsDir:     modsDir,
		Policy:      eff.Policy(),
		ExcludeMods: eff.ExcludeMods,
		Only:        onlyQuery,
		DryRun:      dryRun,
		Source:      client,
	}, nil
}

// runPass is the update pass shared by the menu and the update command.
func runPass(ctx context.Context, cfg *config.Config, dryRun bool) error {
	opts, err := passOptions(cfg, activeProfile, dryRun)
	if err != nil {
		return err
	}
	_, err = updater.Run(ctx, opts)
	return err
}
