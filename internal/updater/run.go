package updater

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caedis/vsmod-updater/internal/decision"
	"github.com/caedis/vsmod-updater/internal/logging"
	"github.com/caedis/vsmod-updater/internal/moddb"
	"github.com/caedis/vsmod-updater/internal/modinfo"
	"github.com/caedis/vsmod-updater/internal/publish"
)

// Run performs one update pass over the mods directory.
//
// Mods are handled one at a time in inventory order. A failure while
// handling one mod is logged and counted and the pass moves on; only
// configuration problems and an unreadable mods directory abort the pass.
// The summary is printed whenever the pass started.
func Run(ctx context.Context, opts Options) (*PassResult, error) {
	opts = normalizeRunOptions(opts)
	logRunStart(opts)

	if err := validateOptions(opts); err != nil {
		return nil, err
	}

	logging.Infoln("Scanning mods directory...")
	mods, err := opts.Inventory.Scan(opts.ModsDir)
	if err != nil {
		return nil, fmt.Errorf("scanning mods directory: %w", err)
	}
	selected, left := selectMods(mods, opts.ExcludeMods, opts.Only)
	logging.Debugf("Verbose: scanned mods=%d selected=%d left-out=%d\n", len(mods), len(selected), left)

	pub := publish.New(opts.ModsDir, opts.Now())
	result := &PassResult{Excluded: left, BackupDir: pub.BackupDir()}

	logging.Infof("\nChecking %d mods for game version %s...\n", len(selected), opts.Policy.GameVersion)
	logging.Separator()

	var runErr error
	for _, mod := range selected {
		if err := ctx.Err(); err != nil {
			runErr = err
			break
		}
		result.record(processMod(ctx, mod, opts, pub))
		logging.Separator()
	}

	printSummary(result, opts.DryRun)
	return result, runErr
}

func normalizeRunOptions(opts Options) Options {
	if opts.Inventory == nil {
		opts.Inventory = modinfo.DirScanner{}
	}
	if opts.Source == nil {
		opts.Source = moddb.NewClient()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return opts
}

func logRunStart(opts Options) {
	p := opts.Policy
	logging.Debugf(
		"Verbose: update start mods-dir=%q game-version=%q always-update=%t can-downgrade=%t always-download=%t missing-version=%q move-older=%t dry-run=%t only=%q excluded=%d\n",
		opts.ModsDir,
		p.GameVersion,
		p.AlwaysUpdateToNewest,
		p.CanDowngrade,
		p.AlwaysDownload,
		p.MissingVersion,
		p.MoveOlderToSubfolder,
		opts.DryRun,
		opts.Only,
		len(opts.ExcludeMods),
	)
}

func validateOptions(opts Options) error {
	if strings.TrimSpace(opts.Policy.GameVersion) == "" {
		return fmt.Errorf("%w: game version is not set", ErrMissingConfig)
	}
	if strings.TrimSpace(opts.ModsDir) == "" {
		return fmt.Errorf("%w: mods directory is not set", ErrMissingConfig)
	}
	info, err := os.Stat(opts.ModsDir)
	if err != nil || !info.IsDir() {
		return fmt.Errorf("%w: mods directory %q does not exist", ErrMissingConfig, opts.ModsDir)
	}
	return nil
}

func printSummary(result *PassResult, dryRun bool) {
	verb := "Downloaded"
	if dryRun {
		verb = "Would download"
	}
	logging.Infof("Checked %d mods. %s %d mods.\n", result.Checked, verb, result.Updated)
	logging.Infof("  %d current, %d skipped, %d failed", result.Current, result.Skipped, result.Failed)
	if result.Excluded > 0 {
		logging.Infof(", %d not selected", result.Excluded)
	}
	logging.Infoln()

	if result.Failed > 0 {
		var failed []string
		for _, mr := range result.Mods {
			if mr.Outcome.Kind == decision.Failed {
				failed = append(failed, fmt.Sprintf("%s (%s)", mr.Mod.Label(), Classify(mr.Outcome.Err)))
			}
		}
		logging.Errorf("  Failed: %s\n", strings.Join(failed, ", "))
	}

	if info, err := os.Stat(result.BackupDir); err == nil && info.IsDir() {
		logging.Infof("  Previous versions moved to %s\n", filepath.Base(result.BackupDir))
	}
}
