package updater

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/caedis/vsmod-updater/internal/decision"
	"github.com/caedis/vsmod-updater/internal/logging"
	"github.com/caedis/vsmod-updater/internal/moddb"
	"github.com/caedis/vsmod-updater/internal/modinfo"
	"github.com/caedis/vsmod-updater/internal/publish"
	"github.com/caedis/vsmod-updater/internal/resolver"
)

const reasonNotListed = "not listed on the mod database"

// processMod runs fetch, resolve, decide and publish for one mod. Every
// error ends up in the returned outcome.
func processMod(ctx context.Context, mod modinfo.Mod, opts Options, pub *publish.Publisher) ModResult {
	mr := ModResult{Mod: mod}
	label := mod.Label()
	logging.Infof("%s (%s) installed %s\n", label, mod.ModID, displayVersion(mod.Version))

	releases, err := opts.Source.FetchReleases(ctx, mod.ModID)
	if errors.Is(err, moddb.ErrNotFound) {
		mr.Outcome = decision.Skip(reasonNotListed)
		logging.Warnf("  Skipping %s: %s\n", label, reasonNotListed)
		return mr
	}
	if err != nil {
		return failMod(mr, fmt.Errorf("checking %s: %w", mod.ModID, err))
	}

	res, err := resolver.Resolve(releases, opts.Policy.GameVersion, opts.Policy)
	if err != nil {
		return failMod(mr, fmt.Errorf("resolving %s: %w", mod.ModID, err))
	}
	mr.Resolution = res
	if !res.Skipped {
		logging.Debugf("Verbose: resolved %s release=%s tag=%s match=%s below=%t\n",
			mod.ModID, res.Release.Version, res.Tag, res.Match, res.ResolvedBelow)
	}

	mr.Outcome = decision.Decide(res, mod.Version, opts.Policy)
	switch mr.Outcome.Kind {
	case decision.Skipped:
		logging.Warnf("  Skipping %s: %s\n", label, mr.Outcome.Reason)
		return mr
	case decision.AlreadyCurrent:
		logging.Infof("  %s is on latest (%s)!\n", label, displayVersion(mod.Version))
		return mr
	}

	logging.Infof("  Updating %s %s → %s (%s, %s match), %s.\n",
		label, displayVersion(mod.Version), mr.Outcome.Release.Version, res.Tag, res.Match, mr.Outcome.Reason)
	if opts.DryRun {
		return mr
	}

	payload, err := opts.Source.FetchPayload(ctx, mr.Outcome.Release.FileID, label)
	if err != nil {
		return failMod(mr, fmt.Errorf("downloading %s %s: %w", mod.ModID, mr.Outcome.Release.Version, err))
	}

	write, err := pub.Publish(mod, mr.Outcome, payload, res.ResolvedBelow, opts.Policy)
	mr.Write = write
	if err != nil {
		return failMod(mr, fmt.Errorf("installing %s %s: %w", mod.ModID, mr.Outcome.Release.Version, err))
	}

	if write.Renamed {
		logging.Warnf("  Installed as %s (name was taken)\n", filepath.Base(write.Path))
	} else {
		logging.Successf("  Installed %s\n", filepath.Base(write.Path))
	}
	return mr
}

func failMod(mr ModResult, err error) ModResult {
	mr.Outcome = decision.Fail(err)
	logging.Errorf("  Failed (%s): %v\n", Classify(err), err)
	return mr
}

func displayVersion(v string) string {
	if v == "" {
		return "unknown version"
	}
	return v
}
