package updater

import (
	"context"
	"errors"
	"time"

	"github.com/caedis/vsmod-updater/internal/decision"
	"github.com/caedis/vsmod-updater/internal/moddb"
	"github.com/caedis/vsmod-updater/internal/modinfo"
	"github.com/caedis/vsmod-updater/internal/policy"
	"github.com/caedis/vsmod-updater/internal/publish"
	"github.com/caedis/vsmod-updater/internal/resolver"
)

// ErrMissingConfig means the pass cannot start: game version or mods
// directory is unset or unusable. Nothing is touched on disk.
var ErrMissingConfig = errors.New("missing required configuration")

// Inventory lists the installed mods of a directory.
type Inventory interface {
	Scan(modsDir string) ([]modinfo.Mod, error)
}

// ReleaseSource serves release metadata and archives.
type ReleaseSource interface {
	FetchReleases(ctx context.Context, modID string) (moddb.ReleaseList, error)
	FetchPayload(ctx context.Context, fileID int, label string) ([]byte, error)
}

type Options struct {
	ModsDir     string
	Policy      policy.Policy
	ExcludeMods []string
	// Only restricts the pass to mods fuzzily matching this query.
	Only   string
	DryRun bool

	// Inventory and Source default to the mods directory scanner and the
	// public mod database.
	Inventory Inventory
	Source    ReleaseSource
	// Now defaults to time.Now; it names the pass's backup folders.
	Now func() time.Time
}

// ModResult is what happened to one mod.
type ModResult struct {
	Mod        modinfo.Mod
	Resolution resolver.Resolution
	Outcome    decision.Outcome
	Write      publish.WriteResult
}

// PassResult aggregates one update pass.
type PassResult struct {
	Checked   int
	Updated   int
	Current   int
	Skipped   int
	Failed    int
	Excluded  int
	BackupDir string
	Mods      []ModResult
}

func (r *PassResult) record(mr ModResult) {
	r.Checked++
	switch mr.Outcome.Kind {
	case decision.Updated:
		r.Updated++
	case decision.AlreadyCurrent:
		r.Current++
	case decision.Skipped:
		r.Skipped++
	case decision.Failed:
		r.Failed++
	}
	r.Mods = append(r.Mods, mr)
}
