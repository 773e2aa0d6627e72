package resolver

import (
	"errors"
	"fmt"
	"strings"

	"github.com/caedis/vsmod-updater/internal/logging"
	"github.com/caedis/vsmod-updater/internal/moddb"
	"github.com/caedis/vsmod-updater/internal/policy"
	"github.com/caedis/vsmod-updater/internal/version"
)

// ErrEmptyReleaseList means the mod database lists the mod without any release.
var ErrEmptyReleaseList = errors.New("mod has no published releases")

// MatchKind records which rule selected a release.
type MatchKind int

const (
	NoMatch MatchKind = iota
	// Exact: a tag equals the game version.
	Exact
	// Newer: a tag is above the game version and newest releases are allowed.
	Newer
	// OlderAllowed: a tag is below the game version under UseOneVersionBelow.
	OlderAllowed
	// LatestFallback: nothing matched, the newest release was taken.
	LatestFallback
)

func (k MatchKind) String() string {
	switch k {
	case NoMatch:
		return "none"
	case Exact:
		return "exact"
	case Newer:
		return "newer"
	case OlderAllowed:
		return "older"
	case LatestFallback:
		return "latest"
	default:
		return fmt.Sprintf("MatchKind(%d)", int(k))
	}
}

// Resolution is the outcome of release selection for one mod.
type Resolution struct {
	Release moddb.Release
	Match   MatchKind
	// Tag is the tag that matched, or the primary tag for LatestFallback.
	Tag string
	// ResolvedBelow is set when the release targets an older game version.
	ResolvedBelow bool
	// Skipped is set when nothing matched and the policy says to skip.
	Skipped bool
}

// Resolve picks the release to install for gameVersion.
//
// Releases are scanned in list order and, within a release, tags in tag
// order. The first tag satisfying any rule wins; there is no search for a
// best match, so the outcome depends on the source ordering.
func Resolve(releases moddb.ReleaseList, gameVersion string, pol policy.Policy) (Resolution, error) {
	if len(releases) == 0 {
		return Resolution{}, ErrEmptyReleaseList
	}

	for _, rel := range releases {
		for _, tag := range rel.Tags {
			tagVersion := version.StripTagPrefix(tag)
			if strings.TrimSpace(tagVersion) == "" {
				logging.Debugf("Verbose: blank tag on release %s skipped\n", rel.Version)
				continue
			}

			cmp := version.Compare(tagVersion, gameVersion)
			switch {
			case cmp > 0 && pol.AlwaysUpdateToNewest:
				logging.Debugf("Verbose: newer release found: %s (%s)\n", tag, rel.Version)
				return Resolution{Release: rel, Match: Newer, Tag: tag}, nil
			case cmp == 0:
				logging.Debugf("Verbose: exact release found: %s (%s)\n", tag, rel.Version)
				return Resolution{Release: rel, Match: Exact, Tag: tag}, nil
			case cmp < 0 && pol.MissingVersion == policy.UseOneVersionBelow:
				logging.Debugf("Verbose: older release found: %s (%s)\n", tag, rel.Version)
				return Resolution{Release: rel, Match: OlderAllowed, Tag: tag, ResolvedBelow: true}, nil
			}
		}
	}

	if pol.MissingVersion == policy.Skip {
		logging.Debugf("Verbose: no release tagged for %s, skipping\n", gameVersion)
		return Resolution{Skipped: true}, nil
	}

	latest := releases[0]
	logging.Debugf("Verbose: no release tagged for %s, using latest: %s\n", gameVersion, latest.PrimaryTag())
	return Resolution{Release: latest, Match: LatestFallback, Tag: latest.PrimaryTag()}, nil
}
