package policy

import (
	"fmt"
	"strings"
)

// MissingVersion decides what happens when no release tag matches the
// configured game version.
type MissingVersion int

const (
	// UseLatest falls back to the newest published release.
	UseLatest MissingVersion = iota
	// UseOneVersionBelow accepts the first release tagged for an older game version.
	UseOneVersionBelow
	// Skip leaves the mod alone.
	Skip
)

// MissingVersions lists every MissingVersion value in display order.
func MissingVersions() []MissingVersion {
	return []MissingVersion{UseLatest, UseOneVersionBelow, Skip}
}

// String returns the persisted label, e.g. "Use One Version Below".
func (m MissingVersion) String() string {
	switch m {
	case UseLatest:
		return "Use Latest"
	case UseOneVersionBelow:
		return "Use One Version Below"
	case Skip:
		return "Skip"
	default:
		return fmt.Sprintf("MissingVersion(%d)", int(m))
	}
}

// ParseMissingVersion accepts the persisted labels plus a few short aliases
// ("latest", "below", "skip"), case-insensitively.
func ParseMissingVersion(s string) (MissingVersion, error) {
	normalized := strings.ToLower(strings.Join(strings.Fields(s), " "))
	switch normalized {
	case "use latest", "latest":
		return UseLatest, nil
	case "use one version below", "one version below", "below", "one-below":
		return UseOneVersionBelow, nil
	case "skip":
		return Skip, nil
	default:
		return UseLatest, fmt.Errorf("invalid missing version policy %q (must be %q, %q or %q)",
			s, UseLatest, UseOneVersionBelow, Skip)
	}
}

// Policy is the user-controlled update behaviour for one pass. It is passed
// by value into resolution, decision and publication.
type Policy struct {
	GameVersion          string
	AlwaysUpdateToNewest bool
	CanDowngrade         bool
	AlwaysDownload       bool
	MissingVersion       MissingVersion
	MoveOlderToSubfolder bool
}

// Default returns the policy used when nothing has been configured.
func Default() Policy {
	return Policy{
		GameVersion:          "0.0.0",
		AlwaysUpdateToNewest: true,
		MissingVersion:       UseLatest,
	}
}
