package decision

import (
	"fmt"

	"github.com/caedis/vsmod-updater/internal/moddb"
	"github.com/caedis/vsmod-updater/internal/policy"
	"github.com/caedis/vsmod-updater/internal/resolver"
	"github.com/caedis/vsmod-updater/internal/version"
)

// Kind classifies the per-mod outcome of an update pass.
type Kind int

const (
	Updated Kind = iota + 1
	AlreadyCurrent
	Skipped
	Failed
)

func (k Kind) String() string {
	switch k {
	case Updated:
		return "updated"
	case AlreadyCurrent:
		return "current"
	case Skipped:
		return "skipped"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Reasons attached to outcomes.
const (
	ReasonNoMatch        = "no matching release under policy"
	ReasonAlwaysDownload = "always download is enabled"
	ReasonNewer          = "has a newer version"
	ReasonDowngrade      = "has an older version and downgrading is allowed"
	ReasonCurrent        = "is on the selected version"
	ReasonNoDowngrade    = "selected version is older and downgrading is disabled"
)

// defaultInstalledVersion stands in for an archive that declares no version.
const defaultInstalledVersion = "0.0.0"

// Outcome is the decision for one mod.
type Outcome struct {
	Kind    Kind
	Release moddb.Release
	Reason  string
	Err     error
}

// Decide turns a resolution into an outcome. It performs no I/O.
func Decide(res resolver.Resolution, installedVersion string, pol policy.Policy) Outcome {
	if res.Skipped {
		return Outcome{Kind: Skipped, Reason: ReasonNoMatch}
	}

	if installedVersion == "" {
		installedVersion = defaultInstalledVersion
	}
	cmp := version.Compare(res.Release.Version, installedVersion)

	switch {
	case pol.AlwaysDownload:
		return Outcome{Kind: Updated, Release: res.Release, Reason: ReasonAlwaysDownload}
	case cmp > 0:
		return Outcome{Kind: Updated, Release: res.Release, Reason: ReasonNewer}
	case cmp < 0 && pol.CanDowngrade:
		return Outcome{Kind: Updated, Release: res.Release, Reason: ReasonDowngrade}
	case cmp == 0:
		return Outcome{Kind: AlreadyCurrent, Release: res.Release, Reason: ReasonCurrent}
	default:
		return Outcome{Kind: AlreadyCurrent, Release: res.Release, Reason: ReasonNoDowngrade}
	}
}

// Skip builds a Skipped outcome with a custom reason.
func Skip(reason string) Outcome {
	return Outcome{Kind: Skipped, Reason: reason}
}

// Fail builds a Failed outcome carrying err.
func Fail(err error) Outcome {
	return Outcome{Kind: Failed, Reason: err.Error(), Err: err}
}
