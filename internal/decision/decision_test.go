package decision

import (
	"errors"
	"fmt"
	"testing"

	"github.com/caedis/vsmod-updater/internal/moddb"
	"github.com/caedis/vsmod-updater/internal/policy"
	"github.com/caedis/vsmod-updater/internal/resolver"
	"github.com/stretchr/testify/assert"
)

func TestDecideTruthTable(t *testing.T) {
	// installed version is fixed at 1.1.0; the remote version sets cmp.
	remoteFor := map[int]string{1: "1.2.0", 0: "1.1.0", -1: "1.0.0"}
	matches := []resolver.MatchKind{resolver.Exact, resolver.Newer, resolver.OlderAllowed, resolver.LatestFallback}

	tests := []struct {
		cmp            int
		alwaysDownload bool
		canDowngrade   bool
		want           Kind
	}{
		{cmp: 1, want: Updated},
		{cmp: 1, canDowngrade: true, want: Updated},
		{cmp: 1, alwaysDownload: true, want: Updated},
		{cmp: 0, want: AlreadyCurrent},
		{cmp: 0, canDowngrade: true, want: AlreadyCurrent},
		{cmp: 0, alwaysDownload: true, want: Updated},
		{cmp: -1, want: AlreadyCurrent},
		{cmp: -1, canDowngrade: true, want: Updated},
		{cmp: -1, alwaysDownload: true, want: Updated},
		{cmp: -1, alwaysDownload: true, canDowngrade: true, want: Updated},
	}

	for _, match := range matches {
		for _, tt := range tests {
			name := fmt.Sprintf("%s/cmp=%d/always=%t/downgrade=%t", match, tt.cmp, tt.alwaysDownload, tt.canDowngrade)
			t.Run(name, func(t *testing.T) {
				pol := policy.Default()
				pol.AlwaysDownload = tt.alwaysDownload
				pol.CanDowngrade = tt.canDowngrade

				res := resolver.Resolution{
					Release: moddb.Release{Version: remoteFor[tt.cmp], FileID: 7, Tags: []string{"v1.19.8"}},
					Match:   match,
				}
				got := Decide(res, "1.1.0", pol)
				assert.Equal(t, tt.want, got.Kind)
				assert.Equal(t, res.Release.Version, got.Release.Version)
			})
		}
	}
}

func TestDecideReasons(t *testing.T) {
	res := resolver.Resolution{Release: moddb.Release{Version: "2.0.0"}, Match: resolver.Exact}

	pol := policy.Default()
	assert.Equal(t, ReasonNewer, Decide(res, "1.0.0", pol).Reason)

	pol.AlwaysDownload = true
	assert.Equal(t, ReasonAlwaysDownload, Decide(res, "3.0.0", pol).Reason, "always download takes priority")

	pol = policy.Default()
	pol.CanDowngrade = true
	assert.Equal(t, ReasonDowngrade, Decide(res, "3.0.0", pol).Reason)
}

func TestDecideSkippedResolution(t *testing.T) {
	pol := policy.Default()
	pol.AlwaysDownload = true

	got := Decide(resolver.Resolution{Skipped: true}, "1.0.0", pol)
	assert.Equal(t, Skipped, got.Kind, "a skipped resolution never downloads, not even with always download")
	assert.Equal(t, ReasonNoMatch, got.Reason)
}

func TestDecideEmptyInstalledVersion(t *testing.T) {
	res := resolver.Resolution{Release: moddb.Release{Version: "0.0.1"}, Match: resolver.Exact}
	assert.Equal(t, Updated, Decide(res, "", policy.Default()).Kind)

	res.Release.Version = "0.0.0"
	assert.Equal(t, AlreadyCurrent, Decide(res, "", policy.Default()).Kind)
}

func TestFail(t *testing.T) {
	err := errors.New("boom")
	got := Fail(err)
	assert.Equal(t, Failed, got.Kind)
	assert.ErrorIs(t, got.Err, err)
	assert.Equal(t, "boom", got.Reason)
}
