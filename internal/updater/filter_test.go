package updater

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"testing"

	"github.com/caedis/vsmod-updater/internal/moddb"
	"github.com/caedis/vsmod-updater/internal/modinfo"
	"github.com/caedis/vsmod-updater/internal/publish"
	"github.com/caedis/vsmod-updater/internal/resolver"
)

func modIDs(mods []modinfo.Mod) []string {
	ids := make([]string, 0, len(mods))
	for _, m := range mods {
		ids = append(ids, m.ModID)
	}
	return ids
}

func TestSelectMods(t *testing.T) {
	mods := []modinfo.Mod{
		{ModID: "carryon", Name: "Carry On"},
		{ModID: "primitivesurvival", Name: "Primitive Survival"},
		{ModID: "expandedfoods", Name: "Expanded Foods"},
		{ModID: "betterruins", Name: "Better Ruins"},
	}

	tests := []struct {
		name     string
		exclude  []string
		only     string
		want     []string
		leftOver int
	}{
		{
			name: "no filters",
			want: []string{"carryon", "primitivesurvival", "expandedfoods", "betterruins"},
		},
		{
			name:     "exclude is case-insensitive",
			exclude:  []string{"CarryOn", " betterruins "},
			want:     []string{"primitivesurvival", "expandedfoods"},
			leftOver: 2,
		},
		{
			name:     "only matches names fuzzily",
			only:     "expfood",
			want:     []string{"expandedfoods"},
			leftOver: 3,
		},
		{
			name:     "only keeps inventory order",
			only:     "r",
			want:     []string{"carryon", "primitivesurvival", "betterruins"},
			leftOver: 1,
		},
		{
			name:     "exclude wins over only",
			exclude:  []string{"expandedfoods"},
			only:     "expfood",
			want:     []string{},
			leftOver: 4,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, left := selectMods(mods, tt.exclude, tt.only)
			if ids := modIDs(got); !reflect.DeepEqual(ids, tt.want) {
				t.Fatalf("selectMods ids = %v, want %v", ids, tt.want)
			}
			if left != tt.leftOver {
				t.Fatalf("left out %d, want %d", left, tt.leftOver)
			}
		})
	}
}

func TestRunCountsExcludedMods(t *testing.T) {
	quietLogs(t)
	inv := staticInventory{{ModID: "alpha", Version: "1.0.0"}, {ModID: "beta", Version: "1.0.0"}}
	src := &fakeSource{
		releases: map[string]moddb.ReleaseList{
			"beta": {{Version: "1.0.0", FileID: 1, Tags: []string{"1.19.8"}}},
		},
	}

	result, err := Run(context.Background(), Options{
		ModsDir:     t.TempDir(),
		Policy:      basePolicy(),
		ExcludeMods: []string{"ALPHA"},
		Inventory:   inv,
		Source:      src,
	})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if result.Checked != 1 || result.Excluded != 1 {
		t.Fatalf("unexpected counts: %+v", result)
	}
	if src.fetchCalls != 1 {
		t.Fatalf("excluded mod was queried: %d fetches", src.fetchCalls)
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, ""},
		{fmt.Errorf("x: %w", ErrMissingConfig), "missing config"},
		{fmt.Errorf("x: %w", context.Canceled), "cancelled"},
		{fmt.Errorf("x: %w", moddb.ErrNotFound), "not found"},
		{&moddb.TransportError{Op: "fetch", Err: moddb.ErrMalformedResponse}, "malformed response"},
		{&moddb.TransportError{Op: "fetch", StatusCode: 503}, "transport"},
		{fmt.Errorf("x: %w", resolver.ErrEmptyReleaseList), "empty release list"},
		{fmt.Errorf("x: %w", publish.ErrNameSpaceExhausted), "name space exhausted"},
		{fmt.Errorf("x: %w", publish.ErrBackup), "filesystem"},
		{fmt.Errorf("x: %w", publish.ErrWrite), "filesystem"},
		{errors.New("boom"), "unexpected"},
	}

	for _, tt := range tests {
		if got := Classify(tt.err); got != tt.want {
			t.Fatalf("Classify(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}
