package updater

import (
	"strings"

	"github.com/caedis/vsmod-updater/internal/logging"
	"github.com/caedis/vsmod-updater/internal/modinfo"
	"github.com/sahilm/fuzzy"
)

// selectMods drops excluded mod ids (case-insensitive) and, when only is
// set, keeps the mods whose name or id fuzzily matches it. Inventory order
// is preserved. The second return value counts the mods left out.
func selectMods(mods []modinfo.Mod, exclude []string, only string) ([]modinfo.Mod, int) {
	excludeSet := make(map[string]bool, len(exclude))
	for _, id := range exclude {
		if id = strings.TrimSpace(id); id != "" {
			excludeSet[strings.ToLower(id)] = true
		}
	}

	var kept []modinfo.Mod
	for _, m := range mods {
		if excludeSet[strings.ToLower(m.ModID)] {
			logging.Debugf("Verbose: excluded mod skipped: %s\n", m.ModID)
			continue
		}
		kept = append(kept, m)
	}

	only = strings.TrimSpace(only)
	if only == "" {
		return kept, len(mods) - len(kept)
	}

	candidates := make([]string, len(kept))
	for i, m := range kept {
		candidates[i] = m.Label() + " " + m.ModID
	}
	hit := make(map[int]bool)
	for _, match := range fuzzy.Find(only, candidates) {
		hit[match.Index] = true
	}

	var filtered []modinfo.Mod
	for i, m := range kept {
		if hit[i] {
			filtered = append(filtered, m)
		}
	}
	logging.Debugf("Verbose: --only %q matched %d of %d mods\n", only, len(filtered), len(kept))
	return filtered, len(mods) - len(filtered)
}
