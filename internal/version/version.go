package version

import (
	"strconv"
	"strings"
)

// Split breaks a version string into its dot- and hyphen-delimited segments.
// Empty segments are kept, so "" yields a single "" segment and "1..2"
// yields {"1", "", "2"}.
func Split(v string) []string {
	return strings.Split(strings.ReplaceAll(v, "-", "."), ".")
}

// StripTagPrefix removes the leading "v" characters from a game-version tag
// such as "v1.19.2". Compare expects callers to do this first.
func StripTagPrefix(tag string) string {
	return strings.TrimLeft(tag, "v")
}

// Compare compares two version strings segment by segment.
// Returns -1 if a < b, 0 if a == b, +1 if a > b.
//
// The shorter side is padded with "0" segments. A position where both
// segments are integers compares numerically; anything else compares
// ordinally by bytes. Numeric and textual segments are never reconciled, so
// "2" vs "a" is decided by byte order alone. This is not semver.
func Compare(a, b string) int {
	aParts := Split(a)
	bParts := Split(b)

	maxLen := max(len(aParts), len(bParts))
	for i := 0; i < maxLen; i++ {
		as := segment(aParts, i)
		bs := segment(bParts, i)

		an, aErr := strconv.Atoi(as)
		bn, bErr := strconv.Atoi(bs)
		if aErr == nil && bErr == nil {
			switch {
			case an < bn:
				return -1
			case an > bn:
				return 1
			}
			continue
		}

		if cmp := strings.Compare(as, bs); cmp != 0 {
			return cmp
		}
	}
	return 0
}

func segment(parts []string, i int) string {
	if i < len(parts) {
		return parts[i]
	}
	return "0"
}
