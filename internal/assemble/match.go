package assemble

import (
	"strings"

	"github.com/hbollon/go-edlib"

	"github.com/vmunix/tanko/internal/fileset"
)

// closestThreshold is the minimum Jaro-Winkler similarity for a missing
// page hint. Below it the hint is more likely to mislead than help.
const closestThreshold = 0.70

// MatchResult pairs the pages a metadata file declares with the image
// files that actually arrived.
type MatchResult struct {
	// Matched maps declared page path to the actual file that satisfies it.
	Matched map[string]string

	// Missing lists declared pages with no matching file.
	Missing []MissingPage

	// Extra lists files no declared page claimed.
	Extra []string
}

// MissingPage is a declared page that never arrived. Closest is a fuzzy
// nearest-neighbor hint for diagnostics; it never creates a pairing.
type MissingPage struct {
	Path    string
	Closest string
}

// Clean reports a perfect match: every declared page found, no strays.
func (r MatchResult) Clean() bool {
	return len(r.Missing) == 0 && len(r.Extra) == 0
}

// MatchPages resolves declared page paths against actual file paths.
//
// Matching runs in strict tiers: exact path, then path-suffix (either side
// nested one directory deeper, as when an archive wraps its content in a
// folder), then extension-agnostic (same path with a different image
// extension). A more exact tier always wins over a fuzzier one, and each
// actual file satisfies at most one declared page. Leftover declared pages
// get a similarity hint from the unclaimed files.
func MatchPages(declared, actual []string) MatchResult {
	res := MatchResult{Matched: make(map[string]string, len(declared))}
	used := make(map[string]bool, len(actual))

	claim := func(d, a string) {
		res.Matched[d] = a
		used[a] = true
	}

	// Tier 1: exact.
	actualSet := make(map[string]bool, len(actual))
	for _, a := range actual {
		actualSet[a] = true
	}
	remaining := declared[:0:0]
	for _, d := range declared {
		if actualSet[d] && !used[d] {
			claim(d, d)
			continue
		}
		remaining = append(remaining, d)
	}

	// Tier 2: suffix. One side carries a directory prefix the other lacks.
	remaining = matchTier(remaining, actual, used, claim, func(d, a string) bool {
		return strings.HasSuffix(a, "/"+d) || strings.HasSuffix(d, "/"+a)
	})

	// Tier 3: same path, different image extension.
	remaining = matchTier(remaining, actual, used, claim, func(d, a string) bool {
		ds, dok := splitExt(d)
		as, aok := splitExt(a)
		return dok && aok && ds == as && fileset.IsImageExt(extOf(a))
	})

	for _, d := range remaining {
		res.Missing = append(res.Missing, MissingPage{
			Path:    d,
			Closest: closest(d, actual, used),
		})
	}
	for _, a := range actual {
		if !used[a] {
			res.Extra = append(res.Extra, a)
		}
	}
	return res
}

// matchTier pairs each remaining declared path with the first unused actual
// path the predicate accepts, returning the declared paths still unmatched.
func matchTier(declared, actual []string, used map[string]bool, claim func(d, a string), ok func(d, a string) bool) []string {
	remaining := declared[:0:0]
	for _, d := range declared {
		found := false
		for _, a := range actual {
			if used[a] || !ok(d, a) {
				continue
			}
			claim(d, a)
			found = true
			break
		}
		if !found {
			remaining = append(remaining, d)
		}
	}
	return remaining
}

func splitExt(path string) (stem string, ok bool) {
	dot := strings.LastIndexByte(path, '.')
	if dot <= 0 || strings.IndexByte(path[dot:], '/') >= 0 {
		return path, false
	}
	return path[:dot], true
}

func extOf(path string) string {
	dot := strings.LastIndexByte(path, '.')
	if dot < 0 {
		return ""
	}
	return strings.ToLower(path[dot+1:])
}

// closest returns the unclaimed actual path most similar to the declared
// one, comparing base names with Jaro-Winkler. Empty when nothing clears
// the threshold.
func closest(declared string, actual []string, used map[string]bool) string {
	target := baseName(declared)

	best := ""
	bestScore := 0.0
	for _, a := range actual {
		if used[a] {
			continue
		}
		score := float64(edlib.JaroWinklerSimilarity(target, baseName(a)))
		if score > bestScore {
			best = a
			bestScore = score
		}
	}
	if bestScore < closestThreshold {
		return ""
	}
	return best
}

func baseName(path string) string {
	if i := strings.LastIndexByte(path, '/'); i >= 0 {
		return path[i+1:]
	}
	return path
}
