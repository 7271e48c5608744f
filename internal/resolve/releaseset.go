package resolve

import (
	"fmt"

	"github.com/dgwhited/github-actions-tag-2-sha/internal/actions"
	"github.com/dgwhited/github-actions-tag-2-sha/internal/version"
)

// ReleaseSet holds the valid semantic-version tags of a repository,
// preserving API listing order for tie-breaking.
type ReleaseSet struct {
	tags []actions.TagInfo
}

// NewReleaseSet filters the raw tag listing down to tags that parse as
// semantic versions.
func NewReleaseSet(tags []actions.TagInfo) *ReleaseSet {
	filtered := make([]actions.TagInfo, 0, len(tags))
	for _, t := range tags {
		if version.IsValid(t.Name) {
			filtered = append(filtered, t)
		}
	}
	return &ReleaseSet{tags: filtered}
}

// Empty reports whether the set contains no version tags.
func (s *ReleaseSet) Empty() bool {
	return len(s.tags) == 0
}

// Latest selects the highest tag by semantic-version precedence.
// Returns the winning tag, an optional ambiguity warning, and false when
// the set is empty.
func (s *ReleaseSet) Latest() (actions.TagInfo, string, bool) {
	return s.selectMax(s.tags)
}

// LatestMatching selects the highest tag whose dotted-numeric prefix
// matches the pattern component-wise (pattern "v4" matches "v4.1.2" but
// not "v40.0.0"). Returns false when nothing matches.
func (s *ReleaseSet) LatestMatching(pattern string) (actions.TagInfo, string, bool) {
	var matching []actions.TagInfo
	for _, t := range s.tags {
		if version.MatchesPrefix(t.Name, pattern) {
			matching = append(matching, t)
		}
	}
	return s.selectMax(matching)
}

// selectMax picks the semantically highest tag from candidates. Stable
// releases are preferred; pre-release tags are considered only when no
// stable tag exists. When several tag literals denote the same version
// (e.g. "v4" and "v4.0.0"), the longer literal wins the display label if
// they point at the same commit; otherwise the first tag in listing order
// wins and a warning is returned.
func (s *ReleaseSet) selectMax(candidates []actions.TagInfo) (actions.TagInfo, string, bool) {
	if len(candidates) == 0 {
		return actions.TagInfo{}, "", false
	}

	pool := stableOnly(candidates)
	if len(pool) == 0 {
		pool = candidates
	}

	best := pool[0]
	for _, t := range pool[1:] {
		if version.Compare(t.Name, best.Name) > 0 {
			best = t
		}
	}

	// Collect every literal equal to the winning version, in listing order.
	var equal []actions.TagInfo
	for _, t := range pool {
		if version.Compare(t.Name, best.Name) == 0 {
			equal = append(equal, t)
		}
	}
	if len(equal) == 1 {
		return equal[0], "", true
	}

	first := equal[0]
	preferred := first
	for _, t := range equal[1:] {
		if t.SHA != first.SHA {
			warning := fmt.Sprintf("tags %s and %s denote the same version but different commits; using %s",
				first.Name, t.Name, first.Name)
			return first, warning, true
		}
		if version.Specificity(t.Name) > version.Specificity(preferred.Name) {
			preferred = t
		}
	}
	return preferred, "", true
}

// stableOnly filters out pre-release tags.
func stableOnly(tags []actions.TagInfo) []actions.TagInfo {
	var stable []actions.TagInfo
	for _, t := range tags {
		if !version.IsPreRelease(t.Name) {
			stable = append(stable, t)
		}
	}
	return stable
}
