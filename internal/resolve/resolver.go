package resolve

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/dgwhited/github-actions-tag-2-sha/internal/actions"
)

// PinnedLabel is the display label for an already-pinned reference that
// carries no prior version comment.
const PinnedLabel = "pinned"

// ErrNoReleases indicates a repository has no semantic-version tags to
// select a latest release from.
var ErrNoReleases = errors.New("no release tags found")

// Resolution is the outcome of resolving one reference. It is constructed
// once per distinct resolution key per run and never mutated.
type Resolution struct {
	SHA     string // 40-char lowercase hex commit identifier
	Display string // Human label for the trailing comment
	Warning string // Non-fatal resolution note (e.g. ambiguous tags), empty if none
}

// VersionResolver resolves action references to commit SHAs according to a
// run mode. Resolutions are memoized per (owner, repo, ref, mode) so every
// occurrence of the same reference across all files of one run shares a
// single resolution.
type VersionResolver struct {
	client actions.Resolver

	mu   sync.Mutex
	memo map[string]memoEntry
}

type memoEntry struct {
	res Resolution
	err error
}

// New creates a VersionResolver backed by the given API client.
func New(client actions.Resolver) *VersionResolver {
	return &VersionResolver{
		client: client,
		memo:   make(map[string]memoEntry),
	}
}

// Resolve resolves a single reference. The comment argument is the
// occurrence's existing trailing version label, used only when the
// reference is already a commit SHA.
func (r *VersionResolver) Resolve(owner, repo, ref, comment string, mode Mode) (Resolution, error) {
	if !mode.Valid() {
		return Resolution{}, fmt.Errorf("invalid resolution mode %d", int(mode))
	}

	// An already-pinned occurrence keeps its SHA; the display label comes
	// from the existing comment. This never touches the network, and the
	// label is per occurrence, so it bypasses the shared memo.
	if mode != ModeLatestRelease && actions.IsCommitSHA(ref) {
		display := comment
		if display == "" {
			display = PinnedLabel
		}
		return Resolution{SHA: strings.ToLower(ref), Display: display}, nil
	}

	key := fmt.Sprintf("%s/%s@%s|%s", owner, repo, ref, mode)

	r.mu.Lock()
	if entry, ok := r.memo[key]; ok {
		r.mu.Unlock()
		return entry.res, entry.err
	}
	r.mu.Unlock()

	res, err := r.resolve(owner, repo, ref, mode)

	r.mu.Lock()
	r.memo[key] = memoEntry{res: res, err: err}
	r.mu.Unlock()

	return res, err
}

// resolve dispatches on the run mode.
func (r *VersionResolver) resolve(owner, repo, ref string, mode Mode) (Resolution, error) {
	switch mode {
	case ModePinExact:
		return r.pinExact(owner, repo, ref)
	case ModeLatestMatching:
		return r.latestMatching(owner, repo, ref)
	case ModeLatestRelease:
		return r.latestRelease(owner, repo)
	case ModeBranchToRelease:
		return r.branchToRelease(owner, repo, ref)
	default:
		return Resolution{}, fmt.Errorf("invalid resolution mode %d", int(mode))
	}
}

// pinExact dereferences the tag or branch as written.
func (r *VersionResolver) pinExact(owner, repo, ref string) (Resolution, error) {
	sha, err := r.client.DereferenceRef(owner, repo, ref)
	if err != nil {
		return Resolution{}, err
	}
	return Resolution{SHA: sha, Display: ref}, nil
}

// latestMatching treats ref as a version prefix pattern and pins the
// highest matching release tag, falling back to exact pinning when no tag
// matches the pattern.
func (r *VersionResolver) latestMatching(owner, repo, ref string) (Resolution, error) {
	set, err := r.releaseSet(owner, repo)
	if err != nil {
		return Resolution{}, err
	}

	tag, warning, ok := set.LatestMatching(ref)
	if !ok {
		return r.pinExact(owner, repo, ref)
	}

	sha, err := r.client.DereferenceRef(owner, repo, tag.Name)
	if err != nil {
		return Resolution{}, err
	}
	return Resolution{SHA: sha, Display: tag.Name, Warning: warning}, nil
}

// latestRelease pins the highest release tag of the repository, ignoring
// the current reference entirely.
func (r *VersionResolver) latestRelease(owner, repo string) (Resolution, error) {
	set, err := r.releaseSet(owner, repo)
	if err != nil {
		return Resolution{}, err
	}

	tag, warning, ok := set.Latest()
	if !ok {
		return Resolution{}, fmt.Errorf("%s/%s: %w", owner, repo, ErrNoReleases)
	}

	sha, err := r.client.DereferenceRef(owner, repo, tag.Name)
	if err != nil {
		return Resolution{}, err
	}
	return Resolution{SHA: sha, Display: tag.Name, Warning: warning}, nil
}

// branchToRelease converts default-branch references to the latest
// release. A repository may legitimately carry a tag named "main"; such a
// ref is a tag, not a branch, and is pinned exactly instead.
func (r *VersionResolver) branchToRelease(owner, repo, ref string) (Resolution, error) {
	if !actions.IsDefaultBranch(ref) {
		return r.pinExact(owner, repo, ref)
	}

	isTag, err := r.client.TagExists(owner, repo, ref)
	if err != nil {
		return Resolution{}, err
	}
	if isTag {
		return r.pinExact(owner, repo, ref)
	}

	return r.latestRelease(owner, repo)
}

// releaseSet fetches the repository's tag listing through the run cache.
func (r *VersionResolver) releaseSet(owner, repo string) (*ReleaseSet, error) {
	tags, err := r.client.ListReleaseTags(owner, repo)
	if err != nil {
		return nil, err
	}
	return NewReleaseSet(tags), nil
}
