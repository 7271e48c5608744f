package actions

import "fmt"

// RefKey identifies a single reference dereference lookup.
type RefKey struct {
	Owner string
	Repo  string
	Ref   string
}

// NewRefKey creates a key for a ref dereference lookup.
func NewRefKey(owner, repo, ref string) RefKey {
	return RefKey{
		Owner: owner,
		Repo:  repo,
		Ref:   ref,
	}
}

// String returns the string representation of the cache key.
func (k RefKey) String() string {
	return fmt.Sprintf("%s/%s@%s", k.Owner, k.Repo, k.Ref)
}

// TagsKey identifies a repository tag listing lookup.
type TagsKey struct {
	Owner string
	Repo  string
}

// NewTagsKey creates a key for a repository tag listing.
func NewTagsKey(owner, repo string) TagsKey {
	return TagsKey{
		Owner: owner,
		Repo:  repo,
	}
}

// String returns the string representation of the cache key.
func (k TagsKey) String() string {
	return fmt.Sprintf("%s/%s", k.Owner, k.Repo)
}
