package actions

// Resolver defines the read operations against the hosted-repository API
// used to resolve action references.
type Resolver interface {
	// DereferenceRef resolves a tag or branch to a commit SHA, following
	// annotated tag indirection.
	DereferenceRef(owner, repo, ref string) (string, error)
	// ListReleaseTags lists repository tags in API listing order.
	ListReleaseTags(owner, repo string) ([]TagInfo, error)
	// TagExists checks whether a tag exists; a missing tag is not an error.
	TagExists(owner, repo, tag string) (bool, error)
	// GetCacheStats returns lookup cache statistics.
	GetCacheStats() CacheStats
}
