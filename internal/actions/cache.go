package actions

import "sync"

// CacheStats holds statistics about cache usage.
type CacheStats struct {
	Hits   int64 // Number of cache hits
	Misses int64 // Number of cache misses (API calls made)
}

// RefResult holds the outcome of a reference dereference lookup.
type RefResult struct {
	SHA string
	Err error
}

// TagsResult holds the outcome of a repository tag listing.
type TagsResult struct {
	Tags []TagInfo
	Err  error
}

// Cache stores results of GitHub API lookups for the lifetime of one run,
// so that the same action reference appearing in multiple workflow files
// triggers at most one API call.
type Cache struct {
	mu     sync.Mutex
	refs   map[string]RefResult
	tags   map[string]TagsResult
	hits   int64
	misses int64
}

// NewCache creates a new Cache instance.
func NewCache() *Cache {
	return &Cache{
		refs: make(map[string]RefResult),
		tags: make(map[string]TagsResult),
	}
}

// GetRef retrieves a cached dereference result.
// Returns the cached result and true if found.
func (c *Cache) GetRef(key RefKey) (RefResult, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if cached, found := c.refs[key.String()]; found {
		c.hits++
		return cached, true
	}
	return RefResult{}, false
}

// SetRef stores a dereference result in the cache.
func (c *Cache) SetRef(key RefKey, result RefResult) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.refs[key.String()] = result
	c.misses++ // A set means we made an API call
}

// GetTags retrieves a cached tag listing.
// Returns the cached result and true if found.
func (c *Cache) GetTags(key TagsKey) (TagsResult, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if cached, found := c.tags[key.String()]; found {
		c.hits++
		return cached, true
	}
	return TagsResult{}, false
}

// SetTags stores a tag listing in the cache.
func (c *Cache) SetTags(key TagsKey, result TagsResult) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.tags[key.String()] = result
	c.misses++ // A set means we made an API call
}

// Clear clears all cached lookup results.
// This is useful for testing or when you want to force fresh API calls.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	clear(c.refs)
	clear(c.tags)
	c.hits = 0
	c.misses = 0
}

// Stats returns the current cache statistics.
func (c *Cache) Stats() CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()

	return CacheStats{
		Hits:   c.hits,
		Misses: c.misses,
	}
}
