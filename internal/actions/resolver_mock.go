package actions

// MockResolver is a mock implementation of the Resolver interface for testing.
type MockResolver struct {
	DereferenceRefFunc  func(owner, repo, ref string) (string, error)
	ListReleaseTagsFunc func(owner, repo string) ([]TagInfo, error)
	TagExistsFunc       func(owner, repo, tag string) (bool, error)
}

// Ensure MockResolver implements Resolver
var _ Resolver = (*MockResolver)(nil)

func (m *MockResolver) DereferenceRef(owner, repo, ref string) (string, error) {
	if m.DereferenceRefFunc != nil {
		return m.DereferenceRefFunc(owner, repo, ref)
	}
	return "", nil
}

func (m *MockResolver) ListReleaseTags(owner, repo string) ([]TagInfo, error) {
	if m.ListReleaseTagsFunc != nil {
		return m.ListReleaseTagsFunc(owner, repo)
	}
	return nil, nil
}

func (m *MockResolver) TagExists(owner, repo, tag string) (bool, error) {
	if m.TagExistsFunc != nil {
		return m.TagExistsFunc(owner, repo, tag)
	}
	return false, nil
}

func (m *MockResolver) GetCacheStats() CacheStats {
	return CacheStats{} // Mock always returns zero stats
}
