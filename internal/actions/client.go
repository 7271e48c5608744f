package actions

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/go-github/v80/github"
	"golang.org/x/oauth2"
	"golang.org/x/sync/singleflight"
)

const (
	timeout = 10 * time.Second
	perPage = 100

	// GitHubTokenEnvVar is the environment variable for GitHub authentication.
	GitHubTokenEnvVar = "GITHUB_TOKEN" //nolint:gosec // Not a credential, just env var name
)

// TagInfo holds a tag name and the commit SHA it points to,
// in repository listing order.
type TagInfo struct {
	Name string
	SHA  string
}

// Client implements the Resolver interface against the GitHub API.
// All lookups are memoized for the lifetime of one run; concurrent callers
// for the same key share a single in-flight request.
type Client struct {
	ctx        context.Context
	token      string
	github     *github.Client
	cache      *Cache
	group      singleflight.Group
	clientOnce sync.Once
}

// Ensure Client implements Resolver
var _ Resolver = (*Client)(nil)

// NewClient creates a new Client instance with background context.
// An empty token selects unauthenticated (rate-limited) access.
func NewClient(token string) *Client {
	return NewClientWithContext(context.Background(), token)
}

// NewClientWithContext creates a new Client instance with the provided context.
func NewClientWithContext(ctx context.Context, token string) *Client {
	return &Client{
		ctx:   ctx,
		token: token,
		cache: NewCache(),
	}
}

// NewClientWithCache creates a Client with a shared cache.
func NewClientWithCache(ctx context.Context, token string, cache *Cache) *Client {
	return &Client{
		ctx:   ctx,
		token: token,
		cache: cache,
	}
}

// getGitHubClient returns the GitHub client, initializing it lazily (thread-safe).
func (c *Client) getGitHubClient() *github.Client {
	c.clientOnce.Do(func() {
		httpClient := &http.Client{Timeout: timeout}

		if c.token != "" {
			ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: c.token})
			httpClient = oauth2.NewClient(c.ctx, ts)
			httpClient.Timeout = timeout
		}

		c.github = github.NewClient(httpClient)
	})
	return c.github
}

// ClearCache clears the lookup cache.
func (c *Client) ClearCache() {
	c.cache.Clear()
}

// GetCacheStats returns the cache usage statistics.
func (c *Client) GetCacheStats() CacheStats {
	return c.cache.Stats()
}

// DereferenceRef resolves a tag or branch name to a commit SHA.
// Annotated tags are followed one level to the underlying commit object, so
// the returned SHA is always a commit identifier. A reference that is
// already a commit SHA is returned as is, lowercased, without a network
// call. Missing references yield ErrReferenceNotFound.
func (c *Client) DereferenceRef(owner, repo, ref string) (string, error) {
	if IsCommitSHA(ref) {
		return strings.ToLower(ref), nil
	}

	ref = strings.TrimPrefix(ref, "refs/")
	ref = strings.TrimPrefix(ref, "tags/")
	ref = strings.TrimPrefix(ref, "heads/")

	key := NewRefKey(owner, repo, ref)
	if result, ok := c.cache.GetRef(key); ok {
		return result.SHA, result.Err
	}

	v, err, _ := c.group.Do("ref:"+key.String(), func() (any, error) {
		if result, ok := c.cache.GetRef(key); ok {
			return result.SHA, result.Err
		}

		sha, err := c.fetchRefSHA(owner, repo, ref)
		c.cache.SetRef(key, RefResult{SHA: sha, Err: err})
		return sha, err
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

// fetchRefSHA resolves a symbolic ref to a commit SHA, trying a tag first
// and falling back to a branch.
func (c *Client) fetchRefSHA(owner, repo, ref string) (string, error) {
	sha, err := c.getRefObjectSHA(owner, repo, "refs/tags/"+ref)
	if err == nil {
		return sha, nil
	}
	if !IsNotFound(err) {
		return "", err
	}

	sha, err = c.getRefObjectSHA(owner, repo, "refs/heads/"+ref)
	if err != nil {
		return "", err
	}
	return sha, nil
}

// getRefObjectSHA fetches a fully qualified git ref and peels one level of
// annotated tag indirection to the commit object.
func (c *Client) getRefObjectSHA(owner, repo, fullRef string) (string, error) {
	client := c.getGitHubClient()

	gitRef, _, err := client.Git.GetRef(c.ctx, owner, repo, fullRef)
	if err != nil {
		return "", classifyError(owner, repo, fullRef, err)
	}
	if gitRef == nil || gitRef.Object == nil {
		return "", classifyError(owner, repo, fullRef, ErrReferenceNotFound)
	}

	obj := gitRef.Object
	if obj.GetType() != "tag" {
		return strings.ToLower(obj.GetSHA()), nil
	}

	// Annotated tag: the ref points at a tag object, not the commit.
	tagObj, _, err := client.Git.GetTag(c.ctx, owner, repo, obj.GetSHA())
	if err != nil {
		return "", classifyError(owner, repo, fullRef, err)
	}
	if tagObj == nil || tagObj.Object == nil {
		return "", classifyError(owner, repo, fullRef, ErrReferenceNotFound)
	}
	return strings.ToLower(tagObj.Object.GetSHA()), nil
}

// ListReleaseTags lists all tags of a repository in API listing order.
// The result is cached for the run.
func (c *Client) ListReleaseTags(owner, repo string) ([]TagInfo, error) {
	key := NewTagsKey(owner, repo)
	if result, ok := c.cache.GetTags(key); ok {
		return result.Tags, result.Err
	}

	v, err, _ := c.group.Do("tags:"+key.String(), func() (any, error) {
		if result, ok := c.cache.GetTags(key); ok {
			return result.Tags, result.Err
		}

		tags, err := c.fetchAllTags(owner, repo)
		c.cache.SetTags(key, TagsResult{Tags: tags, Err: err})
		return tags, err
	})
	if err != nil {
		return nil, err
	}
	return v.([]TagInfo), nil
}

// fetchAllTags paginates through all repository tags.
func (c *Client) fetchAllTags(owner, repo string) ([]TagInfo, error) {
	client := c.getGitHubClient()
	opts := &github.ListOptions{PerPage: perPage}

	var all []TagInfo
	for {
		tags, resp, err := client.Repositories.ListTags(c.ctx, owner, repo, opts)
		if err != nil {
			return nil, classifyError(owner, repo, "tags", err)
		}

		for _, tag := range tags {
			all = append(all, TagInfo{
				Name: tag.GetName(),
				SHA:  strings.ToLower(tag.GetCommit().GetSHA()),
			})
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return all, nil
}

// TagExists checks whether the named tag exists in the repository.
// A missing tag is a valid outcome, not an error.
func (c *Client) TagExists(owner, repo, tag string) (bool, error) {
	key := NewRefKey(owner, repo, "tags/"+tag)
	if result, ok := c.cache.GetRef(key); ok {
		return result.Err == nil, ignoreNotFound(result.Err)
	}

	_, err, _ := c.group.Do("tag-exists:"+key.String(), func() (any, error) {
		if result, ok := c.cache.GetRef(key); ok {
			return nil, result.Err
		}

		sha, err := c.getRefObjectSHA(owner, repo, "refs/tags/"+tag)
		c.cache.SetRef(key, RefResult{SHA: sha, Err: err})
		return nil, err
	})
	if err != nil {
		return false, ignoreNotFound(err)
	}
	return true, nil
}

// ignoreNotFound strips ErrReferenceNotFound, keeping transport failures.
func ignoreNotFound(err error) error {
	if err == nil || IsNotFound(err) {
		return nil
	}
	return err
}
