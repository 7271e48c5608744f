package gitutil

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	githttp "github.com/go-git/go-git/v5/plumbing/transport/http"
)

// Repo wraps a local git repository for the commit/push flow that follows
// a rewrite run.
type Repo struct {
	repo *git.Repository
	wt   *git.Worktree
}

// Open opens the repository containing path, searching parent directories
// for the .git directory.
func Open(path string) (*Repo, error) {
	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("failed to open git repository at %s: %w", path, err)
	}

	wt, err := repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("failed to get worktree: %w", err)
	}

	return &Repo{repo: repo, wt: wt}, nil
}

// Root returns the absolute path of the worktree root.
func (r *Repo) Root() string {
	return r.wt.Filesystem.Root()
}

// EnsureBranch switches to the named branch, creating it from the current
// HEAD when it does not exist yet.
func (r *Repo) EnsureBranch(name string) error {
	branchRef := plumbing.NewBranchReferenceName(name)

	if _, err := r.repo.Reference(branchRef, true); err == nil {
		if err := r.wt.Checkout(&git.CheckoutOptions{Branch: branchRef}); err != nil {
			return fmt.Errorf("failed to switch to branch %s: %w", name, err)
		}
		return nil
	}

	head, err := r.repo.Head()
	if err != nil {
		return fmt.Errorf("failed to read HEAD: %w", err)
	}

	err = r.wt.Checkout(&git.CheckoutOptions{
		Branch: branchRef,
		Hash:   head.Hash(),
		Create: true,
	})
	if err != nil {
		return fmt.Errorf("failed to create branch %s: %w", name, err)
	}
	return nil
}

// CommitFiles stages the given files and commits them with the message.
// Paths may be absolute or relative to the working directory; they are
// staged relative to the worktree root.
func (r *Repo) CommitFiles(paths []string, message string) (string, error) {
	root := r.Root()

	for _, path := range paths {
		abs, err := filepath.Abs(path)
		if err != nil {
			return "", fmt.Errorf("failed to resolve %s: %w", path, err)
		}
		rel, err := filepath.Rel(root, abs)
		if err != nil || strings.HasPrefix(rel, "..") {
			return "", fmt.Errorf("%s is outside the repository", path)
		}
		if _, err := r.wt.Add(filepath.ToSlash(rel)); err != nil {
			return "", fmt.Errorf("failed to stage %s: %w", rel, err)
		}
	}

	hash, err := r.wt.Commit(message, &git.CommitOptions{})
	if err != nil {
		return "", fmt.Errorf("failed to commit: %w", err)
	}
	return hash.String(), nil
}

// Push pushes the branch to the named remote. A non-empty token is used as
// an installation/access token over HTTPS.
func (r *Repo) Push(remote, branch, token string) error {
	refSpec := config.RefSpec(fmt.Sprintf("refs/heads/%s:refs/heads/%s", branch, branch))

	opts := &git.PushOptions{
		RemoteName: remote,
		RefSpecs:   []config.RefSpec{refSpec},
	}
	if token != "" {
		opts.Auth = &githttp.BasicAuth{
			Username: "x-access-token",
			Password: token,
		}
	}

	if err := r.repo.Push(opts); err != nil {
		return fmt.Errorf("failed to push %s to %s: %w", branch, remote, err)
	}
	return nil
}
