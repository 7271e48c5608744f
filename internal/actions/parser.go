package actions

import (
	"fmt"
	"strings"
)

// RefSpec represents a parsed GitHub Action reference.
type RefSpec struct {
	Owner string
	Repo  string
	Path  string // Subdirectory path for composite actions (e.g., "upload-sarif")
	Ref   string // Git reference: tag (e.g., "v2"), commit SHA, or branch name
}

// Name returns the action identity without the ref, e.g.
// "github/codeql-action/upload-sarif".
func (s *RefSpec) Name() string {
	if s.Path != "" {
		return s.Owner + "/" + s.Repo + "/" + s.Path
	}
	return s.Owner + "/" + s.Repo
}

// ParseRef parses "owner/repo@ref" or "owner/repo/path@ref" into a RefSpec.
// For composite actions like "github/codeql-action/upload-sarif@v2", the repo
// is extracted as "codeql-action" and path as "upload-sarif".
func ParseRef(uses string) (*RefSpec, error) {
	atIdx := strings.LastIndex(uses, "@")
	if atIdx == -1 {
		return nil, fmt.Errorf("invalid action format: %s", uses)
	}

	actionPath := uses[:atIdx]
	ref := uses[atIdx+1:]
	if ref == "" {
		return nil, fmt.Errorf("empty ref in action: %s", uses)
	}

	firstSlash := strings.Index(actionPath, "/")
	if firstSlash <= 0 {
		return nil, fmt.Errorf("invalid action path: %s", actionPath)
	}

	owner := actionPath[:firstSlash]
	rest := actionPath[firstSlash+1:]
	if rest == "" {
		return nil, fmt.Errorf("invalid action path: %s", actionPath)
	}

	var repo, path string
	if secondSlash := strings.Index(rest, "/"); secondSlash == -1 {
		repo = rest
	} else {
		repo = rest[:secondSlash]
		path = rest[secondSlash+1:]
	}

	return &RefSpec{
		Owner: owner,
		Repo:  repo,
		Path:  path,
		Ref:   ref,
	}, nil
}

// IsCommitSHA checks if a reference is a 40-char hex commit SHA.
func IsCommitSHA(ref string) bool {
	if len(ref) != 40 {
		return false
	}
	for _, c := range ref {
		isDigit := c >= '0' && c <= '9'
		isLowerHex := c >= 'a' && c <= 'f'
		isUpperHex := c >= 'A' && c <= 'F'
		if !isDigit && !isLowerHex && !isUpperHex {
			return false
		}
	}
	return true
}

// IsLocalPath checks if a uses value is a local action reference, which
// carries no resolvable tag or SHA.
func IsLocalPath(uses string) bool {
	return uses == "." || strings.HasPrefix(uses, "./") || strings.HasPrefix(uses, "../")
}

// IsDockerRef checks if a uses value is a Docker image reference.
func IsDockerRef(uses string) bool {
	return strings.HasPrefix(uses, "docker://")
}

// IsDefaultBranch checks if ref names a repository default branch.
func IsDefaultBranch(ref string) bool {
	lower := strings.ToLower(ref)
	return lower == "main" || lower == "master"
}
