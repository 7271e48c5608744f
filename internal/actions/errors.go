package actions

import (
	"errors"
	"fmt"

	"github.com/google/go-github/v80/github"
)

// ErrReferenceNotFound indicates the requested tag or branch does not exist
// in the remote repository. This is a valid outcome, distinct from a
// transport failure, and callers typically degrade it to a warning.
var ErrReferenceNotFound = errors.New("reference not found")

// IsNotFound reports whether err means the reference does not exist,
// as opposed to a network or server failure.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrReferenceNotFound)
}

// classifyError maps a GitHub API error to the package error taxonomy:
// a 404 response becomes ErrReferenceNotFound, anything else is surfaced
// as a transport failure with context.
func classifyError(owner, repo, ref string, err error) error {
	var respErr *github.ErrorResponse
	if errors.As(err, &respErr) && respErr.Response != nil && respErr.Response.StatusCode == 404 {
		return fmt.Errorf("%s/%s@%s: %w", owner, repo, ref, ErrReferenceNotFound)
	}
	return fmt.Errorf("failed to fetch ref %s/%s@%s: %w", owner, repo, ref, err)
}
