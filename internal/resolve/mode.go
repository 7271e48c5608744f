package resolve

import "fmt"

// Mode selects the resolution strategy for a whole run.
type Mode int

const (
	// ModePinExact pins the reference exactly as written.
	ModePinExact Mode = iota
	// ModeLatestMatching treats the reference as a version prefix pattern
	// and pins the highest matching release tag.
	ModeLatestMatching
	// ModeLatestRelease ignores the current reference and pins the highest
	// release tag of the repository.
	ModeLatestRelease
	// ModeBranchToRelease converts default-branch references (main/master)
	// to the latest release; anything else is pinned exactly.
	ModeBranchToRelease
)

// Valid reports whether m is one of the defined modes.
func (m Mode) Valid() bool {
	return m >= ModePinExact && m <= ModeBranchToRelease
}

// String implements fmt.Stringer for Mode.
func (m Mode) String() string {
	switch m {
	case ModePinExact:
		return "pin-exact"
	case ModeLatestMatching:
		return "update-to-latest-matching"
	case ModeLatestRelease:
		return "update-to-latest-release"
	case ModeBranchToRelease:
		return "convert-branch-to-release"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}
