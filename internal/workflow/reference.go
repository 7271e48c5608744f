package workflow

// Span is a half-open [Start, End) byte range within a file's text.
type Span struct {
	Start int
	End   int
}

// Overlaps reports whether two spans share any bytes.
func (s Span) Overlaps(o Span) bool {
	return s.Start < o.End && o.Start < s.End
}

// ActionReference is one action occurrence found in a workflow file.
// Span covers the full value expression, from the opening quote (if any)
// through the end of the trailing version comment (if any), and reproduces
// the matched substring byte-for-byte.
type ActionReference struct {
	Owner          string
	Repo           string
	Path           string // Subdirectory for composite actions
	RawRef         string // Reference exactly as written: tag, branch, or commit SHA
	VersionComment string // Trailing "# ..." label from a prior pinning run, if any
	Quote          byte   // Quote character around the value, 0 if unquoted
	Line           int    // 1-based line number
	Span           Span
}

// Name returns the action identity without the ref.
func (r *ActionReference) Name() string {
	if r.Path != "" {
		return r.Owner + "/" + r.Repo + "/" + r.Path
	}
	return r.Owner + "/" + r.Repo
}

// Text returns the exact substring of src covered by the reference span.
func (r *ActionReference) Text(src string) string {
	return src[r.Span.Start:r.Span.End]
}
