package workflow

import (
	"fmt"
	"sort"
)

// Change is a single planned text replacement.
type Change struct {
	Span        Span
	Replacement string
}

// ApplyChanges replaces the given spans in the original text, leaving every
// other byte untouched. Spans are applied in descending offset order so
// earlier replacements never invalidate later offsets. Overlapping or
// out-of-bounds spans are rejected.
func ApplyChanges(text string, changes []Change) (string, error) {
	if len(changes) == 0 {
		return text, nil
	}

	sorted := make([]Change, len(changes))
	copy(sorted, changes)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Span.Start < sorted[j].Span.Start
	})

	for i, ch := range sorted {
		if ch.Span.Start < 0 || ch.Span.End > len(text) || ch.Span.Start > ch.Span.End {
			return "", fmt.Errorf("change span [%d,%d) out of bounds for text of %d bytes",
				ch.Span.Start, ch.Span.End, len(text))
		}
		if i > 0 && sorted[i-1].Span.Overlaps(ch.Span) {
			return "", fmt.Errorf("overlapping change spans [%d,%d) and [%d,%d)",
				sorted[i-1].Span.Start, sorted[i-1].Span.End, ch.Span.Start, ch.Span.End)
		}
	}

	// Walk descending so unprocessed offsets stay valid.
	result := text
	for i := len(sorted) - 1; i >= 0; i-- {
		ch := sorted[i]
		result = result[:ch.Span.Start] + ch.Replacement + result[ch.Span.End:]
	}

	return result, nil
}
