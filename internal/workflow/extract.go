package workflow

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/dgwhited/github-actions-tag-2-sha/internal/actions"
)

// usesLineRe matches a "uses:" step key with its leading indentation and
// optional list dash. The value and any trailing comment are parsed
// separately to capture exact byte offsets.
var usesLineRe = regexp.MustCompile(`^(\s*(?:-\s+)?uses:\s*)(\S.*)$`)

// ExtractReferences scans raw workflow text line by line for action
// references of the shape owner/name@ref, optionally quoted and optionally
// followed by a "#" version comment. Local path actions ("./...") and
// Docker image references ("docker://...") are skipped silently. A uses
// value that is neither a skip case nor a parseable reference yields a
// warning. The source text is never modified or reformatted.
func ExtractReferences(text string) ([]*ActionReference, []string) {
	var refs []*ActionReference
	var warnings []string

	offset := 0
	lineNo := 0
	for len(text) > 0 {
		lineNo++
		line, rest, found := strings.Cut(text, "\n")

		if ref, warning := extractFromLine(strings.TrimSuffix(line, "\r"), offset, lineNo); ref != nil {
			refs = append(refs, ref)
		} else if warning != "" {
			warnings = append(warnings, warning)
		}

		if !found {
			break
		}
		offset += len(line) + 1
		text = rest
	}

	return refs, warnings
}

// extractFromLine parses a single line, returning a reference or a warning.
// Both are nil/empty for lines without a uses key and for skip cases.
func extractFromLine(line string, lineOffset, lineNo int) (*ActionReference, string) {
	m := usesLineRe.FindStringSubmatch(line)
	if m == nil {
		return nil, ""
	}

	valueStart := lineOffset + len(m[1])
	value, comment, end, quote, ok := splitValue(m[2], valueStart)
	if !ok {
		return nil, fmt.Sprintf("line %d: malformed uses value: %s", lineNo, strings.TrimSpace(m[2]))
	}

	if actions.IsLocalPath(value) || actions.IsDockerRef(value) {
		return nil, ""
	}

	spec, err := actions.ParseRef(value)
	if err != nil {
		return nil, fmt.Sprintf("line %d: malformed uses value %q", lineNo, value)
	}

	return &ActionReference{
		Owner:          spec.Owner,
		Repo:           spec.Repo,
		Path:           spec.Path,
		RawRef:         spec.Ref,
		VersionComment: comment,
		Quote:          quote,
		Line:           lineNo,
		Span:           Span{Start: valueStart, End: end},
	}, ""
}

// splitValue splits the raw remainder of a uses line into the reference
// value and the trailing comment text. It returns the comment without the
// "#" marker, the absolute end offset of the span (end of the comment, or
// end of the value when no comment is present), and the quote character.
func splitValue(raw string, start int) (value, comment string, end int, quote byte, ok bool) {
	if raw == "" {
		return "", "", 0, 0, false
	}

	consumed := 0
	if raw[0] == '\'' || raw[0] == '"' {
		quote = raw[0]
		closing := strings.IndexByte(raw[1:], quote)
		if closing == -1 {
			return "", "", 0, 0, false
		}
		value = raw[1 : closing+1]
		consumed = closing + 2
	} else {
		consumed = len(raw)
		if i := strings.IndexAny(raw, " \t#"); i != -1 {
			consumed = i
		}
		value = raw[:consumed]
	}
	if value == "" {
		return "", "", 0, 0, false
	}

	end = start + consumed

	// Anything after the value other than whitespace or a comment makes
	// the occurrence malformed.
	tail := raw[consumed:]
	trimmed := strings.TrimLeft(tail, " \t")
	if trimmed == "" {
		return value, "", end, quote, true
	}
	if trimmed[0] != '#' {
		return "", "", 0, 0, false
	}

	comment = strings.TrimSpace(strings.TrimPrefix(trimmed, "#"))

	// Span runs through the last non-whitespace byte of the comment.
	trailing := len(tail) - len(strings.TrimRight(tail, " \t"))
	end = start + consumed + len(tail) - trailing
	return value, comment, end, quote, true
}
