package workflow

import (
	"strings"
	"testing"
)

const sampleWorkflow = `name: CI
on: push
jobs:
  build:
    runs-on: ubuntu-latest
    steps:
      - uses: actions/checkout@v4
      - uses: actions/setup-go@b4ffde65f46336ab88eb53be808477a3936bae11 # v5.0.0
      - name: Local step
        uses: ./local-action
      - uses: docker://alpine:3.18
      - uses: 'codecov/codecov-action@v3.1.4'
      - uses: "github/codeql-action/upload-sarif@v2"
      - run: echo "uses: not/a-real@ref"
`

func TestExtractReferences(t *testing.T) {
	refs, warnings := ExtractReferences(sampleWorkflow)

	if len(warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", warnings)
	}
	if len(refs) != 4 {
		t.Fatalf("extracted %d references, want 4", len(refs))
	}

	tests := []struct {
		wantName    string
		wantRef     string
		wantComment string
		wantQuote   byte
		wantText    string
	}{
		{
			wantName: "actions/checkout",
			wantRef:  "v4",
			wantText: "actions/checkout@v4",
		},
		{
			wantName:    "actions/setup-go",
			wantRef:     "b4ffde65f46336ab88eb53be808477a3936bae11",
			wantComment: "v5.0.0",
			wantText:    "actions/setup-go@b4ffde65f46336ab88eb53be808477a3936bae11 # v5.0.0",
		},
		{
			wantName:  "codecov/codecov-action",
			wantRef:   "v3.1.4",
			wantQuote: '\'',
			wantText:  "'codecov/codecov-action@v3.1.4'",
		},
		{
			wantName:  "github/codeql-action/upload-sarif",
			wantRef:   "v2",
			wantQuote: '"',
			wantText:  `"github/codeql-action/upload-sarif@v2"`,
		},
	}

	for i, tt := range tests {
		ref := refs[i]
		if ref.Name() != tt.wantName {
			t.Errorf("refs[%d].Name() = %q, want %q", i, ref.Name(), tt.wantName)
		}
		if ref.RawRef != tt.wantRef {
			t.Errorf("refs[%d].RawRef = %q, want %q", i, ref.RawRef, tt.wantRef)
		}
		if ref.VersionComment != tt.wantComment {
			t.Errorf("refs[%d].VersionComment = %q, want %q", i, ref.VersionComment, tt.wantComment)
		}
		if ref.Quote != tt.wantQuote {
			t.Errorf("refs[%d].Quote = %q, want %q", i, ref.Quote, tt.wantQuote)
		}
		if got := ref.Text(sampleWorkflow); got != tt.wantText {
			t.Errorf("refs[%d].Text() = %q, want %q", i, got, tt.wantText)
		}
	}
}

func TestExtractReferences_SpanInvariants(t *testing.T) {
	refs, _ := ExtractReferences(sampleWorkflow)

	for i, ref := range refs {
		if ref.Span.Start < 0 || ref.Span.End > len(sampleWorkflow) || ref.Span.Start >= ref.Span.End {
			t.Errorf("refs[%d] span [%d,%d) out of bounds", i, ref.Span.Start, ref.Span.End)
		}
		for j := i + 1; j < len(refs); j++ {
			if ref.Span.Overlaps(refs[j].Span) {
				t.Errorf("refs[%d] and refs[%d] spans overlap", i, j)
			}
		}
	}

	// Extraction order follows file order.
	for i := 1; i < len(refs); i++ {
		if refs[i].Span.Start <= refs[i-1].Span.Start {
			t.Errorf("refs not in file order: span %d starts before span %d", i, i-1)
		}
	}
}

func TestExtractReferences_SkipsNonResolvable(t *testing.T) {
	text := `steps:
  - uses: ./local-action@v1
  - uses: docker://alpine:3.18
  - uses: .
`
	refs, warnings := ExtractReferences(text)
	if len(refs) != 0 {
		t.Errorf("extracted %d references from skip-only input, want 0", len(refs))
	}
	if len(warnings) != 0 {
		t.Errorf("skip cases produced warnings: %v", warnings)
	}
}

func TestExtractReferences_MalformedValue(t *testing.T) {
	text := `steps:
  - uses: not-a-reference
  - uses: actions/checkout@v4
`
	refs, warnings := ExtractReferences(text)
	if len(refs) != 1 {
		t.Fatalf("extracted %d references, want 1", len(refs))
	}
	if len(warnings) != 1 {
		t.Fatalf("got %d warnings, want 1: %v", len(warnings), warnings)
	}
	if !strings.Contains(warnings[0], "line 2") {
		t.Errorf("warning %q does not name line 2", warnings[0])
	}
}

func TestExtractReferences_CommentedLineIgnored(t *testing.T) {
	text := `steps:
  # - uses: actions/checkout@v4
  - uses: actions/checkout@v4
`
	refs, _ := ExtractReferences(text)
	if len(refs) != 1 {
		t.Fatalf("extracted %d references, want 1", len(refs))
	}
	if refs[0].Line != 3 {
		t.Errorf("refs[0].Line = %d, want 3", refs[0].Line)
	}
}

func TestExtractReferences_UnterminatedQuote(t *testing.T) {
	text := "  - uses: 'actions/checkout@v4\n"
	refs, warnings := ExtractReferences(text)
	if len(refs) != 0 {
		t.Errorf("extracted %d references, want 0", len(refs))
	}
	if len(warnings) != 1 {
		t.Errorf("got %d warnings, want 1", len(warnings))
	}
}
