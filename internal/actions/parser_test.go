package actions

import "testing"

func TestParseRef(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		wantOwner   string
		wantRepo    string
		wantPath    string
		wantRef     string
		expectError bool
	}{
		{
			name:      "standard action",
			input:     "actions/checkout@v4",
			wantOwner: "actions",
			wantRepo:  "checkout",
			wantPath:  "",
			wantRef:   "v4",
		},
		{
			name:      "action with commit SHA",
			input:     "actions/setup-go@b4ffde65f46336ab88eb53be808477a3936bae11",
			wantOwner: "actions",
			wantRepo:  "setup-go",
			wantPath:  "",
			wantRef:   "b4ffde65f46336ab88eb53be808477a3936bae11",
		},
		{
			name:      "action with full version",
			input:     "codecov/codecov-action@v3.1.4",
			wantOwner: "codecov",
			wantRepo:  "codecov-action",
			wantPath:  "",
			wantRef:   "v3.1.4",
		},
		{
			name:      "composite action with path",
			input:     "github/codeql-action/upload-sarif@v2",
			wantOwner: "github",
			wantRepo:  "codeql-action",
			wantPath:  "upload-sarif",
			wantRef:   "v2",
		},
		{
			name:      "branch reference",
			input:     "someorg/sometool@main",
			wantOwner: "someorg",
			wantRepo:  "sometool",
			wantRef:   "main",
		},
		{
			name:        "missing @",
			input:       "actions/checkout",
			expectError: true,
		},
		{
			name:        "missing owner",
			input:       "checkout@v4",
			expectError: true,
		},
		{
			name:        "empty ref",
			input:       "actions/checkout@",
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec, err := ParseRef(tt.input)
			if tt.expectError {
				if err == nil {
					t.Fatalf("ParseRef(%q) expected error, got nil", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseRef(%q) error: %v", tt.input, err)
			}
			if spec.Owner != tt.wantOwner {
				t.Errorf("Owner = %q, want %q", spec.Owner, tt.wantOwner)
			}
			if spec.Repo != tt.wantRepo {
				t.Errorf("Repo = %q, want %q", spec.Repo, tt.wantRepo)
			}
			if spec.Path != tt.wantPath {
				t.Errorf("Path = %q, want %q", spec.Path, tt.wantPath)
			}
			if spec.Ref != tt.wantRef {
				t.Errorf("Ref = %q, want %q", spec.Ref, tt.wantRef)
			}
		})
	}
}

func TestRefSpec_Name(t *testing.T) {
	spec := &RefSpec{Owner: "github", Repo: "codeql-action", Path: "upload-sarif"}
	if got := spec.Name(); got != "github/codeql-action/upload-sarif" {
		t.Errorf("Name() = %q, want %q", got, "github/codeql-action/upload-sarif")
	}

	spec = &RefSpec{Owner: "actions", Repo: "checkout"}
	if got := spec.Name(); got != "actions/checkout" {
		t.Errorf("Name() = %q, want %q", got, "actions/checkout")
	}
}

func TestIsCommitSHA(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"b4ffde65f46336ab88eb53be808477a3936bae11", true},
		{"B4FFDE65F46336AB88EB53BE808477A3936BAE11", true},
		{"v4", false},
		{"main", false},
		{"b4ffde65f46336ab88eb53be808477a3936bae1", false},   // 39 chars
		{"b4ffde65f46336ab88eb53be808477a3936bae111", false}, // 41 chars
		{"g4ffde65f46336ab88eb53be808477a3936bae11", false},  // non-hex
	}

	for _, tt := range tests {
		if got := IsCommitSHA(tt.input); got != tt.want {
			t.Errorf("IsCommitSHA(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestSkipPredicates(t *testing.T) {
	if !IsLocalPath("./local-action") {
		t.Error("IsLocalPath(./local-action) = false, want true")
	}
	if !IsLocalPath(".") {
		t.Error("IsLocalPath(.) = false, want true")
	}
	if IsLocalPath("actions/checkout@v4") {
		t.Error("IsLocalPath(actions/checkout@v4) = true, want false")
	}

	if !IsDockerRef("docker://alpine:3.18") {
		t.Error("IsDockerRef(docker://alpine:3.18) = false, want true")
	}
	if IsDockerRef("actions/checkout@v4") {
		t.Error("IsDockerRef(actions/checkout@v4) = true, want false")
	}

	if !IsDefaultBranch("main") || !IsDefaultBranch("Master") {
		t.Error("IsDefaultBranch should accept main and master case-insensitively")
	}
	if IsDefaultBranch("develop") {
		t.Error("IsDefaultBranch(develop) = true, want false")
	}
}
