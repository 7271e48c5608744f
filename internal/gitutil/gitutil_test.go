package gitutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// initTestRepo creates a repository with one initial commit so HEAD exists.
func initTestRepo(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	repo, err := git.PlainInit(dir, false)
	if err != nil {
		t.Fatalf("PlainInit() error = %v", err)
	}

	cfg, err := repo.Config()
	if err != nil {
		t.Fatalf("Config() error = %v", err)
	}
	cfg.User.Name = "test"
	cfg.User.Email = "test@example.com"
	if err := repo.SetConfig(cfg); err != nil {
		t.Fatalf("SetConfig() error = %v", err)
	}

	if err := os.WriteFile(filepath.Join(dir, "README.md"), []byte("init\n"), 0600); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}
	wt, err := repo.Worktree()
	if err != nil {
		t.Fatalf("Worktree() error = %v", err)
	}
	if _, err := wt.Add("README.md"); err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if _, err := wt.Commit("initial", &git.CommitOptions{}); err != nil {
		t.Fatalf("Commit() error = %v", err)
	}

	return dir
}

func TestOpen_DetectsParentRepo(t *testing.T) {
	dir := initTestRepo(t)
	nested := filepath.Join(dir, ".github", "workflows")
	if err := os.MkdirAll(nested, 0750); err != nil {
		t.Fatalf("MkdirAll() error = %v", err)
	}

	repo, err := Open(nested)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if got := repo.Root(); got != dir {
		t.Errorf("Root() = %q, want %q", got, dir)
	}
}

func TestOpen_NotARepository(t *testing.T) {
	if _, err := Open(t.TempDir()); err == nil {
		t.Error("Open() = nil error outside a repository")
	}
}

func TestEnsureBranch_CreateAndSwitch(t *testing.T) {
	dir := initTestRepo(t)
	repo, err := Open(dir)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}

	if err := repo.EnsureBranch("tag-to-sha-test"); err != nil {
		t.Fatalf("EnsureBranch() error = %v", err)
	}

	head, err := repo.repo.Head()
	if err != nil {
		t.Fatalf("Head() error = %v", err)
	}
	want := plumbing.NewBranchReferenceName("tag-to-sha-test")
	if head.Name() != want {
		t.Errorf("HEAD = %s, want %s", head.Name(), want)
	}

	// Switching to an existing branch must not fail.
	if err := repo.EnsureBranch("tag-to-sha-test"); err != nil {
		t.Errorf("EnsureBranch() on existing branch error = %v", err)
	}
}

func TestCommitFiles(t *testing.T) {
	dir := initTestRepo(t)
	repo, err := Open(dir)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}

	workflow := filepath.Join(dir, "ci.yml")
	if err := os.WriteFile(workflow, []byte("jobs: {}\n"), 0600); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}

	hash, err := repo.CommitFiles([]string{workflow}, "pin actions")
	if err != nil {
		t.Fatalf("CommitFiles() error = %v", err)
	}
	if len(hash) != 40 {
		t.Errorf("CommitFiles() hash = %q, want 40-char hex", hash)
	}

	head, err := repo.repo.Head()
	if err != nil {
		t.Fatalf("Head() error = %v", err)
	}
	commit, err := repo.repo.CommitObject(head.Hash())
	if err != nil {
		t.Fatalf("CommitObject() error = %v", err)
	}
	if commit.Message != "pin actions" {
		t.Errorf("commit message = %q, want %q", commit.Message, "pin actions")
	}
}

func TestCommitFiles_OutsideRepository(t *testing.T) {
	dir := initTestRepo(t)
	repo, err := Open(dir)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}

	outside := filepath.Join(t.TempDir(), "other.yml")
	if err := os.WriteFile(outside, []byte("x\n"), 0600); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}

	if _, err := repo.CommitFiles([]string{outside}, "msg"); err == nil {
		t.Error("CommitFiles() = nil error for file outside the repository")
	}
}
