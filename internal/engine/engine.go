package engine

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/dgwhited/github-actions-tag-2-sha/internal/resolve"
	"github.com/dgwhited/github-actions-tag-2-sha/internal/workflow"
)

// Storage abstracts file access; the engine never globs paths itself.
type Storage interface {
	ReadFile(path string) (string, error)
	WriteFile(path, text string) error
}

// Resolver resolves one action reference according to the run mode.
type Resolver interface {
	Resolve(owner, repo, ref, comment string, mode resolve.Mode) (resolve.Resolution, error)
}

// Options configure a run.
type Options struct {
	Mode        resolve.Mode
	DryRun      bool     // Compute changes but never write
	Parallelism int      // Max files processed concurrently; <=1 is sequential
	Exclude     []string // Action names (owner/repo[/path]) never rewritten
}

// FileReport is the per-file outcome of a run.
type FileReport struct {
	File        string
	Modified    bool
	DiffEntries []string // "owner/repo: oldRef -> newRef", in file order
	Warnings    []string // Per-occurrence degradations, in file order
	Err         error    // Fatal for this file only (read/write failure)
}

// Engine rewrites action references in workflow files.
type Engine struct {
	resolver Resolver
	storage  Storage
	opts     Options
}

// New creates an Engine. The resolver's cache is shared across all files of
// the run, so concurrent file processing performs at most one remote
// resolution per distinct reference.
func New(resolver Resolver, storage Storage, opts Options) *Engine {
	return &Engine{
		resolver: resolver,
		storage:  storage,
		opts:     opts,
	}
}

// Run processes the given files and returns one report per file, in input
// order. Per-file failures are recorded in the report; only an invalid
// configuration aborts the run.
func (e *Engine) Run(ctx context.Context, paths []string) ([]*FileReport, error) {
	if !e.opts.Mode.Valid() {
		return nil, fmt.Errorf("invalid resolution mode %d", int(e.opts.Mode))
	}

	reports := make([]*FileReport, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	limit := e.opts.Parallelism
	if limit < 1 {
		limit = 1
	}
	g.SetLimit(limit)

	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				reports[i] = &FileReport{File: path, Err: err}
				return nil
			}
			reports[i] = e.ProcessFile(path)
			return nil
		})
	}

	// Workers never return errors; failures live in the reports.
	_ = g.Wait()

	return reports, nil
}

// ProcessFile rewrites a single file and reports the outcome. In dry-run
// the new text is computed but never written.
func (e *Engine) ProcessFile(path string) *FileReport {
	report := &FileReport{File: path}

	text, err := e.storage.ReadFile(path)
	if err != nil {
		report.Err = fmt.Errorf("failed to read %s: %w", path, err)
		return report
	}

	changes, diffs, warnings := e.planText(text)
	report.DiffEntries = diffs
	report.Warnings = warnings
	if len(changes) == 0 {
		return report
	}

	updated, err := workflow.ApplyChanges(text, changes)
	if err != nil {
		report.Err = fmt.Errorf("failed to patch %s: %w", path, err)
		return report
	}
	report.Modified = true

	if e.opts.DryRun {
		return report
	}

	if err := e.storage.WriteFile(path, updated); err != nil {
		report.Err = fmt.Errorf("failed to write %s: %w", path, err)
		return report
	}

	return report
}

// planText extracts references from the text and plans one change per
// occurrence that needs rewriting. Occurrences that fail to resolve are
// left untouched and recorded as warnings; they never block the rest of
// the file.
func (e *Engine) planText(text string) ([]workflow.Change, []string, []string) {
	refs, warnings := workflow.ExtractReferences(text)

	var changes []workflow.Change
	var diffs []string

	for _, ref := range refs {
		if slices.Contains(e.opts.Exclude, ref.Name()) {
			logrus.Debugf("skipping excluded action %s", ref.Name())
			continue
		}

		res, err := e.resolver.Resolve(ref.Owner, ref.Repo, ref.RawRef, ref.VersionComment, e.opts.Mode)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("%s@%s: %v", ref.Name(), ref.RawRef, err))
			continue
		}
		if res.Warning != "" {
			warnings = append(warnings, fmt.Sprintf("%s@%s: %s", ref.Name(), ref.RawRef, res.Warning))
		}

		if !changed(ref, res, e.opts.Mode) {
			logrus.Debugf("%s@%s already current", ref.Name(), ref.RawRef)
			continue
		}

		changes = append(changes, workflow.Change{
			Span:        ref.Span,
			Replacement: replacementText(ref, res),
		})
		diffs = append(diffs, fmt.Sprintf("%s: %s -> %s", ref.Name(), ref.RawRef, res.SHA))
	}

	return changes, diffs, warnings
}

// changed decides whether an occurrence needs rewriting. An occurrence is
// current when its SHA and version label both match the resolution; in
// latest-release mode a matching SHA alone suffices, so label-only
// differences do not churn files that are already up to date.
func changed(ref *workflow.ActionReference, res resolve.Resolution, mode resolve.Mode) bool {
	if !strings.EqualFold(ref.RawRef, res.SHA) {
		return true
	}
	if mode == resolve.ModeLatestRelease {
		return false
	}
	return ref.VersionComment != res.Display
}

// replacementText formats the rewritten expression, preserving the
// original quoting character and exactly one space before the comment.
func replacementText(ref *workflow.ActionReference, res resolve.Resolution) string {
	value := ref.Name() + "@" + res.SHA
	if ref.Quote != 0 {
		value = string(ref.Quote) + value + string(ref.Quote)
	}
	return value + " # " + res.Display
}
