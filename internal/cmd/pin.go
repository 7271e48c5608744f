package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/dgwhited/github-actions-tag-2-sha/internal/actions"
	"github.com/dgwhited/github-actions-tag-2-sha/internal/config"
	"github.com/dgwhited/github-actions-tag-2-sha/internal/engine"
	"github.com/dgwhited/github-actions-tag-2-sha/internal/gitutil"
	"github.com/dgwhited/github-actions-tag-2-sha/internal/osutil"
	"github.com/dgwhited/github-actions-tag-2-sha/internal/resolve"
)

var (
	configFlag string
	tokenFlag  string
	dryRunFlag bool

	latestMatchingFlag bool
	updateToLatestFlag bool
	convertMainFlag    bool

	branchFlag    string
	commitMsgFlag string
	remoteFlag    string
	pushFlag      bool
	noGitFlag     bool
)

var pinCmd = &cobra.Command{
	Use:   "pin [files...]",
	Short: "Rewrite action references in workflow files",
	Long: `Rewrite GitHub Actions references in the given workflow files.

By default every tag or branch reference is pinned to the commit SHA it
currently points to, with the original reference kept as a trailing
comment. Already-pinned references are left untouched, so repeated runs
produce no further changes.

Mode flags change the resolution strategy:
  --latest-matching          treat references like "v4" as version patterns
                             and pin the highest matching release
  --update-to-latest         advance every reference to the latest release
  --convert-main-to-release  replace main/master references with the
                             latest release

Unless --dry-run or --no-git is given, modified files are committed to a
dedicated branch; --push publishes that branch to the remote.`,
	Args:         cobra.MinimumNArgs(1),
	RunE:         runPin,
	SilenceUsage: true,
}

func init() {
	pinCmd.Flags().StringVarP(&configFlag, "config", "c", "",
		"Path to config file (default: "+config.DefaultConfigFileName+")")
	pinCmd.Flags().StringVar(&tokenFlag, "token", "",
		"GitHub token for API authentication (default: $"+actions.GitHubTokenEnvVar+")")
	pinCmd.Flags().BoolVar(&dryRunFlag, "dry-run", false,
		"Print changes without modifying files")

	pinCmd.Flags().BoolVar(&latestMatchingFlag, "latest-matching", false,
		"Pin version patterns to the highest matching release tag")
	pinCmd.Flags().BoolVar(&updateToLatestFlag, "update-to-latest", false,
		"Update all actions to their latest releases")
	pinCmd.Flags().BoolVar(&convertMainFlag, "convert-main-to-release", false,
		"Convert main/master branch references to the latest release")

	pinCmd.Flags().StringVar(&branchFlag, "branch", "",
		"Branch to create for changes (default: <branch-prefix>-<timestamp>)")
	pinCmd.Flags().StringVar(&commitMsgFlag, "commit-msg", "",
		"Commit message for changes")
	pinCmd.Flags().StringVar(&remoteFlag, "remote", "",
		"Remote name to push to")
	pinCmd.Flags().BoolVar(&pushFlag, "push", false,
		"Push changes to the remote repository")
	pinCmd.Flags().BoolVar(&noGitFlag, "no-git", false,
		"Skip all git operations")
}

func runPin(_ *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig(configFlag)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	mode, err := selectMode()
	if err != nil {
		return err
	}
	logrus.Debugf("resolution mode: %s", mode)

	token := tokenFlag
	if token == "" {
		token = os.Getenv(actions.GitHubTokenEnvVar)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.GetTimeout())
	defer cancel()

	client := actions.NewClientWithContext(ctx, token)
	eng := engine.New(resolve.New(client), osutil.DiskStorage{}, engine.Options{
		Mode:        mode,
		DryRun:      dryRunFlag,
		Parallelism: cfg.GetParallelism(),
		Exclude:     cfg.Exclude,
	})

	if dryRunFlag {
		fmt.Println("Running in dry-run mode. No files will be changed.")
	}

	reports, err := eng.Run(ctx, args)
	if err != nil {
		return err
	}

	changedFiles, issues := printReports(reports)

	stats := client.GetCacheStats()
	logrus.Debugf("API cache: %d hits, %d misses", stats.Hits, stats.Misses)

	if len(changedFiles) > 0 && !dryRunFlag && !noGitFlag {
		if err := commitChanges(cfg, token, changedFiles); err != nil {
			printError("%v", err)
			issues++
		}
	}

	if issues > 0 {
		os.Exit(cfg.GetIssuesExitCode())
	}
	return nil
}

// selectMode maps the mutually exclusive mode flags onto the resolver mode.
func selectMode() (resolve.Mode, error) {
	var selected []resolve.Mode
	if latestMatchingFlag {
		selected = append(selected, resolve.ModeLatestMatching)
	}
	if updateToLatestFlag {
		selected = append(selected, resolve.ModeLatestRelease)
	}
	if convertMainFlag {
		selected = append(selected, resolve.ModeBranchToRelease)
	}

	switch len(selected) {
	case 0:
		return resolve.ModePinExact, nil
	case 1:
		return selected[0], nil
	default:
		return 0, errors.New("--latest-matching, --update-to-latest and --convert-main-to-release are mutually exclusive")
	}
}

// printReports prints per-file results and returns the modified files and
// the total issue count (warnings plus file-level failures).
func printReports(reports []*engine.FileReport) (changedFiles []string, issues int) {
	totalChanges := 0

	for _, report := range reports {
		if report.Err != nil {
			printError("%s: %v", report.File, report.Err)
			issues++
			continue
		}

		for _, entry := range report.DiffEntries {
			fmt.Printf("%s: %s\n", report.File, entry)
		}
		for _, warning := range report.Warnings {
			logrus.Warnf("%s: %s", report.File, warning)
			issues++
		}

		if report.Modified {
			changedFiles = append(changedFiles, report.File)
			totalChanges += len(report.DiffEntries)
		}
	}

	verb := "Made"
	if dryRunFlag {
		verb = "Would make"
	}
	fmt.Printf("\n%s %d change(s) across %d file(s), %d issue(s).\n",
		verb, totalChanges, len(reports), issues)

	return changedFiles, issues
}

// commitChanges creates a branch, commits the modified files, and
// optionally pushes the branch to the configured remote.
func commitChanges(cfg *config.Config, token string, files []string) error {
	gitCfg := cfg.GetGit()

	branch := branchFlag
	if branch == "" {
		branch = fmt.Sprintf("%s-%s", gitCfg.BranchPrefix, time.Now().Format("20060102-150405"))
	}
	message := commitMsgFlag
	if message == "" {
		message = gitCfg.CommitMessage
	}
	remote := remoteFlag
	if remote == "" {
		remote = gitCfg.Remote
	}

	repo, err := gitutil.Open(".")
	if err != nil {
		return err
	}

	if err := repo.EnsureBranch(branch); err != nil {
		return err
	}

	hash, err := repo.CommitFiles(files, message)
	if err != nil {
		return err
	}
	fmt.Printf("Committed %d file(s) to branch %s (%s).\n", len(files), branch, hash[:7])

	if !pushFlag {
		fmt.Println("Use --push to push the branch to the remote.")
		return nil
	}

	if err := repo.Push(remote, branch, token); err != nil {
		return err
	}
	fmt.Printf("Changes pushed to %s/%s.\n", remote, branch)
	return nil
}
