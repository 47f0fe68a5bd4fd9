package tools

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/SidiqaFekrat/SE333-mcp-testing-agent/internal/jacoco"
	"github.com/SidiqaFekrat/SE333-mcp-testing-agent/internal/log"
	"github.com/SidiqaFekrat/SE333-mcp-testing-agent/internal/security"
)

// DefaultGitTimeout bounds a single git or gh invocation.
const DefaultGitTimeout = 30 * time.Second

// DefaultGitLogLimit is the number of commits git_log reports when the
// caller does not ask for a specific count.
const DefaultGitLogLimit = 10

// protectedBranches are never pushed to directly; changes to them go
// through a pull request.
var protectedBranches = []string{"main", "master"}

// stageExcludePatterns filters build artifacts and editor droppings out of
// git_add_all. Substring match against the porcelain path.
var stageExcludePatterns = []string{
	"target/",
	"build/",
	".class",
	".jar",
	"__pycache__/",
	".pyc",
	".DS_Store",
	"node_modules/",
}

// GitStatusInput defines input for the git_status tool.
type GitStatusInput struct {
	ProjectPath string `json:"project_path,omitempty" jsonschema_description:"The repository directory (defaults to the working directory)"`
}

// GitDiffInput defines input for the git_diff tool.
type GitDiffInput struct {
	ProjectPath string `json:"project_path,omitempty" jsonschema_description:"The repository directory (defaults to the working directory)"`
	Ref         string `json:"ref,omitempty" jsonschema_description:"Optional commit or branch to diff against"`
}

// GitLogInput defines input for the git_log tool.
type GitLogInput struct {
	ProjectPath string `json:"project_path,omitempty" jsonschema_description:"The repository directory (defaults to the working directory)"`
	MaxCount    int    `json:"max_count,omitempty" jsonschema_description:"Maximum number of commits to list"`
}

// GitBranchInput defines input for the git_branch tool.
type GitBranchInput struct {
	ProjectPath string `json:"project_path,omitempty" jsonschema_description:"The repository directory (defaults to the working directory)"`
}

// GitAddAllInput defines input for the git_add_all tool.
type GitAddAllInput struct {
	ProjectPath string `json:"project_path,omitempty" jsonschema_description:"The repository directory (defaults to the working directory)"`
}

// GitCommitInput defines input for the git_commit tool.
type GitCommitInput struct {
	ProjectPath string          `json:"project_path,omitempty" jsonschema_description:"The repository directory (defaults to the working directory)"`
	Message     string          `json:"message" jsonschema_description:"The commit message"`
	Coverage    *jacoco.Summary `json:"coverage,omitempty" jsonschema_description:"Optional coverage percentages to append to the commit message"`
}

// GitPushInput defines input for the git_push tool.
type GitPushInput struct {
	ProjectPath string `json:"project_path,omitempty" jsonschema_description:"The repository directory (defaults to the working directory)"`
	Remote      string `json:"remote,omitempty" jsonschema_description:"The remote to push to (defaults to origin)"`
	Branch      string `json:"branch,omitempty" jsonschema_description:"The branch to push (defaults to the current branch)"`
}

// GitPullRequestInput defines input for the git_pull_request tool.
type GitPullRequestInput struct {
	ProjectPath string          `json:"project_path,omitempty" jsonschema_description:"The repository directory (defaults to the working directory)"`
	Base        string          `json:"base,omitempty" jsonschema_description:"The base branch of the pull request (defaults to main)"`
	Title       string          `json:"title,omitempty" jsonschema_description:"The pull request title"`
	Body        string          `json:"body,omitempty" jsonschema_description:"The pull request description"`
	Coverage    *jacoco.Summary `json:"coverage,omitempty" jsonschema_description:"Optional coverage percentages to include in the description"`
}

// ChangeEntry describes one changed file in a git status report.
type ChangeEntry struct {
	File   string `json:"file"`
	Status string `json:"status"`
}

// GitTools provides repository inspection plus the commit, push, and pull
// request workflow. History-rewriting subcommands are rejected by the
// command validator before execution.
type GitTools struct {
	runner   *runner
	logLimit int
	logger   log.Logger
}

// GitOptions configures GitTools. A zero LogLimit falls back to
// DefaultGitLogLimit.
type GitOptions struct {
	LogLimit int
}

// NewGitTools creates a GitTools instance.
func NewGitTools(cmdVal *security.Command, pathVal *security.Path, opts GitOptions, logger log.Logger) (*GitTools, error) {
	r, err := newRunner(cmdVal, pathVal, logger)
	if err != nil {
		return nil, err
	}
	logLimit := opts.LogLimit
	if logLimit <= 0 {
		logLimit = DefaultGitLogLimit
	}
	return &GitTools{runner: r, logLimit: logLimit, logger: logger}, nil
}

// Status reports the working tree state broken down into staged changes,
// unstaged changes, and conflicts.
func (g *GitTools) Status(ctx context.Context, input GitStatusInput) (Result, error) {
	dir := defaultDot(input.ProjectPath)

	out, errResult, err := g.git(ctx, dir, "status", "--porcelain")
	if err != nil || errResult != nil {
		return orEmpty(errResult), err
	}

	staged := []ChangeEntry{}
	unstaged := []ChangeEntry{}
	conflicts := []string{}

	for _, line := range strings.Split(strings.TrimRight(out, "\n"), "\n") {
		if len(line) < 4 {
			continue
		}
		status := line[:2]
		file := line[3:]

		if status[0] != ' ' {
			staged = append(staged, ChangeEntry{File: file, Status: string(status[0])})
		}
		if status[1] != ' ' {
			unstaged = append(unstaged, ChangeEntry{File: file, Status: string(status[1])})
		}
		if strings.ContainsRune(status, 'U') {
			conflicts = append(conflicts, file)
		}
	}

	return Result{
		Status: StatusSuccess,
		Data: map[string]any{
			"is_clean":         len(staged) == 0 && len(unstaged) == 0 && len(conflicts) == 0,
			"staged_changes":   staged,
			"unstaged_changes": unstaged,
			"conflicts":        conflicts,
			"total_changes":    len(staged) + len(unstaged),
		},
	}, nil
}

// Diff shows uncommitted changes, optionally against a specific ref.
func (g *GitTools) Diff(ctx context.Context, input GitDiffInput) (Result, error) {
	args := []string{"diff"}
	if input.Ref != "" {
		args = append(args, input.Ref)
	}
	return g.runGitText(ctx, input.ProjectPath, args...)
}

// Log lists recent commits, one line each.
func (g *GitTools) Log(ctx context.Context, input GitLogInput) (Result, error) {
	count := input.MaxCount
	if count <= 0 {
		count = g.logLimit
	}
	return g.runGitText(ctx, input.ProjectPath, "log", "--oneline", "-n", strconv.Itoa(count))
}

// Branch lists local branches and marks the current one.
func (g *GitTools) Branch(ctx context.Context, input GitBranchInput) (Result, error) {
	return g.runGitText(ctx, input.ProjectPath, "branch", "--list")
}

// AddAll stages every pending change except build artifacts and other
// files matching the exclusion patterns.
func (g *GitTools) AddAll(ctx context.Context, input GitAddAllInput) (Result, error) {
	dir := defaultDot(input.ProjectPath)

	out, errResult, err := g.git(ctx, dir, "status", "--porcelain")
	if err != nil || errResult != nil {
		return orEmpty(errResult), err
	}

	filesToAdd := []string{}
	excluded := []string{}

	for _, line := range strings.Split(strings.TrimRight(out, "\n"), "\n") {
		if len(line) < 4 {
			continue
		}
		file := line[3:]

		var skip bool
		for _, pattern := range stageExcludePatterns {
			if strings.Contains(file, pattern) {
				skip = true
				break
			}
		}
		if skip {
			excluded = append(excluded, file)
			continue
		}
		filesToAdd = append(filesToAdd, file)
	}

	if len(filesToAdd) > 0 {
		args := append([]string{"add", "--"}, filesToAdd...)
		if _, errResult, err := g.git(ctx, dir, args...); err != nil || errResult != nil {
			return orEmpty(errResult), err
		}
	}

	g.logger.Info("staged changes", "dir", dir, "staged", len(filesToAdd), "excluded", len(excluded))
	return Result{
		Status: StatusSuccess,
		Data: map[string]any{
			"success":        true,
			"files_staged":   filesToAdd,
			"files_excluded": excluded,
			"total_staged":   len(filesToAdd),
			"total_excluded": len(excluded),
		},
	}, nil
}

// Commit records the staged changes. When coverage percentages are given,
// a coverage report block is appended to the message so the statistics
// travel with the history.
func (g *GitTools) Commit(ctx context.Context, input GitCommitInput) (Result, error) {
	if strings.TrimSpace(input.Message) == "" {
		return errorResult(ErrCodeValidation, "message is required"), nil
	}

	message := input.Message
	if input.Coverage != nil {
		message += coverageBlock(input.Coverage)
	}

	dir := defaultDot(input.ProjectPath)
	res, err := g.runner.run(ctx, dir, "git", DefaultGitTimeout, "commit", "-m", message)
	if err != nil {
		return g.runError(ctx, dir, []string{"commit"}, err)
	}

	if res.ExitCode != 0 {
		reason := strings.TrimSpace(res.Output)
		if reason == "" {
			reason = "No changes to commit"
		}
		return Result{
			Status: StatusSuccess,
			Data:   map[string]any{"success": false, "error": reason},
		}, nil
	}

	return Result{
		Status: StatusSuccess,
		Data: map[string]any{
			"success":       true,
			"message":       "Commit successful",
			"commit_output": strings.TrimSpace(res.Output),
		},
	}, nil
}

// Push pushes a branch to a remote with upstream configuration. Pushes to
// protected branches are refused with a hint to open a pull request.
func (g *GitTools) Push(ctx context.Context, input GitPushInput) (Result, error) {
	dir := defaultDot(input.ProjectPath)
	remote := input.Remote
	if remote == "" {
		remote = "origin"
	}

	branch := input.Branch
	if branch == "" {
		current, errResult, err := g.currentBranch(ctx, dir)
		if err != nil || errResult != nil {
			return orEmpty(errResult), err
		}
		branch = current
	}

	for _, protected := range protectedBranches {
		if branch == protected {
			return Result{
				Status: StatusSuccess,
				Data: map[string]any{
					"warning": fmt.Sprintf("Branch '%s' is protected. Consider creating a pull request instead.", branch),
					"branch":  branch,
				},
			}, nil
		}
	}

	res, err := g.runner.run(ctx, dir, "git", DefaultGitTimeout, "push", "-u", remote, branch)
	if err != nil {
		return g.runError(ctx, dir, []string{"push"}, err)
	}

	if res.ExitCode != 0 {
		reason := strings.TrimSpace(res.Output)
		if reason == "" {
			reason = "Push failed"
		}
		return Result{
			Status: StatusSuccess,
			Data:   map[string]any{"success": false, "error": reason},
		}, nil
	}

	return Result{
		Status: StatusSuccess,
		Data: map[string]any{
			"success":     true,
			"message":     fmt.Sprintf("Successfully pushed '%s' to '%s'", branch, remote),
			"push_output": strings.TrimSpace(res.Output),
		},
	}, nil
}

// PullRequest opens a pull request from the current branch via the gh CLI.
// When gh is unavailable the response carries manual instructions instead
// of failing outright.
func (g *GitTools) PullRequest(ctx context.Context, input GitPullRequestInput) (Result, error) {
	dir := defaultDot(input.ProjectPath)
	base := input.Base
	if base == "" {
		base = "main"
	}

	branch, errResult, err := g.currentBranch(ctx, dir)
	if err != nil || errResult != nil {
		return orEmpty(errResult), err
	}
	if branch == base {
		return errorResult(ErrCodeValidation,
			fmt.Sprintf("Cannot create PR from '%s' to itself", base)), nil
	}

	title := input.Title
	if title == "" {
		title = "Test Coverage Improvement: " + branch
	}
	body := pullRequestBody(input.Body, input.Coverage)

	res, err := g.runner.run(ctx, dir, "gh", DefaultGitTimeout,
		"pr", "create", "--base", base, "--head", branch, "--title", title, "--body", body)
	if err != nil {
		if ctx.Err() != nil {
			return Result{}, err
		}
		if errors.Is(err, errRejected) {
			return errorResult(ErrCodeSecurity, err.Error()), nil
		}
		// gh missing entirely: report the manual path, not a hard error.
		return manualPRResult(branch, base, title, body), nil
	}

	if res.ExitCode != 0 {
		return manualPRResult(branch, base, title, body), nil
	}

	return Result{
		Status: StatusSuccess,
		Data: map[string]any{
			"success":     true,
			"message":     "Pull request created successfully",
			"pr_url":      strings.TrimSpace(res.Output),
			"base_branch": base,
			"head_branch": branch,
		},
	}, nil
}

// currentBranch resolves the checked-out branch name.
func (g *GitTools) currentBranch(ctx context.Context, dir string) (string, *Result, error) {
	out, errResult, err := g.git(ctx, dir, "rev-parse", "--abbrev-ref", "HEAD")
	if err != nil || errResult != nil {
		return "", errResult, err
	}
	return strings.TrimSpace(out), nil, nil
}

// git runs one git subcommand and returns its combined output. A non-zero
// exit or a validation rejection comes back as a business error Result;
// only infrastructure failures (context cancellation) become Go errors.
func (g *GitTools) git(ctx context.Context, dir string, args ...string) (string, *Result, error) {
	g.logger.Debug("git invoked", "dir", dir, "args", args)

	res, err := g.runner.run(ctx, dir, "git", DefaultGitTimeout, args...)
	if err != nil {
		result, err := g.runError(ctx, dir, args, err)
		if err != nil {
			return "", nil, err
		}
		return "", &result, nil
	}

	if res.ExitCode != 0 {
		g.logger.Warn("git command failed", "dir", dir, "args", args, "exit_code", res.ExitCode)
		result := errorResult(ErrCodeExecution,
			fmt.Sprintf("git %s failed with exit code %d: %s", args[0], res.ExitCode, res.Output))
		return "", &result, nil
	}

	return res.Output, nil, nil
}

// runGitText wraps one git subcommand whose raw output is the payload.
func (g *GitTools) runGitText(ctx context.Context, projectPath string, args ...string) (Result, error) {
	dir := defaultDot(projectPath)

	out, errResult, err := g.git(ctx, dir, args...)
	if err != nil || errResult != nil {
		return orEmpty(errResult), err
	}

	return Result{
		Status: StatusSuccess,
		Data: map[string]any{
			"command": "git " + args[0],
			"output":  out,
		},
	}, nil
}

// runError classifies a runner failure.
func (g *GitTools) runError(ctx context.Context, dir string, args []string, err error) (Result, error) {
	if ctx.Err() != nil {
		return Result{}, err
	}
	g.logger.Warn("git invocation failed", "dir", dir, "args", args, "error", err)
	if errors.Is(err, errRejected) {
		return errorResult(ErrCodeSecurity, err.Error()), nil
	}
	return errorResult(ErrCodeExecution, fmt.Sprintf("git invocation failed: %v", err)), nil
}

// orEmpty unwraps an optional error Result.
func orEmpty(r *Result) Result {
	if r == nil {
		return Result{}
	}
	return *r
}

// coverageBlock renders the coverage statistics appended to commit
// messages.
func coverageBlock(c *jacoco.Summary) string {
	return fmt.Sprintf("\n\n[Coverage Report]\n"+
		"Line Coverage: %.2f%%\n"+
		"Branch Coverage: %.2f%%\n"+
		"Method Coverage: %.2f%%\n"+
		"Instruction Coverage: %.2f%%",
		c.LineCoverage, c.BranchCoverage, c.MethodCoverage, c.InstructionCoverage)
}

// pullRequestBody renders the PR description with optional coverage
// metadata and the standard quality footer.
func pullRequestBody(body string, coverage *jacoco.Summary) string {
	if body == "" {
		body = "## Changes\n- Automated test generation and coverage improvements\n"
	}

	if coverage != nil {
		body += "\n## Coverage Improvements\n"
		body += fmt.Sprintf("- **Line Coverage**: %.2f%%\n", coverage.LineCoverage)
		body += fmt.Sprintf("- **Branch Coverage**: %.2f%%\n", coverage.BranchCoverage)
		body += fmt.Sprintf("- **Method Coverage**: %.2f%%\n", coverage.MethodCoverage)
		body += fmt.Sprintf("- **Instruction Coverage**: %.2f%%\n", coverage.InstructionCoverage)
	}

	body += "\n## Test Quality Metrics\n"
	body += "- All tests pass\n"
	body += "- Generated by AI Testing Agent\n"
	body += "- Coverage gaps identified and addressed\n"
	return body
}

// manualPRResult reports the fallback when the gh CLI is unavailable or
// the create call fails.
func manualPRResult(branch, base, title, body string) Result {
	return Result{
		Status: StatusSuccess,
		Data: map[string]any{
			"success": false,
			"note":    "GitHub CLI (gh) not found. Manual PR creation required.",
			"instructions": []string{
				fmt.Sprintf("1. Push your branch: git push -u origin %s", branch),
				fmt.Sprintf("2. Open GitHub and create PR from '%s' to '%s'", branch, base),
				fmt.Sprintf("3. Use this title: %s", title),
				fmt.Sprintf("4. Paste this description: %s", body),
			},
		},
	}
}
