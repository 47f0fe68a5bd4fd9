package tools

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SidiqaFekrat/SE333-mcp-testing-agent/internal/jacoco"
	"github.com/SidiqaFekrat/SE333-mcp-testing-agent/internal/log"
	"github.com/SidiqaFekrat/SE333-mcp-testing-agent/internal/security"
)

// DefaultMavenTimeout bounds a single test run.
const DefaultMavenTimeout = 5 * time.Minute

// RunMavenTestsInput defines input for the run_maven_tests tool.
type RunMavenTestsInput struct {
	ProjectPath string `json:"project_path,omitempty" jsonschema_description:"The Maven project root directory (defaults to the working directory)"`
}

// BuildTools runs the Maven test and coverage lifecycle.
type BuildTools struct {
	runner  *runner
	command string
	timeout time.Duration
	logger  log.Logger
}

// BuildOptions configures BuildTools. Zero values fall back to the mvn
// executable and the default timeout.
type BuildOptions struct {
	MavenCommand string
	Timeout      time.Duration
}

// NewBuildTools creates a BuildTools instance.
func NewBuildTools(cmdVal *security.Command, pathVal *security.Path, opts BuildOptions, logger log.Logger) (*BuildTools, error) {
	r, err := newRunner(cmdVal, pathVal, logger)
	if err != nil {
		return nil, err
	}
	command := opts.MavenCommand
	if command == "" {
		command = "mvn"
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultMavenTimeout
	}
	return &BuildTools{runner: r, command: command, timeout: timeout, logger: logger}, nil
}

// RunTests executes `mvn clean test jacoco:report` inside the project
// directory and reports whether the build passed, together with the
// location of the regenerated coverage report.
func (b *BuildTools) RunTests(ctx context.Context, input RunMavenTestsInput) (Result, error) {
	projectPath := defaultDot(input.ProjectPath)
	b.logger.Info("RunTests called", "project_path", projectPath, "command", b.command)

	res, err := b.runner.run(ctx, projectPath, b.command, b.timeout, "clean", "test", "jacoco:report")
	if err != nil {
		if ctx.Err() != nil {
			return Result{}, err
		}
		b.logger.Warn("maven invocation failed", "project_path", projectPath, "error", err)
		if errors.Is(err, errRejected) {
			return errorResult(ErrCodeSecurity, err.Error()), nil
		}
		return errorResult(ErrCodeExecution, fmt.Sprintf("maven invocation failed: %v", err)), nil
	}

	success := res.ExitCode == 0
	message := "Tests executed successfully"
	if !success {
		message = "Tests failed"
		b.logger.Warn("maven tests failed", "project_path", projectPath, "exit_code", res.ExitCode)
	}

	data := map[string]any{
		"success": success,
		"message": message,
	}
	if reportPath, found := jacoco.Locate(projectPath); found {
		data["jacoco_path"] = reportPath
	} else {
		data["jacoco_path"] = jacoco.NotFoundMessage
	}

	b.logger.Info("RunTests finished", "project_path", projectPath, "success", success)
	return Result{Status: StatusSuccess, Data: data}, nil
}
