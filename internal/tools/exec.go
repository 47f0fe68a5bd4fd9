package tools

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"time"

	"github.com/SidiqaFekrat/SE333-mcp-testing-agent/internal/log"
	"github.com/SidiqaFekrat/SE333-mcp-testing-agent/internal/security"
)

// execResult captures the outcome of one validated command invocation.
type execResult struct {
	Output   string
	ExitCode int
}

// errRejected marks invocations refused by validation before execution.
var errRejected = errors.New("command rejected")

// maxCommandLength caps the combined length of the command name and all
// arguments. Distinct from security.MaxCommandArgLength, which caps each
// argument individually.
const maxCommandLength = 10000

// runner executes whitelisted external commands with validation and
// timeout handling shared by the Maven and git toolsets.
type runner struct {
	cmdVal  *security.Command
	pathVal *security.Path
	logger  log.Logger
}

func newRunner(cmdVal *security.Command, pathVal *security.Path, logger log.Logger) (*runner, error) {
	if cmdVal == nil {
		return nil, fmt.Errorf("command validator is required")
	}
	if pathVal == nil {
		return nil, fmt.Errorf("path validator is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	return &runner{cmdVal: cmdVal, pathVal: pathVal, logger: logger}, nil
}

// run validates and executes a command inside dir, combining stdout and
// stderr. A non-zero exit is reported through execResult, not an error;
// validation failures and context cancellation are returned as errors.
func (r *runner) run(ctx context.Context, dir, command string, timeout time.Duration, args ...string) (execResult, error) {
	totalLen := len(command)
	for _, a := range args {
		totalLen += len(a)
	}
	if totalLen > maxCommandLength {
		return execResult{}, fmt.Errorf("%w: command + args length %d exceeds maximum %d bytes",
			errRejected, totalLen, maxCommandLength)
	}

	// Command security validation (prevent command injection attacks CWE-78)
	if err := r.cmdVal.Validate(command, args); err != nil {
		r.logger.Warn("dangerous command rejected", "command", command, "args", args, "error", err)
		return execResult{}, fmt.Errorf("%w: %v", errRejected, err)
	}

	validDir, err := r.pathVal.Validate(dir)
	if err != nil {
		return execResult{}, fmt.Errorf("%w: working directory: %v", errRejected, err)
	}

	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, command, args...) // #nosec G204 -- validated by cmdVal above
	cmd.Dir = validDir
	output, err := cmd.CombinedOutput()
	if err != nil {
		if ctx.Err() != nil {
			return execResult{}, fmt.Errorf("command execution canceled: %w", ctx.Err())
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return execResult{Output: string(output), ExitCode: exitErr.ExitCode()}, nil
		}
		return execResult{}, fmt.Errorf("starting %s: %w", command, err)
	}

	return execResult{Output: string(output), ExitCode: 0}, nil
}
