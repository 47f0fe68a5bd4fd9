package mcp

import (
	"context"
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/SidiqaFekrat/SE333-mcp-testing-agent/internal/tools"
)

// Git tool names.
const (
	ToolGitStatus      = "git_status"
	ToolGitDiff        = "git_diff"
	ToolGitLog         = "git_log"
	ToolGitBranch      = "git_branch"
	ToolGitAddAll      = "git_add_all"
	ToolGitCommit      = "git_commit"
	ToolGitPush        = "git_push"
	ToolGitPullRequest = "git_pull_request"
)

func (s *Server) registerGitTools() error {
	if err := registerGitTool(s, ToolGitStatus,
		"Show the working tree status broken down into staged, unstaged, and conflicted files.",
		s.git.Status); err != nil {
		return err
	}
	if err := registerGitTool(s, ToolGitDiff,
		"Show uncommitted changes, optionally against a specific commit or branch.",
		s.git.Diff); err != nil {
		return err
	}
	if err := registerGitTool(s, ToolGitLog,
		"List recent commits, one line each.",
		s.git.Log); err != nil {
		return err
	}
	if err := registerGitTool(s, ToolGitBranch,
		"List local branches and mark the current one.",
		s.git.Branch); err != nil {
		return err
	}
	if err := registerGitTool(s, ToolGitAddAll,
		"Stage all pending changes, excluding build artifacts.",
		s.git.AddAll); err != nil {
		return err
	}
	if err := registerGitTool(s, ToolGitCommit,
		"Commit staged changes, optionally annotating the message with coverage statistics.",
		s.git.Commit); err != nil {
		return err
	}
	if err := registerGitTool(s, ToolGitPush,
		"Push a branch to a remote. Protected branches are refused in favor of a pull request.",
		s.git.Push); err != nil {
		return err
	}
	return registerGitTool(s, ToolGitPullRequest,
		"Create a pull request from the current branch via the GitHub CLI.",
		s.git.PullRequest)
}

// registerGitTool registers one git tool. Generic over the input type so
// each tool keeps its own JSON schema.
func registerGitTool[In any](s *Server, name, description string, call func(context.Context, In) (tools.Result, error)) error {
	schema, err := jsonschema.For[In](nil)
	if err != nil {
		return fmt.Errorf("failed to create %s input schema: %w", name, err)
	}

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        name,
		Description: description,
		InputSchema: schema,
	}, func(ctx context.Context, req *mcp.CallToolRequest, in In) (*mcp.CallToolResult, any, error) {
		result, err := call(ctx, in)
		if err != nil {
			return nil, nil, fmt.Errorf("system error: %w", err)
		}
		return resultToMCP(result, s.logger), nil, nil
	})

	return nil
}
