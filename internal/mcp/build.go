package mcp

import (
	"context"
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/SidiqaFekrat/SE333-mcp-testing-agent/internal/tools"
)

// ToolRunMavenTests runs the Maven test and coverage lifecycle.
const ToolRunMavenTests = "run_maven_tests"

func (s *Server) registerBuildTools() error {
	schema, err := jsonschema.For[tools.RunMavenTestsInput](nil)
	if err != nil {
		return fmt.Errorf("failed to create maven input schema: %w", err)
	}

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        ToolRunMavenTests,
		Description: "Run 'mvn clean test jacoco:report' in the project directory and report whether the build passed together with the regenerated coverage report path.",
		InputSchema: schema,
	}, func(ctx context.Context, req *mcp.CallToolRequest, in tools.RunMavenTestsInput) (*mcp.CallToolResult, any, error) {
		result, err := s.build.RunTests(ctx, in)
		if err != nil {
			return nil, nil, fmt.Errorf("system error: %w", err)
		}
		return resultToMCP(result, s.logger), nil, nil
	})

	return nil
}
