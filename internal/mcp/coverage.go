package mcp

import (
	"context"
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/SidiqaFekrat/SE333-mcp-testing-agent/internal/tools"
)

// Coverage tool names.
const (
	ToolFindJacocoReport = "find_jacoco_report"
	ToolTotalCoverage    = "total_coverage"
	ToolMissingCoverage  = "missing_coverage"
)

func (s *Server) registerCoverageTools() error {
	if err := s.registerLocateReport(); err != nil {
		return err
	}
	if err := s.registerTotalCoverage(); err != nil {
		return err
	}
	return s.registerMissingCoverage()
}

func (s *Server) registerLocateReport() error {
	schema, err := jsonschema.For[tools.LocateReportInput](nil)
	if err != nil {
		return fmt.Errorf("failed to create locate report input schema: %w", err)
	}

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        ToolFindJacocoReport,
		Description: "Locate the JaCoCo XML coverage report under a project directory. Probes the conventional Maven and Gradle output locations.",
		InputSchema: schema,
	}, func(ctx context.Context, req *mcp.CallToolRequest, in tools.LocateReportInput) (*mcp.CallToolResult, any, error) {
		result, err := s.coverage.LocateReport(in)
		if err != nil {
			return nil, nil, fmt.Errorf("system error: %w", err)
		}
		return resultToMCP(result, s.logger), nil, nil
	})

	return nil
}

func (s *Server) registerTotalCoverage() error {
	schema, err := jsonschema.For[tools.CoverageSummaryInput](nil)
	if err != nil {
		return fmt.Errorf("failed to create coverage summary input schema: %w", err)
	}

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        ToolTotalCoverage,
		Description: "Parse the project's JaCoCo report and return total line, branch, method, and instruction coverage percentages.",
		InputSchema: schema,
	}, func(ctx context.Context, req *mcp.CallToolRequest, in tools.CoverageSummaryInput) (*mcp.CallToolResult, any, error) {
		result, err := s.coverage.Summary(in)
		if err != nil {
			return nil, nil, fmt.Errorf("system error: %w", err)
		}
		return resultToMCP(result, s.logger), nil, nil
	})

	return nil
}

func (s *Server) registerMissingCoverage() error {
	schema, err := jsonschema.For[tools.UncoveredLinesInput](nil)
	if err != nil {
		return fmt.Errorf("failed to create uncovered lines input schema: %w", err)
	}

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        ToolMissingCoverage,
		Description: "List lines of a Java source file with zero covered instructions. Matches report entries by file name substring, so an ambiguous name can match more than one file.",
		InputSchema: schema,
	}, func(ctx context.Context, req *mcp.CallToolRequest, in tools.UncoveredLinesInput) (*mcp.CallToolResult, any, error) {
		result, err := s.coverage.UncoveredLines(in)
		if err != nil {
			return nil, nil, fmt.Errorf("system error: %w", err)
		}
		return resultToMCP(result, s.logger), nil, nil
	})

	return nil
}
