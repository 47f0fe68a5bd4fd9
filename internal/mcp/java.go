package mcp

import (
	"context"
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/SidiqaFekrat/SE333-mcp-testing-agent/internal/tools"
)

// Java tool names.
const (
	ToolAnalyzeJavaCode      = "analyze_java_code"
	ToolGenerateTestTemplate = "generate_test_template"
	ToolGenerateSpecTests    = "generate_specification_tests"
	ToolCodeReview           = "code_review"
)

func (s *Server) registerJavaTools() error {
	if err := registerJavaTool(s, ToolAnalyzeJavaCode,
		"Extract method declarations from a Java source file with line numbers, return types, and signatures. Regex based heuristic, not a full parser; constructors and some generic declarations are skipped.",
		s.java.AnalyzeSource); err != nil {
		return err
	}
	if err := registerJavaTool(s, ToolGenerateTestTemplate,
		"Generate a JUnit 5 test class skeleton with one placeholder test per method.",
		s.java.TestTemplate); err != nil {
		return err
	}
	if err := registerJavaTool(s, ToolGenerateSpecTests,
		"Generate specification-based JUnit 5 test stubs covering boundary values, equivalence classes, decision tables, and contracts.",
		s.java.SpecificationTests); err != nil {
		return err
	}
	return registerJavaTool(s, ToolCodeReview,
		"Review a Java source file for code smells, security risks, and style issues.",
		s.java.CodeReview)
}

// registerJavaTool registers one source analysis tool. The handlers do
// pure file work, so the call signature carries no context.
func registerJavaTool[In any](s *Server, name, description string, call func(In) (tools.Result, error)) error {
	schema, err := jsonschema.For[In](nil)
	if err != nil {
		return fmt.Errorf("failed to create %s input schema: %w", name, err)
	}

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        name,
		Description: description,
		InputSchema: schema,
	}, func(ctx context.Context, req *mcp.CallToolRequest, in In) (*mcp.CallToolResult, any, error) {
		result, err := call(in)
		if err != nil {
			return nil, nil, fmt.Errorf("system error: %w", err)
		}
		return resultToMCP(result, s.logger), nil, nil
	})

	return nil
}
