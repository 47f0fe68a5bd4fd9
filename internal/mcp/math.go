package mcp

import (
	"context"
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/SidiqaFekrat/SE333-mcp-testing-agent/internal/tools"
)

// Arithmetic tool names.
const (
	ToolAdd      = "add"
	ToolSubtract = "subtract"
	ToolMultiply = "multiply"
	ToolDivide   = "divide"
)

func (s *Server) registerMathTools() error {
	schema, err := jsonschema.For[tools.ArithmeticInput](nil)
	if err != nil {
		return fmt.Errorf("failed to create arithmetic input schema: %w", err)
	}

	operations := []struct {
		name        string
		description string
		call        func(tools.ArithmeticInput) (tools.Result, error)
	}{
		{ToolAdd, "Add two numbers and return the sum.", s.math.Add},
		{ToolSubtract, "Subtract the second number from the first.", s.math.Subtract},
		{ToolMultiply, "Multiply two numbers and return the product.", s.math.Multiply},
		{ToolDivide, "Divide the first number by the second. Division by zero reports +Inf.", s.math.Divide},
	}

	for _, op := range operations {
		call := op.call
		mcp.AddTool(s.mcpServer, &mcp.Tool{
			Name:        op.name,
			Description: op.description,
			InputSchema: schema,
		}, func(ctx context.Context, req *mcp.CallToolRequest, in tools.ArithmeticInput) (*mcp.CallToolResult, any, error) {
			result, err := call(in)
			if err != nil {
				return nil, nil, fmt.Errorf("system error: %w", err)
			}
			return resultToMCP(result, s.logger), nil, nil
		})
	}

	return nil
}
