package mcp

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/SidiqaFekrat/SE333-mcp-testing-agent/internal/log"
	"github.com/SidiqaFekrat/SE333-mcp-testing-agent/internal/tools"
)

// Error detail whitelist policy:
// - error_code: controlled enum
// - error_type: controlled enum
// - user_message: user-facing message only
// - request_id: for log correlation
//
// Never expose stack traces, file paths, environment variables, or
// internal identifiers. Full details are logged server-side.

// resultToMCP converts a tools.Result to an MCP call result. Business
// errors become IsError text results with sanitized details and a
// generated request ID for correlating client reports with server logs.
func resultToMCP(result tools.Result, logger log.Logger) *mcp.CallToolResult {
	if result.Status == tools.StatusError {
		requestID := uuid.NewString()
		errorText := fmt.Sprintf("[%s] %s", result.Error.Code, result.Error.Message)

		sanitized := sanitizeErrorDetails(result.Error.Details)
		sanitized["request_id"] = requestID
		if detailsJSON, err := json.Marshal(sanitized); err == nil {
			errorText += fmt.Sprintf("\nDetails: %s", string(detailsJSON))
		} else {
			logger.Warn("marshaling sanitized error details", "error", err)
			errorText += "\nDetails: (see server logs)"
		}

		logger.Debug("MCP error details",
			"request_id", requestID,
			"code", result.Error.Code,
			"message", result.Error.Message,
			"details", result.Error.Details)

		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: errorText}},
			IsError: true,
		}
	}

	return dataToMCP(result.Data)
}

// dataToMCP converts arbitrary data to MCP text content via JSON
// marshaling. All data becomes JSON, clients parse it.
func dataToMCP(data any) *mcp.CallToolResult {
	if data == nil {
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: ""}},
		}
	}

	b, err := json.Marshal(data)
	if err != nil {
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: "marshal error"}},
			IsError: true,
		}
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(b)}},
	}
}

// sanitizeErrorDetails keeps only whitelisted fields from error details.
func sanitizeErrorDetails(details map[string]any) map[string]any {
	safe := make(map[string]any)

	safeFields := map[string]bool{
		"error_code":   true,
		"error_type":   true,
		"user_message": true,
		"request_id":   true,
	}

	for key, val := range details {
		if safeFields[key] {
			safe[key] = val
		}
	}

	return safe
}
