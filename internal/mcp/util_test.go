package mcp

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/SidiqaFekrat/SE333-mcp-testing-agent/internal/log"
	"github.com/SidiqaFekrat/SE333-mcp-testing-agent/internal/tools"
)

func textOf(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if len(result.Content) != 1 {
		t.Fatalf("Content length = %d, want 1", len(result.Content))
	}
	tc, ok := result.Content[0].(*mcp.TextContent)
	if !ok {
		t.Fatalf("Content[0] type = %T, want *TextContent", result.Content[0])
	}
	return tc.Text
}

func TestResultToMCP_Success(t *testing.T) {
	result := tools.Result{
		Status: tools.StatusSuccess,
		Data:   map[string]any{"answer": 42.0},
	}

	out := resultToMCP(result, log.NewNop())
	if out.IsError {
		t.Fatal("IsError = true, want false")
	}

	var decoded map[string]any
	if err := json.Unmarshal([]byte(textOf(t, out)), &decoded); err != nil {
		t.Fatalf("payload is not JSON: %v", err)
	}
	if decoded["answer"] != 42.0 {
		t.Errorf("answer = %v, want 42", decoded["answer"])
	}
}

func TestResultToMCP_BusinessError(t *testing.T) {
	result := tools.Result{
		Status: tools.StatusError,
		Error: &tools.Error{
			Code:    tools.ErrCodeNotFound,
			Message: "report missing",
		},
	}

	out := resultToMCP(result, log.NewNop())
	if !out.IsError {
		t.Fatal("IsError = false, want true")
	}

	text := textOf(t, out)
	if !strings.HasPrefix(text, "[NOT_FOUND] report missing") {
		t.Errorf("text = %q, want the [CODE] message prefix", text)
	}
	if !strings.Contains(text, "request_id") {
		t.Errorf("text = %q, want an attached request_id", text)
	}
}

func TestResultToMCP_SanitizesDetails(t *testing.T) {
	result := tools.Result{
		Status: tools.StatusError,
		Error: &tools.Error{
			Code:    tools.ErrCodeSecurity,
			Message: "command not permitted",
			Details: map[string]any{
				"user_message": "use a whitelisted command",
				"stack_trace":  "goroutine 1 [running]: ...",
				"home_dir":     "/home/somebody",
			},
		},
	}

	text := textOf(t, resultToMCP(result, log.NewNop()))
	if !strings.Contains(text, "use a whitelisted command") {
		t.Errorf("text = %q, want the whitelisted user_message", text)
	}
	if strings.Contains(text, "goroutine") || strings.Contains(text, "/home/somebody") {
		t.Errorf("text = %q, leaked unsanitized details", text)
	}
}

func TestDataToMCP_Nil(t *testing.T) {
	out := dataToMCP(nil)
	if out.IsError {
		t.Fatal("IsError = true, want false")
	}
	if got := textOf(t, out); got != "" {
		t.Errorf("text = %q, want empty", got)
	}
}

func TestSanitizeErrorDetails(t *testing.T) {
	in := map[string]any{
		"error_code":   "NOT_FOUND",
		"error_type":   "ValidationError",
		"user_message": "try again",
		"request_id":   "abc-123",
		"path":         "/etc/passwd",
		"env":          "SECRET=1",
	}

	safe := sanitizeErrorDetails(in)
	if len(safe) != 4 {
		t.Fatalf("len = %d, want 4: %+v", len(safe), safe)
	}
	for _, key := range []string{"error_code", "error_type", "user_message", "request_id"} {
		if _, ok := safe[key]; !ok {
			t.Errorf("missing whitelisted key %q", key)
		}
	}
}
