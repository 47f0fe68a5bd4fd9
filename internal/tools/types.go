// Package tools implements the testing-agent toolsets.
//
// Each toolset is a struct holding its validators and logger, constructed
// once at startup and registered explicitly with the MCP server. Toolset
// methods follow a two-level error model:
//
//   - Business errors (report not found, malformed XML, blocked command,
//     missing file) are data: they come back in Result.Error so the driving
//     agent can read them and decide what to do next.
//   - Infrastructure errors (context canceled) are Go errors and propagate.
package tools

// Status indicates whether a tool call succeeded.
type Status string

// Tool call statuses.
const (
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// Error codes returned in Result.Error.Code.
const (
	// ErrCodeNotFound indicates a requested file or report does not exist.
	ErrCodeNotFound = "NOT_FOUND"
	// ErrCodeMalformedReport indicates a coverage report failed to parse.
	ErrCodeMalformedReport = "MALFORMED_REPORT"
	// ErrCodeValidation indicates invalid tool input.
	ErrCodeValidation = "VALIDATION_ERROR"
	// ErrCodeSecurity indicates a path or command was rejected by a validator.
	ErrCodeSecurity = "SECURITY_ERROR"
	// ErrCodeIO indicates a filesystem operation failed.
	ErrCodeIO = "IO_ERROR"
	// ErrCodeExecution indicates an external command failed.
	ErrCodeExecution = "EXECUTION_ERROR"
	// ErrCodeInternal indicates an unexpected failure during processing.
	ErrCodeInternal = "INTERNAL_ERROR"
)

// Error describes a business failure in a structured format the driving
// agent can understand and correct.
type Error struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Code == "" {
		return e.Message
	}
	return e.Code + ": " + e.Message
}

// Result is the uniform return value of all tool methods.
// On success, Data carries the JSON-serializable payload; on business
// failure, Error is set and Data is nil.
type Result struct {
	Status  Status `json:"status"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
	Error   *Error `json:"error,omitempty"`
}

// errorResult builds an error Result. Helper for the common case.
func errorResult(code, message string) Result {
	return Result{
		Status: StatusError,
		Error:  &Error{Code: code, Message: message},
	}
}
