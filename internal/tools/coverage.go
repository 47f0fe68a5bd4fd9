package tools

import (
	"errors"
	"fmt"

	"github.com/SidiqaFekrat/SE333-mcp-testing-agent/internal/jacoco"
	"github.com/SidiqaFekrat/SE333-mcp-testing-agent/internal/log"
	"github.com/SidiqaFekrat/SE333-mcp-testing-agent/internal/security"
)

// LocateReportInput defines input for the find_jacoco_report tool.
type LocateReportInput struct {
	ProjectPath string `json:"project_path" jsonschema_description:"The Maven/Gradle project root directory"`
}

// CoverageSummaryInput defines input for the total_coverage tool.
type CoverageSummaryInput struct {
	ProjectPath string `json:"project_path,omitempty" jsonschema_description:"The project root directory (defaults to the working directory)"`
}

// UncoveredLinesInput defines input for the missing_coverage tool.
type UncoveredLinesInput struct {
	FilePath    string `json:"file_path" jsonschema_description:"The Java source file to inspect (path or base name)"`
	ProjectPath string `json:"project_path,omitempty" jsonschema_description:"The project root directory (defaults to the working directory)"`
}

// CoverageTools provides JaCoCo report location and analysis tools.
type CoverageTools struct {
	pathVal *security.Path
	logger  log.Logger
}

// NewCoverageTools creates a CoverageTools instance.
func NewCoverageTools(pathVal *security.Path, logger log.Logger) (*CoverageTools, error) {
	if pathVal == nil {
		return nil, fmt.Errorf("path validator is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	return &CoverageTools{pathVal: pathVal, logger: logger}, nil
}

// LocateReport probes the conventional JaCoCo report locations under the
// project root. A missing report is a normal outcome, reported with
// found=false and the remediation hint, never as an error.
func (c *CoverageTools) LocateReport(input LocateReportInput) (Result, error) {
	c.logger.Debug("LocateReport called", "project_path", input.ProjectPath)

	projectPath, err := c.pathVal.Validate(defaultDot(input.ProjectPath))
	if err != nil {
		return errorResult(ErrCodeSecurity, fmt.Sprintf("path validation failed: %v", err)), nil
	}

	path, found := jacoco.Locate(projectPath)
	if !found {
		return Result{
			Status: StatusSuccess,
			Data: map[string]any{
				"found":   false,
				"message": jacoco.NotFoundMessage,
			},
		}, nil
	}

	return Result{
		Status: StatusSuccess,
		Data: map[string]any{
			"found":       true,
			"report_path": path,
		},
	}, nil
}

// Summary locates the project's JaCoCo report and reduces it to the four
// aggregate coverage percentages.
func (c *CoverageTools) Summary(input CoverageSummaryInput) (Result, error) {
	c.logger.Debug("Summary called", "project_path", input.ProjectPath)

	projectPath, err := c.pathVal.Validate(defaultDot(input.ProjectPath))
	if err != nil {
		return errorResult(ErrCodeSecurity, fmt.Sprintf("path validation failed: %v", err)), nil
	}

	reportPath, found := jacoco.Locate(projectPath)
	if !found {
		return errorResult(ErrCodeNotFound, jacoco.NotFoundMessage), nil
	}

	summary, err := jacoco.Aggregate(reportPath)
	if err != nil {
		return coverageError(err), nil
	}

	c.logger.Debug("Summary succeeded", "report_path", reportPath)
	return Result{
		Status: StatusSuccess,
		Data:   summary,
	}, nil
}

// UncoveredLines locates the project's JaCoCo report and lists the lines of
// one source file that have zero covered instructions.
func (c *CoverageTools) UncoveredLines(input UncoveredLinesInput) (Result, error) {
	c.logger.Debug("UncoveredLines called", "file_path", input.FilePath, "project_path", input.ProjectPath)

	if input.FilePath == "" {
		return errorResult(ErrCodeValidation, "file_path is required"), nil
	}

	projectPath, err := c.pathVal.Validate(defaultDot(input.ProjectPath))
	if err != nil {
		return errorResult(ErrCodeSecurity, fmt.Sprintf("path validation failed: %v", err)), nil
	}

	reportPath, found := jacoco.Locate(projectPath)
	if !found {
		return errorResult(ErrCodeNotFound, jacoco.NotFoundMessage), nil
	}

	lines, err := jacoco.UncoveredLines(reportPath, input.FilePath)
	if err != nil {
		return coverageError(err), nil
	}

	c.logger.Debug("UncoveredLines succeeded", "file_path", input.FilePath, "count", len(lines))
	return Result{
		Status: StatusSuccess,
		Data: map[string]any{
			"file":                  input.FilePath,
			"total_uncovered_lines": len(lines),
			"uncovered_lines":       lines,
		},
	}, nil
}

// coverageError maps a jacoco package error to a business error result.
// A malformed report carries the parser message; anything else during
// traversal is reported as an unexpected failure.
func coverageError(err error) Result {
	var parseErr *jacoco.ParseError
	if errors.As(err, &parseErr) {
		return errorResult(ErrCodeMalformedReport, fmt.Sprintf("invalid JaCoCo XML: %v", parseErr.Err))
	}
	return errorResult(ErrCodeInternal, fmt.Sprintf("coverage parsing failed: %v", err))
}

// defaultDot maps an empty project path to the working directory, matching
// the tool contract where project_path is optional.
func defaultDot(path string) string {
	if path == "" {
		return "."
	}
	return path
}
