package tools

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/SidiqaFekrat/SE333-mcp-testing-agent/internal/jacoco"
	"github.com/SidiqaFekrat/SE333-mcp-testing-agent/internal/log"
	"github.com/SidiqaFekrat/SE333-mcp-testing-agent/internal/security"
)

const coverageTestReport = `<?xml version="1.0" encoding="UTF-8"?>
<report name="demo">
  <package name="com/example">
    <sourcefile name="Calculator.java">
      <line nr="5" mi="0" ci="3" mb="0" cb="0"/>
      <line nr="8" mi="2" ci="0" mb="1" cb="1"/>
      <counter type="LINE" missed="1" covered="1"/>
    </sourcefile>
    <counter type="LINE" missed="1" covered="1"/>
  </package>
  <counter type="INSTRUCTION" missed="2" covered="3"/>
  <counter type="LINE" missed="1" covered="1"/>
  <counter type="BRANCH" missed="1" covered="1"/>
  <counter type="METHOD" missed="0" covered="2"/>
</report>`

type coverageHelper struct {
	t       *testing.T
	tools   *CoverageTools
	project string
}

func newCoverageHelper(t *testing.T) *coverageHelper {
	t.Helper()

	// Temp dirs can sit behind symlinks (macOS /var -> /private/var),
	// which the path validator resolves before comparing prefixes.
	project, err := filepath.EvalSymlinks(t.TempDir())
	if err != nil {
		t.Fatalf("EvalSymlinks: %v", err)
	}

	pathVal, err := security.NewPath([]string{project})
	if err != nil {
		t.Fatalf("NewPath: %v", err)
	}
	ct, err := NewCoverageTools(pathVal, log.NewNop())
	if err != nil {
		t.Fatalf("NewCoverageTools: %v", err)
	}
	return &coverageHelper{t: t, tools: ct, project: project}
}

func (h *coverageHelper) writeReport(content string) string {
	h.t.Helper()
	dir := filepath.Join(h.project, "target", "site", "jacoco")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		h.t.Fatalf("MkdirAll: %v", err)
	}
	path := filepath.Join(dir, "jacoco.xml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		h.t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func (h *coverageHelper) data(result Result) map[string]any {
	h.t.Helper()
	data, ok := result.Data.(map[string]any)
	if !ok {
		h.t.Fatalf("Data type = %T, want map[string]any", result.Data)
	}
	return data
}

func TestCoverageTools_LocateReport(t *testing.T) {
	h := newCoverageHelper(t)
	want := h.writeReport(coverageTestReport)

	result, err := h.tools.LocateReport(LocateReportInput{ProjectPath: h.project})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Status != StatusSuccess {
		t.Fatalf("Status = %q, want %q", result.Status, StatusSuccess)
	}

	data := h.data(result)
	if data["found"] != true {
		t.Errorf("found = %v, want true", data["found"])
	}
	if data["report_path"] != want {
		t.Errorf("report_path = %v, want %v", data["report_path"], want)
	}
}

func TestCoverageTools_LocateReportMissing(t *testing.T) {
	h := newCoverageHelper(t)

	result, err := h.tools.LocateReport(LocateReportInput{ProjectPath: h.project})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Status != StatusSuccess {
		t.Fatalf("Status = %q, want %q", result.Status, StatusSuccess)
	}

	data := h.data(result)
	if data["found"] != false {
		t.Errorf("found = %v, want false", data["found"])
	}
	if data["message"] != jacoco.NotFoundMessage {
		t.Errorf("message = %v, want %q", data["message"], jacoco.NotFoundMessage)
	}
}

func TestCoverageTools_LocateReportOutsideAllowedDirs(t *testing.T) {
	h := newCoverageHelper(t)

	result, err := h.tools.LocateReport(LocateReportInput{ProjectPath: "/etc"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Status != StatusError {
		t.Fatalf("Status = %q, want %q", result.Status, StatusError)
	}
	if result.Error == nil || result.Error.Code != ErrCodeSecurity {
		t.Errorf("Error = %+v, want code %q", result.Error, ErrCodeSecurity)
	}
}

func TestCoverageTools_Summary(t *testing.T) {
	h := newCoverageHelper(t)
	h.writeReport(coverageTestReport)

	result, err := h.tools.Summary(CoverageSummaryInput{ProjectPath: h.project})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Status != StatusSuccess {
		t.Fatalf("Status = %q, want %q: %+v", result.Status, StatusSuccess, result.Error)
	}

	summary, ok := result.Data.(jacoco.Summary)
	if !ok {
		t.Fatalf("Data type = %T, want jacoco.Summary", result.Data)
	}
	if summary.LineCoverage != 50.0 {
		t.Errorf("LineCoverage = %v, want 50.0", summary.LineCoverage)
	}
	if summary.InstructionCoverage != 60.0 {
		t.Errorf("InstructionCoverage = %v, want 60.0", summary.InstructionCoverage)
	}
	if summary.BranchCoverage != 50.0 {
		t.Errorf("BranchCoverage = %v, want 50.0", summary.BranchCoverage)
	}
	if summary.MethodCoverage != 100.0 {
		t.Errorf("MethodCoverage = %v, want 100.0", summary.MethodCoverage)
	}
}

func TestCoverageTools_SummaryReportMissing(t *testing.T) {
	h := newCoverageHelper(t)

	result, err := h.tools.Summary(CoverageSummaryInput{ProjectPath: h.project})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Status != StatusError {
		t.Fatalf("Status = %q, want %q", result.Status, StatusError)
	}
	if result.Error == nil || result.Error.Code != ErrCodeNotFound {
		t.Fatalf("Error = %+v, want code %q", result.Error, ErrCodeNotFound)
	}
	if result.Error.Message != jacoco.NotFoundMessage {
		t.Errorf("Message = %q, want %q", result.Error.Message, jacoco.NotFoundMessage)
	}
}

func TestCoverageTools_SummaryMalformedReport(t *testing.T) {
	h := newCoverageHelper(t)
	h.writeReport(`<report><counter type="LINE"`)

	result, err := h.tools.Summary(CoverageSummaryInput{ProjectPath: h.project})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Status != StatusError {
		t.Fatalf("Status = %q, want %q", result.Status, StatusError)
	}
	if result.Error == nil || result.Error.Code != ErrCodeMalformedReport {
		t.Errorf("Error = %+v, want code %q", result.Error, ErrCodeMalformedReport)
	}
}

func TestCoverageTools_UncoveredLines(t *testing.T) {
	h := newCoverageHelper(t)
	h.writeReport(coverageTestReport)

	result, err := h.tools.UncoveredLines(UncoveredLinesInput{
		FilePath:    "Calculator.java",
		ProjectPath: h.project,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Status != StatusSuccess {
		t.Fatalf("Status = %q, want %q: %+v", result.Status, StatusSuccess, result.Error)
	}

	data := h.data(result)
	if data["total_uncovered_lines"] != 1 {
		t.Errorf("total_uncovered_lines = %v, want 1", data["total_uncovered_lines"])
	}
	lines, ok := data["uncovered_lines"].([]jacoco.UncoveredLine)
	if !ok {
		t.Fatalf("uncovered_lines type = %T", data["uncovered_lines"])
	}
	if len(lines) != 1 || lines[0].LineNumber != 8 {
		t.Errorf("uncovered_lines = %+v, want line 8", lines)
	}
}

func TestCoverageTools_UncoveredLinesNoMatch(t *testing.T) {
	h := newCoverageHelper(t)
	h.writeReport(coverageTestReport)

	result, err := h.tools.UncoveredLines(UncoveredLinesInput{
		FilePath:    "Missing.java",
		ProjectPath: h.project,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Status != StatusSuccess {
		t.Fatalf("Status = %q, want %q", result.Status, StatusSuccess)
	}

	data := h.data(result)
	if data["total_uncovered_lines"] != 0 {
		t.Errorf("total_uncovered_lines = %v, want 0", data["total_uncovered_lines"])
	}
}

func TestCoverageTools_UncoveredLinesRequiresFilePath(t *testing.T) {
	h := newCoverageHelper(t)

	result, err := h.tools.UncoveredLines(UncoveredLinesInput{ProjectPath: h.project})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Error == nil || result.Error.Code != ErrCodeValidation {
		t.Errorf("Error = %+v, want code %q", result.Error, ErrCodeValidation)
	}
}
