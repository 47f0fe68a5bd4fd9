// Package jacoco locates and parses JaCoCo XML coverage reports.
//
// The package implements three operations, all stateless and single-pass:
//
//   - Locate: probe conventional report locations under a project root
//   - Aggregate: reduce a report to four scalar coverage percentages
//   - UncoveredLines: list the lines of one source file with zero covered
//     instructions
//
// Parsing walks the document with xml.Decoder rather than decoding the whole
// report tree into structs: counter elements appear at every scope level
// (report, package, class, method, sourcefile) and the aggregator needs them
// in document order, regardless of depth.
package jacoco

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"
)

// NotFoundMessage is the sentinel returned when no report exists at any
// candidate location. Callers branch on this string rather than on an error:
// a missing report is a normal, reportable outcome, not a fault.
const NotFoundMessage = "JaCoCo report not found. Run 'mvn clean test' first."

// MaxReportSize is the maximum report size read into the parser (50 MB).
// Reports for large codebases run to a few MB; anything bigger is suspect.
const MaxReportSize = 50 * 1024 * 1024

// reportCandidates lists conventional report locations relative to a project
// root, probed in order. First match wins.
var reportCandidates = []string{
	filepath.Join("target", "site", "jacoco", "jacoco.xml"),
	filepath.Join("target", "jacoco.xml"),
	filepath.Join("build", "jacoco", "jacoco.xml"),
}

// Locate probes the conventional report locations under projectPath and
// returns the first that exists. found is false when no candidate exists.
func Locate(projectPath string) (path string, found bool) {
	for _, candidate := range reportCandidates {
		p := filepath.Join(projectPath, candidate)
		if _, err := os.Stat(p); err == nil {
			return p, true
		}
	}
	return "", false
}

// Summary holds the aggregate coverage percentages of one report.
// Percentages are rounded to 2 decimals; a counter kind absent from the
// report leaves its percentage at 0.
type Summary struct {
	LineCoverage        float64 `json:"line_coverage"`
	BranchCoverage      float64 `json:"branch_coverage"`
	MethodCoverage      float64 `json:"method_coverage"`
	InstructionCoverage float64 `json:"instruction_coverage"`
}

// UncoveredLine describes one source line with zero covered instructions.
type UncoveredLine struct {
	LineNumber       int `json:"line_number"`
	InstructionCount int `json:"instruction_count"`
	BranchCount      int `json:"branch_count"`
}

// counter mirrors a JaCoCo counter element. Missing attributes decode to 0.
type counter struct {
	Type    string `xml:"type,attr"`
	Covered int    `xml:"covered,attr"`
	Missed  int    `xml:"missed,attr"`
}

// sourceFile mirrors a JaCoCo sourcefile element with its line children.
type sourceFile struct {
	Name  string `xml:"name,attr"`
	Lines []struct {
		Nr int `xml:"nr,attr"`
		CI int `xml:"ci,attr"` // covered instructions
		CB int `xml:"cb,attr"` // covered branches
	} `xml:"line"`
}

// ParseError wraps an XML parse failure so callers can distinguish a
// malformed report from an I/O fault.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("malformed JaCoCo report: %v", e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Aggregate parses the report at reportPath and reduces it to a Summary.
//
// For each counter kind the metric from the last matching counter in
// document order wins. JaCoCo emits the report-level rollup counters as the
// final children of the root element, so on a well-formed report last-wins
// selects exactly the report-level counter of each kind. Counters of unknown
// kinds are ignored; a kind with covered+missed == 0 keeps the default 0.
func Aggregate(reportPath string) (Summary, error) {
	f, err := os.Open(reportPath) // #nosec G304 -- caller validates the path
	if err != nil {
		return Summary{}, fmt.Errorf("opening report: %w", err)
	}
	defer func() { _ = f.Close() }()

	return parseSummary(io.LimitReader(f, MaxReportSize))
}

func parseSummary(r io.Reader) (Summary, error) {
	var summary Summary

	targets := map[string]*float64{
		"LINE":        &summary.LineCoverage,
		"BRANCH":      &summary.BranchCoverage,
		"METHOD":      &summary.MethodCoverage,
		"INSTRUCTION": &summary.InstructionCoverage,
	}

	dec := xml.NewDecoder(r)
	for {
		tok, err := dec.Token()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return summary, nil
			}
			return Summary{}, &ParseError{Err: err}
		}

		start, ok := tok.(xml.StartElement)
		if !ok || start.Name.Local != "counter" {
			continue
		}

		var c counter
		if err := dec.DecodeElement(&c, &start); err != nil {
			return Summary{}, &ParseError{Err: err}
		}

		target, known := targets[c.Type]
		if !known {
			continue
		}
		total := c.Covered + c.Missed
		if total == 0 {
			continue
		}
		*target = roundPercent(float64(c.Covered) / float64(total) * 100)
	}
}

// UncoveredLines parses the report at reportPath and returns the lines of
// sourcePath that have zero covered instructions.
//
// Report entries match when their recorded name contains the base name of
// sourcePath with the .java extension mapped to .class, or contains the full
// sourcePath string. This is a substring match and may over-match files with
// similar names in different packages; callers are told so in the tool
// description.
func UncoveredLines(reportPath, sourcePath string) ([]UncoveredLine, error) {
	f, err := os.Open(reportPath) // #nosec G304 -- caller validates the path
	if err != nil {
		return nil, fmt.Errorf("opening report: %w", err)
	}
	defer func() { _ = f.Close() }()

	return parseUncovered(io.LimitReader(f, MaxReportSize), sourcePath)
}

func parseUncovered(r io.Reader, sourcePath string) ([]UncoveredLine, error) {
	compiledName := strings.TrimSuffix(filepath.Base(sourcePath), ".java") + ".class"

	uncovered := []UncoveredLine{}

	dec := xml.NewDecoder(r)
	for {
		tok, err := dec.Token()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return uncovered, nil
			}
			return nil, &ParseError{Err: err}
		}

		start, ok := tok.(xml.StartElement)
		if !ok || start.Name.Local != "sourcefile" {
			continue
		}

		var sf sourceFile
		if err := dec.DecodeElement(&sf, &start); err != nil {
			return nil, &ParseError{Err: err}
		}

		if !strings.Contains(sf.Name, compiledName) && !strings.Contains(sf.Name, sourcePath) {
			continue
		}

		for _, line := range sf.Lines {
			if line.CI == 0 {
				uncovered = append(uncovered, UncoveredLine{
					LineNumber:       line.Nr,
					InstructionCount: line.CI,
					BranchCount:      line.CB,
				})
			}
		}
	}
}

// roundPercent rounds to 2 decimal places.
func roundPercent(pct float64) float64 {
	return math.Round(pct*100) / 100
}
