package tools

import (
	"fmt"
	"os"
	"regexp"
	"strings"
	"unicode"

	"github.com/SidiqaFekrat/SE333-mcp-testing-agent/internal/log"
	"github.com/SidiqaFekrat/SE333-mcp-testing-agent/internal/security"
)

// MaxSourceFileSize limits how much Java source a single analysis reads.
const MaxSourceFileSize = 10 * 1024 * 1024

// methodPattern detects Java method declarations, including ones whose
// signature spans multiple lines. It deliberately skips constructors and
// generic or annotated declarations that do not fit the common shape.
var methodPattern = regexp.MustCompile(`(public|private|protected)\s+(?:static\s+)?(\w+)\s+(\w+)\s*\([^)]*\)`)

// AnalyzeJavaInput defines input for the analyze_java_code tool.
type AnalyzeJavaInput struct {
	FilePath string `json:"file_path" jsonschema_description:"The Java source file to analyze"`
}

// TestTemplateInput defines input for the generate_test_template tool.
type TestTemplateInput struct {
	ClassName string   `json:"class_name" jsonschema_description:"The class under test, without the Test suffix"`
	Methods   []string `json:"methods" jsonschema_description:"Method names to generate test stubs for"`
}

// MethodInfo describes one method declaration found in a Java source file.
type MethodInfo struct {
	LineNumber int    `json:"line_number"`
	Name       string `json:"name"`
	ReturnType string `json:"return_type"`
	Signature  string `json:"signature"`
}

// JavaTools provides Java source inspection and test scaffolding tools.
type JavaTools struct {
	pathVal *security.Path
	logger  log.Logger
}

// NewJavaTools creates a JavaTools instance.
func NewJavaTools(pathVal *security.Path, logger log.Logger) (*JavaTools, error) {
	if pathVal == nil {
		return nil, fmt.Errorf("path validator is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	return &JavaTools{pathVal: pathVal, logger: logger}, nil
}

// AnalyzeSource extracts method declarations from a Java source file.
// Detection is regex based and best effort, not a full parser.
func (j *JavaTools) AnalyzeSource(input AnalyzeJavaInput) (Result, error) {
	j.logger.Debug("AnalyzeSource called", "file_path", input.FilePath)

	content, errResult := j.readSource(input.FilePath)
	if errResult != nil {
		return *errResult, nil
	}

	methods := extractMethods(content)
	j.logger.Debug("AnalyzeSource succeeded", "file_path", input.FilePath, "methods", len(methods))

	return Result{
		Status: StatusSuccess,
		Data: map[string]any{
			"file":          input.FilePath,
			"total_methods": len(methods),
			"methods":       methods,
		},
	}, nil
}

// TestTemplate renders a JUnit 5 test class skeleton with one placeholder
// test per method.
func (j *JavaTools) TestTemplate(input TestTemplateInput) (Result, error) {
	j.logger.Debug("TestTemplate called", "class_name", input.ClassName, "methods", len(input.Methods))

	if input.ClassName == "" {
		return errorResult(ErrCodeValidation, "class_name is required"), nil
	}

	var b strings.Builder
	b.WriteString("import org.junit.jupiter.api.Test;\n")
	b.WriteString("import static org.junit.jupiter.api.Assertions.*;\n\n")
	fmt.Fprintf(&b, "public class %sTest {\n", input.ClassName)

	for _, method := range input.Methods {
		b.WriteString("    @Test\n")
		fmt.Fprintf(&b, "    void test%s() {\n", upperFirst(method))
		b.WriteString("        // Placeholder: Replace with actual test assertions\n")
		b.WriteString("        assertTrue(true);\n")
		b.WriteString("    }\n\n")
	}

	b.WriteString("}\n")

	return Result{
		Status: StatusSuccess,
		Data: map[string]any{
			"class_name": input.ClassName,
			"template":   b.String(),
		},
	}, nil
}

// readSource validates a file path and loads its content. Failures come
// back as a business error Result.
func (j *JavaTools) readSource(filePath string) (string, *Result) {
	if filePath == "" {
		r := errorResult(ErrCodeValidation, "file_path is required")
		return "", &r
	}

	path, err := j.pathVal.Validate(filePath)
	if err != nil {
		r := errorResult(ErrCodeSecurity, fmt.Sprintf("path validation failed: %v", err))
		return "", &r
	}

	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		r := errorResult(ErrCodeNotFound, fmt.Sprintf("File not found: %s", filePath))
		return "", &r
	}
	if err != nil {
		r := errorResult(ErrCodeIO, fmt.Sprintf("stat failed: %v", err))
		return "", &r
	}
	if info.Size() > MaxSourceFileSize {
		r := errorResult(ErrCodeValidation,
			fmt.Sprintf("file exceeds maximum size of %d bytes", MaxSourceFileSize))
		return "", &r
	}

	content, err := os.ReadFile(path)
	if err != nil {
		r := errorResult(ErrCodeIO, fmt.Sprintf("read failed: %v", err))
		return "", &r
	}
	return string(content), nil
}

// extractMethods runs the declaration pattern over source text, recording
// the line number of each match as one plus the newlines preceding it.
func extractMethods(content string) []MethodInfo {
	matches := methodPattern.FindAllStringSubmatchIndex(content, -1)
	methods := make([]MethodInfo, 0, len(matches))
	for _, m := range matches {
		line := strings.Count(content[:m[0]], "\n") + 1
		methods = append(methods, MethodInfo{
			LineNumber: line,
			Name:       content[m[6]:m[7]],
			ReturnType: content[m[4]:m[5]],
			Signature:  content[m[0]:m[1]],
		})
	}
	return methods
}

func upperFirst(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}
