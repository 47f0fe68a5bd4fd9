package tools

import (
	"fmt"
	"math"

	"github.com/SidiqaFekrat/SE333-mcp-testing-agent/internal/log"
)

// ArithmeticInput defines input for the arithmetic tools.
type ArithmeticInput struct {
	A float64 `json:"a" jsonschema_description:"The first operand"`
	B float64 `json:"b" jsonschema_description:"The second operand"`
}

// MathTools provides the basic arithmetic tools.
type MathTools struct {
	logger log.Logger
}

// NewMathTools creates a MathTools instance.
func NewMathTools(logger log.Logger) (*MathTools, error) {
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	return &MathTools{logger: logger}, nil
}

// Add returns a + b.
func (m *MathTools) Add(input ArithmeticInput) (Result, error) {
	m.logger.Debug("Add called", "a", input.A, "b", input.B)
	return arithmeticResult("add", input, input.A+input.B), nil
}

// Subtract returns a - b.
func (m *MathTools) Subtract(input ArithmeticInput) (Result, error) {
	m.logger.Debug("Subtract called", "a", input.A, "b", input.B)
	return arithmeticResult("subtract", input, input.A-input.B), nil
}

// Multiply returns a * b.
func (m *MathTools) Multiply(input ArithmeticInput) (Result, error) {
	m.logger.Debug("Multiply called", "a", input.A, "b", input.B)
	return arithmeticResult("multiply", input, input.A*input.B), nil
}

// Divide returns a / b. Division by zero yields +Inf rather than an error.
func (m *MathTools) Divide(input ArithmeticInput) (Result, error) {
	m.logger.Debug("Divide called", "a", input.A, "b", input.B)
	if input.B == 0 {
		return arithmeticResult("divide", input, math.Inf(1)), nil
	}
	return arithmeticResult("divide", input, input.A/input.B), nil
}

// arithmeticResult builds the uniform success payload for arithmetic tools.
// IEEE infinities are not valid JSON numbers, so they are reported as the
// strings "+Inf" / "-Inf".
func arithmeticResult(op string, input ArithmeticInput, value float64) Result {
	var result any = value
	switch {
	case math.IsInf(value, 1):
		result = "+Inf"
	case math.IsInf(value, -1):
		result = "-Inf"
	}

	return Result{
		Status: StatusSuccess,
		Data: map[string]any{
			"operation": op,
			"a":         input.A,
			"b":         input.B,
			"result":    result,
		},
	}
}
