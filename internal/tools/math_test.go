package tools

import (
	"math"
	"testing"

	"github.com/SidiqaFekrat/SE333-mcp-testing-agent/internal/log"
)

func newMathTools(t *testing.T) *MathTools {
	t.Helper()
	mt, err := NewMathTools(log.NewNop())
	if err != nil {
		t.Fatalf("NewMathTools: %v", err)
	}
	return mt
}

func TestNewMathTools_RequiresLogger(t *testing.T) {
	if _, err := NewMathTools(nil); err == nil {
		t.Fatal("expected an error for a nil logger")
	}
}

func TestMathTools_Arithmetic(t *testing.T) {
	mt := newMathTools(t)

	tests := []struct {
		name string
		call func(ArithmeticInput) (Result, error)
		in   ArithmeticInput
		want float64
	}{
		{"add", mt.Add, ArithmeticInput{A: 2, B: 3}, 5},
		{"add negatives", mt.Add, ArithmeticInput{A: -2.5, B: -1.5}, -4},
		{"subtract", mt.Subtract, ArithmeticInput{A: 10, B: 4}, 6},
		{"subtract below zero", mt.Subtract, ArithmeticInput{A: 1, B: 3}, -2},
		{"multiply", mt.Multiply, ArithmeticInput{A: 6, B: 7}, 42},
		{"multiply by zero", mt.Multiply, ArithmeticInput{A: 123.45, B: 0}, 0},
		{"divide", mt.Divide, ArithmeticInput{A: 9, B: 2}, 4.5},
		{"divide fractions", mt.Divide, ArithmeticInput{A: 1, B: 3}, 1.0 / 3.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := tt.call(tt.in)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if result.Status != StatusSuccess {
				t.Fatalf("Status = %q, want %q", result.Status, StatusSuccess)
			}

			data, ok := result.Data.(map[string]any)
			if !ok {
				t.Fatalf("Data type = %T, want map[string]any", result.Data)
			}
			got, ok := data["result"].(float64)
			if !ok {
				t.Fatalf("result type = %T, want float64", data["result"])
			}
			if math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("result = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMathTools_DivideByZero(t *testing.T) {
	mt := newMathTools(t)

	result, err := mt.Divide(ArithmeticInput{A: 5, B: 0})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Status != StatusSuccess {
		t.Fatalf("Status = %q, want %q", result.Status, StatusSuccess)
	}

	data, ok := result.Data.(map[string]any)
	if !ok {
		t.Fatalf("Data type = %T, want map[string]any", result.Data)
	}
	// Infinity has no JSON representation, so the payload carries a string.
	if got := data["result"]; got != "+Inf" {
		t.Errorf("result = %v, want %q", got, "+Inf")
	}
}

func TestMathTools_DivideByZeroNegativeNumerator(t *testing.T) {
	mt := newMathTools(t)

	result, err := mt.Divide(ArithmeticInput{A: -5, B: 0})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data := result.Data.(map[string]any)
	if got := data["result"]; got != "+Inf" {
		t.Errorf("result = %v, want %q", got, "+Inf")
	}
}
