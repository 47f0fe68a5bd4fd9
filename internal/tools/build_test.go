package tools

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/SidiqaFekrat/SE333-mcp-testing-agent/internal/log"
	"github.com/SidiqaFekrat/SE333-mcp-testing-agent/internal/security"
)

func testValidators(t *testing.T) (*security.Command, *security.Path, string) {
	t.Helper()

	dir, err := filepath.EvalSymlinks(t.TempDir())
	if err != nil {
		t.Fatalf("EvalSymlinks: %v", err)
	}
	pathVal, err := security.NewPath([]string{dir})
	if err != nil {
		t.Fatalf("NewPath: %v", err)
	}
	return security.NewCommand(), pathVal, dir
}

func TestNewBuildTools(t *testing.T) {
	cmdVal, pathVal, _ := testValidators(t)

	t.Run("valid inputs", func(t *testing.T) {
		bt, err := NewBuildTools(cmdVal, pathVal, BuildOptions{}, log.NewNop())
		if err != nil {
			t.Fatalf("NewBuildTools() error = %v, want nil", err)
		}
		if bt.command != "mvn" {
			t.Errorf("command = %q, want %q", bt.command, "mvn")
		}
		if bt.timeout != DefaultMavenTimeout {
			t.Errorf("timeout = %v, want %v", bt.timeout, DefaultMavenTimeout)
		}
	})

	t.Run("custom options", func(t *testing.T) {
		opts := BuildOptions{MavenCommand: "mvn", Timeout: 42 * time.Second}
		bt, err := NewBuildTools(cmdVal, pathVal, opts, log.NewNop())
		if err != nil {
			t.Fatalf("NewBuildTools() error = %v, want nil", err)
		}
		if bt.timeout != 42*time.Second {
			t.Errorf("timeout = %v, want 42s", bt.timeout)
		}
	})

	t.Run("nil command validator", func(t *testing.T) {
		if _, err := NewBuildTools(nil, pathVal, BuildOptions{}, log.NewNop()); err == nil {
			t.Error("NewBuildTools() error = nil, want error")
		}
	})

	t.Run("nil path validator", func(t *testing.T) {
		if _, err := NewBuildTools(cmdVal, nil, BuildOptions{}, log.NewNop()); err == nil {
			t.Error("NewBuildTools() error = nil, want error")
		}
	})

	t.Run("nil logger", func(t *testing.T) {
		if _, err := NewBuildTools(cmdVal, pathVal, BuildOptions{}, nil); err == nil {
			t.Error("NewBuildTools() error = nil, want error")
		}
	})
}

func TestBuildTools_RunTestsRejectsOutsideDir(t *testing.T) {
	cmdVal, pathVal, _ := testValidators(t)
	bt, err := NewBuildTools(cmdVal, pathVal, BuildOptions{}, log.NewNop())
	if err != nil {
		t.Fatalf("NewBuildTools: %v", err)
	}

	result, err := bt.RunTests(context.Background(), RunMavenTestsInput{ProjectPath: "/etc"})
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

func TestBuildTools_RunTestsCustomMavenCommand(t *testing.T) {
	// A configured Maven executable that is registered with the command
	// validator must get past validation. The binary does not exist, so
	// the failure is an execution error, not a security rejection.
	_, pathVal, dir := testValidators(t)
	cmdVal := security.NewCommand("mvn-wrapper-for-tests")
	bt, err := NewBuildTools(cmdVal, pathVal, BuildOptions{MavenCommand: "mvn-wrapper-for-tests"}, log.NewNop())
	if err != nil {
		t.Fatalf("NewBuildTools: %v", err)
	}

	result, err := bt.RunTests(context.Background(), RunMavenTestsInput{ProjectPath: dir})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Status != StatusError {
		t.Fatalf("Status = %q, want %q", result.Status, StatusError)
	}
	if result.Error == nil || result.Error.Code != ErrCodeExecution {
		t.Errorf("Error = %+v, want code %q", result.Error, ErrCodeExecution)
	}
}

func TestBuildTools_RunTestsRejectsDisallowedExecutable(t *testing.T) {
	cmdVal, pathVal, dir := testValidators(t)
	bt, err := NewBuildTools(cmdVal, pathVal, BuildOptions{MavenCommand: "rm"}, log.NewNop())
	if err != nil {
		t.Fatalf("NewBuildTools: %v", err)
	}

	result, err := bt.RunTests(context.Background(), RunMavenTestsInput{ProjectPath: dir})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Status != StatusError {
		t.Fatalf("Status = %q, want %q", result.Status, StatusError)
	}
}
