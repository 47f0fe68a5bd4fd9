package cmd

import (
	"path/filepath"
	"testing"

	"github.com/SidiqaFekrat/SE333-mcp-testing-agent/internal/config"
	"github.com/SidiqaFekrat/SE333-mcp-testing-agent/internal/log"
)

func TestBuildServer(t *testing.T) {
	cfg := &config.Config{
		LogLevel:            "info",
		LogFormat:           "text",
		MavenCommand:        "mvn",
		MavenTimeoutSeconds: config.DefaultMavenTimeoutSeconds,
		GitLogLimit:         config.DefaultGitLogLimit,
	}

	server, err := buildServer(cfg, log.NewNop())
	if err != nil {
		t.Fatalf("buildServer() error = %v, want nil", err)
	}
	if server == nil {
		t.Fatal("buildServer() returned nil server")
	}
}

func TestBuildServer_ExtraAllowedDirs(t *testing.T) {
	extra, err := filepath.EvalSymlinks(t.TempDir())
	if err != nil {
		t.Fatalf("EvalSymlinks: %v", err)
	}

	cfg := &config.Config{
		LogLevel:            "debug",
		LogFormat:           "json",
		AllowedDirs:         []string{extra},
		MavenCommand:        "mvn",
		MavenTimeoutSeconds: 60,
		GitLogLimit:         5,
	}

	if _, err := buildServer(cfg, log.NewNop()); err != nil {
		t.Fatalf("buildServer() error = %v, want nil", err)
	}
}

func TestRootCommand(t *testing.T) {
	if rootCmd.Use != "testing-agent" {
		t.Errorf("rootCmd.Use = %q, want %q", rootCmd.Use, "testing-agent")
	}

	var found bool
	for _, c := range rootCmd.Commands() {
		if c.Use == "version" {
			found = true
		}
	}
	if !found {
		t.Error("version subcommand not registered")
	}
}
