package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	mcpSdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/SidiqaFekrat/SE333-mcp-testing-agent/internal/config"
	"github.com/SidiqaFekrat/SE333-mcp-testing-agent/internal/log"
	"github.com/SidiqaFekrat/SE333-mcp-testing-agent/internal/mcp"
	"github.com/SidiqaFekrat/SE333-mcp-testing-agent/internal/security"
	"github.com/SidiqaFekrat/SE333-mcp-testing-agent/internal/tools"
)

// runServe initializes and starts the MCP server on stdio transport.
func runServe(parent context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := log.New(log.Config{
		Level: log.ParseLevel(cfg.LogLevel),
		JSON:  cfg.LogFormat == "json",
	})

	ctx, cancel := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	logger.Info("starting MCP server", "version", AppVersion)

	server, err := buildServer(cfg, logger)
	if err != nil {
		return err
	}

	logger.Info("MCP server ready", "name", "testing-agent", "version", AppVersion, "transport", "stdio")

	if err := server.Run(ctx, &mcpSdk.StdioTransport{}); err != nil {
		return fmt.Errorf("MCP server error: %w", err)
	}

	logger.Info("MCP server shut down gracefully")
	return nil
}

// buildServer constructs the validators, toolsets, and server from
// configuration. Registration is explicit: every toolset is built here
// and handed to the server.
func buildServer(cfg *config.Config, logger log.Logger) (*mcp.Server, error) {
	workDir, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("getting working directory: %w", err)
	}

	allowedDirs := append([]string{workDir}, cfg.AllowedDirs...)
	pathVal, err := security.NewPath(allowedDirs)
	if err != nil {
		return nil, fmt.Errorf("creating path validator: %w", err)
	}
	// The configured Maven executable joins the whitelist so non-default
	// values (wrapper scripts, absolute paths) pass command validation.
	cmdVal := security.NewCommand(cfg.MavenCommand)

	mathTools, err := tools.NewMathTools(logger)
	if err != nil {
		return nil, fmt.Errorf("creating math tools: %w", err)
	}
	coverageTools, err := tools.NewCoverageTools(pathVal, logger)
	if err != nil {
		return nil, fmt.Errorf("creating coverage tools: %w", err)
	}
	javaTools, err := tools.NewJavaTools(pathVal, logger)
	if err != nil {
		return nil, fmt.Errorf("creating java tools: %w", err)
	}
	buildTools, err := tools.NewBuildTools(cmdVal, pathVal, tools.BuildOptions{
		MavenCommand: cfg.MavenCommand,
		Timeout:      cfg.MavenTimeout(),
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("creating build tools: %w", err)
	}
	gitTools, err := tools.NewGitTools(cmdVal, pathVal, tools.GitOptions{
		LogLimit: cfg.GitLogLimit,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("creating git tools: %w", err)
	}

	server, err := mcp.NewServer(mcp.Config{
		Name:     "testing-agent",
		Version:  AppVersion,
		Logger:   logger,
		Math:     mathTools,
		Coverage: coverageTools,
		Java:     javaTools,
		Build:    buildTools,
		Git:      gitTools,
	})
	if err != nil {
		return nil, fmt.Errorf("creating MCP server: %w", err)
	}
	return server, nil
}
