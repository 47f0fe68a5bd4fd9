// Package mcp wraps the official MCP SDK server and registers the
// testing-agent toolsets over the stdio transport.
package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/SidiqaFekrat/SE333-mcp-testing-agent/internal/log"
	"github.com/SidiqaFekrat/SE333-mcp-testing-agent/internal/tools"
)

// Server wraps the MCP SDK server and the toolsets it exposes.
type Server struct {
	mcpServer *mcp.Server
	logger    log.Logger

	math     *tools.MathTools
	coverage *tools.CoverageTools
	java     *tools.JavaTools
	build    *tools.BuildTools
	git      *tools.GitTools
}

// Config holds the server identity and the toolsets to register.
// Registration is explicit: every toolset is constructed by the caller
// and passed in, there is no global registry.
type Config struct {
	Name    string
	Version string
	Logger  log.Logger

	Math     *tools.MathTools
	Coverage *tools.CoverageTools
	Java     *tools.JavaTools
	Build    *tools.BuildTools
	Git      *tools.GitTools
}

// NewServer creates an MCP server with all tools registered.
func NewServer(cfg Config) (*Server, error) {
	if cfg.Name == "" {
		return nil, fmt.Errorf("server name is required")
	}
	if cfg.Version == "" {
		return nil, fmt.Errorf("server version is required")
	}
	if cfg.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if cfg.Math == nil {
		return nil, fmt.Errorf("math tools is required")
	}
	if cfg.Coverage == nil {
		return nil, fmt.Errorf("coverage tools is required")
	}
	if cfg.Java == nil {
		return nil, fmt.Errorf("java tools is required")
	}
	if cfg.Build == nil {
		return nil, fmt.Errorf("build tools is required")
	}
	if cfg.Git == nil {
		return nil, fmt.Errorf("git tools is required")
	}

	mcpServer := mcp.NewServer(&mcp.Implementation{
		Name:    cfg.Name,
		Version: cfg.Version,
	}, nil)

	s := &Server{
		mcpServer: mcpServer,
		logger:    cfg.Logger,
		math:      cfg.Math,
		coverage:  cfg.Coverage,
		java:      cfg.Java,
		build:     cfg.Build,
		git:       cfg.Git,
	}

	if err := s.registerTools(); err != nil {
		return nil, fmt.Errorf("failed to register tools: %w", err)
	}

	return s, nil
}

// Run starts the MCP server on the given transport. It blocks until the
// context is canceled or the transport closes.
func (s *Server) Run(ctx context.Context, transport mcp.Transport) error {
	s.logger.Info("MCP server starting")
	return s.mcpServer.Run(ctx, transport)
}

func (s *Server) registerTools() error {
	for _, register := range []func() error{
		s.registerMathTools,
		s.registerCoverageTools,
		s.registerJavaTools,
		s.registerBuildTools,
		s.registerGitTools,
	} {
		if err := register(); err != nil {
			return err
		}
	}
	return nil
}
