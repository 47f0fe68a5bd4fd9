// Package cmd wires the CLI commands.
package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "testing-agent",
	Short: "MCP tool server for agent-driven Java test workflows",
	Long: `testing-agent exposes a set of tools over the Model Context Protocol:
arithmetic helpers, Java source inspection and review, JaCoCo coverage
analysis, Maven test execution, and a git commit, push, and pull request
workflow.

Running testing-agent with no arguments starts the MCP server on the
stdio transport. Connect it from an MCP-capable agent or IDE.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
