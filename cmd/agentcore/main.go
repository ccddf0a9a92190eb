// Package main provides the CLI entry point for the agentcore runtime.
//
// agentcore drives a single LLM-backed agent session from a terminal: it
// loads configuration, wires a provider and tool registry, and streams
// responses for each line of input.
//
// # Basic Usage
//
// Start an interactive chat session:
//
//	agentcore chat --config agentcore.yaml
//
// Validate a configuration file without starting a session:
//
//	agentcore config check --config agentcore.yaml
//
// # Environment Variables
//
//   - AGENTCORE_CONFIG: Path to configuration file (default: agentcore.yaml)
//   - ANTHROPIC_API_KEY: Anthropic API key for Claude models
//   - OPENAI_API_KEY: OpenAI API key for GPT models
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

// Build information, populated by ldflags during build.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	rootCmd := buildRootCmd()
	if err := rootCmd.Execute(); err != nil {
		slog.Error("command execution failed", "error", err)
		os.Exit(1)
	}
}

// buildRootCmd creates the root command with all subcommands attached.
// This is separated from main() to facilitate testing.
func buildRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "agentcore",
		Short: "agentcore - a single-agent LLM runtime",
		Long: `agentcore loads a provider, a tool registry, and a session store from a
YAML config file and drives an agent conversation loop.

Supported LLM providers: Anthropic, OpenAI, AWS Bedrock
Supported tools: registered via internal/agent.Tool implementations`,
		Version:      fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		SilenceUsage: true,
	}

	rootCmd.AddCommand(
		buildChatCmd(),
		buildConfigCmd(),
		buildStatusCmd(),
	)

	return rootCmd
}
