package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/stepwise/agentcore/internal/agent"
	"github.com/stepwise/agentcore/internal/config"
	"github.com/stepwise/agentcore/pkg/models"
)

// buildChatCmd creates the "chat" command that runs an interactive session
// against a configured provider, reading one message per line from stdin.
func buildChatCmd() *cobra.Command {
	var (
		configPath string
		provider   string
		agentID    string
	)

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Start an interactive chat session",
		Long: `Start an interactive agent session.

Each line of stdin is sent as a user message; the response streams to stdout.
The session ends on EOF or SIGINT.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			return runChat(cmd.Context(), cfg, provider, agentID, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "agentcore.yaml", "Path to YAML configuration file")
	cmd.Flags().StringVar(&provider, "provider", "", "Provider override (defaults to llm.default_provider)")
	cmd.Flags().StringVar(&agentID, "agent", "cli-session", "Agent identifier for the session")

	return cmd
}

func runChat(ctx context.Context, cfg *config.Config, provider, agentID string, in io.Reader, out io.Writer) error {
	built, err := buildRuntime(cfg, provider)
	if err != nil {
		return err
	}
	defer built.shutdown()

	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	session, err := built.sessionStore.GetOrCreate(ctx, agentID, agentID, models.ChannelCLI, "stdin")
	if err != nil {
		return fmt.Errorf("create session: %w", err)
	}

	ctx = agent.WithToolPolicy(ctx, built.policyRes, built.toolPolicy)

	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}

		msg := &models.Message{
			ID:        uuid.NewString(),
			SessionID: session.ID,
			Role:      models.RoleUser,
			Content:   line,
			Direction: models.DirectionInbound,
		}

		chunks, err := built.runtime.Process(ctx, session, msg)
		if err != nil {
			built.logger.Error(ctx, "process failed", "error", err)
			continue
		}

		for chunk := range chunks {
			if chunk.Error != nil {
				built.logger.Error(ctx, "stream error", "error", chunk.Error)
				break
			}
			if chunk.Text != "" {
				fmt.Fprint(out, chunk.Text)
			}
		}
		fmt.Fprintln(out)

		if ctx.Err() != nil {
			break
		}
	}
	return scanner.Err()
}
