package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/stepwise/agentcore/internal/config"
)

// buildStatusCmd creates the "status" command that reports a summary of the
// resolved configuration without starting a session.
func buildStatusCmd() *cobra.Command {
	var configPath string
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show resolved configuration status",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "provider:        %s\n", cfg.LLM.DefaultProvider)
			fmt.Fprintf(out, "tool profile:    %s\n", cfg.Tools.Execution.Approval.Profile)
			fmt.Fprintf(out, "max iterations:  %d\n", cfg.Tools.Execution.MaxIterations)
			fmt.Fprintf(out, "parallelism:     %d\n", cfg.Tools.Execution.Parallelism)
			fmt.Fprintf(out, "tracing enabled: %t\n", cfg.Observability.Tracing.Enabled)
			return nil
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", "agentcore.yaml", "Path to YAML configuration file")
	return cmd
}
