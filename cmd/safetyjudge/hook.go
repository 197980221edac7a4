package main

import (
	"context"
	"log/slog"

	"github.com/Z-Lemke/claude-auto-learn/internal/engine"
	"github.com/Z-Lemke/claude-auto-learn/internal/hook"
	"github.com/Z-Lemke/claude-auto-learn/internal/logger"

	"github.com/spf13/cobra"
)

var hookCmd = &cobra.Command{
	Use:   "hook",
	Short: "Run as a PreToolUse hook",
	Long:  `Read one tool call from stdin, evaluate it, and write the permission decision to stdout. Intended to be invoked by the agent host, not by hand.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		// The hook contract is exit 0 with a decision on stdout. A non-zero
		// exit would make the host treat the gate itself as broken, so every
		// failure path degrades to an explicit deny instead.
		in, err := hook.ReadInput(cmd.InOrStdin())
		if err != nil {
			slog.Error("Unreadable hook input", "error", err)
			return hook.WriteOutput(cmd.OutOrStdout(), hook.DenyOutput("evaluation error: "+err.Error()))
		}

		eng, err := buildEngine(cfg)
		if err != nil {
			slog.Error("Engine initialization failed", "error", err)
			return hook.WriteOutput(cmd.OutOrStdout(), hook.DenyOutput("evaluation error: "+err.Error()))
		}

		ctx := logger.WithSessionID(context.Background(), in.SessionID)
		verdict := eng.Evaluate(ctx, engine.ToolCall{
			SessionID: in.SessionID,
			ToolName:  in.ToolName,
			ToolInput: in.ToolInput,
		})

		return hook.WriteOutput(cmd.OutOrStdout(), hook.Respond(verdict))
	},
}

func init() {
	rootCmd.AddCommand(hookCmd)
}
