package main

import (
	"encoding/json"
	"fmt"

	"github.com/Z-Lemke/claude-auto-learn/internal/engine"

	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check <tool> <input>",
	Short: "Evaluate one tool call from the command line",
	Long: `Evaluate a single tool call without the hook transport and print the
decision. The input argument is the tool input as JSON; for Bash a plain
command string is accepted as shorthand.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		toolName := args[0]
		input := json.RawMessage(args[1])
		if !json.Valid(input) {
			if toolName != "Bash" {
				return fmt.Errorf("input must be valid JSON for tool %s", toolName)
			}
			wrapped, err := json.Marshal(map[string]string{"command": args[1]})
			if err != nil {
				return err
			}
			input = wrapped
		}

		eng, err := buildEngine(cfg)
		if err != nil {
			return err
		}

		verdict := eng.Evaluate(cmd.Context(), engine.ToolCall{
			SessionID: "cli-check",
			ToolName:  toolName,
			ToolInput: input,
		})

		fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", verdict.Decision, verdict.Reason)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
}
