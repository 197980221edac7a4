package main

import (
	"fmt"
	"os"

	"github.com/Z-Lemke/claude-auto-learn/internal/settings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var policyCmd = &cobra.Command{
	Use:   "policy",
	Short: "Manage permission rules",
	Long:  `Inspect the merged permission rules gathered from project and home settings documents.`,
}

var policyShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the merged permission rules",
	Long:  `Display the effective allow, deny, and ask rules after merging settings layers, plus the documents consulted.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		loader := settings.NewLoader(cfg.ProjectDir)

		fmt.Fprintln(cmd.OutOrStdout(), "=== Settings documents (highest priority first) ===")
		for _, path := range loader.CandidatePaths() {
			marker := " "
			if _, err := os.Stat(path); err == nil {
				marker = "*"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", marker, path)
		}

		merged := loader.Load()
		data, err := yaml.Marshal(merged)
		if err != nil {
			return fmt.Errorf("failed to render policy: %w", err)
		}

		fmt.Fprintln(cmd.OutOrStdout(), "\n=== Merged permission rules ===")
		fmt.Fprint(cmd.OutOrStdout(), string(data))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(policyCmd)
	policyCmd.AddCommand(policyShowCmd)
}
