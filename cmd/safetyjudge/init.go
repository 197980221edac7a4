package main

import (
	"fmt"

	"github.com/Z-Lemke/claude-auto-learn/internal/settings"

	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Scaffold a starter settings document",
	Long:  `Write a starter .claude/settings.json in the project directory with a conservative permission set. Refuses to overwrite an existing document.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := settings.Scaffold(cfg.ProjectDir, settings.StarterPolicy())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote starter settings to %s\n", path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
