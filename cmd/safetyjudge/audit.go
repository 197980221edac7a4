package main

import (
	"fmt"
	"time"

	"github.com/Z-Lemke/claude-auto-learn/internal/audit"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"
	"github.com/spf13/cobra"
)

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Inspect the decision audit log",
}

var auditListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded decisions",
	Long:  `List audit records, newest last, optionally filtered by session, tool, or decision.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !cfg.Audit.Enabled {
			return fmt.Errorf("audit logging is disabled")
		}

		sessionID, _ := cmd.Flags().GetString("session")
		toolName, _ := cmd.Flags().GetString("tool")
		decision, _ := cmd.Flags().GetString("decision")
		since, _ := cmd.Flags().GetString("since")
		limit, _ := cmd.Flags().GetInt("limit")

		filter := &audit.Filter{
			SessionID: sessionID,
			ToolName:  toolName,
			Decision:  decision,
		}
		if since != "" {
			d, err := time.ParseDuration(since)
			if err != nil {
				return fmt.Errorf("parse --since: %w", err)
			}
			filter.StartTime = time.Now().UTC().Add(-d)
		}

		logger := audit.NewLogger(cfg.Audit.Path, nil)
		records, err := logger.Query(cmd.Context(), filter)
		if err != nil {
			return fmt.Errorf("failed to read audit log: %w", err)
		}
		if limit > 0 && len(records) > limit {
			records = records[len(records)-limit:]
		}

		fmt.Fprintln(cmd.OutOrStdout(), formatRecords(records))
		return nil
	},
}

func formatRecords(records []*audit.Record) string {
	if len(records) == 0 {
		return "No audit records found"
	}

	purple := lipgloss.Color("99")
	gray := lipgloss.Color("245")
	lightGray := lipgloss.Color("241")

	headerStyle := lipgloss.NewStyle().
		Foreground(purple).
		Bold(true).
		Align(lipgloss.Center).
		Padding(0, 1)
	oddRowStyle := lipgloss.NewStyle().
		Foreground(gray).
		Padding(0, 1)
	evenRowStyle := lipgloss.NewStyle().
		Foreground(lightGray).
		Padding(0, 1)

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(purple)).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case row%2 == 0:
				return evenRowStyle
			default:
				return oddRowStyle
			}
		}).
		Headers("Time", "Session", "Tool", "Decision", "Reason")

	for _, rec := range records {
		t.Row(
			rec.Timestamp.Format(time.RFC3339),
			truncateString(rec.SessionID, 12),
			truncateString(rec.ToolName, 14),
			rec.Decision,
			truncateString(rec.Reason, 48),
		)
	}

	return t.String()
}

func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}

func init() {
	rootCmd.AddCommand(auditCmd)
	auditCmd.AddCommand(auditListCmd)
	auditListCmd.Flags().String("session", "", "Filter by session ID")
	auditListCmd.Flags().String("tool", "", "Filter by tool name")
	auditListCmd.Flags().String("decision", "", "Filter by decision (allow, deny, ask)")
	auditListCmd.Flags().String("since", "", "Only records newer than this duration (e.g. 24h)")
	auditListCmd.Flags().IntP("limit", "n", 50, "Maximum records to show")
}
