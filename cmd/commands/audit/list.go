package audit

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"nathanbeddoewebdev/chatact/internal/app"
	"nathanbeddoewebdev/chatact/internal/auditlog"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func ListCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent audit entries",
		Long: `List recent audit entries stored locally, newest first.

Examples:
  chatact audit list
  chatact audit list --limit 50
  chatact audit list --action 12
  chatact audit list -o json`,
		RunE:         runList,
		SilenceUsage: true,
	}

	cmd.Flags().Int("limit", 25, "Number of entries to display")
	cmd.Flags().Int64("action", 0, "Only show entries for this action id")
	cmd.Flags().StringP("output", "o", "table", "Output format: table, json or yaml")

	return cmd
}

func runList(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")
	if limit <= 0 {
		return fmt.Errorf("limit must be greater than 0")
	}

	actionID, _ := cmd.Flags().GetInt64("action")
	if actionID < 0 {
		return fmt.Errorf("action must be a positive id")
	}
	output, _ := cmd.Flags().GetString("output")
	if output == "" {
		output = "table"
	}
	if output != "table" && output != "json" && output != "yaml" {
		return fmt.Errorf("unsupported output format %q", output)
	}

	a, err := app.Load(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer a.Close()

	var entries []auditlog.AuditEntry
	if actionID > 0 {
		entries, err = a.Audit.ListByAction(cmd.Context(), actionID, limit)
	} else {
		entries, err = a.Audit.List(cmd.Context(), limit)
	}
	if err != nil {
		return err
	}

	switch output {
	case "json":
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		return encoder.Encode(entries)
	case "yaml":
		encoder := yaml.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent(2)
		if err := encoder.Encode(entries); err != nil {
			return err
		}
		return encoder.Close()
	}

	if len(entries) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No audit entries found.")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TIME\tACTION\tKIND\tSTATUS\tACTOR\tOUTCOME\tDETAIL")
	fmt.Fprintln(w, "----\t------\t----\t------\t-----\t-------\t------")
	for _, entry := range entries {
		timeStr := entry.Timestamp.Local().Format("2006-01-02 15:04:05")
		detail := entry.Detail
		if detail == "" {
			detail = "-"
		}

		fmt.Fprintf(w, "%s\t%d\t%s\t%s\t%s\t%s\t%s\n",
			timeStr,
			entry.ActionID,
			entry.Kind,
			formatTransition(entry),
			orDash(entry.Actor),
			entry.Outcome,
			detail,
		)
	}
	return w.Flush()
}

func formatTransition(entry auditlog.AuditEntry) string {
	if entry.FromStatus == "" {
		return entry.ToStatus
	}
	return entry.FromStatus + " -> " + entry.ToStatus
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
