package action

import (
	"fmt"

	"nathanbeddoewebdev/chatact/internal/app"

	"github.com/spf13/cobra"
)

// PendingCommand returns the "action pending" command.
func PendingCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pending",
		Short: "List actions awaiting a decision",
		Long: `List the owner's requested actions, newest first.

The number of actions shown is capped by the pending-limit setting.

Examples:
  chatact action pending --owner u1
  chatact action pending --owner u1 -o yaml`,
		RunE:         runPending,
		SilenceUsage: true,
	}

	cmd.Flags().String("owner", "", "Owner whose actions to list (required)")
	cmd.Flags().StringP("output", "o", "table", "Output format: table, json or yaml")
	cmd.MarkFlagRequired("owner")

	return cmd
}

// HistoryCommand returns the "action history" command.
func HistoryCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List every action of a conversation",
		Long: `List every action detected in a conversation, newest first.

Examples:
  chatact action history --conversation c1
  chatact action history --conversation c1 -o json`,
		RunE:         runHistory,
		SilenceUsage: true,
	}

	cmd.Flags().String("conversation", "", "Conversation identifier (required)")
	cmd.Flags().StringP("output", "o", "table", "Output format: table, json or yaml")
	cmd.MarkFlagRequired("conversation")

	return cmd
}

func runPending(cmd *cobra.Command, args []string) error {
	owner, err := idFlag(cmd, "owner")
	if err != nil {
		return err
	}
	output, _ := cmd.Flags().GetString("output")
	if err := checkFormat(output); err != nil {
		return err
	}

	a, err := app.Load(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer a.Close()

	records, err := a.Service.ListPendingActions(commandContext(cmd), owner)
	if err != nil {
		return err
	}
	if output == "table" && len(records) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No pending actions.")
		return nil
	}
	return printRecords(cmd, output, records)
}

func runHistory(cmd *cobra.Command, args []string) error {
	conversation, err := idFlag(cmd, "conversation")
	if err != nil {
		return err
	}
	output, _ := cmd.Flags().GetString("output")
	if err := checkFormat(output); err != nil {
		return err
	}

	a, err := app.Load(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer a.Close()

	records, err := a.Service.ListConversationActions(commandContext(cmd), conversation)
	if err != nil {
		return err
	}
	if output == "table" && len(records) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No actions found.")
		return nil
	}
	return printRecords(cmd, output, records)
}
