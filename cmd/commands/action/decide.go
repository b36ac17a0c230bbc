package action

import (
	"fmt"

	"nathanbeddoewebdev/chatact/internal/app"
	"nathanbeddoewebdev/chatact/internal/tui/styles"

	"github.com/spf13/cobra"
)

// ApproveCommand returns the "action approve" command.
func ApproveCommand() *cobra.Command {
	return decideCommand(true, "approve <id>", "Approve and run a requested action",
		`Approve a requested action and create its entity.

Examples:
  chatact action approve 12 --owner u1`)
}

// RejectCommand returns the "action reject" command.
func RejectCommand() *cobra.Command {
	return decideCommand(false, "reject <id>", "Reject a requested action",
		`Reject a requested action. Nothing is created.

Examples:
  chatact action reject 12 --owner u1`)
}

func decideCommand(approved bool, use, short, long string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Long:  long,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDecide(cmd, args[0], approved)
		},
		SilenceUsage: true,
	}

	cmd.Flags().String("owner", "", "Owner of the action (required)")
	cmd.MarkFlagRequired("owner")

	return cmd
}

func runDecide(cmd *cobra.Command, rawID string, approved bool) error {
	id, err := parseActionID(rawID)
	if err != nil {
		return err
	}
	owner, err := idFlag(cmd, "owner")
	if err != nil {
		return err
	}

	a, err := app.Load(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer a.Close()

	result, err := a.Service.DecideAction(commandContext(cmd), id, owner, approved)
	if err != nil {
		return err
	}

	style := styles.SuccessText
	if !result.Success {
		style = styles.ErrorText
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Action #%d: %s\n", id, style.Render(result.Message))
	return nil
}
