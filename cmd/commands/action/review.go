package action

import (
	"errors"
	"fmt"
	"os"

	"nathanbeddoewebdev/chatact/internal/app"
	"nathanbeddoewebdev/chatact/internal/tui"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// ReviewCommand returns the "action review" command.
func ReviewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "review",
		Short: "Interactively approve or reject pending actions",
		Long: `Walk through the owner's pending actions one at a time and approve or
reject each. Requires an interactive terminal; set ACCESSIBLE=1 for a
screen-reader friendly prompt.

Examples:
  chatact action review --owner u1`,
		RunE:         runReview,
		SilenceUsage: true,
	}

	cmd.Flags().String("owner", "", "Owner whose actions to review (required)")
	cmd.MarkFlagRequired("owner")

	return cmd
}

func runReview(cmd *cobra.Command, args []string) error {
	owner, err := idFlag(cmd, "owner")
	if err != nil {
		return err
	}
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("review requires an interactive terminal; use \"chatact action approve\" or \"chatact action reject\" instead")
	}

	a, err := app.Load(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := commandContext(cmd)
	pending, err := a.Service.ListPendingActions(ctx, owner)
	if err != nil {
		return err
	}
	if len(pending) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No pending actions.")
		return nil
	}

	for _, record := range pending {
		approved, err := tui.ReviewAction(record)
		if errors.Is(err, tui.ErrAborted) {
			fmt.Fprintln(cmd.OutOrStdout(), "Review aborted.")
			return nil
		}
		if err != nil {
			return err
		}

		result, err := a.Service.DecideAction(ctx, record.ID, owner, approved)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Action #%d: %s\n", record.ID, result.Message)
	}
	return nil
}
