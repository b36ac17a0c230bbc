package action

import (
	"context"
	"fmt"
	"strconv"

	"nathanbeddoewebdev/chatact/internal/auditlog"
	"nathanbeddoewebdev/chatact/internal/util"

	"github.com/spf13/cobra"
)

// NewCommand returns the "action" parent command.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "action",
		Short: "Review and decide requested actions",
		Long: "List, approve and reject the actions detected in chat turns.\n\n" +
			"Actions are stored locally in ~/.config/chatact/chatact.db.",
		SilenceUsage: true,
	}

	cmd.AddCommand(PendingCommand())
	cmd.AddCommand(HistoryCommand())
	cmd.AddCommand(ApproveCommand())
	cmd.AddCommand(RejectCommand())
	cmd.AddCommand(ReviewCommand())
	cmd.AddCommand(PruneCommand())

	return cmd
}

// commandContext tags ctx with the command path for audit entries.
func commandContext(cmd *cobra.Command) context.Context {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return auditlog.WithMetadata(ctx, auditlog.Metadata{Command: cmd.CommandPath()})
}

// idFlag reads and validates a string identifier flag.
func idFlag(cmd *cobra.Command, name string) (string, error) {
	value, _ := cmd.Flags().GetString(name)
	if err := util.ValidateID(name, value); err != nil {
		return "", err
	}
	return value, nil
}

func parseActionID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid action id %q", raw)
	}
	return id, nil
}
