package action

import (
	"fmt"
	"strings"

	"nathanbeddoewebdev/chatact/internal/app"
	"nathanbeddoewebdev/chatact/internal/util"

	"github.com/spf13/cobra"
)

// PruneCommand returns the "action prune" command.
func PruneCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Delete finished actions older than a duration",
		Long: `Delete completed, failed and rejected actions older than a duration.
Requested actions are never pruned.

Examples:
  chatact action prune --older-than 30d
  chatact action prune --older-than 72h`,
		RunE:         runPrune,
		SilenceUsage: true,
	}

	cmd.Flags().String("older-than", "", "Remove actions older than this duration (e.g. 30d, 72h)")

	return cmd
}

func runPrune(cmd *cobra.Command, args []string) error {
	raw, _ := cmd.Flags().GetString("older-than")
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fmt.Errorf("--older-than is required")
	}
	olderThan, err := util.ParseAge(raw)
	if err != nil {
		return err
	}

	a, err := app.Load(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer a.Close()

	removed, err := a.Service.Cleanup(commandContext(cmd), olderThan)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Removed %d action(s).\n", removed)
	return nil
}
