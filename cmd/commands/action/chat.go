package action

import (
	"fmt"
	"strings"

	"nathanbeddoewebdev/chatact/internal/app"
	"nathanbeddoewebdev/chatact/internal/domain"

	"github.com/spf13/cobra"
)

// ChatCommand returns the top-level "chat" command.
func ChatCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chat <message>",
		Short: "Detect an action in a chat message",
		Long: `Run one chat turn through intent detection.

When the message asks for a task, schedule, habit or note, the action is
stored as requested. Schedules and habits the policy allows are created
immediately; everything else waits for "chatact action approve".

Examples:
  chatact chat "buat tugas laporan keuangan besok" --owner u1 --conversation c1
  chatact chat "ya" --reply "Mau saya jadwalkan rapat tim besok jam 10?" --owner u1 --conversation c1
  chatact chat "catat ide aplikasi baru" --owner u1 --conversation c1 -o json`,
		Args:         cobra.ExactArgs(1),
		RunE:         runChat,
		SilenceUsage: true,
	}

	cmd.Flags().String("owner", "", "Owner of the conversation (required)")
	cmd.Flags().String("conversation", "", "Conversation identifier (required)")
	cmd.Flags().String("reply", "", "Assistant reply the message responds to")
	cmd.Flags().StringP("output", "o", "table", "Output format: table, json or yaml")
	cmd.MarkFlagRequired("owner")
	cmd.MarkFlagRequired("conversation")

	return cmd
}

func runChat(cmd *cobra.Command, args []string) error {
	message := strings.TrimSpace(args[0])
	if message == "" {
		return fmt.Errorf("message must not be empty")
	}
	owner, err := idFlag(cmd, "owner")
	if err != nil {
		return err
	}
	conversation, err := idFlag(cmd, "conversation")
	if err != nil {
		return err
	}
	reply, _ := cmd.Flags().GetString("reply")
	output, _ := cmd.Flags().GetString("output")
	if err := checkFormat(output); err != nil {
		return err
	}

	a, err := app.Load(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := commandContext(cmd)
	record, err := a.Service.DetectAndRequestAction(ctx, message, reply, owner, conversation)
	if err != nil {
		return err
	}
	a.Service.RecordConversation(ctx, owner, message)

	if record == nil {
		fmt.Fprintln(cmd.OutOrStdout(), "No action detected.")
		return nil
	}
	if err := printRecord(cmd, output, record); err != nil {
		return err
	}
	if output == "table" && record.Status == domain.StatusRequested {
		fmt.Fprintf(cmd.OutOrStdout(), "\nApprove with: chatact action approve %d --owner %s\n", record.ID, owner)
	}
	return nil
}
