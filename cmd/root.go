package cmd

import (
	"os"

	"nathanbeddoewebdev/chatact/cmd/commands/action"
	"nathanbeddoewebdev/chatact/cmd/commands/audit"
	cfgcmd "nathanbeddoewebdev/chatact/cmd/commands/config"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands.
func rootCmd() *cobra.Command {
	var cmd = &cobra.Command{
		Use:   "chatact",
		Short: "Turn chat messages into approved tasks, schedules, habits and notes",
		Long: `chatact reads chat turns, detects when the user asks for a task, schedule,
habit or note, and stores the request as an action. Actions wait for the
owner's approval unless the auto-execution policy allows them, and every
status change is written to a local audit trail.

Quick start:
  chatact chat "buat tugas laporan besok" --owner u1 --conversation c1
  chatact action pending --owner u1      # Actions awaiting a decision
  chatact action approve 1 --owner u1    # Create the task
  chatact audit list                     # Review what happened`,
	}

	cmd.AddCommand(action.ChatCommand())
	cmd.AddCommand(action.NewCommand())
	cmd.AddCommand(audit.NewCommand())
	cmd.AddCommand(cfgcmd.NewCommand())

	return cmd
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	var root = rootCmd()
	err := root.Execute()
	if err != nil {
		os.Exit(1)
	}
}
