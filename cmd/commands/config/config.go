package config

import (
	"nathanbeddoewebdev/chatact/internal/config"

	"github.com/spf13/cobra"
)

// NewCommand returns the "config" parent command.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage chatact configuration",
		Long: "View and modify persistent chatact settings.\n\n" +
			"Configuration is stored at ~/.config/chatact/config.json.\n\n" +
			config.KeysHelp(),
	}

	cmd.AddCommand(SetCommand())
	cmd.AddCommand(GetCommand())

	return cmd
}
