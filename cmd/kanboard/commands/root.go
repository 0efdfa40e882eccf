package commands

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "kanboard",
	Short: "Kanboard - workspaces and kanban boards",
	Long: `Kanboard serves workspaces of kanban boards over HTTP, with live
drag-and-drop ordering of lists and cards over websockets.

Configuration is read from the environment and from a .env file in the
working directory.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

// Execute runs the root command.
func Execute() error {
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true
	return rootCmd.Execute()
}

func SetVersion(v string) {
	rootCmd.Version = v
}
