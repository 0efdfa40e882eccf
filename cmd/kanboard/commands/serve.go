package commands

import (
	"kanboard/internal/config"
	"kanboard/internal/printer"
	"kanboard/internal/server"

	"github.com/spf13/cobra"
)

var servePort string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP and websocket server",
	Long: `Start the API server and block until SIGINT or SIGTERM.

STORAGE=postgres keeps workspaces in PostgreSQL. Run "kanboard migrate up"
first. The default STORAGE=memory keeps everything in process.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVarP(&servePort, "port", "p", "", "Port to listen on (overrides SERVER_PORT)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	if servePort != "" {
		cfg.ServerPort = servePort
	}

	printer.Step("Starting kanboard with %s storage\n", cfg.Storage)
	s, err := server.Init(cfg)
	if err != nil {
		return printer.ErrorWithContext(
			"Server initialization failed",
			err.Error(),
			map[string]string{"Storage": cfg.Storage, "Redis": cfg.RedisAddr},
			[]string{
				"Check the DB_* and REDIS_ADDR settings",
				"Run 'kanboard migrate up' against a fresh database",
			},
		)
	}

	s.Run()
	return nil
}
