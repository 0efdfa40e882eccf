package main

import (
	"os"

	"kanboard/cmd/kanboard/commands"
	_ "kanboard/docs"
)

var version = "dev"

// @title           Kanboard API
// @version         1.0
// @description     API for workspaces, kanban boards and drag-and-drop card ordering.

// @contact.name   octaview
// @contact.url    t.me/octaview
// @contact.email  octaviewes@gmail.com

// @host      localhost:8080
// @BasePath  /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @schemes http
func main() {
	commands.SetVersion(version)

	// errors are already printed by the printer package
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
