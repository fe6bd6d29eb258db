package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"person-web-service/cmd/api/app"
	"person-web-service/cmd/api/server"
)

var configPath string

// rootCmd serves the web application when run without a subcommand.
var rootCmd = &cobra.Command{
	Use:   "person-web",
	Short: "Person registry web application",
	Long: `person-web serves an HTML form that validates and stores people
(first name, last name, email), lists them, and exposes a parameterized
first-name search.

Configuration is read from app.env in the config directory and from the
environment. Run without a subcommand to start the server.`,
	SilenceUsage: true,
	RunE:         runServe,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE:  runServe,
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the first_app table and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		return app.Migrate(configPath)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "directory containing app.env (default $CONFIG_PATH or .)")
	rootCmd.AddCommand(serveCmd, migrateCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := server.WithSignal(cmd.Context())
	defer stop()

	a, err := app.New(ctx, configPath)
	if err != nil {
		return err
	}
	return a.Run(ctx)
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "application exited with error:", err)
		os.Exit(1)
	}
}
