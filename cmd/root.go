package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command for the instameet application
var rootCmd = &cobra.Command{
	Use:   "instameet",
	Short: "One-click Google Meet links backed by Google Calendar",
	Long: `instameet is a small web service that signs users in with Google and
creates instant Google Meet meetings on their primary calendar.

Run it with the serve command (the default) and point a browser at /home.`,
	SilenceUsage: true,
}

// version will be set by main
var version = "dev"

// SetVersion sets the version for the root command
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

// Execute is the main entry point for the CLI application
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "instameet version %s\n" .Version}}`)

	// If no subcommand is provided, run the serve command by default
	if len(os.Args) == 1 {
		os.Args = append(os.Args, "serve")
	}

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newVersionCmd())
}
