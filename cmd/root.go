package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command for the dept-hour-booking-mcp application
var rootCmd = &cobra.Command{
	Use:   "dept-hour-booking-mcp",
	Short: "MCP server for booking hours in the Dept time-tracking API",
	Long: `dept-hour-booking-mcp is a Model Context Protocol (MCP) server that lets AI
assistants book, update, delete and review hours in the Dept time-tracking API.

Bookings are made on behalf of the Google account that signs in through the
local OAuth callback receiver. Budgets, activities and projects are inferred
from the booking description when they are not given explicitly.`,
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
	rootCmd.SetVersionTemplate(`{{printf "dept-hour-booking-mcp version %s\n" .Version}}`)

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newGenerateDocsCmd())
}
