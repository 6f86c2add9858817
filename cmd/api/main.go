package main

import (
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/notehub/core/cmd/api/commands"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "notehub",
		Short: "NoteHub API Server",
		Long:  `NoteHub is a notes backend with per-user storage, account signup and due-date push notifications.`,
	}

	rootCmd.AddCommand(commands.NewServeCommand())
	rootCmd.AddCommand(commands.NewDispatchCommand())
	rootCmd.AddCommand(commands.NewMigrateCommand())
	rootCmd.AddCommand(commands.NewVersionCommand())

	if err := rootCmd.Execute(); err != nil {
		log.Printf("Command execution failed: %v", err)
		os.Exit(1)
	}
}
