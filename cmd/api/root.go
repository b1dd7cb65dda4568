package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "ams-api",
	Short: "Appointment back-office API",
	Long:  `Back-office API for the appointment lifecycle: status changes,
staff assignment and completion records with product usage.`,
	// serve is the default so the binary can run without arguments.
	RunE: serveCmd.RunE,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(serveCmd, migrateCmd, createUserCmd)
}
