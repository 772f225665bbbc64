// Package main provides the entry point for the page engine CLI and server.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "lpengine",
	Short: "Recruit page engine",
	Long:  "lpengine composes and serves job landing pages and company recruit pages from spreadsheet-backed settings records, with a live-preview editor API.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
