package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/saiyolab/lpengine/internal/server"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the page server",
	Long:  `Start an HTTP server that serves the public LP and recruit pages, the editor settings API and the live preview socket.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 8080, "Port to listen on")
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	gasEndpoint := os.Getenv("GAS_ENDPOINT")
	if gasEndpoint == "" {
		return fmt.Errorf("GAS_ENDPOINT environment variable is required")
	}

	previewSecret := os.Getenv("PREVIEW_SECRET")
	if previewSecret == "" {
		return fmt.Errorf("PREVIEW_SECRET environment variable is required")
	}

	cfg := server.Config{
		Port:          servePort,
		GASEndpoint:   gasEndpoint,
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		RedisAddr:     os.Getenv("REDIS_ADDR"),
		SheetsAPIKey:  os.Getenv("SHEETS_API_KEY"),
		SpreadsheetID: os.Getenv("SPREADSHEET_ID"),
		PreviewSecret: previewSecret,
		AssetVersion:  os.Getenv("ASSET_VERSION"),
	}

	srv, err := server.New(cfg)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Start()
}
