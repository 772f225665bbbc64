package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/saiyolab/lpengine/internal/snapshot"
)

var (
	snapshotURL     string
	snapshotOut     string
	snapshotFormat  string
	snapshotWidth   int64
	snapshotTimeout time.Duration
	snapshotVerbose bool
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Capture a rendered page with a headless browser",
	Long: `Render a page URL in headless Chrome and save a full-page screenshot or
PDF. Useful for publish checks and for handing a static copy of an LP to an
advertiser. Requires Chrome/Chromium to be installed.`,
	RunE: runSnapshot,
}

func init() {
	snapshotCmd.Flags().StringVar(&snapshotURL, "url", "", "Page URL to capture (required)")
	snapshotCmd.Flags().StringVarP(&snapshotOut, "out", "o", "", "Output file (required)")
	snapshotCmd.Flags().StringVar(&snapshotFormat, "format", "png", "Output format: png or pdf")
	snapshotCmd.Flags().Int64Var(&snapshotWidth, "width", 1280, "Viewport width in pixels")
	snapshotCmd.Flags().DurationVar(&snapshotTimeout, "timeout", snapshot.DefaultTimeout, "Capture timeout")
	snapshotCmd.Flags().BoolVarP(&snapshotVerbose, "verbose", "v", false, "Verbose logging")
	_ = snapshotCmd.MarkFlagRequired("url")
	_ = snapshotCmd.MarkFlagRequired("out")
	rootCmd.AddCommand(snapshotCmd)
}

func runSnapshot(_ *cobra.Command, _ []string) error {
	opts := snapshot.Options{
		Width:   snapshotWidth,
		Timeout: snapshotTimeout,
		Verbose: snapshotVerbose,
	}

	var (
		data []byte
		err  error
	)
	switch snapshotFormat {
	case "png":
		data, err = snapshot.CapturePNG(context.Background(), snapshotURL, opts)
	case "pdf":
		data, err = snapshot.CapturePDF(context.Background(), snapshotURL, opts)
	default:
		return fmt.Errorf("unknown format %q (want png or pdf)", snapshotFormat)
	}
	if err != nil {
		return err
	}

	if err := os.WriteFile(snapshotOut, data, 0o644); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	fmt.Printf("Wrote %d bytes to %s\n", len(data), snapshotOut)
	return nil
}
