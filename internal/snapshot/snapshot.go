// Package snapshot captures rendered pages with a headless browser. Used for
// publish checks and for handing a static image of an LP to an advertiser.
// Requires Chrome/Chromium to be installed on the system.
package snapshot

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

// DefaultTimeout bounds a single capture, including browser startup.
const DefaultTimeout = 60 * time.Second

// Options control one capture.
type Options struct {
	// Width is the viewport width in pixels; 0 means 1280.
	Width int64
	// Timeout bounds the capture; 0 means DefaultTimeout.
	Timeout time.Duration
	Verbose bool
}

// CapturePNG renders the URL and returns a full-page screenshot.
func CapturePNG(ctx context.Context, url string, opts Options) ([]byte, error) {
	var buf []byte
	err := run(ctx, url, opts, chromedp.FullScreenshot(&buf, 90))
	if err != nil {
		return nil, fmt.Errorf("screenshot failed: %w", err)
	}
	return buf, nil
}

// CapturePDF renders the URL and returns a PDF of the page.
func CapturePDF(ctx context.Context, url string, opts Options) ([]byte, error) {
	var buf []byte
	err := run(ctx, url, opts, chromedp.ActionFunc(func(ctx context.Context) error {
		var err error
		buf, _, err = page.PrintToPDF().WithPrintBackground(true).Do(ctx)
		return err
	}))
	if err != nil {
		return nil, fmt.Errorf("pdf capture failed: %w", err)
	}
	return buf, nil
}

func run(ctx context.Context, url string, opts Options, capture chromedp.Action) error {
	width := opts.Width
	if width == 0 {
		width = 1280
	}
	timeout := opts.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}

	if opts.Verbose {
		log.Printf("[SNAPSHOT] Starting headless browser for: %s", url)
	}

	allocCtx, cancel := chromedp.NewExecAllocator(ctx,
		append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", true),
			chromedp.Flag("disable-gpu", true),
			chromedp.Flag("no-sandbox", true),
			chromedp.Flag("disable-dev-shm-usage", true),
		)...,
	)
	defer cancel()

	browserCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	browserCtx, cancel = context.WithTimeout(browserCtx, timeout)
	defer cancel()

	return chromedp.Run(browserCtx,
		chromedp.EmulateViewport(width, 800),
		chromedp.Navigate(url),
		chromedp.WaitReady("body"),
		// Give the hydration script time to set up carousels and galleries
		// before capturing.
		chromedp.Sleep(2*time.Second),
		capture,
	)
}
