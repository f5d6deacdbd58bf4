package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"

	"lps/internal/browser"
	"lps/internal/config"
	"lps/internal/display"
	"lps/internal/formatter"
	"lps/internal/logging"
	"lps/internal/scraper"
	"lps/internal/search"
	_ "lps/internal/sites/ebay"

	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	cfg := config.Load()
	var interactive, showUI bool

	var rootCmd = &cobra.Command{
		Use:     "lps [query]",
		Short:   "Search marketplace listings from the command line",
		Version: version,
		Long: `lps searches a marketplace with a headless browser and streams the
listings it finds as they are discovered. A bare number is searched as
"<prefix> <number>". In interactive mode every line starts a new search and
cancels the previous one.`,
		Example: `  # Search for a pet number (sent as "LPS 123")
  lps 123

  # Search by name with Chrome and export the listings as CSV
  lps --browser chrome "vintage car" -o cars.csv

  # Interactive mode: type queries, :stop, :clear or :quit
  lps -i`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 && !interactive {
				cmd.Help()
				os.Exit(0)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if showUI {
				cfg.Headless = false
			}
			if cfg.Output != "" && !cmd.Flags().Changed("format") {
				if inferred := formatter.InferFormat(cfg.Output); inferred != "" {
					cfg.Format = inferred
				}
			}
			return run(cmd.Context(), cfg, interactive, strings.Join(args, " "))
		},
		SilenceUsage: true,
	}

	flags := rootCmd.Flags()
	flags.BoolVarP(&interactive, "interactive", "i", false, "Read queries from stdin, one search per line")
	flags.StringVar(&cfg.Browser, "browser", cfg.Browser, "Browser to use: chrome or firefox (default is determined by OS)")
	flags.StringVar(&cfg.Site, "site", cfg.Site, "Marketplace to search")
	flags.StringVar(&cfg.Prefix, "prefix", cfg.Prefix, "Prefix for numeric queries")
	flags.StringVarP(&cfg.Format, "format", "f", cfg.Format, "Output format (text, markdown, html, json, csv)")
	flags.StringVarP(&cfg.Output, "output", "o", cfg.Output, "Output file path (format inferred from extension if -f not specified)")
	flags.BoolVarP(&cfg.Debug, "debug", "d", cfg.Debug, "Enable basic debug logging")
	flags.BoolVarP(&cfg.Advanced, "advanced", "a", cfg.Advanced, "Enable advanced debug logging")
	flags.StringVarP(&cfg.ProxyURL, "proxy", "p", cfg.ProxyURL, "Proxy URL (e.g. http://127.0.0.1:7890), defaults to LPS_PROXY env var")
	flags.BoolVar(&cfg.DownloadBrowser, "download-browser", cfg.DownloadBrowser, "Download a managed Chromium when Chrome is not installed")
	flags.DurationVar(&cfg.PageTimeout, "page-timeout", cfg.PageTimeout, "Page load timeout")
	flags.DurationVar(&cfg.ImageWait, "image-wait", cfg.ImageWait, "How long to wait for a listing's zoom image")
	flags.DurationVar(&cfg.ShutdownTimeout, "shutdown-timeout", cfg.ShutdownTimeout, "How long to wait for a running search on exit")
	flags.DurationVar(&cfg.Tick, "tick", cfg.Tick, "Result polling interval")
	flags.BoolVar(&showUI, "showui", false, "Show browser UI (disable headless mode)")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, interactive bool, query string) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := logging.New(os.Stderr, cfg.Debug, cfg.Advanced)

	kind, err := cfg.BrowserKind(runtime.GOOS)
	if err != nil {
		return err
	}
	site, ok := scraper.Get(cfg.Site)
	if !ok {
		return fmt.Errorf("unknown site: %s (known: %s)", cfg.Site, strings.Join(scraper.Names(), ", "))
	}

	// Sessions live until every search has been stopped, not just until
	// the signal context is cancelled.
	appCtx, cancel := context.WithCancel(context.Background())
	pool := browser.NewPool(cfg.BrowserConfig(), logger)

	collector := display.NewCollector()
	renderers := display.Multi{collector}
	stream := interactive || (cfg.Output == "" && cfg.Format == "text")
	if stream {
		renderers = append(renderers, display.NewTerminal(os.Stdout))
	}

	consumer := search.NewConsumer(renderers, site.IsPlaceholder, logger)
	ctrl := search.NewController(appCtx, pool, site, consumer, cfg.SearchOptions(kind), logger)

	logger.Debug("starting",
		slog.String("version", version),
		slog.String("browser", kind.String()),
		slog.String("site", site.Name()))

	if interactive {
		err = runInteractive(ctx, ctrl, consumer, cfg, os.Stdin, os.Stdout)
	} else {
		err = runOnce(ctx, ctrl, consumer, collector, cfg, query, stream)
	}

	ctrl.Shutdown(cfg.ShutdownTimeout)
	cancel()
	if cerr := pool.Close(); cerr != nil {
		logger.Warn("failed to close browser sessions", slog.String("error", cerr.Error()))
	}
	if interactive && err == nil && cfg.Output != "" {
		if req, ok := ctrl.Current(); ok && len(collector.Listings()) > 0 {
			if !collector.Completed() {
				logger.Warn("exporting listings of an unfinished search", slog.String("query", req.Query))
			}
			err = export(collector, cfg, req.Query, false)
		}
	}
	logger.Info("shutdown complete")
	return err
}

func runOnce(ctx context.Context, ctrl *search.Controller, consumer *search.Consumer, collector *display.Collector, cfg config.Config, query string, streamed bool) error {
	req, ok := ctrl.Submit(query)
	if !ok {
		return errors.New("search query is empty")
	}
	if err := consumer.Run(ctx, cfg.Tick); err != nil {
		return fmt.Errorf("search interrupted: %w", err)
	}
	if errs := collector.Errors(); len(errs) > 0 && len(collector.Listings()) == 0 {
		return errors.Join(errs...)
	}
	return export(collector, cfg, req.Query, streamed)
}

// export writes the collected listings to the output file, or to stdout
// when they were not already streamed there.
func export(collector *display.Collector, cfg config.Config, query string, streamed bool) error {
	if cfg.Output == "" && streamed {
		return nil
	}
	out, err := formatter.Format(collector.Content(query), cfg.Format)
	if err != nil {
		return fmt.Errorf("failed to format output: %w", err)
	}
	if cfg.Output == "" {
		fmt.Println(out)
		return nil
	}
	if err := os.WriteFile(cfg.Output, []byte(out), 0644); err != nil {
		return fmt.Errorf("failed to write to file: %w", err)
	}
	fmt.Fprintf(os.Stderr, "Output written to: %s\n", cfg.Output)
	return nil
}
