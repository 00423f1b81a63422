package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/hookahlab/gearscout/internal/api"
	"github.com/hookahlab/gearscout/internal/config"
	"github.com/hookahlab/gearscout/internal/scraper"
	"github.com/hookahlab/gearscout/internal/seed"
	"github.com/hookahlab/gearscout/internal/types"
)

var (
	cfgFile string
	verbose bool

	port       int
	scrapeSite string
	scrapeCat  string
	maxPages   int
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "gearscout",
		Short: "GearScout - hookah gear catalog scraper and recommender",
		Long: `GearScout aggregates hookah gear from retail sites into a unified
catalog and recommends compatible gear based on what a user already owns.

Features:
  • Config-driven multi-site scraping with CSS and XPath selectors
  • Brand, category, and compatibility-tag inference from raw listings
  • Duplicate-free catalog merging keyed by (name, brand)
  • Tag-overlap recommendations with popularity fallbacks
  • MongoDB or in-memory catalog storage
  • REST API for catalog browsing and scrape control`,
	}

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(scrapeCmd())
	rootCmd.AddCommand(seedCmd())
	rootCmd.AddCommand(versionCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// serveCmd creates the "serve" subcommand.
func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		Long:  "Serve the catalog, recommendation, and scraper control endpoints.",
		RunE:  runServe,
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "listen port (overrides config)")

	return cmd
}

// runServe executes the serve command.
func runServe(cmd *cobra.Command, args []string) error {
	app, err := buildApp()
	if err != nil {
		return err
	}
	defer app.close()

	if port > 0 {
		app.cfg.Server.Port = port
	}

	apiServer := api.NewServer(app.store, app.scraper, app.engine, app.logger)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", app.cfg.Server.Port),
		Handler:      apiServer.Handler(),
		ReadTimeout:  app.cfg.Server.ReadTimeout,
		WriteTimeout: app.cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		app.logger.Info("API server starting", "addr", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("serve: %w", err)
	case sig := <-sigCh:
		app.logger.Info("received signal, shutting down...", "signal", sig)
	}

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.Server.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(ctx)
}

// scrapeCmd creates the "scrape" subcommand.
func scrapeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scrape",
		Short: "Run a scrape pass and merge results into the catalog",
		Long:  "Scrape one site, or all registered sites when --site is omitted.",
		RunE:  runScrape,
	}

	cmd.Flags().StringVarP(&scrapeSite, "site", "s", "", "site ID to scrape (default: all)")
	cmd.Flags().StringVar(&scrapeCat, "category", "", "restrict scraping to one category")
	cmd.Flags().IntVarP(&maxPages, "pages", "n", 0, "pages per site (0 = config default)")

	return cmd
}

// runScrape executes the scrape command.
func runScrape(cmd *cobra.Command, args []string) error {
	app, err := buildApp()
	if err != nil {
		return err
	}
	defer app.close()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	category := types.Category(scrapeCat)

	start := time.Now()
	var results []*scraper.RunResult
	if scrapeSite == "" {
		results, err = app.scraper.RunAll(ctx, category, maxPages)
	} else {
		var result *scraper.RunResult
		result, err = app.scraper.Run(ctx, scrapeSite, category, maxPages)
		if result != nil {
			results = append(results, result)
		}
	}
	if err != nil {
		return fmt.Errorf("scrape: %w", err)
	}

	elapsed := time.Since(start)
	var inserted, updated, failed int
	for _, r := range results {
		inserted += r.Report.Inserted
		updated += r.Report.Updated
		failed += r.PagesFailed
		fmt.Printf("  %-14s %3d products (%d new, %d updated), %d pages, %d failed\n",
			r.Site, r.ProductsFound, r.Report.Inserted, r.Report.Updated, r.PagesFetched, r.PagesFailed)
	}

	fmt.Printf("\n✅ Scrape complete in %s\n", elapsed.Round(time.Millisecond))
	fmt.Printf("   Sites:     %d scraped\n", len(results))
	fmt.Printf("   Catalog:   %d inserted, %d updated\n", inserted, updated)
	if failed > 0 {
		fmt.Printf("   Pages:     %d failed (see log)\n", failed)
	}

	return nil
}

// seedCmd creates the "seed" subcommand.
func seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load the starter catalog into storage",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := buildApp()
			if err != nil {
				return err
			}
			defer app.close()

			report, err := seed.Load(context.Background(), app.store, app.logger)
			if err != nil {
				return fmt.Errorf("seed: %w", err)
			}
			fmt.Printf("Seeded catalog: %d inserted, %d updated\n", report.Inserted, report.Updated)
			return nil
		},
	}
}

// versionCmd creates the "version" subcommand.
func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("GearScout %s\n", config.Version)
		},
	}
}

