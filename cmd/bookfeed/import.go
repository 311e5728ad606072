package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"github.com/wisdomrain/bookfeed/importer"
	"github.com/wisdomrain/bookfeed/models"
	"github.com/wisdomrain/bookfeed/uploads"
)

var (
	flagNoResync  bool
	flagSkipLinks bool
)

var importCmd = &cobra.Command{
	Use:   "import [feed.csv]",
	Short: "Run a full import",
	Long: `Run a full import of a feed file. With no argument the most recent
uploaded feed is used.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := resolveFeedPath(args)
		if err != nil {
			return err
		}

		if flagNoResync {
			cfg.ResyncAll = false
		}
		if flagSkipLinks {
			cfg.ValidateLinks = false
		}

		store, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer store.Close()

		metrics := importer.NewMetrics()
		imp := newImporter(cfg, store, metrics)

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		var metricsServer *http.Server
		if cfg.MetricsAddr != "" {
			metricsServer = &http.Server{
				Addr:    cfg.MetricsAddr,
				Handler: promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}),
			}
			go func() {
				if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					slog.Error("metrics server failed", slog.Any("error", err))
				}
			}()
			slog.Info("metrics server enabled", slog.String("addr", cfg.MetricsAddr))
		}

		slog.Info("starting import", slog.String("feed", path))
		startTime := time.Now()
		sum, err := imp.Run(ctx, path)
		if err != nil {
			return err
		}

		if metricsServer != nil {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			if err := metricsServer.Shutdown(shutdownCtx); err != nil {
				slog.Error("metrics server shutdown failed", slog.Any("error", err))
			}
			cancel()
		}

		printSummary(sum, time.Since(startTime))
		if len(sum.Errors) > 0 {
			return fmt.Errorf("import finished with %d error(s)", len(sum.Errors))
		}
		return nil
	},
}

func init() {
	importCmd.Flags().BoolVar(&flagNoResync, "no-resync", false, "Skip the post-import resync of all published parents")
	importCmd.Flags().BoolVar(&flagSkipLinks, "skip-links", false, "Skip post-import link validation")
	rootCmd.AddCommand(importCmd)
}

func resolveFeedPath(args []string) (string, error) {
	if len(args) == 1 {
		return args[0], nil
	}
	last, err := uploads.NewRegistry(cfg.UploadsDir).Last()
	if err != nil {
		return "", fmt.Errorf("reading last upload: %w", err)
	}
	if last == nil {
		return "", fmt.Errorf("no feed given and no previous upload found")
	}
	slog.Info("using last uploaded feed", slog.String("file", last.OriginalName))
	return last.Path, nil
}

func printSummary(sum *models.ImportSummary, duration time.Duration) {
	separator := "--------------------------------------------------"
	fmt.Println("\n" + separator)
	fmt.Println("Import complete")
	fmt.Printf("  Groups:              %d\n", sum.Groups)
	fmt.Printf("  Parents created:     %d\n", sum.ParentsCreated)
	fmt.Printf("  Parents updated:     %d\n", sum.ParentsUpdated)
	fmt.Printf("  Variations created:  %d\n", sum.VariationsCreated)
	fmt.Printf("  Variations updated:  %d\n", sum.VariationsUpdated)
	fmt.Printf("  Images imported:     %d\n", sum.ImagesImported)
	if len(sum.AttributesFound) > 0 {
		fmt.Printf("  Attributes:          %s\n", strings.Join(sum.AttributesFound, ", "))
	}
	if len(sum.TermsCreated) > 0 {
		fmt.Printf("  New terms:           %s\n", strings.Join(sum.TermsCreated, ", "))
	}
	if sum.LinkValidation != nil {
		fmt.Printf("  Links checked:       %d (%d broken)\n", sum.LinkValidation.TotalChecked, sum.LinkValidation.Broken)
		for _, entry := range sum.LinkValidation.BrokenList {
			fmt.Printf("    %s\n", entry)
		}
	}
	if len(sum.Warnings) > 0 {
		fmt.Printf("  Warnings:            %d\n", len(sum.Warnings))
		for _, w := range sum.Warnings {
			fmt.Printf("    %s\n", w)
		}
	}
	if len(sum.Errors) > 0 {
		fmt.Printf("  Errors:              %d\n", len(sum.Errors))
		for _, e := range sum.Errors {
			fmt.Printf("    %s\n", e)
		}
	}
	fmt.Printf("  Duration:            %v\n", duration)
	fmt.Println(separator)
}
