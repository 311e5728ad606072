package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/wisdomrain/bookfeed/catalog"
	"github.com/wisdomrain/bookfeed/config"
	"github.com/wisdomrain/bookfeed/fetch"
	"github.com/wisdomrain/bookfeed/importer"
	"github.com/wisdomrain/bookfeed/linkcheck"
	"github.com/wisdomrain/bookfeed/report"
)

var (
	cfg = config.DefaultConfig()

	flagVerbose bool
)

var rootCmd = &cobra.Command{
	Use:   "bookfeed",
	Short: "CSV product feed importer for a variable-product catalog",
	Long: `bookfeed reconciles CSV product feeds into a local catalog.

Rows sharing a group id become one parent product; each row becomes a
variation keyed by its language and format. Re-importing the same feed
is idempotent.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if err := applyEnv(cfg); err != nil {
			return err
		}
		cfg.Verbose = flagVerbose
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}

		logger, level := newLogger(cfg.Verbose)
		slog.SetDefault(logger)
		slog.SetLogLoggerLevel(level.Level())
		return nil
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfg.CatalogPath, "catalog", cfg.CatalogPath, "Path to the catalog database")
	pf.StringVar(&cfg.ReportDir, "report-dir", cfg.ReportDir, "Directory for report snapshots")
	pf.StringVar(&cfg.UploadsDir, "uploads-dir", cfg.UploadsDir, "Directory for uploaded feed copies")
	pf.StringVar(&cfg.LogDir, "log-dir", cfg.LogDir, "Directory for import health logs")
	pf.StringVar(&cfg.ReferenceLanguage, "reference-language", cfg.ReferenceLanguage, "Language whose row supplies parent-level fields")
	pf.StringVar(&cfg.MetricsAddr, "metrics-addr", cfg.MetricsAddr, "Prometheus metrics listen address (e.g. :9090)")
	pf.BoolVarP(&flagVerbose, "verbose", "v", false, "Enable verbose logging")
}

// applyEnv overlays environment variables onto defaults. Flags are bound
// to the same fields and win because cobra parses them afterwards only
// when set; env is read first so unset flags keep env values.
func applyEnv(c *config.Config) error {
	if v, ok := config.EnvString("BOOKFEED_CATALOG"); ok && !rootCmd.PersistentFlags().Changed("catalog") {
		c.CatalogPath = v
	}
	if v, ok := config.EnvString("BOOKFEED_REPORT_DIR"); ok && !rootCmd.PersistentFlags().Changed("report-dir") {
		c.ReportDir = v
	}
	if v, ok := config.EnvString("BOOKFEED_UPLOADS_DIR"); ok && !rootCmd.PersistentFlags().Changed("uploads-dir") {
		c.UploadsDir = v
	}
	if v, ok := config.EnvString("BOOKFEED_LOG_DIR"); ok && !rootCmd.PersistentFlags().Changed("log-dir") {
		c.LogDir = v
	}
	if v, ok := config.EnvString("BOOKFEED_REFERENCE_LANGUAGE"); ok && !rootCmd.PersistentFlags().Changed("reference-language") {
		c.ReferenceLanguage = v
	}
	if v, ok := config.EnvString("BOOKFEED_METRICS_ADDR"); ok && !rootCmd.PersistentFlags().Changed("metrics-addr") {
		c.MetricsAddr = v
	}
	if v, ok := config.EnvString("BOOKFEED_USER_AGENT"); ok {
		c.UserAgent = v
	}
	if v, ok, err := config.EnvInt("BOOKFEED_PREVIEW_LIMIT"); err != nil {
		return err
	} else if ok {
		c.PreviewLimit = v
	}
	if v, ok, err := config.EnvBool("BOOKFEED_VALIDATE_LINKS"); err != nil {
		return err
	} else if ok {
		c.ValidateLinks = v
	}
	if v, ok, err := config.EnvBool("BOOKFEED_RESYNC_ALL"); err != nil {
		return err
	} else if ok {
		c.ResyncAll = v
	}
	return nil
}

// openStore opens the catalog with an image fetcher attached.
func openStore(c *config.Config) (*catalog.SQLiteStore, error) {
	fetcher := fetch.NewClient(c.Timeout, c.UserAgent)
	store, err := catalog.OpenSQLite(c.CatalogPath, fetcher)
	if err != nil {
		return nil, fmt.Errorf("opening catalog %s: %w", c.CatalogPath, err)
	}
	return store, nil
}

func newImporter(c *config.Config, store *catalog.SQLiteStore, metrics *importer.Metrics) *importer.Importer {
	var validator *linkcheck.Validator
	if c.ValidateLinks {
		validator = linkcheck.NewValidator(c.LinkTimeout, c.LinkMaxRedirects, c.UserAgent, c.LogDir)
	}
	return importer.NewImporter(c, store, report.NewStore(c.ReportDir), validator, metrics)
}

func newLogger(verbose bool) (*slog.Logger, *slog.LevelVar) {
	level := &slog.LevelVar{}
	if verbose {
		level.Set(slog.LevelDebug)
	} else {
		level.Set(slog.LevelInfo)
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if isTerminal(os.Stderr) {
		handler = slog.NewTextHandler(os.Stderr, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	}

	return slog.New(handler), level
}

func isTerminal(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
