package importer

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/wisdomrain/bookfeed/catalog"
	"github.com/wisdomrain/bookfeed/config"
	"github.com/wisdomrain/bookfeed/linkcheck"
	"github.com/wisdomrain/bookfeed/models"
	"github.com/wisdomrain/bookfeed/parser"
	"github.com/wisdomrain/bookfeed/report"
	"github.com/wisdomrain/bookfeed/taxonomy"
)

const (
	ReportPreview    = "preview"
	ReportDryRun     = "dryrun"
	ReportFullImport = "fullimport"

	previewTTL = time.Hour
	dryRunTTL  = 30 * time.Minute
	importTTL  = 30 * time.Minute
)

// Importer drives full imports and dry runs over a parsed feed. Groups are
// processed sequentially in file order so results are deterministic and
// re-running the same file is a no-op beyond updated timestamps.
type Importer struct {
	cfg       *config.Config
	store     catalog.Store
	reports   *report.Store
	validator *linkcheck.Validator
	metrics   *Metrics
}

// NewImporter wires an importer. reports, validator and metrics may be nil;
// the corresponding step is skipped.
func NewImporter(cfg *config.Config, store catalog.Store, reports *report.Store, validator *linkcheck.Validator, metrics *Metrics) *Importer {
	return &Importer{
		cfg:       cfg,
		store:     store,
		reports:   reports,
		validator: validator,
		metrics:   metrics,
	}
}

// Preview reads the feed header plus the first limit data rows.
func (imp *Importer) Preview(path string, limit int) (*models.PreviewSummary, error) {
	sum, err := parser.PreviewFile(path, limit)
	if err != nil {
		return nil, fmt.Errorf("preview: %w", err)
	}
	imp.saveReport(ReportPreview, sum, previewTTL, nil)
	return sum, nil
}

// DryRun parses and validates the feed without touching the catalog.
func (imp *Importer) DryRun(ctx context.Context, path string) (*models.DryRunSummary, error) {
	rows, err := parser.ParseFile(path)
	if err != nil {
		return nil, fmt.Errorf("dry run: %w", err)
	}

	sum := &models.DryRunSummary{When: time.Now().UTC()}
	for _, row := range rows {
		if missing := parser.MissingFields(row); len(missing) > 0 {
			sum.Warnings = append(sum.Warnings, fmt.Sprintf("Row %d missing: %s", row.Line, strings.Join(missing, ", ")))
		}
	}

	groups := GroupRows(rows)
	sum.TotalGroups = len(groups)
	for _, g := range groups {
		sum.TotalVariations += len(g.Rows)
	}

	imp.saveReport(ReportDryRun, sum, dryRunTTL, nil)
	return sum, nil
}

// Run executes a full import of the feed at path.
func (imp *Importer) Run(ctx context.Context, path string) (*models.ImportSummary, error) {
	rows, err := parser.ParseFile(path)
	if err != nil {
		return nil, fmt.Errorf("import: %w", err)
	}

	groups := GroupRows(rows)
	sum := &models.ImportSummary{Groups: len(groups), When: time.Now().UTC()}

	resolver := taxonomy.NewResolver(imp.store)
	rec := NewReconciler(imp.store, resolver, imp.metrics, imp.cfg.ReferenceLanguage)

	for _, g := range groups {
		imp.metrics.IncGroup()
		rec.ReconcileGroup(ctx, g, sum)
	}

	if imp.cfg.ResyncAll {
		imp.resyncPublished(ctx)
	}

	sum.AttributesFound = resolver.AttributesFound()
	sum.TermsCreated = resolver.TermsCreated()

	if imp.cfg.ValidateLinks && imp.validator != nil {
		sum.LinkValidation = imp.validator.Validate(ctx, CollectURLs(rows))
		if sum.LinkValidation != nil {
			for i := 0; i < sum.LinkValidation.OK; i++ {
				imp.metrics.IncLink("ok")
			}
			for i := 0; i < sum.LinkValidation.Broken; i++ {
				imp.metrics.IncLink("broken")
			}
		}
	}

	imp.saveReport(ReportFullImport, sum, importTTL, sum)
	return sum, nil
}

// resyncPublished recomputes derived fields for every published parent,
// not only the ones this run touched. Errors are logged and skipped.
func (imp *Importer) resyncPublished(ctx context.Context) {
	ids, err := imp.store.ListPublishedParents(ctx)
	if err != nil {
		slog.Error("resync: listing published parents failed", slog.Any("error", err))
		return
	}
	for _, id := range ids {
		if err := imp.store.SyncVariableProduct(ctx, id); err != nil {
			slog.Warn("resync failed", slog.Int64("parent", id), slog.Any("error", err))
		}
	}
	slog.Info("resync complete", slog.Int("parents", len(ids)))
}

// saveReport persists a summary snapshot. Failure is reported inside the
// summary when possible but never fails the run.
func (imp *Importer) saveReport(kind string, payload any, ttl time.Duration, sum *models.ImportSummary) {
	if imp.reports == nil {
		return
	}
	if err := imp.reports.Save(kind, payload, ttl); err != nil {
		slog.Error("report save failed", slog.String("kind", kind), slog.Any("error", err))
		if sum != nil {
			sum.Warnings = append(sum.Warnings, "report snapshot could not be saved")
		}
	}
}

// CollectURLs gathers every distinct image and file URL in row order.
func CollectURLs(rows []*models.Row) linkcheck.URLSet {
	var set linkcheck.URLSet
	seenImages := make(map[string]struct{})
	seenFiles := make(map[string]struct{})
	for _, row := range rows {
		if u := strings.TrimSpace(row.ImageURL); u != "" {
			if _, ok := seenImages[u]; !ok {
				seenImages[u] = struct{}{}
				set.ImageURLs = append(set.ImageURLs, u)
			}
		}
		for _, u := range row.SplitFileURLs() {
			if _, ok := seenFiles[u]; !ok {
				seenFiles[u] = struct{}{}
				set.FileURLs = append(set.FileURLs, u)
			}
		}
	}
	return set
}
