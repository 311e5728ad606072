package importer

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/wisdomrain/bookfeed/catalog"
	"github.com/wisdomrain/bookfeed/models"
	"github.com/wisdomrain/bookfeed/parser"
	"github.com/wisdomrain/bookfeed/taxonomy"
)

// Reconciler applies one group of feed rows to the catalog: parent upsert,
// per-row variation upserts, image/gallery handling, and finalization. A
// Reconciler is scoped to one run.
type Reconciler struct {
	store       catalog.Store
	resolver    *taxonomy.Resolver
	metrics     *Metrics
	refLanguage string
}

// NewReconciler builds a run-scoped reconciler.
func NewReconciler(store catalog.Store, resolver *taxonomy.Resolver, metrics *Metrics, refLanguage string) *Reconciler {
	return &Reconciler{
		store:       store,
		resolver:    resolver,
		metrics:     metrics,
		refLanguage: refLanguage,
	}
}

var declaredTaxonomies = []string{catalog.TaxonomyLanguage, catalog.TaxonomyFormat}

// ReconcileGroup runs the full reconciliation sequence for one group. A
// parent failure aborts the group; a row failure aborts only that row.
// Results are accumulated into sum. When two rows of the group resolve to
// the same (language, format) key, the later row wins; that matches the
// feed convention of one row per key and is deliberate.
func (r *Reconciler) ReconcileGroup(ctx context.Context, group *models.Group, sum *models.ImportSummary) {
	primary := group.Primary(r.refLanguage)
	if primary == nil {
		return
	}

	parentID, created, err := r.upsertParent(ctx, group.ID, primary)
	if err != nil {
		slog.Error("parent upsert failed",
			slog.String("group", group.ID),
			slog.Any("error", err),
		)
		sum.Errors = append(sum.Errors, fmt.Sprintf("Group %s: parent product create/update failed.", group.ID))
		r.metrics.IncError("group")
		return
	}
	if created {
		sum.ParentsCreated++
		r.metrics.IncParent("created")
	} else {
		sum.ParentsUpdated++
		r.metrics.IncParent("updated")
	}

	if err := r.store.SetSEOMeta(ctx, parentID, catalog.SEOMeta{
		FocusKeyword: primary.FocusKeyword,
		Title:        primary.SEOTitle,
		Description:  primary.SEODescription,
	}); err != nil {
		slog.Warn("seo meta failed", slog.String("group", group.ID), slog.Any("error", err))
	}

	gallery := newGalleryState()
	if url := strings.TrimSpace(primary.ImageURL); url != "" {
		if assetID := r.attachImage(ctx, parentID, url, gallery, sum); assetID != 0 {
			if err := r.store.SetFeaturedImage(ctx, parentID, assetID); err != nil {
				slog.Warn("set featured image failed", slog.String("group", group.ID), slog.Any("error", err))
			}
		}
	}

	for _, row := range group.Rows {
		action, err := r.reconcileRow(ctx, parentID, row, gallery, sum)
		if err != nil {
			sum.Errors = append(sum.Errors, fmt.Sprintf("Group %s: variation error - %v", group.ID, err))
			r.metrics.IncError("row")
			continue
		}
		switch action {
		case "created":
			sum.VariationsCreated++
		case "updated":
			sum.VariationsUpdated++
		}
		r.metrics.IncVariation(action)
	}

	// Always re-merge so the stored gallery stays deduplicated and never
	// contains the current featured image.
	if err := r.store.MergeGallery(ctx, parentID, gallery.ids); err != nil {
		slog.Warn("gallery merge failed", slog.String("group", group.ID), slog.Any("error", err))
	}

	r.finalize(ctx, parentID, group.ID)
}

func (r *Reconciler) upsertParent(ctx context.Context, groupID string, primary *models.Row) (int64, bool, error) {
	existingID, err := r.store.FindParentByGroupID(ctx, groupID)
	if err != nil {
		return 0, false, err
	}

	parentID := existingID
	created := existingID == 0
	if created {
		title := strings.TrimSpace(primary.ProductTitle)
		if title == "" {
			title = "Untitled"
		}
		slugSource := strings.TrimSpace(primary.Slug)
		if slugSource == "" {
			slugSource = title + "-" + groupID
		}
		parentID, err = r.store.CreateParent(ctx, catalog.ParentFields{
			GroupID:     groupID,
			Title:       title,
			Slug:        catalog.Slugify(slugSource),
			Description: primary.ProductDescription,
			Excerpt:     primary.ShortDescription,
		})
		if err != nil {
			return 0, false, err
		}
	} else {
		patch := catalog.ParentUpdate{}
		if primary.ProductDescription != "" {
			patch.Description = &primary.ProductDescription
		}
		if primary.ShortDescription != "" {
			patch.Excerpt = &primary.ShortDescription
		}
		if err := r.store.UpdateParent(ctx, parentID, patch); err != nil {
			return 0, false, err
		}
	}

	if err := r.store.AssignCategories(ctx, parentID, primary.ParentCategory, primary.Subcategory); err != nil {
		return 0, false, err
	}
	if err := r.store.DeclareVariationAttributes(ctx, parentID, declaredTaxonomies); err != nil {
		return 0, false, err
	}
	return parentID, created, nil
}

// galleryState accumulates attached asset ids for one group, deduplicated
// by source URL so a URL shared across rows is attached and counted once.
type galleryState struct {
	byURL map[string]int64
	ids   []int64
}

func newGalleryState() *galleryState {
	return &galleryState{byURL: make(map[string]int64)}
}

func (r *Reconciler) reconcileRow(ctx context.Context, parentID int64, row *models.Row, gallery *galleryState, sum *models.ImportSummary) (string, error) {
	attrs := make(map[string]string, 2)
	if slug := r.resolver.Resolve(ctx, catalog.TaxonomyLanguage, row.Language); slug != "" {
		attrs[catalog.TaxonomyLanguage] = slug
		if err := r.store.AddParentAttributeValue(ctx, parentID, catalog.TaxonomyLanguage, slug); err != nil {
			return "", err
		}
	}
	if slug := r.resolver.Resolve(ctx, catalog.TaxonomyFormat, row.Format); slug != "" {
		attrs[catalog.TaxonomyFormat] = slug
		if err := r.store.AddParentAttributeValue(ctx, parentID, catalog.TaxonomyFormat, slug); err != nil {
			return "", err
		}
	}

	if url := strings.TrimSpace(row.ImageURL); url != "" {
		r.attachImage(ctx, parentID, url, gallery, sum)
	}

	mode := parser.NormalizeUpdateMode(row.UpdateMode)
	existing, err := r.store.FindVariations(ctx, parentID, attrs)
	if err != nil {
		return "", err
	}

	var variationID int64
	action := "skipped"
	switch {
	case mode == "update_only" && len(existing) == 0:
		slog.Info("skipped creation: update_only found no existing variation",
			slog.Int64("parent", parentID),
			slog.Int("row", row.Line),
		)
	case mode == "create_only" && len(existing) > 0:
		slog.Info("skipped update of existing variation: create_only mode",
			slog.Int64("variation", existing[0]),
			slog.Int("row", row.Line),
		)
	case len(existing) > 0:
		variationID = existing[0]
		if err := r.store.UpdateVariation(ctx, variationID, r.variationPatch(row)); err != nil {
			return "", err
		}
		action = "updated"
	default:
		variationID, err = r.store.CreateVariation(ctx, parentID, r.variationFields(row, attrs))
		if err != nil {
			return "", err
		}
		action = "created"
	}

	if variationID != 0 && len(attrs) > 0 {
		if err := r.store.SetVariationAttributes(ctx, variationID, attrs); err != nil {
			return "", err
		}
	}
	return action, nil
}

// variationPatch builds the update for an existing variation: regular
// price only when supplied, sale price always (clearing on empty is a
// deliberate overwrite), stock status and the full downloads list always.
func (r *Reconciler) variationPatch(row *models.Row) catalog.VariationUpdate {
	sale := parser.NormalizePrice(row.PriceSale)
	stock := parser.NormalizeStockStatus(row.StockStatus)
	downloads := buildDownloads(row.ProductTitle, row.SplitFileURLs())

	patch := catalog.VariationUpdate{
		SalePrice:   &sale,
		StockStatus: &stock,
		Downloads:   &downloads,
	}
	if regular := parser.NormalizePrice(row.PriceRegular); regular != "" {
		patch.RegularPrice = &regular
	}
	return patch
}

func (r *Reconciler) variationFields(row *models.Row, attrs map[string]string) catalog.VariationFields {
	downloads := buildDownloads(row.ProductTitle, row.SplitFileURLs())
	return catalog.VariationFields{
		RegularPrice: parser.NormalizePrice(row.PriceRegular),
		SalePrice:    parser.NormalizePrice(row.PriceSale),
		StockStatus:  parser.NormalizeStockStatus(row.StockStatus),
		Status:       catalog.StatusPublish,
		Attributes:   attrs,
		Downloads:    downloads,
		Downloadable: len(downloads) > 0,
		Virtual:      len(downloads) > 0,
	}
}

func (r *Reconciler) attachImage(ctx context.Context, parentID int64, url string, gallery *galleryState, sum *models.ImportSummary) int64 {
	if assetID, ok := gallery.byURL[url]; ok {
		return assetID
	}
	assetID, err := r.store.AttachImage(ctx, parentID, url)
	if err != nil {
		slog.Warn("image attach failed", slog.String("url", url), slog.Any("error", err))
		return 0
	}
	if assetID == 0 {
		return 0
	}
	gallery.byURL[url] = assetID
	gallery.ids = append(gallery.ids, assetID)
	sum.ImagesImported++
	r.metrics.IncImage()
	return assetID
}

func (r *Reconciler) finalize(ctx context.Context, parentID int64, groupID string) {
	if err := r.store.SetParentType(ctx, parentID, catalog.ProductTypeVariable); err != nil {
		slog.Warn("set parent type failed", slog.String("group", groupID), slog.Any("error", err))
	}
	if err := r.store.DeclareVariationAttributes(ctx, parentID, declaredTaxonomies); err != nil {
		slog.Warn("re-declare attributes failed", slog.String("group", groupID), slog.Any("error", err))
	}
	if err := r.store.SyncVariableProduct(ctx, parentID); err != nil {
		slog.Warn("variable product sync failed", slog.String("group", groupID), slog.Any("error", err))
	}
}

// buildDownloads turns a row's file URLs into download entries named
// "<title> 1", "<title> 2", ... with generated ids.
func buildDownloads(title string, urls []string) []catalog.Download {
	if strings.TrimSpace(title) == "" {
		title = "file"
	}
	downloads := make([]catalog.Download, 0, len(urls))
	for i, u := range urls {
		downloads = append(downloads, catalog.Download{
			ID:   uuid.NewString(),
			Name: fmt.Sprintf("%s %d", title, i+1),
			URL:  u,
		})
	}
	return downloads
}
