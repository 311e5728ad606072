package catalog

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/wisdomrain/bookfeed/fetch"
)

type stubFetcher struct {
	fail  bool
	calls int
}

func (f *stubFetcher) Fetch(_ context.Context, rawURL string) (*fetch.Blob, error) {
	f.calls++
	if f.fail {
		return nil, errors.New("unreachable")
	}
	return &fetch.Blob{
		SourceURL:   rawURL,
		Data:        []byte("image-bytes"),
		ContentType: "image/jpeg",
		Filename:    "cover.jpg",
	}, nil
}

func openTestStore(t *testing.T, fetcher fetch.Fetcher) *SQLiteStore {
	t.Helper()
	store, err := OpenSQLite(filepath.Join(t.TempDir(), "catalog.sqlite"), fetcher)
	if err != nil {
		t.Fatalf("opening store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestParentLifecycle(t *testing.T) {
	store := openTestStore(t, nil)
	ctx := context.Background()

	if id, err := store.FindParentByGroupID(ctx, "missing"); err != nil || id != 0 {
		t.Fatalf("missing group should yield (0, nil), got (%d, %v)", id, err)
	}

	id, err := store.CreateParent(ctx, ParentFields{
		GroupID:     "g1",
		Title:       "Field Guide",
		Slug:        "field-guide",
		Description: "original",
		Excerpt:     "short",
	})
	if err != nil {
		t.Fatalf("create parent: %v", err)
	}

	found, err := store.FindParentByGroupID(ctx, "g1")
	if err != nil || found != id {
		t.Fatalf("find parent = (%d, %v), want (%d, nil)", found, err, id)
	}

	// Patch only the description; the excerpt must survive untouched.
	desc := "rewritten"
	if err := store.UpdateParent(ctx, id, ParentUpdate{Description: &desc}); err != nil {
		t.Fatalf("update parent: %v", err)
	}
	var gotDesc, gotExcerpt string
	err = store.db.QueryRow(`SELECT description, excerpt FROM parents WHERE id = ?`, id).Scan(&gotDesc, &gotExcerpt)
	if err != nil {
		t.Fatalf("reading parent: %v", err)
	}
	if gotDesc != "rewritten" || gotExcerpt != "short" {
		t.Errorf("after patch: description=%q excerpt=%q", gotDesc, gotExcerpt)
	}
}

func TestGetOrCreateTerm(t *testing.T) {
	store := openTestStore(t, nil)
	ctx := context.Background()

	term, err := store.GetOrCreateTerm(ctx, TaxonomyLanguage, "Español")
	if err != nil {
		t.Fatalf("create term: %v", err)
	}
	if !term.Created {
		t.Error("first call should report creation")
	}
	if term.Slug != "espanol" {
		t.Errorf("slug = %q, want espanol", term.Slug)
	}

	again, err := store.GetOrCreateTerm(ctx, TaxonomyLanguage, "ESPAÑOL")
	if err != nil {
		t.Fatalf("reuse term: %v", err)
	}
	if again.Created {
		t.Error("second call should reuse the existing term")
	}
	if again.ID != term.ID {
		t.Errorf("reused term id = %d, want %d", again.ID, term.ID)
	}

	if _, err := store.GetOrCreateTerm(ctx, "", "x"); err == nil {
		t.Error("empty taxonomy should be rejected")
	}
}

func TestVariationLookupByAttributes(t *testing.T) {
	store := openTestStore(t, nil)
	ctx := context.Background()

	parentID, err := store.CreateParent(ctx, ParentFields{GroupID: "g1", Title: "T", Slug: "t"})
	if err != nil {
		t.Fatalf("create parent: %v", err)
	}

	varID, err := store.CreateVariation(ctx, parentID, VariationFields{
		RegularPrice: "19.99",
		StockStatus:  "instock",
		Status:       StatusPublish,
		Attributes:   map[string]string{TaxonomyLanguage: "english", TaxonomyFormat: "pdf"},
	})
	if err != nil {
		t.Fatalf("create variation: %v", err)
	}

	ids, err := store.FindVariations(ctx, parentID, map[string]string{TaxonomyLanguage: "english", TaxonomyFormat: "pdf"})
	if err != nil {
		t.Fatalf("find variations: %v", err)
	}
	if len(ids) != 1 || ids[0] != varID {
		t.Errorf("find = %v, want [%d]", ids, varID)
	}

	ids, err = store.FindVariations(ctx, parentID, map[string]string{TaxonomyLanguage: "english", TaxonomyFormat: "epub"})
	if err != nil || len(ids) != 0 {
		t.Errorf("mismatched attributes should find nothing, got (%v, %v)", ids, err)
	}

	ids, err = store.FindVariations(ctx, parentID, nil)
	if err != nil || ids != nil {
		t.Errorf("no attributes should find nothing, got (%v, %v)", ids, err)
	}
}

func TestUpdateVariationReplacesDownloads(t *testing.T) {
	store := openTestStore(t, nil)
	ctx := context.Background()

	parentID, _ := store.CreateParent(ctx, ParentFields{GroupID: "g1", Title: "T", Slug: "t"})
	varID, err := store.CreateVariation(ctx, parentID, VariationFields{
		Status:       StatusPublish,
		Downloads:    []Download{{ID: "a", Name: "T 1", URL: "https://x/a.pdf"}},
		Downloadable: true,
		Virtual:      true,
	})
	if err != nil {
		t.Fatalf("create variation: %v", err)
	}

	empty := []Download{}
	if err := store.UpdateVariation(ctx, varID, VariationUpdate{Downloads: &empty}); err != nil {
		t.Fatalf("update variation: %v", err)
	}

	var count, downloadable, virtual int
	if err := store.db.QueryRow(`SELECT COUNT(*) FROM downloads WHERE variation_id = ?`, varID).Scan(&count); err != nil {
		t.Fatalf("count downloads: %v", err)
	}
	if count != 0 {
		t.Errorf("downloads remaining = %d, want 0", count)
	}
	err = store.db.QueryRow(`SELECT downloadable, virtual FROM variations WHERE id = ?`, varID).Scan(&downloadable, &virtual)
	if err != nil {
		t.Fatalf("reading variation: %v", err)
	}
	if downloadable != 0 || virtual != 0 {
		t.Errorf("flags not cleared: downloadable=%d virtual=%d", downloadable, virtual)
	}
}

func TestAttachImageDedupedBySourceURL(t *testing.T) {
	fetcher := &stubFetcher{}
	store := openTestStore(t, fetcher)
	ctx := context.Background()

	parentID, _ := store.CreateParent(ctx, ParentFields{GroupID: "g1", Title: "T", Slug: "t"})

	first, err := store.AttachImage(ctx, parentID, "https://cdn.example.com/cover.jpg")
	if err != nil || first == 0 {
		t.Fatalf("attach = (%d, %v)", first, err)
	}
	second, err := store.AttachImage(ctx, parentID, "https://cdn.example.com/cover.jpg")
	if err != nil || second != first {
		t.Fatalf("second attach = (%d, %v), want reuse of %d", second, err, first)
	}
	if fetcher.calls != 1 {
		t.Errorf("fetcher called %d times, want 1", fetcher.calls)
	}
}

func TestAttachImageFetchFailureIsSoft(t *testing.T) {
	store := openTestStore(t, &stubFetcher{fail: true})
	ctx := context.Background()

	parentID, _ := store.CreateParent(ctx, ParentFields{GroupID: "g1", Title: "T", Slug: "t"})
	id, err := store.AttachImage(ctx, parentID, "https://cdn.example.com/cover.jpg")
	if err != nil || id != 0 {
		t.Errorf("fetch failure should yield (0, nil), got (%d, %v)", id, err)
	}
}

func TestMergeGalleryExcludesFeatured(t *testing.T) {
	store := openTestStore(t, nil)
	ctx := context.Background()

	parentID, _ := store.CreateParent(ctx, ParentFields{GroupID: "g1", Title: "T", Slug: "t"})
	if err := store.SetFeaturedImage(ctx, parentID, 7); err != nil {
		t.Fatalf("set featured: %v", err)
	}
	if err := store.MergeGallery(ctx, parentID, []int64{7, 8, 9, 8}); err != nil {
		t.Fatalf("merge gallery: %v", err)
	}
	if err := store.MergeGallery(ctx, parentID, []int64{9, 10}); err != nil {
		t.Fatalf("second merge: %v", err)
	}

	var gallery string
	if err := store.db.QueryRow(`SELECT gallery FROM parents WHERE id = ?`, parentID).Scan(&gallery); err != nil {
		t.Fatalf("reading gallery: %v", err)
	}
	if gallery != "8,9,10" {
		t.Errorf("gallery = %q, want 8,9,10", gallery)
	}
}

func TestSyncVariableProduct(t *testing.T) {
	store := openTestStore(t, nil)
	ctx := context.Background()

	parentID, _ := store.CreateParent(ctx, ParentFields{GroupID: "g1", Title: "T", Slug: "t"})
	store.CreateVariation(ctx, parentID, VariationFields{
		RegularPrice: "19.99", SalePrice: "14.99", StockStatus: "outofstock", Status: StatusPublish,
	})
	store.CreateVariation(ctx, parentID, VariationFields{
		RegularPrice: "21.50", StockStatus: "instock", Status: StatusPublish,
	})

	if err := store.SyncVariableProduct(ctx, parentID); err != nil {
		t.Fatalf("sync: %v", err)
	}

	var priceMin, priceMax, stock string
	err := store.db.QueryRow(
		`SELECT price_min, price_max, stock_status FROM parents WHERE id = ?`, parentID,
	).Scan(&priceMin, &priceMax, &stock)
	if err != nil {
		t.Fatalf("reading parent: %v", err)
	}
	if priceMin != "14.99" || priceMax != "21.5" {
		t.Errorf("price range = [%s, %s], want [14.99, 21.5]", priceMin, priceMax)
	}
	if stock != "instock" {
		t.Errorf("stock = %q, want instock (any variation in stock)", stock)
	}
}

func TestListPublishedParents(t *testing.T) {
	store := openTestStore(t, nil)
	ctx := context.Background()

	a, _ := store.CreateParent(ctx, ParentFields{GroupID: "g1", Title: "A", Slug: "a"})
	b, _ := store.CreateParent(ctx, ParentFields{GroupID: "g2", Title: "B", Slug: "b"})

	ids, err := store.ListPublishedParents(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(ids) != 2 || ids[0] != a || ids[1] != b {
		t.Errorf("ids = %v, want [%d %d]", ids, a, b)
	}
}
