package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/wisdomrain/bookfeed/fetch"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS parents (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	group_id TEXT NOT NULL UNIQUE,
	title TEXT NOT NULL,
	slug TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	excerpt TEXT NOT NULL DEFAULT '',
	product_type TEXT NOT NULL DEFAULT 'variable',
	status TEXT NOT NULL DEFAULT 'publish',
	catalog_visibility TEXT NOT NULL DEFAULT 'visible',
	stock_status TEXT NOT NULL DEFAULT 'instock',
	manage_stock INTEGER NOT NULL DEFAULT 0,
	sold_individually INTEGER NOT NULL DEFAULT 0,
	virtual INTEGER NOT NULL DEFAULT 0,
	downloadable INTEGER NOT NULL DEFAULT 0,
	featured_image INTEGER NOT NULL DEFAULT 0,
	gallery TEXT NOT NULL DEFAULT '',
	focus_keyword TEXT NOT NULL DEFAULT '',
	seo_title TEXT NOT NULL DEFAULT '',
	seo_description TEXT NOT NULL DEFAULT '',
	price_min TEXT NOT NULL DEFAULT '',
	price_max TEXT NOT NULL DEFAULT ''
);
CREATE TABLE IF NOT EXISTS parent_attributes (
	parent_id INTEGER NOT NULL,
	taxonomy TEXT NOT NULL,
	position INTEGER NOT NULL DEFAULT 0,
	visible INTEGER NOT NULL DEFAULT 1,
	variation INTEGER NOT NULL DEFAULT 1,
	PRIMARY KEY (parent_id, taxonomy)
);
CREATE TABLE IF NOT EXISTS parent_attribute_values (
	parent_id INTEGER NOT NULL,
	taxonomy TEXT NOT NULL,
	slug TEXT NOT NULL,
	PRIMARY KEY (parent_id, taxonomy, slug)
);
CREATE TABLE IF NOT EXISTS terms (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	taxonomy TEXT NOT NULL,
	slug TEXT NOT NULL,
	name TEXT NOT NULL,
	UNIQUE (taxonomy, slug)
);
CREATE TABLE IF NOT EXISTS categories (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL,
	slug TEXT NOT NULL,
	parent_id INTEGER NOT NULL DEFAULT 0,
	UNIQUE (slug, parent_id)
);
CREATE TABLE IF NOT EXISTS parent_categories (
	parent_id INTEGER NOT NULL,
	category_id INTEGER NOT NULL,
	PRIMARY KEY (parent_id, category_id)
);
CREATE TABLE IF NOT EXISTS variations (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	parent_id INTEGER NOT NULL,
	regular_price TEXT NOT NULL DEFAULT '',
	sale_price TEXT NOT NULL DEFAULT '',
	stock_status TEXT NOT NULL DEFAULT 'instock',
	status TEXT NOT NULL DEFAULT 'publish',
	virtual INTEGER NOT NULL DEFAULT 0,
	downloadable INTEGER NOT NULL DEFAULT 0
);
CREATE TABLE IF NOT EXISTS variation_attributes (
	variation_id INTEGER NOT NULL,
	taxonomy TEXT NOT NULL,
	slug TEXT NOT NULL,
	PRIMARY KEY (variation_id, taxonomy)
);
CREATE TABLE IF NOT EXISTS downloads (
	variation_id INTEGER NOT NULL,
	download_id TEXT NOT NULL,
	name TEXT NOT NULL,
	url TEXT NOT NULL,
	position INTEGER NOT NULL DEFAULT 0,
	PRIMARY KEY (variation_id, download_id)
);
CREATE TABLE IF NOT EXISTS assets (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	source_url TEXT NOT NULL UNIQUE,
	filename TEXT NOT NULL DEFAULT '',
	content_type TEXT NOT NULL DEFAULT '',
	size INTEGER NOT NULL DEFAULT 0
);
`

// SQLiteStore is the bundled Store implementation backed by a local SQLite
// database. Images are sideloaded through the fetcher and de-duplicated by
// their source URL.
type SQLiteStore struct {
	db      *sql.DB
	fetcher fetch.Fetcher
}

var _ Store = (*SQLiteStore)(nil)

// OpenSQLite opens (creating if needed) a catalog database at path. A nil
// fetcher disables image sideloading; AttachImage then only reuses assets
// already present.
func OpenSQLite(path string, fetcher fetch.Fetcher) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open catalog db: %w", err)
	}
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply catalog schema: %w", err)
	}
	return &SQLiteStore{db: db, fetcher: fetcher}, nil
}

// Close releases the underlying database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) FindParentByGroupID(ctx context.Context, groupID string) (int64, error) {
	var id int64
	err := s.db.QueryRowContext(ctx, `SELECT id FROM parents WHERE group_id = ?`, groupID).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("find parent by group id: %w", err)
	}
	return id, nil
}

func (s *SQLiteStore) CreateParent(ctx context.Context, fields ParentFields) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO parents (group_id, title, slug, description, excerpt) VALUES (?, ?, ?, ?, ?)`,
		fields.GroupID, fields.Title, fields.Slug, fields.Description, fields.Excerpt,
	)
	if err != nil {
		return 0, fmt.Errorf("create parent: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("create parent id: %w", err)
	}
	return id, nil
}

func (s *SQLiteStore) UpdateParent(ctx context.Context, id int64, patch ParentUpdate) error {
	var sets []string
	var args []any
	if patch.Description != nil {
		sets = append(sets, "description = ?")
		args = append(args, *patch.Description)
	}
	if patch.Excerpt != nil {
		sets = append(sets, "excerpt = ?")
		args = append(args, *patch.Excerpt)
	}
	if len(sets) == 0 {
		return nil
	}
	args = append(args, id)
	if _, err := s.db.ExecContext(ctx, `UPDATE parents SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...); err != nil {
		return fmt.Errorf("update parent %d: %w", id, err)
	}
	return nil
}

func (s *SQLiteStore) SetParentType(ctx context.Context, id int64, productType string) error {
	if _, err := s.db.ExecContext(ctx, `UPDATE parents SET product_type = ? WHERE id = ?`, productType, id); err != nil {
		return fmt.Errorf("set parent type: %w", err)
	}
	return nil
}

func (s *SQLiteStore) SetSEOMeta(ctx context.Context, id int64, meta SEOMeta) error {
	var sets []string
	var args []any
	if v := strings.TrimSpace(meta.FocusKeyword); v != "" {
		sets = append(sets, "focus_keyword = ?")
		args = append(args, v)
	}
	if v := strings.TrimSpace(meta.Title); v != "" {
		sets = append(sets, "seo_title = ?")
		args = append(args, v)
	}
	if v := strings.TrimSpace(meta.Description); v != "" {
		sets = append(sets, "seo_description = ?")
		args = append(args, v)
	}
	if len(sets) == 0 {
		return nil
	}
	args = append(args, id)
	if _, err := s.db.ExecContext(ctx, `UPDATE parents SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...); err != nil {
		return fmt.Errorf("set seo meta: %w", err)
	}
	return nil
}

func (s *SQLiteStore) DeclareVariationAttributes(ctx context.Context, id int64, taxonomies []string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("declare attributes: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM parent_attributes WHERE parent_id = ?`, id); err != nil {
		return fmt.Errorf("declare attributes: %w", err)
	}
	for i, taxonomy := range taxonomies {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO parent_attributes (parent_id, taxonomy, position, visible, variation) VALUES (?, ?, ?, 1, 1)`,
			id, taxonomy, i,
		); err != nil {
			return fmt.Errorf("declare attribute %s: %w", taxonomy, err)
		}
	}
	return tx.Commit()
}

func (s *SQLiteStore) AddParentAttributeValue(ctx context.Context, id int64, taxonomy, slug string) error {
	if taxonomy == "" || slug == "" {
		return nil
	}
	if _, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO parent_attribute_values (parent_id, taxonomy, slug) VALUES (?, ?, ?)`,
		id, taxonomy, slug,
	); err != nil {
		return fmt.Errorf("add parent attribute value: %w", err)
	}
	return nil
}

func (s *SQLiteStore) AssignCategories(ctx context.Context, id int64, parentCategory, subcategory string) error {
	parentCategory = strings.TrimSpace(parentCategory)
	if parentCategory == "" {
		return nil
	}

	parentCatID, err := s.ensureCategory(ctx, parentCategory, 0)
	if err != nil {
		return err
	}
	categoryIDs := []int64{parentCatID}

	if subcategory = strings.TrimSpace(subcategory); subcategory != "" {
		childID, err := s.ensureCategory(ctx, subcategory, parentCatID)
		if err != nil {
			return err
		}
		categoryIDs = append(categoryIDs, childID)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("assign categories: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM parent_categories WHERE parent_id = ?`, id); err != nil {
		return fmt.Errorf("assign categories: %w", err)
	}
	for _, catID := range categoryIDs {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO parent_categories (parent_id, category_id) VALUES (?, ?)`, id, catID,
		); err != nil {
			return fmt.Errorf("assign categories: %w", err)
		}
	}
	return tx.Commit()
}

func (s *SQLiteStore) ensureCategory(ctx context.Context, name string, parentID int64) (int64, error) {
	slug := Slugify(name)
	var id int64
	err := s.db.QueryRowContext(ctx,
		`SELECT id FROM categories WHERE slug = ? AND parent_id = ?`, slug, parentID,
	).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("lookup category %q: %w", name, err)
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO categories (name, slug, parent_id) VALUES (?, ?, ?)`, name, slug, parentID,
	)
	if err != nil {
		return 0, fmt.Errorf("create category %q: %w", name, err)
	}
	return res.LastInsertId()
}

func (s *SQLiteStore) GetOrCreateTerm(ctx context.Context, taxonomy, name string) (Term, error) {
	name = strings.TrimSpace(name)
	if taxonomy == "" || name == "" {
		return Term{}, fmt.Errorf("term taxonomy and name are required")
	}
	slug := Slugify(name)

	term, err := s.findTerm(ctx, taxonomy, slug)
	if err == nil {
		return term, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return Term{}, fmt.Errorf("lookup term %s/%s: %w", taxonomy, slug, err)
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO terms (taxonomy, slug, name) VALUES (?, ?, ?)`, taxonomy, slug, name,
	)
	if err != nil {
		// Lost a create race; the existing term wins.
		if term, lookupErr := s.findTerm(ctx, taxonomy, slug); lookupErr == nil {
			return term, nil
		}
		return Term{}, fmt.Errorf("create term %s/%s: %w", taxonomy, slug, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return Term{}, fmt.Errorf("create term id: %w", err)
	}
	return Term{ID: id, Slug: slug, Name: name, Created: true}, nil
}

func (s *SQLiteStore) findTerm(ctx context.Context, taxonomy, slug string) (Term, error) {
	var term Term
	err := s.db.QueryRowContext(ctx,
		`SELECT id, slug, name FROM terms WHERE taxonomy = ? AND slug = ?`, taxonomy, slug,
	).Scan(&term.ID, &term.Slug, &term.Name)
	return term, err
}

func (s *SQLiteStore) FindVariations(ctx context.Context, parentID int64, attributes map[string]string) ([]int64, error) {
	query := `SELECT v.id FROM variations v WHERE v.parent_id = ?`
	args := []any{parentID}
	matched := 0
	for taxonomy, slug := range attributes {
		if taxonomy == "" || slug == "" {
			continue
		}
		query += ` AND EXISTS (SELECT 1 FROM variation_attributes va WHERE va.variation_id = v.id AND va.taxonomy = ? AND va.slug = ?)`
		args = append(args, taxonomy, slug)
		matched++
	}
	if matched == 0 {
		return nil, nil
	}
	query += ` ORDER BY v.id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("find variations: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan variation id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (s *SQLiteStore) CreateVariation(ctx context.Context, parentID int64, fields VariationFields) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("create variation: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO variations (parent_id, regular_price, sale_price, stock_status, status, virtual, downloadable)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		parentID, fields.RegularPrice, fields.SalePrice, fields.StockStatus, fields.Status,
		boolToInt(fields.Virtual), boolToInt(fields.Downloadable),
	)
	if err != nil {
		return 0, fmt.Errorf("create variation: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("create variation id: %w", err)
	}

	for taxonomy, slug := range fields.Attributes {
		if taxonomy == "" || slug == "" {
			continue
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO variation_attributes (variation_id, taxonomy, slug) VALUES (?, ?, ?)`,
			id, taxonomy, slug,
		); err != nil {
			return 0, fmt.Errorf("create variation attribute: %w", err)
		}
	}
	if err := insertDownloads(ctx, tx, id, fields.Downloads); err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("create variation: %w", err)
	}
	return id, nil
}

func (s *SQLiteStore) UpdateVariation(ctx context.Context, id int64, patch VariationUpdate) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("update variation: %w", err)
	}
	defer tx.Rollback()

	var sets []string
	var args []any
	if patch.RegularPrice != nil {
		sets = append(sets, "regular_price = ?")
		args = append(args, *patch.RegularPrice)
	}
	if patch.SalePrice != nil {
		sets = append(sets, "sale_price = ?")
		args = append(args, *patch.SalePrice)
	}
	if patch.StockStatus != nil {
		sets = append(sets, "stock_status = ?")
		args = append(args, *patch.StockStatus)
	}
	if patch.Downloads != nil {
		downloadable := len(*patch.Downloads) > 0
		sets = append(sets, "downloadable = ?", "virtual = ?")
		args = append(args, boolToInt(downloadable), boolToInt(downloadable))
	}
	if len(sets) > 0 {
		args = append(args, id)
		if _, err := tx.ExecContext(ctx, `UPDATE variations SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...); err != nil {
			return fmt.Errorf("update variation %d: %w", id, err)
		}
	}

	if patch.Downloads != nil {
		if _, err := tx.ExecContext(ctx, `DELETE FROM downloads WHERE variation_id = ?`, id); err != nil {
			return fmt.Errorf("clear downloads: %w", err)
		}
		if err := insertDownloads(ctx, tx, id, *patch.Downloads); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func insertDownloads(ctx context.Context, tx *sql.Tx, variationID int64, downloads []Download) error {
	for i, dl := range downloads {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO downloads (variation_id, download_id, name, url, position) VALUES (?, ?, ?, ?, ?)`,
			variationID, dl.ID, dl.Name, dl.URL, i,
		); err != nil {
			return fmt.Errorf("insert download: %w", err)
		}
	}
	return nil
}

func (s *SQLiteStore) SetVariationAttributes(ctx context.Context, id int64, attributes map[string]string) error {
	for taxonomy, slug := range attributes {
		if taxonomy == "" || slug == "" {
			continue
		}
		if _, err := s.db.ExecContext(ctx,
			`INSERT INTO variation_attributes (variation_id, taxonomy, slug) VALUES (?, ?, ?)
			 ON CONFLICT (variation_id, taxonomy) DO UPDATE SET slug = excluded.slug`,
			id, taxonomy, slug,
		); err != nil {
			return fmt.Errorf("set variation attribute %s: %w", taxonomy, err)
		}
	}
	return nil
}

func (s *SQLiteStore) AttachImage(ctx context.Context, parentID int64, url string) (int64, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return 0, nil
	}

	var id int64
	err := s.db.QueryRowContext(ctx, `SELECT id FROM assets WHERE source_url = ?`, url).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("lookup asset: %w", err)
	}
	if s.fetcher == nil {
		return 0, nil
	}

	blob, err := s.fetcher.Fetch(ctx, url)
	if err != nil {
		slog.Debug("image sideload failed", slog.String("url", url), slog.Any("error", err))
		return 0, nil
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO assets (source_url, filename, content_type, size) VALUES (?, ?, ?, ?)`,
		url, blob.Filename, blob.ContentType, len(blob.Data),
	)
	if err != nil {
		return 0, fmt.Errorf("store asset: %w", err)
	}
	return res.LastInsertId()
}

func (s *SQLiteStore) SetFeaturedImage(ctx context.Context, parentID, assetID int64) error {
	if _, err := s.db.ExecContext(ctx, `UPDATE parents SET featured_image = ? WHERE id = ?`, assetID, parentID); err != nil {
		return fmt.Errorf("set featured image: %w", err)
	}
	return nil
}

func (s *SQLiteStore) FeaturedImage(ctx context.Context, parentID int64) (int64, error) {
	var id int64
	err := s.db.QueryRowContext(ctx, `SELECT featured_image FROM parents WHERE id = ?`, parentID).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("featured image: %w", err)
	}
	return id, nil
}

func (s *SQLiteStore) MergeGallery(ctx context.Context, parentID int64, assetIDs []int64) error {
	var gallery string
	var featured int64
	err := s.db.QueryRowContext(ctx,
		`SELECT gallery, featured_image FROM parents WHERE id = ?`, parentID,
	).Scan(&gallery, &featured)
	if err != nil {
		return fmt.Errorf("merge gallery: %w", err)
	}

	merged := parseGallery(gallery)
	merged = append(merged, assetIDs...)

	seen := make(map[int64]struct{}, len(merged))
	var out []int64
	for _, id := range merged {
		if id == 0 || id == featured {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}

	if _, err := s.db.ExecContext(ctx,
		`UPDATE parents SET gallery = ? WHERE id = ?`, formatGallery(out), parentID,
	); err != nil {
		return fmt.Errorf("merge gallery: %w", err)
	}
	return nil
}

func parseGallery(gallery string) []int64 {
	var ids []int64
	for _, part := range strings.Split(gallery, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if id, err := strconv.ParseInt(part, 10, 64); err == nil {
			ids = append(ids, id)
		}
	}
	return ids
}

func formatGallery(ids []int64) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatInt(id, 10)
	}
	return strings.Join(parts, ",")
}

// SyncVariableProduct recomputes the parent's derived state from its
// published variations: price range and stock status. It also re-asserts
// the variable product type.
func (s *SQLiteStore) SyncVariableProduct(ctx context.Context, parentID int64) error {
	if _, err := s.db.ExecContext(ctx,
		`UPDATE parents SET product_type = ? WHERE id = ?`, ProductTypeVariable, parentID,
	); err != nil {
		return fmt.Errorf("sync parent type: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT regular_price, sale_price, stock_status FROM variations WHERE parent_id = ? AND status = ?`,
		parentID, StatusPublish,
	)
	if err != nil {
		return fmt.Errorf("sync variations: %w", err)
	}
	defer rows.Close()

	var min, max float64
	havePrice := false
	anyInStock := false
	for rows.Next() {
		var regular, sale, stock string
		if err := rows.Scan(&regular, &sale, &stock); err != nil {
			return fmt.Errorf("sync scan: %w", err)
		}
		if stock == "instock" {
			anyInStock = true
		}
		price := sale
		if price == "" {
			price = regular
		}
		value, err := strconv.ParseFloat(price, 64)
		if err != nil {
			continue
		}
		if !havePrice || value < min {
			min = value
		}
		if !havePrice || value > max {
			max = value
		}
		havePrice = true
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("sync variations: %w", err)
	}

	priceMin, priceMax := "", ""
	if havePrice {
		priceMin = strconv.FormatFloat(min, 'f', -1, 64)
		priceMax = strconv.FormatFloat(max, 'f', -1, 64)
	}
	stockStatus := "outofstock"
	if anyInStock {
		stockStatus = "instock"
	}

	if _, err := s.db.ExecContext(ctx,
		`UPDATE parents SET price_min = ?, price_max = ?, stock_status = ? WHERE id = ?`,
		priceMin, priceMax, stockStatus, parentID,
	); err != nil {
		return fmt.Errorf("sync parent prices: %w", err)
	}
	return nil
}

func (s *SQLiteStore) ListPublishedParents(ctx context.Context) ([]int64, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id FROM parents WHERE status = ? ORDER BY id`, StatusPublish)
	if err != nil {
		return nil, fmt.Errorf("list published parents: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan parent id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
