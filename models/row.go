// Package models defines data structures for the feed importer.
package models

import "strings"

// Row represents one record of the product feed. Well-known columns are
// mapped onto named fields; everything else stays reachable through Raw.
type Row struct {
	GroupID            string `csv:"group_id" json:"group_id"`
	ProductTitle       string `csv:"product_title" json:"product_title"`
	ProductDescription string `csv:"product_description" json:"product_description"`
	ShortDescription   string `csv:"short_description" json:"short_description"`
	Slug               string `csv:"slug" json:"slug"`
	Language           string `csv:"language" json:"language"`
	Format             string `csv:"format" json:"format"`
	PriceRegular       string `csv:"price_regular" json:"price_regular"`
	PriceSale          string `csv:"price_sale" json:"price_sale"`
	StockStatus        string `csv:"stock_status" json:"stock_status"`
	FileURLs           string `csv:"file_urls" json:"file_urls"`
	ImageURL           string `csv:"image_url" json:"image_url"`
	UpdateMode         string `csv:"update_mode" json:"update_mode"`
	ParentCategory     string `csv:"parent_category" json:"parent_category"`
	Subcategory        string `csv:"subcategory" json:"subcategory"`
	FocusKeyword       string `csv:"focus_keyword" json:"focus_keyword"`
	SEOTitle           string `csv:"seo_title" json:"seo_title"`
	SEODescription     string `csv:"seo_description" json:"seo_description"`

	// Raw holds every column of the record keyed by header name,
	// including ones the importer has no named field for.
	Raw map[string]string `json:"-"`

	// Line is the 1-based data-line number within the source file.
	Line int `json:"-"`
}

// Get returns the raw value of a column by header name, or "" when the
// column is absent.
func (r *Row) Get(column string) string {
	if r == nil || r.Raw == nil {
		return ""
	}
	return r.Raw[column]
}

// SplitFileURLs returns the non-empty, trimmed entries of the
// comma-separated file_urls column.
func (r *Row) SplitFileURLs() []string {
	var out []string
	for _, part := range strings.Split(r.FileURLs, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Group is an ordered list of rows sharing one group id.
type Group struct {
	ID   string
	Rows []*Row
}

// Primary returns the row that seeds parent-level fields: the first row
// whose language equals refLanguage (case-insensitive), else the first row.
func (g *Group) Primary(refLanguage string) *Row {
	if g == nil || len(g.Rows) == 0 {
		return nil
	}
	for _, row := range g.Rows {
		if strings.EqualFold(strings.TrimSpace(row.Language), refLanguage) {
			return row
		}
	}
	return g.Rows[0]
}
