// Package parser reads product feed CSV files into ordered rows and
// normalizes the fields the importer cares about.
package parser

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/wisdomrain/bookfeed/models"
)

// RequiredFields are the columns every importable row must carry.
var RequiredFields = []string{"product_title", "language", "format", "file_urls"}

// ValidStockStatuses mirrors the catalog's known stock states.
var ValidStockStatuses = []string{"instock", "outofstock", "onbackorder"}

// Parse reads a CSV feed: the first line is the header, every following
// line becomes one Row. Records shorter or longer than the header are
// tolerated; missing cells read as empty strings.
func Parse(r io.Reader) ([]*models.Row, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("feed has no header line")
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	var rows []*models.Row
	line := 0
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read record %d: %w", line+1, err)
		}
		line++
		rows = append(rows, rowFromRecord(header, record, line))
	}
	return rows, nil
}

// ParseFile opens and parses a feed file. A missing or unreadable file is
// the one fatal condition of an import run.
func ParseFile(path string) ([]*models.Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open feed file: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

// Preview parses at most limit rows for display while still scanning the
// whole file for the total line count and the number of distinct non-empty
// first-column values.
func Preview(r io.Reader, limit int) (*models.PreviewSummary, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("feed has no header line")
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	summary := &models.PreviewSummary{Header: header}
	groups := make(map[string]struct{})
	line := 0
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read record %d: %w", line+1, err)
		}
		line++
		summary.TotalLines++

		if len(record) > 0 {
			if gid := strings.TrimSpace(record[0]); gid != "" {
				groups[gid] = struct{}{}
			}
		}
		if len(summary.Rows) < limit {
			summary.Rows = append(summary.Rows, rowFromRecord(header, record, line))
		}
	}
	summary.PreviewCount = len(summary.Rows)
	summary.UniqueGroups = len(groups)
	return summary, nil
}

// PreviewFile is the file-path variant of Preview.
func PreviewFile(path string, limit int) (*models.PreviewSummary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open feed file: %w", err)
	}
	defer f.Close()
	return Preview(f, limit)
}

func rowFromRecord(header, record []string, line int) *models.Row {
	row := &models.Row{Raw: make(map[string]string, len(header)), Line: line}
	for i, col := range header {
		if col == "" {
			continue
		}
		value := ""
		if i < len(record) {
			value = record[i]
		}
		row.Raw[col] = value
		assign(row, col, value)
	}
	return row
}

func assign(row *models.Row, column, value string) {
	switch column {
	case "group_id":
		row.GroupID = value
	case "product_title":
		row.ProductTitle = value
	case "product_description":
		row.ProductDescription = value
	case "short_description":
		row.ShortDescription = value
	case "slug":
		row.Slug = value
	case "language":
		row.Language = value
	case "format":
		row.Format = value
	case "price_regular":
		row.PriceRegular = value
	case "price_sale":
		row.PriceSale = value
	case "stock_status":
		row.StockStatus = value
	case "file_urls":
		row.FileURLs = value
	case "image_url":
		row.ImageURL = value
	case "update_mode":
		row.UpdateMode = value
	case "parent_category":
		row.ParentCategory = value
	case "subcategory":
		row.Subcategory = value
	case "focus_keyword":
		row.FocusKeyword = value
	case "seo_title":
		row.SEOTitle = value
	case "seo_description":
		row.SEODescription = value
	}
}

// MissingFields returns the required columns a row leaves empty.
func MissingFields(row *models.Row) []string {
	var missing []string
	for _, field := range RequiredFields {
		if strings.TrimSpace(row.Get(field)) == "" {
			missing = append(missing, field)
		}
	}
	return missing
}

// NormalizePrice trims a price value and converts a comma decimal
// separator to a dot.
func NormalizePrice(price string) string {
	price = strings.TrimSpace(price)
	return strings.ReplaceAll(price, ",", ".")
}

// NormalizeStockStatus validates a stock status against the known set,
// defaulting to "instock".
func NormalizeStockStatus(status string) string {
	status = strings.ToLower(strings.TrimSpace(status))
	for _, valid := range ValidStockStatuses {
		if status == valid {
			return status
		}
	}
	return "instock"
}

// NormalizeUpdateMode maps a raw update_mode value onto auto, update_only,
// or create_only; anything else normalizes to auto.
func NormalizeUpdateMode(mode string) string {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "update_only":
		return "update_only"
	case "create_only":
		return "create_only"
	default:
		return "auto"
	}
}
