package models

import "time"

// ImportSummary holds the overall result of one full import run.
type ImportSummary struct {
	Groups            int         `json:"groups"`
	ParentsCreated    int         `json:"parents_created"`
	ParentsUpdated    int         `json:"parents_updated"`
	VariationsCreated int         `json:"variations_created"`
	VariationsUpdated int         `json:"variations_updated"`
	AttributesFound   []string    `json:"attributes_found"`
	TermsCreated      []string    `json:"terms_created"`
	ImagesImported    int         `json:"images_imported"`
	Warnings          []string    `json:"warnings,omitempty"`
	Errors            []string    `json:"errors,omitempty"`
	LinkValidation    *LinkReport `json:"link_validation,omitempty"`
	When              time.Time   `json:"when"`
}

// DryRunSummary is the read-only analysis of a feed file.
type DryRunSummary struct {
	TotalGroups     int       `json:"total_groups"`
	TotalVariations int       `json:"total_variations"`
	Warnings        []string  `json:"warnings,omitempty"`
	When            time.Time `json:"when"`
}

// PreviewSummary describes the head of a feed file for display.
type PreviewSummary struct {
	Header       []string `json:"header"`
	Rows         []*Row   `json:"rows"`
	TotalLines   int      `json:"total_lines"`
	PreviewCount int      `json:"preview_count"`
	UniqueGroups int      `json:"unique_groups"`
}

// LinkReport is the outcome of post-import URL validation.
type LinkReport struct {
	TotalChecked int      `json:"total_checked"`
	OK           int      `json:"ok"`
	Broken       int      `json:"broken"`
	BrokenList   []string `json:"broken_list,omitempty"`
}
