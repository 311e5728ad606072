package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/wisdomrain/bookfeed/importer"
	"github.com/wisdomrain/bookfeed/report"
)

var previewCmd = &cobra.Command{
	Use:   "preview <feed.csv>",
	Short: "Show the header and first rows of a feed file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		imp := importer.NewImporter(cfg, nil, report.NewStore(cfg.ReportDir), nil, nil)
		sum, err := imp.Preview(args[0], cfg.PreviewLimit)
		if err != nil {
			return err
		}

		fmt.Printf("Columns: %s\n", strings.Join(sum.Header, ", "))
		for _, row := range sum.Rows {
			fmt.Printf("  %-12s %-40s %-10s %s\n", row.GroupID, truncate(row.ProductTitle, 40), row.Language, row.Format)
		}
		if sum.TotalLines > sum.PreviewCount {
			fmt.Printf("  ... and %d more rows\n", sum.TotalLines-sum.PreviewCount)
		}
		fmt.Printf("Total rows: %d  Unique groups: %d\n", sum.TotalLines, sum.UniqueGroups)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(previewCmd)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
