package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/wisdomrain/bookfeed/importer"
	"github.com/wisdomrain/bookfeed/report"
)

var dryRunCmd = &cobra.Command{
	Use:   "dry-run [feed.csv]",
	Short: "Validate a feed without modifying the catalog",
	Long: `Parse and validate a feed file without touching the catalog. With no
argument the most recent uploaded feed is used.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := resolveFeedPath(args)
		if err != nil {
			return err
		}

		imp := importer.NewImporter(cfg, nil, report.NewStore(cfg.ReportDir), nil, nil)
		sum, err := imp.DryRun(cmd.Context(), path)
		if err != nil {
			return err
		}

		separator := "--------------------------------------------------"
		fmt.Println(separator)
		fmt.Println("Dry run complete")
		fmt.Printf("  Groups:      %d\n", sum.TotalGroups)
		fmt.Printf("  Variations:  %d\n", sum.TotalVariations)
		fmt.Printf("  Warnings:    %d\n", len(sum.Warnings))
		for _, w := range sum.Warnings {
			fmt.Printf("    %s\n", w)
		}
		fmt.Println(separator)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(dryRunCmd)
}
