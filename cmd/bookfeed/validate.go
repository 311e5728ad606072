package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/wisdomrain/bookfeed/importer"
	"github.com/wisdomrain/bookfeed/linkcheck"
	"github.com/wisdomrain/bookfeed/parser"
)

var validateLinksCmd = &cobra.Command{
	Use:   "validate-links <feed.csv>",
	Short: "Check every image and file URL in a feed",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rows, err := parser.ParseFile(args[0])
		if err != nil {
			return err
		}

		validator := linkcheck.NewValidator(cfg.LinkTimeout, cfg.LinkMaxRedirects, cfg.UserAgent, cfg.LogDir)
		rep := validator.Validate(cmd.Context(), importer.CollectURLs(rows))

		fmt.Printf("Checked %d URLs: %d ok, %d broken\n", rep.TotalChecked, rep.OK, rep.Broken)
		for _, entry := range rep.BrokenList {
			fmt.Printf("  %s\n", entry)
		}
		if rep.Broken > 0 {
			return fmt.Errorf("%d broken link(s)", rep.Broken)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateLinksCmd)
}
