package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/wisdomrain/bookfeed/uploads"
)

var uploadCmd = &cobra.Command{
	Use:   "upload <feed.csv>",
	Short: "Store a feed file for later import",
	Long: `Copy a feed file into the uploads directory and remember it as the
most recent upload. "bookfeed import" with no argument picks it up.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		info, err := uploads.NewRegistry(cfg.UploadsDir).Record(args[0])
		if err != nil {
			return err
		}
		fmt.Printf("Stored %s (%d bytes) as %s\n", info.OriginalName, info.Size, info.Path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(uploadCmd)
}
