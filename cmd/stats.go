package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var statsJSON bool

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show the cataloged documents and their ingestion outcomes",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		cat, err := openCatalog(cfg)
		if err != nil {
			return fmt.Errorf("opening catalog: %w", err)
		}
		defer cat.Close()

		entries, err := cat.List()
		if err != nil {
			return err
		}
		if statsJSON {
			return printJSON(entries)
		}
		if len(entries) == 0 {
			fmt.Println("No documents ingested yet. Run `docchat ingest <file>` first.")
			return nil
		}

		for _, e := range entries {
			fmt.Printf("%s  %q\n", e.ID, e.Title)
			fmt.Printf("  source: %s\n", e.Source)
			fmt.Printf("  pages: %d  chunks: %d  ocr pages: %d  ingested: %s (%s)\n",
				e.Pages, e.Chunks, e.OCRPages, e.IngestedAt.Format("2006-01-02 15:04"), e.Duration)
			for _, w := range e.Warnings {
				fmt.Printf("  warning: %s\n", w)
			}
		}
		return nil
	},
}

func init() {
	statsCmd.Flags().BoolVar(&statsJSON, "json", false, "print entries as JSON")
	rootCmd.AddCommand(statsCmd)
}
