package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"docchat/internal/pipeline"
	"docchat/internal/progress"
)

var (
	ingestID    string
	ingestTitle string
)

var ingestCmd = &cobra.Command{
	Use:   "ingest <path or glob>...",
	Short: "Ingest documents into the index and catalog",
	Long: `Reads each document page by page, runs OCR on pages with little
extractable text, chunks and embeds the content, and records the run in
the catalog. Glob patterns like docs/**/*.pdf are expanded.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		paths, err := expandPatterns(args)
		if err != nil {
			return err
		}
		if len(paths) == 0 {
			return fmt.Errorf("no files match %s", strings.Join(args, " "))
		}
		if ingestID != "" && len(paths) > 1 {
			return fmt.Errorf("--id can only be used with a single file, got %d", len(paths))
		}

		cat, err := openCatalog(cfg)
		if err != nil {
			return fmt.Errorf("opening catalog: %w", err)
		}
		defer cat.Close()

		reporter := progress.NewReporter()
		var tracking struct{ started bool }
		eng := newEngine(cfg, nil, pipeline.WithProgress(func(page, total int) {
			if !tracking.started {
				reporter.Start(total)
				tracking.started = true
			}
			reporter.Update(page, fmt.Sprintf("page %d of %d", page, total))
		}))

		for _, path := range paths {
			docID := ingestID
			if docID == "" {
				docID = uuid.NewString()
			}
			title := ingestTitle
			if title == "" && len(paths) > 1 {
				title = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
			}

			tracking.started = false
			res, err := eng.Ingest(cmd.Context(), path, docID, title)
			reporter.Finish()
			if err != nil {
				return fmt.Errorf("ingesting %s: %w", path, err)
			}
			if err := cat.Save(docID, res); err != nil {
				return fmt.Errorf("cataloging %s: %w", path, err)
			}

			fmt.Printf("%s: %d pages, %d chunks indexed (id %s)\n",
				path, len(res.Doc.Pages), res.ChunksIndexed, docID)
			if res.OCRPages > 0 {
				fmt.Printf("  OCR applied to %d page(s)\n", res.OCRPages)
			}
			for _, w := range res.Warnings {
				fmt.Fprintf(os.Stderr, "  warning: %s\n", w)
			}
		}
		return nil
	},
}

// expandPatterns resolves glob patterns to files, passing plain paths
// through untouched.
func expandPatterns(patterns []string) ([]string, error) {
	var out []string
	seen := make(map[string]bool)
	for _, pattern := range patterns {
		if !strings.ContainsAny(pattern, "*?[{") {
			if !seen[pattern] {
				seen[pattern] = true
				out = append(out, pattern)
			}
			continue
		}
		matches, err := doublestar.FilepathGlob(pattern)
		if err != nil {
			return nil, fmt.Errorf("bad pattern %q: %w", pattern, err)
		}
		for _, m := range matches {
			if !seen[m] {
				seen[m] = true
				out = append(out, m)
			}
		}
	}
	return out, nil
}

func init() {
	ingestCmd.Flags().StringVar(&ingestID, "id", "", "document id (defaults to a new UUID)")
	ingestCmd.Flags().StringVar(&ingestTitle, "title", "", "document title (defaults to the file's own title)")
	rootCmd.AddCommand(ingestCmd)
}
