package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"docchat/internal/document"
	"docchat/internal/llm"
)

var (
	askDoc           string
	askSelection     string
	askPage          int
	askJSON          bool
	askGroundingOnly bool
)

var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Ask a question about a document",
	Long: `Ingests the document, retrieves the passages most relevant to the
question, and asks the configured model for an answer grounded in them.
--doc accepts a file path or the id of a previously cataloged document.
--selection supplies selected text that is placed at the top of the
grounding context.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		question := strings.Join(args, " ")

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if askDoc == "" {
			return fmt.Errorf("--doc is required")
		}

		// Resolve --doc: a readable file wins, otherwise try the catalog.
		path := askDoc
		docID := uuid.NewString()
		if _, statErr := os.Stat(path); statErr != nil {
			cat, catErr := openCatalog(cfg)
			if catErr != nil {
				return fmt.Errorf("document %q not found: %w", askDoc, statErr)
			}
			entry, getErr := cat.Get(askDoc)
			cat.Close()
			if getErr != nil {
				return fmt.Errorf("document %q is neither a file nor a cataloged id", askDoc)
			}
			path = entry.Source
			docID = entry.ID
		}

		var provider llm.Provider
		if !askGroundingOnly {
			provider, err = newProvider(cfg)
			if err != nil {
				return err
			}
		}
		eng := newEngine(cfg, provider)

		if _, err := eng.Ingest(cmd.Context(), path, docID, ""); err != nil {
			return fmt.Errorf("ingesting %s: %w", path, err)
		}

		var sel document.Selection
		if askSelection != "" {
			sel = document.TextSelection{Text: askSelection, Page: askPage}
		}

		if askGroundingOnly {
			grounding, res := eng.GroundingContext(cmd.Context(), docID, question, sel, nil)
			if askJSON {
				return printJSON(map[string]any{
					"grounding": grounding,
					"excerpts":  res.Excerpts,
					"fallback":  res.Fallback,
				})
			}
			fmt.Println(grounding)
			return nil
		}

		rec, err := eng.Answer(cmd.Context(), docID, question, sel, nil)
		if err != nil {
			return err
		}
		if askJSON {
			return printJSON(rec)
		}
		fmt.Println(rec.Answer)
		return nil
	},
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func init() {
	askCmd.Flags().StringVar(&askDoc, "doc", "", "document file path or cataloged document id")
	askCmd.Flags().StringVar(&askSelection, "selection", "", "selected text to ground the question in")
	askCmd.Flags().IntVar(&askPage, "page", 0, "page the selection was made on")
	askCmd.Flags().BoolVar(&askJSON, "json", false, "print the full answer record as JSON")
	askCmd.Flags().BoolVar(&askGroundingOnly, "grounding-only", false, "print the grounding context without calling the model")
	rootCmd.AddCommand(askCmd)
}
