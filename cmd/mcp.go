package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	mcpserver "docchat/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server for AI agent integration",
	Long: `Starts a Model Context Protocol (MCP) server on stdio, exposing
document query tools for AI agents. Documents listed in the catalog are
re-ingested into the session index at startup.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		eng := newEngine(cfg, nil)

		cat, err := openCatalog(cfg)
		if err != nil {
			return fmt.Errorf("opening catalog: %w", err)
		}
		defer cat.Close()

		// Rebuild the session index from cataloged sources. A source that
		// has moved is skipped, not fatal.
		entries, err := cat.List()
		if err != nil {
			return err
		}
		for _, e := range entries {
			if _, err := eng.Ingest(cmd.Context(), e.Source, e.ID, e.Title); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: could not re-ingest %s (%s): %v\n", e.ID, e.Source, err)
			}
		}

		mcpserver.Version = Version

		stats := eng.IndexStats()
		fmt.Fprintf(os.Stderr, "docchat MCP server started on stdio (%d chunks, %d documents)\n",
			stats.EntryCount, len(stats.DocumentIDs))

		srv := mcpserver.NewServer(eng, cat)
		return srv.Serve()
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
