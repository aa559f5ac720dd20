// Package show implements the show command, which dumps one stored query's
// records in a formatted table.
package show

import (
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	cmdcommon "github.com/jonesrussell/goleads/cmd/common"
	"github.com/jonesrussell/goleads/internal/domain"
	"github.com/jonesrussell/goleads/internal/query"
)

// Command returns the show command for use in the root command.
func Command() *cobra.Command {
	var source string

	cmd := &cobra.Command{
		Use:   "show [keyword] [location]",
		Short: "Show the stored records for a query",
		Long: `Show the stored records for a query in capture order.

The keyword and location are normalized the same way the crawl commands
normalize them, so "Cafes Pune" and "cafes pune" address the same records.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, err := cmdcommon.NewCommandDeps()
			if err != nil {
				return fmt.Errorf("failed to initialize dependencies: %w", err)
			}

			src, err := domain.ParseSource(source)
			if err != nil {
				return err
			}

			store, err := deps.OpenStore(src)
			if err != nil {
				return err
			}
			defer store.Close()

			queryID := query.Normalize(args[0], args[1])
			header, rows, err := store.Rows(cmd.Context(), queryID)
			if err != nil {
				return fmt.Errorf("read query %q: %w", queryID, err)
			}
			if len(rows) == 0 {
				deps.Logger.Info("Query has no records", "query", queryID, "source", src)
				return nil
			}

			t := table.NewWriter()
			t.SetOutputMirror(os.Stdout)
			headerRow := make(table.Row, len(header))
			for i, col := range header {
				headerRow[i] = col
			}
			t.AppendHeader(headerRow)
			for _, row := range rows {
				r := make(table.Row, len(row))
				for i, cell := range row {
					r[i] = cell
				}
				t.AppendRow(r)
			}
			t.Render()
			return nil
		},
	}

	cmd.Flags().StringVar(&source, "source", string(domain.SourceMaps),
		fmt.Sprintf("Lead source to read (%q or %q)", domain.SourceMaps, domain.SourceDirectory))

	return cmd
}
