// Package export implements the export command, which writes one stored
// query's records to a CSV or XLSX file.
package export

import (
	"fmt"

	"github.com/spf13/cobra"

	cmdcommon "github.com/jonesrussell/goleads/cmd/common"
	"github.com/jonesrussell/goleads/internal/domain"
	"github.com/jonesrussell/goleads/internal/export"
	"github.com/jonesrussell/goleads/internal/query"
)

// Command returns the export command for use in the root command.
func Command() *cobra.Command {
	var (
		source string
		out    string
	)

	cmd := &cobra.Command{
		Use:   "export [keyword] [location]",
		Short: "Export a query's records to a CSV or XLSX file",
		Long: `Export the stored records of a query to a spreadsheet file.

The file format is picked from the --out extension: .csv writes a
comma-separated file, .xlsx (or .xls) writes an Excel workbook.`,
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

			if writeErr := export.WriteFile(out, header, rows); writeErr != nil {
				return fmt.Errorf("export query %q: %w", queryID, writeErr)
			}

			deps.Logger.Info("Export complete",
				"query", queryID,
				"source", src,
				"records", len(rows),
				"file", out,
			)
			return nil
		},
	}

	cmd.Flags().StringVar(&source, "source", string(domain.SourceMaps),
		fmt.Sprintf("Lead source to export (%q or %q)", domain.SourceMaps, domain.SourceDirectory))
	cmd.Flags().StringVar(&out, "out", "leads.csv",
		"Output file; format is picked from the extension (.csv, .xlsx)")

	return cmd
}
