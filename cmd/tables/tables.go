// Package tables implements the tables command, which lists the stored
// queries of one source in a formatted table with their record counts.
package tables

import (
	"fmt"
	"os"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	cmdcommon "github.com/jonesrussell/goleads/cmd/common"
	"github.com/jonesrussell/goleads/internal/domain"
)

// Command returns the tables command for use in the root command.
func Command() *cobra.Command {
	var source string

	cmd := &cobra.Command{
		Use:   "tables",
		Short: "List stored queries and their record counts",
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

			queries, err := store.ListQueries(cmd.Context())
			if err != nil {
				return fmt.Errorf("list queries: %w", err)
			}
			if len(queries) == 0 {
				deps.Logger.Info("No queries stored yet", "source", src)
				return nil
			}

			t := table.NewWriter()
			t.SetOutputMirror(os.Stdout)
			t.AppendHeader(table.Row{"Query", "Keyword", "Location", "Records"})
			for _, q := range queries {
				t.AppendRow(table.Row{q.ID, q.Keyword, q.Location, strconv.FormatInt(q.Records, 10)})
			}
			t.Render()
			return nil
		},
	}

	cmd.Flags().StringVar(&source, "source", string(domain.SourceMaps),
		fmt.Sprintf("Lead source to list (%q or %q)", domain.SourceMaps, domain.SourceDirectory))

	return cmd
}
