// Package cmd implements the command-line interface for goleads.
// It provides the root command and subcommands for crawling the two listing
// sites and working with the captured lead databases.
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	cmdcommon "github.com/jonesrussell/goleads/cmd/common"
	"github.com/jonesrussell/goleads/cmd/crawl"
	cmdexport "github.com/jonesrussell/goleads/cmd/export"
	"github.com/jonesrussell/goleads/cmd/extract"
	"github.com/jonesrussell/goleads/cmd/show"
	"github.com/jonesrussell/goleads/cmd/tables"
)

// version is set at build time via -ldflags.
var version = "dev"

// rootCmd represents the root command for the goleads CLI.
var (
	rootCmd = &cobra.Command{
		Use:   "goleads",
		Short: "A lead scraper for business listing sites",
		Long: `goleads crawls two business listing sites through an embedded browser
and deduplicates the captured leads into per-source SQLite databases.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
)

// Execute runs the root command. An interrupt or SIGTERM cancels the command
// context; a running crawl observes the cancellation, finishes its in-flight
// record, and exits cleanly.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return rootCmd.ExecuteContext(ctx)
}

// init initializes the root command and its subcommands.
func init() {
	rootCmd.PersistentFlags().StringVar(
		&cmdcommon.CfgFile,
		"config",
		"",
		"config file (default is ./config.yaml)",
	)
	rootCmd.PersistentFlags().BoolVar(&cmdcommon.Debug, "debug", false, "enable debug mode")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("goleads version %s\n", version)
		},
	})

	rootCmd.AddCommand(crawl.Command())
	rootCmd.AddCommand(extract.Command())
	rootCmd.AddCommand(tables.Command())
	rootCmd.AddCommand(show.Command())
	rootCmd.AddCommand(cmdexport.Command())
}
