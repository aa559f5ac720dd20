// Package extract implements the extract command: a Snapshot Mode capture of
// a directory listing page. The page is extracted in one bulk pass; the
// controller never navigates past it.
package extract

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	cmdcommon "github.com/jonesrussell/goleads/cmd/common"
	"github.com/jonesrussell/goleads/internal/crawler"
	"github.com/jonesrussell/goleads/internal/crawler/events"
	"github.com/jonesrussell/goleads/internal/domain"
	"github.com/jonesrussell/goleads/internal/extractor"
	"github.com/jonesrussell/goleads/internal/query"
)

// Command returns the extract command for use in the root command.
func Command() *cobra.Command {
	var (
		directURL   string
		maxListings int
	)

	cmd := &cobra.Command{
		Use:   "extract [keyword] [location]",
		Short: "Extract business leads from a directory listing page",
		Long: `Extract leads from the local-business directory in one bulk pass.

By default the directory search page for the keyword and location is loaded
first. With --url the given directory page is loaded instead and the keyword
and location are derived from its path, which preserves any session state the
URL carries.

The --max-listings flag overrides the crawler.max_listings setting (0 means
use the configured default).`,
		Args: cobra.RangeArgs(0, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, err := cmdcommon.NewCommandDeps()
			if err != nil {
				return fmt.Errorf("failed to initialize dependencies: %w", err)
			}

			q, pageURL, err := resolveTarget(args, directURL)
			if err != nil {
				return err
			}
			return run(cmd.Context(), deps, q, pageURL, maxListings)
		},
	}

	cmd.Flags().StringVar(&directURL, "url", "",
		"Extract from this directory page URL instead of a keyword/location search")
	cmd.Flags().IntVar(&maxListings, "max-listings", 0,
		"Override the crawler.max_listings setting (0 means use the configured default)")

	return cmd
}

// resolveTarget derives the query and the page to load from either the
// keyword/location arguments or a direct URL.
func resolveTarget(args []string, directURL string) (query.Query, string, error) {
	if directURL != "" {
		keyword, location, err := extractor.ParseDirectoryURL(directURL)
		if err != nil {
			return query.Query{}, "", err
		}
		q, err := query.New(keyword, location)
		if err != nil {
			return query.Query{}, "", err
		}
		return q, directURL, nil
	}

	if len(args) != 2 {
		return query.Query{}, "", fmt.Errorf("requires [keyword] [location] arguments or --url")
	}
	q, err := query.New(args[0], args[1])
	if err != nil {
		return query.Query{}, "", err
	}
	return q, extractor.DirectorySearchURL(q.Keyword, q.Location), nil
}

func run(ctx context.Context, deps cmdcommon.CommandDeps, q query.Query, pageURL string, maxListings int) error {
	maxListings, err := deps.Config.Crawler.ResolveMaxListings(maxListings)
	if err != nil {
		return err
	}

	store, err := deps.OpenStore(domain.SourceDirectory)
	if err != nil {
		return err
	}
	defer store.Close()

	queryID, err := store.EnsureQuery(ctx, q)
	if err != nil {
		return fmt.Errorf("register query: %w", err)
	}

	render, err := deps.NewRenderer(ctx)
	if err != nil {
		return err
	}
	defer render.Close()

	bus := events.NewBus(deps.Logger)
	bus.Subscribe(cmdcommon.ConsoleHandler{})
	bus.Subscribe(events.NewLogHandler(deps.Logger))

	bus.PublishStatus(fmt.Sprintf("Loading directory page: %s", pageURL))
	if loadErr := render.Load(ctx, pageURL); loadErr != nil {
		return fmt.Errorf("load directory page: %w", loadErr)
	}

	pacer := crawler.NewPacer(deps.Config.Crawler.Pacing())
	if settleErr := pacer.Settle(ctx); settleErr != nil {
		return settleErr
	}
	if scrollErr := render.ScrollToBottom(ctx); scrollErr != nil {
		deps.Logger.Warn("failed to scroll listing page", "error", scrollErr)
	}

	session := crawler.NewSession(crawler.ModeSnapshot, q, maxListings)
	if acquireErr := cmdcommon.SessionCoordinator.Acquire(session); acquireErr != nil {
		return acquireErr
	}
	defer cmdcommon.SessionCoordinator.Release(session)

	controller := crawler.NewSnapshotController(session, queryID, render, store, bus, pacer, deps.Logger)
	return controller.Run(ctx)
}
