// Package crawl implements the crawl command: a Sequential Mode run against
// the maps site. It loads the search page, collects place links, then visits
// each place page in order, persisting deduplicated leads.
package crawl

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

// Command returns the crawl command for use in the root command.
func Command() *cobra.Command {
	var maxLinks int

	cmd := &cobra.Command{
		Use:   "crawl [keyword] [location]",
		Short: "Crawl the maps site for business leads",
		Long: `Crawl the maps site for leads matching a keyword and location.

The search page is loaded first and place links collected from it; each place
page is then visited in order, paced between loads. Records deduplicate on
(name, address) per query, so re-running a crawl only adds new leads.

The --max-links flag overrides the crawler.max_links setting (0 means use
the configured default).`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, err := cmdcommon.NewCommandDeps()
			if err != nil {
				return fmt.Errorf("failed to initialize dependencies: %w", err)
			}
			return run(cmd.Context(), deps, args[0], args[1], maxLinks)
		},
	}

	cmd.Flags().IntVar(&maxLinks, "max-links", 0,
		"Override the crawler.max_links setting (0 means use the configured default)")

	return cmd
}

func run(ctx context.Context, deps cmdcommon.CommandDeps, keyword, location string, maxLinks int) error {
	q, err := query.New(keyword, location)
	if err != nil {
		return err
	}

	maxLinks, err = deps.Config.Crawler.ResolveMaxLinks(maxLinks)
	if err != nil {
		return err
	}

	store, err := deps.OpenStore(domain.SourceMaps)
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

	searchURL := extractor.MapsSearchURL(q.Keyword, q.Location)
	bus.PublishStatus(fmt.Sprintf("Loading search page: %s", searchURL))
	if loadErr := render.Load(ctx, searchURL); loadErr != nil {
		return fmt.Errorf("load search page: %w", loadErr)
	}

	pacer := crawler.NewPacer(deps.Config.Crawler.Pacing())
	if settleErr := pacer.Settle(ctx); settleErr != nil {
		return settleErr
	}
	if scrollErr := render.ScrollToBottom(ctx); scrollErr != nil {
		deps.Logger.Warn("failed to scroll results pane", "error", scrollErr)
	}

	links, err := extractor.CollectPlaceLinks(ctx, render, maxLinks)
	if err != nil {
		return fmt.Errorf("collect place links: %w", err)
	}
	bus.PublishStatus(fmt.Sprintf("Collected %d place links.", len(links)))

	session := crawler.NewSession(crawler.ModeSequential, q, maxLinks)
	if collectErr := session.CollectTargets(links); collectErr != nil {
		return collectErr
	}
	if acquireErr := cmdcommon.SessionCoordinator.Acquire(session); acquireErr != nil {
		return acquireErr
	}
	defer cmdcommon.SessionCoordinator.Release(session)

	cursor := crawler.NewCursor(session, queryID, render, store, bus, pacer, deps.Logger)
	return cursor.Run(ctx)
}
