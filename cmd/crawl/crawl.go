// Package crawl implements the crawl command, which crawls every configured
// source once and writes a crawl snapshot.
package crawl

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/spf13/cobra"

	cmdcommon "github.com/jonesrussell/north-cloud/newsdesk/cmd/common"
	"github.com/jonesrussell/north-cloud/newsdesk/internal/content"
	"github.com/jonesrussell/north-cloud/newsdesk/internal/crawl"
	"github.com/jonesrussell/north-cloud/newsdesk/internal/observability"
	"github.com/jonesrussell/north-cloud/newsdesk/internal/snapshot"
	"github.com/jonesrussell/north-cloud/newsdesk/internal/sources"
)

// Command returns the crawl command for use in the root command.
func Command() *cobra.Command {
	var only []string

	cmd := &cobra.Command{
		Use:   "crawl",
		Short: "Crawl all sources and write a crawl snapshot",
		Long: `Crawl every source of the strategy table in declared order, fill missing
dates and descriptions, and write crawler_results_YYMMDD_HHMM.json.

A snapshot for the current minute is never overwritten: the crawl is skipped instead.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, err := cmdcommon.NewCommandDeps()
			if err != nil {
				return fmt.Errorf("failed to initialize dependencies: %w", err)
			}
			defer deps.Flush()

			table, err := deps.LoadSources()
			if err != nil {
				return err
			}

			table, err = selectSources(table, only)
			if err != nil {
				return err
			}

			log := deps.Logger
			cfg := deps.Config

			path := snapshot.Path(cfg.Crawler.OutputDir, snapshot.CrawlPrefix, time.Now())
			if snapshot.Exists(path) {
				log.Info("Crawl snapshot for this minute already exists, skipping crawl", "path", path)
				return nil
			}

			stack := deps.NewFetcherStack()
			defer stack.Close()

			metrics := observability.NewMetrics()
			runner := crawl.NewRunner(
				stack,
				deps.NewEnricher(content.NewExtractor()),
				crawl.Options{
					DefaultRateLimit: cfg.Crawler.DefaultRateLimit,
					SkipDates:        cfg.Enrichment.SkipDates,
				},
				metrics,
				log,
			)

			results, err := runner.Run(cmd.Context(), table)
			if err != nil {
				return fmt.Errorf("crawl interrupted after %d sources: %w", len(results), err)
			}

			if err = snapshot.WriteCrawl(path, results); err != nil {
				if errors.Is(err, snapshot.ErrSnapshotExists) {
					log.Info("Crawl snapshot was written concurrently, keeping it", "path", path)
					return nil
				}
				return fmt.Errorf("failed to write crawl snapshot: %w", err)
			}

			crawl.RenderReport(cmd.OutOrStdout(), results)
			log.Info("Crawl snapshot written", "path", path, "sources", len(results))

			if err = metrics.WriteTextfile(cfg.Metrics.Textfile); err != nil {
				log.Warn("Failed to write metrics", "error", err)
			}

			return nil
		},
	}

	cmd.Flags().StringSliceVar(&only, "source", nil, "crawl only the named sources (repeatable)")

	return cmd
}

// selectSources keeps the named sources in table order. No names keeps all.
func selectSources(table []*sources.Source, names []string) ([]*sources.Source, error) {
	if len(names) == 0 {
		return table, nil
	}

	known := sources.ByName(table)
	for _, name := range names {
		if _, ok := known[name]; !ok {
			return nil, fmt.Errorf("unknown source %q", name)
		}
	}

	selected := make([]*sources.Source, 0, len(names))
	for _, src := range table {
		if slices.Contains(names, src.Name) {
			selected = append(selected, src)
		}
	}
	return selected, nil
}
