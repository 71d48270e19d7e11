// Package dedup implements the dedup command, a read-only view of what the
// duplicate index would remove from a crawl snapshot.
package dedup

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	cmdcommon "github.com/jonesrussell/north-cloud/newsdesk/cmd/common"
	"github.com/jonesrussell/north-cloud/newsdesk/internal/dedup"
	"github.com/jonesrussell/north-cloud/newsdesk/internal/snapshot"
)

// Command returns the dedup command for use in the root command.
func Command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dedup",
		Short: "Inspect the duplicate index",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cmd.AddCommand(newStatsCommand())

	return cmd
}

func newStatsCommand() *cobra.Command {
	var crawlFile string

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show per-source duplicate counts for a crawl snapshot",
		Long: `Build the duplicate index from the delivery records inside the dedup window
and show, per source, how many articles of the crawl snapshot (latest by
default) were already delivered. Nothing is written.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, err := cmdcommon.NewCommandDeps()
			if err != nil {
				return fmt.Errorf("failed to initialize dependencies: %w", err)
			}
			defer deps.Flush()
			cfg := deps.Config

			if crawlFile == "" {
				if crawlFile, err = snapshot.Latest(cfg.Crawler.OutputDir, snapshot.CrawlPrefix); err != nil {
					return err
				}
			}

			results, err := snapshot.ReadCrawl(crawlFile)
			if err != nil {
				return err
			}

			idx, err := dedup.NewLoader(cfg.Dedup.Dir, cfg.Dedup.Pattern, deps.Logger).Load(cfg.Dedup.Window())
			if err != nil {
				return err
			}

			bySource, order := snapshot.BySource(results)
			RenderStats(cmd.OutOrStdout(), order, dedup.Stats(bySource, idx))
			return nil
		},
	}

	cmd.Flags().StringVar(&crawlFile, "crawl-file", "", "crawl snapshot to inspect (default: latest)")

	return cmd
}

// RenderStats writes the per-source duplicate counts as a table.
func RenderStats(w io.Writer, order []string, stats map[string]dedup.Stat) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)

	t.AppendHeader(table.Row{"Source", "Total", "Duplicate", "New"})

	var total dedup.Stat
	for _, name := range order {
		s := stats[name]
		total.Total += s.Total
		total.Duplicate += s.Duplicate
		total.New += s.New
		t.AppendRow(table.Row{name, s.Total, s.Duplicate, s.New})
	}

	t.AppendFooter(table.Row{"Total", total.Total, total.Duplicate, total.New})
	t.Render()
}
