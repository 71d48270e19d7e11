// Package content implements the content command, which caches the bodies of
// curated articles or of the top articles of the latest crawl.
package content

import (
	"fmt"

	"github.com/spf13/cobra"

	cmdcommon "github.com/jonesrussell/north-cloud/newsdesk/cmd/common"
	"github.com/jonesrussell/north-cloud/newsdesk/internal/content"
	"github.com/jonesrussell/north-cloud/newsdesk/internal/observability"
	"github.com/jonesrussell/north-cloud/newsdesk/internal/snapshot"
)

// Command returns the content command for use in the root command.
func Command() *cobra.Command {
	var (
		curatedFile string
		crawlFile   string
		topN        int
	)

	cmd := &cobra.Command{
		Use:   "content",
		Short: "Extract and cache article bodies as markdown",
		Long: `Fetch, extract and cache article bodies under content.output_dir.

With --curated the selected articles of a curated snapshot are cached.
Otherwise the first --top articles of every source of a crawl snapshot
(latest by default) are cached. Articles already cached are skipped.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, err := cmdcommon.NewCommandDeps()
			if err != nil {
				return fmt.Errorf("failed to initialize dependencies: %w", err)
			}
			defer deps.Flush()
			cfg := deps.Config
			log := deps.Logger

			if !cmd.Flags().Changed("top") {
				topN = cfg.Content.TopN
			}

			var items []content.Item
			if curatedFile != "" {
				curated, readErr := snapshot.ReadCurated(curatedFile)
				if readErr != nil {
					return readErr
				}
				items = content.ItemsFromCurated(curated)
			} else {
				if crawlFile == "" {
					if crawlFile, err = snapshot.Latest(cfg.Crawler.OutputDir, snapshot.CrawlPrefix); err != nil {
						return err
					}
				}
				results, readErr := snapshot.ReadCrawl(crawlFile)
				if readErr != nil {
					return readErr
				}
				items = content.TopN(results, topN)
			}

			if len(items) == 0 {
				log.Info("No articles to extract")
				return nil
			}

			table, err := deps.LoadSources()
			if err != nil {
				return err
			}

			stack := deps.NewFetcherStack()
			defer stack.Close()

			service := deps.NewContentService(stack, table, content.NewExtractor())
			report, err := service.Save(cmd.Context(), items)

			metrics := observability.NewMetrics()
			metrics.RecordContent(report.Saved, report.Skipped, report.Failed)
			if writeErr := metrics.WriteTextfile(cfg.Metrics.Textfile); writeErr != nil {
				log.Warn("Failed to write metrics", "error", writeErr)
			}

			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "saved %d, skipped %d, failed %d\n", report.Saved, report.Skipped, report.Failed)
			return nil
		},
	}

	cmd.Flags().StringVar(&curatedFile, "curated", "", "curated snapshot whose selections are cached")
	cmd.Flags().StringVar(&crawlFile, "crawl-file", "", "crawl snapshot to take the top articles from (default: latest)")
	cmd.Flags().IntVar(&topN, "top", 0, "articles per source taken from the crawl snapshot (default: content.top_n)")

	cmd.AddCommand(showCommand())

	return cmd
}
