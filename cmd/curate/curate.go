// Package curate implements the curate command.
package curate

import (
	"fmt"

	"github.com/spf13/cobra"

	cmdcommon "github.com/jonesrussell/north-cloud/newsdesk/cmd/common"
	"github.com/jonesrussell/north-cloud/newsdesk/internal/content"
	"github.com/jonesrussell/north-cloud/newsdesk/internal/curation"
	"github.com/jonesrussell/north-cloud/newsdesk/internal/observability"
)

// Command returns the curate command for use in the root command.
func Command() *cobra.Command {
	var (
		crawlFile   string
		skipContent bool
	)

	cmd := &cobra.Command{
		Use:   "curate",
		Short: "Select the articles of the week from the latest crawl",
		Long: `Read the latest crawl snapshot, drop articles delivered within the dedup
window, ask the selector for 1-3 articles per category and write
curated_YYMMDD_HHMM.json. The bodies of the selected articles are cached
unless --skip-content is set.

GEMINI_API_KEY must be set; the command fails before any network work otherwise.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, err := cmdcommon.NewCommandDeps()
			if err != nil {
				return fmt.Errorf("failed to initialize dependencies: %w", err)
			}
			defer deps.Flush()
			cfg := deps.Config

			selector, err := curation.NewGeminiSelector(
				cmd.Context(),
				cfg.Curation.APIKey,
				cfg.Curation.Model,
				cfg.Curation.Timeout,
			)
			if err != nil {
				return err
			}

			table, err := deps.LoadSources()
			if err != nil {
				return err
			}

			var saver ContentSaver
			if !skipContent {
				stack := deps.NewFetcherStack()
				defer stack.Close()
				saver = deps.NewContentService(stack, table, content.NewExtractor())
			}

			metrics := observability.NewMetrics()
			pipeline := NewPipeline(cfg, table, selector, saver, metrics, deps.Logger.WithComponent("curate"))

			path, err := pipeline.Run(cmd.Context(), crawlFile)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), path)

			if err = metrics.WriteTextfile(cfg.Metrics.Textfile); err != nil {
				deps.Logger.Warn("Failed to write metrics", "error", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&crawlFile, "crawl-file", "", "crawl snapshot to curate (default: latest)")
	cmd.Flags().BoolVar(&skipContent, "skip-content", false, "do not fetch and cache article bodies")

	return cmd
}
