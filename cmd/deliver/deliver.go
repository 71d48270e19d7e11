// Package deliver implements the deliver command, which records a curated
// selection as delivered so later runs suppress it.
package deliver

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	cmdcommon "github.com/jonesrussell/north-cloud/newsdesk/cmd/common"
	"github.com/jonesrussell/north-cloud/newsdesk/internal/snapshot"
)

// Command returns the deliver command for use in the root command.
func Command() *cobra.Command {
	var curatedFile string

	cmd := &cobra.Command{
		Use:   "deliver",
		Short: "Record a curated selection as a delivered newsletter",
		Long: `Write newsletter_YYMMDD_HHMM.json into dedup.dir from a curated snapshot
(latest by default). The duplicate index reads these records.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, err := cmdcommon.NewCommandDeps()
			if err != nil {
				return fmt.Errorf("failed to initialize dependencies: %w", err)
			}
			defer deps.Flush()
			cfg := deps.Config

			if curatedFile == "" {
				if curatedFile, err = snapshot.Latest(cfg.Curation.OutputDir, snapshot.CuratedPrefix); err != nil {
					return err
				}
			}

			curated, err := snapshot.ReadCurated(curatedFile)
			if err != nil {
				return err
			}

			now := time.Now()
			newsletter := snapshot.NewsletterFromCurated(curated, now)
			path := snapshot.Path(cfg.Dedup.Dir, snapshot.NewsletterPrefix, now)
			if err = snapshot.WriteNewsletter(path, newsletter); err != nil {
				return fmt.Errorf("failed to write delivery record: %w", err)
			}

			deps.Logger.Info("Delivery recorded",
				"curated", curatedFile,
				"path", path,
				"academic", len(newsletter.AcademicArticles),
				"technews", len(newsletter.TechNewsArticles))
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}

	cmd.Flags().StringVar(&curatedFile, "curated", "", "curated snapshot to record (default: latest)")

	return cmd
}
