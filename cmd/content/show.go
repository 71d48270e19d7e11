package content

import (
	"errors"
	"fmt"
	"io"
	"io/fs"

	"github.com/spf13/cobra"

	cmdcommon "github.com/jonesrussell/north-cloud/newsdesk/cmd/common"
	"github.com/jonesrussell/north-cloud/newsdesk/internal/content"
)

// ErrNotCached is returned when no body is cached for the article.
var ErrNotCached = errors.New("article body is not cached")

func showCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <source> <url>",
		Short: "Print a cached article body",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, err := cmdcommon.NewCommandDeps()
			if err != nil {
				return fmt.Errorf("failed to initialize dependencies: %w", err)
			}
			defer deps.Flush()

			store := content.NewStore(deps.Config.Content.OutputDir)
			return renderCached(cmd.OutOrStdout(), store, args[0], args[1])
		},
	}
}

func renderCached(w io.Writer, store *content.Store, source, rawURL string) error {
	meta, body, err := store.Load(source, rawURL)
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %s %s", ErrNotCached, source, rawURL)
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "%s\n%s\n", meta.Title, meta.URL)
	if meta.Date != "" {
		fmt.Fprintln(w, meta.Date)
	}
	fmt.Fprintf(w, "\n%s\n", body)
	return nil
}
