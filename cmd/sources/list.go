package sources

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	cmdcommon "github.com/jonesrussell/north-cloud/newsdesk/cmd/common"
	internalsources "github.com/jonesrussell/north-cloud/newsdesk/internal/sources"
)

// TableRenderer handles the display of source data in a table format
type TableRenderer struct {
	out io.Writer
}

// NewTableRenderer creates a new TableRenderer instance
func NewTableRenderer(out io.Writer) *TableRenderer {
	return &TableRenderer{out: out}
}

// RenderTable formats and displays the sources in a table format
func (r *TableRenderer) RenderTable(list []*internalsources.Source) {
	t := table.NewWriter()
	t.SetOutputMirror(r.out)
	t.SetStyle(table.StyleLight)

	t.AppendHeader(table.Row{"Name", "Category", "URL", "Fetch", "Rate Limit", "Max", "Descriptions", "Strategies"})

	for _, src := range list {
		names := make([]string, 0, len(src.Strategies))
		for _, st := range src.Strategies {
			names = append(names, st.Name+" ("+st.Kind+")")
		}

		descriptions := "yes"
		if src.SkipDescriptions {
			descriptions = "no"
		}

		t.AppendRow(table.Row{
			src.Name,
			src.Category,
			src.URL,
			src.Fetch,
			src.RateLimit,
			src.MaxArticles,
			descriptions,
			strings.Join(names, "\n"),
		})
	}

	t.Render()
}

// NewListCommand creates a new list command
func NewListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all configured sources",
		Long:  `List the sources of the strategy table with their fetch mode and selector strategies.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, err := cmdcommon.NewCommandDeps()
			if err != nil {
				return fmt.Errorf("failed to get dependencies: %w", err)
			}
			defer deps.Flush()

			list, err := deps.LoadSources()
			if err != nil {
				return err
			}

			NewTableRenderer(cmd.OutOrStdout()).RenderTable(list)
			return nil
		},
	}
}
