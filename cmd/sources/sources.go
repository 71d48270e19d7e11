// Package sources implements the sources command.
package sources

import (
	"github.com/spf13/cobra"
)

// Command returns the sources command for use in the root command.
func Command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sources",
		Short: "Inspect the source strategy table",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cmd.AddCommand(NewListCommand())

	return cmd
}
