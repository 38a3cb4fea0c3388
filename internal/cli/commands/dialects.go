package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/bulkload/pkg/dialect"
)

// NewDialectsCmd creates the dialects command.
func NewDialectsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dialects",
		Short: "List registered dialect compilers",
		RunE: func(cmd *cobra.Command, _ []string) error {
			for _, name := range dialect.List() {
				c, _ := dialect.Get(name)
				fmt.Fprintf(cmd.OutOrStdout(), "%-10s (loads from %s)\n", name, c.RequiredMedium())
			}
			return nil
		},
	}
}
