package cli

import (
	"context"
	"io"

	"github.com/spf13/cobra"
)

// NewListCommand creates the list command.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"view"},
		Short:   "List every item in catalog order",
		Args:    cobra.NoArgs,
		Example: `  stockroom list
  stockroom view --format json`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithApp(rootOpts, cmd, func(ctx context.Context, a *app) error {
				records := a.mgr.List()
				return a.out.Emit(records, func(w io.Writer) {
					renderRecords(w, records)
				})
			})
		},
	}
	return cmd
}
