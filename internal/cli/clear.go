package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/stockroom/internal/inventory"
)

// NewClearCommand creates the clear command.
func NewClearCommand(rootOpts *RootOptions) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove every item and save an empty catalog",
		Long: `Remove every item and save an empty catalog.

Requires --yes.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return newFormatter(rootOpts, cmd).Fail(&inventory.Error{
					Code:    inventory.ErrCodeInvalid,
					Message: "refusing to clear the catalog without --yes",
				})
			}
			return runWithApp(rootOpts, cmd, func(ctx context.Context, a *app) error {
				n := a.mgr.Len()
				if err := a.mgr.Clear(ctx); err != nil {
					return err
				}
				return a.out.Emit(map[string]int{"removed": n}, func(w io.Writer) {
					fmt.Fprintf(w, "Catalog cleared (%d item(s) removed).\n", n)
				})
			})
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "confirm clearing the catalog")

	return cmd
}
