package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

// NewSellCommand creates the sell command.
func NewSellCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sell <id> <quantity>",
		Short: "Sell units of an item",
		Long: `Sell units of an item, reducing its stock.

The sale is refused when fewer units are in stock than requested; the
catalog is left unchanged in that case.

Exit codes:
  0 - Sale recorded
  1 - Unknown id, invalid quantity or insufficient stock
  2 - The catalog could not be loaded or saved`,
		Example:       `  stockroom sell 1 2`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSell(rootOpts, args, cmd)
		},
	}
	return cmd
}

func runSell(opts *RootOptions, args []string, cmd *cobra.Command) error {
	id, err := parseIntArg("id", args[0])
	if err != nil {
		return newFormatter(opts, cmd).Fail(err)
	}
	qty, err := parseIntArg("quantity", args[1])
	if err != nil {
		return newFormatter(opts, cmd).Fail(err)
	}
	return runWithApp(opts, cmd, func(ctx context.Context, a *app) error {
		r, err := a.mgr.Sell(ctx, id, qty)
		if err != nil {
			return err
		}
		return a.out.Emit(r, func(w io.Writer) {
			fmt.Fprintf(w, "Sold %d unit(s) of %s; %d left.\n", qty, r.Name, r.Quantity)
		})
	})
}
