package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/stockroom/internal/inventory"
)

// AddOptions holds flags for the add command.
type AddOptions struct {
	*RootOptions
	ID       int
	Name     string
	Price    string
	Quantity int
}

// NewAddCommand creates the add command.
func NewAddCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &AddOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add an item to the catalog",
		Long: `Add an item to the catalog and save it.

The price is a decimal number such as 499.99. Names are trimmed.
With --unique an id that already exists is rejected.

Examples:
  stockroom add --id 1 --name Sofa --price 499.99 --quantity 5
  stockroom add --id 2 --name "Oak Table" --price 1299 --quantity 1 --unique`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdd(opts, cmd)
		},
	}

	cmd.Flags().IntVar(&opts.ID, "id", 0, "item id")
	cmd.Flags().StringVar(&opts.Name, "name", "", "item name")
	cmd.Flags().StringVar(&opts.Price, "price", "", "unit price")
	cmd.Flags().IntVar(&opts.Quantity, "quantity", 0, "units in stock")
	for _, name := range []string{"id", "name", "price", "quantity"} {
		_ = cmd.MarkFlagRequired(name)
	}

	return cmd
}

func runAdd(opts *AddOptions, cmd *cobra.Command) error {
	return runWithApp(opts.RootOptions, cmd, func(ctx context.Context, a *app) error {
		r, err := inventory.NewRecord(opts.ID, opts.Name, opts.Quantity, opts.Price)
		if err != nil {
			return err
		}
		if err := a.mgr.Add(ctx, r); err != nil {
			return err
		}
		// Add appends, and the stored copy carries the normalised name.
		list := a.mgr.List()
		added := list[len(list)-1]
		return a.out.Emit(added, func(w io.Writer) {
			fmt.Fprintf(w, "Item added: %s\n", formatRecord(added))
		})
	})
}
