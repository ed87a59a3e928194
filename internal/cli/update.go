package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/roach88/stockroom/internal/inventory"
)

// UpdateOptions holds flags for the update command.
type UpdateOptions struct {
	*RootOptions
	Name     string
	Price    string
	Quantity int
}

// NewUpdateCommand creates the update command.
func NewUpdateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &UpdateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change the name, price or quantity of an item",
		Long: `Change fields of every item with the given id. Only the flags you pass
are applied. An unknown id changes nothing, or fails with --strict.

Examples:
  stockroom update 1 --price 449.99
  stockroom update 1 --name "Corner Sofa" --quantity 3`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUpdate(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Name, "name", "", "new name")
	cmd.Flags().StringVar(&opts.Price, "price", "", "new unit price")
	cmd.Flags().IntVar(&opts.Quantity, "quantity", 0, "new units in stock")

	return cmd
}

func runUpdate(opts *UpdateOptions, arg string, cmd *cobra.Command) error {
	out := newFormatter(opts.RootOptions, cmd)
	id, err := parseIntArg("id", arg)
	if err != nil {
		return out.Fail(err)
	}
	patch, err := buildPatch(opts, cmd)
	if err != nil {
		return out.Fail(err)
	}

	return runWithApp(opts.RootOptions, cmd, func(ctx context.Context, a *app) error {
		n, err := a.mgr.Update(ctx, id, patch)
		if err != nil {
			return err
		}
		return a.out.Emit(countResult{ID: id, Count: n}, func(w io.Writer) {
			if n == 0 {
				fmt.Fprintf(w, "No item with id %d; nothing changed.\n", id)
				return
			}
			fmt.Fprintf(w, "Updated %d item(s) with id %d.\n", n, id)
		})
	})
}

// buildPatch turns the flags that were set into a Patch.
func buildPatch(opts *UpdateOptions, cmd *cobra.Command) (inventory.Patch, error) {
	var p inventory.Patch
	flags := cmd.Flags()
	if flags.Changed("name") {
		name := opts.Name
		p.Name = &name
	}
	if flags.Changed("price") {
		price, err := decimal.NewFromString(opts.Price)
		if err != nil {
			return p, &inventory.Error{
				Code:    inventory.ErrCodeInvalid,
				Message: fmt.Sprintf("price must be a decimal number, got %q", opts.Price),
			}
		}
		p.Price = &price
	}
	if flags.Changed("quantity") {
		qty := opts.Quantity
		p.Quantity = &qty
	}
	if p.Empty() {
		return p, &inventory.Error{
			Code:    inventory.ErrCodeInvalid,
			Message: "nothing to update: pass --name, --price or --quantity",
		}
	}
	return p, nil
}
