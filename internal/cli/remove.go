package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

// NewRemoveCommand creates the remove command.
func NewRemoveCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "remove <id>",
		Aliases:       []string{"rm"},
		Short:         "Remove every item with the given id",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRemove(rootOpts, args[0], cmd)
		},
	}
	return cmd
}

func runRemove(opts *RootOptions, arg string, cmd *cobra.Command) error {
	id, err := parseIntArg("id", arg)
	if err != nil {
		return newFormatter(opts, cmd).Fail(err)
	}
	return runWithApp(opts, cmd, func(ctx context.Context, a *app) error {
		n, err := a.mgr.Remove(ctx, id)
		if err != nil {
			return err
		}
		return a.out.Emit(countResult{ID: id, Count: n}, func(w io.Writer) {
			if n == 0 {
				fmt.Fprintf(w, "No item with id %d; nothing removed.\n", id)
				return
			}
			fmt.Fprintf(w, "Removed %d item(s) with id %d.\n", n, id)
		})
	})
}
