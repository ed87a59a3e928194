package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/stockroom/internal/inventory"
)

// NewFindCommand creates the find command.
func NewFindCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "find <id>",
		Short:         "Show the item with the given id",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFind(rootOpts, args[0], cmd)
		},
	}
	return cmd
}

func runFind(opts *RootOptions, arg string, cmd *cobra.Command) error {
	id, err := parseIntArg("id", arg)
	if err != nil {
		return newFormatter(opts, cmd).Fail(err)
	}
	return runWithApp(opts, cmd, func(ctx context.Context, a *app) error {
		r, err := a.mgr.Find(id)
		if err != nil {
			return err
		}
		return a.out.Emit(r, func(w io.Writer) {
			fmt.Fprintln(w, formatRecord(r))
		})
	})
}

// parseIntArg parses a whole-number positional argument.
func parseIntArg(name, s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, &inventory.Error{
			Code:    inventory.ErrCodeInvalid,
			Message: fmt.Sprintf("%s must be a whole number, got %q", name, s),
		}
	}
	return n, nil
}
