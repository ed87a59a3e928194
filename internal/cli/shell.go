package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/roach88/stockroom/internal/inventory"
	"github.com/roach88/stockroom/internal/manager"
)

// NewShellCommand creates the interactive menu command.
func NewShellCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "shell",
		Short: "Interactive menu for adding, viewing and selling items",
		Long: `Start the interactive menu:

  1. Add
  2. View All
  3. Sell
  4. Save and Exit

The catalog is saved on exit, and after every change unless --no-autosave
is given. End of input, or unreadable input such as an overlong line,
behaves like "Save and Exit".`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShell(rootOpts, cmd)
		},
	}
	return cmd
}

func runShell(opts *RootOptions, cmd *cobra.Command) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	a, err := openApp(ctx, opts, cmd)
	if err != nil {
		return err
	}
	c := &console{
		in:  bufio.NewScanner(cmd.InOrStdin()),
		out: cmd.OutOrStdout(),
		mgr: a.mgr,
	}
	c.run(ctx)
	return nil
}

// console drives a manager from line-oriented input.
type console struct {
	in  *bufio.Scanner
	out io.Writer
	mgr *manager.Manager
}

func (c *console) run(ctx context.Context) {
	for {
		c.menu()
		choice, ok := c.readInt("Enter your choice: ")
		if !ok {
			fmt.Fprintln(c.out)
			if err := c.in.Err(); err != nil {
				fmt.Fprintf(c.out, "Input error: %v\n", err)
			}
			c.saveAndExit(ctx)
			return
		}
		switch choice {
		case 1:
			c.add(ctx)
		case 2:
			c.viewAll()
		case 3:
			c.sell(ctx)
		case 4:
			c.saveAndExit(ctx)
			return
		default:
			fmt.Fprintln(c.out, "Invalid choice! Please select between 1-4.")
		}
	}
}

func (c *console) menu() {
	fmt.Fprintln(c.out)
	fmt.Fprintln(c.out, "=== Furniture Inventory ===")
	fmt.Fprintln(c.out, "1. Add")
	fmt.Fprintln(c.out, "2. View All")
	fmt.Fprintln(c.out, "3. Sell")
	fmt.Fprintln(c.out, "4. Save and Exit")
}

func (c *console) add(ctx context.Context) {
	id, ok := c.readInt("Enter ID: ")
	if !ok {
		return
	}
	name, ok := c.readLine("Enter Name: ")
	if !ok {
		return
	}
	qty, ok := c.readInt("Enter Quantity: ")
	if !ok {
		return
	}
	price, ok := c.readDecimal("Enter Price: ")
	if !ok {
		return
	}

	err := c.mgr.Add(ctx, inventory.Record{ID: id, Name: name, Quantity: qty, Price: price})
	if c.report(err) {
		fmt.Fprintln(c.out, "Item added successfully!")
	}
}

func (c *console) viewAll() {
	fmt.Fprintln(c.out, "--- Available Items ---")
	renderRecords(c.out, c.mgr.List())
}

func (c *console) sell(ctx context.Context) {
	id, ok := c.readInt("Enter ID to sell: ")
	if !ok {
		return
	}
	qty, ok := c.readInt("Enter Quantity: ")
	if !ok {
		return
	}

	r, err := c.mgr.Sell(ctx, id, qty)
	if c.report(err) {
		fmt.Fprintf(c.out, "Sale successful! %d left of %s.\n", r.Quantity, r.Name)
	}
}

func (c *console) saveAndExit(ctx context.Context) {
	if err := c.mgr.Save(ctx); err != nil {
		fmt.Fprintf(c.out, "Failed to save data: %v\n", err)
	} else {
		fmt.Fprintf(c.out, "Saved %d item(s) to %s.\n", c.mgr.Len(), c.mgr.Adapter().Path())
	}
	fmt.Fprintln(c.out, "Exiting... Goodbye!")
}

// report prints a failed operation and returns true when err is nil.
// A failed autosave leaves the change applied in memory.
func (c *console) report(err error) bool {
	switch {
	case err == nil:
		return true
	case inventory.CodeOf(err) != "":
		fmt.Fprintf(c.out, "Error: %v\n", err)
		return false
	default:
		fmt.Fprintf(c.out, "Change kept in memory but not saved: %v\n", err)
		return false
	}
}

// readLine prompts until a non-blank line is read. It returns false at end of input.
func (c *console) readLine(prompt string) (string, bool) {
	for {
		fmt.Fprint(c.out, prompt)
		if !c.in.Scan() {
			return "", false
		}
		line := strings.TrimSpace(c.in.Text())
		if line != "" {
			return line, true
		}
	}
}

// readInt prompts until a whole number is entered.
func (c *console) readInt(prompt string) (int, bool) {
	for {
		line, ok := c.readLine(prompt)
		if !ok {
			return 0, false
		}
		n, err := strconv.Atoi(line)
		if err == nil {
			return n, true
		}
		fmt.Fprintln(c.out, "Invalid input! Please enter a whole number.")
	}
}

// readDecimal prompts until a decimal number is entered.
func (c *console) readDecimal(prompt string) (decimal.Decimal, bool) {
	for {
		line, ok := c.readLine(prompt)
		if !ok {
			return decimal.Decimal{}, false
		}
		d, err := decimal.NewFromString(line)
		if err == nil {
			return d, true
		}
		fmt.Fprintln(c.out, "Invalid input! Please enter a number.")
	}
}
