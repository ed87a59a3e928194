package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose    bool
	Format     string // "json" | "text"
	ConfigFile string
	File       string
	Strategy   string
	Delimiter  string
	Unique     bool
	Strict     bool
	NoAutosave bool
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the stockroom CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "stockroom",
		Short: "Furniture inventory for a small shop",
		Long: `stockroom keeps a catalog of furniture items (id, name, quantity, price)
in a local file and lets you add, list, sell, update and remove them.

The catalog file is loaded when a command starts and saved after every
change. Use "stockroom shell" for the interactive menu.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Validate format flag
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
	}

	// Global flags
	pf := cmd.PersistentFlags()
	pf.BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output (debug logging)")
	pf.StringVar(&opts.Format, "format", "text", "output format (json|text)")
	pf.StringVar(&opts.ConfigFile, "config", "", "config file (default stockroom.yaml if present)")
	pf.StringVarP(&opts.File, "file", "f", "", "catalog file (default depends on strategy)")
	pf.StringVar(&opts.Strategy, "strategy", "", "storage strategy (text|binary|sqlite)")
	pf.StringVar(&opts.Delimiter, "delimiter", "", "field delimiter for the text strategy")
	pf.BoolVar(&opts.Unique, "unique", false, "reject items whose id already exists")
	pf.BoolVar(&opts.Strict, "strict", false, "fail when updating or removing an unknown id")
	pf.BoolVar(&opts.NoAutosave, "no-autosave", false, "save once when the command finishes instead of after every change")

	// Add subcommands
	cmd.AddCommand(NewAddCommand(opts))
	cmd.AddCommand(NewListCommand(opts))
	cmd.AddCommand(NewFindCommand(opts))
	cmd.AddCommand(NewSellCommand(opts))
	cmd.AddCommand(NewUpdateCommand(opts))
	cmd.AddCommand(NewRemoveCommand(opts))
	cmd.AddCommand(NewClearCommand(opts))
	cmd.AddCommand(NewShellCommand(opts))
	cmd.AddCommand(NewTestCommand(opts))
	cmd.AddCommand(NewConfigCommand(opts))

	return cmd
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}
