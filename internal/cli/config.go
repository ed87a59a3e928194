package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/stockroom/internal/config"
	"github.com/roach88/stockroom/internal/persist"
)

// configView is the JSON payload of the config command.
type configView struct {
	Source string         `json:"source,omitempty"`
	Path   string         `json:"path"`
	Config *config.Config `json:"config"`
}

// NewConfigCommand creates the config command.
func NewConfigCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Long: `Print the configuration after applying defaults, the config file,
.env, STOCKROOM_* environment variables and flags, in that order.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfig(rootOpts, cmd)
		},
	}
	return cmd
}

func runConfig(opts *RootOptions, cmd *cobra.Command) error {
	out := newFormatter(opts, cmd)

	cfg, err := loadConfig(opts, cmd)
	if err != nil {
		return out.Fail(err)
	}

	path := cfg.Storage.Path
	if path == "" {
		path = persist.DefaultPath(persist.Strategy(cfg.Storage.Strategy))
	}
	view := configView{
		Source: config.SourceFile(config.LoadOptions{File: opts.ConfigFile}),
		Path:   path,
		Config: cfg,
	}

	if opts.Format == "json" {
		return out.Success(view)
	}

	w := cmd.OutOrStdout()
	if view.Source != "" {
		fmt.Fprintf(w, "Config file: %s\n", view.Source)
	} else {
		fmt.Fprintln(w, "Config file: none")
	}
	fmt.Fprintf(w, "Catalog file: %s\n\n", view.Path)
	fmt.Fprint(w, cfg.String())
	return nil
}
