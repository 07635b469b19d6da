// Package cli implements the gometric command line.
package cli

import (
	"fmt"
	"runtime"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/njchilds90/gometric/internal/config"
	"github.com/njchilds90/gometric/internal/logging"
)

var (
	// Version information - set at build time
	Version   = "dev"
	GitCommit = "unknown"
)

// options holds the resolved settings shared by every subcommand.
type options struct {
	configPath string
	format     string
	maxOrder   int
	dots       bool

	cfg    *config.Config
	logger *zap.Logger
}

// NewRootCommand creates the root command
func NewRootCommand() *cobra.Command {
	opts := &options{logger: zap.NewNop()}

	rootCmd := &cobra.Command{
		Use:   "gometric",
		Short: "Symbolic spacetime metrics",
		Long: color.CyanString(`gometric - symbolic metrics for general relativity

Build a metric from a named factory, print its line element and matrix,
invert it, and list the derivative shorthand rules for its components.`),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return opts.resolve(cmd)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "path to a gometric.yaml config file")
	flags.StringVarP(&opts.format, "format", "f", "text", "output format: text, latex, json or yaml")
	flags.IntVar(&opts.maxOrder, "max-order", 2, "highest derivative order for shorthand rules")
	flags.BoolVar(&opts.dots, "dots", false, "use dot notation for single-argument components")

	rootCmd.AddCommand(newShowCommand(opts))
	rootCmd.AddCommand(newInverseCommand(opts))
	rootCmd.AddCommand(newRulesCommand(opts))
	rootCmd.AddCommand(newListCommand(opts))
	rootCmd.AddCommand(NewVersionCommand())

	return rootCmd
}

// resolve loads the config file and lets explicitly set flags override it.
func (o *options) resolve(cmd *cobra.Command) error {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if flags.Changed("format") {
		cfg.Output.Format = o.format
	}
	if flags.Changed("max-order") {
		cfg.Notation.MaxOrder = o.maxOrder
	}
	if flags.Changed("dots") {
		cfg.Notation.UseDots = o.dots
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	o.cfg = cfg
	o.logger = logging.New(cfg.Log.Level, cfg.Log.Development)
	o.logger.Debug("configuration resolved",
		zap.String("format", cfg.Output.Format),
		zap.Int("max_order", cfg.Notation.MaxOrder),
		zap.Bool("use_dots", cfg.Notation.UseDots))
	return nil
}

// NewVersionCommand creates the version command
func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return nil
		},
		Run: func(cmd *cobra.Command, _ []string) {
			w := cmd.OutOrStdout()
			titleColor := color.New(color.FgCyan, color.Bold)

			titleColor.Fprint(w, "gometric version: ")
			fmt.Fprintln(w, Version)
			titleColor.Fprint(w, "Git commit: ")
			fmt.Fprintln(w, GitCommit)
			titleColor.Fprint(w, "Go version: ")
			fmt.Fprintln(w, runtime.Version())
		},
	}
}
