package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/njchilds90/gometric/internal/tools"
	"github.com/njchilds90/gometric/metric"
	"github.com/njchilds90/gometric/symbolic"
)

var (
	headingColor = color.New(color.FgCyan, color.Bold)
	labelColor   = color.New(color.FgGreen)
)

func newShowCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:       "show <metric>",
		Short:     "Print a metric's line element, matrix and components",
		Args:      cobra.ExactArgs(1),
		ValidArgs: metric.Names(),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := metric.Lookup(args[0])
			if err != nil {
				return err
			}
			return opts.renderMetric(cmd.OutOrStdout(), args[0], m)
		},
	}
}

func newInverseCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:       "inverse <metric>",
		Short:     "Print the inverse of a metric",
		Args:      cobra.ExactArgs(1),
		ValidArgs: metric.Names(),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := metric.Lookup(args[0])
			if err != nil {
				return err
			}
			inv, err := m.Inverse()
			if err != nil {
				return err
			}
			opts.logger.Debug("inverted metric", zap.String("metric", args[0]))
			return opts.renderMetric(cmd.OutOrStdout(), "inverse of "+args[0], inv)
		},
	}
}

func newRulesCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:       "rules <metric>",
		Short:     "List the derivative shorthand rules for a metric's components",
		Args:      cobra.ExactArgs(1),
		ValidArgs: metric.Names(),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := metric.Lookup(args[0])
			if err != nil {
				return err
			}
			rules := metric.DerivRules(m, opts.cfg.Notation.MaxOrder, opts.cfg.Notation.UseDots)
			opts.logger.Debug("generated rules", zap.String("metric", args[0]), zap.Int("count", rules.Len()))

			return opts.render(cmd.OutOrStdout(), tools.RulePairs(rules),
				func(w io.Writer) {
					rules.Each(func(old, repl symbolic.Expr) {
						fmt.Fprintf(w, "%s -> %s\n", old, repl)
					})
				},
				func(w io.Writer) {
					rules.Each(func(old, repl symbolic.Expr) {
						fmt.Fprintf(w, "%s = %s\n", old.LaTeX(), repl.LaTeX())
					})
				})
		},
	}
}

func newListCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the available metrics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			names := metric.Names()
			lines := func(w io.Writer) {
				for _, n := range names {
					fmt.Fprintln(w, n)
				}
			}
			return opts.render(cmd.OutOrStdout(), names, lines, lines)
		},
	}
}

func (o *options) renderMetric(w io.Writer, title string, m *metric.Metric) error {
	summary := tools.Summarize(m)
	return o.render(w, summary,
		func(w io.Writer) {
			headingColor.Fprint(w, title)
			fmt.Fprintf(w, " (%s: %s)\n", summary.Chart, strings.Join(summary.Coordinates, ", "))
			labelColor.Fprint(w, "ds^2 = ")
			fmt.Fprintln(w, summary.Twoform)
			labelColor.Fprintln(w, "matrix:")
			for _, row := range summary.Matrix {
				fmt.Fprintf(w, "  [%s]\n", strings.Join(row, ", "))
			}
			if len(summary.Components) > 0 {
				labelColor.Fprint(w, "components: ")
				fmt.Fprintln(w, strings.Join(summary.Components, ", "))
			}
		},
		func(w io.Writer) {
			fmt.Fprintf(w, "ds^2 = %s\n", m.LaTeX())
			fmt.Fprintf(w, "g = %s\n", m.Matrix().LaTeX())
		})
}

// render writes v as JSON or YAML, or calls text or latex for the other
// formats.
func (o *options) render(w io.Writer, v interface{}, text, latex func(io.Writer)) error {
	switch o.cfg.Output.Format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("failed to encode yaml: %w", err)
		}
		return enc.Close()
	case "latex":
		latex(w)
	default:
		text(w)
	}
	return nil
}
