package main

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/tphakala/go-bspline"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// evalOptions holds flags of the eval command.
type evalOptions struct {
	order   int
	deriv   int
	forward bool
}

func newEvalCmd() *cobra.Command {
	opts := &evalOptions{}

	cmd := &cobra.Command{
		Use:   "eval [flags] x...",
		Short: "Evaluate B_n, B'_n or B''_n at the given points",
		Example: `  bspline eval --order 3 0 0.5 1
  bspline eval --order 3 -0.5 -1.25
  bspline eval --order 3 --deriv 1 -- -0.5 0.5`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			xs, err := parseFloats(args)
			if err != nil {
				return err
			}
			return runEval(cmd.OutOrStdout(), opts, xs)
		},
	}

	cmd.Flags().IntVarP(&opts.order, "order", "n", bspline.DefaultOrder, "B-spline order")
	cmd.Flags().IntVarP(&opts.deriv, "deriv", "d", 0, "Derivative: 0, 1 or 2")
	cmd.Flags().BoolVar(&opts.forward, "forward", false, "Use the forward-shifted spline supported on [0, n+1]")

	return cmd
}

func runEval(w io.Writer, opts *evalOptions, xs []float64) error {
	fn, err := basisFunc(opts.order, opts.deriv, opts.forward)
	if err != nil {
		return err
	}

	logger.Debug("Evaluating",
		zap.Int("order", opts.order),
		zap.Int("deriv", opts.deriv),
		zap.Bool("forward", opts.forward),
		zap.Int("points", len(xs)))

	for _, x := range xs {
		if _, err := fmt.Fprintf(w, "%s\t%s\n", formatFloat(x), formatFloat(fn(x))); err != nil {
			return err
		}
	}
	return nil
}

// basisFunc selects the kernel function for a derivative, rejecting orders
// for which it does not exist instead of panicking.
func basisFunc(order, deriv int, forward bool) (func(float64) float64, error) {
	k, err := bspline.NewKernel(order)
	if err != nil {
		return nil, err
	}

	shift := 0.0
	if forward {
		shift = k.Support()
	}

	var fn func(float64) float64
	switch deriv {
	case 0:
		fn = k.Eval
	case 1:
		fn = k.Prime
	case 2:
		if order < minDoublePrimeOrder {
			return nil, fmt.Errorf("second derivative needs order >= %d, got %d", minDoublePrimeOrder, order)
		}
		fn = k.DoublePrime
	default:
		return nil, fmt.Errorf("derivative must be 0, 1 or 2, got %d", deriv)
	}

	return func(x float64) float64 { return fn(x - shift) }, nil
}

// tableOptions holds flags of the table command.
type tableOptions struct {
	order  int
	from   float64
	to     float64
	step   float64
	format string
}

// tableRow is one line of the table command's output.
type tableRow struct {
	X           float64  `yaml:"x"`
	Value       float64  `yaml:"value"`
	Prime       float64  `yaml:"prime"`
	DoublePrime *float64 `yaml:"double_prime,omitempty"`
}

func newTableCmd() *cobra.Command {
	opts := &tableOptions{}

	cmd := &cobra.Command{
		Use:   "table",
		Short: "Tabulate B_n and its derivatives over a range",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rows, err := buildTable(opts)
			if err != nil {
				return err
			}
			return writeTable(cmd.OutOrStdout(), rows, opts.format)
		},
	}

	cmd.Flags().IntVarP(&opts.order, "order", "n", bspline.DefaultOrder, "B-spline order")
	cmd.Flags().Float64Var(&opts.from, "from", -defaultTableRange, "First abscissa")
	cmd.Flags().Float64Var(&opts.to, "to", defaultTableRange, "Last abscissa")
	cmd.Flags().Float64Var(&opts.step, "step", defaultTableStep, "Abscissa spacing")
	cmd.Flags().StringVar(&opts.format, "format", formatText, "Output format: text or yaml")

	return cmd
}

func buildTable(opts *tableOptions) ([]tableRow, error) {
	k, err := bspline.NewKernel(opts.order)
	if err != nil {
		return nil, err
	}
	if !(opts.step > 0) || math.IsInf(opts.step, 0) {
		return nil, fmt.Errorf("step must be positive and finite, got %v", opts.step)
	}
	if opts.to < opts.from {
		return nil, fmt.Errorf("empty range [%v, %v]", opts.from, opts.to)
	}

	count := int(math.Floor((opts.to-opts.from)/opts.step+rangeSlack)) + 1
	if count > maxTableRows {
		return nil, fmt.Errorf("table would have %d rows (max %d)", count, maxTableRows)
	}

	rows := make([]tableRow, count)
	for i := range rows {
		// Multiply rather than accumulate so grid points stay exact.
		x := opts.from + float64(i)*opts.step
		rows[i] = tableRow{X: x, Value: k.Eval(x), Prime: k.Prime(x)}
		if opts.order >= minDoublePrimeOrder {
			v := k.DoublePrime(x)
			rows[i].DoublePrime = &v
		}
	}
	return rows, nil
}

func writeTable(w io.Writer, rows []tableRow, format string) error {
	switch format {
	case formatYAML:
		enc := yaml.NewEncoder(w)
		if err := enc.Encode(rows); err != nil {
			return fmt.Errorf("failed to encode table: %w", err)
		}
		return enc.Close()

	case formatText:
		tw := tabwriter.NewWriter(w, 0, tabWidth, 2, ' ', 0)
		fmt.Fprintln(tw, "x\tB\tB'\tB''")
		for _, r := range rows {
			ddb := "-"
			if r.DoublePrime != nil {
				ddb = formatFloat(*r.DoublePrime)
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", formatFloat(r.X), formatFloat(r.Value), formatFloat(r.Prime), ddb)
		}
		return tw.Flush()

	default:
		return fmt.Errorf("unknown format %q (want %s or %s)", format, formatText, formatYAML)
	}
}

func newFibCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fib n",
		Short: "Print the n-th Fibonacci number",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := strconv.ParseUint(args[0], 10, 32)
			if err != nil {
				return fmt.Errorf("invalid n %q: %w", args[0], err)
			}
			f, err := bspline.CheckedFibonacci(uint32(n))
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), f)
			return err
		},
	}
}

func parseFloats(args []string) ([]float64, error) {
	xs := make([]float64, len(args))
	for i, a := range args {
		x, err := strconv.ParseFloat(a, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q: %w", a, err)
		}
		xs[i] = x
	}
	return xs, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
