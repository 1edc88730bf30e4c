package main

import (
	"fmt"
	"io"
	"math/rand/v2"

	"github.com/spf13/cobra"

	"github.com/zephyrtronium/prefixcalc/internal/gen"
)

type genOptions struct {
	n          int
	minCycles  int
	maxCycles  int
	seed       uint64
	complexity string
	corrupt    float64
	oracle     bool
}

func newGenCmd() *cobra.Command {
	opts := &genOptions{}
	cmd := &cobra.Command{
		Use:   "gen",
		Short: "Generate random expressions",
		Long: `Generate random well-formed expressions, one per line. With --oracle, each
line also holds the expression in the reference evaluator's syntax,
separated by a tab. With --corrupt, expressions are corrupted before
printing.

Examples:
  prefixcalc gen -n 5 --seed 7
  prefixcalc gen --complexity low --oracle`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGen(cmd.OutOrStdout(), opts)
		},
	}
	cmd.Flags().IntVarP(&opts.n, "count", "n", 10, "number of expressions")
	cmd.Flags().IntVar(&opts.minCycles, "min-cycles", 25, "minimum expression machine cycles")
	cmd.Flags().IntVar(&opts.maxCycles, "max-cycles", 100, "maximum expression machine cycles")
	cmd.Flags().Uint64Var(&opts.seed, "seed", 0, "random seed")
	cmd.Flags().StringVar(&opts.complexity, "complexity", "mixed", "operator vocabulary: low, high, or mixed")
	cmd.Flags().Float64Var(&opts.corrupt, "corrupt", 0, "share of characters to corrupt (0 disables)")
	cmd.Flags().BoolVar(&opts.oracle, "oracle", false, "also print the reference syntax form")
	return cmd
}

func runGen(w io.Writer, opts *genOptions) error {
	if opts.n < 0 {
		return fmt.Errorf("count must be non-negative, got %d", opts.n)
	}
	if opts.minCycles < 0 || opts.maxCycles < opts.minCycles {
		return fmt.Errorf("bad cycle range [%d, %d]", opts.minCycles, opts.maxCycles)
	}
	var pickc func(r *rand.Rand) gen.Complexity
	switch opts.complexity {
	case "low":
		pickc = func(*rand.Rand) gen.Complexity { return gen.Low }
	case "high":
		pickc = func(*rand.Rand) gen.Complexity { return gen.High }
	case "mixed":
		pickc = func(r *rand.Rand) gen.Complexity { return gen.Complexity(r.IntN(2)) }
	default:
		return fmt.Errorf("unknown complexity %q", opts.complexity)
	}
	for i := 1; i <= opts.n; i++ {
		r := rand.New(rand.NewPCG(opts.seed, uint64(i)))
		cycles := opts.minCycles + r.IntN(opts.maxCycles-opts.minCycles+1)
		e := gen.NewBuilder(r).Build(cycles, pickc(r))
		raw := e.Raw
		if opts.corrupt > 0 {
			raw = gen.Corrupt(raw, opts.corrupt, r)
		}
		if opts.oracle {
			fmt.Fprintf(w, "%s\t%s\n", raw, gen.ToOracle(raw))
		} else {
			fmt.Fprintln(w, raw)
		}
	}
	return nil
}
