package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/zephyrtronium/prefixcalc"
)

func newCompileCmd() *cobra.Command {
	var in string
	cmd := &cobra.Command{
		Use:   "compile [expression...]",
		Short: "Print the prefix form of expressions",
		Long: `Compile each expression given as an argument, or each line of the input
if there are none, and print its prefix form. Operands are quoted, and
functions and unary minus are written as single-character sentinels.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			exprs, err := inputs(cmd.InOrStdin(), in, args)
			if err != nil {
				return err
			}
			return runCompile(cmd.OutOrStdout(), cmd.ErrOrStderr(), exprs)
		},
	}
	cmd.Flags().StringVar(&in, "in", "", "input file, one expression per line (default stdin if no args given)")
	return cmd
}

func runCompile(stdout, stderr io.Writer, exprs []string) error {
	failed := 0
	for _, expr := range exprs {
		p, err := prefixcalc.Compile(expr)
		if err != nil {
			fmt.Fprintf(stderr, "%q: %v\n", expr, err)
			failed++
			continue
		}
		fmt.Fprintln(stdout, p)
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d expressions failed", failed, len(exprs))
	}
	return nil
}
