package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/zephyrtronium/prefixcalc"
)

type evalOptions struct {
	in   string
	full bool
	echo bool
}

func newEvalCmd() *cobra.Command {
	opts := &evalOptions{}
	cmd := &cobra.Command{
		Use:   "eval [expression...]",
		Short: "Evaluate expressions",
		Long: `Evaluate each expression given as an argument, or each line of the input
if there are none. Results are truncated to the calculator display width
unless --full is given. Problems are reported on stderr.

Examples:
  prefixcalc eval '2*(3+4)' 'sqrt(2)'
  echo '1/7' | prefixcalc eval --full`,
		RunE: func(cmd *cobra.Command, args []string) error {
			exprs, err := inputs(cmd.InOrStdin(), opts.in, args)
			if err != nil {
				return err
			}
			return runEval(cmd.OutOrStdout(), cmd.ErrOrStderr(), exprs, opts)
		},
	}
	cmd.Flags().StringVar(&opts.in, "in", "", "input file, one expression per line (default stdin if no args given)")
	cmd.Flags().BoolVar(&opts.full, "full", false, "print full results instead of truncating to the display width")
	cmd.Flags().BoolVar(&opts.echo, "echo", false, "print the compiled prefix form before each result")
	return cmd
}

func runEval(stdout, stderr io.Writer, exprs []string, opts *evalOptions) error {
	failed := 0
	for _, expr := range exprs {
		notify := func(msg string) {
			fmt.Fprintf(stderr, "%s: %s\n", color.YellowString("%q", expr), msg)
		}
		if opts.echo {
			p, err := prefixcalc.Compile(expr)
			if err != nil {
				notify(err.Error())
				failed++
				continue
			}
			fmt.Fprintf(stdout, "%v : ", p)
		}
		var (
			r   string
			err error
		)
		if opts.full {
			r, err = full(expr, notify)
		} else {
			r, err = prefixcalc.Calculate(expr, notify)
		}
		if err != nil {
			failed++
			if opts.echo {
				fmt.Fprintln(stdout)
			}
			continue
		}
		fmt.Fprintln(stdout, r)
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d expressions failed", failed, len(exprs))
	}
	return nil
}

// full is Calculate without truncation. NaN is printed rather than reported.
func full(expr string, notify prefixcalc.Notifier) (string, error) {
	v, err := prefixcalc.EvalString(expr)
	if err != nil {
		notify(err.Error())
		return "", err
	}
	return strconv.FormatFloat(v, 'g', -1, 64), nil
}

// inputs collects expressions from args, or else from the named file or r.
// Blank lines are skipped.
func inputs(r io.Reader, name string, args []string) ([]string, error) {
	if len(args) > 0 && name == "" {
		return args, nil
	}
	switch name {
	case "", "-":
	default:
		f, err := os.Open(name)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}
	exprs := append([]string(nil), args...)
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		if line := strings.TrimSpace(sc.Text()); line != "" {
			exprs = append(exprs, line)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading input: %w", err)
	}
	return exprs, nil
}
