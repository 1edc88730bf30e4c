// Command prefixcalc compiles and evaluates calculator expressions, generates
// random ones, and checks the calculator against a reference evaluator.
package main

import (
	"fmt"
	"io"
	"log"
	"log/slog"

	"github.com/spf13/cobra"
)

func main() {
	log.SetFlags(0)
	if err := newRootCmd().Execute(); err != nil {
		log.Fatal(err)
	}
}

// rootOptions are the flags shared by every subcommand.
type rootOptions struct {
	logLevel string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:   "prefixcalc",
		Short: "Prefix-compiling calculator",
		Long: `prefixcalc compiles infix calculator expressions to an explicit-arity
prefix form and evaluates them.

Expressions use + - * / ^, unary minus, the functions sin cos tan cot ln
log sqrt, and () or {} for grouping. ^ is left-associative.

Use 'prefixcalc help <command>' for more information on a specific command.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	cmd.AddCommand(
		newEvalCmd(),
		newCompileCmd(),
		newGenCmd(),
		newDifftestCmd(opts),
	)
	return cmd
}

// newLogger creates a text logger writing to w at the named level.
func newLogger(w io.Writer, level string) (*slog.Logger, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("bad log level %q: %w", level, err)
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: l})), nil
}
