package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/zephyrtronium/prefixcalc/internal/difftest"
)

type difftestOptions struct {
	config      string
	runs        int
	seed        uint64
	timeout     time.Duration
	workers     int
	ratio       float64
	out         string
	verbose     bool
	metricsAddr string
}

func newDifftestCmd(root *rootOptions) *cobra.Command {
	opts := &difftestOptions{}
	cmd := &cobra.Command{
		Use:   "difftest",
		Short: "Check the calculator against the reference evaluator",
		Long: `Generate random expressions and evaluate each with both the calculator and
the reference evaluator. Odd runs use expressions as generated and count
toward accuracy. Even runs corrupt them first and count toward handled
failures.

Settings come from --config (YAML or JSON), then PREFIXCALC_* environment
variables, then flags.

Examples:
  prefixcalc difftest --runs 1000 --seed 7
  prefixcalc difftest --config difftest.yaml --out report.json --metrics-addr :9090`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := difftest.LoadConfig(opts.config)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			flags := cmd.Flags()
			if flags.Changed("runs") {
				cfg.Runs = opts.runs
			}
			if flags.Changed("seed") {
				cfg.Seed = opts.seed
			}
			if flags.Changed("timeout") {
				cfg.Timeout = opts.timeout
			}
			if flags.Changed("workers") {
				cfg.Workers = opts.workers
			}
			if flags.Changed("corrupt-ratio") {
				cfg.CorruptRatio = opts.ratio
			}
			if flags.Changed("log-level") {
				cfg.LogLevel = root.logLevel
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid config: %w", err)
			}
			logger, err := newLogger(cmd.ErrOrStderr(), cfg.LogLevel)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			return runDifftest(ctx, cmd, cfg, logger, opts)
		},
	}
	cmd.Flags().StringVar(&opts.config, "config", "", "configuration file (YAML or JSON)")
	cmd.Flags().IntVar(&opts.runs, "runs", 100, "number of expressions to test")
	cmd.Flags().Uint64Var(&opts.seed, "seed", 0, "random seed")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 25*time.Second, "time limit for each calculator evaluation")
	cmd.Flags().IntVar(&opts.workers, "workers", 0, "concurrent runs (default GOMAXPROCS)")
	cmd.Flags().Float64Var(&opts.ratio, "corrupt-ratio", 0.15, "share of characters replaced in corrupted runs")
	cmd.Flags().StringVar(&opts.out, "out", "", "write the full report to this JSON file")
	cmd.Flags().BoolVar(&opts.verbose, "verbose", false, "list every failing run in the summary")
	cmd.Flags().StringVar(&opts.metricsAddr, "metrics-addr", "", "serve Prometheus metrics at this address while running")
	return cmd
}

func runDifftest(ctx context.Context, cmd *cobra.Command, cfg difftest.Config, logger *slog.Logger, opts *difftestOptions) error {
	if opts.metricsAddr != "" {
		srv, err := serveMetrics(opts.metricsAddr, logger)
		if err != nil {
			return err
		}
		defer func() {
			sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(sctx)
		}()
	}

	h := difftest.New(cfg, logger)
	rep, err := h.Run(ctx)
	if rep == nil {
		return err
	}
	if err != nil {
		logger.Warn("session interrupted", slog.Any("err", err), slog.Int("missing", rep.Stats.Missing))
	}
	rep.PrintSummary(cmd.OutOrStdout(), opts.verbose)
	if opts.out != "" {
		if err := rep.ExportToJSON(opts.out); err != nil {
			return err
		}
		logger.Info("report written", slog.String("file", opts.out))
	}
	return err
}

// serveMetrics starts an HTTP server exposing the default Prometheus registry
// at /metrics.
func serveMetrics(addr string, logger *slog.Logger) (*http.Server, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("metrics listener: %w", err)
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server failed", slog.Any("err", err))
		}
	}()
	logger.Info("serving metrics", slog.String("addr", ln.Addr().String()))
	return srv, nil
}
