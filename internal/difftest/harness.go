// Package difftest checks the prefix calculator against the reference
// evaluator on randomly generated expressions, half of them corrupted.
package difftest

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/zephyrtronium/prefixcalc"
	"github.com/zephyrtronium/prefixcalc/internal/gen"
	"github.com/zephyrtronium/prefixcalc/internal/oracle"
)

// Oracle evaluates expressions in the reference syntax.
type Oracle interface {
	Eval(expr string) (float64, error)
}

// Engine evaluates expressions in calculator syntax.
type Engine func(expr string) (float64, error)

// Harness runs differential test sessions. Fields left nil take defaults when
// Run is called.
type Harness struct {
	Config Config
	// Oracle defaults to an oracle.Evaluator at its default precision.
	Oracle Oracle
	// Engine defaults to prefixcalc.EvalString.
	Engine Engine
	// Source returns the random source for the 1-based run n. The default
	// is a PCG seeded with (Config.Seed, n).
	Source func(n int) *rand.Rand
	// Logger defaults to discarding.
	Logger *slog.Logger
}

// New creates a harness with the default oracle and engine.
func New(cfg Config, logger *slog.Logger) *Harness {
	return &Harness{Config: cfg, Logger: logger}
}

// Record is the result of one run.
type Record struct {
	// Run is the 1-based run number. Zero marks a run that never finished.
	Run        int    `json:"run"`
	Good       bool   `json:"good"`
	Cycles     int    `json:"cycles"`
	Complexity string `json:"complexity"`

	// Generated is the expression as generated. Input is what the
	// calculator evaluated, and OracleInput what the oracle evaluated.
	Generated   string `json:"generated"`
	Input       string `json:"input"`
	OracleInput string `json:"oracle_input"`

	Expected    Value  `json:"expected"`
	OracleError string `json:"oracle_error,omitempty"`

	Actual      Value         `json:"actual"`
	EngineError string        `json:"engine_error,omitempty"`
	TimedOut    bool          `json:"timed_out,omitempty"`
	Panicked    bool          `json:"panicked,omitempty"`
	Elapsed     time.Duration `json:"elapsed_ns"`

	Verdict Verdict `json:"verdict"`
}

// Outcome is the result of a single bounded calculator evaluation. Value is
// zero whenever Err is non-nil.
type Outcome struct {
	Value    float64
	Err      error
	TimedOut bool
	Panicked bool
	Elapsed  time.Duration
}

// Run executes a session. Runs proceed concurrently on Config.Workers
// goroutines until all finish or ctx is done; the report covers finished
// runs, and the returned error is ctx's error, if any.
func (h *Harness) Run(ctx context.Context) (*Report, error) {
	cfg := h.Config
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	rep := &Report{ID: uuid.New(), Started: time.Now(), Config: cfg}
	log := h.logger().With(slog.String("session", rep.ID.String()))
	log.Info("session starting", slog.Int("runs", cfg.Runs), slog.Int("workers", cfg.Workers), slog.Uint64("seed", cfg.Seed))

	records := make([]Record, cfg.Runs)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Workers)
	for i := range records {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if gctx.Err() != nil {
				return nil
			}
			rec := h.run(gctx, i+1)
			if gctx.Err() != nil && rec.TimedOut {
				// Cancelled along with the session rather than timed out.
				return nil
			}
			records[i] = rec
			observe(&records[i])
			logRecord(log, &records[i])
			return nil
		})
	}
	_ = g.Wait()

	rep.Duration = time.Since(rep.Started)
	rep.Stats = Summarize(records, cfg.Runs)
	for _, rec := range records {
		if rec.Run != 0 {
			rep.Records = append(rep.Records, rec)
		}
	}
	log.Info("session finished",
		slog.Duration("duration", rep.Duration),
		slog.Float64("accuracy", rep.Stats.Accuracy),
		slog.Float64("handled_rate", rep.Stats.HandledRate),
		slog.Int("missing", rep.Stats.Missing),
	)
	return rep, ctx.Err()
}

// run generates, evaluates, and classifies run n.
func (h *Harness) run(ctx context.Context, n int) Record {
	cfg := h.Config
	r := h.source(n)
	cycles := cfg.MinCycles + r.IntN(cfg.MaxCycles-cfg.MinCycles+1)
	c := gen.Complexity(r.IntN(2))
	e := gen.NewBuilder(r).Build(cycles, c)
	rec := Record{
		Run:         n,
		Good:        n%2 == 1,
		Cycles:      cycles,
		Complexity:  c.String(),
		Generated:   e.Raw,
		Input:       e.Raw,
		OracleInput: e.Oracle,
	}
	if !rec.Good {
		rec.Input = gen.Corrupt(e.Raw, cfg.CorruptRatio, r)
		rec.OracleInput = gen.ToOracle(rec.Input)
	}

	want, err := h.oracle().Eval(rec.OracleInput)
	if err != nil {
		rec.OracleError = err.Error()
		want = 0
	}
	rec.Expected = Value(want)

	out := h.Evaluate(ctx, rec.Input)
	rec.Actual = Value(out.Value)
	if out.Err != nil {
		rec.EngineError = out.Err.Error()
	}
	rec.TimedOut = out.TimedOut
	rec.Panicked = out.Panicked
	rec.Elapsed = out.Elapsed
	rec.Verdict = Classify(&rec, cfg.Tolerance)
	return rec
}

// Evaluate runs the calculator on expr in its own goroutine, bounded by
// Config.Timeout. Panics are recovered. A calculator that does not return in
// time is abandoned; it shares no state with the harness.
func (h *Harness) Evaluate(ctx context.Context, expr string) Outcome {
	start := time.Now()
	ctx, cancel := context.WithTimeout(ctx, h.Config.Timeout)
	defer cancel()
	engine := h.engine()
	done := make(chan Outcome, 1)
	go func() {
		var o Outcome
		defer func() {
			if p := recover(); p != nil {
				o = Outcome{Err: fmt.Errorf("calculator panicked: %v", p), Panicked: true}
			}
			done <- o
		}()
		v, err := engine(expr)
		if err != nil {
			v = 0
		}
		o = Outcome{Value: v, Err: err}
	}()
	select {
	case o := <-done:
		o.Elapsed = time.Since(start)
		return o
	case <-ctx.Done():
		return Outcome{Err: ctx.Err(), TimedOut: true, Elapsed: time.Since(start)}
	}
}

func logRecord(log *slog.Logger, rec *Record) {
	attrs := []any{
		slog.Int("run", rec.Run),
		slog.Bool("good", rec.Good),
		slog.String("complexity", rec.Complexity),
		slog.String("generated", rec.Generated),
		slog.String("input", rec.Input),
		slog.String("oracle_input", rec.OracleInput),
		slog.Float64("expected", float64(rec.Expected)),
		slog.Float64("actual", float64(rec.Actual)),
		slog.String("verdict", string(rec.Verdict)),
		slog.Duration("elapsed", rec.Elapsed),
	}
	if rec.OracleError != "" {
		attrs = append(attrs, slog.String("oracle_error", rec.OracleError))
	}
	if rec.EngineError != "" {
		attrs = append(attrs, slog.String("engine_error", rec.EngineError))
	}
	switch {
	case rec.TimedOut:
		log.Warn("calculator timed out", attrs...)
	case rec.Panicked:
		log.Error("calculator panicked", attrs...)
	case rec.Verdict == Wrong || rec.Verdict == Unhandled:
		log.Info("engines disagree", attrs...)
	default:
		log.Debug("run finished", attrs...)
	}
}

func (h *Harness) source(n int) *rand.Rand {
	if h.Source != nil {
		return h.Source(n)
	}
	return rand.New(rand.NewPCG(h.Config.Seed, uint64(n)))
}

func (h *Harness) oracle() Oracle {
	if h.Oracle != nil {
		return h.Oracle
	}
	return oracle.Evaluator{Prec: oracle.DefaultPrec}
}

func (h *Harness) engine() Engine {
	if h.Engine != nil {
		return h.Engine
	}
	return prefixcalc.EvalString
}

func (h *Harness) logger() *slog.Logger {
	if h.Logger != nil {
		return h.Logger
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
