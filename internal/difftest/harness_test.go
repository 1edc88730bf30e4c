package difftest_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zephyrtronium/prefixcalc/internal/difftest"
	"github.com/zephyrtronium/prefixcalc/internal/gen"
	"github.com/zephyrtronium/prefixcalc/internal/oracle"
)

func testConfig(runs int) difftest.Config {
	cfg := difftest.DefaultConfig()
	cfg.Runs = runs
	cfg.MinCycles = 5
	cfg.MaxCycles = 30
	cfg.Workers = 4
	cfg.Seed = 1
	cfg.Timeout = 5 * time.Second
	return cfg
}

// viaOracle is an engine which evaluates calculator syntax with the oracle.
func viaOracle(expr string) (float64, error) {
	return oracle.EvalString(gen.ToOracle(expr))
}

func TestRunSelfConsistent(t *testing.T) {
	h := &difftest.Harness{Config: testConfig(40), Engine: viaOracle}
	rep, err := h.Run(context.Background())
	require.NoError(t, err)
	s := rep.Stats
	assert.Equal(t, 20, s.Good)
	assert.Equal(t, 20, s.Bad)
	assert.Equal(t, 0, s.Missing)
	assert.Equal(t, 20, s.Correct)
	assert.Equal(t, 20, s.Handled)
	assert.Equal(t, 1.0, s.Accuracy)
	assert.Equal(t, 1.0, s.HandledRate)
	assert.Equal(t, 0.0, s.UnhandledRate)
	assert.Equal(t, 1.0, s.PassRate)
	require.Len(t, rep.Records, 40)
	for i, rec := range rep.Records {
		assert.Equal(t, i+1, rec.Run)
		assert.Equal(t, rec.Run%2 == 1, rec.Good)
		assert.GreaterOrEqual(t, rec.Cycles, 5)
		assert.LessOrEqual(t, rec.Cycles, 30)
		if rec.Good {
			assert.Equal(t, rec.Generated, rec.Input)
		} else {
			assert.Len(t, rec.Input, len(rec.Generated))
		}
		assert.Equal(t, gen.ToOracle(rec.Input), rec.OracleInput)
	}
}

func TestRunCalculator(t *testing.T) {
	h := difftest.New(testConfig(60), nil)
	rep, err := h.Run(context.Background())
	require.NoError(t, err)
	s := rep.Stats
	assert.Equal(t, 0, s.Missing)
	assert.Equal(t, 0, s.TimedOut)
	assert.Equal(t, 0, s.Panicked)
	assert.Equal(t, s.Good, s.Correct+s.Wrong)
	assert.Equal(t, s.Bad, s.Handled+s.Unhandled)
	// Corrupted expressions are almost always rejected outright.
	assert.GreaterOrEqual(t, s.HandledRate, 0.8)
	for _, rec := range rep.Records {
		if rec.Good {
			assert.Empty(t, rec.EngineError, "run %d: %q", rec.Run, rec.Input)
		}
	}
}

func TestRunDeterministic(t *testing.T) {
	// Compare encoded records so that NaN results compare equal.
	run := func(workers int) string {
		cfg := testConfig(24)
		cfg.Workers = workers
		rep, err := difftest.New(cfg, nil).Run(context.Background())
		require.NoError(t, err)
		for i := range rep.Records {
			rep.Records[i].Elapsed = 0
		}
		b, err := json.Marshal(rep.Records)
		require.NoError(t, err)
		return string(b)
	}
	assert.Equal(t, run(1), run(8))
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	h := difftest.New(testConfig(9), nil)
	rep, err := h.Run(ctx)
	require.ErrorIs(t, err, context.Canceled)
	require.NotNil(t, rep)
	assert.Equal(t, 9, rep.Stats.Missing)
	assert.Equal(t, 4, rep.Stats.Unhandled)
	assert.Equal(t, 1.0, rep.Stats.UnhandledRate)
	assert.Empty(t, rep.Records)
}

func TestRunInvalidConfig(t *testing.T) {
	h := difftest.New(difftest.Config{}, nil)
	_, err := h.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid config")
}

func TestRunOracleErrors(t *testing.T) {
	h := &difftest.Harness{
		Config: testConfig(6),
		Oracle: oracleFunc(func(string) (float64, error) { return 7, errors.New("nope") }),
		Engine: func(string) (float64, error) { return 0, nil },
	}
	rep, err := h.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 6, rep.Stats.OracleErrors)
	for _, rec := range rep.Records {
		assert.Equal(t, "nope", rec.OracleError)
		assert.Equal(t, difftest.Value(0), rec.Expected)
	}
	assert.Equal(t, 1.0, rep.Stats.Accuracy)
}

func TestRunLogs(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	h := difftest.New(testConfig(2), logger)
	rep, err := h.Run(context.Background())
	require.NoError(t, err)
	out := buf.String()
	assert.Contains(t, out, "session starting")
	assert.Contains(t, out, "session finished")
	assert.Contains(t, out, rep.ID.String())
	assert.Contains(t, out, `"generated":`)
	assert.Contains(t, out, `"oracle_input":`)
}

type oracleFunc func(string) (float64, error)

func (f oracleFunc) Eval(expr string) (float64, error) { return f(expr) }

func TestEvaluate(t *testing.T) {
	h := difftest.New(testConfig(1), nil)
	o := h.Evaluate(context.Background(), "2*(3+4)")
	require.NoError(t, o.Err)
	assert.Equal(t, 14.0, o.Value)
	assert.False(t, o.TimedOut)
	assert.False(t, o.Panicked)
}

func TestEvaluateError(t *testing.T) {
	h := &difftest.Harness{
		Config: testConfig(1),
		Engine: func(string) (float64, error) { return 5, errors.New("bad") },
	}
	o := h.Evaluate(context.Background(), "1")
	require.EqualError(t, o.Err, "bad")
	assert.Equal(t, 0.0, o.Value)
}

func TestEvaluateTimeout(t *testing.T) {
	release := make(chan struct{})
	defer close(release)
	cfg := testConfig(1)
	cfg.Timeout = 10 * time.Millisecond
	h := &difftest.Harness{
		Config: cfg,
		Engine: func(string) (float64, error) {
			<-release
			return 1, nil
		},
	}
	o := h.Evaluate(context.Background(), "1")
	assert.True(t, o.TimedOut)
	assert.ErrorIs(t, o.Err, context.DeadlineExceeded)
	assert.Equal(t, 0.0, o.Value)
	assert.GreaterOrEqual(t, o.Elapsed, cfg.Timeout)
}

func TestEvaluatePanic(t *testing.T) {
	h := &difftest.Harness{
		Config: testConfig(1),
		Engine: func(string) (float64, error) { panic("boom") },
	}
	o := h.Evaluate(context.Background(), "1")
	assert.True(t, o.Panicked)
	require.Error(t, o.Err)
	assert.Contains(t, o.Err.Error(), "boom")
	assert.Equal(t, 0.0, o.Value)
}

func TestRunTimeouts(t *testing.T) {
	release := make(chan struct{})
	defer close(release)
	cfg := testConfig(4)
	cfg.Timeout = 10 * time.Millisecond
	h := &difftest.Harness{
		Config: cfg,
		Engine: func(string) (float64, error) {
			<-release
			return 1, nil
		},
	}
	rep, err := h.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, rep.Stats.TimedOut)
	assert.Equal(t, 2, rep.Stats.Wrong)
	assert.Equal(t, 2, rep.Stats.Unhandled)
	assert.Equal(t, 0, rep.Stats.Missing)
}
