package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zephyrtronium/prefixcalc"
	"github.com/zephyrtronium/prefixcalc/internal/difftest"
	"github.com/zephyrtronium/prefixcalc/internal/gen"
)

// execute runs the command line with args and stdin, returning stdout and
// stderr.
func execute(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestEval(t *testing.T) {
	out, errs, err := execute(t, "", "eval", "2*(3+4)", "1/3", "2^3^2")
	require.NoError(t, err)
	assert.Equal(t, "14\n0.3333333333\n64\n", out)
	assert.Empty(t, errs)
}

func TestEvalFull(t *testing.T) {
	out, _, err := execute(t, "", "eval", "--full", "1/3", "sqrt(0-1)")
	require.NoError(t, err)
	assert.Equal(t, "0.3333333333333333\nNaN\n", out)
}

func TestEvalStdin(t *testing.T) {
	out, _, err := execute(t, "1+1\n\n  3*3  \n", "eval")
	require.NoError(t, err)
	assert.Equal(t, "2\n9\n", out)
}

func TestEvalFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "exprs.txt")
	require.NoError(t, os.WriteFile(path, []byte("4/2\n"), 0o644))
	out, _, err := execute(t, "", "eval", "--in", path)
	require.NoError(t, err)
	assert.Equal(t, "2\n", out)
}

func TestEvalFailures(t *testing.T) {
	out, errs, err := execute(t, "", "eval", "(1+2", "1+1", "sqrt(0-1)")
	require.Error(t, err)
	assert.Equal(t, "2 of 3 expressions failed", err.Error())
	assert.Equal(t, "2\n", out)
	assert.Contains(t, errs, "parenthesis error at index 0")
	assert.Contains(t, errs, prefixcalc.NaNMessage)
}

func TestEvalEcho(t *testing.T) {
	out, _, err := execute(t, "", "eval", "--echo", "2*(3+4)")
	require.NoError(t, err)
	assert.Equal(t, "*'2'+'3''4' : 14\n", out)
}

func TestCompile(t *testing.T) {
	out, errs, err := execute(t, "", "compile", "2*(3+4)", "foo(1)")
	require.Error(t, err)
	assert.Equal(t, "*'2'+'3''4'\n", out)
	assert.Contains(t, errs, `unknown function "foo"`)
}

func TestGen(t *testing.T) {
	out, _, err := execute(t, "", "gen", "-n", "5", "--seed", "3", "--min-cycles", "2", "--max-cycles", "10")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	require.Len(t, lines, 5)
	for _, line := range lines {
		_, err := prefixcalc.Compile(line)
		assert.NoError(t, err, "%q", line)
	}
	again, _, err := execute(t, "", "gen", "-n", "5", "--seed", "3", "--min-cycles", "2", "--max-cycles", "10")
	require.NoError(t, err)
	assert.Equal(t, out, again)
}

func TestGenOracle(t *testing.T) {
	out, _, err := execute(t, "", "gen", "-n", "3", "--complexity", "low", "--oracle")
	require.NoError(t, err)
	for _, line := range strings.Split(strings.TrimSuffix(out, "\n"), "\n") {
		raw, orc, ok := strings.Cut(line, "\t")
		require.True(t, ok, "%q", line)
		assert.Equal(t, gen.ToOracle(raw), orc)
	}
}

func TestGenBadFlags(t *testing.T) {
	_, _, err := execute(t, "", "gen", "--complexity", "extreme")
	assert.EqualError(t, err, `unknown complexity "extreme"`)
	_, _, err = execute(t, "", "gen", "--min-cycles", "5", "--max-cycles", "4")
	assert.Error(t, err)
}

func TestDifftest(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.json")
	out, _, err := execute(t, "", "difftest", "--runs", "8", "--seed", "5", "--workers", "2", "--out", path, "--log-level", "error")
	require.NoError(t, err)
	assert.Contains(t, out, "Differential Test Summary")
	assert.Contains(t, out, "Seed: 5")

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	var rep difftest.Report
	require.NoError(t, json.Unmarshal(b, &rep))
	assert.Equal(t, 8, rep.Stats.Runs)
	assert.Equal(t, 0, rep.Stats.Missing)
	assert.Len(t, rep.Records, 8)
	assert.Equal(t, "error", rep.Config.LogLevel)
}

func TestDifftestConfig(t *testing.T) {
	dir := t.TempDir()
	cfg := filepath.Join(dir, "difftest.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("runs: 4\nmin_cycles: 1\nmax_cycles: 3\nlog_level: error\n"), 0o644))
	path := filepath.Join(dir, "report.json")
	_, _, err := execute(t, "", "difftest", "--config", cfg, "--out", path)
	require.NoError(t, err)
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	var rep difftest.Report
	require.NoError(t, json.Unmarshal(b, &rep))
	assert.Equal(t, 4, rep.Stats.Runs)
	for _, rec := range rep.Records {
		assert.LessOrEqual(t, rec.Cycles, 3)
	}
}

func TestDifftestInvalid(t *testing.T) {
	_, _, err := execute(t, "", "difftest", "--runs", "0")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid config")
}
