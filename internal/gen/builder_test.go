package gen

import (
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zephyrtronium/prefixcalc"
)

func TestBuildWellFormed(t *testing.T) {
	for seed := uint64(0); seed < 200; seed++ {
		r := rand.New(rand.NewPCG(seed, 0))
		b := NewBuilder(r)
		for _, c := range []Complexity{Low, High} {
			e := b.Build(r.IntN(101), c)
			assert.Empty(t, b.groups, "seed %d: open groups after %q", seed, e.Raw)
			assert.Empty(t, b.egroups, "seed %d: open exponent groups after %q", seed, e.Raw)
			assert.Equal(t, c, e.Complexity)
			p, err := prefixcalc.Compile(e.Raw)
			require.NoError(t, err, "seed %d: %q", seed, e.Raw)
			_, err = prefixcalc.Evaluate(p)
			require.NoError(t, err, "seed %d: %q compiled to %q", seed, e.Raw, p)
		}
	}
}

func TestBuildZeroCycles(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))
	b := NewBuilder(r)
	for i := 0; i < 100; i++ {
		e := b.Build(0, High)
		require.NotEmpty(t, e.Raw)
		_, err := prefixcalc.Compile(e.Raw)
		require.NoError(t, err, "%q", e.Raw)
	}
}

func TestBuildVocabulary(t *testing.T) {
	r := rand.New(rand.NewPCG(3, 4))
	b := NewBuilder(r)
	for i := 0; i < 200; i++ {
		e := b.Build(50, Low)
		assert.NotContains(t, e.Raw, "/")
		assert.NotContains(t, e.Raw, "^")
		assert.NotContains(t, e.Raw, "ln")
		assert.NotContains(t, e.Raw, "sqrt")
		assert.Equal(t, strings.NewReplacer("{", "(", "}", ")").Replace(e.Raw), e.Oracle)
	}
}

func TestBuildDeterministic(t *testing.T) {
	a := NewBuilder(rand.New(rand.NewPCG(7, 7)))
	b := NewBuilder(rand.New(rand.NewPCG(7, 7)))
	for i := 0; i < 20; i++ {
		assert.Equal(t, a.Build(60, High), b.Build(60, High))
	}
}

func TestNumber(t *testing.T) {
	b := NewBuilder(rand.New(rand.NewPCG(5, 6)))
	for i := 0; i < 1000; i++ {
		n := string(b.number(nil))
		require.NotEmpty(t, n)
		assert.LessOrEqual(t, strings.Count(n, "."), 1, "%q", n)
		assert.False(t, strings.HasSuffix(n, "."), "%q", n)
		assert.Equal(t, NumberEnd, b.nstate)
	}
}

func TestExponent(t *testing.T) {
	b := NewBuilder(rand.New(rand.NewPCG(8, 9)))
	b.v = &vocabularies[High]
	for i := 0; i < 500; i++ {
		x := string(b.exponent())
		assert.NotContains(t, x, "^")
		assert.Empty(t, b.egroups)
		_, err := prefixcalc.Compile(x)
		require.NoError(t, err, "%q", x)
	}
}

func TestStateStrings(t *testing.T) {
	assert.Equal(t, "NumberAfterDecimal", NumberAfterDecimal.String())
	assert.Equal(t, "ExpCleanup", ExpCleanup.String())
	assert.Equal(t, "ExponentOperator", ExponentOperator.String())
	assert.Equal(t, "high", High.String())
	assert.Equal(t, "ExpressionState(99)", ExpressionState(99).String())
}
