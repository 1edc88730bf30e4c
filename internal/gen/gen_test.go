package gen_test

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/zephyrtronium/prefixcalc"
	"github.com/zephyrtronium/prefixcalc/internal/gen"
	"github.com/zephyrtronium/prefixcalc/internal/oracle"
)

func same(a, b float64) bool {
	switch {
	case math.IsNaN(a) || math.IsNaN(b):
		return math.IsNaN(a) && math.IsNaN(b)
	case a == b:
		return true
	case math.IsInf(a, 0) || math.IsInf(b, 0):
		return false
	default:
		return math.Abs(a-b) <= 1e-9*math.Max(math.Abs(a), math.Abs(b))
	}
}

func TestOracleAgrees(t *testing.T) {
	cases := []struct {
		name       string
		complexity gen.Complexity
		stream     uint64
	}{
		{"low", gen.Low, 1},
		{"high", gen.High, 4},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			const n = 300
			agree := 0
			for seed := uint64(0); seed < n; seed++ {
				r := rand.New(rand.NewPCG(seed, c.stream))
				e := gen.NewBuilder(r).Build(25+r.IntN(76), c.complexity)
				want, err := oracle.EvalString(e.Oracle)
				if !assert.NoError(t, err, "%q", e.Oracle) {
					continue
				}
				got, err := prefixcalc.EvalString(e.Raw)
				if err != nil {
					t.Logf("calculator failed on %q: %v", e.Raw, err)
					continue
				}
				if same(want, got) {
					agree++
				} else {
					t.Logf("disagreement on %q: oracle %v, calculator %v", e.Raw, want, got)
				}
			}
			assert.GreaterOrEqual(t, agree, n*99/100)
		})
	}
}

func TestOracleParsesHigh(t *testing.T) {
	for seed := uint64(0); seed < 300; seed++ {
		r := rand.New(rand.NewPCG(seed, 2))
		e := gen.NewBuilder(r).Build(25+r.IntN(76), gen.High)
		_, err := oracle.Parse(e.Oracle)
		assert.NoError(t, err, "%q from %q", e.Oracle, e.Raw)
	}
}

func TestCorruptionDetected(t *testing.T) {
	const n = 200
	rejected := 0
	for seed := uint64(0); seed < n; seed++ {
		r := rand.New(rand.NewPCG(seed, 3))
		e := gen.NewBuilder(r).Build(25+r.IntN(76), gen.Complexity(seed%2))
		bad := gen.Corrupt(e.Raw, gen.DefaultCorruptRatio, r)
		if _, err := prefixcalc.Compile(bad); err != nil {
			rejected++
		}
	}
	assert.GreaterOrEqual(t, rejected, n*9/10)
}
