package prefixcalc_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zephyrtronium/prefixcalc"
)

func TestCalculate(t *testing.T) {
	cases := []struct {
		src  string
		want string
	}{
		{"1+2", "3"},
		{"1/3", "0.3333333333"},
		{"2^0.5", "1.4142135623"},
		{"10^20", "1e+20"},
		{"-1/8", "-0.125"},
		{"1/0", "+Inf"},
		{"99999*10", "999990"},
		{"1000*1000", "1e+06"},
		{"123456789*10000", "1.23456789e+"},
	}
	for _, c := range cases {
		t.Run(c.src, func(t *testing.T) {
			var msgs []string
			got, err := prefixcalc.Calculate(c.src, func(msg string) { msgs = append(msgs, msg) })
			require.NoError(t, err)
			assert.Equal(t, c.want, got)
			assert.LessOrEqual(t, len(got), prefixcalc.DisplayWidth)
			assert.Empty(t, msgs)
		})
	}
}

func TestCalculateNaN(t *testing.T) {
	var msgs []string
	got, err := prefixcalc.Calculate("ln(-1)", func(msg string) { msgs = append(msgs, msg) })
	assert.Empty(t, got)
	var de *prefixcalc.DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "ln(-1)", de.Expr)
	assert.Equal(t, []string{prefixcalc.NaNMessage}, msgs)
}

func TestCalculateInvalid(t *testing.T) {
	var msgs []string
	got, err := prefixcalc.Calculate("(1+2", func(msg string) { msgs = append(msgs, msg) })
	assert.Empty(t, got)
	var ge *prefixcalc.GroupingError
	require.ErrorAs(t, err, &ge)
	assert.Equal(t, []string{"parenthesis error at index 0: ( with no matching )"}, msgs)
}

func TestCalculateNilNotifier(t *testing.T) {
	assert.NotPanics(t, func() {
		_, err := prefixcalc.Calculate("sqrt(-1)", nil)
		assert.Error(t, err)
		_, err = prefixcalc.Calculate("1+", nil)
		assert.Error(t, err)
	})
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", prefixcalc.Truncate("abc", 12))
	assert.Equal(t, "abcdefghijkl", prefixcalc.Truncate("abcdefghijklmnop", 12))
	assert.Equal(t, "", prefixcalc.Truncate("abc", 0))
}
