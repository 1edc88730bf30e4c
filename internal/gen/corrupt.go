package gen

import (
	"math"
	"math/rand/v2"
)

// DefaultCorruptRatio is the usual fraction of characters Corrupt replaces.
const DefaultCorruptRatio = 0.15

// BadChars are the symbols Corrupt writes. None of them is valid in an
// expression except as part of a function name.
const BadChars = "xce%!$_|&<>"

// Corrupt replaces characters of expr at evenly spaced indices, starting with
// the first, with random symbols from BadChars. The spacing is chosen so that
// about ratio of the characters are replaced. The result has the same length
// as expr. A ratio of zero or less leaves expr unchanged.
func Corrupt(expr string, ratio float64, r *rand.Rand) string {
	n := len(expr)
	if n == 0 || !(ratio > 0) {
		return expr
	}
	count := math.Ceil(float64(n) * ratio)
	step := int(math.Ceil(float64(n) / count))
	b := []byte(expr)
	for i := 0; i < n; i += step {
		b[i] = BadChars[r.IntN(len(BadChars))]
	}
	return string(b)
}
