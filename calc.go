package prefixcalc

import (
	"math"
	"strconv"
)

// DisplayWidth is the maximum number of characters Calculate returns.
const DisplayWidth = 12

// NaNMessage is the notification sent when an expression evaluates to NaN.
const NaNMessage = "Evaluation is NaN. Error in expression."

// Notifier receives a user-facing message about a failed calculation.
type Notifier func(msg string)

// Calculate evaluates an expression for display. The result is formatted in
// the shortest representation that round-trips and truncated to DisplayWidth
// characters. If the expression is invalid or evaluates to NaN, Calculate
// calls notify once, if it is not nil, and returns an error. A NaN result
// gives a *DomainError.
func Calculate(expr string, notify Notifier) (string, error) {
	v, err := EvalString(expr)
	if err != nil {
		if notify != nil {
			notify(err.Error())
		}
		return "", err
	}
	if math.IsNaN(v) {
		if notify != nil {
			notify(NaNMessage)
		}
		return "", &DomainError{Expr: expr}
	}
	return Truncate(strconv.FormatFloat(v, 'g', -1, 64), DisplayWidth), nil
}

// Truncate returns the first n bytes of s, or s itself if it is shorter.
func Truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
