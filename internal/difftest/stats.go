package difftest

import "math"

// Verdict classifies one run.
type Verdict string

const (
	// Correct is a good run on which both engines agree.
	Correct Verdict = "correct"
	// Wrong is a good run on which the engines disagree, or on which the
	// calculator timed out or panicked.
	Wrong Verdict = "wrong"
	// Handled is a corrupted run which the calculator rejected with an
	// error, or on which both engines still agree.
	Handled Verdict = "handled"
	// Unhandled is a corrupted run on which the calculator produced a
	// disagreeing value, timed out, or panicked.
	Unhandled Verdict = "unhandled"
)

// Agree reports whether a calculator result matches an oracle result within
// relative tolerance tol. NaN agrees only with NaN, an infinity only with
// itself, and zero only with zero.
func Agree(oracle, calc, tol float64) bool {
	switch {
	case math.IsNaN(oracle) || math.IsNaN(calc):
		return math.IsNaN(oracle) && math.IsNaN(calc)
	case oracle == calc:
		return true
	case math.IsInf(oracle, 0) || math.IsInf(calc, 0):
		return false
	case oracle == 0 || calc == 0:
		return false
	}
	return math.Abs(oracle-calc) <= tol*math.Max(math.Abs(oracle), math.Abs(calc))
}

// Classify determines the verdict of a finished run.
func Classify(rec *Record, tol float64) Verdict {
	agree := Agree(float64(rec.Expected), float64(rec.Actual), tol)
	if rec.Good {
		if agree && !rec.TimedOut && !rec.Panicked {
			return Correct
		}
		return Wrong
	}
	switch {
	case rec.TimedOut, rec.Panicked:
		return Unhandled
	case rec.EngineError != "", agree:
		return Handled
	}
	return Unhandled
}

// Stats summarizes a session.
type Stats struct {
	// Runs is the number of runs requested; Good and Bad split it into
	// untouched and corrupted runs.
	Runs int `json:"runs"`
	Good int `json:"good"`
	Bad  int `json:"bad"`
	// Missing counts runs that never finished because the session was
	// cancelled.
	Missing int `json:"missing"`

	Correct   int `json:"correct"`
	Wrong     int `json:"wrong"`
	Handled   int `json:"handled"`
	Unhandled int `json:"unhandled"`

	TimedOut     int `json:"timed_out"`
	Panicked     int `json:"panicked"`
	OracleErrors int `json:"oracle_errors"`

	// Accuracy is the share of finished good runs that were correct and
	// ErrorRate its complement.
	Accuracy  float64 `json:"accuracy"`
	ErrorRate float64 `json:"error_rate"`
	// HandledRate and UnhandledRate are shares of all requested bad runs.
	HandledRate   float64 `json:"handled_rate"`
	UnhandledRate float64 `json:"unhandled_rate"`
	// PassRate is the share of all requested runs that were correct or
	// handled.
	PassRate float64 `json:"pass_rate"`
}

// Summarize computes session statistics for runs requested runs. Records
// with a zero Run were never finished. Bad runs that never finished count as
// unhandled, so Handled+Unhandled always equals the requested bad count.
func Summarize(records []Record, runs int) Stats {
	s := Stats{Runs: runs, Good: (runs + 1) / 2, Bad: runs / 2}
	finished := 0
	for i := range records {
		rec := &records[i]
		if rec.Run == 0 {
			continue
		}
		finished++
		switch rec.Verdict {
		case Correct:
			s.Correct++
		case Wrong:
			s.Wrong++
		case Handled:
			s.Handled++
		}
		if rec.TimedOut {
			s.TimedOut++
		}
		if rec.Panicked {
			s.Panicked++
		}
		if rec.OracleError != "" {
			s.OracleErrors++
		}
	}
	s.Missing = runs - finished
	s.Unhandled = s.Bad - s.Handled
	s.Accuracy = ratio(s.Correct, s.Correct+s.Wrong)
	if s.Correct+s.Wrong > 0 {
		s.ErrorRate = 1 - s.Accuracy
	}
	s.HandledRate = ratio(s.Handled, s.Bad)
	s.UnhandledRate = ratio(s.Unhandled, s.Bad)
	s.PassRate = ratio(s.Correct+s.Handled, s.Runs)
	return s
}

func ratio(a, b int) float64 {
	if b == 0 {
		return 0
	}
	return float64(a) / float64(b)
}
