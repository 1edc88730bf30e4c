package difftest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/fatih/color"
	"github.com/google/uuid"
)

// Value is a result that encodes to JSON even when it is NaN or infinite.
// Non-finite values encode as the strings "NaN", "+Inf", and "-Inf".
type Value float64

// MarshalJSON implements json.Marshaler.
func (v Value) MarshalJSON() ([]byte, error) {
	f := float64(v)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return strconv.AppendQuote(nil, strconv.FormatFloat(f, 'g', -1, 64)), nil
	}
	return strconv.AppendFloat(nil, f, 'g', -1, 64), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (v *Value) UnmarshalJSON(b []byte) error {
	s := string(b)
	if u, err := strconv.Unquote(s); err == nil {
		s = u
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("decode value %s: %w", b, err)
	}
	*v = Value(f)
	return nil
}

// Report is the result of a session.
type Report struct {
	ID       uuid.UUID     `json:"id"`
	Started  time.Time     `json:"started"`
	Duration time.Duration `json:"duration_ns"`
	Config   Config        `json:"config"`
	Stats    Stats         `json:"stats"`
	// Records holds finished runs in run order.
	Records []Record `json:"records"`
}

// WriteJSON writes the report as indented JSON.
func (r *Report) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return nil
}

// ExportToJSON writes the report to a JSON file.
func (r *Report) ExportToJSON(filename string) error {
	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create JSON file: %w", err)
	}
	if err := r.WriteJSON(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write JSON file: %w", err)
	}
	return nil
}

// PrintSummary writes a human-readable summary. When verbose, every run that
// was wrong or unhandled is listed as well.
func (r *Report) PrintSummary(w io.Writer, verbose bool) {
	s := r.Stats
	fmt.Fprint(w, "\n"+color.CyanString("=== Differential Test Summary ===\n"))
	fmt.Fprintf(w, "Session: %s\n", r.ID)
	fmt.Fprintf(w, "Seed: %d\n", r.Config.Seed)
	fmt.Fprintf(w, "Duration: %v\n\n", r.Duration.Round(time.Millisecond))

	writeTable(w, []row{
		{text: "Expressions\tRuns\tPassed\tFailed\tRate"},
		{text: "-----------\t----\t------\t------\t----"},
		{
			text:  fmt.Sprintf("Good\t%d\t%d\t%d\t%.2f%%", s.Good, s.Correct, s.Wrong, 100*s.Accuracy),
			paint: rate(s.Accuracy, 0.99),
		},
		{
			text:  fmt.Sprintf("Corrupted\t%d\t%d\t%d\t%.2f%%", s.Bad, s.Handled, s.Unhandled, 100*s.HandledRate),
			paint: rate(s.HandledRate, 0.99),
		},
		{
			text:  fmt.Sprintf("Total\t%d\t%d\t%d\t%.2f%%", s.Runs, s.Correct+s.Handled, s.Runs-s.Correct-s.Handled, 100*s.PassRate),
			paint: rate(s.PassRate, 0.99),
		},
	})

	fmt.Fprint(w, "\n"+color.GreenString("Rates:\n"))
	fmt.Fprintf(w, "  Accuracy:          %6.2f%%\n", 100*s.Accuracy)
	fmt.Fprintf(w, "  Error rate:        %6.2f%%\n", 100*s.ErrorRate)
	fmt.Fprintf(w, "  Handled failures:  %6.2f%%\n", 100*s.HandledRate)
	fmt.Fprintf(w, "  Unhandled failures:%6.2f%%\n", 100*s.UnhandledRate)
	if s.TimedOut+s.Panicked+s.Missing > 0 {
		fmt.Fprint(w, "\n"+color.YellowString("Timed out: %d  Panicked: %d  Missing: %d\n", s.TimedOut, s.Panicked, s.Missing))
	}

	if !verbose {
		return
	}
	fmt.Fprint(w, "\n"+color.GreenString("Failures:\n"))
	rows := []row{{text: "Run\tVerdict\tExpected\tActual\tInput"}}
	for _, rec := range r.Records {
		if rec.Verdict != Wrong && rec.Verdict != Unhandled {
			continue
		}
		actual := strconv.FormatFloat(float64(rec.Actual), 'g', -1, 64)
		if rec.EngineError != "" {
			actual = rec.EngineError
		}
		rows = append(rows, row{
			text:  fmt.Sprintf("%d\tFAIL\t%g\t%s\t%s", rec.Run, float64(rec.Expected), actual, rec.Input),
			paint: color.RedString,
		})
	}
	writeTable(w, rows)
}

// row is a line of a table. Cells in text are separated by tabs. If paint is
// not nil, the row is colored with it after alignment.
type row struct {
	text  string
	paint func(format string, a ...interface{}) string
}

// writeTable aligns rows into columns and then colors them, so that escape
// codes do not count toward column widths.
func writeTable(w io.Writer, rows []row) {
	var buf bytes.Buffer
	tw := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0)
	for _, r := range rows {
		fmt.Fprintln(tw, r.text)
	}
	tw.Flush()
	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	for i, line := range lines {
		if i < len(rows) && rows[i].paint != nil {
			line = rows[i].paint("%s", line)
		}
		fmt.Fprintln(w, line)
	}
}

// rate picks green for a fraction that meets good and red otherwise.
func rate(f, good float64) func(format string, a ...interface{}) string {
	if f >= good {
		return color.GreenString
	}
	return color.RedString
}
