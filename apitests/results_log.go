package apitests

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// ResultsLog is a flat append-only text log of case results, one block per case. The
// file is opened in append mode so that successive runs accumulate rather than
// overwrite; it is a durable record, not a report.
type ResultsLog struct {
	file *os.File
	now  func() time.Time
}

func OpenResultsLog(path string) (*ResultsLog, error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644) //nolint:gosec
	if err != nil {
		return nil, fmt.Errorf("could not open results log %q: %w", path, err)
	}
	return &ResultsLog{file: f, now: time.Now}, nil
}

// Record appends one block describing the outcome. Blocks are self-contained: each one
// repeats the case name, timestamp, request, response, expectation, and verdict.
func (l *ResultsLog) Record(outcome CaseOutcome) error {
	var b strings.Builder
	fmt.Fprintf(&b, "Test: %s\n", outcome.CaseName)
	fmt.Fprintf(&b, "Time: %s\n", l.now().Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "URL: %s\n", outcome.Result.URL)
	fmt.Fprintf(&b, "Payload: %s\n", outcome.Result.SentBody)
	if outcome.Result.TransportError.IsDefined() {
		fmt.Fprintf(&b, "Error: %s\n", outcome.Result.TransportError.Value())
	} else {
		fmt.Fprintf(&b, "Status Code: %d\n", outcome.Result.Status.OrElse(0))
		fmt.Fprintf(&b, "Response: %s\n", outcome.Result.ResponseText.OrElse(""))
	}
	if outcome.Expect.Status.IsDefined() {
		fmt.Fprintf(&b, "Expected Status Code: %d\n", outcome.Expect.Status.Value())
	}
	if outcome.Expect.Contains.IsDefined() {
		fmt.Fprintf(&b, "Expected Response Contains: %s\n", outcome.Expect.Contains.Value())
	}
	verdict := "FAILED"
	if outcome.Passed {
		verdict = "PASSED"
	}
	fmt.Fprintf(&b, "Test Result: %s\n", verdict)
	b.WriteString(strings.Repeat("-", 50) + "\n")

	_, err := l.file.WriteString(b.String())
	return err
}

func (l *ResultsLog) Close() error {
	return l.file.Close()
}
