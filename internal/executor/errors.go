package executor

import "fmt"

// ExecutionError reports a failed external run: non-zero exit, a missing
// output artifact, or an abort recorded in the run log. It is surfaced to
// the host as a solve failure and never retried here.
type ExecutionError struct {
	Deck     string // deck file name
	ExitCode int    // -1 when the process did not run or was killed
	Detail   string
	Err      error
}

func (e *ExecutionError) Error() string {
	msg := fmt.Sprintf("dragon run on %s failed: %s", e.Deck, e.Detail)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ExecutionError) Unwrap() error {
	return e.Err
}
