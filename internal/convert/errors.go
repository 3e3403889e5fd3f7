package convert

import "fmt"

// ExecutionError reports a dcm2niix run that could not deliver its output:
// either the binary exited non-zero or a requested single-file output was
// never produced.
type ExecutionError struct {
	Code   int
	Stderr string
	Reason string
}

func (e *ExecutionError) Error() string {
	if e.Reason != "" {
		return "dcm2niix: " + e.Reason
	}
	return fmt.Sprintf("dcm2niix exited with code %d", e.Code)
}
